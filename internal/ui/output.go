package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Format is an output format for projected results
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
	FormatText  Format = "text"
)

// Formats lists the supported output formats
var Formats = []Format{FormatJSON, FormatYAML, FormatTable, FormatText}

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (expected json, yaml, table or text)", s)
}

// Printer renders projected results to a writer
type Printer struct {
	out    io.Writer
	format Format
	query  *gojq.Code
}

// NewPrinter creates a printer. query is an optional jq expression applied
// to each result before formatting.
func NewPrinter(out io.Writer, format string, query string) (*Printer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	p := &Printer{out: out, format: f}
	if query != "" {
		parsed, err := gojq.Parse(query)
		if err != nil {
			return nil, fmt.Errorf("failed to parse query: %w", err)
		}
		code, err := gojq.Compile(parsed)
		if err != nil {
			return nil, fmt.Errorf("failed to compile query: %w", err)
		}
		p.query = code
	}
	return p, nil
}

// Print renders v. SDK response metadata is dropped.
func (p *Printer) Print(v any) error {
	doc, err := normalize(v)
	if err != nil {
		return err
	}

	if p.query == nil {
		return p.render(doc)
	}

	iter := p.query.Run(doc)
	for {
		result, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := result.(error); ok {
			return fmt.Errorf("query failed: %w", err)
		}
		if err := p.render(result); err != nil {
			return err
		}
	}
}

func (p *Printer) render(doc any) error {
	switch p.format {
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = p.out.Write(data)
		return err
	case FormatText:
		return writeText(p.out, doc)
	case FormatTable:
		return writeTable(p.out, doc)
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	}
}

// normalize converts v into plain JSON values (maps, slices, strings,
// float64, bool, nil) so every format and the query engine see the same shape.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if m, ok := doc.(map[string]any); ok {
		delete(m, "ResultMetadata")
	}
	return doc, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeText prints scalars bare, lists one item per line and objects as
// tab separated key/value lines.
func writeText(w io.Writer, doc any) error {
	switch val := doc.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range val {
			if err := writeText(w, item); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, k := range sortedKeys(val) {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", k, scalarString(val[k])); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, scalarString(val))
		return err
	}
}

// writeTable renders a list of objects with one column per scalar field, an
// object as a field/value table, and anything else as text.
func writeTable(w io.Writer, doc any) error {
	switch val := doc.(type) {
	case []any:
		if len(val) == 0 {
			return nil
		}
		columns := tableColumns(val)
		if columns == nil {
			return writeText(w, val)
		}
		t := NewTable(columns...)
		t.Styles[0] = NameStyle
		for _, item := range val {
			obj, _ := item.(map[string]any)
			row := make([]string, len(columns))
			for i, c := range columns {
				row[i] = scalarString(obj[c])
			}
			t.AddRow(row...)
		}
		return t.Print(w)
	case map[string]any:
		if list, ok := soleList(val); ok {
			return writeTable(w, list)
		}
		t := NewTable("Field", "Value")
		t.Styles[0] = NameStyle
		for _, k := range sortedKeys(val) {
			t.AddRow(k, scalarString(val[k]))
		}
		return t.Print(w)
	default:
		return writeText(w, val)
	}
}

// soleList finds the one list in an object whose other fields are all null,
// e.g. {"Stacks": [...], "NextToken": null}.
func soleList(obj map[string]any) ([]any, bool) {
	var found []any
	for _, v := range obj {
		switch inner := v.(type) {
		case nil:
		case []any:
			if found != nil {
				return nil, false
			}
			found = inner
		default:
			return nil, false
		}
	}
	return found, found != nil
}

// tableColumns returns the sorted union of scalar fields across a list of
// objects, or nil when the list holds non-objects.
func tableColumns(items []any) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		for k, v := range obj {
			if isScalar(v) {
				seen[k] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	// Name and Arn lead when present
	for _, lead := range []string{"Arn", "Name"} {
		for i, c := range columns {
			if c == lead {
				columns = append([]string{c}, append(columns[:i:i], columns[i+1:]...)...)
				break
			}
		}
	}
	return columns
}
