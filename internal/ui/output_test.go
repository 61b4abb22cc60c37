package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metadata struct{}

type fleet struct {
	Name         string
	Arn          string
	InstanceType string
	Desired      int
	Tags         map[string]string `json:",omitempty"`
	CreatedTime  *time.Time        `json:",omitempty"`
}

type describeFleetsOutput struct {
	Fleets         []fleet
	NextToken      *string
	ResultMetadata metadata
}

func sampleOutput() describeFleetsOutput {
	return describeFleetsOutput{
		Fleets: []fleet{
			{Name: "kiosk", Arn: "arn:aws:appstream:us-east-1:123:fleet/kiosk", InstanceType: "stream.standard.small", Desired: 2},
			{Name: "design", Arn: "arn:aws:appstream:us-east-1:123:fleet/design", InstanceType: "stream.graphics.g4dn.xlarge", Desired: 1, Tags: map[string]string{"team": "cad"}},
		},
	}
}

func printed(t *testing.T, format, query string, v any) string {
	t.Helper()
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, format, query)
	require.NoError(t, err)
	require.NoError(t, p.Print(v))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestPrinter_JSONDropsResultMetadata(t *testing.T) {
	out := printed(t, "json", "", sampleOutput())

	assert.Contains(t, out, `"Fleets"`)
	assert.Contains(t, out, `"kiosk"`)
	assert.NotContains(t, out, "ResultMetadata")
}

func TestPrinter_YAML(t *testing.T) {
	out := printed(t, "yaml", "", fleet{Name: "kiosk", Desired: 2})

	assert.Contains(t, out, "Name: kiosk\n")
	assert.Contains(t, out, "Desired: 2\n")
}

func TestPrinter_TextScalarAndList(t *testing.T) {
	assert.Equal(t, "https://stream.example/abc\n", printed(t, "text", "", "https://stream.example/abc"))
	assert.Equal(t, "a\nb\n", printed(t, "text", "", []string{"a", "b"}))
	assert.Equal(t, "", printed(t, "text", "", nil))
	assert.Equal(t, "Desired\t2\nName\tkiosk\n", printed(t, "text", "", map[string]any{"Name": "kiosk", "Desired": 2}))
}

func TestPrinter_Query(t *testing.T) {
	out := printed(t, "text", ".Fleets[].Name", sampleOutput())
	assert.Equal(t, "kiosk\ndesign\n", out)

	out = printed(t, "json", "[.Fleets[] | select(.Desired > 1) | .Name]", sampleOutput())
	assert.JSONEq(t, `["kiosk"]`, out)
}

func TestPrinter_QueryErrors(t *testing.T) {
	_, err := NewPrinter(&bytes.Buffer{}, "json", ".Fleets[")
	require.Error(t, err)

	p, err := NewPrinter(&bytes.Buffer{}, "json", `error("boom")`)
	require.NoError(t, err)
	err = p.Print(sampleOutput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestPrinter_TableFromWrappedList(t *testing.T) {
	out := printed(t, "table", "", sampleOutput())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// top border, header, separator, two rows, bottom border
	require.Len(t, lines, 6)
	header := lines[1]
	assert.Less(t, strings.Index(header, "Name"), strings.Index(header, "Arn"))
	assert.Contains(t, header, "InstanceType")
	assert.NotContains(t, header, "Tags")
	assert.Contains(t, lines[3], "kiosk")
	assert.Contains(t, lines[4], "design")
}

func TestPrinter_TableFromObject(t *testing.T) {
	out := printed(t, "table", "", fleet{Name: "kiosk", Desired: 2})
	assert.Contains(t, out, "Field")
	assert.Contains(t, out, "Desired")
	assert.Contains(t, out, "kiosk")
}

func TestTable_TruncatesWideCells(t *testing.T) {
	tbl := NewTable("Value")
	tbl.AddRow(strings.Repeat("x", 100))
	out := tbl.Render()
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, strings.Repeat("x", 49))
}
