// Package adapter runs a single remote operation described by a Descriptor:
// bind parameters, confirm mutations, dispatch through a client and project
// the response through a selector.
package adapter

import (
	"context"
	"reflect"
	"strings"
	"unicode"
)

// ParamKind describes how a parameter value is parsed from the command line
type ParamKind int

const (
	KindString ParamKind = iota
	KindInt
	KindBool
	KindStringList
	KindStringMap
	KindEnum
	KindJSON
)

// String returns the flag type name shown in help output
func (k ParamKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindStringList:
		return "strings"
	case KindStringMap:
		return "key=value"
	case KindEnum:
		return "enum"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Param describes one request field of an operation
type Param struct {
	Name       string // request field name, e.g. StackName
	Kind       ParamKind
	Required   bool
	Positional bool     // bound from the first positional argument
	Pipeline   bool     // accepts newline separated values from stdin
	Enum       []string // allowed values for KindEnum
	Usage      string
}

// Descriptor is the static description of one remote operation. C is the
// client type the operation is dispatched through.
type Descriptor[C any] struct {
	Name          string // service operation name, e.g. DescribeStacks
	Description   string
	Params        []Param
	DefaultSelect string // selector used when the caller gives none
	Mutating      bool
	Target        string // parameter identifying the resource in confirm prompts

	// NewRequest returns a pointer to a zero request value.
	NewRequest func() any
	// ResponseType is the struct type returned by Invoke (not the pointer).
	ResponseType reflect.Type
	// Invoke dispatches req through client.
	Invoke func(ctx context.Context, client C, req any) (any, error)
}

// Param returns the parameter with the given name
func (d *Descriptor[C]) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Param{}, false
}

// PipelineParam returns the parameter that accepts piped input, if any
func (d *Descriptor[C]) PipelineParam() (Param, bool) {
	for _, p := range d.Params {
		if p.Pipeline {
			return p, true
		}
	}
	return Param{}, false
}

// CommandName returns the kebab-case verb-noun command name, e.g.
// DescribeThemeForStack -> describe-theme-for-stack
func (d *Descriptor[C]) CommandName() string {
	return Kebab(d.Name)
}

// Kebab converts a CamelCase identifier into kebab-case. Runs of capitals
// are kept together, so StreamingURL becomes streaming-url.
func Kebab(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					sb.WriteByte('-')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
