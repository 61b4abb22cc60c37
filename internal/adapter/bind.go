package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnknownParameter is returned when a bound name matches no parameter of
// the operation
var ErrUnknownParameter = errors.New("unknown parameter")

// Invocation holds the values bound for one call of an operation. It is
// created by Bind and used by exactly one Execute.
type Invocation[C any] struct {
	Op       *Descriptor[C]
	Values   map[string]any
	Selector Selector
	Warnings []string
}

// Bind binds params to d and resolves the selector expression. A required
// parameter that is absent only produces a warning: the value is stored as
// given and the invocation still dispatches.
func Bind[C any](d *Descriptor[C], params map[string]any, selectExpr string, logger *log.Logger) (*Invocation[C], error) {
	sel, err := resolveSelector(d, selectExpr)
	if err != nil {
		return nil, err
	}

	inv := &Invocation[C]{
		Op:       d,
		Values:   make(map[string]any, len(params)),
		Selector: sel,
	}

	for name, value := range params {
		p, ok := d.Param(name)
		if !ok {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownParameter, name, d.Name)
		}
		inv.Values[p.Name] = value
	}

	for _, p := range d.Params {
		if !p.Required || !isAbsent(inv.Values[p.Name]) {
			continue
		}
		msg := fmt.Sprintf("required parameter %s is not set; %s is called without it", p.Name, d.Name)
		inv.Warnings = append(inv.Warnings, msg)
		if logger != nil {
			logger.Warn("required parameter missing", "operation", d.Name, "parameter", p.Name)
		}
	}

	return inv, nil
}

// Value returns the bound value of name, or nil
func (inv *Invocation[C]) Value(name string) any {
	if p, ok := inv.Op.Param(name); ok {
		return inv.Values[p.Name]
	}
	return nil
}

// Describe renders the resource the invocation acts on, for confirm prompts
func (inv *Invocation[C]) Describe() string {
	target := inv.Op.Target
	if target == "" {
		if p, ok := inv.Op.PipelineParam(); ok {
			target = p.Name
		}
	}
	if target != "" {
		if v := inv.Value(target); !isAbsent(v) {
			return fmt.Sprintf("%s (%s)", formatValue(v), inv.Op.Name)
		}
	}
	return inv.Op.Name
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// isAbsent reports whether v carries no value: nil, a nil pointer, slice,
// map or interface, or an empty string
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}
