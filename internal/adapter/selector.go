package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidSelector is returned when a selector does not resolve to a
// response field or an operation parameter
var ErrInvalidSelector = errors.New("invalid selector")

// SelectorKind tags the variant held by a Selector
type SelectorKind int

const (
	// SelectDefault defers to the descriptor's default selector.
	SelectDefault SelectorKind = iota
	// SelectFull returns the whole response.
	SelectFull
	// SelectField returns one top-level response field.
	SelectField
	// SelectParam echoes the bound value of an input parameter.
	SelectParam
)

const (
	wildcard    = "*"
	paramPrefix = "^"
)

// Selector determines which part of a response becomes the output of an
// invocation
type Selector struct {
	Kind SelectorKind
	Name string
}

// String renders the selector in its command line form
func (s Selector) String() string {
	switch s.Kind {
	case SelectFull:
		return wildcard
	case SelectField:
		return s.Name
	case SelectParam:
		return paramPrefix + s.Name
	default:
		return ""
	}
}

// ParseSelector parses a selector expression: "" (default), "*" (whole
// response), "^Param" (echo a bound parameter) or a response field name
func ParseSelector(expr string) (Selector, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return Selector{Kind: SelectDefault}, nil
	case expr == wildcard:
		return Selector{Kind: SelectFull}, nil
	case strings.HasPrefix(expr, paramPrefix):
		name := strings.TrimSpace(strings.TrimPrefix(expr, paramPrefix))
		if name == "" {
			return Selector{}, fmt.Errorf("%w: %q names no parameter", ErrInvalidSelector, expr)
		}
		return Selector{Kind: SelectParam, Name: name}, nil
	case strings.ContainsAny(expr, " .*^"):
		return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, expr)
	default:
		return Selector{Kind: SelectField, Name: expr}, nil
	}
}

// resolveSelector turns expr into a concrete selector for d. Field and
// parameter names are checked here, once, and canonicalized.
func resolveSelector[C any](d *Descriptor[C], expr string) (Selector, error) {
	sel, err := ParseSelector(expr)
	if err != nil {
		return Selector{}, err
	}

	if sel.Kind == SelectDefault {
		if d.DefaultSelect == "" {
			return Selector{Kind: SelectFull}, nil
		}
		sel, err = ParseSelector(d.DefaultSelect)
		if err != nil {
			return Selector{}, fmt.Errorf("operation %s: default %w", d.Name, err)
		}
		if sel.Kind == SelectDefault {
			return Selector{Kind: SelectFull}, nil
		}
	}

	switch sel.Kind {
	case SelectParam:
		p, ok := d.Param(sel.Name)
		if !ok {
			return Selector{}, fmt.Errorf("%w: %s has no parameter %q", ErrInvalidSelector, d.Name, sel.Name)
		}
		sel.Name = p.Name
	case SelectField:
		name, ok := responseField(d.ResponseType, sel.Name)
		if !ok {
			return Selector{}, fmt.Errorf("%w: %s response has no field %q", ErrInvalidSelector, d.Name, sel.Name)
		}
		sel.Name = name
	}

	return sel, nil
}

// ResolveSelector resolves expr against d without binding any values. It
// lets callers reject a bad --select before running a batch.
func (d *Descriptor[C]) ResolveSelector(expr string) (Selector, error) {
	return resolveSelector(d, expr)
}

func responseField(t reflect.Type, name string) (string, bool) {
	if t == nil {
		return "", false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && !f.Anonymous && strings.EqualFold(f.Name, name) {
			return f.Name, true
		}
	}
	return "", false
}

// Select projects response through sel. values holds the bound input
// parameters used by SelectParam.
func Select(response any, sel Selector, values map[string]any) (any, error) {
	switch sel.Kind {
	case SelectFull, SelectDefault:
		return response, nil

	case SelectParam:
		return values[sel.Name], nil

	case SelectField:
		v := reflect.ValueOf(response)
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%w: cannot select %q from %T", ErrInvalidSelector, sel.Name, response)
		}
		f := v.FieldByName(sel.Name)
		if !f.IsValid() {
			return nil, fmt.Errorf("%w: %T has no field %q", ErrInvalidSelector, response, sel.Name)
		}
		return f.Interface(), nil

	default:
		return nil, fmt.Errorf("%w: unknown selector kind %d", ErrInvalidSelector, sel.Kind)
	}
}
