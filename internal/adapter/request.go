package adapter

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ErrValueOutOfRange is returned when a numeric value does not fit the
// request field it is bound to
var ErrValueOutOfRange = errors.New("value out of range")

// buildRequest copies the bound values into req, a pointer to the
// operation's request struct. Absent values are skipped so unset optional
// fields stay nil instead of being sent as explicit empty values.
func buildRequest(req any, values map[string]any) error {
	input := make(map[string]any, len(values))
	for name, v := range values {
		if isAbsent(v) {
			continue
		}
		input[name] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           req,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
			rangeCheckHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create request decoder: %w", err)
	}

	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return nil
}

// rangeCheckHookFunc rejects numbers that would be narrowed when stored in
// a smaller integer field, e.g. an int64 flag value bound to an *int32.
func rangeCheckHookFunc() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		for to.Kind() == reflect.Pointer {
			to = to.Elem()
		}
		if overflows(reflect.ValueOf(data), to) {
			return nil, fmt.Errorf("%w: %v does not fit %s", ErrValueOutOfRange, data, to)
		}
		return data, nil
	}
}

func overflows(v reflect.Value, to reflect.Type) bool {
	target := reflect.New(to).Elem()

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return target.OverflowInt(v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return v.Uint() > math.MaxInt64 || target.OverflowInt(int64(v.Uint()))
		case reflect.Float32, reflect.Float64:
			f := v.Float()
			return math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return v.Int() < 0 || target.OverflowUint(uint64(v.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return target.OverflowUint(v.Uint())
		case reflect.Float32, reflect.Float64:
			f := v.Float()
			return math.IsNaN(f) || f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f))
		}
	}
	return false
}
