package mapper

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	bigIntType          = reflect.TypeOf(big.Int{})
	bigFloatType        = reflect.TypeOf(big.Float{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// ToRemote converts an object-model value to the shape the remote store
// expects: date/time values become epoch milliseconds in the local zone,
// text-marshalable values (the enum analog) become their symbolic string,
// collections pass through structurally and all other scalars unchanged.
func ToRemote(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.UnixMilli()
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UnixMilli()
	case encoding.TextMarshaler:
		if text, err := t.MarshalText(); err == nil {
			return string(text)
		}
	}
	return v
}

// FromRemote converts a raw remote value to the target type. The returned
// value is assignable to target, or nil when the value reduces to nothing.
// An error marks a genuine coercion failure (bad enum text, unparsable
// number); callers hydrating records treat those per field.
func FromRemote(raw any, target reflect.Type) (any, error) {
	if raw == nil || target == nil {
		return nil, nil
	}
	if reflect.TypeOf(raw).AssignableTo(target) {
		return raw, nil
	}

	switch {
	case target.Kind() == reflect.Pointer:
		inner, err := FromRemote(raw, target.Elem())
		if err != nil || inner == nil {
			return nil, err
		}
		if !reflect.TypeOf(inner).AssignableTo(target.Elem()) {
			return nil, fmt.Errorf("mapper: cannot assign %T to %s", inner, target)
		}
		p := reflect.New(target.Elem())
		p.Elem().Set(reflect.ValueOf(inner))
		return p.Interface(), nil

	case target == timeType:
		return toTime(ExtractScalar(raw))

	case target == bigIntType, target == bigFloatType:
		return toBig(ExtractScalar(raw), target)

	case target.Kind() == reflect.String:
		s := ExtractText(raw)
		if s == nil {
			return nil, nil
		}
		return reflect.ValueOf(*s).Convert(target).Interface(), nil

	case reflect.PointerTo(target).Implements(textUnmarshalerType):
		return fromText(ExtractScalar(raw), target)
	}

	scalar := raw
	switch target.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		// collection targets take the raw value unconverted
		return raw, nil
	default:
		scalar = ExtractScalar(raw)
	}
	if scalar == nil {
		return nil, nil
	}
	if reflect.TypeOf(scalar).AssignableTo(target) {
		return scalar, nil
	}

	s := strings.TrimSpace(scalarString(scalar))
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mapper: cannot parse %q as %s: %w", s, target, err)
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mapper: cannot parse %q as %s: %w", s, target, err)
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil

	case reflect.Float32, reflect.Float64:
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("mapper: cannot parse %q as %s: %w", s, target, err)
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil

	case reflect.Bool:
		if b, ok := scalar.(bool); ok {
			return b, nil
		}
		return s == "1" || strings.EqualFold(s, "true"), nil
	}
	return raw, nil
}

// ExtractText flattens a raw value to a display string: wrapped objects
// contribute text, else name, else id, else their first value; lists join
// multiple extracted entries with a comma. Nil yields nil.
func ExtractText(raw any) *string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return &v
	case map[string]any:
		inner := extractFromMap(v)
		if inner == nil {
			return nil
		}
		s := scalarString(inner)
		return &s
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if extracted := ExtractScalar(item); extracted != nil {
				values = append(values, scalarString(extracted))
			}
		}
		switch len(values) {
		case 0:
			return nil
		case 1:
			return &values[0]
		default:
			joined := strings.Join(values, ",")
			return &joined
		}
	}
	s := scalarString(raw)
	return &s
}

// ExtractScalar reduces a wrapped object or list to its first meaningful
// scalar, without the text-specific comma join.
func ExtractScalar(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		return extractFromMap(v)
	case []any:
		for _, item := range v {
			if extracted := ExtractScalar(item); extracted != nil {
				return extracted
			}
		}
		return nil
	}
	return raw
}

// extractFromMap prefers text, then name, then id, then the first value by
// key order (JSON objects decode into unordered maps, so key order stands in
// for insertion order).
func extractFromMap(m map[string]any) any {
	for _, key := range []string{"text", "name", "id"} {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m[k] != nil {
			return m[k]
		}
	}
	return nil
}

func toTime(scalar any) (any, error) {
	millis, ok := epochMillis(scalar)
	if !ok {
		// unparsable timestamps are dropped, not rejected
		return nil, nil
	}
	return time.UnixMilli(millis), nil
}

func epochMillis(scalar any) (int64, bool) {
	switch v := scalar.(type) {
	case nil:
		return 0, false
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	}
	s := strings.TrimSpace(scalarString(scalar))
	if s == "" || !isDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func toBig(scalar any, target reflect.Type) (any, error) {
	if scalar == nil {
		return nil, nil
	}
	s := strings.TrimSpace(scalarString(scalar))
	if s == "" {
		return nil, nil
	}
	if target == bigIntType {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("mapper: cannot parse %q as big.Int", s)
		}
		return *n, nil
	}
	f, _, err := big.ParseFloat(s, 10, 236, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("mapper: cannot parse %q as big.Float: %w", s, err)
	}
	return *f, nil
}

func fromText(scalar any, target reflect.Type) (any, error) {
	if scalar == nil {
		return nil, nil
	}
	s := strings.TrimSpace(scalarString(scalar))
	if s == "" {
		return nil, nil
	}
	p := reflect.New(target)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return nil, fmt.Errorf("mapper: cannot unmarshal %q into %s: %w", s, target, err)
	}
	return p.Elem().Interface(), nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
