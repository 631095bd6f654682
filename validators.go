package brannigan

import (
	"encoding/json"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// builtins are the pre-registered validators. Each is a pure predicate of
// the value and its configured arguments; registered validators of the same
// name shadow them, and a field's inline Validate hook shadows both.
var builtins = map[string]ValidatorFunc{
	"required": func(v any, args ...any) bool {
		if !flagEnabled(args) {
			return true
		}
		return !isEmpty(v)
	},
	"forbidden": func(v any, args ...any) bool {
		if !flagEnabled(args) {
			return true
		}
		return isEmpty(v)
	},
	"length_between": func(v any, args ...any) bool {
		l, ok := lengthOf(v)
		if !ok || len(args) < 2 {
			return false
		}
		min, okMin := toInt(args[0])
		max, okMax := toInt(args[1])
		return okMin && okMax && l >= min && l <= max
	},
	"min_length": func(v any, args ...any) bool {
		l, ok := lengthOf(v)
		if !ok || len(args) < 1 {
			return false
		}
		min, okMin := toInt(args[0])
		return okMin && l >= min
	},
	"max_length": func(v any, args ...any) bool {
		l, ok := lengthOf(v)
		if !ok || len(args) < 1 {
			return false
		}
		max, okMax := toInt(args[0])
		return okMax && l <= max
	},
	"exact_length": func(v any, args ...any) bool {
		l, ok := lengthOf(v)
		if !ok || len(args) < 1 {
			return false
		}
		n, okN := toInt(args[0])
		return okN && l == n
	},
	"integer": func(v any, args ...any) bool {
		if !flagEnabled(args) {
			return true
		}
		return isDigits(v)
	},
	"value_between": func(v any, args ...any) bool {
		f, ok := toFloat(v)
		if !ok || len(args) < 2 {
			return false
		}
		min, okMin := toFloat(args[0])
		max, okMax := toFloat(args[1])
		return okMin && okMax && f >= min && f <= max
	},
	"min_value": func(v any, args ...any) bool {
		f, ok := toFloat(v)
		if !ok || len(args) < 1 {
			return false
		}
		min, okMin := toFloat(args[0])
		return okMin && f >= min
	},
	"max_value": func(v any, args ...any) bool {
		f, ok := toFloat(v)
		if !ok || len(args) < 1 {
			return false
		}
		max, okMax := toFloat(args[0])
		return okMax && f <= max
	},
	"array": func(v any, args ...any) bool {
		if !flagEnabled(args) {
			return true
		}
		if v == nil {
			return false
		}
		k := reflect.TypeOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	},
	"hash": func(v any, args ...any) bool {
		if !flagEnabled(args) {
			return true
		}
		if v == nil {
			return false
		}
		return reflect.TypeOf(v).Kind() == reflect.Map
	},
	"one_of": func(v any, args ...any) bool {
		for _, candidate := range args {
			if equalValues(v, candidate) {
				return true
			}
		}
		return false
	},
}

// flagEnabled interprets a flag rule's argument list: a bare rule counts as
// enabled, and a single falsy argument disables it (so an inheriting schema
// can switch a parent's required off with 0 or false).
func flagEnabled(args []any) bool {
	if len(args) == 0 {
		return true
	}
	return truthy(args[0])
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return true
	}
}

// isEmpty reports an absent value: nil or the empty string. Form input is
// string-oriented, so an empty string counts the same as a missing field.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// lengthOf returns a string's rune count, or the element count of a slice,
// array, or map.
func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		return utf8.RuneCountInString(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// toFloat coerces numeric values, json.Number, and numeric strings.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// isDigits implements the integer rule: decimal digits only, no sign, no
// fraction.
func isDigits(v any) bool {
	switch t := v.(type) {
	case string:
		if t == "" {
			return false
		}
		for _, r := range t {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	case json.Number:
		return isDigits(t.String())
	case int, int8, int16, int32, int64:
		f, _ := toFloat(t)
		return f >= 0
	case uint, uint8, uint16, uint32, uint64:
		return true
	case float32, float64:
		f, _ := toFloat(t)
		return f >= 0 && f == float64(int64(f))
	}
	return false
}

// equalValues compares a value against a one_of candidate: numerically when
// both sides coerce to numbers (so JSON float64 input matches an int
// candidate), by deep equality otherwise.
func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}
