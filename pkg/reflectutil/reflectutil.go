package reflectutil

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

func DerefValue(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// IsEmptyValue reports whether v is nil, a zero-length container or a blank string.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	val := DerefValue(reflect.ValueOf(v))
	switch val.Kind() {
	case reflect.String:
		return strings.TrimSpace(val.String()) == ""
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Chan:
		return val.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return val.IsNil()
	default:
		return false
	}
}

// ToFloat64 converts any numeric kind, json.Number or numeric string.
func ToFloat64(v reflect.Value) (float64, bool) {
	v = DerefValue(v)
	if !v.IsValid() {
		return 0, false
	}
	if v.Type() == reflect.TypeOf(json.Number("")) {
		f, err := strconv.ParseFloat(v.String(), 64)
		return f, err == nil
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
