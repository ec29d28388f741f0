package convert

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var errNotMap = fmt.Errorf("input data is not a map")
var errNotSlice = fmt.Errorf("input data is not a slice")
var errNotStringElement = fmt.Errorf("slice element is not a string")
var errNotMapElement = fmt.Errorf("slice element is not a map[string]any")
var errNotBool = fmt.Errorf("value is not a boolean")

// ToStringMap converts map[string]any or map[string]string to map[string]string.
// Scalar values are rendered with their canonical text form and nil values are
// dropped, matching how plan documents serialise unknown or null tag values.
// Returns nil map if input is nil.
func ToStringMap(data any) (map[string]string, error) {
	if data == nil {
		return nil, nil
	}
	if m, ok := data.(map[string]string); ok {
		return m, nil
	}
	mAny, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: input type %T", errNotMap, data)
	}
	result := make(map[string]string, len(mAny))
	for k, v := range mAny {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			result[k] = tv
		case bool:
			result[k] = strconv.FormatBool(tv)
		case float64:
			result[k] = strconv.FormatFloat(tv, 'f', -1, 64)
		default:
			result[k] = fmt.Sprintf("%v", tv)
		}
	}
	return result, nil
}

// ToSliceOfString converts []string and []any of strings to []string.
// Returns an error if the input is not a slice or holds a non-string element.
func ToSliceOfString(data any) ([]string, error) {
	if data == nil {
		return []string{}, nil
	}

	if slice, ok := data.([]string); ok {
		return slice, nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: input type %T", errNotSlice, data)
	}

	result := make([]string, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		item := val.Index(i).Interface()
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("index %d: %w (type %T)", i, errNotStringElement, item)
		}
		result = append(result, s)
	}
	return result, nil
}

// ToSliceOfMap converts slice types ([]map[string]any, []any) to []map[string]any.
// A bare map[string]any is treated as a single-element slice.
func ToSliceOfMap(data any) ([]map[string]any, error) {
	if data == nil {
		return []map[string]any{}, nil
	}

	switch tv := data.(type) {
	case []map[string]any:
		return tv, nil
	case map[string]any:
		return []map[string]any{tv}, nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: input type %T", errNotSlice, data)
	}

	result := make([]map[string]any, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		item := val.Index(i).Interface()
		if mapItem, okMap := item.(map[string]any); okMap {
			result = append(result, mapItem)
		} else {
			return nil, fmt.Errorf("index %d: %w (type %T)", i, errNotMapElement, item)
		}
	}
	return result, nil
}

// ToBool accepts a bool or the strings "true"/"false" in any case.
func ToBool(data any) (bool, error) {
	switch tv := data.(type) {
	case bool:
		return tv, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(tv)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: input type %T", errNotBool, data)
}
