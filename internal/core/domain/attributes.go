package domain

import (
	"reflect"
	"strconv"

	"github.com/olusolaa/infra-policy-gate/pkg/convert"
	"github.com/olusolaa/infra-policy-gate/pkg/reflectutil"
)

// UnknownValue marks an attribute whose value is only known after apply.
// It counts as present but never converts to a concrete type.
type UnknownValue struct{}

var Unknown = UnknownValue{}

func (UnknownValue) String() string {
	return "(known after apply)"
}

// Attributes is the post-change configuration of a resource. Every accessor
// returns ok=false for absent, null or mistyped values; absence is never an error.
type Attributes map[string]any

// Get walks nested objects. A numeric segment indexes into a list.
func (a Attributes) Get(path ...string) (any, bool) {
	if a == nil || len(path) == 0 {
		return nil, false
	}
	var cur any = map[string]any(a)
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case Attributes:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

func (a Attributes) Has(path ...string) bool {
	_, ok := a.Get(path...)
	return ok
}

func (a Attributes) IsUnknown(path ...string) bool {
	v, ok := a.Get(path...)
	if !ok {
		return false
	}
	_, unknown := v.(UnknownValue)
	return unknown
}

func (a Attributes) String(path ...string) (string, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool accepts booleans and the strings "true" and "false".
func (a Attributes) Bool(path ...string) (bool, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return false, false
	}
	b, err := convert.ToBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Number accepts any numeric value or numeric string.
func (a Attributes) Number(path ...string) (float64, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return 0, false
	}
	return reflectutil.ToFloat64(reflect.ValueOf(v))
}

func (a Attributes) StringMap(path ...string) (map[string]string, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return nil, false
	}
	m, err := convert.ToStringMap(v)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Blocks returns a nested block list. A single object is one block.
func (a Attributes) Blocks(path ...string) ([]Attributes, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return nil, false
	}
	maps, err := convert.ToSliceOfMap(v)
	if err != nil {
		return nil, false
	}
	out := make([]Attributes, 0, len(maps))
	for _, m := range maps {
		out = append(out, Attributes(m))
	}
	return out, true
}

// Block returns the first nested block, the usual shape for max-one blocks.
func (a Attributes) Block(path ...string) (Attributes, bool) {
	blocks, ok := a.Blocks(path...)
	if !ok || len(blocks) == 0 {
		return nil, false
	}
	return blocks[0], true
}

func (a Attributes) Strings(path ...string) ([]string, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return nil, false
	}
	s, err := convert.ToSliceOfString(v)
	if err != nil {
		return nil, false
	}
	return s, true
}
