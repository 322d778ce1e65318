package entity

import (
	"fmt"
	"reflect"
)

// BaseEntity is a detached copy of an entity's data. It shares nothing with
// the live instance it was taken from.
type BaseEntity struct {
	Type string         `yaml:"type"`
	Data map[string]any `yaml:"data,omitempty"`
}

// NewBaseEntity copies data into a new snapshot.
func NewBaseEntity(typeID string, data map[string]any) BaseEntity {
	return BaseEntity{Type: typeID, Data: cloneMap(data)}
}

// Clone returns a deep copy of b.
func (b BaseEntity) Clone() BaseEntity {
	return BaseEntity{Type: b.Type, Data: cloneMap(b.Data)}
}

func (b BaseEntity) String() string {
	return fmt.Sprintf("BaseEntity{%s, %d keys}", b.Type, len(b.Data))
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies v so that no map, slice, array element or pointee is
// shared with the original. Data is tree-shaped; cyclic values are not
// supported.
func cloneValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case string, bool, int, int64, float64:
		return v
	}
	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	}
	return v
}

// StateResult is the outcome of asking an entity for its state: either a
// snapshot, or a note that this kind of entity cannot be captured.
// Not capturable is an expected outcome, not an error.
type StateResult struct {
	base *BaseEntity
}

// Captured wraps a snapshot. The snapshot is copied.
func Captured(b BaseEntity) StateResult {
	c := b.Clone()
	return StateResult{base: &c}
}

// NotCapturable reports that the entity kind has no snapshot form.
func NotCapturable() StateResult { return StateResult{} }

// Get returns a fresh copy of the snapshot, if one was produced.
func (r StateResult) Get() (BaseEntity, bool) {
	if r.base == nil {
		return BaseEntity{}, false
	}
	return r.base.Clone(), true
}

func (r StateResult) Supported() bool { return r.base != nil }
