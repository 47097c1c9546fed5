package profilestate

import (
	"fmt"
	"strconv"
)

// Kind tags the concrete type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of a semi-structured document. The concrete types are
// Null, Bool, Int32, Int64, Float32, Float64, String, *Object and *Array.
// A nil Value means "absent" and is only used inside change records.
type Value interface {
	Kind() Kind
}

type (
	Null    struct{}
	Bool    bool
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	String  string
)

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Int32) Kind() Kind   { return KindInt32 }
func (Int64) Kind() Kind   { return KindInt64 }
func (Float32) Kind() Kind { return KindFloat32 }
func (Float64) Kind() Kind { return KindFloat64 }
func (String) Kind() Kind  { return KindString }

// Object is an ordered mapping of unique keys to values. Insertion order is
// kept so that leaf enumeration and encoding are deterministic.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: map[string]Value{}}
}

// ObjectOf builds an object from alternating key/value pairs.
// It panics on an odd argument count or a non-string key.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("profilestate: ObjectOf needs key/value pairs")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("profilestate: ObjectOf key %v is not a string", kv[i]))
		}
		o.Set(k, MustFromGo(kv[i+1]))
	}
	return o
}

func (*Object) Kind() Kind { return KindObject }

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set inserts or replaces key. A replaced key keeps its position.
func (o *Object) Set(key string, v Value) {
	if o.vals == nil {
		o.vals = map[string]Value{}
	}
	if v == nil {
		v = Null{}
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.vals[key]; !ok {
		return false
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Array is an ordered, index-addressed sequence of values.
type Array struct {
	items []Value
}

// ArrayOf builds an array from Go values, see FromGo.
func ArrayOf(items ...any) *Array {
	a := &Array{items: make([]Value, 0, len(items))}
	for _, it := range items {
		a.items = append(a.items, MustFromGo(it))
	}
	return a
}

// NewArray wraps the given values without copying them.
func NewArray(items ...Value) *Array {
	return &Array{items: items}
}

func (*Array) Kind() Kind { return KindArray }

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

func (a *Array) At(i int) Value { return a.items[i] }

func (a *Array) SetAt(i int, v Value) {
	if v == nil {
		v = Null{}
	}
	a.items[i] = v
}

func (a *Array) Append(v ...Value) { a.items = append(a.items, v...) }

// RemoveAt removes the element at i, shifting later elements left.
func (a *Array) RemoveAt(i int) {
	a.items = append(a.items[:i], a.items[i+1:]...)
}

// Items returns the backing slice. The slice must not be resized by callers.
func (a *Array) Items() []Value {
	if a == nil {
		return nil
	}
	return a.items
}

// Clone returns a deep copy of v. Scalars are immutable and returned as is.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case *Array:
		return t.Clone()
	default:
		return v
	}
}

func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{keys: make([]string, len(o.keys)), vals: make(map[string]Value, len(o.vals))}
	copy(out.keys, o.keys)
	for k, v := range o.vals {
		out.vals[k] = Clone(v)
	}
	return out
}

func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	out := &Array{items: make([]Value, len(a.items))}
	for i, v := range a.items {
		out.items[i] = Clone(v)
	}
	return out
}

func isNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// isComposite reports whether v is an Object or an Array.
func isComposite(v Value) bool {
	switch v.(type) {
	case *Object, *Array:
		return true
	}
	return false
}

func (o *Object) String() string { return stringify(o) }
func (a *Array) String() string  { return stringify(a) }

func stringify(v Value) string {
	b, err := EncodeJSON(v)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.Kind(), err)
	}
	return string(b)
}
