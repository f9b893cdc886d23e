// Package document is a small typed document tree with JSON and XML serializers.
package document

import (
	"encoding/json"
	"math"
	"strconv"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is one node of the tree. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

func Null() Value           { return Value{} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value(nil), items...)}
}

// ObjectValue wraps o. A nil o is an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool      { return v.b }
func (v Value) AsInteger() int64  { return v.i }
func (v Value) AsFloat() float64  { return v.f }
func (v Value) AsString() string  { return v.s }
func (v Value) Items() []Value    { return v.arr }
func (v Value) AsObject() *Object { return v.obj }

// Text renders a scalar the way it appears as XML text content. Containers render empty.
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return string(appendFloat(nil, v.f))
	case KindString:
		return v.s
	default:
		return ""
	}
}

// appendFloat uses encoding/json's number format so XML and JSON agree. Non-finite
// numbers have no JSON form and are written as null.
func appendFloat(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	b, _ := json.Marshal(f)
	return append(dst, b...)
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an insertion-ordered map of string keys to Values.
type Object struct {
	members []Member
	index   map[string]int
}

func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set inserts key at the end, or replaces its value in place when key already exists.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.members[i].Value, true
}

func (o *Object) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

func (o *Object) Len() int { return len(o.members) }

// Members returns the pairs in insertion order. The slice must not be modified.
func (o *Object) Members() []Member { return o.members }

func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}
