package tcs

import (
	"strconv"
	"strings"
)

// HashableValue is an object key: a string or an int.
type HashableValue struct {
	isInt bool
	str   string
	num   int32
}

func HashString(s string) HashableValue { return HashableValue{str: s} }
func HashInt(i int32) HashableValue     { return HashableValue{isInt: true, num: i} }

// ToHashable converts v to an object key.
func (v Value) ToHashable() (HashableValue, error) {
	switch v.kind {
	case KindString:
		return HashString(v.Str()), nil
	case KindInt:
		return HashInt(v.Int()), nil
	}
	return HashableValue{}, ErrTypeHashUnsupported(v.TypeName())
}

// Value converts the key back to a runtime value.
func (h HashableValue) Value() Value {
	if h.isInt {
		return NewInt(h.num)
	}
	return NewString(h.str)
}

func (h HashableValue) String() string {
	if h.isInt {
		return strconv.FormatInt(int64(h.num), 10)
	}
	return strconv.Quote(h.str)
}

// Object is a mutable record shared by reference. Field names listed as
// properties hold zero-argument callables that run on every read.
type Object struct {
	fields map[HashableValue]Value
	order  []HashableValue
	props  map[string]struct{}
}

func NewEmptyObject() *Object {
	return &Object{
		fields: make(map[HashableValue]Value),
		props:  make(map[string]struct{}),
	}
}

// Get returns the raw stored value; properties are not invoked.
func (o *Object) Get(key HashableValue) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Field is Get for string keys.
func (o *Object) Field(name string) (Value, bool) {
	return o.Get(HashString(name))
}

// Set stores v under key and returns the previous value, if any. A plain
// value replaces a computed property of the same name.
func (o *Object) Set(key HashableValue, v Value) (Value, bool) {
	old, existed := o.fields[key]
	if !existed {
		o.order = append(o.order, key)
	}
	o.fields[key] = v
	if !key.isInt {
		delete(o.props, key.str)
	}
	return old, existed
}

// SetField is Set for string keys.
func (o *Object) SetField(name string, v Value) {
	o.Set(HashString(name), v)
}

// SetProperty stores a zero-argument callable that is invoked whenever name
// is read.
func (o *Object) SetProperty(name string, fn Value) {
	o.SetField(name, fn)
	o.props[name] = struct{}{}
}

func (o *Object) IsProperty(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []HashableValue {
	return append([]HashableValue(nil), o.order...)
}

func (o *Object) Len() int { return len(o.fields) }

func (o *Object) String() string {
	var sb strings.Builder
	o.format(&sb, map[*Object]bool{})
	return sb.String()
}

func (o *Object) format(sb *strings.Builder, seen map[*Object]bool) {
	seen[o] = true
	defer delete(seen, o)

	sb.WriteByte('{')
	for i, key := range o.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(key.String())
		sb.WriteString(": ")
		v := o.fields[key]
		switch {
		case v.kind == KindObject && seen[v.Object()]:
			sb.WriteString("{...}")
		case v.kind == KindObject:
			v.Object().format(sb, seen)
		case v.kind == KindString:
			sb.WriteString(strconv.Quote(v.Str()))
		default:
			sb.WriteString(v.String())
		}
	}
	sb.WriteByte('}')
}
