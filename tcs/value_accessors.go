package tcs

import (
	"math"
	"strconv"
)

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) Int() int32 {
	if v.kind != KindInt {
		return 0
	}
	return v.data.(int32)
}

func (v Value) Float() float64 {
	if v.kind != KindFloat {
		return 0
	}
	return v.data.(float64)
}

// Str returns the payload of String, Image and Key values.
func (v Value) Str() string {
	switch v.kind {
	case KindString, KindImage, KindKey:
		return v.data.(string)
	}
	return ""
}

func (v Value) Bool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.data.(bool)
}

func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(*Object)
}

func (v Value) Callable() Callable {
	if v.kind != KindCallable {
		return nil
	}
	return v.data.(Callable)
}

// Unwrap returns the value carried by an early-return sentinel.
func (v Value) Unwrap() Value {
	if v.kind != KindReturn {
		return v
	}
	return v.data.(Value)
}

// isTrue is the truthiness rule of if and while: only Bool(true) is true.
func (v Value) isTrue() bool {
	return v.kind == KindBool && v.data.(bool)
}

func (v Value) isSentinel() bool {
	return v.kind == KindReturn || v.kind == KindBreak
}

// ToInt narrows v to an int32. No conversion between kinds is performed.
func (v Value) ToInt() (int32, error) {
	if v.kind != KindInt {
		return 0, ErrTypeError()
	}
	return v.data.(int32), nil
}

// ToFloat narrows v to a float64. Ints are not widened.
func (v Value) ToFloat() (float64, error) {
	if v.kind != KindFloat {
		return 0, ErrTypeError()
	}
	return v.data.(float64), nil
}

// TypeName is the name of the value's type used in diagnostics.
func (v Value) TypeName() string {
	switch v.kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindImage:
		return "image"
	case KindKey:
		return "key"
	case KindBool:
		return "bool"
	case KindCallable:
		return "callable"
	case KindObject:
		return "object"
	case KindReturn:
		return "return"
	case KindBreak:
		return "break"
	}
	return "none"
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.Int()), 10)
	case KindFloat:
		return formatFloat(v.Float())
	case KindString:
		return v.Str()
	case KindImage:
		return "Image: " + v.Str()
	case KindKey:
		return "Key: " + v.Str()
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindCallable:
		if _, ok := v.data.(*NativeFunc); ok {
			return "<Native function>"
		}
		return "<Function>"
	case KindObject:
		return v.Object().String()
	case KindReturn:
		return v.Unwrap().String()
	case KindBreak:
		return "Break"
	}
	return "None"
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
