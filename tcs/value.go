package tcs

type ValueKind int

const (
	KindNone ValueKind = iota
	KindInt
	KindFloat
	KindString
	KindImage
	KindKey
	KindBool
	KindCallable
	KindObject
	KindReturn
	KindBreak
)

// Value is a runtime value. The zero Value is None.
type Value struct {
	kind ValueKind
	data any
}

// Callable is implemented by *Function and *NativeFunc.
type Callable interface {
	callable()
}

// Function is a user-defined function. It does not capture the scope it was
// defined in.
type Function struct {
	Name   string
	Params []string
	Body   Expression
}

func (*Function) callable() {}

// NativeFn implements a native function. ctx is the mutable context of the
// library the function belongs to; this is the object the function is bound
// to as a method, or nil when it is called as a plain function.
type NativeFn func(ctx LibraryContext, this *Object, args []Value) (Value, error)

// NativeFunc is a host function exposed to scripts.
type NativeFunc struct {
	Library string
	Name    string
	This    *Object
	Fn      NativeFn
}

func (*NativeFunc) callable() {}

// Bind returns a copy of the function bound to this.
func (f *NativeFunc) Bind(this *Object) *NativeFunc {
	bound := *f
	bound.This = this
	return &bound
}
