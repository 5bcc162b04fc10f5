package tcs

func NewNone() Value             { return Value{kind: KindNone} }
func NewInt(i int32) Value       { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value   { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value   { return Value{kind: KindString, data: s} }
func NewImage(name string) Value { return Value{kind: KindImage, data: name} }
func NewKey(name string) Value   { return Value{kind: KindKey, data: name} }
func NewBool(b bool) Value       { return Value{kind: KindBool, data: b} }
func NewObject(obj *Object) Value {
	return Value{kind: KindObject, data: obj}
}

func NewFunction(fn *Function) Value {
	return Value{kind: KindCallable, data: fn}
}

func NewNative(fn *NativeFunc) Value {
	return Value{kind: KindCallable, data: fn}
}

// NewReturn wraps v in the early-return sentinel. A native function may return
// it to end the calling script function early.
func NewReturn(v Value) Value {
	return Value{kind: KindReturn, data: v}
}

func newBreak() Value { return Value{kind: KindBreak} }
