package tcs

import "fmt"

// LibraryContext is the mutable state a library's native functions share. Each
// native receives the context of the library it was registered with.
type LibraryContext any

// Library is a named set of bindings exported into a script's root scope.
type Library struct {
	Name    string
	Scope   *Scope
	Context LibraryContext
}

func NewLibrary(name string, ctx LibraryContext) *Library {
	return &Library{Name: name, Scope: NewScope(), Context: ctx}
}

// Native creates a native function owned by the library without binding it.
func (l *Library) Native(name string, fn NativeFn) *NativeFunc {
	return &NativeFunc{Library: l.Name, Name: name, Fn: fn}
}

// Register binds a native function under name.
func (l *Library) Register(name string, fn NativeFn) {
	l.Scope.Define(name, NewNative(l.Native(name, fn)))
}

// RegisterProperty binds a computed property under name.
func (l *Library) RegisterProperty(name string, fn NativeFn) {
	l.Scope.DefineProperty(name, NewNative(l.Native(name, fn)))
}

func (l *Library) Define(name string, v Value) {
	l.Scope.Define(name, v)
}

// Method describes a native function installed on an object.
type Method struct {
	Name     string
	Fn       NativeFn
	Property bool
}

// BindMethods installs methods on obj, each bound to obj as its this.
func (l *Library) BindMethods(obj *Object, methods []Method) {
	for _, m := range methods {
		fn := NewNative(l.Native(m.Name, m.Fn).Bind(obj))
		if m.Property {
			obj.SetProperty(m.Name, fn)
		} else {
			obj.SetField(m.Name, fn)
		}
	}
}

// Export copies the string-keyed fields of obj into the library scope, keeping
// property marks. Bound methods keep their this.
func (l *Library) Export(obj *Object) {
	for _, key := range obj.Keys() {
		if key.isInt {
			continue
		}
		v, _ := obj.Get(key)
		if obj.IsProperty(key.str) {
			l.Scope.DefineProperty(key.str, v)
			continue
		}
		l.Scope.Define(key.str, v)
	}
}

// UnwrapContext asserts the library context to its concrete type.
func UnwrapContext[T any](ctx LibraryContext) (T, error) {
	typed, ok := ctx.(T)
	if !ok {
		var zero T
		return zero, ErrNativeLibrary("unexpected library context %T", ctx)
	}
	return typed, nil
}

// RequireThis returns the object a method is bound to. Methods called as plain
// functions fail.
func RequireThis(this *Object) (*Object, error) {
	if this == nil {
		return nil, ErrMethodCalledAsFunction()
	}
	return this, nil
}

// ThisInt reads an int field of the object a method is bound to.
func ThisInt(this *Object, field string) (int32, error) {
	obj, err := RequireThis(this)
	if err != nil {
		return 0, err
	}
	v, ok := obj.Field(field)
	if !ok {
		return 0, ErrInvalidIdentifier(field)
	}
	n, err := v.ToInt()
	if err != nil {
		return 0, ErrNativeLibrary("field %s is %s, not int", field, v.TypeName())
	}
	return n, nil
}

func (l *Library) String() string {
	return fmt.Sprintf("library %s (%d bindings)", l.Name, len(l.Scope.vars))
}
