package tcs

import "errors"

func (c *Context) evalCall(call *CallExpr) (Value, error) {
	var callee Value
	var err error
	if v, ok := call.Callee.(*VariableExpr); ok {
		callee, err = c.evalVariable(v, false)
	} else {
		callee, err = c.eval(call.Callee)
	}
	if err != nil {
		return NewNone(), err
	}

	switch fn := callee.Callable().(type) {
	case *NativeFunc:
		args, err := c.evalArgs(call.Args)
		if err != nil {
			return NewNone(), err
		}
		return c.callNative(fn, args, call.span)
	case *Function:
		if len(call.Args) != len(fn.Params) {
			return NewNone(), newRuntimeError(ErrInvalidArgCount(len(call.Args), len(fn.Params)), call.span)
		}
		args, err := c.evalArgs(call.Args)
		if err != nil {
			return NewNone(), err
		}
		return c.callFunction(fn, args, call.span)
	}
	return NewNone(), &Error{Kind: ErrorThisCannotBeCalled, Span: call.span, Detail: callee.String()}
}

func (c *Context) evalArgs(exprs []Expression) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, expr := range exprs {
		v, err := c.eval(expr)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (c *Context) callNative(fn *NativeFunc, args []Value, span Span) (Value, error) {
	result, err := fn.Fn(c.libraries[fn.Library], fn.This, args)
	if err != nil {
		var spanned *Error
		if errors.As(err, &spanned) {
			if spanned.Span == (Span{}) {
				withSpan := *spanned
				withSpan.Span = span
				return NewNone(), &withSpan
			}
			return NewNone(), spanned
		}
		var rt *RuntimeError
		if !errors.As(err, &rt) {
			rt = ErrNativeLibrary("%s", err.Error())
		}
		return NewNone(), newRuntimeError(rt, span)
	}
	return result.Unwrap(), nil
}

func (c *Context) callFunction(fn *Function, args []Value, span Span) (Value, error) {
	if c.depth >= c.config.RecursionLimit {
		return NewNone(), newRuntimeError(&RuntimeError{Kind: RuntimeRecursionLimitExceeded, Expected: c.config.RecursionLimit}, span)
	}
	scope := NewScope()
	for i, name := range fn.Params {
		scope.Define(name, args[i])
	}

	c.depth++
	c.scopes.push(scope)
	result, err := c.eval(fn.Body)
	c.scopes.pop()
	c.depth--
	if err != nil {
		return NewNone(), err
	}
	if result.kind == KindReturn {
		return result.Unwrap(), nil
	}
	return result, nil
}

// invokeProperty reads a computed property by calling its zero-argument
// callable.
func (c *Context) invokeProperty(fn Value, span Span) (Value, error) {
	switch callable := fn.Callable().(type) {
	case *NativeFunc:
		return c.callNative(callable, nil, span)
	case *Function:
		if len(callable.Params) != 0 {
			return NewNone(), newRuntimeError(ErrInvalidArgCount(0, len(callable.Params)), span)
		}
		return c.callFunction(callable, nil, span)
	}
	return NewNone(), &Error{Kind: ErrorThisCannotBeCalled, Span: span, Detail: fn.String()}
}
