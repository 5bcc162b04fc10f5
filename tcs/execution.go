package tcs

import "fmt"

func (c *Context) eval(expr Expression) (Value, error) {
	if c.cancelled() {
		return NewNone(), newError(ErrorInterrupted, expr.Span())
	}

	switch e := expr.(type) {
	case *BlockExpr:
		return c.evalBlock(e)
	case *CallExpr:
		return c.evalCall(e)
	case *IfExpr:
		cond, err := c.eval(e.Condition)
		if err != nil {
			return NewNone(), err
		}
		if !cond.isTrue() {
			return NewNone(), nil
		}
		return c.eval(e.Body)
	case *ForeverExpr:
		return c.evalForever(e)
	case *LoopExpr:
		return c.evalLoop(e)
	case *ForExpr:
		return c.evalFor(e)
	case *WhileExpr:
		return c.evalWhile(e)
	case *FnDefExpr:
		fn := &Function{Name: e.Name, Params: append([]string(nil), e.Params...), Body: e.Body}
		c.scopes.current().Define(e.Name, NewFunction(fn))
		return NewNone(), nil
	case *AssignExpr:
		return c.evalAssign(e)
	case *ReturnExpr:
		v, err := c.eval(e.Value)
		if err != nil {
			return NewNone(), err
		}
		if v.kind == KindReturn {
			return v, nil
		}
		return NewReturn(v), nil
	case *BreakExpr:
		return newBreak(), nil
	case *NegationExpr:
		v, err := c.eval(e.Operand)
		if err != nil {
			return NewNone(), err
		}
		switch v.kind {
		case KindInt:
			return NewInt(-v.Int()), nil
		case KindFloat:
			return NewFloat(-v.Float()), nil
		}
		return NewNone(), &Error{
			Kind:   ErrorType,
			Span:   e.span,
			Detail: fmt.Sprintf("Incompatible type (%s) for this operator", v.TypeName()),
		}
	case *BinaryExpr:
		return c.evalBinary(e)
	case *IntLiteral:
		return NewInt(e.Value), nil
	case *FloatLiteral:
		return NewFloat(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *ImageLiteral:
		return NewImage(e.Value), nil
	case *KeyLiteral:
		return NewKey(e.Value), nil
	case *NoneLiteral:
		return NewNone(), nil
	case *VariableExpr:
		return c.evalVariable(e, true)
	case *ObjectExpr:
		return c.evalObject(e)
	}
	return NewNone(), &Error{Kind: ErrorSyntax, Span: expr.Span(), Detail: fmt.Sprintf("unexpected expression %T", expr)}
}

func (c *Context) evalBlock(block *BlockExpr) (Value, error) {
	last := NewNone()
	for _, expr := range block.Body {
		v, err := c.eval(expr)
		if err != nil {
			return NewNone(), err
		}
		if v.isSentinel() {
			return v, nil
		}
		last = v
	}
	return last, nil
}

func (c *Context) evalAssign(assign *AssignExpr) (Value, error) {
	target, ok := assign.Target.(*VariableExpr)
	if !ok {
		return NewNone(), newError(ErrorThisIsNotAssignable, assign.Target.Span())
	}
	v, err := c.eval(assign.Value)
	if err != nil {
		return NewNone(), err
	}
	if target.Parent == nil {
		return c.scopes.assign(target.Name, v), nil
	}
	parent, err := c.eval(target.Parent)
	if err != nil {
		return NewNone(), err
	}
	obj := parent.Object()
	if obj == nil {
		return NewNone(), &Error{Kind: ErrorType, Span: target.span, Detail: "This is not an object"}
	}
	old, existed := obj.Set(HashString(target.Name), v)
	if !existed {
		return NewNone(), nil
	}
	return old, nil
}

// evalVariable resolves a name. With invokeProps set, properties are read by
// calling them; otherwise the stored callable is returned.
func (c *Context) evalVariable(v *VariableExpr, invokeProps bool) (Value, error) {
	if v.Parent != nil {
		return c.evalMember(v, invokeProps)
	}
	scope, value, ok := c.scopes.lookup(v.Name)
	if !ok {
		return NewNone(), newRuntimeError(ErrInvalidIdentifier(v.Name), v.span)
	}
	if invokeProps && scope.IsProperty(v.Name) {
		return c.invokeProperty(value, v.span)
	}
	return value, nil
}

func (c *Context) evalMember(v *VariableExpr, invokeProps bool) (Value, error) {
	if qualified, ok := c.qualifiedBinding(v); ok {
		return c.evalVariable(qualified, invokeProps)
	}
	parent, err := c.eval(v.Parent)
	if err != nil {
		return NewNone(), err
	}
	obj := parent.Object()
	if obj == nil {
		return NewNone(), &Error{Kind: ErrorType, Span: v.span, Detail: "This is not an object"}
	}
	value, ok := obj.Field(v.Name)
	if !ok {
		return NewNone(), newRuntimeError(ErrInvalidIdentifier(v.Name), v.span)
	}
	if invokeProps && obj.IsProperty(v.Name) {
		return c.invokeProperty(value, v.span)
	}
	return value, nil
}

// qualifiedBinding maps $lib.name to the binding "lib.name" made by a
// prefixed import when no variable lib exists.
func (c *Context) qualifiedBinding(v *VariableExpr) (*VariableExpr, bool) {
	parent, ok := v.Parent.(*VariableExpr)
	if !ok || parent.Parent != nil {
		return nil, false
	}
	if _, _, bound := c.scopes.lookup(parent.Name); bound {
		return nil, false
	}
	name := parent.Name + "." + v.Name
	if _, _, bound := c.scopes.lookup(name); !bound {
		return nil, false
	}
	return &VariableExpr{Name: name, span: v.span}, true
}

func (c *Context) evalObject(def *ObjectExpr) (Value, error) {
	obj := NewEmptyObject()
	for _, entry := range def.Entries {
		key, err := c.eval(entry.Key)
		if err != nil {
			return NewNone(), err
		}
		hashed, herr := key.ToHashable()
		if herr != nil {
			return NewNone(), newRuntimeError(herr.(*RuntimeError), entry.Key.Span())
		}
		value, err := c.eval(entry.Value)
		if err != nil {
			return NewNone(), err
		}
		obj.Set(hashed, value)
	}
	return NewObject(obj), nil
}
