package tcs

func (c *Context) evalForever(loop *ForeverExpr) (Value, error) {
	for {
		v, err := c.eval(loop.Body)
		if err != nil {
			return NewNone(), err
		}
		switch v.kind {
		case KindBreak:
			return NewNone(), nil
		case KindReturn:
			return v, nil
		}
	}
}

func (c *Context) evalLoop(loop *LoopExpr) (Value, error) {
	count, err := c.eval(loop.Count)
	if err != nil {
		return NewNone(), err
	}
	n, cerr := count.ToInt()
	if cerr != nil {
		return NewNone(), newError(ErrorInvalidIterationCount, loop.Count.Span())
	}
	for i := int32(0); i < n; i++ {
		v, err := c.eval(loop.Body)
		if err != nil {
			return NewNone(), err
		}
		switch v.kind {
		case KindBreak:
			return NewNone(), nil
		case KindReturn:
			return v, nil
		}
	}
	return NewNone(), nil
}

func (c *Context) evalFor(loop *ForExpr) (Value, error) {
	start, err := c.forBound(loop.Start, ErrorInvalidForStart)
	if err != nil {
		return NewNone(), err
	}
	end, err := c.forBound(loop.End, ErrorInvalidForEnd)
	if err != nil {
		return NewNone(), err
	}
	step := int32(1)
	if loop.Step != nil {
		step, err = c.forBound(loop.Step, ErrorInvalidForStep)
		if err != nil {
			return NewNone(), err
		}
		// A non-positive step over a non-empty range would never reach end.
		if step <= 0 && start < end {
			return NewNone(), newError(ErrorInvalidForStep, loop.Step.Span())
		}
	}

	scope := c.scopes.current()
	// int64 keeps i += step from wrapping around end near the int32 limit.
	for i := int64(start); i < int64(end); i += int64(step) {
		scope.Define(loop.Var, NewInt(int32(i)))
		v, err := c.eval(loop.Body)
		if err != nil {
			return NewNone(), err
		}
		switch v.kind {
		case KindBreak:
			return NewNone(), nil
		case KindReturn:
			return v, nil
		}
	}
	return NewNone(), nil
}

func (c *Context) forBound(expr Expression, kind ErrorKind) (int32, error) {
	v, err := c.eval(expr)
	if err != nil {
		return 0, err
	}
	n, cerr := v.ToInt()
	if cerr != nil {
		return 0, newError(kind, expr.Span())
	}
	return n, nil
}

func (c *Context) evalWhile(loop *WhileExpr) (Value, error) {
	for {
		cond, err := c.eval(loop.Condition)
		if err != nil {
			return NewNone(), err
		}
		if !cond.isTrue() {
			return NewNone(), nil
		}
		v, err := c.eval(loop.Body)
		if err != nil {
			return NewNone(), err
		}
		switch v.kind {
		case KindBreak:
			return NewNone(), nil
		case KindReturn:
			return v, nil
		}
	}
}
