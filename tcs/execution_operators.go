package tcs

import "fmt"

func (c *Context) evalBinary(expr *BinaryExpr) (Value, error) {
	a, err := c.eval(expr.Left)
	if err != nil {
		return NewNone(), err
	}
	b, err := c.eval(expr.Right)
	if err != nil {
		return NewNone(), err
	}

	incompatible := func() error {
		return &Error{
			Kind:   ErrorType,
			Span:   expr.Right.Span(),
			Detail: fmt.Sprintf("Incompatible types (%s and %s) for this operator", a.TypeName(), b.TypeName()),
		}
	}

	switch a.kind {
	case KindInt:
		switch b.kind {
		case KindInt:
			if expr.Op == OpDivide && b.Int() == 0 {
				return NewNone(), &Error{Kind: ErrorType, Span: expr.Right.Span(), Detail: "Integer division by zero"}
			}
			return intOperator(expr.Op, a.Int(), b.Int()), nil
		case KindFloat:
			return floatOperator(expr.Op, float64(a.Int()), b.Float()), nil
		}
		return NewNone(), incompatible()
	case KindFloat:
		switch b.kind {
		case KindFloat:
			return floatOperator(expr.Op, a.Float(), b.Float()), nil
		case KindInt:
			return floatOperator(expr.Op, a.Float(), float64(b.Int())), nil
		}
		return NewNone(), incompatible()
	case KindString:
		if b.kind != KindString {
			return NewNone(), incompatible()
		}
		switch expr.Op {
		case OpAdd:
			return NewString(a.Str() + b.Str()), nil
		case OpEq:
			return NewBool(a.Str() == b.Str()), nil
		case OpNeq:
			return NewBool(a.Str() != b.Str()), nil
		}
		return NewNone(), incompatible()
	}
	return NewNone(), &Error{
		Kind:   ErrorType,
		Span:   expr.Left.Span(),
		Detail: fmt.Sprintf("Operand A (type %s) does not support this operator", a.TypeName()),
	}
}

func intOperator(op BinaryOp, a, b int32) Value {
	switch op {
	case OpAdd:
		return NewInt(a + b)
	case OpSubtract:
		return NewInt(a - b)
	case OpMultiply:
		return NewInt(a * b)
	case OpDivide:
		return NewInt(a / b)
	}
	return compare(op, a, b)
}

func floatOperator(op BinaryOp, a, b float64) Value {
	switch op {
	case OpAdd:
		return NewFloat(a + b)
	case OpSubtract:
		return NewFloat(a - b)
	case OpMultiply:
		return NewFloat(a * b)
	case OpDivide:
		return NewFloat(a / b)
	}
	return compare(op, a, b)
}

func compare[T int32 | float64](op BinaryOp, a, b T) Value {
	switch op {
	case OpEq:
		return NewBool(a == b)
	case OpNeq:
		return NewBool(a != b)
	case OpLt:
		return NewBool(a < b)
	case OpGt:
		return NewBool(a > b)
	case OpLte:
		return NewBool(a <= b)
	case OpGte:
		return NewBool(a >= b)
	}
	return NewNone()
}
