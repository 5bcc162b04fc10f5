package tcs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EqualExpr reports whether two trees have the same structure and payloads.
// Spans are ignored.
func EqualExpr(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *CallExpr:
		y, ok := b.(*CallExpr)
		return ok && EqualExpr(x.Callee, y.Callee) && equalExprs(x.Args, y.Args)
	case *AssignExpr:
		y, ok := b.(*AssignExpr)
		return ok && EqualExpr(x.Target, y.Target) && EqualExpr(x.Value, y.Value)
	case *ObjectExpr:
		y, ok := b.(*ObjectExpr)
		if !ok || len(x.Entries) != len(y.Entries) {
			return false
		}
		for i := range x.Entries {
			if !EqualExpr(x.Entries[i].Key, y.Entries[i].Key) || !EqualExpr(x.Entries[i].Value, y.Entries[i].Value) {
				return false
			}
		}
		return true
	case *ReturnExpr:
		y, ok := b.(*ReturnExpr)
		return ok && EqualExpr(x.Value, y.Value)
	case *BreakExpr:
		_, ok := b.(*BreakExpr)
		return ok
	case *IfExpr:
		y, ok := b.(*IfExpr)
		return ok && EqualExpr(x.Condition, y.Condition) && EqualExpr(x.Body, y.Body)
	case *LoopExpr:
		y, ok := b.(*LoopExpr)
		return ok && EqualExpr(x.Count, y.Count) && EqualExpr(x.Body, y.Body)
	case *ForeverExpr:
		y, ok := b.(*ForeverExpr)
		return ok && EqualExpr(x.Body, y.Body)
	case *ForExpr:
		y, ok := b.(*ForExpr)
		return ok && x.Var == y.Var && EqualExpr(x.Start, y.Start) && EqualExpr(x.End, y.End) &&
			EqualExpr(x.Step, y.Step) && EqualExpr(x.Body, y.Body)
	case *WhileExpr:
		y, ok := b.(*WhileExpr)
		return ok && EqualExpr(x.Condition, y.Condition) && EqualExpr(x.Body, y.Body)
	case *FnDefExpr:
		y, ok := b.(*FnDefExpr)
		return ok && x.Name == y.Name && equalStrings(x.Params, y.Params) && EqualExpr(x.Body, y.Body)
	case *NegationExpr:
		y, ok := b.(*NegationExpr)
		return ok && EqualExpr(x.Operand, y.Operand)
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && EqualExpr(x.Left, y.Left) && EqualExpr(x.Right, y.Right)
	case *IntLiteral:
		y, ok := b.(*IntLiteral)
		return ok && x.Value == y.Value
	case *FloatLiteral:
		y, ok := b.(*FloatLiteral)
		return ok && (x.Value == y.Value || math.IsNaN(x.Value) && math.IsNaN(y.Value))
	case *StringLiteral:
		y, ok := b.(*StringLiteral)
		return ok && x.Value == y.Value
	case *ImageLiteral:
		y, ok := b.(*ImageLiteral)
		return ok && x.Value == y.Value
	case *KeyLiteral:
		y, ok := b.(*KeyLiteral)
		return ok && x.Value == y.Value
	case *NoneLiteral:
		_, ok := b.(*NoneLiteral)
		return ok
	case *VariableExpr:
		y, ok := b.(*VariableExpr)
		return ok && x.Name == y.Name && EqualExpr(x.Parent, y.Parent)
	case *BlockExpr:
		y, ok := b.(*BlockExpr)
		return ok && equalExprs(x.Body, y.Body)
	}
	return false
}

func equalExprs(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DumpExpr renders an indented outline of the tree with spans.
func DumpExpr(expr Expression) string {
	var sb strings.Builder
	dumpExpr(&sb, expr, 0)
	return sb.String()
}

func dumpExpr(sb *strings.Builder, expr Expression, depth int) {
	indent := strings.Repeat("  ", depth)
	if expr == nil {
		sb.WriteString(indent + "<nil>\n")
		return
	}
	line := func(format string, args ...any) {
		fmt.Fprintf(sb, "%s"+format+" @%s\n", append(append([]any{indent}, args...), expr.Span())...)
	}
	child := func(e Expression) { dumpExpr(sb, e, depth+1) }

	switch e := expr.(type) {
	case *CallExpr:
		line("Call")
		child(e.Callee)
		for _, arg := range e.Args {
			child(arg)
		}
	case *AssignExpr:
		line("Assign")
		child(e.Target)
		child(e.Value)
	case *ObjectExpr:
		line("Object")
		for _, entry := range e.Entries {
			child(entry.Key)
			child(entry.Value)
		}
	case *ReturnExpr:
		line("Return")
		child(e.Value)
	case *BreakExpr:
		line("Break")
	case *IfExpr:
		line("If")
		child(e.Condition)
		child(e.Body)
	case *LoopExpr:
		line("Loop")
		child(e.Count)
		child(e.Body)
	case *ForeverExpr:
		line("LoopInfinite")
		child(e.Body)
	case *ForExpr:
		line("For $%s", e.Var)
		child(e.Start)
		child(e.End)
		if e.Step != nil {
			child(e.Step)
		}
		child(e.Body)
	case *WhileExpr:
		line("While")
		child(e.Condition)
		child(e.Body)
	case *FnDefExpr:
		line("FnDef %s(%s)", e.Name, strings.Join(e.Params, ", "))
		child(e.Body)
	case *NegationExpr:
		line("Negation")
		child(e.Operand)
	case *BinaryExpr:
		line("Binary %s", e.Op)
		child(e.Left)
		child(e.Right)
	case *IntLiteral:
		line("Int %d", e.Value)
	case *FloatLiteral:
		line("Float %s", formatFloat(e.Value))
	case *StringLiteral:
		line("String %s", strconv.Quote(e.Value))
	case *ImageLiteral:
		line("Image %s", strconv.Quote(e.Value))
	case *KeyLiteral:
		line("Key %s", strconv.Quote(e.Value))
	case *NoneLiteral:
		line("None")
	case *VariableExpr:
		line("Variable %s", e.Name)
		if e.Parent != nil {
			child(e.Parent)
		}
	case *BlockExpr:
		line("Block")
		for _, item := range e.Body {
			child(item)
		}
	default:
		line("%T", expr)
	}
}
