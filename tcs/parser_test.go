package tcs

import (
	"strings"
	"testing"
)

func parseSingle(t *testing.T, source string) Expression {
	t.Helper()
	root := mustParse(t, source).(*BlockExpr)
	if len(root.Body) != 1 {
		t.Fatalf("%q: expected one expression, got %d:\n%s", source, len(root.Body), DumpExpr(root))
	}
	return root.Body[0]
}

func TestParsePrecedence(t *testing.T) {
	expr := parseSingle(t, "1 + 2 * -3 == 4")
	eq, ok := expr.(*BinaryExpr)
	if !ok || eq.Op != OpEq {
		t.Fatalf("expected == at the root, got %s", DumpExpr(expr))
	}
	sum, ok := eq.Left.(*BinaryExpr)
	if !ok || sum.Op != OpAdd {
		t.Fatalf("expected + under ==, got %s", DumpExpr(eq.Left))
	}
	product, ok := sum.Right.(*BinaryExpr)
	if !ok || product.Op != OpMultiply {
		t.Fatalf("expected * under +, got %s", DumpExpr(sum.Right))
	}
	if _, ok := product.Right.(*NegationExpr); !ok {
		t.Fatalf("expected negation operand, got %s", DumpExpr(product.Right))
	}
}

func TestParseLeftAssociative(t *testing.T) {
	expr := parseSingle(t, "10 - 4 - 3")
	outer := expr.(*BinaryExpr)
	inner, ok := outer.Left.(*BinaryExpr)
	if !ok || inner.Op != OpSubtract {
		t.Fatalf("expected (10 - 4) - 3, got %s", DumpExpr(expr))
	}
	if lit := outer.Right.(*IntLiteral); lit.Value != 3 {
		t.Fatalf("unexpected right operand %d", lit.Value)
	}
}

func TestParseCalls(t *testing.T) {
	cases := []struct {
		source string
		callee string
		parent string
		args   int
	}{
		{"go(1, 2)", "go", "", 2},
		{"go()", "go", "", 0},
		{"go(, 1)", "go", "", 1},
		{"go 5", "go", "", 1},
		{"go $x", "go", "", 1},
		{"go", "go", "", 0},
		{"$t.go(1)", "go", "t", 1},
		{"$t.go 3", "go", "t", 1},
	}
	for _, tc := range cases {
		call, ok := parseSingle(t, tc.source).(*CallExpr)
		if !ok {
			t.Fatalf("%q: expected call", tc.source)
		}
		callee := call.Callee.(*VariableExpr)
		if callee.Name != tc.callee {
			t.Fatalf("%q: callee %q", tc.source, callee.Name)
		}
		parentName := ""
		if callee.Parent != nil {
			parentName = callee.Parent.(*VariableExpr).Name
		}
		if parentName != tc.parent {
			t.Fatalf("%q: parent %q want %q", tc.source, parentName, tc.parent)
		}
		if len(call.Args) != tc.args {
			t.Fatalf("%q: %d args want %d", tc.source, len(call.Args), tc.args)
		}
	}
}

func TestParseShortcallTakesOneArgument(t *testing.T) {
	root := mustParse(t, "go 5 6").(*BlockExpr)
	if len(root.Body) != 2 {
		t.Fatalf("expected shortcall then literal, got %s", DumpExpr(root))
	}
}

func TestParseObjectVersusBlock(t *testing.T) {
	if _, ok := parseSingle(t, `{"a": 1, 2: $b}`).(*ObjectExpr); !ok {
		t.Fatalf("expected object literal")
	}
	block, ok := parseSingle(t, `{ print "a"; print "b" }`).(*BlockExpr)
	if !ok || len(block.Body) != 2 {
		t.Fatalf("expected two-expression block")
	}
	if obj, ok := parseSingle(t, `{}`).(*ObjectExpr); !ok || len(obj.Entries) != 0 {
		t.Fatalf("expected empty braces to be an empty object")
	}
}

func TestParseForWithAndWithoutStep(t *testing.T) {
	withStep := parseSingle(t, "for $i 0 10 2 { println $i }").(*ForExpr)
	if withStep.Step == nil || withStep.Var != "i" {
		t.Fatalf("expected step: %s", DumpExpr(withStep))
	}
	noStep := parseSingle(t, "for $i 0 10 { println $i }").(*ForExpr)
	if noStep.Step != nil {
		t.Fatalf("unexpected step: %s", DumpExpr(noStep))
	}
}

func TestParseLoops(t *testing.T) {
	if _, ok := parseSingle(t, "loop 3 { go }").(*LoopExpr); !ok {
		t.Fatalf("expected counted loop")
	}
	if _, ok := parseSingle(t, "loop { break }").(*ForeverExpr); !ok {
		t.Fatalf("expected infinite loop")
	}
	if _, ok := parseSingle(t, "while $a < 3 { $a = $a + 1 }").(*WhileExpr); !ok {
		t.Fatalf("expected while loop")
	}
}

func TestParseBracedLoopFollowedByStatement(t *testing.T) {
	root := mustParse(t, "$n = 0\nloop {\n $n = $n + 1\n if $n == 5 { break }\n}\n$n").(*BlockExpr)
	if len(root.Body) != 3 {
		t.Fatalf("expected three statements, got %s", DumpExpr(root))
	}
	loop, ok := root.Body[1].(*ForeverExpr)
	if !ok {
		t.Fatalf("expected infinite loop, got %s", DumpExpr(root.Body[1]))
	}
	if body, ok := loop.Body.(*BlockExpr); !ok || len(body.Body) != 2 {
		t.Fatalf("unexpected loop body %s", DumpExpr(loop.Body))
	}
	if _, ok := root.Body[2].(*VariableExpr); !ok {
		t.Fatalf("statement after the loop was swallowed: %s", DumpExpr(root))
	}

	counted := mustParse(t, "loop 2 { go }\nprintln 1").(*BlockExpr)
	if _, ok := counted.Body[0].(*LoopExpr); !ok || len(counted.Body) != 2 {
		t.Fatalf("expected counted loop then call, got %s", DumpExpr(counted))
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	fn := parseSingle(t, "fn area($w, $h) { return $w * $h }").(*FnDefExpr)
	if fn.Name != "area" || strings.Join(fn.Params, ",") != "w,h" {
		t.Fatalf("unexpected definition %s", DumpExpr(fn))
	}
	ret := fn.Body.(*BlockExpr).Body[0].(*ReturnExpr)
	if _, ok := ret.Value.(*BinaryExpr); !ok {
		t.Fatalf("expected return operand, got %s", DumpExpr(ret))
	}
}

func TestParseBareReturnYieldsNone(t *testing.T) {
	block := parseSingle(t, "{ return }").(*BlockExpr)
	ret := block.Body[0].(*ReturnExpr)
	if _, ok := ret.Value.(*NoneLiteral); !ok {
		t.Fatalf("expected None operand, got %s", DumpExpr(ret))
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	assign := parseSingle(t, "$obj.$field = 3").(*AssignExpr)
	target := assign.Target.(*VariableExpr)
	if target.Name != "field" || target.Parent.(*VariableExpr).Name != "obj" {
		t.Fatalf("unexpected target %s", DumpExpr(target))
	}
}

func TestParseFileAndTilemapAreStrings(t *testing.T) {
	for _, src := range []string{`f"notes.txt"`, `t"level"`} {
		if _, ok := parseSingle(t, src).(*StringLiteral); !ok {
			t.Fatalf("%s: expected string literal", src)
		}
	}
	if _, ok := parseSingle(t, `i"cat.png"`).(*ImageLiteral); !ok {
		t.Fatalf("expected image literal")
	}
	if _, ok := parseSingle(t, `k"space"`).(*KeyLiteral); !ok {
		t.Fatalf("expected key literal")
	}
}

func TestParseSpans(t *testing.T) {
	src := "$a = 1 + 22"
	assign := parseSingle(t, src).(*AssignExpr)
	if assign.Span() != (Span{Start: 0, End: len(src)}) {
		t.Fatalf("assignment span %v", assign.Span())
	}
	if sum := assign.Value.Span(); sum != (Span{Start: 5, End: 11}) {
		t.Fatalf("sum span %v", sum)
	}
}

func TestParseReportsLexErrorsOnly(t *testing.T) {
	_, errs := Parse("go( @ ~")
	if len(errs) != 2 {
		t.Fatalf("expected two lexical errors, got %v", errs)
	}
	for _, err := range errs {
		if err.Kind != ErrorInvalidToken {
			t.Fatalf("expected InvalidToken, got %v", err.Kind)
		}
	}
}

func TestParseErrors(t *testing.T) {
	_, errs := Parse("print(1")
	if len(errs) != 1 || errs[0].Kind != ErrorSyntax {
		t.Fatalf("expected end-of-input syntax error, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "end of input") {
		t.Fatalf("unexpected message %q", errs[0].Error())
	}

	_, errs = Parse("$a = )")
	if len(errs) != 1 || errs[0].Kind != ErrorUnexpectedToken {
		t.Fatalf("expected unexpected token error, got %v", errs)
	}
	if errs[0].Token == nil || errs[0].Token.Type != TokenRightParent {
		t.Fatalf("expected ')' to be reported, got %v", errs[0].Token)
	}
	if errs[0].Span != (Span{Start: 5, End: 6}) {
		t.Fatalf("unexpected span %v", errs[0].Span)
	}
}

func TestParseReportsIndependentErrors(t *testing.T) {
	_, errs := Parse("$a = )\nprint 1\n$b = ]\n")
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
	if errs[0].Span.Start >= errs[1].Span.Start {
		t.Fatalf("errors out of order: %v", errs)
	}
}

func TestParseTokensUsesTokenIndexSpans(t *testing.T) {
	tokens := []Token{
		{Type: TokenFunction, Text: "go"},
		{Type: TokenSpace},
		{Type: TokenInteger, Int: 5},
		{Type: TokenNewline},
		{Type: TokenRightParent},
	}
	_, errs := ParseTokens(tokens)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if errs[0].Span != (Span{Start: 4, End: 5}) {
		t.Fatalf("expected token index span 4..5, got %v", errs[0].Span)
	}
}

func TestParseTokensRejectsBadFloat(t *testing.T) {
	_, errs := ParseTokens([]Token{{Type: TokenFloat, Text: "abc"}})
	if len(errs) != 1 || errs[0].Kind != ErrorSyntax {
		t.Fatalf("expected syntax error for bad float, got %v", errs)
	}
}

func TestParseRoundTripProperty(t *testing.T) {
	sources := []string{
		"fn f($a) { if $a > 1 { return $a * f($a - 1) } 1 }\nprintln f(5)",
		"$o = {\"x\": 1}; $o.$x = $o.$x + 1; for $i 0 3 { print $i }",
		"loop { $n = $n - 1; if $n < 0 { break } }",
		"while 1 == 1 { go 5; left; $t.go(-2.5) }",
	}
	for _, src := range sources {
		fromSource := mustParse(t, src)
		fromTokens, errs := ParseTokens(lexTokens(t, src))
		if len(errs) > 0 {
			t.Fatalf("%q: %v", src, errs)
		}
		if !EqualExpr(fromSource, fromTokens) {
			t.Fatalf("%q: trees differ", src)
		}
	}
}

func TestParseDeepNesting(t *testing.T) {
	src := strings.Repeat("loop 1 { ", 40) + "break" + strings.Repeat(" }", 40)
	parseSingle(t, src)
}

func TestParseShortcallStopsAtStatementEnd(t *testing.T) {
	root := mustParse(t, "left\n$x = 1\nright; $y = 2").(*BlockExpr)
	if len(root.Body) != 4 {
		t.Fatalf("expected four statements, got %s", DumpExpr(root))
	}
	if call := root.Body[0].(*CallExpr); len(call.Args) != 0 {
		t.Fatalf("bare call took an argument from the next line")
	}
}
