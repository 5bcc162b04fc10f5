package tcs

import (
	"testing"
)

func TestPrintJoinsArguments(t *testing.T) {
	ctx, out := newTestContext("")
	if _, err := ctx.EvalRoot(mustParse(t, `println("a", 1, 2.5)
print("x")
print 5
println()`)); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if out.String() != "a 1 2.5\nx5\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestPrintlnRendersValues(t *testing.T) {
	ctx, out := newTestContext("")
	src := `fn f() { 1 }
println(1 == 1, $f, $println, {"a": "b", 1: 2.5})`
	if _, err := ctx.EvalRoot(mustParse(t, src)); err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := `true <Function> <Native function> {"a": "b", 1: 2.5}` + "\n"
	if out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}

func TestReadln(t *testing.T) {
	ctx, out := newTestContext("Alice\r\nBob\n")
	v, err := ctx.EvalRoot(mustParse(t, `$name = readln("Name? ")
println("hi " + $name)
$second = readln()
$third = readln()
$second + "|" + $third`))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if out.String() != "Name? hi Alice\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if v.String() != "Bob|" {
		t.Fatalf("expected empty read at end of input, got %q", v.String())
	}
}

func TestReadlnRejectsNonStringPrompt(t *testing.T) {
	err := evalError(t, "readln(1)")
	if runtimeKind(t, err) != RuntimeInvalidArgType || err.Runtime.Expected != 0 {
		t.Fatalf("expected InvalidArgType(0), got %v", err)
	}
}

func TestConversions(t *testing.T) {
	cases := []struct {
		source string
		want   string
		kind   ValueKind
	}{
		{`int("42")`, "42", KindInt},
		{`int(" -7 ")`, "-7", KindInt},
		{`int(3.9)`, "3", KindInt},
		{`int(-3.9)`, "-3", KindInt},
		{`int(5)`, "5", KindInt},
		{`float("2.5")`, "2.5", KindFloat},
		{`float(2)`, "2", KindFloat},
		{`float("inf")`, "inf", KindFloat},
		{`string(1.5)`, "1.5", KindString},
		{`string(7) + "!"`, "7!", KindString},
		{`string(1 == 2)`, "false", KindString},
	}
	for _, tc := range cases {
		got := mustEval(t, tc.source)
		if got.Kind() != tc.kind || got.String() != tc.want {
			t.Fatalf("%s: got %s (%s) want %s", tc.source, got, got.TypeName(), tc.want)
		}
	}
}

func TestConversionErrors(t *testing.T) {
	cases := []struct {
		source string
		kind   RuntimeErrorKind
	}{
		{`int("seven")`, RuntimeTypeParseError},
		{`int("99999999999")`, RuntimeTypeParseError},
		{`float("x")`, RuntimeTypeParseError},
		{`int({})`, RuntimeTypeParseUnsupported},
		{`float(1 == 1)`, RuntimeTypeParseUnsupported},
		{`int()`, RuntimeInvalidArgCount},
		{`string(1, 2)`, RuntimeInvalidArgCount},
	}
	for _, tc := range cases {
		err := evalError(t, tc.source)
		if got := runtimeKind(t, err); got != tc.kind {
			t.Fatalf("%s: got kind %v want %v (%v)", tc.source, got, tc.kind, err)
		}
	}
}

func TestRandom(t *testing.T) {
	ctx, _ := newTestContext("")
	root := mustParse(t, "random(1, 3)")
	seen := map[int32]bool{}
	for i := 0; i < 200; i++ {
		v, err := ctx.EvalRoot(root)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		n := v.Int()
		if n < 1 || n > 3 {
			t.Fatalf("random(1, 3) out of range: %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected every value of an inclusive range, saw %v", seen)
	}

	unit := mustParse(t, "random()")
	for i := 0; i < 50; i++ {
		v, err := ctx.EvalRoot(unit)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		if v.Kind() != KindFloat || v.Float() < 0 || v.Float() >= 1 {
			t.Fatalf("random() out of range: %s", v)
		}
	}

	if got := mustEval(t, "random(4, 4)").String(); got != "4" {
		t.Fatalf("single-value range: got %s", got)
	}
}

func TestRandomErrors(t *testing.T) {
	if kind := runtimeKind(t, evalError(t, "random(5, 1)")); kind != RuntimeNativeLibraryError {
		t.Fatalf("empty range: got %v", kind)
	}
	if kind := runtimeKind(t, evalError(t, "random(1)")); kind != RuntimeInvalidArgCount {
		t.Fatalf("one argument: got %v", kind)
	}
	if kind := runtimeKind(t, evalError(t, `random(1, "2")`)); kind != RuntimeTypeError {
		t.Fatalf("string bound: got %v", kind)
	}
}
