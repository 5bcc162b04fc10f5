package tcs

import (
	"strings"
	"testing"
)

func FuzzParseDoesNotPanic(f *testing.F) {
	f.Add("")
	f.Add("go 5\nleft 90")
	f.Add(`fn f($a, $b) { return $a + $b }`)
	f.Add(`for $i 0 10 2 { println($i) }`)
	f.Add(`$o = {"a": {1: k"space"}}` + "\n$o.$a")
	f.Add(`"unterminated`)
	f.Add("if {")

	f.Fuzz(func(t *testing.T, source string) {
		root, errs := Parse(source)
		if root == nil && len(errs) == 0 {
			t.Fatalf("no tree and no errors for %q", source)
		}
		for _, err := range errs {
			_ = err.BuildMessage(source)
		}
	})
}

func BenchmarkEvalLoop(b *testing.B) {
	root := mustParse(b, `
$sum = 0
for $i 0 1000 {
    if $i / 2 * 2 == $i { $sum = $sum + $i }
}
$sum`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, _ := newTestContext("")
		if _, err := ctx.EvalRoot(root); err != nil {
			b.Fatalf("eval: %v", err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	source := strings.Repeat("fn step($n) { go $n\nleft 90 }\nstep(10)\n", 50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, errs := Parse(source); len(errs) > 0 {
			b.Fatalf("parse: %v", errs)
		}
	}
}
