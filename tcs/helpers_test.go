package tcs

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func newTestContext(stdin string) (*Context, *bytes.Buffer) {
	var out bytes.Buffer
	ctx := NewContext(Config{
		Stdout: &out,
		Stdin:  strings.NewReader(stdin),
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	return ctx, &out
}

func mustParse(t testing.TB, source string) Expression {
	t.Helper()
	root, errs := Parse(source)
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", source, errs)
	}
	return root
}

func mustEval(t testing.TB, source string) Value {
	t.Helper()
	ctx, _ := newTestContext("")
	v, err := ctx.EvalRoot(mustParse(t, source))
	if err != nil {
		t.Fatalf("eval %q: %v", source, err)
	}
	return v
}

func evalError(t testing.TB, source string) *Error {
	t.Helper()
	ctx, _ := newTestContext("")
	_, err := ctx.EvalRoot(mustParse(t, source))
	if err == nil {
		t.Fatalf("eval %q: expected error", source)
	}
	var spanned *Error
	if !errors.As(err, &spanned) {
		t.Fatalf("eval %q: expected *Error, got %T", source, err)
	}
	return spanned
}

func runtimeKind(t testing.TB, err *Error) RuntimeErrorKind {
	t.Helper()
	if err.Kind != ErrorRuntime || err.Runtime == nil {
		t.Fatalf("expected runtime error, got %v (%v)", err.Kind, err)
	}
	return err.Runtime.Kind
}
