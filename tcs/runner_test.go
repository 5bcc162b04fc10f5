package tcs

import (
	"context"
	"testing"
	"time"
)

func waitDone(t *testing.T, r *Run) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("script did not finish")
	}
}

func TestRunFinishes(t *testing.T) {
	ctx, out := newTestContext("")
	r := Spawn(context.Background(), ctx, mustParse(t, "println 1\n2 + 3"))
	waitDone(t, r)

	state, value, err := r.State()
	if state != StateFinished || err != nil {
		t.Fatalf("expected finished, got %v (%v)", state, err)
	}
	if value.String() != "5" || out.String() != "1\n" {
		t.Fatalf("got %s with output %q", value, out.String())
	}
}

func TestRunReportsErrors(t *testing.T) {
	ctx, _ := newTestContext("")
	r := Spawn(context.Background(), ctx, mustParse(t, "$missing"))
	if _, err := r.Wait(); err == nil {
		t.Fatalf("expected error")
	}
	state, _, err := r.State()
	if state != StateError || IsInterrupted(err) {
		t.Fatalf("expected runtime error state, got %v (%v)", state, err)
	}
}

func TestRunCancel(t *testing.T) {
	ctx, _ := newTestContext("")
	r := Spawn(context.Background(), ctx, mustParse(t, "loop { }"))

	if state, _, _ := r.State(); state != StateRunning {
		t.Fatalf("expected running, got %v", state)
	}
	r.Cancel()
	waitDone(t, r)

	state, _, err := r.State()
	if state != StateError || !IsInterrupted(err) {
		t.Fatalf("expected interrupted error, got %v (%v)", state, err)
	}
}

func TestRunObservesContext(t *testing.T) {
	ctx, _ := newTestContext("")
	parent, cancel := context.WithCancel(context.Background())
	r := Spawn(parent, ctx, mustParse(t, "$n = 0\nwhile 1 == 1 { $n = $n + 1 }"))
	cancel()
	waitDone(t, r)

	if _, err := r.Wait(); !IsInterrupted(err) {
		t.Fatalf("expected interrupted, got %v", err)
	}
}

func TestRunStateString(t *testing.T) {
	if StateRunning.String() != "running" || StateFinished.String() != "finished" || StateError.String() != "error" {
		t.Fatalf("unexpected state names")
	}
}
