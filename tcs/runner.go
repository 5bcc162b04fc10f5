package tcs

import (
	"context"
	"sync"
	"sync/atomic"
)

type RunState int

const (
	StateRunning RunState = iota
	StateFinished
	StateError
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Run is a script evaluating on its own goroutine. The host polls State and
// may request cancellation at any time.
type Run struct {
	cancel CancellationToken
	done   chan struct{}

	mu    sync.Mutex
	state RunState
	value Value
	err   error
}

// Spawn starts evaluating root on a new goroutine. The context must have been
// created with a cancellation token; Spawn installs one otherwise. The
// context must not be used by the caller until the run completes.
func Spawn(ctx context.Context, interp *Context, root Expression) *Run {
	if interp.config.Cancel == nil {
		interp.config.Cancel = new(atomic.Bool)
	}
	r := &Run{cancel: interp.config.Cancel, done: make(chan struct{})}

	stop := context.AfterFunc(ctx, r.Cancel)
	logger := interp.config.Logger
	logger.Debug("script started")

	go func() {
		defer close(r.done)
		defer stop()
		value, err := interp.EvalRoot(root)

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.state, r.err = StateError, err
			logger.Debug("script failed", "error", err, "interrupted", IsInterrupted(err))
			return
		}
		r.state, r.value = StateFinished, value
		logger.Debug("script finished", "result", value.String())
	}()
	return r
}

// Cancel asks the script to stop. It fails with an Interrupted error at the
// next evaluated expression.
func (r *Run) Cancel() {
	r.cancel.Store(true)
}

// Cancelled reports whether cancellation was requested.
func (r *Run) Cancelled() bool {
	return r.cancel.Load()
}

// State reports the current state with the result or error once terminal.
func (r *Run) State() (RunState, Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.value, r.err
}

// Done is closed when the script reaches a terminal state.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the script ends and returns its result.
func (r *Run) Wait() (Value, error) {
	<-r.done
	_, value, err := r.State()
	return value, err
}
