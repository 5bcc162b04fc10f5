package tcs

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync/atomic"
)

// CancellationToken is shared between a running script and its host. Setting
// it makes the script fail with an Interrupted error at the next evaluated
// expression.
type CancellationToken = *atomic.Bool

// Config controls how a Context evaluates scripts and where the standard
// library performs I/O.
type Config struct {
	Cancel         CancellationToken
	Stdout         io.Writer
	Stdin          io.Reader
	Rand           *rand.Rand
	RecursionLimit int
	Logger         *slog.Logger
}

// Context holds the scopes and library state of one script execution. A
// Context is not safe for concurrent use; run it on one goroutine and share
// only the cancellation token.
type Context struct {
	config    Config
	scopes    scopeStack
	libraries map[string]LibraryContext
	depth     int
}

// NewContext creates a root context with the standard library imported.
func NewContext(cfg Config) *Context {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 1024
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	ctx := &Context{
		config:    cfg,
		libraries: make(map[string]LibraryContext),
	}
	ctx.scopes.push(NewScope())
	ctx.ImportLibrary(NewStdLibrary(cfg), false)
	return ctx
}

// NewParent creates a root context with default I/O that observes cancel.
func NewParent(cancel CancellationToken) *Context {
	return NewContext(Config{Cancel: cancel})
}

// ImportLibrary copies the library's bindings into the root scope, optionally
// qualified as "name.binding", and registers its context for its natives.
func (c *Context) ImportLibrary(lib *Library, prefix bool) {
	root := c.scopes.root()
	for name, v := range lib.Scope.vars {
		key := name
		if prefix {
			key = lib.Name + "." + name
		}
		if lib.Scope.IsProperty(name) {
			root.DefineProperty(key, v)
		} else {
			root.Define(key, v)
		}
	}
	c.libraries[lib.Name] = lib.Context
	c.config.Logger.Debug("library imported", "library", lib.Name, "bindings", len(lib.Scope.vars), "prefixed", prefix)
}

// EvalRoot evaluates a program produced by Parse or ParseTokens. A top-level
// return ends the program with its value; a top-level break ends it with
// Break. Errors are *Error values.
func (c *Context) EvalRoot(root Expression) (Value, error) {
	v, err := c.eval(root)
	if err != nil {
		return NewNone(), err
	}
	if v.kind == KindReturn {
		return v.Unwrap(), nil
	}
	return v, nil
}

// Lookup reads a root-scope binding without invoking properties.
func (c *Context) Lookup(name string) (Value, bool) {
	return c.scopes.root().Get(name)
}

// Globals returns the root scope.
func (c *Context) Globals() *Scope {
	return c.scopes.root()
}

func (c *Context) cancelled() bool {
	return c.config.Cancel != nil && c.config.Cancel.Load()
}
