package tcs

import "sort"

// Scope is one frame of variable bindings. Names listed as properties hold
// zero-argument callables that run on every read.
type Scope struct {
	vars  map[string]Value
	props map[string]struct{}
}

func NewScope() *Scope {
	return &Scope{vars: make(map[string]Value), props: make(map[string]struct{})}
}

func (s *Scope) Get(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Define binds name in this scope and returns the previous value, if any.
func (s *Scope) Define(name string, v Value) (Value, bool) {
	old, ok := s.vars[name]
	s.vars[name] = v
	delete(s.props, name)
	return old, ok
}

// DefineProperty binds a computed property.
func (s *Scope) DefineProperty(name string, fn Value) {
	s.vars[name] = fn
	s.props[name] = struct{}{}
}

func (s *Scope) IsProperty(name string) bool {
	_, ok := s.props[name]
	return ok
}

// Names lists the bound names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// scopeStack is the interpreter's stack of frames. The bottom frame is the
// root scope holding library exports and top-level bindings.
type scopeStack struct {
	frames []*Scope
}

func (s *scopeStack) root() *Scope    { return s.frames[0] }
func (s *scopeStack) current() *Scope { return s.frames[len(s.frames)-1] }

func (s *scopeStack) push(scope *Scope) {
	s.frames = append(s.frames, scope)
}

func (s *scopeStack) pop() {
	if len(s.frames) <= 1 {
		return
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// visible returns the frames a lookup may see, innermost first: the current
// frame and then the root. Function bodies do not see their callers' locals.
func (s *scopeStack) visible() []*Scope {
	if len(s.frames) == 1 {
		return s.frames
	}
	return []*Scope{s.current(), s.root()}
}

// lookup finds the frame binding name.
func (s *scopeStack) lookup(name string) (*Scope, Value, bool) {
	for _, scope := range s.visible() {
		if v, ok := scope.vars[name]; ok {
			return scope, v, true
		}
	}
	return nil, Value{}, false
}

// assign rebinds name in the first visible frame that has it, or defines it in
// the current frame.
func (s *scopeStack) assign(name string, v Value) Value {
	if scope, _, ok := s.lookup(name); ok {
		old, _ := scope.Define(name, v)
		return old
	}
	s.current().Define(name, v)
	return NewNone()
}
