package tcs

// ArgKind is the expected type of a native function argument.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgInt
	// ArgFloat accepts ints and floats; ints are converted.
	ArgFloat
	ArgObject
	ArgImage
	// ArgAny accepts every value.
	ArgAny
)

type ArgSpec struct {
	Kind ArgKind
	// Default is used when the argument is omitted. Only trailing arguments
	// may be optional.
	Default    Value
	HasDefault bool
}

func Arg(kind ArgKind) ArgSpec { return ArgSpec{Kind: kind} }

func OptionalArg(kind ArgKind, def Value) ArgSpec {
	return ArgSpec{Kind: kind, Default: def, HasDefault: true}
}

// ArgSchema declares the arguments of a native function.
type ArgSchema []ArgSpec

func Args(specs ...ArgSpec) ArgSchema { return specs }

func (s ArgSchema) required() int {
	n := 0
	for _, spec := range s {
		if spec.HasDefault {
			break
		}
		n++
	}
	return n
}

// Check validates args against the schema and returns them with defaults
// filled in and ints widened for float slots.
func (s ArgSchema) Check(args []Value) ([]Value, error) {
	if len(args) < s.required() || len(args) > len(s) {
		return nil, ErrInvalidArgCount(len(args), len(s))
	}
	out := make([]Value, len(s))
	for i, spec := range s {
		if i >= len(args) {
			out[i] = spec.Default
			continue
		}
		v, ok := spec.accept(args[i])
		if !ok {
			return nil, ErrInvalidArgType(i)
		}
		out[i] = v
	}
	return out, nil
}

func (spec ArgSpec) accept(v Value) (Value, bool) {
	switch spec.Kind {
	case ArgString:
		return v, v.kind == KindString
	case ArgInt:
		return v, v.kind == KindInt
	case ArgFloat:
		switch v.kind {
		case KindFloat:
			return v, true
		case KindInt:
			return NewFloat(float64(v.Int())), true
		}
		return v, false
	case ArgObject:
		return v, v.kind == KindObject
	case ArgImage:
		return v, v.kind == KindImage
	}
	return v, true
}
