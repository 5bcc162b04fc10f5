package tcs

import (
	"bufio"
	"errors"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
)

// StdLibraryName is the name the standard library is imported under.
const StdLibraryName = "std"

type stdContext struct {
	out  io.Writer
	in   *bufio.Reader
	rand *rand.Rand
}

// NewStdLibrary builds the standard library bound to the I/O streams and
// random source of cfg.
func NewStdLibrary(cfg Config) *Library {
	lib := NewLibrary(StdLibraryName, &stdContext{
		out:  cfg.Stdout,
		in:   bufio.NewReader(cfg.Stdin),
		rand: cfg.Rand,
	})
	lib.Register("println", stdPrintln)
	lib.Register("print", stdPrint)
	lib.Register("readln", stdReadln)
	lib.Register("int", stdInt)
	lib.Register("float", stdFloat)
	lib.Register("string", stdString)
	lib.Register("random", stdRandom)
	return lib
}

func joinValues(args []Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

func stdPrintln(ctx LibraryContext, _ *Object, args []Value) (Value, error) {
	std, err := UnwrapContext[*stdContext](ctx)
	if err != nil {
		return NewNone(), err
	}
	if _, err := io.WriteString(std.out, joinValues(args)+"\n"); err != nil {
		return NewNone(), ErrNativeLibrary("%v", err)
	}
	return NewNone(), nil
}

func stdPrint(ctx LibraryContext, _ *Object, args []Value) (Value, error) {
	std, err := UnwrapContext[*stdContext](ctx)
	if err != nil {
		return NewNone(), err
	}
	if _, err := io.WriteString(std.out, joinValues(args)); err != nil {
		return NewNone(), ErrNativeLibrary("%v", err)
	}
	return NewNone(), nil
}

var readlnArgs = Args(OptionalArg(ArgString, NewString("")))

func stdReadln(ctx LibraryContext, _ *Object, args []Value) (Value, error) {
	std, err := UnwrapContext[*stdContext](ctx)
	if err != nil {
		return NewNone(), err
	}
	args, err = readlnArgs.Check(args)
	if err != nil {
		return NewNone(), err
	}
	if prompt := args[0].Str(); prompt != "" {
		if _, err := io.WriteString(std.out, prompt); err != nil {
			return NewNone(), ErrNativeLibrary("%v", err)
		}
	}
	line, err := std.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return NewNone(), ErrNativeLibrary("%v", err)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return NewString(line), nil
}

var conversionArgs = Args(Arg(ArgAny))

func stdInt(_ LibraryContext, _ *Object, args []Value) (Value, error) {
	args, err := conversionArgs.Check(args)
	if err != nil {
		return NewNone(), err
	}
	v := args[0]
	switch v.kind {
	case KindInt:
		return v, nil
	case KindFloat:
		return NewInt(int32(v.Float())), nil
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 32)
		if err != nil {
			return NewNone(), ErrTypeParse(v.Str(), "int")
		}
		return NewInt(int32(n)), nil
	}
	return NewNone(), ErrTypeParseUnsupported(v.TypeName(), "int")
}

func stdFloat(_ LibraryContext, _ *Object, args []Value) (Value, error) {
	args, err := conversionArgs.Check(args)
	if err != nil {
		return NewNone(), err
	}
	v := args[0]
	switch v.kind {
	case KindFloat:
		return v, nil
	case KindInt:
		return NewFloat(float64(v.Int())), nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return NewNone(), ErrTypeParse(v.Str(), "float")
		}
		return NewFloat(f), nil
	}
	return NewNone(), ErrTypeParseUnsupported(v.TypeName(), "float")
}

func stdString(_ LibraryContext, _ *Object, args []Value) (Value, error) {
	args, err := conversionArgs.Check(args)
	if err != nil {
		return NewNone(), err
	}
	return NewString(args[0].String()), nil
}

// random() yields a float in [0, 1); random(min, max) an int in [min, max].
func stdRandom(ctx LibraryContext, _ *Object, args []Value) (Value, error) {
	std, err := UnwrapContext[*stdContext](ctx)
	if err != nil {
		return NewNone(), err
	}
	switch len(args) {
	case 0:
		return NewFloat(std.rand.Float64()), nil
	case 2:
		lo, err := args[0].ToInt()
		if err != nil {
			return NewNone(), err
		}
		hi, err := args[1].ToInt()
		if err != nil {
			return NewNone(), err
		}
		if lo > hi {
			return NewNone(), ErrNativeLibrary("random: empty range %d..=%d", lo, hi)
		}
		return NewInt(int32(int64(lo) + std.rand.Int64N(int64(hi)-int64(lo)+1))), nil
	}
	return NewNone(), ErrInvalidArgCount(len(args), 2)
}
