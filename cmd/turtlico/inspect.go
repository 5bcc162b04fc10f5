package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/turtlico/turtlicoscript/tcs"
)

// tokensCommand lists the tokens of a source file with their byte spans.
// Unrecognized characters are listed in place and make the command fail.
func tokensCommand(args []string) error {
	s, err := inspectTarget("tokens", args)
	if err != nil {
		return err
	}
	if s.project != nil {
		for i, tok := range s.project.Program.Tokens() {
			fmt.Printf("%d\t%s\n", i, tok)
		}
		return nil
	}
	var errs []*tcs.Error
	for _, res := range tcs.GetTokens(s.source) {
		if res.Err != nil {
			errs = append(errs, res.Err)
			fmt.Printf("%s\terror: %s\n", res.Err.Span, res.Err)
			continue
		}
		fmt.Printf("%s\t%s\n", res.Span, res.Token)
	}
	if len(errs) > 0 {
		return s.diagnose(errs...)
	}
	return nil
}

func astCommand(args []string) error {
	s, err := inspectTarget("ast", args)
	if err != nil {
		return err
	}
	root, err := s.parse()
	if err != nil {
		return err
	}
	fmt.Print(tcs.DumpExpr(root))
	return nil
}

func inspectTarget(name string, args []string) (*script, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, errors.New("turtlico " + name + ": exactly one script path required")
	}
	return loadScript(fs.Arg(0))
}
