package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtlico/turtlicoscript/tcs"
)

// exportCommand converts between source files and editor projects: a .tcsf
// file becomes a project, a .tcp project becomes source text.
func exportCommand(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	output := fs.String("o", "", "write the result to this file instead of stdout")
	var embeds pathList
	fs.Var(&embeds, "file", "embed a file into the exported project (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("turtlico export: exactly one script path required")
	}
	s, err := loadScript(fs.Arg(0))
	if err != nil {
		return err
	}

	var data []byte
	if s.project != nil {
		if len(embeds) > 0 {
			return errors.New("turtlico export: -file only applies to source files")
		}
		source := s.source
		if !strings.HasSuffix(source, "\n") {
			source += "\n"
		}
		data = []byte(source)
	} else {
		project, err := projectFromSource(s, embeds)
		if err != nil {
			return err
		}
		if data, err = project.Save(); err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
	}

	if *output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	return nil
}

func projectFromSource(s *script, embeds []string) (*tcs.Project, error) {
	lexed, errs := tcs.Lex(s.source)
	if len(errs) > 0 {
		return nil, s.diagnose(errs...)
	}
	tokens := make([]tcs.Token, len(lexed))
	for i, lt := range lexed {
		tokens[i] = lt.Token
	}
	project := &tcs.Project{
		Program: tcs.ProgramFromTokens(tokens),
		Files:   make(map[string]tcs.FileData, len(embeds)),
	}
	for _, path := range embeds {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("embed %s: %w", path, err)
		}
		project.Files[filepath.Base(path)] = tcs.FileData(content)
	}
	return project, nil
}

type pathList []string

func (l *pathList) String() string {
	return strings.Join(*l, string(os.PathListSeparator))
}

func (l *pathList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
