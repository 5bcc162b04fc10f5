package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/turtlico/turtlicoscript/tcs"
)

const (
	sourceExt  = ".tcsf"
	projectExt = ".tcp"

	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// script is a program read from disk, either as source text or as an editor
// project. Project programs are parsed from their tokens, so their error
// spans index tokens instead of bytes.
type script struct {
	path    string
	source  string
	project *tcs.Project
}

func loadScript(path string) (*script, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve script path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s := &script{path: abs}
	if filepath.Ext(abs) == projectExt {
		project, err := tcs.LoadProject(data)
		if err != nil {
			return nil, fmt.Errorf("load project: %w", err)
		}
		s.project = project
		s.source = project.Source()
		return s, nil
	}
	s.source = string(data)
	return s, nil
}

func (s *script) dir() string {
	return filepath.Dir(s.path)
}

func (s *script) tokens() []tcs.Token {
	if s.project != nil {
		return s.project.Program.Tokens()
	}
	lexed, _ := tcs.Lex(s.source)
	tokens := make([]tcs.Token, len(lexed))
	for i, lt := range lexed {
		tokens[i] = lt.Token
	}
	return tokens
}

func (s *script) parse() (tcs.Expression, error) {
	var (
		root tcs.Expression
		errs []*tcs.Error
	)
	if s.project != nil {
		root, errs = tcs.ParseTokens(s.project.Program.Tokens())
	} else {
		root, errs = tcs.Parse(s.source)
	}
	if len(errs) > 0 {
		return nil, s.diagnose(errs...)
	}
	return root, nil
}

func (s *script) diagnose(errs ...*tcs.Error) *diagnosticError {
	var message string
	if s.project != nil {
		message = buildTokenMessages(errs, s.project.Program.Tokens())
	} else {
		message = tcs.BuildMessages(errs, s.source)
	}
	return &diagnosticError{message: message, count: len(errs)}
}

// buildTokenMessages renders errors whose spans index tokens.
func buildTokenMessages(errs []*tcs.Error, tokens []tcs.Token) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		start, end := err.Span.Start, err.Span.End
		start = min(max(start, 0), len(tokens))
		end = min(max(end, start), len(tokens))
		excerpt := strings.TrimSpace(tcs.FormatTokens(tokens[start:end]))
		if excerpt == "" {
			excerpt = "end of program"
		}
		parts[i] = fmt.Sprintf("An error occurred at command %d (%s):\n%s", start+1, excerpt, err.Error())
	}
	return strings.Join(parts, "\n")
}

// diagnosticError is a script error already rendered against its source.
// The message carries ANSI highlighting.
type diagnosticError struct {
	message string
	count   int
	color   string
}

func (e *diagnosticError) Error() string {
	return ansi.Strip(e.message)
}

func (e *diagnosticError) render(tty bool) string {
	if useColor(e.color, tty) {
		return e.message
	}
	return ansi.Strip(e.message)
}

func useColor(mode string, tty bool) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	return tty && os.Getenv("NO_COLOR") == ""
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// extractFiles writes the files embedded in a project to a temporary
// directory, so "./name" block references resolve against them.
func (s *script) extractFiles() (string, func(), error) {
	dir, err := os.MkdirTemp("", "turtlico-project-")
	if err != nil {
		return "", nil, fmt.Errorf("extract project files: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }
	for name, content := range s.project.Files {
		base := filepath.Base(name)
		if base == "." || base == string(filepath.Separator) {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, base), content, 0o644); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("extract %s: %w", name, err)
		}
	}
	return dir, cleanup, nil
}
