package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/turtlico/turtlicoscript/tcs"
	"github.com/turtlico/turtlicoscript/turtle"
)

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "YAML run configuration")
	flags := registerRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("turtlico run: script path required")
	}

	cfg, err := loadRunConfig(*configPath)
	if err != nil {
		return err
	}
	if err := flags.apply(fs, &cfg); err != nil {
		return err
	}

	s, err := loadScript(remaining[0])
	if err != nil {
		return err
	}
	root, err := s.parse()
	if err != nil {
		return withColor(err, cfg.Color)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	value, err := execute(ctx, s, root, cfg)
	if err != nil {
		if tcs.IsInterrupted(err) {
			return nil
		}
		var spanned *tcs.Error
		if errors.As(err, &spanned) {
			return withColor(s.diagnose(spanned), cfg.Color)
		}
		return fmt.Errorf("execution failed: %w", err)
	}
	if value.Kind() == tcs.KindInt && value.Int() != 0 {
		return &exitError{code: int(value.Int())}
	}
	return nil
}

func execute(ctx context.Context, s *script, root tcs.Expression, cfg runConfig) (tcs.Value, error) {
	logger := newLogger(os.Stderr, cfg.Debug)
	interp := tcs.NewContext(tcs.Config{
		Cancel:         new(atomic.Bool),
		RecursionLimit: cfg.RecursionLimit,
		Logger:         logger.With("script", filepath.Base(s.path)),
	})
	if !cfg.Turtle.Enabled {
		return tcs.Spawn(ctx, interp, root).Wait()
	}

	scriptDir := cfg.Turtle.ScriptDir
	switch {
	case scriptDir != "":
	case s.project != nil && len(s.project.Files) > 0:
		dir, cleanup, err := s.extractFiles()
		if err != nil {
			return tcs.NewNone(), err
		}
		defer cleanup()
		scriptDir = dir
	default:
		scriptDir = s.dir()
	}
	world := turtle.NewWorld(turtle.Options{ScriptDir: scriptDir, Logger: logger})
	interp.ImportLibrary(turtle.NewLibrary(world), false)

	step, err := cfg.step()
	if err != nil {
		return tcs.NewNone(), err
	}
	driver := turtle.NewDriver(world)
	driver.FPS = cfg.Turtle.FPS
	driver.Step = step

	value, err := driver.Play(ctx, interp, root)
	if cfg.Turtle.ShowWorld {
		fmt.Println(world.Render())
	}
	return value, err
}

// checkCommand parses every file and reports all syntax errors without
// running anything.
func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("turtlico check: path required")
	}
	var messages []string
	count := 0
	for _, path := range paths {
		s, err := loadScript(path)
		if err != nil {
			return err
		}
		if _, err := s.parse(); err != nil {
			var diag *diagnosticError
			if !errors.As(err, &diag) {
				return err
			}
			messages = append(messages, s.path+":\n"+diag.message)
			count += diag.count
		}
	}
	if count == 0 {
		return nil
	}
	return &diagnosticError{message: strings.Join(messages, "\n"), count: count}
}

func withColor(err error, mode string) error {
	var diag *diagnosticError
	if errors.As(err, &diag) {
		diag.color = mode
	}
	return err
}
