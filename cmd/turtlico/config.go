package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/turtlico/turtlicoscript/turtle"
)

// runConfig is the optional YAML file accepted by `run -config`. Flags given
// on the command line take precedence over it.
type runConfig struct {
	RecursionLimit int          `yaml:"recursion_limit"`
	Debug          bool         `yaml:"debug"`
	Color          string       `yaml:"color"`
	Turtle         turtleConfig `yaml:"turtle"`
}

type turtleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	FPS       int    `yaml:"fps"`
	Step      string `yaml:"step"`
	ScriptDir string `yaml:"script_dir"`
	ShowWorld bool   `yaml:"show_world"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		Color: colorAuto,
		Turtle: turtleConfig{
			Enabled: true,
			FPS:     turtle.DefaultFPS,
		},
	}
}

func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c runConfig) validate() error {
	switch c.Color {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never; got %q", c.Color)
	}
	if c.RecursionLimit < 0 {
		return errors.New("recursion_limit must not be negative")
	}
	if c.Turtle.FPS < 0 {
		return errors.New("turtle.fps must not be negative")
	}
	if _, err := c.step(); err != nil {
		return err
	}
	return nil
}

func (c runConfig) step() (time.Duration, error) {
	if c.Turtle.Step == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Turtle.Step)
	if err != nil {
		return 0, fmt.Errorf("turtle.step: %w", err)
	}
	if d < 0 {
		return 0, errors.New("turtle.step must not be negative")
	}
	return d, nil
}

// runFlags are the run command's flags that may override the config file.
type runFlags struct {
	debug          *bool
	color          *string
	recursionLimit *int
	turtle         *bool
	fps            *int
	step           *time.Duration
	world          *bool
}

func registerRunFlags(fs *flag.FlagSet) runFlags {
	return runFlags{
		debug:          fs.Bool("debug", false, "log interpreter events to stderr"),
		color:          fs.String("color", colorAuto, "diagnostic colors: auto, always or never"),
		recursionLimit: fs.Int("recursion-limit", 0, "maximum depth of nested function calls"),
		turtle:         fs.Bool("turtle", true, "import the gui library and drive its world"),
		fps:            fs.Int("fps", turtle.DefaultFPS, "world frames per second"),
		step:           fs.Duration("step", 0, "simulated time per frame (0 follows the wall clock)"),
		world:          fs.Bool("world", false, "print the world after the script ends"),
	}
}

// apply copies the explicitly set flags of fs over the config.
func (f runFlags) apply(fs *flag.FlagSet, cfg *runConfig) error {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			cfg.Debug = *f.debug
		case "color":
			cfg.Color = *f.color
		case "recursion-limit":
			cfg.RecursionLimit = *f.recursionLimit
		case "turtle":
			cfg.Turtle.Enabled = *f.turtle
		case "fps":
			cfg.Turtle.FPS = *f.fps
		case "step":
			cfg.Turtle.Step = f.step.String()
		case "world":
			cfg.Turtle.ShowWorld = *f.world
		}
	})
	return cfg.validate()
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
