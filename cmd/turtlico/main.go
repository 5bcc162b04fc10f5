package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		var diag *diagnosticError
		if errors.As(err, &diag) {
			fmt.Fprintln(os.Stderr, diag.render(stderrIsTerminal()))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "tokens":
		return tokensCommand(args[2:])
	case "ast":
		return astCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "export":
		return exportCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

// exitError carries a non-zero integer result of a script as the process
// exit status.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("script exited with status %d", e.code)
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

var usageHeading = lipgloss.NewStyle().Bold(true)

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintln(os.Stderr, usageHeading.Render("Usage:"))
	fmt.Fprintf(os.Stderr, "  %s run [flags] <file.tcsf|file.tcp>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s check <file>...\n", prog)
	fmt.Fprintf(os.Stderr, "  %s tokens <file>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s ast <file>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s fmt [-w] [-check] <path>...\n", prog)
	fmt.Fprintf(os.Stderr, "  %s export [-o file] <file>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s repl\n", prog)
	fmt.Fprintln(os.Stderr, usageHeading.Render("Run flags:"))
	fmt.Fprintln(os.Stderr, "  -config string")
	fmt.Fprintln(os.Stderr, "    YAML run configuration")
	fmt.Fprintln(os.Stderr, "  -turtle")
	fmt.Fprintln(os.Stderr, "    import the gui library and drive its world (default true)")
	fmt.Fprintln(os.Stderr, "  -fps int")
	fmt.Fprintln(os.Stderr, "    world frames per second (default 60)")
	fmt.Fprintln(os.Stderr, "  -step duration")
	fmt.Fprintln(os.Stderr, "    simulated time per frame")
	fmt.Fprintln(os.Stderr, "  -world")
	fmt.Fprintln(os.Stderr, "    print the world after the script ends")
	fmt.Fprintln(os.Stderr, "  -recursion-limit int")
	fmt.Fprintln(os.Stderr, "    maximum depth of nested function calls")
	fmt.Fprintln(os.Stderr, "  -color string")
	fmt.Fprintln(os.Stderr, "    diagnostic colors: auto, always or never (default \"auto\")")
	fmt.Fprintln(os.Stderr, "  -debug")
	fmt.Fprintln(os.Stderr, "    log interpreter events to stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
