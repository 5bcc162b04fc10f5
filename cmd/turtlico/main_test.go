package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"turtlico", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"turtlico", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"turtlico"})
	if err == nil || !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("expected invalid command error, got %v", err)
	}
}

func TestRunCommandPrintsOutput(t *testing.T) {
	scriptPath := writeScript(t, "hello.tcsf", "$name = \"turtle\"\nprintln(\"hi\", $name)\nprintln(1 + 2)\n")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-turtle=false", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "hi turtle\n3\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("expected script path error, got %v", err)
	}
}

func TestRunCommandIntResultIsExitStatus(t *testing.T) {
	scriptPath := writeScript(t, "exit.tcsf", "println(1)\n3 + 4")
	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-turtle=false", scriptPath})
	})
	var exit *exitError
	if !errors.As(err, &exit) || exit.code != 7 {
		t.Fatalf("expected exit status 7, got %v", err)
	}

	zero := writeScript(t, "zero.tcsf", "0")
	if err := runCommand([]string{"-turtle=false", zero}); err != nil {
		t.Fatalf("a zero result must not fail: %v", err)
	}
}

func TestRunCommandReportsRuntimeError(t *testing.T) {
	scriptPath := writeScript(t, "broken.tcsf", "$a = 1\nprintln($a + \"x\")\n")
	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-turtle=false", "-color", "always", scriptPath})
	})
	var diag *diagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("expected diagnostic, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "An error occurred on line 2:") || !strings.Contains(msg, "type error") {
		t.Fatalf("unexpected message %q", msg)
	}
	if strings.Contains(msg, "\x1b[") {
		t.Fatalf("Error must not carry escapes: %q", msg)
	}
	if !strings.Contains(diag.render(false), "\x1b[") {
		t.Fatalf("-color always must keep escapes")
	}
}

func TestRunCommandReportsSyntaxErrors(t *testing.T) {
	scriptPath := writeScript(t, "syntax.tcsf", "println(1\n")
	err := runCommand([]string{"-turtle=false", "-color", "never", scriptPath})
	var diag *diagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("expected diagnostic, got %v", err)
	}
	if diag.render(true) != err.Error() {
		t.Fatalf("-color never must strip escapes")
	}
}

func TestRunCommandRecursionLimit(t *testing.T) {
	scriptPath := writeScript(t, "deep.tcsf", "fn down($n) { down($n + 1) }\ndown(0)")
	err := runCommand([]string{"-turtle=false", "-recursion-limit", "30", scriptPath})
	if err == nil || !strings.Contains(err.Error(), "recursion depth exceeded (limit 30)") {
		t.Fatalf("expected recursion limit error, got %v", err)
	}
}

func TestRunCommandDrivesTurtle(t *testing.T) {
	scriptPath := writeScript(t, "turtle.tcsf", "speed 0\nplace_block(i\"grass\")\ngo 3\n")
	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-world", "-fps", "1000", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(rows) != 10 {
		t.Fatalf("expected a 10 row world, got %q", out)
	}
	if rows[9] != ".g.>............" {
		t.Fatalf("unexpected bottom row %q", rows[9])
	}
}

func TestRunCommandAnimatedTurtle(t *testing.T) {
	scriptPath := writeScript(t, "walk.tcsf", "go 2\n$block_xy.$x")
	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-fps", "1000", "-step", "100ms", scriptPath})
	})
	var exit *exitError
	if !errors.As(err, &exit) || exit.code != 2 {
		t.Fatalf("expected the turtle to end on column 2, got %v", err)
	}
}

func TestRunCommandWithoutTurtleRejectsGuiCalls(t *testing.T) {
	scriptPath := writeScript(t, "go.tcsf", "go 1")
	err := runCommand([]string{"-turtle=false", scriptPath})
	if err == nil || !strings.Contains(err.Error(), `unknown identifier "go"`) {
		t.Fatalf("expected unknown identifier, got %v", err)
	}
}

func TestRunCommandProject(t *testing.T) {
	scriptPath := writeScript(t, "hello.tcp", `{
  "program": [
    [{"Token": {"Function": "println"}}, {"Token": {"Integer": 3}}, {"Token": "Newline"}],
    [{"Comment": "done"}]
  ],
  "files": {}
}`)
	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-turtle=false", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandProjectErrorsPointAtCommands(t *testing.T) {
	scriptPath := writeScript(t, "bad.tcp", `{
  "program": [
    [{"Token": {"Function": "println"}}, {"Token": "LeftParent"}, {"Token": {"Integer": 1}}, {"Token": "Plus"}, {"Token": {"String": "x"}}, {"Token": "RightParent"}, {"Token": "Newline"}]
  ],
  "files": {}
}`)
	err := runCommand([]string{"-turtle=false", scriptPath})
	if err == nil {
		t.Fatalf("expected type error")
	}
	if !strings.Contains(err.Error(), "An error occurred at command 5 (\"x\")") || !strings.Contains(err.Error(), "type error") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRunCommandProjectFilesBecomeBlocks(t *testing.T) {
	scriptPath := writeScript(t, "files.tcp", `{
  "program": [
    [{"Token": {"Function": "speed"}}, {"Token": {"Integer": 0}}, {"Token": "Newline"}],
    [{"Token": {"Function": "place_block"}}, {"Token": "LeftParent"}, {"Token": {"Image": "./stone.png"}}, {"Token": "RightParent"}, {"Token": "Newline"}]
  ],
  "files": {"stone.png": [1, 2, 3]}
}`)
	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-world", "-fps", "1000", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if !strings.Contains(out, ">s") {
		t.Fatalf("expected the embedded block in front of the turtle, got %q", out)
	}
}

func TestCheckCommand(t *testing.T) {
	good := writeScript(t, "good.tcsf", "println(1)")
	if err := checkCommand([]string{good}); err != nil {
		t.Fatalf("check failed on a valid script: %v", err)
	}

	bad := writeScript(t, "bad.tcsf", "println(1\n$x = \n")
	err := checkCommand([]string{good, bad})
	var diag *diagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("expected diagnostic, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.tcsf:") {
		t.Fatalf("expected the failing path in %q", err.Error())
	}

	if err := checkCommand(nil); err == nil || !strings.Contains(err.Error(), "path required") {
		t.Fatalf("expected path required error, got %v", err)
	}
}

func TestTokensCommand(t *testing.T) {
	scriptPath := writeScript(t, "tokens.tcsf", "go 5")
	out, err := captureStdout(t, func() error {
		return tokensCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("tokens failed: %v", err)
	}
	if out != "0..2\tFunction(\"go\")\n3..4\tInteger(5)\n" {
		t.Fatalf("unexpected tokens %q", out)
	}
}

func TestTokensCommandReportsInvalidCharacters(t *testing.T) {
	scriptPath := writeScript(t, "invalid.tcsf", "go ?")
	out, err := captureStdout(t, func() error {
		return tokensCommand([]string{scriptPath})
	})
	if err == nil || !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if !strings.Contains(out, "3..4\terror: invalid token") {
		t.Fatalf("expected the error listed in place, got %q", out)
	}
}

func TestASTCommand(t *testing.T) {
	scriptPath := writeScript(t, "ast.tcsf", "println(1 + 2)")
	out, err := captureStdout(t, func() error {
		return astCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("ast failed: %v", err)
	}
	if !strings.Contains(out, "Call") || !strings.Contains(out, "Int 2") {
		t.Fatalf("unexpected tree %q", out)
	}
	if err := astCommand(nil); err == nil {
		t.Fatalf("expected a path error")
	}
}

func writeScript(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
