package tcs

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTokenJSON(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Type: TokenIf}, `"If"`},
		{Token{Type: TokenNewline}, `"Newline"`},
		{Token{Type: TokenInteger, Int: -5}, `{"Integer":-5}`},
		{Token{Type: TokenFunction, Text: "go"}, `{"Function":"go"}`},
		{Token{Type: TokenFloat, Text: "1.5"}, `{"Float":"1.5"}`},
		{Token{Type: TokenImage, Text: "turtle"}, `{"Image":"turtle"}`},
	}
	for _, tc := range cases {
		data, err := json.Marshal(tc.tok)
		if err != nil {
			t.Fatalf("marshal %s: %v", tc.tok, err)
		}
		if string(data) != tc.want {
			t.Fatalf("marshal %s: got %s want %s", tc.tok, data, tc.want)
		}
		var back Token
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != tc.tok {
			t.Fatalf("unmarshal %s: got %s", data, back)
		}
	}
}

func TestTokenJSONRejectsUnknown(t *testing.T) {
	for _, raw := range []string{`"Nope"`, `"Function"`, `{"Integer":"x"}`, `{"If":"x"}`, `{"Function":"a","Variable":"b"}`, `3`} {
		var tok Token
		if err := json.Unmarshal([]byte(raw), &tok); err == nil {
			t.Fatalf("expected error for %s, got %s", raw, tok)
		}
	}
}

func TestCommandJSON(t *testing.T) {
	row := []Command{TokenCommand(Token{Type: TokenFunction, Text: "go"}), CommentCommand("forward"), TokenCommand(Token{Type: TokenNewline})}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"Token":{"Function":"go"}},{"Comment":"forward"},{"Token":"Newline"}]`
	if string(data) != want {
		t.Fatalf("got %s want %s", data, want)
	}
	var back []Command
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 3 || !back[1].IsComment || back[1].Comment != "forward" || back[0].Token.Text != "go" {
		t.Fatalf("unexpected commands %+v", back)
	}

	var bad Command
	if err := json.Unmarshal([]byte(`{}`), &bad); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestFileDataJSON(t *testing.T) {
	data, err := json.Marshal(FileData("hi"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[104,105]" {
		t.Fatalf("got %s", data)
	}
	var back FileData
	if err := json.Unmarshal([]byte("[0,255]"), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[1] != 255 {
		t.Fatalf("got %v", back)
	}
	if err := json.Unmarshal([]byte("[256]"), &back); err == nil {
		t.Fatalf("expected out of range error")
	}
}

const sampleProject = `{
  "program": [
    [{"Token": {"Function": "println"}}, {"Token": {"Integer": 3}}, {"Token": "Newline"}],
    [{"Comment": "done"}]
  ],
  "files": {"a.txt": [104, 105]},
  "tilemaps": {"level": {"width": 2}}
}`

func TestLoadProjectRuns(t *testing.T) {
	project, err := LoadProject([]byte(sampleProject))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(project.Files["a.txt"]) != "hi" {
		t.Fatalf("unexpected file data %v", project.Files["a.txt"])
	}
	if _, ok := project.Tilemaps["level"]; !ok {
		t.Fatalf("tilemap not kept")
	}

	tokens := project.Program.Tokens()
	if len(tokens) != 3 || tokens[1] != (Token{Type: TokenInteger, Int: 3}) {
		t.Fatalf("unexpected tokens %v", tokens)
	}
	root, errs := ParseTokens(tokens)
	if len(errs) > 0 {
		t.Fatalf("parse: %v", errs)
	}
	ctx, out := newTestContext("")
	if _, err := ctx.EvalRoot(root); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if out.String() != "3\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	if got := project.Source(); got != "println 3\n# done" {
		t.Fatalf("unexpected source %q", got)
	}
}

func TestLoadProjectErrors(t *testing.T) {
	if _, err := LoadProject([]byte(`{"program": [[{"Token": "Bogus"}]]}`)); err == nil {
		t.Fatalf("expected error for unknown token")
	}
	project, err := LoadProject([]byte(`{"program": []}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if project.Files == nil {
		t.Fatalf("files must default to an empty map")
	}
}

func TestProjectSaveRoundTrip(t *testing.T) {
	project, err := LoadProject([]byte(sampleProject))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	data, err := project.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := LoadProject(data)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Source() != project.Source() || string(again.Files["a.txt"]) != "hi" {
		t.Fatalf("round trip changed the project: %s", data)
	}

	empty, err := (&Project{}).Save()
	if err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if !strings.Contains(string(empty), `"files":{}`) {
		t.Fatalf("expected empty files map, got %s", empty)
	}
}

func TestProgramFromTokens(t *testing.T) {
	lexed, errs := Lex("go 5 # forward\n$x = 1")
	if len(errs) > 0 {
		t.Fatalf("lex: %v", errs)
	}
	tokens := make([]Token, len(lexed))
	for i, lt := range lexed {
		tokens[i] = lt.Token
	}
	program := ProgramFromTokens(tokens)
	if len(program) != 2 {
		t.Fatalf("expected two rows, got %d", len(program))
	}
	if !program[0][2].IsComment || program[0][2].Comment != " forward" {
		t.Fatalf("expected comment command, got %+v", program[0][2])
	}
	last := program[1][len(program[1])-1]
	if last.Token.Type != TokenNewline {
		t.Fatalf("last row must end with a newline, got %s", last.Token)
	}
	flat := program.Tokens()
	if len(flat) != len(tokens) {
		t.Fatalf("expected %d tokens (comment dropped, newline added), got %d", len(tokens), len(flat))
	}
}
