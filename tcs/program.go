package tcs

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the token in the editor's project format: payload-free
// tokens as their type name, others as a single-key object.
func (t Token) MarshalJSON() ([]byte, error) {
	switch {
	case t.Type == TokenInteger:
		return json.Marshal(map[string]int32{string(t.Type): t.Int})
	case t.Type.HasPayload():
		return json.Marshal(map[string]string{string(t.Type): t.Text})
	default:
		return json.Marshal(string(t.Type))
	}
}

func (t *Token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		tt := TokenType(name)
		if !knownTokenType(tt) || tt.HasPayload() || tt == TokenInteger {
			return fmt.Errorf("unknown token %q", name)
		}
		*t = Token{Type: tt}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("token object must have exactly one key, got %d", len(tagged))
	}
	for name, payload := range tagged {
		tt := TokenType(name)
		switch {
		case tt == TokenInteger:
			var n int32
			if err := json.Unmarshal(payload, &n); err != nil {
				return fmt.Errorf("integer token: %w", err)
			}
			*t = Token{Type: tt, Int: n}
		case tt.HasPayload():
			var text string
			if err := json.Unmarshal(payload, &text); err != nil {
				return fmt.Errorf("%s token: %w", name, err)
			}
			*t = Token{Type: tt, Text: text}
		default:
			return fmt.Errorf("unknown token %q", name)
		}
	}
	return nil
}

func knownTokenType(tt TokenType) bool {
	if _, ok := fixedTokenSource[tt]; ok {
		return true
	}
	return tt.HasPayload() || tt == TokenInteger
}

// Command is one block of an editor program: a token or a free-text comment.
type Command struct {
	Token     Token
	Comment   string
	IsComment bool
}

func TokenCommand(tok Token) Command    { return Command{Token: tok} }
func CommentCommand(text string) Command { return Command{Comment: text, IsComment: true} }

func (c Command) MarshalJSON() ([]byte, error) {
	if c.IsComment {
		return json.Marshal(map[string]string{"Comment": c.Comment})
	}
	return json.Marshal(map[string]Token{"Token": c.Token})
}

func (c *Command) UnmarshalJSON(data []byte) error {
	var tagged struct {
		Comment *string `json:"Comment"`
		Token   *Token  `json:"Token"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	switch {
	case tagged.Comment != nil && tagged.Token == nil:
		*c = CommentCommand(*tagged.Comment)
	case tagged.Token != nil && tagged.Comment == nil:
		*c = TokenCommand(*tagged.Token)
	default:
		return fmt.Errorf("command must be either a Comment or a Token")
	}
	return nil
}

// Program is an editor program: rows of commands, each row normally ending
// with a Newline token.
type Program [][]Command

// Tokens flattens the program into the token list ParseTokens expects.
// Comments are dropped.
func (p Program) Tokens() []Token {
	var tokens []Token
	for _, row := range p {
		for _, cmd := range row {
			if cmd.IsComment {
				continue
			}
			tokens = append(tokens, cmd.Token)
		}
	}
	return tokens
}

// ProgramFromTokens splits tokens into rows after every Newline. Comment
// tokens become comment commands.
func ProgramFromTokens(tokens []Token) Program {
	var program Program
	var row []Command
	for _, tok := range tokens {
		if tok.Type == TokenComment {
			row = append(row, CommentCommand(tok.Text))
			continue
		}
		row = append(row, TokenCommand(tok))
		if tok.Type == TokenNewline {
			program = append(program, row)
			row = nil
		}
	}
	if len(row) > 0 {
		row = append(row, TokenCommand(Token{Type: TokenNewline}))
		program = append(program, row)
	}
	return program
}

// FileData is an embedded project file. It is stored as an array of byte
// values.
type FileData []byte

func (f FileData) MarshalJSON() ([]byte, error) {
	values := make([]int, len(f))
	for i, b := range f {
		values[i] = int(b)
	}
	return json.Marshal(values)
}

func (f *FileData) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("file byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*f = out
	return nil
}

// Project is a saved editor project.
type Project struct {
	Program Program             `json:"program"`
	Files   map[string]FileData `json:"files"`
	// Tilemaps are kept verbatim; the interpreter only sees their names.
	Tilemaps map[string]json.RawMessage `json:"tilemaps,omitempty"`
}

// LoadProject decodes a project file.
func LoadProject(data []byte) (*Project, error) {
	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	if project.Files == nil {
		project.Files = make(map[string]FileData)
	}
	return &project, nil
}

// Save encodes the project.
func (p *Project) Save() ([]byte, error) {
	files := p.Files
	if files == nil {
		files = map[string]FileData{}
	}
	out := *p
	out.Files = files
	return json.Marshal(out)
}

// Source renders the project program as source text.
func (p *Project) Source() string {
	var tokens []Token
	for _, row := range p.Program {
		for _, cmd := range row {
			if cmd.IsComment {
				tokens = append(tokens, Token{Type: TokenComment, Text: " " + cmd.Comment})
				continue
			}
			tokens = append(tokens, cmd.Token)
		}
	}
	return FormatTokens(tokens)
}
