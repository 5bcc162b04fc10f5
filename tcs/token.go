package tcs

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType identifies the lexical category of a token. The string values
// double as the variant tags used by the editor's program files.
type TokenType string

const (
	TokenComment TokenType = "Comment"

	TokenIf     TokenType = "If"
	TokenElse   TokenType = "Else"
	TokenReturn TokenType = "Return"
	TokenBreak  TokenType = "Break"
	TokenLoop   TokenType = "Loop"
	TokenFor    TokenType = "For"
	TokenWhile  TokenType = "While"
	TokenFnDef  TokenType = "FnDef"

	TokenVariable TokenType = "Variable"
	TokenFunction TokenType = "Function"

	TokenString  TokenType = "String"
	TokenImage   TokenType = "Image"
	TokenKey     TokenType = "Key"
	TokenFile    TokenType = "File"
	TokenTilemap TokenType = "Tilemap"
	TokenInteger TokenType = "Integer"
	TokenFloat   TokenType = "Float"

	TokenLeftParent  TokenType = "LeftParent"
	TokenRightParent TokenType = "RightParent"
	TokenLeftCurly   TokenType = "LeftCurly"
	TokenRightCurly  TokenType = "RightCurly"
	TokenLeftSquare  TokenType = "LeftSquare"
	TokenRightSquare TokenType = "RightSquare"
	TokenComma       TokenType = "Comma"
	TokenColon       TokenType = "Colon"
	TokenDot         TokenType = "Dot"

	TokenPlus  TokenType = "Plus"
	TokenMinus TokenType = "Minus"
	TokenStar  TokenType = "Star"
	TokenSlash TokenType = "Slash"

	TokenEq         TokenType = "Eq"
	TokenNeq        TokenType = "Neq"
	TokenLt         TokenType = "Lt"
	TokenGt         TokenType = "Gt"
	TokenLte        TokenType = "Lte"
	TokenGte        TokenType = "Gte"
	TokenAssignment TokenType = "Assignment"

	TokenSpace   TokenType = "Space"
	TokenNewline TokenType = "Newline"
)

// Token is a single lexical unit. Tokens are comparable and may be used as map
// keys; two tokens are equal when their type and payload are equal.
type Token struct {
	Type TokenType
	// Text holds the payload of Comment, Variable, Function, String-like and
	// Float tokens.
	Text string
	// Int holds the payload of Integer tokens.
	Int int32
}

// Span is a half-open [Start, End) range. For parsed source it indexes bytes;
// for token lists handed to ParseTokens it indexes tokens.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// HasPayload reports whether the token type carries a textual payload.
func (t TokenType) HasPayload() bool {
	switch t {
	case TokenComment, TokenVariable, TokenFunction, TokenString, TokenImage,
		TokenKey, TokenFile, TokenTilemap, TokenFloat:
		return true
	}
	return false
}

var fixedTokenSource = map[TokenType]string{
	TokenIf:          "if",
	TokenElse:        "else",
	TokenReturn:      "return",
	TokenBreak:       "break",
	TokenLoop:        "loop",
	TokenFor:         "for",
	TokenWhile:       "while",
	TokenFnDef:       "fn",
	TokenLeftParent:  "(",
	TokenRightParent: ")",
	TokenLeftCurly:   "{",
	TokenRightCurly:  "}",
	TokenLeftSquare:  "[",
	TokenRightSquare: "]",
	TokenComma:       ",",
	TokenColon:       ":",
	TokenDot:         ".",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenEq:          "==",
	TokenNeq:         "!=",
	TokenLt:          "<",
	TokenGt:          ">",
	TokenLte:         "<=",
	TokenGte:         ">=",
	TokenAssignment:  "=",
	TokenSpace:       ";",
	TokenNewline:     "\n",
}

var stringPrefix = map[TokenType]string{
	TokenString:  "",
	TokenImage:   "i",
	TokenKey:     "k",
	TokenFile:    "f",
	TokenTilemap: "t",
}

// String renders the token in its debug form, e.g. Function("go") or Integer(5).
func (t Token) String() string {
	switch {
	case t.Type == TokenInteger:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case t.Type.HasPayload():
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	default:
		return string(t.Type)
	}
}

// Source renders the token as TurtlicoScript source text. Lexing the result
// yields the same token.
func (t Token) Source() string {
	if src, ok := fixedTokenSource[t.Type]; ok {
		return src
	}
	switch t.Type {
	case TokenComment:
		return "#" + t.Text
	case TokenVariable:
		return "$" + t.Text
	case TokenFunction, TokenFloat:
		return t.Text
	case TokenInteger:
		return strconv.FormatInt(int64(t.Int), 10)
	}
	if prefix, ok := stringPrefix[t.Type]; ok {
		return prefix + quoteLiteral(t.Text)
	}
	return ""
}

func quoteLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\':
			// Only a \u that does not start an escape may stay bare.
			rest, bareU := strings.CutPrefix(s[i+1:], "u")
			if _, decodes := hexEscape(rest); bareU && !decodes {
				sb.WriteByte('\\')
			} else {
				sb.WriteString(`\u005c`)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// FormatTokens renders a token list as source text. Adjacent word-like tokens
// are separated by a single space.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	var prev Token
	for i, tok := range tokens {
		switch {
		case i > 0 && prev.Type == TokenComment && tok.Type != TokenNewline:
			sb.WriteByte('\n')
		case i > 0 && needsSeparator(prev, tok):
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Source())
		prev = tok
	}
	return sb.String()
}

func needsSeparator(prev, next Token) bool {
	switch prev.Type {
	case TokenNewline, TokenSpace, TokenLeftParent, TokenLeftSquare, TokenDot:
		return false
	case TokenFunction:
		if next.Type == TokenLeftParent {
			return false
		}
	}
	switch next.Type {
	case TokenNewline, TokenSpace, TokenRightParent, TokenRightSquare, TokenComma, TokenDot, TokenColon:
		return false
	}
	return true
}

func keywordType(ident string) (TokenType, bool) {
	switch ident {
	case "if":
		return TokenIf, true
	case "else":
		return TokenElse, true
	case "return":
		return TokenReturn, true
	case "break":
		return TokenBreak, true
	case "loop":
		return TokenLoop, true
	case "for":
		return TokenFor, true
	case "while":
		return TokenWhile, true
	case "fn":
		return TokenFnDef, true
	}
	return "", false
}
