package tcs

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LexedToken pairs a token with the byte range it was read from.
type LexedToken struct {
	Token Token
	Span  Span
}

// LexResult is one entry of a diagnostic token listing: either a token or the
// InvalidToken error for an unrecognized character sequence.
type LexResult struct {
	Token Token
	Span  Span
	Err   *Error
}

// Lex splits source into tokens. Unrecognized sequences are reported as
// InvalidToken errors and lexing continues after them.
func Lex(source string) ([]LexedToken, []*Error) {
	var tokens []LexedToken
	var errs []*Error
	for _, res := range GetTokens(source) {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		tokens = append(tokens, LexedToken{Token: res.Token, Span: res.Span})
	}
	return tokens, errs
}

// GetTokens lists every token and lexical error of source in order.
func GetTokens(source string) []LexResult {
	l := newLexer(source)
	var out []LexResult
	for {
		res, ok := l.next()
		if !ok {
			return out
		}
		out = append(out, res)
	}
}

type lexer struct {
	input string

	offset int
	width  int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) atEOF() bool {
	return l.width == 0
}

// currentOffset is the byte offset of l.ch.
func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) next() (LexResult, bool) {
	l.skipWhitespace()
	if l.atEOF() {
		return LexResult{}, false
	}

	start := l.currentOffset()
	single := func(tt TokenType) (LexResult, bool) {
		l.readRune()
		return l.emit(Token{Type: tt}, start), true
	}
	double := func(second rune, long, short TokenType) (LexResult, bool) {
		if l.peekRune() == second {
			l.readRune()
			return single(long)
		}
		if short == "" {
			return l.invalid(start), true
		}
		return single(short)
	}

	switch l.ch {
	case '\n':
		return single(TokenNewline)
	case ';':
		return single(TokenSpace)
	case '#':
		for !l.atEOF() && l.ch != '\n' {
			l.readRune()
		}
		text := l.input[start+1 : l.currentOffset()]
		return l.emit(Token{Type: TokenComment, Text: text}, start), true
	case '(':
		return single(TokenLeftParent)
	case ')':
		return single(TokenRightParent)
	case '{':
		return single(TokenLeftCurly)
	case '}':
		return single(TokenRightCurly)
	case '[':
		return single(TokenLeftSquare)
	case ']':
		return single(TokenRightSquare)
	case ',':
		return single(TokenComma)
	case ':':
		return single(TokenColon)
	case '.':
		return single(TokenDot)
	case '+':
		return single(TokenPlus)
	case '-':
		return single(TokenMinus)
	case '*':
		return single(TokenStar)
	case '/':
		return single(TokenSlash)
	case '=':
		return double('=', TokenEq, TokenAssignment)
	case '!':
		return double('=', TokenNeq, "")
	case '<':
		return double('=', TokenLte, TokenLt)
	case '>':
		return double('=', TokenGte, TokenGt)
	case '"':
		return l.readQuoted(TokenString, start), true
	case '$':
		l.readRune()
		nameStart := l.currentOffset()
		for !l.atEOF() && isIdentifierRune(l.ch) {
			l.readRune()
		}
		name := l.input[nameStart:l.currentOffset()]
		if name == "" {
			return l.invalidRange(start), true
		}
		return l.emit(Token{Type: TokenVariable, Text: name}, start), true
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber(start), true
	case isIdentifierStart(l.ch):
		if tt, ok := quotedPrefix(l.ch); ok && l.peekRune() == '"' {
			l.readRune()
			return l.readQuoted(tt, start), true
		}
		for !l.atEOF() && isIdentifierRune(l.ch) {
			l.readRune()
		}
		ident := l.input[start:l.currentOffset()]
		if tt, ok := keywordType(ident); ok {
			return l.emit(Token{Type: tt}, start), true
		}
		if ident == "inf" {
			return l.emit(Token{Type: TokenFloat, Text: ident}, start), true
		}
		return l.emit(Token{Type: TokenFunction, Text: ident}, start), true
	}
	return l.invalid(start), true
}

func (l *lexer) emit(tok Token, start int) LexResult {
	return LexResult{Token: tok, Span: Span{Start: start, End: l.currentOffset()}}
}

// invalid reports the current rune as an invalid token and skips it.
func (l *lexer) invalid(start int) LexResult {
	l.readRune()
	return l.invalidRange(start)
}

func (l *lexer) invalidRange(start int) LexResult {
	span := Span{Start: start, End: l.currentOffset()}
	return LexResult{Span: span, Err: newError(ErrorInvalidToken, span)}
}

func (l *lexer) skipWhitespace() {
	for !l.atEOF() {
		switch l.ch {
		case ' ', '\t', '\f', '\r':
			l.readRune()
		default:
			return
		}
	}
}

func (l *lexer) readNumber(start int) LexResult {
	for isDigit(l.ch) {
		l.readRune()
	}
	if l.ch == '.' && isDigit(l.peekRune()) {
		l.readRune()
		for isDigit(l.ch) {
			l.readRune()
		}
		return l.emit(Token{Type: TokenFloat, Text: l.input[start:l.currentOffset()]}, start)
	}
	n, err := strconv.ParseInt(l.input[start:l.currentOffset()], 10, 32)
	if err != nil {
		return l.invalidRange(start)
	}
	return l.emit(Token{Type: TokenInteger, Int: int32(n)}, start)
}

// readQuoted reads a string-like literal; l.ch is the opening quote.
func (l *lexer) readQuoted(tt TokenType, start int) LexResult {
	var sb strings.Builder
	valid := true
	for {
		l.readRune()
		if l.atEOF() {
			return l.invalidRange(start)
		}
		switch l.ch {
		case '"':
			l.readRune()
			if !valid {
				return l.invalidRange(start)
			}
			return l.emit(Token{Type: tt, Text: sb.String()}, start)
		case '\\':
			skip := 0
			switch l.peekRune() {
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case '"':
				sb.WriteByte('"')
			case 'u':
				if r, ok := hexEscape(l.input[l.offset+1:]); ok {
					sb.WriteRune(r)
					skip = 4
				} else {
					sb.WriteString(`\u`)
				}
			default:
				valid = false
				continue
			}
			l.readRune()
			l.offset += skip
		default:
			sb.WriteRune(l.ch)
		}
	}
}

// hexEscape decodes the four hex digits that follow \u.
func hexEscape(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, false
	}
	return rune(n), true
}

func quotedPrefix(r rune) (TokenType, bool) {
	switch r {
	case 'i':
		return TokenImage, true
	case 'k':
		return TokenKey, true
	case 'f':
		return TokenFile, true
	case 't':
		return TokenTilemap, true
	}
	return "", false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Nl, unicode.Mn, unicode.Mc, unicode.Pc)
}
