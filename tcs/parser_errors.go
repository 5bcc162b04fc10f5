package tcs

import (
	"slices"
	"strings"
)

// fail records that the grammar expected label at the current position. Only
// the furthest failure position is kept; it is where the input stopped making
// sense for every alternative.
func (p *parser) fail(label string) {
	switch {
	case p.pos > p.furthest:
		p.furthest = p.pos
		p.expected = []string{label}
		p.custom = ""
	case p.pos == p.furthest:
		if !slices.Contains(p.expected, label) {
			p.expected = append(p.expected, label)
		}
	}
}

func (p *parser) failCustom(msg string) {
	if p.pos >= p.furthest {
		if p.pos > p.furthest {
			p.expected = nil
		}
		p.furthest = p.pos
		p.custom = msg
	}
}

func (p *parser) resetFailure() {
	p.furthest = -1
	p.expected = nil
	p.custom = ""
	clear(p.memo)
}

func (p *parser) failureError() *Error {
	pos := max(p.furthest, p.pos)
	span := p.tokenSpan(pos)
	if p.custom != "" {
		return &Error{Kind: ErrorSyntax, Span: span, Detail: p.custom}
	}
	expected := p.expectedMessage()
	if pos >= len(p.tokens) {
		detail := "unexpected end of input"
		if expected != "" {
			detail += ", " + expected
		}
		return &Error{Kind: ErrorSyntax, Span: span, Detail: detail}
	}
	tok := p.tokens[pos]
	return &Error{Kind: ErrorUnexpectedToken, Span: span, Token: &tok, Detail: expected}
}

func (p *parser) expectedMessage() string {
	switch len(p.expected) {
	case 0:
		return ""
	case 1:
		return "expected " + p.expected[0]
	}
	return "expected one of " + strings.Join(p.expected, ", ")
}

func tokenLabel(tt TokenType) string {
	if src, ok := fixedTokenSource[tt]; ok {
		return "'" + src + "'"
	}
	switch tt {
	case TokenVariable:
		return "variable"
	case TokenFunction:
		return "function name"
	case TokenInteger:
		return "integer"
	case TokenFloat:
		return "float"
	}
	return strings.ToLower(string(tt))
}
