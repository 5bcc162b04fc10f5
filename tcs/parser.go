package tcs

import "strconv"

// Parse lexes and parses source into a root block. Lexical errors abort before
// parsing; otherwise every independent syntax error is reported.
func Parse(source string) (Expression, []*Error) {
	lexed, errs := Lex(source)
	if len(errs) > 0 {
		return nil, errs
	}
	tokens := make([]Token, len(lexed))
	spans := make([]Span, len(lexed))
	for i, lt := range lexed {
		tokens[i] = lt.Token
		spans[i] = lt.Span
	}
	p := newParser(tokens, spans, Span{Start: len(source), End: len(source) + 1})
	return p.parseRoot(Span{Start: 0, End: len(source)})
}

// ParseTokens parses a token list built without source text, such as a
// program assembled in the block editor. Node and error spans index into
// tokens.
func ParseTokens(tokens []Token) (Expression, []*Error) {
	spans := make([]Span, len(tokens))
	for i := range tokens {
		spans[i] = Span{Start: i, End: i + 1}
	}
	p := newParser(tokens, spans, Span{Start: len(tokens), End: len(tokens) + 1})
	return p.parseRoot(Span{Start: 0, End: len(tokens)})
}

type memoEntry struct {
	expr Expression
	end  int
	ok   bool
}

type parser struct {
	tokens  []Token
	spans   []Span
	eofSpan Span
	pos     int

	// separated marks tokens preceded by a newline or ';'.
	separated []bool

	memo map[int]memoEntry

	furthest int
	expected []string
	custom   string
}

func newParser(tokens []Token, spans []Span, eofSpan Span) *parser {
	p := &parser{eofSpan: eofSpan, memo: make(map[int]memoEntry), furthest: -1}
	separated := false
	for i, tok := range tokens {
		switch tok.Type {
		case TokenSpace, TokenNewline:
			separated = true
			continue
		case TokenComment:
			continue
		}
		p.tokens = append(p.tokens, tok)
		p.spans = append(p.spans, spans[i])
		p.separated = append(p.separated, separated)
		separated = false
	}
	return p
}

func (p *parser) parseRoot(rootSpan Span) (Expression, []*Error) {
	var body []Expression
	var errs []*Error
	for {
		for {
			expr, ok := p.expr()
			if !ok {
				break
			}
			body = append(body, expr)
		}
		if p.pos >= len(p.tokens) {
			break
		}
		errs = append(errs, p.failureError())
		p.pos = max(p.furthest, p.pos) + 1
		p.resetFailure()
		if p.pos >= len(p.tokens) {
			break
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &BlockExpr{Body: body, span: rootSpan}, nil
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() Token {
	if p.atEnd() {
		return Token{}
	}
	return p.tokens[p.pos]
}

// accept consumes the next token when it has type tt and records an
// expectation otherwise.
func (p *parser) accept(tt TokenType) (Token, bool) {
	if !p.atEnd() && p.tokens[p.pos].Type == tt {
		tok := p.tokens[p.pos]
		p.pos++
		return tok, true
	}
	p.fail(tokenLabel(tt))
	return Token{}, false
}

func (p *parser) spanFrom(start int) Span {
	if start >= len(p.spans) {
		return p.eofSpan
	}
	end := p.pos - 1
	if end < start {
		end = start
	}
	return Span{Start: p.spans[start].Start, End: p.spans[end].End}
}

func (p *parser) tokenSpan(idx int) Span {
	if idx >= len(p.spans) {
		return p.eofSpan
	}
	return p.spans[idx]
}

// expr := eq | block
func (p *parser) expr() (Expression, bool) {
	start := p.pos
	if m, ok := p.memo[start]; ok {
		p.pos = m.end
		return m.expr, m.ok
	}
	expr, ok := p.eq()
	if !ok {
		p.pos = start
		expr, ok = p.block()
	}
	if !ok {
		p.pos = start
	}
	p.memo[start] = memoEntry{expr: expr, end: p.pos, ok: ok}
	return expr, ok
}

var comparisonOps = map[TokenType]BinaryOp{
	TokenEq:  OpEq,
	TokenNeq: OpNeq,
	TokenLt:  OpLt,
	TokenGt:  OpGt,
	TokenLte: OpLte,
	TokenGte: OpGte,
}

var sumOps = map[TokenType]BinaryOp{
	TokenPlus:  OpAdd,
	TokenMinus: OpSubtract,
}

var productOps = map[TokenType]BinaryOp{
	TokenStar:  OpMultiply,
	TokenSlash: OpDivide,
}

func (p *parser) eq() (Expression, bool) {
	return p.binary(comparisonOps, p.sum, "comparison operator")
}

func (p *parser) sum() (Expression, bool) {
	return p.binary(sumOps, p.product, "'+' or '-'")
}

func (p *parser) product() (Expression, bool) {
	return p.binary(productOps, p.unary, "'*' or '/'")
}

// binary parses operand (op operand)* folding to the left. A trailing
// operator without an operand is left unconsumed.
func (p *parser) binary(ops map[TokenType]BinaryOp, operand func() (Expression, bool), label string) (Expression, bool) {
	left, ok := operand()
	if !ok {
		return nil, false
	}
	for {
		save := p.pos
		op, isOp := ops[p.peek().Type]
		if !isOp || p.atEnd() {
			p.fail(label)
			return left, true
		}
		p.pos++
		right, ok := operand()
		if !ok {
			p.pos = save
			return left, true
		}
		left = &BinaryExpr{
			Op:    op,
			Left:  left,
			Right: right,
			span:  Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
}

// unary := '-'* atom
func (p *parser) unary() (Expression, bool) {
	start := p.pos
	var minuses []int
	for !p.atEnd() && p.peek().Type == TokenMinus {
		minuses = append(minuses, p.pos)
		p.pos++
	}
	expr, ok := p.atom()
	if !ok {
		p.pos = start
		return nil, false
	}
	for i := len(minuses) - 1; i >= 0; i-- {
		expr = &NegationExpr{
			Operand: expr,
			span:    Span{Start: p.spans[minuses[i]].Start, End: expr.Span().End},
		}
	}
	return expr, true
}

func (p *parser) atom() (Expression, bool) {
	alternatives := [...]func() (Expression, bool){
		p.literal,
		p.parenthesized,
		p.call,
		p.assignment,
		p.ifExpr,
		p.returnExpr,
		p.breakExpr,
		p.loopFinite,
		p.loopInfinite,
		p.forExpr,
		p.whileExpr,
		p.fnDef,
		p.shortCall,
		p.variable,
		p.objectDef,
	}
	start := p.pos
	for _, alt := range alternatives {
		if expr, ok := alt(); ok {
			return expr, true
		}
		p.pos = start
	}
	return nil, false
}

func (p *parser) literal() (Expression, bool) {
	if p.atEnd() {
		p.fail("literal")
		return nil, false
	}
	tok := p.peek()
	span := p.tokenSpan(p.pos)
	var expr Expression
	switch tok.Type {
	case TokenInteger:
		expr = &IntLiteral{Value: tok.Int, span: span}
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.failCustom("invalid float literal " + strconv.Quote(tok.Text))
			return nil, false
		}
		expr = &FloatLiteral{Value: f, span: span}
	case TokenString, TokenFile, TokenTilemap:
		expr = &StringLiteral{Value: tok.Text, span: span}
	case TokenImage:
		expr = &ImageLiteral{Value: tok.Text, span: span}
	case TokenKey:
		expr = &KeyLiteral{Value: tok.Text, span: span}
	default:
		p.fail("literal")
		return nil, false
	}
	p.pos++
	return expr, true
}

// parenthesized := '(' expr ')'
func (p *parser) parenthesized() (Expression, bool) {
	if _, ok := p.accept(TokenLeftParent); !ok {
		return nil, false
	}
	expr, ok := p.expr()
	if !ok {
		return nil, false
	}
	if _, ok := p.accept(TokenRightParent); !ok {
		return nil, false
	}
	return expr, true
}

// call := function '(' [','] [expr (',' expr)*] ')'
func (p *parser) call() (Expression, bool) {
	start := p.pos
	callee, ok := p.function()
	if !ok {
		return nil, false
	}
	if _, ok := p.accept(TokenLeftParent); !ok {
		return nil, false
	}
	if p.peek().Type == TokenComma && !p.atEnd() {
		p.pos++
	}
	var args []Expression
	if arg, ok := p.expr(); ok {
		args = append(args, arg)
		for !p.atEnd() && p.peek().Type == TokenComma {
			save := p.pos
			p.pos++
			arg, ok := p.expr()
			if !ok {
				p.pos = save
				break
			}
			args = append(args, arg)
		}
	}
	if _, ok := p.accept(TokenRightParent); !ok {
		return nil, false
	}
	return &CallExpr{Callee: callee, Args: args, span: p.spanFrom(start)}, true
}

// assignment := variable '=' expr
func (p *parser) assignment() (Expression, bool) {
	start := p.pos
	target, ok := p.variable()
	if !ok {
		return nil, false
	}
	if _, ok := p.accept(TokenAssignment); !ok {
		return nil, false
	}
	value, ok := p.expr()
	if !ok {
		return nil, false
	}
	return &AssignExpr{Target: target, Value: value, span: p.spanFrom(start)}, true
}

// if := 'if' expr expr
func (p *parser) ifExpr() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenIf); !ok {
		return nil, false
	}
	cond, ok := p.expr()
	if !ok {
		return nil, false
	}
	body, ok := p.expr()
	if !ok {
		return nil, false
	}
	return &IfExpr{Condition: cond, Body: body, span: p.spanFrom(start)}, true
}

// return := 'return' [expr]
func (p *parser) returnExpr() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenReturn); !ok {
		return nil, false
	}
	value, ok := p.expr()
	if !ok {
		value = &NoneLiteral{span: p.tokenSpan(start)}
	}
	return &ReturnExpr{Value: value, span: p.spanFrom(start)}, true
}

func (p *parser) breakExpr() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenBreak); !ok {
		return nil, false
	}
	return &BreakExpr{span: p.spanFrom(start)}, true
}

// loop_finite := 'loop' expr expr
//
// A count written as bare braces is the body of an infinite loop.
func (p *parser) loopFinite() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenLoop); !ok {
		return nil, false
	}
	braced := !p.atEnd() && p.peek().Type == TokenLeftCurly
	count, ok := p.expr()
	if !ok {
		return nil, false
	}
	if braced {
		switch count.(type) {
		case *BlockExpr, *ObjectExpr:
			return nil, false
		}
	}
	body, ok := p.expr()
	if !ok {
		return nil, false
	}
	return &LoopExpr{Count: count, Body: body, span: p.spanFrom(start)}, true
}

// loop_infinite := 'loop' expr
func (p *parser) loopInfinite() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenLoop); !ok {
		return nil, false
	}
	body, ok := p.expr()
	if !ok {
		return nil, false
	}
	return &ForeverExpr{Body: body, span: p.spanFrom(start)}, true
}

// for := 'for' VAR expr expr [expr] block
func (p *parser) forExpr() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenFor); !ok {
		return nil, false
	}
	name, ok := p.accept(TokenVariable)
	if !ok {
		return nil, false
	}
	from, ok := p.expr()
	if !ok {
		return nil, false
	}
	to, ok := p.expr()
	if !ok {
		return nil, false
	}
	afterRange := p.pos
	if step, ok := p.expr(); ok {
		if body, ok := p.block(); ok {
			return &ForExpr{Var: name.Text, Start: from, End: to, Step: step, Body: body, span: p.spanFrom(start)}, true
		}
	}
	p.pos = afterRange
	body, ok := p.block()
	if !ok {
		return nil, false
	}
	return &ForExpr{Var: name.Text, Start: from, End: to, Body: body, span: p.spanFrom(start)}, true
}

// while := 'while' expr expr
func (p *parser) whileExpr() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenWhile); !ok {
		return nil, false
	}
	cond, ok := p.expr()
	if !ok {
		return nil, false
	}
	body, ok := p.expr()
	if !ok {
		return nil, false
	}
	return &WhileExpr{Condition: cond, Body: body, span: p.spanFrom(start)}, true
}

// fn := 'fn' FUNCTION '(' [VAR (',' VAR)*] ')' expr
func (p *parser) fnDef() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenFnDef); !ok {
		return nil, false
	}
	name, ok := p.accept(TokenFunction)
	if !ok {
		return nil, false
	}
	if _, ok := p.accept(TokenLeftParent); !ok {
		return nil, false
	}
	var params []string
	if param, ok := p.accept(TokenVariable); ok {
		params = append(params, param.Text)
		for !p.atEnd() && p.peek().Type == TokenComma {
			p.pos++
			param, ok := p.accept(TokenVariable)
			if !ok {
				return nil, false
			}
			params = append(params, param.Text)
		}
	}
	if _, ok := p.accept(TokenRightParent); !ok {
		return nil, false
	}
	body, ok := p.expr()
	if !ok {
		return nil, false
	}
	return &FnDefExpr{Name: name.Text, Params: params, Body: body, span: p.spanFrom(start)}, true
}

// shortcall := function (literal | variable)?
//
// The argument must follow on the same line and statement.
func (p *parser) shortCall() (Expression, bool) {
	start := p.pos
	callee, ok := p.function()
	if !ok {
		return nil, false
	}
	afterCallee := p.pos
	if !p.atEnd() && p.separated[p.pos] {
		return &CallExpr{Callee: callee, span: p.spanFrom(start)}, true
	}
	arg, ok := p.literal()
	if !ok {
		p.pos = afterCallee
		arg, ok = p.variable()
	}
	if !ok {
		p.pos = afterCallee
		return &CallExpr{Callee: callee, span: p.spanFrom(start)}, true
	}
	return &CallExpr{Callee: callee, Args: []Expression{arg}, span: p.spanFrom(start)}, true
}

// variable := VAR '.' VAR | VAR
func (p *parser) variable() (Expression, bool) {
	return p.member(TokenVariable)
}

// function := VAR '.' FUNCTION | FUNCTION
func (p *parser) function() (Expression, bool) {
	return p.member(TokenFunction)
}

func (p *parser) member(tail TokenType) (Expression, bool) {
	start := p.pos
	if parent, ok := p.accept(TokenVariable); ok {
		parentExpr := &VariableExpr{Name: parent.Text, span: p.spanFrom(start)}
		if _, ok := p.accept(TokenDot); ok {
			if name, ok := p.accept(tail); ok {
				return &VariableExpr{Parent: parentExpr, Name: name.Text, span: p.spanFrom(start)}, true
			}
		}
		p.pos = start
		if tail == TokenVariable {
			p.pos++
			return parentExpr, true
		}
		return nil, false
	}
	name, ok := p.accept(tail)
	if !ok {
		return nil, false
	}
	return &VariableExpr{Name: name.Text, span: p.spanFrom(start)}, true
}

// objdef := '{' [expr ':' expr (',' expr ':' expr)*] '}'
func (p *parser) objectDef() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenLeftCurly); !ok {
		return nil, false
	}
	var entries []ObjectEntry
	entry := func() bool {
		key, ok := p.expr()
		if !ok {
			return false
		}
		if _, ok := p.accept(TokenColon); !ok {
			return false
		}
		value, ok := p.expr()
		if !ok {
			return false
		}
		entries = append(entries, ObjectEntry{Key: key, Value: value})
		return true
	}
	if p.peek().Type != TokenRightCurly || p.atEnd() {
		if !entry() {
			return nil, false
		}
		for !p.atEnd() && p.peek().Type == TokenComma {
			p.pos++
			if !entry() {
				return nil, false
			}
		}
	}
	if _, ok := p.accept(TokenRightCurly); !ok {
		return nil, false
	}
	return &ObjectExpr{Entries: entries, span: p.spanFrom(start)}, true
}

// block := '{' expr* '}'
func (p *parser) block() (Expression, bool) {
	start := p.pos
	if _, ok := p.accept(TokenLeftCurly); !ok {
		return nil, false
	}
	var body []Expression
	for {
		expr, ok := p.expr()
		if !ok {
			break
		}
		body = append(body, expr)
	}
	if _, ok := p.accept(TokenRightCurly); !ok {
		return nil, false
	}
	return &BlockExpr{Body: body, span: p.spanFrom(start)}, true
}
