package expr

// parser is a recursive-descent parser over a token slice. Precedence, from
// loosest to tightest: + -, * /, ^, unary sign, primary. Every binary level,
// '^' included, folds to the left, so 2^3^2 is (2^3)^2.
type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

// peekOp reports whether the next token is one of the given operators and
// returns it.
func (p *parser) peekOp(ops string) (byte, bool) {
	t, ok := p.peek()
	if !ok || t.Kind != Operator || len(t.Text) != 1 {
		return 0, false
	}
	for i := 0; i < len(ops); i++ {
		if t.Text[0] == ops[i] {
			return ops[i], true
		}
	}
	return 0, false
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("+-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("*/")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &binNode{op: op, left: left, right: right}
	}
}

func (p *parser) parsePower() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.peekOp("^"); !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binNode{op: '^', left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	op, ok := p.peekOp("+-")
	if !ok {
		return p.parsePrimary()
	}
	p.pos++
	arg, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if op == '-' {
		return &negNode{arg: arg}, nil
	}
	return arg, nil
}

func (p *parser) parsePrimary() (node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, &ParseError{Kind: ErrUnexpectedEnd, Pos: -1}
	}

	switch {
	case t.Kind == Number:
		p.pos++
		return &numNode{v: t.Value}, nil

	case t.is("("):
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(); err != nil {
			return nil, err
		}
		return inner, nil

	case t.Kind == Identifier:
		p.pos++
		if next, ok := p.peek(); ok && next.is("(") {
			p.pos++
			return p.parseCall(t)
		}
		if v, ok := LookupConstant(t.Text); ok {
			return &numNode{v: v}, nil
		}
		return &varNode{name: t.Text}, nil
	}

	return nil, &ParseError{Kind: ErrUnexpectedToken, Name: t.Text, Pos: t.Pos}
}

// parseCall parses the argument list of name, whose '(' has been consumed.
func (p *parser) parseCall(name Token) (node, error) {
	var args []node
	if next, ok := p.peek(); !ok || !next.is(")") {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for {
			next, ok := p.peek()
			if !ok || next.Kind != Comma {
				break
			}
			p.pos++
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if err := p.expectClose(); err != nil {
		return nil, err
	}

	fn, ok := LookupFunction(name.Text)
	if !ok {
		return nil, &ParseError{Kind: ErrUnknownFunction, Name: name.Text, Pos: name.Pos}
	}
	if len(args) != fn.Arity {
		return nil, &ParseError{Kind: ErrArgumentCount, Name: name.Text, Pos: name.Pos, Want: fn.Arity, Got: len(args)}
	}
	return &callNode{fn: fn, args: args}, nil
}

func (p *parser) expectClose() error {
	t, ok := p.peek()
	if !ok || !t.is(")") {
		pos := -1
		if ok {
			pos = t.Pos
		}
		return &ParseError{Kind: ErrMissingParenthesis, Pos: pos}
	}
	p.pos++
	return nil
}
