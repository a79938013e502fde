package syntax

import (
	"github.com/calumari/codama/token"
)

// binary operator precedences, loosest first.
var precedence = map[string]int{
	"..": 1, "..=": 1,
	"||": 2,
	"&&": 3,
	"==": 4, "!=": 4, "<": 4, ">": 4, "<=": 4, ">=": 4,
	"|":  5,
	"^":  6,
	"&":  7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

const castPrecedence = 11

// ParseExpr parses an expression at the cursor.
func (p *Parser) ParseExpr() (Expr, error) {
	return p.parseBinary(0)
}

func adjacent(a, b *token.Token) bool {
	return a.Span.End.Offset == b.Span.Start.Offset && a.Span.End.Filename == b.Span.Start.Filename
}

// peekOp returns the binary operator at the cursor and how many tokens it
// spans. Angle brackets are lexed one at a time, so `<<`, `>=` and friends
// are reassembled from adjacent tokens.
func (p *Parser) peekOp() (string, int) {
	t := p.Peek()
	if t == nil || t.Kind != token.Punct {
		return "", 0
	}
	next := p.peekN(1)
	joined := next != nil && next.Kind == token.Punct && adjacent(t, next)
	switch t.Text {
	case "<", ">":
		if joined && next.Text == t.Text {
			if third := p.peekN(2); third != nil && third.Is("=") && adjacent(next, third) {
				return "", 0
			}
			return t.Text + t.Text, 2
		}
		if joined && next.Text == "=" {
			return t.Text + "=", 2
		}
		return t.Text, 1
	case "==", "!=", "&&", "||", "..", "..=":
		return t.Text, 1
	}
	if _, ok := precedence[t.Text]; !ok {
		return "", 0
	}
	if joined && next.Text == "=" {
		// compound assignment
		return "", 0
	}
	return t.Text, 1
}

func (p *Parser) parseBinary(minPrec int) (Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.is("as") {
			if castPrecedence < minPrec {
				return x, nil
			}
			p.Next()
			ty, err := p.ParseType()
			if err != nil {
				return nil, err
			}
			x = &ExprCast{X: x, Type: ty, Pos: x.Span().Join(ty.Span())}
			continue
		}
		op, n := p.peekOp()
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			return x, nil
		}
		for i := 0; i < n; i++ {
			p.Next()
		}
		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = &ExprBinary{Op: op, X: x, Y: y, Pos: x.Span().Join(y.Span())}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	t := p.Peek()
	if t == nil {
		return nil, p.unexpected("expression")
	}
	switch {
	case t.Is("-"), t.Is("!"), t.Is("*"):
		p.Next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ExprUnary{Op: t.Text, X: x, Pos: t.Span.Join(x.Span())}, nil
	case t.Is("&"), t.Is("&&"):
		p.Next()
		op := "&"
		if p.eat("mut") {
			op = "&mut "
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &ExprUnary{Op: op, X: x, Pos: t.Span.Join(x.Span())}
		if t.Is("&&") {
			x = &ExprUnary{Op: "&", X: x, Pos: t.Span.Join(x.Span())}
		}
		return x, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	start := p.pos
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isGroup(token.Parenthesis):
			group := p.Next()
			args, _, err := parseExprList(group)
			if err != nil {
				return nil, err
			}
			x = &ExprCall{Func: x, Args: args, Pos: x.Span().Join(group.Span)}
		case p.is(".") && p.peekN(1) != nil && (p.peekN(1).Kind == token.Ident || p.peekN(1).Kind == token.Literal):
			p.Next()
			p.Next()
			if p.is("::") {
				p.Next()
				if _, err := p.parseGenericArgs(); err != nil {
					return nil, err
				}
			}
			if p.isGroup(token.Parenthesis) {
				p.Next()
			}
			x = &ExprVerbatim{Tokens: p.tokens[start:p.pos]}
		case p.isGroup(token.Bracket), p.is("?"):
			p.Next()
			x = &ExprVerbatim{Tokens: p.tokens[start:p.pos]}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	t := p.Peek()
	if t == nil {
		return nil, p.unexpected("expression")
	}
	switch {
	case t.Kind == token.Literal:
		p.Next()
		return literalExpr(t), nil
	case t.Is("true"), t.Is("false"):
		p.Next()
		return &ExprLit{Kind: LitBool, Value: t.Text, Pos: t.Span}, nil
	case t.IsGroup(token.Parenthesis):
		p.Next()
		elems, trailing, err := parseExprList(t)
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 && !trailing {
			return &ExprParen{X: elems[0], Pos: t.Span}, nil
		}
		return &ExprTuple{Elems: elems, Pos: t.Span}, nil
	case t.IsGroup(token.Bracket):
		p.Next()
		if isRepeatArray(t) {
			return &ExprVerbatim{Tokens: token.Stream{*t}}, nil
		}
		elems, _, err := parseExprList(t)
		if err != nil {
			return nil, err
		}
		return &ExprArray{Elems: elems, Pos: t.Span}, nil
	case t.IsGroup(token.Brace):
		p.Next()
		return &ExprVerbatim{Tokens: token.Stream{*t}}, nil
	case t.Is("unsafe"), t.Is("loop"), t.Is("const"):
		start := p.pos
		p.Next()
		if _, err := p.expectGroup(token.Brace); err != nil {
			return nil, err
		}
		return &ExprVerbatim{Tokens: p.tokens[start:p.pos]}, nil
	case t.Is("if"), t.Is("match"), t.Is("while"), t.Is("for"), t.Is("move"), t.Is("|"), t.Is("||"):
		return p.parseVerbatimExpr(), nil
	case t.Kind == token.Ident || t.Is("::"):
		return p.parsePathExpr()
	case t.Is("<"):
		return p.parseVerbatimExpr(), nil
	}
	return nil, p.unexpected("expression")
}

func (p *Parser) parsePathExpr() (Expr, error) {
	start := p.pos
	path, err := p.parseExprPath()
	if err != nil {
		return nil, err
	}
	if p.is("!") && p.peekN(1) != nil && p.peekN(1).Kind == token.Group {
		p.Next()
		body := p.Next()
		return &ExprMacro{Path: path, Tokens: body.Tokens, Pos: path.Span.Join(body.Span)}, nil
	}
	if p.isGroup(token.Brace) && len(path.Segments) > 0 && startsUpper(path.LastIdent()) {
		p.Next()
		return &ExprVerbatim{Tokens: p.tokens[start:p.pos]}, nil
	}
	return &ExprPath{Path: path}, nil
}

// parseExprPath reads a path in expression position. Generic arguments are
// only accepted with turbofish, `Vec::<u8>::new`.
func (p *Parser) parseExprPath() (*Path, error) {
	path := &Path{Span: p.currentSpan()}
	if p.eat("::") {
		path.Leading = true
	}
	for {
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		seg := &PathSegment{Ident: id.Text, Span: id.Span}
		path.Segments = append(path.Segments, seg)
		path.Span = path.Span.Join(seg.Span)
		if !p.is("::") {
			return path, nil
		}
		if p.isN(1, "<") {
			p.Next()
			if seg.Args, err = p.parseGenericArgs(); err != nil {
				return nil, err
			}
			seg.Span = seg.Span.Join(seg.Args.Span)
			path.Span = path.Span.Join(seg.Span)
			if !p.is("::") {
				return path, nil
			}
		}
		if next := p.peekN(1); next == nil || next.Kind != token.Ident {
			return path, nil
		}
		p.Next()
	}
}

// parseVerbatimExpr consumes tokens up to a top-level `,` or `;`.
func (p *Parser) parseVerbatimExpr() Expr {
	start := p.pos
	for !p.EOF() && !p.is(",") && !p.is(";") {
		p.Next()
	}
	return &ExprVerbatim{Tokens: p.tokens[start:p.pos]}
}

func parseExprList(group *token.Token) ([]Expr, bool, error) {
	p := sub(group)
	var elems []Expr
	trailing := false
	for !p.EOF() {
		e, err := p.ParseExpr()
		if err != nil {
			return nil, false, err
		}
		elems = append(elems, e)
		trailing = p.eat(",")
		if !trailing && !p.EOF() {
			return nil, false, p.unexpected("`,`")
		}
	}
	return elems, trailing, nil
}

func isRepeatArray(group *token.Token) bool {
	for _, t := range group.Tokens {
		if t.Is(";") {
			return true
		}
	}
	return false
}

func literalExpr(t *token.Token) *ExprLit {
	lit := &ExprLit{Value: t.Value, Suffix: t.Suffix, Pos: t.Span}
	switch t.LitKind {
	case token.LitInt:
		lit.Kind = LitInt
	case token.LitFloat:
		lit.Kind = LitFloat
	case token.LitStr:
		lit.Kind = LitStr
	case token.LitByteStr:
		lit.Kind = LitByteStr
	case token.LitChar:
		lit.Kind = LitChar
	case token.LitByte:
		lit.Kind = LitByte
	}
	return lit
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
