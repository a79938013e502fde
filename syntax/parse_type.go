package syntax

import (
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/token"
)

// ParseType parses a type at the cursor.
func (p *Parser) ParseType() (Type, error) {
	t := p.Peek()
	if t == nil {
		return nil, p.unexpected("type")
	}
	start := t.Span
	switch {
	case t.Is("&") || t.Is("&&"):
		p.Next()
		ref := &TypeReference{}
		if lt := p.Peek(); lt != nil && lt.Kind == token.Lifetime {
			p.Next()
			ref.Lifetime = lt.Value
		}
		ref.Mutable = p.eat("mut")
		elem, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		ref.Elem = elem
		ref.Pos = start.Join(elem.Span())
		if t.Is("&&") {
			return &TypeReference{Elem: ref, Pos: ref.Pos}, nil
		}
		return ref, nil
	case t.Is("*"):
		p.Next()
		ptr := &TypePtr{}
		switch {
		case p.eat("mut"):
			ptr.Mutable = true
		case p.eat("const"):
		default:
			return nil, p.unexpected("`const` or `mut`")
		}
		elem, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		ptr.Elem = elem
		ptr.Pos = start.Join(elem.Span())
		return ptr, nil
	case t.IsGroup(token.Parenthesis):
		p.Next()
		return parseTupleType(t)
	case t.IsGroup(token.Bracket):
		p.Next()
		return parseArrayType(t)
	case t.Is("impl"), t.Is("dyn"), t.Is("fn"), t.Is("!"), t.Is("_"), t.Is("unsafe"), t.Is("extern"), t.Is("for"), t.Is("<"):
		return p.parseVerbatimType(), nil
	case t.Kind == token.Ident || t.Is("::"):
		path, err := p.parseTypePath()
		if err != nil {
			return nil, err
		}
		return &TypePath{Path: path}, nil
	}
	return nil, p.unexpected("type")
}

func parseTupleType(group *token.Token) (Type, error) {
	p := sub(group)
	var elems []Type
	trailing := false
	for !p.EOF() {
		ty, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, ty)
		trailing = p.eat(",")
		if !trailing && !p.EOF() {
			return nil, p.unexpected("`,` or `)`")
		}
	}
	if len(elems) == 1 && !trailing {
		return elems[0], nil
	}
	return &TypeTuple{Elems: elems, Pos: group.Span}, nil
}

func parseArrayType(group *token.Token) (Type, error) {
	p := sub(group)
	elem, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	if p.EOF() {
		return &TypeSlice{Elem: elem, Pos: group.Span}, nil
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	n, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if !p.EOF() {
		return nil, p.unexpected("`]`")
	}
	return &TypeArray{Elem: elem, Len: n, Pos: group.Span}, nil
}

// parseVerbatimType consumes a type the reader does not model. It stops at a
// top-level `,`, `;`, `=` or unmatched `>`, or before a brace body.
func (p *Parser) parseVerbatimType() Type {
	var tokens token.Stream
	depth := 0
	for !p.EOF() {
		t := p.Peek()
		switch {
		case t.Is("<"):
			depth++
		case t.Is(">"):
			if depth == 0 {
				return &TypeVerbatim{Tokens: tokens}
			}
			depth--
		case depth == 0 && (t.Is(",") || t.Is(";") || t.Is("=") || t.IsGroup(token.Brace) || t.Is("where")):
			return &TypeVerbatim{Tokens: tokens}
		}
		tokens = append(tokens, *p.Next())
	}
	return &TypeVerbatim{Tokens: tokens}
}

// parseTypePath reads a path whose segments may carry generic arguments,
// with or without turbofish.
func (p *Parser) parseTypePath() (*Path, error) {
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
		if p.is("::") && p.isN(1, "<") {
			p.Next()
		}
		switch {
		case p.is("<"):
			if seg.Args, err = p.parseGenericArgs(); err != nil {
				return nil, err
			}
			seg.Span = seg.Span.Join(seg.Args.Span)
		case p.isGroup(token.Parenthesis) && (id.Is("Fn") || id.Is("FnMut") || id.Is("FnOnce")):
			if seg.Args, err = p.parseParenthesizedArgs(); err != nil {
				return nil, err
			}
			seg.Span = seg.Span.Join(seg.Args.Span)
		}
		path.Span = path.Span.Join(seg.Span)
		if !p.is("::") || p.peekN(1) == nil || p.peekN(1).Kind != token.Ident {
			return path, nil
		}
		p.Next()
	}
}

func (p *Parser) parseGenericArgs() (*GenericArgs, error) {
	open, err := p.expect("<")
	if err != nil {
		return nil, err
	}
	args := &GenericArgs{Span: open.Span}
	for {
		if p.is(">") {
			args.Span = args.Span.Join(p.Next().Span)
			return args, nil
		}
		t := p.Peek()
		if t == nil {
			return nil, errors.Compile(open.Span, "unclosed generic argument list")
		}
		switch {
		case t.Kind == token.Lifetime:
			p.Next()
			args.Args = append(args.Args, &LifetimeArg{Name: t.Value, Span: t.Span})
		case t.Kind == token.Literal || t.Is("-") || t.IsGroup(token.Brace) || t.Is("true") || t.Is("false"):
			e, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			args.Args = append(args.Args, &ConstArg{Expr: e})
		case t.Kind == token.Ident && p.isN(1, "=") && !p.isN(2, "="):
			p.Next()
			p.Next()
			ty, err := p.ParseType()
			if err != nil {
				return nil, err
			}
			args.Args = append(args.Args, &BindingArg{Ident: t.Text, Type: ty})
		case t.Kind == token.Ident && p.isN(1, ":"):
			// Associated type bounds, `Item: Copy`, are not modelled.
			p.Next()
			p.Next()
			p.parseVerbatimType()
		default:
			ty, err := p.ParseType()
			if err != nil {
				return nil, err
			}
			args.Args = append(args.Args, &TypeArg{Type: ty})
		}
		if !p.eat(",") && !p.is(">") {
			return nil, p.unexpected("`,` or `>`")
		}
	}
}

// parseParenthesizedArgs reads the `(A, B) -> C` sugar of the Fn traits.
func (p *Parser) parseParenthesizedArgs() (*GenericArgs, error) {
	group := p.Next()
	args := &GenericArgs{Parenthesized: true, Span: group.Span}
	inner := sub(group)
	for !inner.EOF() {
		ty, err := inner.ParseType()
		if err != nil {
			return nil, err
		}
		args.Args = append(args.Args, &TypeArg{Type: ty})
		if !inner.eat(",") && !inner.EOF() {
			return nil, inner.unexpected("`,`")
		}
	}
	if p.eat("->") {
		ty, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		args.Args = append(args.Args, &BindingArg{Ident: "Output", Type: ty})
		args.Span = args.Span.Join(ty.Span())
	}
	return args, nil
}
