// Package meta turns attribute token streams into a small recursive tree:
//
//	Meta ::= Path(path)
//	       | PathList(path, '(' Meta,* ')' | '[' Meta,* ']')
//	       | PathValue(path, '=' Meta)
//	       | Expr(expression)
//
// and offers narrowing operations over it. Every failure is a compilation
// error pinned to the span of the offending tokens.
package meta

import (
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/syntax"
	"github.com/calumari/codama/token"
)

// Meta is one item of an attribute body.
type Meta interface {
	Span() token.Span
	// Tokens returns the raw tokens the item was parsed from.
	Tokens() token.Stream
	metaNode()
}

type (
	// PathMeta is a bare path, `signer` or `utf8`.
	PathMeta struct {
		Path *syntax.Path
		Raw  token.Stream
	}
	// PathList is `path(a, b)` or `path[a, b]`. A bare `[a, b]` has a nil
	// Path.
	PathList struct {
		Path      *syntax.Path
		Delimiter token.Delimiter
		Items     []Meta
		Raw       token.Stream
	}
	// PathValue is `path = value`.
	PathValue struct {
		Path  *syntax.Path
		Value Meta
		Raw   token.Stream
	}
	// ExprMeta is a positional expression, `"name"` or `42`.
	ExprMeta struct {
		Expr syntax.Expr
		Raw  token.Stream
	}
)

func (m *PathMeta) Span() token.Span  { return m.Raw.Span() }
func (m *PathList) Span() token.Span  { return m.Raw.Span() }
func (m *PathValue) Span() token.Span { return m.Raw.Span() }
func (m *ExprMeta) Span() token.Span  { return m.Raw.Span() }

func (m *PathMeta) Tokens() token.Stream  { return m.Raw }
func (m *PathList) Tokens() token.Stream  { return m.Raw }
func (m *PathValue) Tokens() token.Stream { return m.Raw }
func (m *ExprMeta) Tokens() token.Stream  { return m.Raw }

func (*PathMeta) metaNode()  {}
func (*PathList) metaNode()  {}
func (*PathValue) metaNode() {}
func (*ExprMeta) metaNode()  {}

// Parse parses a single meta item spanning every token of the stream.
func Parse(tokens token.Stream) (Meta, error) {
	if len(tokens) == 0 {
		return nil, errors.Compile(token.NoSpan, "expected a meta item")
	}
	first := tokens[0]
	switch {
	case first.Kind == token.Ident && !first.Is("true") && !first.Is("false"), first.Is("::"):
		p := syntax.NewParser(tokens, tokens.Span())
		path, err := p.ParsePath()
		if err != nil {
			return nil, err
		}
		rest := p.Rest()
		switch {
		case len(rest) == 0:
			return &PathMeta{Path: path, Raw: tokens}, nil
		case len(rest) == 1 && (rest[0].IsGroup(token.Parenthesis) || rest[0].IsGroup(token.Bracket)):
			items, err := ParseList(rest[0].Tokens)
			if err != nil {
				return nil, err
			}
			return &PathList{Path: path, Delimiter: rest[0].Delimiter, Items: items, Raw: tokens}, nil
		case rest[0].Is("="):
			if len(rest) == 1 {
				return nil, errors.Compile(rest[0].Span, "expected a value after `%s =`", path)
			}
			value, err := Parse(rest[1:])
			if err != nil {
				return nil, err
			}
			return &PathValue{Path: path, Value: value, Raw: tokens}, nil
		}
	case first.IsGroup(token.Bracket) && len(tokens) == 1:
		items, err := ParseList(first.Tokens)
		if err != nil {
			return nil, err
		}
		return &PathList{Delimiter: token.Bracket, Items: items, Raw: tokens}, nil
	}
	expr, err := parseExpr(tokens)
	if err != nil {
		return nil, err
	}
	return &ExprMeta{Expr: expr, Raw: tokens}, nil
}

// ParseList parses comma-separated meta items. A trailing comma is allowed.
func ParseList(tokens token.Stream) ([]Meta, error) {
	var items []Meta
	var errs errors.List
	for _, part := range tokens.SplitComma() {
		if len(part) == 0 {
			errs.Add(errors.Compile(tokens.Span(), "unexpected `,`"))
			continue
		}
		m, err := Parse(part)
		if err != nil {
			errs.Add(err)
			continue
		}
		items = append(items, m)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FromAttribute parses the whole body of an attribute, path included.
func FromAttribute(attr *syntax.Attribute) (Meta, error) {
	return Parse(attr.Tokens())
}

func parseExpr(tokens token.Stream) (syntax.Expr, error) {
	p := syntax.NewParser(tokens, tokens.Span())
	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if !p.EOF() {
		return nil, errors.Compile(p.Peek().Span, "expected `,`, found %q", p.Peek().String())
	}
	return expr, nil
}
