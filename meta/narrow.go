package meta

import (
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/syntax"
	"github.com/calumari/codama/token"
)

// Describe names the shape of m for error messages.
func Describe(m Meta) string {
	switch m := m.(type) {
	case *PathMeta:
		return "`" + m.Path.String() + "`"
	case *PathList:
		if m.Path == nil {
			return "a list"
		}
		return "`" + m.Path.String() + "(..)`"
	case *PathValue:
		return "`" + m.Path.String() + " = ..`"
	case *ExprMeta:
		return "an expression"
	}
	return "nothing"
}

func mismatch(m Meta, expected string) error {
	return errors.Compile(m.Span(), "expected %s, found %s", expected, Describe(m))
}

// PathOf returns the leading path of m, or nil for expressions and bare
// lists.
func PathOf(m Meta) *syntax.Path {
	switch m := m.(type) {
	case *PathMeta:
		return m.Path
	case *PathList:
		return m.Path
	case *PathValue:
		return m.Path
	}
	return nil
}

// Name returns the leading path of m as a string, or "" when it has none.
func Name(m Meta) string {
	if p := PathOf(m); p != nil {
		return p.String()
	}
	return ""
}

// Is reports whether the leading path of m is the single identifier name.
func Is(m Meta, name string) bool {
	p := PathOf(m)
	return p != nil && p.IsIdent(name)
}

// AsPath narrows m to a bare path.
func AsPath(m Meta) (*syntax.Path, error) {
	if pm, ok := m.(*PathMeta); ok {
		return pm.Path, nil
	}
	return nil, mismatch(m, "a path")
}

// AsIdent narrows m to a bare single-identifier path and returns it.
func AsIdent(m Meta) (string, token.Span, error) {
	p, err := AsPath(m)
	if err != nil {
		return "", token.NoSpan, err
	}
	if p.Leading || len(p.Segments) != 1 {
		return "", token.NoSpan, errors.Compile(m.Span(), "expected an identifier, found `%s`", p)
	}
	return p.Segments[0].Ident, p.Span, nil
}

// AsPathList narrows m to `path(..)`.
func AsPathList(m Meta) (*PathList, error) {
	if pl, ok := m.(*PathList); ok && pl.Path != nil {
		return pl, nil
	}
	return nil, mismatch(m, "a path list")
}

// AsPathValue narrows m to `path = value`.
func AsPathValue(m Meta) (*PathValue, error) {
	if pv, ok := m.(*PathValue); ok {
		return pv, nil
	}
	return nil, mismatch(m, "a path value")
}

// AsExpr narrows m to an expression. Bare paths read as path expressions
// and bare lists as array expressions.
func AsExpr(m Meta) (syntax.Expr, error) {
	switch m := m.(type) {
	case *ExprMeta:
		return m.Expr, nil
	case *PathMeta:
		return &syntax.ExprPath{Path: m.Path}, nil
	case *PathList:
		if m.Path == nil {
			return parseExpr(m.Raw)
		}
	}
	return nil, mismatch(m, "an expression")
}

// AsList returns the items of `path(..)`, `path[..]` or `[..]`.
func AsList(m Meta) ([]Meta, error) {
	if pl, ok := m.(*PathList); ok {
		return pl.Items, nil
	}
	return nil, mismatch(m, "a list")
}

// AssertDirective checks that m is led by the single identifier name.
func AssertDirective(m Meta, name string) error {
	if Is(m, name) {
		return nil
	}
	return errors.InvalidCodamaDirective(m.Span(), "`"+name+"`", Describe(m))
}

// ValueOf returns the value of `path = value`, or m itself otherwise. It lets
// directives accept both `name = "x"` and a positional `"x"`.
func ValueOf(m Meta) Meta {
	if pv, ok := m.(*PathValue); ok {
		return pv.Value
	}
	return m
}

// String narrows m to a string literal.
func String(m Meta) (string, error) {
	e, err := AsExpr(m)
	if err != nil {
		return "", mismatch(m, "a string literal")
	}
	return syntax.LitString(e)
}

// Bool narrows m to a boolean literal.
func Bool(m Meta) (bool, error) {
	e, err := AsExpr(m)
	if err != nil {
		return false, mismatch(m, "a boolean literal")
	}
	return syntax.LitBoolean(e)
}

// Int narrows m to an integer literal that fits in T.
func Int[T syntax.Integer](m Meta) (T, error) {
	e, err := AsExpr(m)
	if err != nil {
		var zero T
		return zero, mismatch(m, "an integer literal")
	}
	return syntax.LitIntAs[T](e)
}
