package syntax

import (
	"strconv"
	"strings"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/token"
)

// Expr is a syntactic expression.
type Expr interface {
	Span() token.Span
	exprNode()
}

// LitKind classifies literal expressions.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitStr
	LitByteStr
	LitChar
	LitByte
	LitBool
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "integer"
	case LitFloat:
		return "float"
	case LitStr:
		return "string"
	case LitByteStr:
		return "byte string"
	case LitChar:
		return "char"
	case LitByte:
		return "byte"
	}
	return "boolean"
}

type (
	// ExprLit is a literal. Value is the decoded literal without suffix.
	ExprLit struct {
		Kind   LitKind
		Value  string
		Suffix string
		Pos    token.Span
	}
	// ExprPath is a path expression, `Foo::BAR` or `payer`.
	ExprPath struct {
		Path *Path
	}
	// ExprUnary is `-x`, `!x`, `&x` or `*x`.
	ExprUnary struct {
		Op  string
		X   Expr
		Pos token.Span
	}
	// ExprBinary is `x op y`.
	ExprBinary struct {
		Op  string
		X   Expr
		Y   Expr
		Pos token.Span
	}
	// ExprCast is `x as T`.
	ExprCast struct {
		X    Expr
		Type Type
		Pos  token.Span
	}
	// ExprArray is `[a, b, c]`.
	ExprArray struct {
		Elems []Expr
		Pos   token.Span
	}
	// ExprTuple is `(a, b)`; a parenthesized single expression is ExprParen.
	ExprTuple struct {
		Elems []Expr
		Pos   token.Span
	}
	// ExprParen is `(x)`.
	ExprParen struct {
		X   Expr
		Pos token.Span
	}
	// ExprCall is `f(a, b)`.
	ExprCall struct {
		Func Expr
		Args []Expr
		Pos  token.Span
	}
	// ExprMacro is `name!(..)`.
	ExprMacro struct {
		Path   *Path
		Tokens token.Stream
		Pos    token.Span
	}
	// ExprVerbatim is any expression the reader does not model.
	ExprVerbatim struct {
		Tokens token.Stream
	}
)

func (e *ExprLit) Span() token.Span      { return e.Pos }
func (e *ExprPath) Span() token.Span     { return e.Path.Span }
func (e *ExprUnary) Span() token.Span    { return e.Pos }
func (e *ExprBinary) Span() token.Span   { return e.Pos }
func (e *ExprCast) Span() token.Span     { return e.Pos }
func (e *ExprArray) Span() token.Span    { return e.Pos }
func (e *ExprTuple) Span() token.Span    { return e.Pos }
func (e *ExprParen) Span() token.Span    { return e.Pos }
func (e *ExprCall) Span() token.Span     { return e.Pos }
func (e *ExprMacro) Span() token.Span    { return e.Pos }
func (e *ExprVerbatim) Span() token.Span { return e.Tokens.Span() }

func (*ExprLit) exprNode()      {}
func (*ExprPath) exprNode()     {}
func (*ExprUnary) exprNode()    {}
func (*ExprBinary) exprNode()   {}
func (*ExprCast) exprNode()     {}
func (*ExprArray) exprNode()    {}
func (*ExprTuple) exprNode()    {}
func (*ExprParen) exprNode()    {}
func (*ExprCall) exprNode()     {}
func (*ExprMacro) exprNode()    {}
func (*ExprVerbatim) exprNode() {}

// ExprString renders an expression back into source-like text.
func ExprString(e Expr) string {
	switch e := e.(type) {
	case nil:
		return ""
	case *ExprLit:
		switch e.Kind {
		case LitStr:
			return strconv.Quote(e.Value)
		case LitByteStr:
			return "b" + strconv.Quote(e.Value)
		case LitChar:
			return "'" + e.Value + "'"
		case LitByte:
			return "b'" + e.Value + "'"
		}
		return e.Value + e.Suffix
	case *ExprPath:
		return e.Path.String()
	case *ExprUnary:
		return e.Op + ExprString(e.X)
	case *ExprBinary:
		return ExprString(e.X) + " " + e.Op + " " + ExprString(e.Y)
	case *ExprCast:
		return ExprString(e.X) + " as " + e.Type.String()
	case *ExprArray:
		return "[" + joinExprs(e.Elems) + "]"
	case *ExprTuple:
		return "(" + joinExprs(e.Elems) + ")"
	case *ExprParen:
		return "(" + ExprString(e.X) + ")"
	case *ExprCall:
		return ExprString(e.Func) + "(" + joinExprs(e.Args) + ")"
	case *ExprMacro:
		return e.Path.String() + "!" + e.Tokens.String()
	case *ExprVerbatim:
		return e.Tokens.String()
	}
	return ""
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = ExprString(e)
	}
	return strings.Join(parts, ", ")
}

// Integer is the set of fixed-width integer targets literal extraction
// supports.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// LitIntAs extracts an integer literal, optionally negated, into T. It fails
// when the expression is not an integer literal or does not fit in T.
func LitIntAs[T Integer](e Expr) (T, error) {
	var zero T
	negative := false
	if u, ok := e.(*ExprUnary); ok && u.Op == "-" {
		negative = true
		e = u.X
	}
	lit, ok := e.(*ExprLit)
	if !ok || lit.Kind != LitInt {
		return zero, errors.Compile(spanOf(e), "expected an integer literal")
	}
	if negative {
		if zero-1 > 0 {
			return zero, errors.Compile(lit.Pos, "expected an unsigned integer, found -%s", lit.Value)
		}
		n, err := strconv.ParseInt("-"+lit.Value, 0, 64)
		if err != nil {
			return zero, errors.Compile(lit.Pos, "integer literal out of range: -%s", lit.Value)
		}
		t := T(n)
		if int64(t) != n {
			return zero, errors.Compile(lit.Pos, "integer literal out of range: -%s", lit.Value)
		}
		return t, nil
	}
	n, err := strconv.ParseUint(lit.Value, 0, 64)
	if err != nil {
		return zero, errors.Compile(lit.Pos, "integer literal out of range: %s", lit.Value)
	}
	t := T(n)
	if t < 0 || uint64(t) != n {
		return zero, errors.Compile(lit.Pos, "integer literal out of range: %s", lit.Value)
	}
	return t, nil
}

// LitString extracts a string literal.
func LitString(e Expr) (string, error) {
	if lit, ok := e.(*ExprLit); ok && lit.Kind == LitStr {
		return lit.Value, nil
	}
	return "", errors.Compile(spanOf(e), "expected a string literal")
}

// LitBoolean extracts `true` or `false`.
func LitBoolean(e Expr) (bool, error) {
	if lit, ok := e.(*ExprLit); ok && lit.Kind == LitBool {
		return lit.Value == "true", nil
	}
	return false, errors.Compile(spanOf(e), "expected a boolean literal")
}

// LitFloat64 extracts a float literal, optionally negated. Integer literals are
// accepted as well.
func LitFloat64(e Expr) (float64, error) {
	sign := 1.0
	if u, ok := e.(*ExprUnary); ok && u.Op == "-" {
		sign = -1
		e = u.X
	}
	if lit, ok := e.(*ExprLit); ok && (lit.Kind == LitFloat || lit.Kind == LitInt) {
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return 0, errors.Compile(lit.Pos, "invalid float literal %s", lit.Value)
		}
		return sign * f, nil
	}
	return 0, errors.Compile(spanOf(e), "expected a float literal")
}

// ArrayElems returns the elements of an array expression.
func ArrayElems(e Expr) ([]Expr, error) {
	if arr, ok := e.(*ExprArray); ok {
		return arr.Elems, nil
	}
	return nil, errors.Compile(spanOf(e), "expected an array")
}

// PathOf returns the path of a path expression.
func PathOf(e Expr) (*Path, error) {
	if p, ok := e.(*ExprPath); ok {
		return p.Path, nil
	}
	return nil, errors.Compile(spanOf(e), "expected a path")
}

// IsIntLit reports whether e is a plain (non-negated) integer literal.
func IsIntLit(e Expr) bool {
	lit, ok := e.(*ExprLit)
	return ok && lit.Kind == LitInt
}

func spanOf(e Expr) token.Span {
	if e == nil {
		return token.NoSpan
	}
	return e.Span()
}
