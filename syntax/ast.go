package syntax

import (
	"strconv"
	"strings"

	"github.com/calumari/codama/token"
)

// File is a parsed source file.
type File struct {
	Filename string
	Attrs    []*Attribute // inner attributes
	Items    []Item
	Span     token.Span
}

// AttrStyle distinguishes `#[..]` from `#![..]`.
type AttrStyle int

const (
	AttrOuter AttrStyle = iota
	AttrInner
)

// Attribute is `#[path args]`. Args holds every token after the path: a
// single delimited group, `= value` tokens, or nothing.
type Attribute struct {
	Style AttrStyle
	Path  *Path
	Args  token.Stream
	Span  token.Span
}

// Group returns the delimited argument group of `#[path(..)]`.
func (a *Attribute) Group() (token.Token, bool) {
	if len(a.Args) == 1 && a.Args[0].Kind == token.Group {
		return a.Args[0], true
	}
	return token.Token{}, false
}

// Value returns the tokens following `=` in `#[path = value]`.
func (a *Attribute) Value() (token.Stream, bool) {
	if len(a.Args) > 1 && a.Args[0].Is("=") {
		return a.Args[1:], true
	}
	return nil, false
}

// Tokens returns the full attribute body: path followed by its arguments.
func (a *Attribute) Tokens() token.Stream {
	out := a.Path.Tokens()
	return append(out, a.Args...)
}

func (a *Attribute) String() string {
	prefix := "#["
	if a.Style == AttrInner {
		prefix = "#!["
	}
	return prefix + a.Tokens().String() + "]"
}

// Path is a `::`-separated path such as `std::vec::Vec<T>`.
type Path struct {
	Leading  bool
	Segments []*PathSegment
	Span     token.Span
}

// PathSegment is one identifier of a path with its optional generic arguments.
type PathSegment struct {
	Ident string
	Args  *GenericArgs
	Span  token.Span
}

// GenericArgs is the `<..>` (or `(..) -> ..`) argument list of a segment.
type GenericArgs struct {
	Args          []GenericArg
	Parenthesized bool
	Span          token.Span
}

// GenericArg is one of TypeArg, LifetimeArg, ConstArg or BindingArg.
type GenericArg interface {
	genericArg()
}

type (
	// TypeArg is a type argument, `Vec<u8>`.
	TypeArg struct{ Type Type }
	// LifetimeArg is a lifetime argument, `Cow<'a, str>`.
	LifetimeArg struct {
		Name string
		Span token.Span
	}
	// ConstArg is a const generic argument, `Foo<32>`.
	ConstArg struct{ Expr Expr }
	// BindingArg is an associated type binding, `Iterator<Item = u8>`.
	BindingArg struct {
		Ident string
		Type  Type
	}
)

func (*TypeArg) genericArg()     {}
func (*LifetimeArg) genericArg() {}
func (*ConstArg) genericArg()    {}
func (*BindingArg) genericArg()  {}

// SimplePath builds a path from `::`-separated identifiers.
func SimplePath(s string) *Path {
	p := &Path{}
	if strings.HasPrefix(s, "::") {
		p.Leading = true
		s = s[2:]
	}
	for _, seg := range strings.Split(s, "::") {
		p.Segments = append(p.Segments, &PathSegment{Ident: seg})
	}
	return p
}

// Idents returns the identifiers of the path, without generic arguments.
func (p *Path) Idents() []string {
	out := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.Ident
	}
	return out
}

func (p *Path) String() string {
	s := strings.Join(p.Idents(), "::")
	if p.Leading {
		return "::" + s
	}
	return s
}

// Last returns the final segment of the path.
func (p *Path) Last() *PathSegment {
	if len(p.Segments) == 0 {
		return nil
	}
	return p.Segments[len(p.Segments)-1]
}

// LastIdent returns the identifier of the final segment.
func (p *Path) LastIdent() string {
	if last := p.Last(); last != nil {
		return last.Ident
	}
	return ""
}

// IsIdent reports whether the path is the single identifier name.
func (p *Path) IsIdent(name string) bool {
	return !p.Leading && len(p.Segments) == 1 && p.Segments[0].Ident == name && p.Segments[0].Args == nil
}

// Prefix returns every identifier but the last, joined by `::`.
func (p *Path) Prefix() string {
	idents := p.Idents()
	if len(idents) <= 1 {
		return ""
	}
	return strings.Join(idents[:len(idents)-1], "::")
}

// Matches reports whether the path designates one of the full paths given.
// A path matches either by its last identifier alone, e.g. `Vec`, or by
// spelling out one of the full paths, e.g. `std::vec::Vec`. A leading `::`
// is ignored.
func (p *Path) Matches(fullPaths ...string) bool {
	if len(p.Segments) == 0 {
		return false
	}
	idents := p.Idents()
	for _, full := range fullPaths {
		parts := strings.Split(strings.TrimPrefix(full, "::"), "::")
		if len(idents) == 1 && idents[0] == parts[len(parts)-1] {
			return true
		}
		if len(idents) == len(parts) && strings.Join(idents, "::") == strings.Join(parts, "::") {
			return true
		}
	}
	return false
}

// Tokens renders the path back into tokens (generic arguments dropped).
func (p *Path) Tokens() token.Stream {
	var out token.Stream
	if p.Leading {
		out = append(out, token.Token{Kind: token.Punct, Text: "::", Span: p.Span})
	}
	for i, s := range p.Segments {
		if i > 0 {
			out = append(out, token.Token{Kind: token.Punct, Text: "::", Span: s.Span})
		}
		out = append(out, token.Token{Kind: token.Ident, Text: s.Ident, Span: s.Span})
	}
	return out
}

// TypeArgs returns the type arguments of the segment in order. Lifetimes,
// consts and bindings are skipped.
func (s *PathSegment) TypeArgs() []Type {
	if s.Args == nil {
		return nil
	}
	var out []Type
	for _, a := range s.Args.Args {
		if t, ok := a.(*TypeArg); ok {
			out = append(out, t.Type)
		}
	}
	return out
}

// Type is a syntactic type.
type Type interface {
	Span() token.Span
	String() string
	typeNode()
}

type (
	// TypePath is a named type, `Option<u8>`.
	TypePath struct {
		Path *Path
	}
	// TypeReference is `&'a mut T`.
	TypeReference struct {
		Lifetime string
		Mutable  bool
		Elem     Type
		Pos      token.Span
	}
	// TypePtr is `*const T` or `*mut T`.
	TypePtr struct {
		Mutable bool
		Elem    Type
		Pos     token.Span
	}
	// TypeTuple is `(A, B)`; the unit type has no elements.
	TypeTuple struct {
		Elems []Type
		Pos   token.Span
	}
	// TypeArray is `[T; N]`.
	TypeArray struct {
		Elem Type
		Len  Expr
		Pos  token.Span
	}
	// TypeSlice is `[T]`.
	TypeSlice struct {
		Elem Type
		Pos  token.Span
	}
	// TypeVerbatim holds any type the reader does not model, such as
	// `impl Trait`, `dyn Trait`, `fn(u8)` or `!`.
	TypeVerbatim struct {
		Tokens token.Stream
	}
)

func (t *TypePath) Span() token.Span      { return t.Path.Span }
func (t *TypeReference) Span() token.Span { return t.Pos }
func (t *TypePtr) Span() token.Span       { return t.Pos }
func (t *TypeTuple) Span() token.Span     { return t.Pos }
func (t *TypeArray) Span() token.Span     { return t.Pos }
func (t *TypeSlice) Span() token.Span     { return t.Pos }
func (t *TypeVerbatim) Span() token.Span  { return t.Tokens.Span() }

func (t *TypePath) String() string {
	var b strings.Builder
	if t.Path.Leading {
		b.WriteString("::")
	}
	for i, s := range t.Path.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(s.Ident)
		if s.Args != nil && !s.Args.Parenthesized {
			b.WriteByte('<')
			for j, a := range s.Args.Args {
				if j > 0 {
					b.WriteString(", ")
				}
				switch a := a.(type) {
				case *TypeArg:
					b.WriteString(a.Type.String())
				case *LifetimeArg:
					b.WriteString("'" + a.Name)
				case *ConstArg:
					b.WriteString(ExprString(a.Expr))
				case *BindingArg:
					b.WriteString(a.Ident + " = " + a.Type.String())
				}
			}
			b.WriteByte('>')
		}
	}
	return b.String()
}

func (t *TypeReference) String() string {
	s := "&"
	if t.Lifetime != "" {
		s += "'" + t.Lifetime + " "
	}
	if t.Mutable {
		s += "mut "
	}
	return s + t.Elem.String()
}

func (t *TypePtr) String() string {
	if t.Mutable {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}

func (t *TypeTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *TypeArray) String() string {
	return "[" + t.Elem.String() + "; " + ExprString(t.Len) + "]"
}

func (t *TypeSlice) String() string {
	return "[" + t.Elem.String() + "]"
}

func (t *TypeVerbatim) String() string {
	return t.Tokens.String()
}

func (*TypePath) typeNode()      {}
func (*TypeReference) typeNode() {}
func (*TypePtr) typeNode()       {}
func (*TypeTuple) typeNode()     {}
func (*TypeArray) typeNode()     {}
func (*TypeSlice) typeNode()     {}
func (*TypeVerbatim) typeNode()  {}

// Visibility of an item or field.
type Visibility int

const (
	VisInherited Visibility = iota
	VisPublic
	VisRestricted // pub(crate), pub(super), pub(in path)
)

// Item is a module-level item.
type Item interface {
	Span() token.Span
	Attributes() []*Attribute
	itemNode()
}

// ItemStruct is `struct Name { .. }`, `struct Name(..);` or `struct Name;`.
type ItemStruct struct {
	Attrs  []*Attribute
	Vis    Visibility
	Ident  string
	Fields *Fields
	Pos    token.Span
}

// ItemEnum is `enum Name { .. }`.
type ItemEnum struct {
	Attrs    []*Attribute
	Vis      Visibility
	Ident    string
	Variants []*Variant
	Pos      token.Span
}

// ItemMod is `mod name;` (file module, Content is nil and Inline false) or
// `mod name { .. }`.
type ItemMod struct {
	Attrs      []*Attribute
	Vis        Visibility
	Ident      string
	Inline     bool
	InnerAttrs []*Attribute
	Content    []Item
	Pos        token.Span
}

// ItemConst is `const NAME: Type = expr;`.
type ItemConst struct {
	Attrs []*Attribute
	Vis   Visibility
	Ident string
	Type  Type
	Expr  Expr
	Pos   token.Span
}

// ItemImpl is `impl<..> Trait for Type { .. }`.
type ItemImpl struct {
	Attrs      []*Attribute
	InnerAttrs []*Attribute
	Trait      *Path
	SelfType   Type
	Items      []ImplItem
	Pos        token.Span
}

// ItemMacro is a macro invocation in item position, `declare_id!("..");`.
type ItemMacro struct {
	Attrs  []*Attribute
	Path   *Path
	Ident  string // macro_rules! name
	Tokens token.Stream
	Pos    token.Span
}

// ItemOther is any item the reader does not model in detail: `use`, `fn`,
// `trait`, `type`, `static`, `union`, `extern crate` and extern blocks.
type ItemOther struct {
	Attrs  []*Attribute
	Vis    Visibility
	Kind   string
	Ident  string
	Tokens token.Stream
	Pos    token.Span
}

func (i *ItemStruct) Span() token.Span { return i.Pos }
func (i *ItemEnum) Span() token.Span   { return i.Pos }
func (i *ItemMod) Span() token.Span    { return i.Pos }
func (i *ItemConst) Span() token.Span  { return i.Pos }
func (i *ItemImpl) Span() token.Span   { return i.Pos }
func (i *ItemMacro) Span() token.Span  { return i.Pos }
func (i *ItemOther) Span() token.Span  { return i.Pos }

func (i *ItemStruct) Attributes() []*Attribute { return i.Attrs }
func (i *ItemEnum) Attributes() []*Attribute   { return i.Attrs }
func (i *ItemMod) Attributes() []*Attribute    { return i.Attrs }
func (i *ItemConst) Attributes() []*Attribute  { return i.Attrs }
func (i *ItemImpl) Attributes() []*Attribute   { return i.Attrs }
func (i *ItemMacro) Attributes() []*Attribute  { return i.Attrs }
func (i *ItemOther) Attributes() []*Attribute  { return i.Attrs }

func (*ItemStruct) itemNode() {}
func (*ItemEnum) itemNode()   {}
func (*ItemMod) itemNode()    {}
func (*ItemConst) itemNode()  {}
func (*ItemImpl) itemNode()   {}
func (*ItemMacro) itemNode()  {}
func (*ItemOther) itemNode()  {}

// ImplItem is an item inside an impl block.
type ImplItem interface {
	Span() token.Span
	Attributes() []*Attribute
	implItemNode()
}

type (
	// ImplItemConst is `const NAME: Type = expr;` inside an impl.
	ImplItemConst struct {
		Attrs []*Attribute
		Ident string
		Type  Type
		Expr  Expr
		Pos   token.Span
	}
	// ImplItemFn is a method; its signature and body are kept as tokens.
	ImplItemFn struct {
		Attrs  []*Attribute
		Ident  string
		Tokens token.Stream
		Pos    token.Span
	}
	// ImplItemType is `type Name = Type;` inside an impl.
	ImplItemType struct {
		Attrs []*Attribute
		Ident string
		Type  Type
		Pos   token.Span
	}
	// ImplItemOther is a macro invocation or any other impl item.
	ImplItemOther struct {
		Attrs  []*Attribute
		Tokens token.Stream
		Pos    token.Span
	}
)

func (i *ImplItemConst) Span() token.Span { return i.Pos }
func (i *ImplItemFn) Span() token.Span    { return i.Pos }
func (i *ImplItemType) Span() token.Span  { return i.Pos }
func (i *ImplItemOther) Span() token.Span { return i.Pos }

func (i *ImplItemConst) Attributes() []*Attribute { return i.Attrs }
func (i *ImplItemFn) Attributes() []*Attribute    { return i.Attrs }
func (i *ImplItemType) Attributes() []*Attribute  { return i.Attrs }
func (i *ImplItemOther) Attributes() []*Attribute { return i.Attrs }

func (*ImplItemConst) implItemNode() {}
func (*ImplItemFn) implItemNode()    {}
func (*ImplItemType) implItemNode()  {}
func (*ImplItemOther) implItemNode() {}

// FieldsStyle is the shape of a struct or variant body.
type FieldsStyle int

const (
	FieldsUnit FieldsStyle = iota
	FieldsNamed
	FieldsUnnamed
)

func (s FieldsStyle) String() string {
	switch s {
	case FieldsNamed:
		return "named"
	case FieldsUnnamed:
		return "unnamed"
	}
	return "unit"
}

// Fields is the body of a struct or enum variant.
type Fields struct {
	Style FieldsStyle
	List  []*Field
	Pos   token.Span
}

// Field is a named or positional field.
type Field struct {
	Attrs []*Attribute
	Vis   Visibility
	Ident string // empty for unnamed fields
	Index int
	Type  Type
	Pos   token.Span
}

// Name returns the field identifier, or its position for unnamed fields.
func (f *Field) Name() string {
	if f.Ident != "" {
		return f.Ident
	}
	return strconv.Itoa(f.Index)
}

// Variant is an enum variant.
type Variant struct {
	Attrs        []*Attribute
	Ident        string
	Fields       *Fields
	Discriminant Expr
	Pos          token.Span
}
