// Package attributes classifies the attributes attached to items, variants
// and fields, and parses `#[codama(..)]` directives into typed values.
package attributes

import (
	"strings"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/meta"
	"github.com/calumari/codama/syntax"
	"github.com/calumari/codama/token"
)

// Attribute is a parsed attribute: a *DeriveAttribute, a *CodamaAttribute or
// an *UnsupportedAttribute.
type Attribute interface {
	Span() token.Span
	// Syntax returns the attribute as written, before any cfg_attr
	// unwrapping.
	Syntax() *syntax.Attribute
	attribute()
}

type (
	// DeriveAttribute is `#[derive(A, b::C)]`.
	DeriveAttribute struct {
		Ast     *syntax.Attribute
		Derives []*syntax.Path
	}
	// CodamaAttribute is `#[codama(directive)]`.
	CodamaAttribute struct {
		Ast       *syntax.Attribute
		Directive Directive
	}
	// UnsupportedAttribute is any other attribute. Body is the attribute body
	// after cfg_attr unwrapping.
	UnsupportedAttribute struct {
		Ast  *syntax.Attribute
		Path *syntax.Path
		Body token.Stream
	}
)

func (a *DeriveAttribute) Span() token.Span      { return a.Ast.Span }
func (a *CodamaAttribute) Span() token.Span      { return a.Ast.Span }
func (a *UnsupportedAttribute) Span() token.Span { return a.Ast.Span }

func (a *DeriveAttribute) Syntax() *syntax.Attribute      { return a.Ast }
func (a *CodamaAttribute) Syntax() *syntax.Attribute      { return a.Ast }
func (a *UnsupportedAttribute) Syntax() *syntax.Attribute { return a.Ast }

func (*DeriveAttribute) attribute()      {}
func (*CodamaAttribute) attribute()      {}
func (*UnsupportedAttribute) attribute() {}

// Parse classifies attr. A `#[cfg_attr(feature = "..", inner, ..)]` yields
// one attribute per inner attribute; every other form yields exactly one.
func Parse(attr *syntax.Attribute) ([]Attribute, error) {
	body := attr.Tokens()
	if attr.Path.IsIdent("cfg_attr") {
		inner, ok := unwrapCfgAttr(attr)
		if !ok {
			return []Attribute{&UnsupportedAttribute{Ast: attr, Path: attr.Path, Body: body}}, nil
		}
		var out []Attribute
		var errs errors.List
		for _, tokens := range inner {
			a, err := parseBody(attr, tokens)
			if err != nil {
				errs.Add(err)
				continue
			}
			out = append(out, a)
		}
		return out, errs.Err()
	}
	a, err := parseBody(attr, body)
	if err != nil {
		return nil, err
	}
	return []Attribute{a}, nil
}

// unwrapCfgAttr returns the attribute bodies gated by a feature predicate.
func unwrapCfgAttr(attr *syntax.Attribute) ([]token.Stream, bool) {
	group, ok := attr.Group()
	if !ok {
		return nil, false
	}
	parts := token.Stream(group.Tokens).SplitComma()
	if len(parts) < 2 {
		return nil, false
	}
	predicate := parts[0]
	if len(predicate) != 3 || !predicate[0].Is("feature") || !predicate[1].Is("=") || predicate[2].Kind != token.Literal {
		return nil, false
	}
	return parts[1:], true
}

func parseBody(attr *syntax.Attribute, body token.Stream) (Attribute, error) {
	if len(body) == 0 || body[0].Kind != token.Ident {
		return &UnsupportedAttribute{Ast: attr, Body: body}, nil
	}
	switch body[0].Text {
	case "derive":
		return parseDerive(attr, body)
	case "codama":
		return parseCodama(attr, body)
	}
	p := syntax.NewParser(body, body.Span())
	path, err := p.ParsePath()
	if err != nil {
		return &UnsupportedAttribute{Ast: attr, Body: body}, nil
	}
	return &UnsupportedAttribute{Ast: attr, Path: path, Body: body}, nil
}

func parseDerive(attr *syntax.Attribute, body token.Stream) (Attribute, error) {
	m, err := meta.Parse(body)
	if err != nil {
		return nil, err
	}
	items, err := meta.AsList(m)
	if err != nil {
		return nil, errors.InvalidAttribute(m.Span(), "`derive(..)`", meta.Describe(m))
	}
	derive := &DeriveAttribute{Ast: attr}
	var errs errors.List
	for _, item := range items {
		path, err := meta.AsPath(item)
		if err != nil {
			errs.Add(err)
			continue
		}
		derive.Derives = append(derive.Derives, path)
	}
	return derive, errs.Err()
}

func parseCodama(attr *syntax.Attribute, body token.Stream) (Attribute, error) {
	m, err := meta.Parse(body)
	if err != nil {
		return nil, err
	}
	items, err := meta.AsList(m)
	if err != nil {
		return nil, errors.InvalidAttribute(m.Span(), "`codama(..)`", meta.Describe(m))
	}
	if len(items) != 1 {
		return nil, errors.Compile(m.Span(), "expected exactly one directive inside `codama(..)`, found %d", len(items))
	}
	directive, err := ParseDirective(items[0])
	if err != nil {
		return nil, err
	}
	return &CodamaAttribute{Ast: attr, Directive: directive}, nil
}

// Attributes is the ordered list of attributes of one carrier.
type Attributes []Attribute

// ParseAll parses every attribute of a carrier. Errors are combined across
// attributes, and directives that may only appear once per carrier are
// checked.
func ParseAll(attrs []*syntax.Attribute) (Attributes, error) {
	var out Attributes
	var errs errors.List
	for _, attr := range attrs {
		parsed, err := Parse(attr)
		errs.Add(err)
		out = append(out, parsed...)
	}
	errs.Add(checkUnique(out))
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkUnique rejects carriers with two directives competing for the same
// slot, such as two type overrides.
func checkUnique(attrs Attributes) error {
	slots := map[string]*SetOnce[Directive]{}
	var errs errors.List
	for _, d := range attrs.Directives() {
		slot := uniqueSlot(d)
		if slot == "" {
			continue
		}
		s, ok := slots[slot]
		if !ok {
			s = NewSetOnce[Directive](slot)
			slots[slot] = s
		}
		errs.Add(s.Set(d, d.Span()))
	}
	return errs.Err()
}

func uniqueSlot(d Directive) string {
	switch d.(type) {
	case *TypeDirective, *NodeDirective:
		return "type"
	case *NameDirective:
		return "name"
	case *EncodingDirective:
		return "encoding"
	case *FixedSizeDirective:
		return "fixed_size"
	case *SizePrefixDirective:
		return "size_prefix"
	case *DefaultValueDirective:
		return "default_value"
	case *ErrorDirective:
		return "error"
	case *EnumDiscriminatorDirective:
		return "enum_discriminator"
	}
	return ""
}

// Directives returns the directive of every codama attribute in order.
func (a Attributes) Directives() []Directive {
	var out []Directive
	for _, attr := range a {
		if c, ok := attr.(*CodamaAttribute); ok {
			out = append(out, c.Directive)
		}
	}
	return out
}

// HasDerive reports whether a derive attribute lists one of the given
// traits, matched by last segment or full path.
func (a Attributes) HasDerive(traits ...string) bool {
	for _, attr := range a {
		d, ok := attr.(*DeriveAttribute)
		if !ok {
			continue
		}
		for _, p := range d.Derives {
			if p.Matches(traits...) {
				return true
			}
		}
	}
	return false
}

// Unsupported returns the first non-derive, non-codama attribute whose path
// is name.
func (a Attributes) Unsupported(name string) (*UnsupportedAttribute, bool) {
	for _, attr := range a {
		u, ok := attr.(*UnsupportedAttribute)
		if ok && u.Path != nil && u.Path.String() == name {
			return u, true
		}
	}
	return nil, false
}

// Docs returns the lines of every doc attribute, `///` comments included,
// with one leading space trimmed from each line.
func (a Attributes) Docs() []string {
	var out []string
	for _, attr := range a {
		u, ok := attr.(*UnsupportedAttribute)
		if !ok || u.Path == nil || !u.Path.IsIdent("doc") {
			continue
		}
		if len(u.Body) != 3 || !u.Body[1].Is("=") || u.Body[2].Kind != token.Literal {
			continue
		}
		for _, line := range strings.Split(u.Body[2].Value, "\n") {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(line, " "), "\r"))
		}
	}
	return out
}

// Find returns the first directive of type T.
func Find[T Directive](a Attributes) (T, bool) {
	for _, d := range a.Directives() {
		if t, ok := d.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// All returns every directive of type T in order.
func All[T Directive](a Attributes) []T {
	var out []T
	for _, d := range a.Directives() {
		if t, ok := d.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
