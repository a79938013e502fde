package syntax

import (
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/token"
)

// Parser reads items, types and expressions from a token stream. Groups are
// already nested, so each delimited body is parsed by a sub-parser over the
// group's tokens.
type Parser struct {
	tokens token.Stream
	pos    int
	end    token.Span
}

// NewParser returns a parser over tokens. The end span is used to report
// unexpected end of input.
func NewParser(tokens token.Stream, end token.Span) *Parser {
	return &Parser{tokens: tokens, end: end}
}

// ParseFile tokenizes and parses a whole source file.
func ParseFile(filename, src string) (*File, error) {
	tokens, err := Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	endPos := token.Position{Filename: filename, Offset: len(src)}
	p := NewParser(tokens, token.Span{Start: endPos, End: endPos})
	f := &File{Filename: filename, Span: tokens.Span()}
	f.Attrs, err = p.parseInnerAttrs()
	if err != nil {
		return nil, err
	}
	f.Items, err = p.parseItems()
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ParseType parses a standalone type such as `Vec<u8>`.
func ParseType(src string) (Type, error) {
	tokens, err := Tokenize("", src)
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens, tokens.Span())
	t, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	if !p.EOF() {
		return nil, p.unexpected("end of type")
	}
	return t, nil
}

// ParseExpr parses a standalone expression such as `1 + 2`.
func ParseExpr(src string) (Expr, error) {
	tokens, err := Tokenize("", src)
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens, tokens.Span())
	e, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if !p.EOF() {
		return nil, p.unexpected("end of expression")
	}
	return e, nil
}

// EOF reports whether every token was consumed.
func (p *Parser) EOF() bool {
	return p.pos >= len(p.tokens)
}

// Peek returns the next token without consuming it.
func (p *Parser) Peek() *token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) *token.Token {
	if p.pos+n >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+n]
}

// Next consumes the next token.
func (p *Parser) Next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

// Rest consumes and returns every remaining token.
func (p *Parser) Rest() token.Stream {
	out := p.tokens[p.pos:]
	p.pos = len(p.tokens)
	return out
}

func (p *Parser) is(text string) bool {
	t := p.Peek()
	return t != nil && t.Is(text)
}

func (p *Parser) isN(n int, text string) bool {
	t := p.peekN(n)
	return t != nil && t.Is(text)
}

func (p *Parser) isGroup(d token.Delimiter) bool {
	t := p.Peek()
	return t != nil && t.IsGroup(d)
}

func (p *Parser) eat(text string) bool {
	if p.is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) currentSpan() token.Span {
	if t := p.Peek(); t != nil {
		return t.Span
	}
	return p.end
}

func (p *Parser) lastSpan() token.Span {
	if p.pos == 0 || p.pos > len(p.tokens) {
		return p.end
	}
	return p.tokens[p.pos-1].Span
}

func (p *Parser) unexpected(expected string) error {
	t := p.Peek()
	if t == nil {
		return errors.Compile(p.end, "expected %s, found end of input", expected)
	}
	return errors.Compile(t.Span, "expected %s, found %q", expected, t.String())
}

func (p *Parser) expect(text string) (*token.Token, error) {
	if !p.is(text) {
		return nil, p.unexpected("`" + text + "`")
	}
	return p.Next(), nil
}

func (p *Parser) expectIdent() (*token.Token, error) {
	t := p.Peek()
	if t == nil || t.Kind != token.Ident {
		return nil, p.unexpected("identifier")
	}
	return p.Next(), nil
}

func (p *Parser) expectGroup(d token.Delimiter) (*token.Token, error) {
	if !p.isGroup(d) {
		return nil, p.unexpected("`" + d.Open() + "`")
	}
	return p.Next(), nil
}

// sub returns a parser over the body of a group token.
func sub(group *token.Token) *Parser {
	closing := group.Span
	closing.Start = closing.End
	return NewParser(group.Tokens, closing)
}

// parseOuterAttrs reads `#[..]` attributes and outer doc comments.
func (p *Parser) parseOuterAttrs() ([]*Attribute, error) {
	var attrs []*Attribute
	for {
		t := p.Peek()
		switch {
		case t == nil:
			return attrs, nil
		case t.Kind == token.DocComment && !t.Inner:
			p.Next()
			attrs = append(attrs, docAttribute(t, AttrOuter))
		case t.Is("#") && p.peekN(1) != nil && p.peekN(1).IsGroup(token.Bracket):
			hash := p.Next()
			a, err := parseAttribute(p.Next(), AttrOuter)
			if err != nil {
				return nil, err
			}
			a.Span = hash.Span.Join(a.Span)
			attrs = append(attrs, a)
		default:
			return attrs, nil
		}
	}
}

// parseInnerAttrs reads `#![..]` attributes and inner doc comments.
func (p *Parser) parseInnerAttrs() ([]*Attribute, error) {
	var attrs []*Attribute
	for {
		t := p.Peek()
		switch {
		case t == nil:
			return attrs, nil
		case t.Kind == token.DocComment && t.Inner:
			p.Next()
			attrs = append(attrs, docAttribute(t, AttrInner))
		case t.Is("#") && p.isN(1, "!") && p.peekN(2) != nil && p.peekN(2).IsGroup(token.Bracket):
			hash := p.Next()
			p.Next()
			a, err := parseAttribute(p.Next(), AttrInner)
			if err != nil {
				return nil, err
			}
			a.Span = hash.Span.Join(a.Span)
			attrs = append(attrs, a)
		default:
			return attrs, nil
		}
	}
}

func docAttribute(t *token.Token, style AttrStyle) *Attribute {
	path := SimplePath("doc")
	path.Span = t.Span
	path.Segments[0].Span = t.Span
	return &Attribute{
		Style: style,
		Path:  path,
		Args: token.Stream{
			{Kind: token.Punct, Text: "=", Span: t.Span},
			{Kind: token.Literal, LitKind: token.LitStr, Text: t.Text, Value: t.Value, Span: t.Span},
		},
		Span: t.Span,
	}
}

func parseAttribute(group *token.Token, style AttrStyle) (*Attribute, error) {
	p := sub(group)
	path, err := p.parseModPath()
	if err != nil {
		return nil, err
	}
	return &Attribute{Style: style, Path: path, Args: p.Rest(), Span: group.Span}, nil
}

// ParsePath reads a path without generic arguments, `a::b::c`. Keywords are
// accepted as segments.
func (p *Parser) ParsePath() (*Path, error) {
	return p.parseModPath()
}

func (p *Parser) parseModPath() (*Path, error) {
	path := &Path{Span: p.currentSpan()}
	if p.eat("::") {
		path.Leading = true
	}
	for {
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		path.Segments = append(path.Segments, &PathSegment{Ident: id.Text, Span: id.Span})
		path.Span = path.Span.Join(id.Span)
		if !p.is("::") || p.peekN(1) == nil || p.peekN(1).Kind != token.Ident {
			return path, nil
		}
		p.Next()
	}
}

func (p *Parser) parseVisibility() Visibility {
	if !p.is("pub") {
		return VisInherited
	}
	p.Next()
	if p.isGroup(token.Parenthesis) {
		p.Next()
		return VisRestricted
	}
	return VisPublic
}

// skipGenerics skips a `<..>` parameter list if present.
func (p *Parser) skipGenerics() error {
	if !p.is("<") {
		return nil
	}
	start := p.currentSpan()
	depth := 0
	for {
		t := p.Next()
		if t == nil {
			return errors.Compile(start, "unclosed generic parameter list")
		}
		switch {
		case t.Is("<"):
			depth++
		case t.Is(">"):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// skipWhere skips a where clause up to (not including) a brace group or `;`.
func (p *Parser) skipWhere() {
	if !p.is("where") {
		return
	}
	for !p.EOF() && !p.isGroup(token.Brace) && !p.is(";") {
		p.Next()
	}
}

func (p *Parser) parseItems() ([]Item, error) {
	var items []Item
	for !p.EOF() {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, item)
		}
	}
	return items, nil
}

func (p *Parser) parseItem() (Item, error) {
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}
	if p.EOF() {
		if len(attrs) > 0 {
			return nil, errors.Compile(attrs[len(attrs)-1].Span, "expected item after attributes")
		}
		return nil, nil
	}
	start := p.currentSpan()
	if p.eat(";") {
		return nil, nil
	}
	vis := p.parseVisibility()
	for p.is("unsafe") || p.is("async") || p.is("default") || (p.is("const") && (p.isN(1, "fn") || p.isN(1, "unsafe") || p.isN(1, "async"))) {
		p.Next()
	}
	if p.is("extern") {
		if p.isN(1, "crate") {
			return p.parseOther(attrs, vis, start, "extern crate")
		}
		p.Next()
		if t := p.Peek(); t != nil && t.Kind == token.Literal {
			p.Next()
		}
		if p.isGroup(token.Brace) {
			p.Next()
			return &ItemOther{Attrs: attrs, Vis: vis, Kind: "extern", Pos: start.Join(p.lastSpan())}, nil
		}
	}
	t := p.Peek()
	if t == nil {
		return nil, p.unexpected("item")
	}
	switch {
	case t.Is("struct"):
		return p.parseStruct(attrs, vis, start)
	case t.Is("enum"):
		return p.parseEnum(attrs, vis, start)
	case t.Is("mod"):
		return p.parseMod(attrs, vis, start)
	case t.Is("const") && !p.isN(1, "fn"):
		return p.parseConst(attrs, vis, start)
	case t.Is("impl"):
		return p.parseImpl(attrs, start)
	case t.Is("use"), t.Is("static"), t.Is("type"):
		return p.parseOther(attrs, vis, start, t.Text)
	case t.Is("fn"), t.Is("trait"), t.Is("union"):
		return p.parseBodied(attrs, vis, start, t.Text)
	case t.Is("macro_rules") && p.isN(1, "!"):
		p.Next()
		p.Next()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		body := p.Next()
		if body == nil || body.Kind != token.Group {
			return nil, p.unexpected("macro body")
		}
		p.eat(";")
		return &ItemMacro{Attrs: attrs, Path: SimplePath("macro_rules"), Ident: name.Text, Tokens: token.Stream{*body}, Pos: start.Join(p.lastSpan())}, nil
	case t.Kind == token.Ident || t.Is("::"):
		return p.parseMacroItem(attrs, start)
	}
	return nil, p.unexpected("item")
}

func (p *Parser) parseStruct(attrs []*Attribute, vis Visibility, start token.Span) (Item, error) {
	p.Next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.skipGenerics(); err != nil {
		return nil, err
	}
	p.skipWhere()
	s := &ItemStruct{Attrs: attrs, Vis: vis, Ident: name.Text}
	switch {
	case p.isGroup(token.Brace):
		g := p.Next()
		s.Fields, err = parseNamedFields(g)
	case p.isGroup(token.Parenthesis):
		g := p.Next()
		s.Fields, err = parseUnnamedFields(g)
		if err == nil {
			p.skipWhere()
			_, err = p.expect(";")
		}
	default:
		s.Fields = &Fields{Style: FieldsUnit, Pos: name.Span}
		_, err = p.expect(";")
	}
	if err != nil {
		return nil, err
	}
	s.Pos = start.Join(p.lastSpan())
	return s, nil
}

func parseNamedFields(group *token.Token) (*Fields, error) {
	p := sub(group)
	fields := &Fields{Style: FieldsNamed, Pos: group.Span}
	for !p.EOF() {
		attrs, err := p.parseOuterAttrs()
		if err != nil {
			return nil, err
		}
		start := p.currentSpan()
		vis := p.parseVisibility()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		ty, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		fields.List = append(fields.List, &Field{
			Attrs: attrs,
			Vis:   vis,
			Ident: name.Text,
			Index: len(fields.List),
			Type:  ty,
			Pos:   start.Join(p.lastSpan()),
		})
		if !p.eat(",") && !p.EOF() {
			return nil, p.unexpected("`,`")
		}
	}
	return fields, nil
}

func parseUnnamedFields(group *token.Token) (*Fields, error) {
	p := sub(group)
	fields := &Fields{Style: FieldsUnnamed, Pos: group.Span}
	for !p.EOF() {
		attrs, err := p.parseOuterAttrs()
		if err != nil {
			return nil, err
		}
		start := p.currentSpan()
		vis := p.parseVisibility()
		ty, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		fields.List = append(fields.List, &Field{
			Attrs: attrs,
			Vis:   vis,
			Index: len(fields.List),
			Type:  ty,
			Pos:   start.Join(p.lastSpan()),
		})
		if !p.eat(",") && !p.EOF() {
			return nil, p.unexpected("`,`")
		}
	}
	return fields, nil
}

func (p *Parser) parseEnum(attrs []*Attribute, vis Visibility, start token.Span) (Item, error) {
	p.Next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.skipGenerics(); err != nil {
		return nil, err
	}
	p.skipWhere()
	body, err := p.expectGroup(token.Brace)
	if err != nil {
		return nil, err
	}
	e := &ItemEnum{Attrs: attrs, Vis: vis, Ident: name.Text}
	b := sub(body)
	for !b.EOF() {
		v, err := b.parseVariant()
		if err != nil {
			return nil, err
		}
		e.Variants = append(e.Variants, v)
		if !b.eat(",") && !b.EOF() {
			return nil, b.unexpected("`,`")
		}
	}
	e.Pos = start.Join(body.Span)
	return e, nil
}

func (p *Parser) parseVariant() (*Variant, error) {
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}
	start := p.currentSpan()
	p.parseVisibility()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	v := &Variant{Attrs: attrs, Ident: name.Text}
	switch {
	case p.isGroup(token.Brace):
		v.Fields, err = parseNamedFields(p.Next())
	case p.isGroup(token.Parenthesis):
		v.Fields, err = parseUnnamedFields(p.Next())
	default:
		v.Fields = &Fields{Style: FieldsUnit, Pos: name.Span}
	}
	if err != nil {
		return nil, err
	}
	if p.eat("=") {
		v.Discriminant, err = p.ParseExpr()
		if err != nil {
			return nil, err
		}
	}
	v.Pos = start.Join(p.lastSpan())
	return v, nil
}

func (p *Parser) parseMod(attrs []*Attribute, vis Visibility, start token.Span) (Item, error) {
	p.Next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	m := &ItemMod{Attrs: attrs, Vis: vis, Ident: name.Text}
	if p.eat(";") {
		m.Pos = start.Join(p.lastSpan())
		return m, nil
	}
	body, err := p.expectGroup(token.Brace)
	if err != nil {
		return nil, err
	}
	b := sub(body)
	m.Inline = true
	if m.InnerAttrs, err = b.parseInnerAttrs(); err != nil {
		return nil, err
	}
	if m.Content, err = b.parseItems(); err != nil {
		return nil, err
	}
	m.Pos = start.Join(body.Span)
	return m, nil
}

func (p *Parser) parseConst(attrs []*Attribute, vis Visibility, start token.Span) (Item, error) {
	p.Next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	c := &ItemConst{Attrs: attrs, Vis: vis, Ident: name.Text}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	if c.Type, err = p.ParseType(); err != nil {
		return nil, err
	}
	if p.eat("=") {
		if c.Expr, err = p.ParseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	c.Pos = start.Join(p.lastSpan())
	return c, nil
}

func (p *Parser) parseImpl(attrs []*Attribute, start token.Span) (Item, error) {
	p.Next()
	if err := p.skipGenerics(); err != nil {
		return nil, err
	}
	p.eat("!")
	first, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	impl := &ItemImpl{Attrs: attrs, SelfType: first}
	if p.eat("for") {
		if tp, ok := first.(*TypePath); ok {
			impl.Trait = tp.Path
		}
		if impl.SelfType, err = p.ParseType(); err != nil {
			return nil, err
		}
	}
	p.skipWhere()
	body, err := p.expectGroup(token.Brace)
	if err != nil {
		return nil, err
	}
	b := sub(body)
	if impl.InnerAttrs, err = b.parseInnerAttrs(); err != nil {
		return nil, err
	}
	for !b.EOF() {
		item, err := b.parseImplItem()
		if err != nil {
			return nil, err
		}
		if item != nil {
			impl.Items = append(impl.Items, item)
		}
	}
	impl.Pos = start.Join(body.Span)
	return impl, nil
}

func (p *Parser) parseImplItem() (ImplItem, error) {
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}
	start := p.currentSpan()
	if p.eat(";") {
		return nil, nil
	}
	p.parseVisibility()
	for p.is("unsafe") || p.is("async") || p.is("default") || p.is("extern") || (p.is("const") && (p.isN(1, "fn") || p.isN(1, "unsafe") || p.isN(1, "async"))) {
		p.Next()
		if t := p.Peek(); t != nil && t.Kind == token.Literal {
			p.Next()
		}
	}
	switch {
	case p.is("const"):
		p.Next()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		c := &ImplItemConst{Attrs: attrs, Ident: name.Text}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		if c.Type, err = p.ParseType(); err != nil {
			return nil, err
		}
		if p.eat("=") {
			if c.Expr, err = p.ParseExpr(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		c.Pos = start.Join(p.lastSpan())
		return c, nil
	case p.is("type"):
		p.Next()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.skipGenerics(); err != nil {
			return nil, err
		}
		if _, err := p.expect("="); err != nil {
			return nil, err
		}
		ty, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ImplItemType{Attrs: attrs, Ident: name.Text, Type: ty, Pos: start.Join(p.lastSpan())}, nil
	case p.is("fn"):
		p.Next()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		tokens := p.skipToBody()
		return &ImplItemFn{Attrs: attrs, Ident: name.Text, Tokens: tokens, Pos: start.Join(p.lastSpan())}, nil
	}
	var tokens token.Stream
	for !p.EOF() {
		t := p.Next()
		tokens = append(tokens, *t)
		if t.Is(";") || t.IsGroup(token.Brace) {
			break
		}
	}
	p.eat(";")
	return &ImplItemOther{Attrs: attrs, Tokens: tokens, Pos: start.Join(p.lastSpan())}, nil
}

// skipToBody consumes tokens up to and including a brace body or `;`.
func (p *Parser) skipToBody() token.Stream {
	var tokens token.Stream
	for !p.EOF() {
		t := p.Next()
		tokens = append(tokens, *t)
		if t.Is(";") || t.IsGroup(token.Brace) {
			break
		}
	}
	return tokens
}

func (p *Parser) parseOther(attrs []*Attribute, vis Visibility, start token.Span, kind string) (Item, error) {
	var tokens token.Stream
	ident := ""
	for {
		t := p.Next()
		if t == nil {
			return nil, errors.Compile(start, "expected `;` to end %s item", kind)
		}
		if t.Is(";") {
			break
		}
		if ident == "" && t.Kind == token.Ident && len(tokens) > 0 && !t.Is("mut") && !t.Is("crate") {
			ident = t.Text
		}
		tokens = append(tokens, *t)
	}
	return &ItemOther{Attrs: attrs, Vis: vis, Kind: kind, Ident: ident, Tokens: tokens, Pos: start.Join(p.lastSpan())}, nil
}

func (p *Parser) parseBodied(attrs []*Attribute, vis Visibility, start token.Span, kind string) (Item, error) {
	p.Next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	tokens := p.skipToBody()
	if len(tokens) == 0 {
		return nil, errors.Compile(name.Span, "expected body for %s %s", kind, name.Text)
	}
	return &ItemOther{Attrs: attrs, Vis: vis, Kind: kind, Ident: name.Text, Tokens: tokens, Pos: start.Join(p.lastSpan())}, nil
}

func (p *Parser) parseMacroItem(attrs []*Attribute, start token.Span) (Item, error) {
	path, err := p.parseModPath()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("!"); err != nil {
		return nil, err
	}
	body := p.Next()
	if body == nil || body.Kind != token.Group {
		return nil, errors.Compile(path.Span, "expected macro arguments after %s!", path.String())
	}
	if !body.IsGroup(token.Brace) {
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
	}
	return &ItemMacro{Attrs: attrs, Path: path, Tokens: token.Stream{*body}, Pos: start.Join(p.lastSpan())}, nil
}
