package attributes

import (
	"sort"
	"strings"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/meta"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/token"
)

// Directive is the single directive carried by a codama attribute.
type Directive interface {
	// Keyword is the keyword that introduced the directive.
	Keyword() string
	Span() token.Span
}

type base struct {
	span token.Span
}

func (b base) Span() token.Span { return b.span }

type (
	// TypeDirective is `type = <type>`.
	TypeDirective struct {
		base
		Node nodes.RegisteredTypeNode
	}
	// NodeDirective is `node(<node>)`.
	NodeDirective struct {
		base
		Node nodes.Node
	}
	// NameDirective is `name = "new_name"`.
	NameDirective struct {
		base
		Name nodes.CamelCaseString
	}
	// EncodingDirective is `encoding = base58`.
	EncodingDirective struct {
		base
		Encoding nodes.BytesEncoding
	}
	// FixedSizeDirective is `fixed_size = 32`.
	FixedSizeDirective struct {
		base
		Size uint64
	}
	// SizePrefixDirective is `size_prefix = number(u16)`.
	SizePrefixDirective struct {
		base
		Prefix nodes.NestedTypeNode[*nodes.NumberTypeNode]
	}
	// AccountDirective describes an instruction account, either on a field
	// of an instruction struct or on the instruction itself.
	AccountDirective struct {
		base
		Name         nodes.CamelCaseString
		IsWritable   bool
		IsSigner     nodes.IsSigner
		IsOptional   bool
		Docs         []string
		DefaultValue nodes.InstructionInputValueNode
	}
	// ArgumentDirective adds an instruction argument.
	ArgumentDirective struct {
		base
		Name                 nodes.CamelCaseString
		Type                 nodes.TypeNode
		DefaultValue         nodes.InstructionInputValueNode
		DefaultValueStrategy nodes.DefaultValueStrategy
		Docs                 []string
	}
	// DefaultValueDirective is `default_value = <value>`.
	DefaultValueDirective struct {
		base
		Node    nodes.InstructionInputValueNode
		Omitted bool
	}
	// ErrorDirective is `error(code, message)`. Either part may be absent.
	ErrorDirective struct {
		base
		Code    *uint64
		Message string
	}
	// DiscriminatorDirective is `discriminator(size = 8)` and its siblings.
	DiscriminatorDirective struct {
		base
		Node nodes.DiscriminatorNode
	}
	// EnumDiscriminatorDirective names and sizes the discriminator of an
	// enum, `enum_discriminator(name = "kind", size = number(u32))`.
	EnumDiscriminatorDirective struct {
		base
		Name nodes.CamelCaseString
		Size nodes.NestedTypeNode[*nodes.NumberTypeNode]
	}
	// SeedDirective is one seed of the PDA of an account.
	SeedDirective struct {
		base
		Kind  SeedKind
		Name  nodes.CamelCaseString
		Type  nodes.TypeNode
		Value nodes.ValueNode
	}
)

func (*TypeDirective) Keyword() string              { return "type" }
func (*NodeDirective) Keyword() string              { return "node" }
func (*NameDirective) Keyword() string              { return "name" }
func (*EncodingDirective) Keyword() string          { return "encoding" }
func (*FixedSizeDirective) Keyword() string         { return "fixed_size" }
func (*SizePrefixDirective) Keyword() string        { return "size_prefix" }
func (*AccountDirective) Keyword() string           { return "account" }
func (*ArgumentDirective) Keyword() string          { return "argument" }
func (*DefaultValueDirective) Keyword() string      { return "default_value" }
func (*ErrorDirective) Keyword() string             { return "error" }
func (*DiscriminatorDirective) Keyword() string     { return "discriminator" }
func (*EnumDiscriminatorDirective) Keyword() string { return "enum_discriminator" }
func (*SeedDirective) Keyword() string              { return "seed" }

// SeedKind is the shape of a seed directive.
type SeedKind int

const (
	// SeedVariable is a named seed of a given type provided by callers.
	SeedVariable SeedKind = iota
	// SeedConstant is a typed constant seed.
	SeedConstant
	// SeedLinked refers to a field of the account by name.
	SeedLinked
)

// TypeNode returns the overriding type of a type or node directive.
func TypeNode(d Directive) (nodes.RegisteredTypeNode, bool) {
	switch d := d.(type) {
	case *TypeDirective:
		return d.Node, true
	case *NodeDirective:
		t, err := nodes.ToRegisteredTypeNode(d.Node)
		return t, err == nil
	}
	return nil, false
}

type directiveParser func(m meta.Meta) (Directive, error)

var directiveParsers map[string]directiveParser

func init() {
	directiveParsers = map[string]directiveParser{
		"type":               parseTypeDirective,
		"node":               parseNodeDirective,
		"name":               parseNameDirective,
		"encoding":           parseEncodingDirective,
		"fixed_size":         parseFixedSizeDirective,
		"size_prefix":        parseSizePrefixDirective,
		"account":            parseAccountDirective,
		"argument":           parseArgumentDirective,
		"default_value":      parseDefaultValueDirective,
		"error":              parseErrorDirective,
		"discriminator":      parseDiscriminatorDirective,
		"enum_discriminator": parseEnumDiscriminatorDirective,
		"seed":               parseSeedDirective,
	}
}

// DirectiveNames returns every recognized directive keyword, sorted.
func DirectiveNames() []string {
	out := make([]string, 0, len(directiveParsers))
	for name := range directiveParsers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseDirective parses the single item inside `codama(..)`. Recognition is
// keyed by the leading path; unknown keywords fail at the path span.
func ParseDirective(m meta.Meta) (Directive, error) {
	path := meta.PathOf(m)
	if path == nil {
		return nil, errors.Compile(m.Span(), "expected a directive, found %s", meta.Describe(m))
	}
	parse, ok := directiveParsers[path.String()]
	if !ok {
		return nil, errors.Compile(path.Span, "unrecognized codama directive `%s`, expected one of %s", path, strings.Join(DirectiveNames(), ", "))
	}
	return parse(m)
}

func parseTypeDirective(m meta.Meta) (Directive, error) {
	pv, err := meta.AsPathValue(m)
	if err != nil {
		return nil, err
	}
	t, err := ParseRegisteredType(pv.Value)
	if err != nil {
		return nil, err
	}
	return &TypeDirective{base: base{m.Span()}, Node: t}, nil
}

func parseNodeDirective(m meta.Meta) (Directive, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	if len(items) != 1 {
		return nil, errors.Compile(m.Span(), "expected a single node inside `node(..)`")
	}
	n, err := ParseNode(items[0])
	if err != nil {
		return nil, err
	}
	return &NodeDirective{base: base{m.Span()}, Node: n}, nil
}

func parseNameDirective(m meta.Meta) (Directive, error) {
	pv, err := meta.AsPathValue(m)
	if err != nil {
		return nil, err
	}
	name, err := meta.String(pv.Value)
	if err != nil {
		return nil, err
	}
	return &NameDirective{base: base{m.Span()}, Name: nodes.Camel(name)}, nil
}

func parseEncodingDirective(m meta.Meta) (Directive, error) {
	pv, err := meta.AsPathValue(m)
	if err != nil {
		return nil, err
	}
	enc, err := parseEncoding(pv.Value)
	if err != nil {
		return nil, err
	}
	return &EncodingDirective{base: base{m.Span()}, Encoding: enc}, nil
}

func parseFixedSizeDirective(m meta.Meta) (Directive, error) {
	pv, err := meta.AsPathValue(m)
	if err != nil {
		return nil, err
	}
	size, err := meta.Int[uint64](pv.Value)
	if err != nil {
		return nil, err
	}
	return &FixedSizeDirective{base: base{m.Span()}, Size: size}, nil
}

func parseSizePrefixDirective(m meta.Meta) (Directive, error) {
	pv, err := meta.AsPathValue(m)
	if err != nil {
		return nil, err
	}
	prefix, err := parseNestedNumber(pv.Value)
	if err != nil {
		return nil, err
	}
	return &SizePrefixDirective{base: base{m.Span()}, Prefix: prefix}, nil
}

func parseAccountDirective(m meta.Meta) (Directive, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	name := NewSetOnce[string]("name")
	writable := NewSetOnce[bool]("writable")
	signer := NewSetOnce[nodes.IsSigner]("signer")
	optional := NewSetOnce[bool]("optional")
	docs := NewSetOnce[[]string]("docs")
	def := NewSetOnce[nodes.InstructionInputValueNode]("default_value")
	var errs errors.List
	for _, item := range items {
		switch {
		case meta.Is(item, "name"):
			errs.Add(setString(name, item))
		case meta.Is(item, "writable"):
			errs.Add(setFlag(writable, item))
		case meta.Is(item, "optional"):
			errs.Add(setFlag(optional, item))
		case meta.Is(item, "signer"):
			s, err := parseSigner(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(signer.Set(s, item.Span()))
		case meta.Is(item, "docs"):
			d, err := parseDocs(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(docs.Set(d, item.Span()))
		case meta.Is(item, "default_value"):
			v, err := parseDefaultValue(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(def.Set(v, item.Span()))
		default:
			errs.Add(unexpectedArgument(item, "account"))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &AccountDirective{
		base:         base{m.Span()},
		Name:         nodes.Camel(name.Or("")),
		IsWritable:   writable.Or(false),
		IsSigner:     signer.Or(nodes.SignerFalse),
		IsOptional:   optional.Or(false),
		Docs:         docs.Or(nil),
		DefaultValue: def.Or(nil),
	}, nil
}

func parseArgumentDirective(m meta.Meta) (Directive, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	name := NewSetOnce[string]("name")
	typ := NewSetOnce[nodes.TypeNode]("type")
	docs := NewSetOnce[[]string]("docs")
	def := NewSetOnce[nodes.InstructionInputValueNode]("default_value")
	omitted := NewSetOnce[bool]("default_value_omitted")
	var errs errors.List
	for i, item := range items {
		switch {
		case i == 0 && isStringLiteral(item), meta.Is(item, "name"):
			errs.Add(setString(name, item))
		case meta.Is(item, "type"):
			pv, err := meta.AsPathValue(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			t, err := ParseType(pv.Value)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(typ.Set(t, item.Span()))
		case meta.Is(item, "docs"):
			d, err := parseDocs(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(docs.Set(d, item.Span()))
		case meta.Is(item, "default_value"):
			v, err := parseDefaultValue(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(def.Set(v, item.Span()))
		case meta.Is(item, "default_value_omitted"):
			errs.Add(omitted.Set(true, item.Span()))
		default:
			t, err := ParseType(item)
			if err != nil {
				errs.Add(unexpectedArgument(item, "argument"))
				continue
			}
			errs.Add(typ.Set(t, item.Span()))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	n, err := name.Take(m.Span())
	if err != nil {
		return nil, err
	}
	t, err := typ.Take(m.Span())
	if err != nil {
		return nil, err
	}
	d := &ArgumentDirective{
		base:         base{m.Span()},
		Name:         nodes.Camel(n),
		Type:         t,
		Docs:         docs.Or(nil),
		DefaultValue: def.Or(nil),
	}
	if omitted.Or(false) {
		if d.DefaultValue == nil {
			return nil, errors.Compile(omitted.Span(), "`default_value_omitted` requires a `default_value`")
		}
		d.DefaultValueStrategy = nodes.DefaultValueOmitted
	}
	return d, nil
}

func parseDefaultValueDirective(m meta.Meta) (Directive, error) {
	v, err := parseDefaultValue(m)
	if err != nil {
		return nil, err
	}
	return &DefaultValueDirective{base: base{m.Span()}, Node: v}, nil
}

func parseDefaultValue(m meta.Meta) (nodes.InstructionInputValueNode, error) {
	pv, err := meta.AsPathValue(m)
	if err != nil {
		return nil, err
	}
	return ParseInputValue(pv.Value)
}

func parseErrorDirective(m meta.Meta) (Directive, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	code := NewSetOnce[uint64]("code")
	message := NewSetOnce[string]("message")
	var errs errors.List
	for _, item := range items {
		switch {
		case meta.Is(item, "code"), isIntLiteral(item):
			c, err := meta.Int[uint64](meta.ValueOf(item))
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(code.Set(c, item.Span()))
		case meta.Is(item, "message"), isStringLiteral(item):
			errs.Add(setString(message, item))
		default:
			errs.Add(unexpectedArgument(item, "error"))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	d := &ErrorDirective{base: base{m.Span()}, Message: message.Or("")}
	if c, ok := code.Get(); ok {
		d.Code = &c
	}
	return d, nil
}

func parseDiscriminatorDirective(m meta.Meta) (Directive, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	kind := NewSetOnce[string]("discriminator kind")
	offset := NewSetOnce[uint64]("offset")
	encoding := NewSetOnce[nodes.BytesEncoding]("encoding")
	var size uint64
	var field string
	var bytes meta.Meta
	var errs errors.List
	for _, item := range items {
		switch {
		case meta.Is(item, "size"):
			if err := kind.Set("size", item.Span()); err != nil {
				errs.Add(errors.Compile(item.Span(), "discriminator kind is already set to `%s`", kind.Or("")))
				continue
			}
			size, err = meta.Int[uint64](meta.ValueOf(item))
			errs.Add(err)
		case meta.Is(item, "field"):
			if err := kind.Set("field", item.Span()); err != nil {
				errs.Add(errors.Compile(item.Span(), "discriminator kind is already set to `%s`", kind.Or("")))
				continue
			}
			field, err = meta.String(meta.ValueOf(item))
			errs.Add(err)
		case meta.Is(item, "bytes"):
			if err := kind.Set("bytes", item.Span()); err != nil {
				errs.Add(errors.Compile(item.Span(), "discriminator kind is already set to `%s`", kind.Or("")))
				continue
			}
			bytes = meta.ValueOf(item)
		case meta.Is(item, "offset"):
			o, err := meta.Int[uint64](meta.ValueOf(item))
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(offset.Set(o, item.Span()))
		case meta.Is(item, "encoding"):
			enc, err := parseEncoding(meta.ValueOf(item))
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(encoding.Set(enc, item.Span()))
		default:
			errs.Add(unexpectedArgument(item, "discriminator"))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	k, err := kind.Take(m.Span())
	if err != nil {
		return nil, errors.Compile(m.Span(), "discriminator must set one of `size`, `field` or `bytes`")
	}
	if encoding.IsSet() && k != "bytes" {
		return nil, errors.Compile(encoding.Span(), "`encoding` is only allowed with `bytes`")
	}
	d := &DiscriminatorDirective{base: base{m.Span()}}
	switch k {
	case "size":
		if offset.IsSet() {
			return nil, errors.Compile(offset.Span(), "`offset` is not allowed with `size`")
		}
		d.Node = &nodes.SizeDiscriminatorNode{Size: size}
	case "field":
		d.Node = &nodes.FieldDiscriminatorNode{Name: nodes.Camel(field), Offset: offset.Or(0)}
	case "bytes":
		value, err := parseBytes(bytes, encoding.Or(nodes.UTF8))
		if err != nil {
			return nil, err
		}
		d.Node = &nodes.ConstantDiscriminatorNode{
			Offset:   offset.Or(0),
			Constant: &nodes.ConstantValueNode{Type: &nodes.BytesTypeNode{}, Value: value},
		}
	}
	return d, nil
}

func parseEnumDiscriminatorDirective(m meta.Meta) (Directive, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	name := NewSetOnce[string]("name")
	size := NewSetOnce[nodes.NestedTypeNode[*nodes.NumberTypeNode]]("size")
	var errs errors.List
	for _, item := range items {
		switch {
		case meta.Is(item, "name"):
			errs.Add(setString(name, item))
		case meta.Is(item, "size"):
			pv, err := meta.AsPathValue(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			n, err := parseNestedNumber(pv.Value)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(size.Set(n, item.Span()))
		default:
			errs.Add(unexpectedArgument(item, "enum_discriminator"))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if !name.IsSet() && !size.IsSet() {
		return nil, errors.Compile(m.Span(), "enum_discriminator must set `name` or `size`")
	}
	return &EnumDiscriminatorDirective{
		base: base{m.Span()},
		Name: nodes.Camel(name.Or("")),
		Size: size.Or(nodes.NestedTypeNode[*nodes.NumberTypeNode]{}),
	}, nil
}

func parseSeedDirective(m meta.Meta) (Directive, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	name := NewSetOnce[string]("name")
	typ := NewSetOnce[nodes.TypeNode]("type")
	value := NewSetOnce[nodes.ValueNode]("value")
	var errs errors.List
	for _, item := range items {
		switch {
		case meta.Is(item, "name"):
			errs.Add(setString(name, item))
		case meta.Is(item, "type"):
			pv, err := meta.AsPathValue(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			t, err := ParseType(pv.Value)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(typ.Set(t, item.Span()))
		case meta.Is(item, "value"):
			pv, err := meta.AsPathValue(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			v, err := ParseValue(pv.Value)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(value.Set(v, item.Span()))
		default:
			errs.Add(unexpectedArgument(item, "seed"))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	d := &SeedDirective{base: base{m.Span()}}
	switch {
	case name.IsSet() && typ.IsSet() && !value.IsSet():
		d.Kind = SeedVariable
		d.Name = nodes.Camel(name.Or(""))
		d.Type = typ.Or(nil)
	case !name.IsSet() && typ.IsSet() && value.IsSet():
		d.Kind = SeedConstant
		d.Type = typ.Or(nil)
		d.Value = value.Or(nil)
	case name.IsSet() && !typ.IsSet() && !value.IsSet():
		d.Kind = SeedLinked
		d.Name = nodes.Camel(name.Or(""))
	case name.IsSet() && value.IsSet():
		return nil, errors.Compile(value.Span(), "seed `value` is not allowed with `name`")
	case value.IsSet():
		return nil, errors.Compile(m.Span(), "constant seed requires a `type`")
	default:
		return nil, errors.Compile(m.Span(), "seed requires `name`, or both `type` and `value`")
	}
	return d, nil
}

func listOf(m meta.Meta) ([]meta.Meta, error) {
	pl, err := meta.AsPathList(m)
	if err != nil {
		return nil, err
	}
	return pl.Items, nil
}

func setString(slot *SetOnce[string], item meta.Meta) error {
	s, err := meta.String(meta.ValueOf(item))
	if err != nil {
		return err
	}
	return slot.Set(s, item.Span())
}

// setFlag accepts both `flag` and `flag = bool`.
func setFlag(slot *SetOnce[bool], item meta.Meta) error {
	if _, ok := item.(*meta.PathMeta); ok {
		return slot.Set(true, item.Span())
	}
	b, err := meta.Bool(meta.ValueOf(item))
	if err != nil {
		return err
	}
	return slot.Set(b, item.Span())
}

func parseSigner(item meta.Meta) (nodes.IsSigner, error) {
	if _, ok := item.(*meta.PathMeta); ok {
		return nodes.SignerTrue, nil
	}
	value := meta.ValueOf(item)
	if s, err := meta.String(value); err == nil {
		if s != "either" {
			return 0, errors.Compile(value.Span(), "expected `true`, `false` or \"either\", found %q", s)
		}
		return nodes.SignerEither, nil
	}
	b, err := meta.Bool(value)
	if err != nil {
		return 0, errors.Compile(value.Span(), "expected `true`, `false` or \"either\"")
	}
	if b {
		return nodes.SignerTrue, nil
	}
	return nodes.SignerFalse, nil
}

func parseDocs(item meta.Meta) ([]string, error) {
	value := meta.ValueOf(item)
	if s, err := meta.String(value); err == nil {
		return []string{s}, nil
	}
	elems, err := meta.AsList(value)
	if err != nil {
		return nil, errors.Compile(value.Span(), "expected a string or a list of strings")
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		s, err := meta.String(e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseEncoding(m meta.Meta) (nodes.BytesEncoding, error) {
	id, span, err := meta.AsIdent(m)
	if err != nil {
		return "", err
	}
	enc, ok := nodes.ParseBytesEncoding(id)
	if !ok {
		return "", errors.Compile(span, "invalid encoding `%s`, expected one of base16, base58, base64, utf8", id)
	}
	return enc, nil
}

func unexpectedArgument(item meta.Meta, directive string) error {
	return errors.Compile(item.Span(), "unexpected argument %s in `%s` directive", meta.Describe(item), directive)
}

func isStringLiteral(m meta.Meta) bool {
	_, err := meta.String(m)
	return err == nil
}

func isIntLiteral(m meta.Meta) bool {
	_, err := meta.Int[uint64](m)
	return err == nil
}
