package attributes

import (
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/meta"
	"github.com/calumari/codama/nodes"
)

// ParseType parses a type expression such as `number(u32, be)` or
// `struct(field("age", number(u8)))`.
func ParseType(m meta.Meta) (nodes.TypeNode, error) {
	return parseTypeAs(meta.Name(m), m)
}

// ParseRegisteredType parses a type expression or a standalone
// `field(name, type)`.
func ParseRegisteredType(m meta.Meta) (nodes.RegisteredTypeNode, error) {
	return parseRegisteredTypeAs(meta.Name(m), m)
}

func parseRegisteredTypeAs(keyword string, m meta.Meta) (nodes.RegisteredTypeNode, error) {
	keyword, _ = trimSuffix(keyword, "_type")
	if keyword == "field" || keyword == "struct_field" {
		return parseField(m)
	}
	return parseTypeAs(keyword, m)
}

func parseTypeAs(keyword string, m meta.Meta) (nodes.TypeNode, error) {
	keyword, _ = trimSuffix(keyword, "_type")
	_, isPath := m.(*meta.PathMeta)
	items, _ := meta.AsList(m)
	switch keyword {
	case "boolean":
		if isPath {
			return nodes.Boolean(), nil
		}
		size, err := singleNumber(m, items)
		if err != nil {
			return nil, err
		}
		return &nodes.BooleanTypeNode{Size: size}, nil
	case "number":
		if isPath {
			return nil, errors.Compile(m.Span(), "`number` requires a format, e.g. `number(u64)`")
		}
		return parseNumber(m, items)
	case "public_key":
		if !isPath {
			return nil, errors.Compile(m.Span(), "`public_key` takes no arguments")
		}
		return &nodes.PublicKeyTypeNode{}, nil
	case "bytes":
		if !isPath {
			return nil, errors.Compile(m.Span(), "`bytes` takes no arguments")
		}
		return &nodes.BytesTypeNode{}, nil
	case "string":
		return parseString(m, isPath, items)
	case "struct":
		return parseStruct(items)
	case "tuple":
		return parseTuple(items)
	case "enum":
		return parseEnum(m, items)
	case "option":
		return parseOption(m, items)
	case "array", "set":
		return parseCollection(keyword, m, items)
	case "map":
		return parseMap(m, items)
	case "fixed_size":
		return parseFixedSize(m, items)
	case "size_prefix":
		return parseSizePrefix(m, items)
	case "link", "defined_type_link":
		if len(items) != 1 {
			return nil, errors.Compile(m.Span(), "expected `%s(\"name\")`", keyword)
		}
		name, err := meta.String(items[0])
		if err != nil {
			return nil, err
		}
		return nodes.DefinedTypeLink(name), nil
	case "":
		return nil, errors.Compile(m.Span(), "expected a type, found %s", meta.Describe(m))
	}
	return nil, errors.Compile(m.Span(), "unrecognized type `%s`", keyword)
}

// parseNumber accepts the format and endianness in any order, positionally
// or as `format = ..` and `endian = ..`. Endianness defaults to little.
func parseNumber(m meta.Meta, items []meta.Meta) (*nodes.NumberTypeNode, error) {
	format := NewSetOnce[nodes.NumberFormat]("format")
	endian := NewSetOnce[nodes.Endian]("endian")
	var errs errors.List
	for _, item := range items {
		id, span, err := meta.AsIdent(meta.ValueOf(item))
		if err != nil {
			errs.Add(err)
			continue
		}
		f, isFormat := nodes.ParseNumberFormat(id)
		e, isEndian := nodes.ParseEndian(id)
		switch {
		case meta.Is(item, "format") || (isFormat && !meta.Is(item, "endian")):
			if !isFormat {
				errs.Add(errors.Compile(span, "invalid number format `%s`", id))
				continue
			}
			errs.Add(format.Set(f, item.Span()))
		case meta.Is(item, "endian") || isEndian:
			if !isEndian {
				errs.Add(errors.Compile(span, "invalid endianness `%s`, expected `le` or `be`", id))
				continue
			}
			errs.Add(endian.Set(e, item.Span()))
		default:
			errs.Add(errors.Compile(span, "expected a number format or an endianness, found `%s`", id))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	f, err := format.Take(m.Span())
	if err != nil {
		return nil, err
	}
	return &nodes.NumberTypeNode{Format: f, Endian: endian.Or(nodes.LittleEndian)}, nil
}

func parseNestedNumber(m meta.Meta) (nodes.NestedTypeNode[*nodes.NumberTypeNode], error) {
	t, err := ParseType(m)
	if err != nil {
		return nodes.NestedTypeNode[*nodes.NumberTypeNode]{}, err
	}
	n, err := nodes.AsNested[*nodes.NumberTypeNode](t)
	if err != nil {
		return n, errors.Compile(m.Span(), "expected a number type, found %s", meta.Describe(m))
	}
	return n, nil
}

func singleNumber(m meta.Meta, items []meta.Meta) (nodes.NestedTypeNode[*nodes.NumberTypeNode], error) {
	if len(items) != 1 {
		return nodes.NestedTypeNode[*nodes.NumberTypeNode]{}, errors.Compile(m.Span(), "expected a single number type")
	}
	return parseNestedNumber(items[0])
}

func parseString(m meta.Meta, isPath bool, items []meta.Meta) (nodes.TypeNode, error) {
	if isPath {
		return nodes.String(nodes.UTF8), nil
	}
	if len(items) != 1 {
		return nil, errors.Compile(m.Span(), "expected `string(encoding)`")
	}
	enc, err := parseEncoding(meta.ValueOf(items[0]))
	if err != nil {
		return nil, err
	}
	return nodes.String(enc), nil
}

func parseStruct(items []meta.Meta) (nodes.TypeNode, error) {
	s := &nodes.StructTypeNode{}
	var errs errors.List
	for _, item := range items {
		f, err := parseField(item)
		if err != nil {
			errs.Add(err)
			continue
		}
		s.Fields = append(s.Fields, f)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// parseField parses `field("name", type[, default_value = V][,
// default_value_omitted][, docs = ..])`.
func parseField(m meta.Meta) (*nodes.StructFieldTypeNode, error) {
	if keyword, _ := trimSuffix(meta.Name(m), "_type"); keyword != "field" && keyword != "struct_field" {
		return nil, errors.Compile(m.Span(), "expected `field(..)`, found %s", meta.Describe(m))
	}
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	name := NewSetOnce[string]("name")
	typ := NewSetOnce[nodes.TypeNode]("type")
	def := NewSetOnce[nodes.ValueNode]("default_value")
	omitted := NewSetOnce[bool]("default_value_omitted")
	docs := NewSetOnce[[]string]("docs")
	var errs errors.List
	for i, item := range items {
		switch {
		case (i == 0 && isStringLiteral(item)) || meta.Is(item, "name"):
			errs.Add(setString(name, item))
		case meta.Is(item, "default_value"):
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
			errs.Add(def.Set(v, item.Span()))
		case meta.Is(item, "default_value_omitted"):
			errs.Add(omitted.Set(true, item.Span()))
		case meta.Is(item, "docs"):
			d, err := parseDocs(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(docs.Set(d, item.Span()))
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
		default:
			t, err := ParseType(item)
			if err != nil {
				errs.Add(err)
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
	f := &nodes.StructFieldTypeNode{Name: nodes.Camel(n), Type: t, Docs: docs.Or(nil), DefaultValue: def.Or(nil)}
	if omitted.Or(false) {
		if f.DefaultValue == nil {
			return nil, errors.Compile(omitted.Span(), "`default_value_omitted` requires a `default_value`")
		}
		f.DefaultValueStrategy = nodes.DefaultValueOmitted
	}
	return f, nil
}

func parseTuple(items []meta.Meta) (nodes.TypeNode, error) {
	t := &nodes.TupleTypeNode{}
	var errs errors.List
	for _, item := range items {
		it, err := ParseType(item)
		if err != nil {
			errs.Add(err)
			continue
		}
		t.Items = append(t.Items, it)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// parseEnum parses `enum(variant(..)*[, size = number(..)])`.
func parseEnum(m meta.Meta, items []meta.Meta) (nodes.TypeNode, error) {
	e := nodes.Enum()
	size := NewSetOnce[nodes.NestedTypeNode[*nodes.NumberTypeNode]]("size")
	var errs errors.List
	for _, item := range items {
		if meta.Is(item, "size") {
			n, err := parseNestedNumber(meta.ValueOf(item))
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(size.Set(n, item.Span()))
			continue
		}
		v, err := parseVariant(item)
		if err != nil {
			errs.Add(err)
			continue
		}
		e.Variants = append(e.Variants, v)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if len(e.Variants) == 0 {
		return nil, errors.Compile(m.Span(), "an enum requires at least one variant")
	}
	e.Size = size.Or(e.Size)
	return e, nil
}

// parseVariant parses `variant("name"[, struct(..) | tuple(..)][,
// discriminator = N])`.
func parseVariant(m meta.Meta) (nodes.EnumVariantTypeNode, error) {
	if !meta.Is(m, "variant") {
		return nil, errors.Compile(m.Span(), "expected `variant(..)`, found %s", meta.Describe(m))
	}
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	name := NewSetOnce[string]("name")
	disc := NewSetOnce[uint64]("discriminator")
	body := NewSetOnce[nodes.TypeNode]("variant body")
	var errs errors.List
	for i, item := range items {
		switch {
		case (i == 0 && isStringLiteral(item)) || meta.Is(item, "name"):
			errs.Add(setString(name, item))
		case meta.Is(item, "discriminator"):
			d, err := meta.Int[uint64](meta.ValueOf(item))
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(disc.Set(d, item.Span()))
		default:
			t, err := ParseType(item)
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(body.Set(t, item.Span()))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	n, err := name.Take(m.Span())
	if err != nil {
		return nil, err
	}
	var discriminator *uint64
	if d, ok := disc.Get(); ok {
		discriminator = &d
	}
	t, ok := body.Get()
	if !ok {
		return &nodes.EnumEmptyVariantTypeNode{Name: nodes.Camel(n), Discriminator: discriminator}, nil
	}
	if s, err := nodes.AsNested[*nodes.StructTypeNode](t); err == nil {
		return &nodes.EnumStructVariantTypeNode{Name: nodes.Camel(n), Discriminator: discriminator, Struct: s}, nil
	}
	if tu, err := nodes.AsNested[*nodes.TupleTypeNode](t); err == nil {
		return &nodes.EnumTupleVariantTypeNode{Name: nodes.Camel(n), Discriminator: discriminator, Tuple: tu}, nil
	}
	return nil, errors.Compile(body.Span(), "a variant body must be a struct or a tuple")
}

// parseOption parses `option(item[, prefix = number(..)][, fixed])`.
func parseOption(m meta.Meta, items []meta.Meta) (nodes.TypeNode, error) {
	if len(items) == 0 {
		return nil, errors.Compile(m.Span(), "`option` requires an item type")
	}
	item, err := ParseType(items[0])
	if err != nil {
		return nil, err
	}
	o := nodes.Option(item)
	fixed := NewSetOnce[bool]("fixed")
	prefix := NewSetOnce[nodes.NestedTypeNode[*nodes.NumberTypeNode]]("prefix")
	var errs errors.List
	for _, it := range items[1:] {
		switch {
		case meta.Is(it, "fixed"):
			errs.Add(setFlag(fixed, it))
		case meta.Is(it, "prefix"):
			n, err := parseNestedNumber(meta.ValueOf(it))
			if err != nil {
				errs.Add(err)
				continue
			}
			errs.Add(prefix.Set(n, it.Span()))
		default:
			errs.Add(unexpectedArgument(it, "option"))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	o.Fixed = fixed.Or(false)
	o.Prefix = prefix.Or(o.Prefix)
	return o, nil
}

func parseCollection(keyword string, m meta.Meta, items []meta.Meta) (nodes.TypeNode, error) {
	if len(items) == 0 || len(items) > 2 {
		return nil, errors.Compile(m.Span(), "expected `%s(item[, count])`", keyword)
	}
	item, err := ParseType(items[0])
	if err != nil {
		return nil, err
	}
	count := nodes.CountNode(nodes.Prefixed(nodes.LE(nodes.U32)))
	if len(items) == 2 {
		if count, err = parseCount(items[1]); err != nil {
			return nil, err
		}
	}
	if keyword == "set" {
		return &nodes.SetTypeNode{Item: item, Count: count}, nil
	}
	return &nodes.ArrayTypeNode{Item: item, Count: count}, nil
}

func parseMap(m meta.Meta, items []meta.Meta) (nodes.TypeNode, error) {
	if len(items) < 2 || len(items) > 3 {
		return nil, errors.Compile(m.Span(), "expected `map(key, value[, count])`")
	}
	key, err := ParseType(items[0])
	if err != nil {
		return nil, err
	}
	value, err := ParseType(items[1])
	if err != nil {
		return nil, err
	}
	count := nodes.CountNode(nodes.Prefixed(nodes.LE(nodes.U32)))
	if len(items) == 3 {
		if count, err = parseCount(items[2]); err != nil {
			return nil, err
		}
	}
	return &nodes.MapTypeNode{Key: key, Value: value, Count: count}, nil
}

// parseCount reads an integer as a fixed count, `remainder` as a remainder
// count and a number type as a prefixed count.
func parseCount(m meta.Meta) (nodes.CountNode, error) {
	if n, err := meta.Int[uint64](m); err == nil {
		return &nodes.FixedCountNode{Value: n}, nil
	}
	if meta.Is(m, "remainder") {
		return &nodes.RemainderCountNode{}, nil
	}
	target := m
	if meta.Is(m, "prefixed") {
		items, err := listOf(m)
		if err != nil || len(items) != 1 {
			return nil, errors.Compile(m.Span(), "expected `prefixed(number(..))`")
		}
		target = items[0]
	}
	prefix, err := parseNestedNumber(target)
	if err != nil {
		return nil, errors.Compile(m.Span(), "expected a count: an integer, `remainder` or a number type")
	}
	return &nodes.PrefixedCountNode{Prefix: prefix}, nil
}

func parseFixedSize(m meta.Meta, items []meta.Meta) (nodes.TypeNode, error) {
	if len(items) != 2 {
		return nil, errors.Compile(m.Span(), "expected `fixed_size(type, size)`")
	}
	t, err := ParseType(items[0])
	if err != nil {
		return nil, err
	}
	size, err := meta.Int[uint64](meta.ValueOf(items[1]))
	if err != nil {
		return nil, err
	}
	return &nodes.FixedSizeTypeNode{Type: t, Size: size}, nil
}

func parseSizePrefix(m meta.Meta, items []meta.Meta) (nodes.TypeNode, error) {
	if len(items) != 2 {
		return nil, errors.Compile(m.Span(), "expected `size_prefix(type, number(..))`")
	}
	t, err := ParseType(items[0])
	if err != nil {
		return nil, err
	}
	prefix, err := parseNestedNumber(meta.ValueOf(items[1]))
	if err != nil {
		return nil, err
	}
	return &nodes.SizePrefixTypeNode{Type: t, Prefix: prefix}, nil
}
