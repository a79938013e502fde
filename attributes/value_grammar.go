package attributes

import (
	"encoding/hex"
	"strings"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/meta"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/syntax"
)

// ParseValue parses a constant value: literals, arrays and value
// constructors such as `some(1)` or `public_key("..")`.
func ParseValue(m meta.Meta) (nodes.ValueNode, error) {
	return parseValueAs(meta.Name(m), m)
}

// ParseInputValue parses a value an instruction may default to: a constant
// value, a contextual value such as `payer` or `account("authority")`, or a
// program link.
func ParseInputValue(m meta.Meta) (nodes.InstructionInputValueNode, error) {
	return parseInputValueAs(meta.Name(m), m)
}

func parseInputValueAs(keyword string, m meta.Meta) (nodes.InstructionInputValueNode, error) {
	keyword, _ = trimSuffix(keyword, "_value")
	_, isPath := m.(*meta.PathMeta)
	switch keyword {
	case "payer":
		return &nodes.PayerValueNode{}, nil
	case "identity":
		return &nodes.IdentityValueNode{}, nil
	case "program_id":
		return &nodes.ProgramIdValueNode{}, nil
	case "account", "account_bump", "argument", "program", "resolver":
		if isPath {
			break
		}
		name, err := singleName(m, keyword)
		if err != nil {
			return nil, err
		}
		switch keyword {
		case "account":
			return &nodes.AccountValueNode{Name: name}, nil
		case "account_bump":
			return &nodes.AccountBumpValueNode{Name: name}, nil
		case "argument":
			return &nodes.ArgumentValueNode{Name: name}, nil
		case "program":
			return &nodes.ProgramLinkNode{Name: name}, nil
		}
		return &nodes.ResolverValueNode{Name: name}, nil
	case "pda":
		return parsePdaValue(m)
	}
	return parseValueAs(keyword, m)
}

func singleName(m meta.Meta, keyword string) (nodes.CamelCaseString, error) {
	items, err := listOf(m)
	if err != nil {
		return "", err
	}
	if len(items) != 1 {
		return "", errors.Compile(m.Span(), "expected `%s(\"name\")`", keyword)
	}
	s, err := meta.String(meta.ValueOf(items[0]))
	if err != nil {
		return "", err
	}
	return nodes.Camel(s), nil
}

// parsePdaValue parses `pda("name"[, [seed*]])` where each seed is
// `seed("name", value)`, `account("x")` or `argument("x")`.
func parsePdaValue(m meta.Meta) (nodes.InstructionInputValueNode, error) {
	items, err := listOf(m)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 || len(items) > 2 {
		return nil, errors.Compile(m.Span(), "expected `pda(\"name\"[, [seeds]])`")
	}
	name, err := meta.String(meta.ValueOf(items[0]))
	if err != nil {
		return nil, err
	}
	pda := &nodes.PdaValueNode{Pda: &nodes.PdaLinkNode{Name: nodes.Camel(name)}}
	if len(items) == 1 {
		return pda, nil
	}
	seeds, err := meta.AsList(meta.ValueOf(items[1]))
	if err != nil {
		return nil, err
	}
	var errs errors.List
	for _, s := range seeds {
		seed, err := parsePdaSeedValue(s)
		if err != nil {
			errs.Add(err)
			continue
		}
		pda.Seeds = append(pda.Seeds, seed)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return pda, nil
}

func parsePdaSeedValue(m meta.Meta) (*nodes.PdaSeedValueNode, error) {
	switch {
	case meta.Is(m, "account"), meta.Is(m, "argument"):
		v, err := ParseInputValue(m)
		if err != nil {
			return nil, err
		}
		name, _ := singleName(m, meta.Name(m))
		return &nodes.PdaSeedValueNode{Name: name, Value: v}, nil
	case meta.Is(m, "seed"):
		items, err := listOf(m)
		if err != nil {
			return nil, err
		}
		if len(items) != 2 {
			return nil, errors.Compile(m.Span(), "expected `seed(\"name\", value)`")
		}
		name, err := meta.String(meta.ValueOf(items[0]))
		if err != nil {
			return nil, err
		}
		v, err := ParseInputValue(meta.ValueOf(items[1]))
		if err != nil {
			return nil, err
		}
		return &nodes.PdaSeedValueNode{Name: nodes.Camel(name), Value: v}, nil
	}
	return nil, errors.Compile(m.Span(), "expected a pda seed value, found %s", meta.Describe(m))
}

func parseValueAs(keyword string, m meta.Meta) (nodes.ValueNode, error) {
	keyword, _ = trimSuffix(keyword, "_value")
	switch m := m.(type) {
	case *meta.ExprMeta:
		return literalValue(m.Expr)
	case *meta.PathList:
		if m.Path == nil {
			items, err := parseValues(m.Items)
			if err != nil {
				return nil, err
			}
			return &nodes.ArrayValueNode{Items: items}, nil
		}
	}
	items, _ := meta.AsList(m)
	switch keyword {
	case "none":
		return &nodes.NoneValueNode{}, nil
	case "some":
		if len(items) != 1 {
			return nil, errors.Compile(m.Span(), "expected `some(value)`")
		}
		v, err := ParseValue(items[0])
		if err != nil {
			return nil, err
		}
		return &nodes.SomeValueNode{Value: v}, nil
	case "number", "string", "boolean":
		if len(items) != 1 {
			return nil, errors.Compile(m.Span(), "expected `%s(value)`", keyword)
		}
		return ParseValue(items[0])
	case "public_key":
		if len(items) == 0 || len(items) > 2 {
			return nil, errors.Compile(m.Span(), "expected `public_key(\"address\"[, identifier])`")
		}
		key, err := meta.String(items[0])
		if err != nil {
			return nil, err
		}
		v := &nodes.PublicKeyValueNode{PublicKey: key}
		if len(items) == 2 {
			id, err := meta.String(meta.ValueOf(items[1]))
			if err != nil {
				return nil, err
			}
			v.Identifier = nodes.Camel(id)
		}
		return v, nil
	case "bytes":
		if len(items) == 0 || len(items) > 2 {
			return nil, errors.Compile(m.Span(), "expected `bytes(data[, encoding])`")
		}
		enc := nodes.UTF8
		if len(items) == 2 {
			e, err := parseEncoding(meta.ValueOf(items[1]))
			if err != nil {
				return nil, err
			}
			enc = e
		}
		return parseBytes(items[0], enc)
	case "array", "set", "tuple":
		values, err := parseValues(items)
		if err != nil {
			return nil, err
		}
		switch keyword {
		case "set":
			return &nodes.SetValueNode{Items: values}, nil
		case "tuple":
			return &nodes.TupleValueNode{Items: values}, nil
		}
		return &nodes.ArrayValueNode{Items: values}, nil
	case "struct":
		return parseStructValue(items)
	case "map":
		return parseMapValue(items)
	case "constant":
		if len(items) != 2 {
			return nil, errors.Compile(m.Span(), "expected `constant(type, value)`")
		}
		t, err := ParseType(items[0])
		if err != nil {
			return nil, err
		}
		v, err := ParseValue(items[1])
		if err != nil {
			return nil, err
		}
		return &nodes.ConstantValueNode{Type: t, Value: v}, nil
	case "enum":
		return parseEnumValue(m, items)
	case "":
		return nil, errors.Compile(m.Span(), "expected a value, found %s", meta.Describe(m))
	}
	return nil, errors.Compile(m.Span(), "unrecognized value `%s`", keyword)
}

func parseValues(items []meta.Meta) ([]nodes.ValueNode, error) {
	var out []nodes.ValueNode
	var errs errors.List
	for _, item := range items {
		v, err := ParseValue(item)
		if err != nil {
			errs.Add(err)
			continue
		}
		out = append(out, v)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func literalValue(e syntax.Expr) (nodes.ValueNode, error) {
	if u, ok := e.(*syntax.ExprUnary); ok && u.Op == "-" {
		if lit, ok := u.X.(*syntax.ExprLit); ok && lit.Kind == syntax.LitFloat {
			f, err := syntax.LitFloat64(e)
			if err != nil {
				return nil, err
			}
			return &nodes.NumberValueNode{Number: nodes.Float(f)}, nil
		}
		i, err := syntax.LitIntAs[int64](e)
		if err != nil {
			return nil, err
		}
		return &nodes.NumberValueNode{Number: nodes.Int(i)}, nil
	}
	lit, ok := e.(*syntax.ExprLit)
	if !ok {
		if arr, ok := e.(*syntax.ExprArray); ok {
			out := &nodes.ArrayValueNode{}
			for _, elem := range arr.Elems {
				v, err := literalValue(elem)
				if err != nil {
					return nil, err
				}
				out.Items = append(out.Items, v)
			}
			return out, nil
		}
		return nil, errors.Compile(e.Span(), "expected a literal value, found `%s`", syntax.ExprString(e))
	}
	switch lit.Kind {
	case syntax.LitInt:
		u, err := syntax.LitIntAs[uint64](lit)
		if err != nil {
			return nil, err
		}
		return &nodes.NumberValueNode{Number: nodes.Uint(u)}, nil
	case syntax.LitFloat:
		f, err := syntax.LitFloat64(lit)
		if err != nil {
			return nil, err
		}
		return &nodes.NumberValueNode{Number: nodes.Float(f)}, nil
	case syntax.LitStr:
		return &nodes.StringValueNode{String: lit.Value}, nil
	case syntax.LitBool:
		return &nodes.BooleanValueNode{Boolean: lit.Value == "true"}, nil
	case syntax.LitByteStr:
		return &nodes.BytesValueNode{Data: hex.EncodeToString([]byte(lit.Value)), Encoding: nodes.Base16}, nil
	}
	return nil, errors.Compile(lit.Pos, "unsupported %s literal", lit.Kind)
}

// parseBytes reads bytes given as a string in the given encoding or as an
// array of byte literals, which is stored as base16.
func parseBytes(m meta.Meta, enc nodes.BytesEncoding) (*nodes.BytesValueNode, error) {
	if s, err := meta.String(m); err == nil {
		return &nodes.BytesValueNode{Data: s, Encoding: enc}, nil
	}
	elems, err := meta.AsList(m)
	if err != nil {
		return nil, errors.Compile(m.Span(), "expected a string or an array of bytes, found %s", meta.Describe(m))
	}
	data := make([]byte, 0, len(elems))
	for _, e := range elems {
		b, err := meta.Int[uint8](e)
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}
	return &nodes.BytesValueNode{Data: hex.EncodeToString(data), Encoding: nodes.Base16}, nil
}

// parseStructValue parses `struct(name = value, ..)`.
func parseStructValue(items []meta.Meta) (nodes.ValueNode, error) {
	s := &nodes.StructValueNode{}
	var errs errors.List
	for _, item := range items {
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
		s.Fields = append(s.Fields, &nodes.StructFieldValueNode{Name: nodes.Camel(pv.Path.String()), Value: v})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// parseMapValue parses `map([key, value], ..)`.
func parseMapValue(items []meta.Meta) (nodes.ValueNode, error) {
	out := &nodes.MapValueNode{}
	var errs errors.List
	for _, item := range items {
		pair, err := meta.AsList(item)
		if err != nil || len(pair) != 2 {
			errs.Add(errors.Compile(item.Span(), "expected a `[key, value]` entry"))
			continue
		}
		k, err := ParseValue(pair[0])
		if err != nil {
			errs.Add(err)
			continue
		}
		v, err := ParseValue(pair[1])
		if err != nil {
			errs.Add(err)
			continue
		}
		out.Entries = append(out.Entries, &nodes.MapEntryValueNode{Key: k, Value: v})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseEnumValue parses `enum("type", "variant"[, value])`.
func parseEnumValue(m meta.Meta, items []meta.Meta) (nodes.ValueNode, error) {
	if len(items) < 2 || len(items) > 3 {
		return nil, errors.Compile(m.Span(), "expected `enum(\"type\", \"variant\"[, value])`")
	}
	typ, err := meta.String(items[0])
	if err != nil {
		return nil, err
	}
	variant, err := meta.String(items[1])
	if err != nil {
		return nil, err
	}
	v := &nodes.EnumValueNode{Enum: nodes.DefinedTypeLink(typ), Variant: nodes.Camel(variant)}
	if len(items) == 3 {
		if v.Value, err = ParseValue(items[2]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func trimSuffix(s, suffix string) (string, bool) {
	if !strings.HasSuffix(s, suffix) {
		return s, false
	}
	return strings.TrimSuffix(s, suffix), true
}
