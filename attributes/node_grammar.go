package attributes

import (
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/meta"
	"github.com/calumari/codama/nodes"
)

// ParseNode parses the node expression of a `node(..)` directive. Node
// expressions name node kinds in snake case: `number_type(u16, le)`,
// `public_key_type`, `payer_value`, `fixed_count(4)` or
// `defined_type_link("point")`. Type and value kinds accept the same
// arguments as the type and value grammars.
func ParseNode(m meta.Meta) (nodes.Node, error) {
	keyword := meta.Name(m)
	if keyword == "" {
		return nil, errors.Compile(m.Span(), "expected a node, found %s", meta.Describe(m))
	}
	if base, ok := trimSuffix(keyword, "_type"); ok {
		return parseRegisteredTypeAs(base, m)
	}
	if base, ok := trimSuffix(keyword, "_value"); ok {
		return parseInputValueAs(base, m)
	}
	items, _ := meta.AsList(m)
	switch keyword {
	case "fixed_count":
		if len(items) != 1 {
			return nil, errors.Compile(m.Span(), "expected `fixed_count(n)`")
		}
		n, err := meta.Int[uint64](items[0])
		if err != nil {
			return nil, err
		}
		return &nodes.FixedCountNode{Value: n}, nil
	case "prefixed_count":
		if len(items) != 1 {
			return nil, errors.Compile(m.Span(), "expected `prefixed_count(number_type(..))`")
		}
		n, err := parseNestedNodeNumber(items[0])
		if err != nil {
			return nil, err
		}
		return &nodes.PrefixedCountNode{Prefix: n}, nil
	case "remainder_count":
		return &nodes.RemainderCountNode{}, nil
	case "defined_type_link", "account_link", "pda_link", "program_link", "instruction_link":
		name, err := singleName(m, keyword)
		if err != nil {
			return nil, err
		}
		switch keyword {
		case "defined_type_link":
			return &nodes.DefinedTypeLinkNode{Name: name}, nil
		case "account_link":
			return &nodes.AccountLinkNode{Name: name}, nil
		case "pda_link":
			return &nodes.PdaLinkNode{Name: name}, nil
		case "program_link":
			return &nodes.ProgramLinkNode{Name: name}, nil
		}
		return &nodes.InstructionLinkNode{Name: name}, nil
	case "size_discriminator":
		if len(items) != 1 {
			return nil, errors.Compile(m.Span(), "expected `size_discriminator(n)`")
		}
		n, err := meta.Int[uint64](items[0])
		if err != nil {
			return nil, err
		}
		return &nodes.SizeDiscriminatorNode{Size: n}, nil
	}
	return nil, errors.Compile(m.Span(), "unrecognized node `%s`", keyword)
}

// parseNestedNodeNumber accepts `number_type(..)` as well as `number(..)`.
func parseNestedNodeNumber(m meta.Meta) (nodes.NestedTypeNode[*nodes.NumberTypeNode], error) {
	n, err := ParseNode(m)
	if err != nil {
		if meta.Name(m) == "number" {
			return parseNestedNumber(m)
		}
		return nodes.NestedTypeNode[*nodes.NumberTypeNode]{}, err
	}
	t, err := nodes.ToTypeNode(n)
	if err != nil {
		return nodes.NestedTypeNode[*nodes.NumberTypeNode]{}, err
	}
	return nodes.AsNested[*nodes.NumberTypeNode](t)
}
