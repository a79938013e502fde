package visitors

import (
	"go.uber.org/zap"

	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/syntax"
)

// SetBorshTypes infers the node of every type korok that has none from its
// native type, assuming the borsh layout: little-endian numbers and u32
// length prefixes. Fields whose type was inferred are promoted to struct
// fields. Existing nodes are left untouched.
type SetBorshTypes struct{}

func (v *SetBorshTypes) VisitType(k *koroks.TypeKorok) error {
	if k.Node != nil {
		return nil
	}
	if t := InferBorsh(k.Ast); t != nil {
		k.Node = t
	}
	return nil
}

func (v *SetBorshTypes) VisitField(k *koroks.FieldKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	promoteField(k)
	return nil
}

var (
	boolPaths   = []string{"bool", "std::primitive::bool", "core::primitive::bool"}
	stringPaths = []string{"String", "std::string::String", "alloc::string::String"}
	vecPaths    = []string{"Vec", "std::vec::Vec", "alloc::vec::Vec"}
	optionPaths = []string{"Option", "std::option::Option", "core::option::Option"}
	setPaths    = []string{
		"HashSet", "std::collections::HashSet",
		"BTreeSet", "std::collections::BTreeSet",
	}
	mapPaths = []string{
		"HashMap", "std::collections::HashMap",
		"BTreeMap", "std::collections::BTreeMap",
	}
	pubkeyPaths = []string{
		"Pubkey",
		"solana_sdk::pubkey::Pubkey",
		"solana_program::pubkey::Pubkey",
		"solana_pubkey::Pubkey",
		"anchor_lang::prelude::Pubkey",
	}
	addressPaths = []string{
		"Address",
		"solana_address::Address",
	}
	numberNames = []nodes.NumberFormat{
		nodes.U8, nodes.U16, nodes.U32, nodes.U64, nodes.U128,
		nodes.I8, nodes.I16, nodes.I32, nodes.I64, nodes.I128,
		nodes.F32, nodes.F64,
	}
)

// InferBorsh returns the type node of a native type, or nil when the type
// cannot be inferred. Paths match by their last segment or by one of the
// known full paths; generic types must carry the expected number of type
// arguments. Any other path ending in an identifier becomes a link to the
// defined type of that name.
func InferBorsh(t syntax.Type) nodes.TypeNode {
	switch t := t.(type) {
	case *syntax.TypePath:
		return inferPath(t.Path)
	case *syntax.TypeArray:
		n, err := syntax.LitIntAs[uint64](t.Len)
		if err != nil {
			return nil
		}
		item := InferBorsh(t.Elem)
		if item == nil {
			return nil
		}
		return &nodes.ArrayTypeNode{Item: item, Count: &nodes.FixedCountNode{Value: n}}
	case *syntax.TypeTuple:
		if len(t.Elems) == 0 {
			return nil
		}
		items := make([]nodes.TypeNode, len(t.Elems))
		for i, elem := range t.Elems {
			if items[i] = InferBorsh(elem); items[i] == nil {
				return nil
			}
		}
		return nodes.Tuple(items...)
	}
	return nil
}

func inferPath(p *syntax.Path) nodes.TypeNode {
	last := p.Last()
	if last == nil {
		return nil
	}
	args := last.TypeArgs()
	plain := last.Args == nil

	switch {
	case plain && p.Matches(boolPaths...):
		return nodes.Boolean()
	case plain && p.Matches(stringPaths...):
		return nodes.SizePrefixed(nodes.String(nodes.UTF8), nodes.LE(nodes.U32))
	case plain && (p.Matches(pubkeyPaths...) || p.Matches(addressPaths...)):
		return &nodes.PublicKeyTypeNode{}
	case plain:
		for _, f := range numberNames {
			if p.Matches(string(f), "std::primitive::"+string(f), "core::primitive::"+string(f)) {
				return nodes.LE(f)
			}
		}
	case p.Matches(vecPaths...):
		return generic(args, 1, func(items []nodes.TypeNode) nodes.TypeNode {
			return &nodes.ArrayTypeNode{Item: items[0], Count: nodes.Prefixed(nodes.LE(nodes.U32))}
		})
	case p.Matches(optionPaths...):
		return generic(args, 1, func(items []nodes.TypeNode) nodes.TypeNode {
			return nodes.Option(items[0])
		})
	case p.Matches(setPaths...):
		return generic(args, 1, func(items []nodes.TypeNode) nodes.TypeNode {
			return &nodes.SetTypeNode{Item: items[0], Count: nodes.Prefixed(nodes.LE(nodes.U32))}
		})
	case p.Matches(mapPaths...):
		return generic(args, 2, func(items []nodes.TypeNode) nodes.TypeNode {
			return &nodes.MapTypeNode{Key: items[0], Value: items[1], Count: nodes.Prefixed(nodes.LE(nodes.U32))}
		})
	}
	if isKnownGeneric(p) {
		return nil
	}
	return &nodes.DefinedTypeLinkNode{Name: nodes.Camel(last.Ident)}
}

// generic infers the n type arguments of a generic type and builds the node
// with them. It fails when the arity does not match.
func generic(args []syntax.Type, n int, build func(items []nodes.TypeNode) nodes.TypeNode) nodes.TypeNode {
	if len(args) != n {
		return nil
	}
	items := make([]nodes.TypeNode, n)
	for i, a := range args {
		if items[i] = InferBorsh(a); items[i] == nil {
			return nil
		}
	}
	return build(items)
}

// isKnownGeneric reports whether p names a type whose inference failed on its
// arguments. Such paths fall through instead of becoming links.
func isKnownGeneric(p *syntax.Path) bool {
	return p.Matches(vecPaths...) || p.Matches(optionPaths...) || p.Matches(setPaths...) || p.Matches(mapPaths...) ||
		p.Matches(boolPaths...) || p.Matches(stringPaths...)
}

// promoteField sets the node of a field from the node of its type: a struct
// field for named fields, the type itself for unnamed ones.
func promoteField(k *koroks.FieldKorok) {
	if k.Node != nil || k.Type.Node == nil {
		return
	}
	t, err := nodes.ToTypeNode(k.Type.Node)
	if err != nil {
		Logger().Debug("field type is not a type node",
			zap.String("field", k.Ident()),
			zap.String("kind", k.Type.Node.Kind()))
		return
	}
	if !k.IsNamed() {
		k.Node = t
		return
	}
	field := nodes.Field(k.Ident(), t)
	field.Docs = koroks.Docs(k)
	k.Node = field
}
