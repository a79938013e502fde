package visitors

import (
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/syntax"
)

// SetLinkTypes fills every type korok still without a node with a link to
// the defined type named after its last path segment, then promotes fields
// like SetBorshTypes does. After it runs every type korok has a node.
type SetLinkTypes struct{}

func (v *SetLinkTypes) VisitType(k *koroks.TypeKorok) error {
	if k.Node == nil {
		k.Node = linkType(k.Ast)
	}
	return nil
}

func (v *SetLinkTypes) VisitField(k *koroks.FieldKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	promoteField(k)
	return nil
}

func linkType(t syntax.Type) nodes.TypeNode {
	switch t := t.(type) {
	case *syntax.TypeReference:
		if inner := InferBorsh(t.Elem); inner != nil {
			return inner
		}
		return linkType(t.Elem)
	case *syntax.TypePath:
		return &nodes.DefinedTypeLinkNode{Name: nodes.Camel(t.Path.LastIdent())}
	case *syntax.TypePtr:
		return linkType(t.Elem)
	case *syntax.TypeSlice:
		return &nodes.ArrayTypeNode{Item: linkOrInfer(t.Elem), Count: &nodes.RemainderCountNode{}}
	case *syntax.TypeArray:
		return &nodes.ArrayTypeNode{Item: linkOrInfer(t.Elem), Count: &nodes.RemainderCountNode{}}
	case *syntax.TypeTuple:
		items := make([]nodes.TypeNode, len(t.Elems))
		for i, elem := range t.Elems {
			items[i] = linkOrInfer(elem)
		}
		return nodes.Tuple(items...)
	}
	return &nodes.DefinedTypeLinkNode{Name: nodes.Camel(t.String())}
}

func linkOrInfer(t syntax.Type) nodes.TypeNode {
	if inferred := InferBorsh(t); inferred != nil {
		return inferred
	}
	return linkType(t)
}
