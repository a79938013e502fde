package visitors

import (
	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
)

// ApplyTypeModifiers applies the directives that refine a type rather than
// replace it: `name`, `encoding`, `fixed_size`, `size_prefix` and
// `default_value`. Fields are modified in place. Items and variants are
// modified when they already carry a node; otherwise CombineTypes applies
// the same modifiers once it has built their aggregate.
type ApplyTypeModifiers struct{}

func (v *ApplyTypeModifiers) VisitField(k *koroks.FieldKorok) error {
	if k.Node == nil {
		return nil
	}
	switch n := k.Node.(type) {
	case *nodes.StructFieldTypeNode:
		t, err := modifyType(n.Type, k.Attributes)
		if err != nil {
			return err
		}
		n.Type = t
		if name, ok := attributes.Find[*attributes.NameDirective](k.Attributes); ok {
			n.Name = name.Name
		}
		if d, ok := attributes.Find[*attributes.DefaultValueDirective](k.Attributes); ok {
			value, err := nodes.ToValueNode(d.Node)
			if err != nil {
				return errors.Compile(d.Span(), "field default values must be values, found %s", d.Node.Kind())
			}
			n.DefaultValue = value
			if d.Omitted {
				n.DefaultValueStrategy = nodes.DefaultValueOmitted
			}
		}
	case nodes.TypeNode:
		t, err := modifyType(n, k.Attributes)
		if err != nil {
			return err
		}
		k.Node = t
	}
	return nil
}

func (v *ApplyTypeModifiers) VisitStruct(k *koroks.StructKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	return modifyItem(k)
}

func (v *ApplyTypeModifiers) VisitEnum(k *koroks.EnumKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	return modifyItem(k)
}

func (v *ApplyTypeModifiers) VisitType(*koroks.TypeKorok) error { return nil }

func modifyItem(k koroks.ItemKorok) error {
	t, ok := k.GetNode().(nodes.TypeNode)
	if !ok {
		return nil
	}
	modified, err := modifyType(t, k.Attrs())
	if err != nil {
		return err
	}
	k.SetNode(modified)
	return nil
}

// modifyType applies the encoding, fixed_size and size_prefix directives of
// attrs to t.
func modifyType(t nodes.TypeNode, attrs attributes.Attributes) (nodes.TypeNode, error) {
	if d, ok := attributes.Find[*attributes.EncodingDirective](attrs); ok {
		changed := false
		t = nodes.MapInnermost(t, func(inner nodes.TypeNode) nodes.TypeNode {
			if _, ok := inner.(*nodes.StringTypeNode); ok {
				changed = true
				return nodes.String(d.Encoding)
			}
			return inner
		})
		if !changed {
			return nil, errors.Compile(d.Span(), "`encoding` applies to strings, found %s", nodes.Innermost(t).Kind())
		}
	}
	if d, ok := attributes.Find[*attributes.SizePrefixDirective](attrs); ok {
		t = &nodes.SizePrefixTypeNode{Type: stripLengthPrefix(t), Prefix: d.Prefix}
	}
	if d, ok := attributes.Find[*attributes.FixedSizeDirective](attrs); ok {
		t = &nodes.FixedSizeTypeNode{Type: stripLengthPrefix(t), Size: d.Size}
	}
	return t, nil
}

// stripLengthPrefix removes the size prefix of a length-prefixed type so that
// it can be given another size.
func stripLengthPrefix(t nodes.TypeNode) nodes.TypeNode {
	if p, ok := t.(*nodes.SizePrefixTypeNode); ok {
		return p.Type
	}
	return t
}
