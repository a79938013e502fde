package visitors

import (
	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
)

// ApplyTypeOverrides applies `type` and `node` directives. On a struct or
// enum the node replaces the inferred aggregate; on a named field it becomes
// the type of the struct field; on a variant it becomes the variant shape.
type ApplyTypeOverrides struct{}

func (v *ApplyTypeOverrides) VisitStruct(k *koroks.StructKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	return overrideItem(k)
}

func (v *ApplyTypeOverrides) VisitEnum(k *koroks.EnumKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	return overrideItem(k)
}

func (v *ApplyTypeOverrides) VisitEnumVariant(k *koroks.EnumVariantKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	d, t, ok := typeOverride(k.Attributes)
	if !ok {
		return nil
	}
	name := k.Ident()
	if n, ok := attributes.Find[*attributes.NameDirective](k.Attributes); ok {
		name = n.Name.String()
	}
	discriminator, err := variantDiscriminator(k)
	if err != nil {
		return err
	}
	switch t := t.(type) {
	case nodes.EnumVariantTypeNode:
		k.Node = t
	case *nodes.StructTypeNode:
		k.Node = &nodes.EnumStructVariantTypeNode{Name: nodes.Camel(name), Discriminator: discriminator, Struct: nodes.Nest(t)}
	case *nodes.TupleTypeNode:
		k.Node = &nodes.EnumTupleVariantTypeNode{Name: nodes.Camel(name), Discriminator: discriminator, Tuple: nodes.Nest(t)}
	case nodes.TypeNode:
		k.Node = &nodes.EnumTupleVariantTypeNode{Name: nodes.Camel(name), Discriminator: discriminator, Tuple: nodes.Nest(nodes.Tuple(t))}
	default:
		return errors.Compile(d.Span(), "expected a type or a variant, found %s", t.Kind())
	}
	return nil
}

func (v *ApplyTypeOverrides) VisitField(k *koroks.FieldKorok) error {
	d, t, ok := typeOverride(k.Attributes)
	if !ok {
		return nil
	}
	if field, ok := t.(*nodes.StructFieldTypeNode); ok {
		k.Node = field
		return nil
	}
	typ, err := nodes.ToTypeNode(t)
	if err != nil {
		return errors.Compile(d.Span(), "expected a type, found %s", t.Kind())
	}
	if !k.IsNamed() {
		k.Node = typ
		return nil
	}
	field := nodes.Field(k.Ident(), typ)
	field.Docs = koroks.Docs(k)
	k.Node = field
	return nil
}

// VisitType skips the syntactic types so fields are not walked twice.
func (v *ApplyTypeOverrides) VisitType(*koroks.TypeKorok) error { return nil }

func overrideItem(k koroks.ItemKorok) error {
	_, t, ok := typeOverride(k.Attrs())
	if !ok {
		return nil
	}
	k.SetNode(t)
	return nil
}

// typeOverride returns the node of the `type` or `node` directive of a
// carrier. Node directives holding something other than a type are ignored.
func typeOverride(attrs attributes.Attributes) (attributes.Directive, nodes.RegisteredTypeNode, bool) {
	for _, d := range attrs.Directives() {
		if t, ok := attributes.TypeNode(d); ok {
			return d, t, true
		}
	}
	return nil, nil, false
}
