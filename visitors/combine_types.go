package visitors

import (
	"go.uber.org/zap"

	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/syntax"
)

// CombineTypes builds the type of every struct and enum from the nodes of
// its fields and variants, then wraps item types in defined types named
// after the item. Items whose node was set by a directive keep it and are
// only wrapped. Items with a field or variant lacking a node are skipped.
type CombineTypes struct{}

func (v *CombineTypes) VisitStruct(k *koroks.StructKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	if k.Node == nil {
		t, ok := fieldsType(k.Fields)
		if !ok {
			Logger().Debug("skipping struct with unresolved fields", zap.String("struct", k.Ident()))
			return nil
		}
		modified, err := modifyType(t, k.Attributes)
		if err != nil {
			return err
		}
		k.Node = modified
	}
	wrapDefinedType(k)
	return nil
}

func (v *CombineTypes) VisitEnum(k *koroks.EnumKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	if k.Node == nil {
		t, ok := enumType(k)
		if !ok {
			Logger().Debug("skipping enum with unresolved variants", zap.String("enum", k.Ident()))
			return nil
		}
		modified, err := modifyType(t, k.Attributes)
		if err != nil {
			return err
		}
		k.Node = modified
	}
	wrapDefinedType(k)
	return nil
}

func (v *CombineTypes) VisitEnumVariant(k *koroks.EnumVariantKorok) error {
	if k.Node != nil {
		return nil
	}
	discriminator, err := variantDiscriminator(k)
	if err != nil {
		return err
	}
	name := nodes.Camel(k.Ident())
	if n, ok := attributes.Find[*attributes.NameDirective](k.Attributes); ok {
		name = n.Name
	}
	switch k.Fields.Style() {
	case syntax.FieldsUnit:
		k.Node = &nodes.EnumEmptyVariantTypeNode{Name: name, Discriminator: discriminator}
	case syntax.FieldsNamed:
		fields, ok := structFields(k.Fields)
		if !ok {
			return nil
		}
		k.Node = &nodes.EnumStructVariantTypeNode{Name: name, Discriminator: discriminator, Struct: nodes.Nest(nodes.Struct(fields...))}
	case syntax.FieldsUnnamed:
		items, ok := tupleItems(k.Fields)
		if !ok {
			return nil
		}
		k.Node = &nodes.EnumTupleVariantTypeNode{Name: name, Discriminator: discriminator, Tuple: nodes.Nest(nodes.Tuple(items...))}
	}
	return nil
}

// Fields and types were settled by earlier visitors.
func (v *CombineTypes) VisitFields(*koroks.FieldsKorok) error { return nil }

// fieldsType is the aggregate of a struct body: a struct for named fields,
// the single type of a newtype, a tuple otherwise. A unit struct is an
// empty struct.
func fieldsType(k *koroks.FieldsKorok) (nodes.TypeNode, bool) {
	switch k.Style() {
	case syntax.FieldsNamed:
		fields, ok := structFields(k)
		if !ok {
			return nil, false
		}
		return nodes.Struct(fields...), true
	case syntax.FieldsUnnamed:
		items, ok := tupleItems(k)
		if !ok {
			return nil, false
		}
		if len(items) == 1 {
			return items[0], true
		}
		return nodes.Tuple(items...), true
	}
	return nodes.Struct(), true
}

func structFields(k *koroks.FieldsKorok) ([]*nodes.StructFieldTypeNode, bool) {
	fields := make([]*nodes.StructFieldTypeNode, 0, len(k.All))
	for _, f := range k.All {
		switch n := f.Node.(type) {
		case *nodes.StructFieldTypeNode:
			fields = append(fields, n)
		case nodes.TypeNode:
			fields = append(fields, nodes.Field(f.Ident(), n))
		default:
			return nil, false
		}
	}
	if len(fields) == 0 {
		return nil, true
	}
	return fields, true
}

func tupleItems(k *koroks.FieldsKorok) ([]nodes.TypeNode, bool) {
	items := make([]nodes.TypeNode, 0, len(k.All))
	for _, f := range k.All {
		switch n := f.Node.(type) {
		case *nodes.StructFieldTypeNode:
			items = append(items, n.Type)
		case nodes.TypeNode:
			items = append(items, n)
		default:
			return nil, false
		}
	}
	if len(items) == 0 {
		return nil, true
	}
	return items, true
}

func enumType(k *koroks.EnumKorok) (nodes.TypeNode, bool) {
	var variants []nodes.EnumVariantTypeNode
	for _, variant := range k.Variants {
		n, ok := variant.Node.(nodes.EnumVariantTypeNode)
		if !ok {
			return nil, false
		}
		variants = append(variants, n)
	}
	enum := nodes.Enum(variants...)
	if d, ok := attributes.Find[*attributes.EnumDiscriminatorDirective](k.Attributes); ok && !d.Size.IsZero() {
		enum.Size = d.Size
	}
	return enum, true
}

// variantDiscriminator returns the explicit discriminant of a variant when it
// is an integer literal. Any other expression yields nil.
func variantDiscriminator(k *koroks.EnumVariantKorok) (*uint64, error) {
	e := k.Ast.Discriminant
	if e == nil || !syntax.IsIntLit(e) {
		return nil, nil
	}
	n, err := syntax.LitIntAs[uint64](e)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// wrapDefinedType turns the type node of an item into a defined type.
func wrapDefinedType(k koroks.ItemKorok) {
	t, ok := k.GetNode().(nodes.TypeNode)
	if !ok {
		return
	}
	k.SetNode(&nodes.DefinedTypeNode{
		Name: itemName(k),
		Docs: koroks.Docs(k),
		Type: t,
	})
}

// itemName is the camelCase identifier of an item, or its `name` directive.
func itemName(k koroks.ItemKorok) nodes.CamelCaseString {
	if d, ok := attributes.Find[*attributes.NameDirective](k.Attrs()); ok {
		return d.Name
	}
	return nodes.Camel(k.Ident())
}

// definedType returns the defined type of an item.
func definedType(k koroks.ItemKorok) (*nodes.DefinedTypeNode, bool) {
	d, ok := k.GetNode().(*nodes.DefinedTypeNode)
	return d, ok
}

// lookupIn resolves defined types declared anywhere under k.
func lookupIn(k koroks.Korok) nodes.Lookup {
	types := map[nodes.CamelCaseString]nodes.TypeNode{}
	for _, d := range CollectFrom(k, func(k koroks.Korok) (*nodes.DefinedTypeNode, bool) {
		d, ok := k.GetNode().(*nodes.DefinedTypeNode)
		return d, ok
	}) {
		types[d.Name] = d.Type
	}
	return func(name nodes.CamelCaseString) (nodes.TypeNode, bool) {
		t, ok := types[name]
		return t, ok
	}
}
