// Package visitors walks korok trees. A visitor is any value implementing
// some of the hook interfaces below; Visit dispatches a korok to the hook of
// its kind, or walks its children when the visitor has no such hook. Hooks
// decide whether and when to descend by calling VisitChildren.
//
// Traversal is synchronous and depth first. Siblings are visited in source
// order and file modules in the position of their declaration.
package visitors

import (
	"fmt"

	"github.com/calumari/codama/koroks"
)

// Visitor is a value implementing one or more hook interfaces.
type Visitor any

// Hook interfaces, one per korok kind.
type (
	RootVisitor interface {
		VisitRoot(k *koroks.RootKorok) error
	}
	CrateVisitor interface {
		VisitCrate(k *koroks.CrateKorok) error
	}
	// ItemVisitor sees every item before the hook of its kind. It forwards
	// to that hook with DispatchItem.
	ItemVisitor interface {
		VisitItem(k koroks.ItemKorok) error
	}
	ModuleVisitor interface {
		VisitModule(k *koroks.ModuleKorok) error
	}
	FileModuleVisitor interface {
		VisitFileModule(k *koroks.FileModuleKorok) error
	}
	StructVisitor interface {
		VisitStruct(k *koroks.StructKorok) error
	}
	EnumVisitor interface {
		VisitEnum(k *koroks.EnumKorok) error
	}
	EnumVariantVisitor interface {
		VisitEnumVariant(k *koroks.EnumVariantKorok) error
	}
	FieldsVisitor interface {
		VisitFields(k *koroks.FieldsKorok) error
	}
	FieldVisitor interface {
		VisitField(k *koroks.FieldKorok) error
	}
	TypeVisitor interface {
		VisitType(k *koroks.TypeKorok) error
	}
	ConstVisitor interface {
		VisitConst(k *koroks.ConstKorok) error
	}
	ImplVisitor interface {
		VisitImpl(k *koroks.ImplKorok) error
	}
	ImplItemVisitor interface {
		VisitImplItem(k *koroks.ImplItemKorok) error
	}
	UnsupportedItemVisitor interface {
		VisitUnsupportedItem(k *koroks.UnsupportedItemKorok) error
	}
)

// Visit dispatches k to the matching hook of v.
func Visit(v Visitor, k koroks.Korok) error {
	if item, ok := k.(koroks.ItemKorok); ok {
		if h, ok := v.(ItemVisitor); ok {
			return h.VisitItem(item)
		}
		return DispatchItem(v, item)
	}
	switch k := k.(type) {
	case *koroks.RootKorok:
		if h, ok := v.(RootVisitor); ok {
			return h.VisitRoot(k)
		}
	case *koroks.CrateKorok:
		if h, ok := v.(CrateVisitor); ok {
			return h.VisitCrate(k)
		}
	case *koroks.EnumVariantKorok:
		if h, ok := v.(EnumVariantVisitor); ok {
			return h.VisitEnumVariant(k)
		}
	case *koroks.FieldsKorok:
		if h, ok := v.(FieldsVisitor); ok {
			return h.VisitFields(k)
		}
	case *koroks.FieldKorok:
		if h, ok := v.(FieldVisitor); ok {
			return h.VisitField(k)
		}
	case *koroks.TypeKorok:
		if h, ok := v.(TypeVisitor); ok {
			return h.VisitType(k)
		}
	case *koroks.ImplItemKorok:
		if h, ok := v.(ImplItemVisitor); ok {
			return h.VisitImplItem(k)
		}
	}
	return VisitChildren(v, k)
}

// DispatchItem sends an item to the hook of its kind, skipping VisitItem.
func DispatchItem(v Visitor, k koroks.ItemKorok) error {
	switch k := k.(type) {
	case *koroks.ModuleKorok:
		if h, ok := v.(ModuleVisitor); ok {
			return h.VisitModule(k)
		}
	case *koroks.FileModuleKorok:
		if h, ok := v.(FileModuleVisitor); ok {
			return h.VisitFileModule(k)
		}
	case *koroks.StructKorok:
		if h, ok := v.(StructVisitor); ok {
			return h.VisitStruct(k)
		}
	case *koroks.EnumKorok:
		if h, ok := v.(EnumVisitor); ok {
			return h.VisitEnum(k)
		}
	case *koroks.ConstKorok:
		if h, ok := v.(ConstVisitor); ok {
			return h.VisitConst(k)
		}
	case *koroks.ImplKorok:
		if h, ok := v.(ImplVisitor); ok {
			return h.VisitImpl(k)
		}
	case *koroks.UnsupportedItemKorok:
		if h, ok := v.(UnsupportedItemVisitor); ok {
			return h.VisitUnsupportedItem(k)
		}
	}
	return VisitChildren(v, k)
}

// VisitChildren visits the direct children of k with v.
func VisitChildren(v Visitor, k koroks.Korok) error {
	for _, child := range Children(k) {
		if err := Visit(v, child); err != nil {
			return err
		}
	}
	return nil
}

// Children returns the direct children of k in traversal order.
func Children(k koroks.Korok) []koroks.Korok {
	switch k := k.(type) {
	case *koroks.RootKorok:
		return each(k.Crates)
	case *koroks.CrateKorok:
		return each(k.Items)
	case *koroks.ModuleKorok:
		return each(k.Items)
	case *koroks.FileModuleKorok:
		return each(k.Items)
	case *koroks.StructKorok:
		return []koroks.Korok{k.Fields}
	case *koroks.EnumKorok:
		return each(k.Variants)
	case *koroks.EnumVariantKorok:
		return []koroks.Korok{k.Fields}
	case *koroks.FieldsKorok:
		return each(k.All)
	case *koroks.FieldKorok:
		return []koroks.Korok{k.Type}
	case *koroks.ConstKorok:
		return []koroks.Korok{k.Type}
	case *koroks.ImplKorok:
		return each(k.Items)
	case *koroks.ImplItemKorok:
		if k.Type != nil {
			return []koroks.Korok{k.Type}
		}
	case *koroks.TypeKorok, *koroks.UnsupportedItemKorok:
	default:
		panic(fmt.Sprintf("visitors: unknown korok %T", k))
	}
	return nil
}

func each[K koroks.Korok](ks []K) []koroks.Korok {
	out := make([]koroks.Korok, len(ks))
	for i, k := range ks {
		out[i] = k
	}
	return out
}

// Run visits k with every visitor in turn, each over the whole tree.
func Run(k koroks.Korok, vs ...Visitor) error {
	for _, v := range vs {
		if err := Visit(v, k); err != nil {
			return err
		}
	}
	return nil
}
