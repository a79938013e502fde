// Package koroks mirrors the syntax held by stores in a tree that visitors
// decorate with nodes. Every korok keeps a pointer to its syntax, the
// attributes parsed from it and the node computed so far. The node of a
// freshly parsed korok is always nil.
package koroks

import (
	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/stores"
	"github.com/calumari/codama/syntax"
	"github.com/calumari/codama/token"
)

// Korok is any element of the tree.
type Korok interface {
	GetNode() nodes.Node
	SetNode(n nodes.Node)
	Attrs() attributes.Attributes
	korok()
}

// ItemKorok is a module level item.
type ItemKorok interface {
	Korok
	Span() token.Span
	Ident() string
	item()
}

// decoration is shared by every korok.
type decoration struct {
	Attributes attributes.Attributes
	Node       nodes.Node
}

func (d *decoration) GetNode() nodes.Node          { return d.Node }
func (d *decoration) SetNode(n nodes.Node)         { d.Node = n }
func (d *decoration) Attrs() attributes.Attributes { return d.Attributes }
func (*decoration) korok()                         {}

type (
	// RootKorok is the top of the tree.
	RootKorok struct {
		decoration
		Store  *stores.RootStore
		Crates []*CrateKorok
	}
	// CrateKorok holds the items of a crate entry file. Its attributes are
	// the inner attributes of the file.
	CrateKorok struct {
		decoration
		Store *stores.CrateStore
		Items []ItemKorok
	}
	// ModuleKorok is `mod name { .. }`.
	ModuleKorok struct {
		decoration
		Ast   *syntax.ItemMod
		Items []ItemKorok
	}
	// FileModuleKorok is `mod name;` bound to the store of its file. Store is
	// nil when the crate was hydrated from source.
	FileModuleKorok struct {
		decoration
		Ast            *syntax.ItemMod
		Store          *stores.FileModuleStore
		FileAttributes attributes.Attributes
		Items          []ItemKorok
	}
	StructKorok struct {
		decoration
		Ast    *syntax.ItemStruct
		Fields *FieldsKorok
	}
	EnumKorok struct {
		decoration
		Ast      *syntax.ItemEnum
		Variants []*EnumVariantKorok
	}
	EnumVariantKorok struct {
		decoration
		Ast    *syntax.Variant
		Fields *FieldsKorok
	}
	// FieldsKorok is the body of a struct or variant.
	FieldsKorok struct {
		decoration
		Ast *syntax.Fields
		All []*FieldKorok
	}
	FieldKorok struct {
		decoration
		Ast  *syntax.Field
		Type *TypeKorok
	}
	// TypeKorok is an unresolved syntactic type.
	TypeKorok struct {
		decoration
		Ast syntax.Type
	}
	ConstKorok struct {
		decoration
		Ast  *syntax.ItemConst
		Type *TypeKorok
	}
	ImplKorok struct {
		decoration
		Ast   *syntax.ItemImpl
		Items []*ImplItemKorok
	}
	// ImplItemKorok is an item of an impl block. Type is set for associated
	// constants and types.
	ImplItemKorok struct {
		decoration
		Ast  syntax.ImplItem
		Type *TypeKorok
	}
	// UnsupportedItemKorok is any other item. Its attributes are still
	// parsed so malformed directives are reported.
	UnsupportedItemKorok struct {
		decoration
		Ast syntax.Item
	}
)

func (k *ModuleKorok) Span() token.Span          { return k.Ast.Span() }
func (k *FileModuleKorok) Span() token.Span      { return k.Ast.Span() }
func (k *StructKorok) Span() token.Span          { return k.Ast.Span() }
func (k *EnumKorok) Span() token.Span            { return k.Ast.Span() }
func (k *ConstKorok) Span() token.Span           { return k.Ast.Span() }
func (k *ImplKorok) Span() token.Span            { return k.Ast.Span() }
func (k *UnsupportedItemKorok) Span() token.Span { return k.Ast.Span() }

func (k *ModuleKorok) Ident() string     { return k.Ast.Ident }
func (k *FileModuleKorok) Ident() string { return k.Ast.Ident }
func (k *StructKorok) Ident() string     { return k.Ast.Ident }
func (k *EnumKorok) Ident() string       { return k.Ast.Ident }
func (k *ConstKorok) Ident() string      { return k.Ast.Ident }
func (k *ImplKorok) Ident() string {
	if t, ok := k.Ast.SelfType.(*syntax.TypePath); ok {
		return t.Path.LastIdent()
	}
	return k.Ast.SelfType.String()
}
func (k *UnsupportedItemKorok) Ident() string {
	switch ast := k.Ast.(type) {
	case *syntax.ItemOther:
		return ast.Ident
	case *syntax.ItemMacro:
		if ast.Ident != "" {
			return ast.Ident
		}
		return ast.Path.String() + "!"
	}
	return ""
}

func (*ModuleKorok) item()          {}
func (*FileModuleKorok) item()      {}
func (*StructKorok) item()          {}
func (*EnumKorok) item()            {}
func (*ConstKorok) item()           {}
func (*ImplKorok) item()            {}
func (*UnsupportedItemKorok) item() {}

// Ident returns the variant identifier.
func (k *EnumVariantKorok) Ident() string { return k.Ast.Ident }

// Ident returns the field identifier, or its position for unnamed fields.
func (k *FieldKorok) Ident() string { return k.Ast.Name() }

// IsNamed reports whether the field has an identifier.
func (k *FieldKorok) IsNamed() bool { return k.Ast.Ident != "" }

// Style returns the shape of the body.
func (k *FieldsKorok) Style() syntax.FieldsStyle { return k.Ast.Style }

// Docs returns the doc comments of a korok.
func Docs(k Korok) []string {
	return k.Attrs().Docs()
}

// Nodes returns the nodes of ks in order, nil entries included.
func Nodes[K Korok](ks []K) []nodes.Node {
	out := make([]nodes.Node, len(ks))
	for i, k := range ks {
		out[i] = k.GetNode()
	}
	return out
}
