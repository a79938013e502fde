package koroks

import (
	"go.uber.org/zap"

	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/stores"
	"github.com/calumari/codama/syntax"
)

// Parse builds the korok tree of every crate in store. Errors of sibling
// subtrees are combined rather than returned one at a time.
func Parse(store *stores.RootStore) (*RootKorok, error) {
	root := &RootKorok{Store: store}
	var errs errors.List
	for _, c := range store.Crates {
		crate, err := ParseCrate(c)
		if err != nil {
			errs.Add(err)
			continue
		}
		root.Crates = append(root.Crates, crate)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseCrate builds the korok of one crate.
func ParseCrate(store *stores.CrateStore) (*CrateKorok, error) {
	var errs errors.List
	attrs, err := attributes.ParseAll(store.File.Attrs)
	errs.Add(err)
	index := 0
	items, err := parseItems(store.File.Items, store.FileModules, &index)
	errs.Add(err)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	Logger().Debug("parsed crate",
		zap.String("path", store.Path),
		zap.Int("items", len(items)),
		zap.Int("file_modules", len(store.FileModules)))
	return &CrateKorok{
		decoration: decoration{Attributes: attrs},
		Store:      store,
		Items:      items,
	}, nil
}

// parseItems parses items of one file. index points at the next unbound
// store of mods and is shared with inline modules of the same file so that
// file modules are bound in depth-first declaration order.
func parseItems(items []syntax.Item, mods []*stores.FileModuleStore, index *int) ([]ItemKorok, error) {
	out := make([]ItemKorok, 0, len(items))
	var errs errors.List
	for _, item := range items {
		k, err := parseItem(item, mods, index)
		if err != nil {
			errs.Add(err)
			continue
		}
		out = append(out, k)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseItem(item syntax.Item, mods []*stores.FileModuleStore, index *int) (ItemKorok, error) {
	switch item := item.(type) {
	case *syntax.ItemStruct:
		return parseStruct(item)
	case *syntax.ItemEnum:
		return parseEnum(item)
	case *syntax.ItemMod:
		if item.Inline {
			return parseModule(item, mods, index)
		}
		return parseFileModule(item, mods, index)
	case *syntax.ItemConst:
		return parseConst(item)
	case *syntax.ItemImpl:
		return parseImpl(item)
	}
	attrs, err := attributes.ParseAll(item.Attributes())
	if err != nil {
		return nil, err
	}
	return &UnsupportedItemKorok{decoration: decoration{Attributes: attrs}, Ast: item}, nil
}

func parseModule(ast *syntax.ItemMod, mods []*stores.FileModuleStore, index *int) (*ModuleKorok, error) {
	var errs errors.List
	all := append(append([]*syntax.Attribute{}, ast.Attrs...), ast.InnerAttrs...)
	attrs, err := attributes.ParseAll(all)
	errs.Add(err)
	items, err := parseItems(ast.Content, mods, index)
	errs.Add(err)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &ModuleKorok{decoration: decoration{Attributes: attrs}, Ast: ast, Items: items}, nil
}

func parseFileModule(ast *syntax.ItemMod, mods []*stores.FileModuleStore, index *int) (*FileModuleKorok, error) {
	attrs, err := attributes.ParseAll(ast.Attrs)
	if err != nil {
		return nil, err
	}
	k := &FileModuleKorok{decoration: decoration{Attributes: attrs}, Ast: ast}
	if *index >= len(mods) {
		Logger().Debug("file module without store", zap.String("module", ast.Ident))
		return k, nil
	}
	k.Store = mods[*index]
	*index++

	var errs errors.List
	k.FileAttributes, err = attributes.ParseAll(k.Store.File.Attrs)
	errs.Add(err)
	inner := 0
	k.Items, err = parseItems(k.Store.File.Items, k.Store.FileModules, &inner)
	errs.Add(err)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return k, nil
}

func parseStruct(ast *syntax.ItemStruct) (*StructKorok, error) {
	var errs errors.List
	attrs, err := attributes.ParseAll(ast.Attrs)
	errs.Add(err)
	fields, err := parseFields(ast.Fields)
	errs.Add(err)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &StructKorok{decoration: decoration{Attributes: attrs}, Ast: ast, Fields: fields}, nil
}

func parseEnum(ast *syntax.ItemEnum) (*EnumKorok, error) {
	var errs errors.List
	attrs, err := attributes.ParseAll(ast.Attrs)
	errs.Add(err)
	variants := make([]*EnumVariantKorok, 0, len(ast.Variants))
	for _, v := range ast.Variants {
		variant, err := parseVariant(v)
		if err != nil {
			errs.Add(err)
			continue
		}
		variants = append(variants, variant)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &EnumKorok{decoration: decoration{Attributes: attrs}, Ast: ast, Variants: variants}, nil
}

func parseVariant(ast *syntax.Variant) (*EnumVariantKorok, error) {
	var errs errors.List
	attrs, err := attributes.ParseAll(ast.Attrs)
	errs.Add(err)
	fields, err := parseFields(ast.Fields)
	errs.Add(err)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &EnumVariantKorok{decoration: decoration{Attributes: attrs}, Ast: ast, Fields: fields}, nil
}

func parseFields(ast *syntax.Fields) (*FieldsKorok, error) {
	k := &FieldsKorok{Ast: ast}
	var errs errors.List
	for _, f := range ast.List {
		attrs, err := attributes.ParseAll(f.Attrs)
		if err != nil {
			errs.Add(err)
			continue
		}
		k.All = append(k.All, &FieldKorok{
			decoration: decoration{Attributes: attrs},
			Ast:        f,
			Type:       &TypeKorok{Ast: f.Type},
		})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return k, nil
}

func parseConst(ast *syntax.ItemConst) (*ConstKorok, error) {
	attrs, err := attributes.ParseAll(ast.Attrs)
	if err != nil {
		return nil, err
	}
	return &ConstKorok{
		decoration: decoration{Attributes: attrs},
		Ast:        ast,
		Type:       &TypeKorok{Ast: ast.Type},
	}, nil
}

func parseImpl(ast *syntax.ItemImpl) (*ImplKorok, error) {
	var errs errors.List
	all := append(append([]*syntax.Attribute{}, ast.Attrs...), ast.InnerAttrs...)
	attrs, err := attributes.ParseAll(all)
	errs.Add(err)
	k := &ImplKorok{Ast: ast}
	for _, item := range ast.Items {
		itemAttrs, err := attributes.ParseAll(item.Attributes())
		if err != nil {
			errs.Add(err)
			continue
		}
		ik := &ImplItemKorok{decoration: decoration{Attributes: itemAttrs}, Ast: item}
		switch item := item.(type) {
		case *syntax.ImplItemConst:
			ik.Type = &TypeKorok{Ast: item.Type}
		case *syntax.ImplItemType:
			ik.Type = &TypeKorok{Ast: item.Type}
		}
		k.Items = append(k.Items, ik)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	k.Attributes = attrs
	return k, nil
}
