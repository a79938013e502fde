package nodes

// Lookup resolves a defined type link to the type it names.
type Lookup func(name CamelCaseString) (TypeNode, bool)

// FixedSize returns the encoded size in bytes of t when every value of t has
// the same size. Links are resolved through lookup, which may be nil.
func FixedSize(t TypeNode, lookup Lookup) (uint64, bool) {
	return fixedSize(t, lookup, map[CamelCaseString]bool{})
}

func fixedSize(t TypeNode, lookup Lookup, seen map[CamelCaseString]bool) (uint64, bool) {
	switch t := t.(type) {
	case *NumberTypeNode:
		return t.Format.Size()
	case *BooleanTypeNode:
		return numberSize(t.Size)
	case *AmountTypeNode:
		return numberSize(t.Number)
	case *DateTimeTypeNode:
		return numberSize(t.Number)
	case *SolAmountTypeNode:
		return numberSize(t.Number)
	case *PublicKeyTypeNode:
		return 32, true
	case *FixedSizeTypeNode:
		return t.Size, true
	case *ArrayTypeNode:
		return fixedCollection(t.Count, lookup, seen, t.Item)
	case *SetTypeNode:
		return fixedCollection(t.Count, lookup, seen, t.Item)
	case *MapTypeNode:
		return fixedCollection(t.Count, lookup, seen, t.Key, t.Value)
	case *TupleTypeNode:
		return sumSizes(t.Items, lookup, seen)
	case *StructTypeNode:
		items := make([]TypeNode, len(t.Fields))
		for i, f := range t.Fields {
			items[i] = f.Type
		}
		return sumSizes(items, lookup, seen)
	case *EnumTypeNode:
		return enumSize(t, lookup, seen)
	case *OptionTypeNode:
		if !t.Fixed {
			return 0, false
		}
		prefix, ok := numberSize(t.Prefix)
		if !ok {
			return 0, false
		}
		item, ok := fixedSize(t.Item, lookup, seen)
		return prefix + item, ok
	case *ZeroableOptionTypeNode:
		return fixedSize(t.Item, lookup, seen)
	case *DefinedTypeLinkNode:
		if lookup == nil || seen[t.Name] {
			return 0, false
		}
		resolved, ok := lookup(t.Name)
		if !ok {
			return 0, false
		}
		seen[t.Name] = true
		defer delete(seen, t.Name)
		return fixedSize(resolved, lookup, seen)
	}
	return 0, false
}

func fixedCollection(count CountNode, lookup Lookup, seen map[CamelCaseString]bool, items ...TypeNode) (uint64, bool) {
	fixed, ok := count.(*FixedCountNode)
	if !ok {
		return 0, false
	}
	item, ok := sumSizes(items, lookup, seen)
	if !ok {
		return 0, false
	}
	return item * fixed.Value, true
}

func sumSizes(items []TypeNode, lookup Lookup, seen map[CamelCaseString]bool) (uint64, bool) {
	var total uint64
	for _, item := range items {
		size, ok := fixedSize(item, lookup, seen)
		if !ok {
			return 0, false
		}
		total += size
	}
	return total, true
}

func enumSize(t *EnumTypeNode, lookup Lookup, seen map[CamelCaseString]bool) (uint64, bool) {
	prefix, ok := numberSize(t.Size)
	if !ok {
		return 0, false
	}
	var variant uint64
	for i, v := range t.Variants {
		var size uint64
		switch v := v.(type) {
		case *EnumEmptyVariantTypeNode:
		case *EnumTupleVariantTypeNode:
			size, ok = fixedSize(v.Tuple.Node(), lookup, seen)
		case *EnumStructVariantTypeNode:
			size, ok = fixedSize(v.Struct.Node(), lookup, seen)
		}
		if !ok || (i > 0 && size != variant) {
			return 0, false
		}
		variant = size
	}
	return prefix + variant, true
}

func numberSize(n NestedTypeNode[*NumberTypeNode]) (uint64, bool) {
	number := n.NestedTypeNode()
	if number == nil {
		return 0, false
	}
	return number.Format.Size()
}
