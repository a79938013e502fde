package nodes

// DefaultValueStrategy tells clients how to treat a default value.
type DefaultValueStrategy string

const (
	// DefaultValueOptional lets callers override the default.
	DefaultValueOptional DefaultValueStrategy = "optional"
	// DefaultValueOmitted hides the value from callers entirely.
	DefaultValueOmitted DefaultValueStrategy = "omitted"
)

// OffsetStrategy is the strategy of pre and post offset wrappers.
type OffsetStrategy string

const (
	OffsetAbsolute  OffsetStrategy = "absolute"
	OffsetPadded    OffsetStrategy = "padded"
	OffsetRelative  OffsetStrategy = "relative"
	OffsetPreOffset OffsetStrategy = "preOffset"
)

type (
	BooleanTypeNode struct {
		typeMarker
		Size NestedTypeNode[*NumberTypeNode] `json:"size"`
	}
	NumberTypeNode struct {
		typeMarker
		Format NumberFormat `json:"format"`
		Endian Endian       `json:"endian"`
	}
	PublicKeyTypeNode struct {
		typeMarker
	}
	BytesTypeNode struct {
		typeMarker
	}
	StringTypeNode struct {
		typeMarker
		Encoding BytesEncoding `json:"encoding"`
	}
	AmountTypeNode struct {
		typeMarker
		Decimals uint8                           `json:"decimals"`
		Unit     string                          `json:"unit,omitempty"`
		Number   NestedTypeNode[*NumberTypeNode] `json:"number"`
	}
	DateTimeTypeNode struct {
		typeMarker
		Number NestedTypeNode[*NumberTypeNode] `json:"number"`
	}
	SolAmountTypeNode struct {
		typeMarker
		Number NestedTypeNode[*NumberTypeNode] `json:"number"`
	}
	ArrayTypeNode struct {
		typeMarker
		Item  TypeNode  `json:"item"`
		Count CountNode `json:"count"`
	}
	SetTypeNode struct {
		typeMarker
		Item  TypeNode  `json:"item"`
		Count CountNode `json:"count"`
	}
	MapTypeNode struct {
		typeMarker
		Key   TypeNode  `json:"key"`
		Value TypeNode  `json:"value"`
		Count CountNode `json:"count"`
	}
	OptionTypeNode struct {
		typeMarker
		Fixed  bool                            `json:"fixed,omitempty"`
		Item   TypeNode                        `json:"item"`
		Prefix NestedTypeNode[*NumberTypeNode] `json:"prefix"`
	}
	ZeroableOptionTypeNode struct {
		typeMarker
		Item      TypeNode           `json:"item"`
		ZeroValue *ConstantValueNode `json:"zeroValue,omitempty"`
	}
	RemainderOptionTypeNode struct {
		typeMarker
		Item TypeNode `json:"item"`
	}
	TupleTypeNode struct {
		typeMarker
		Items []TypeNode `json:"items"`
	}
	StructTypeNode struct {
		typeMarker
		Fields []*StructFieldTypeNode `json:"fields"`
	}
	StructFieldTypeNode struct {
		registeredMarker
		Name                 CamelCaseString      `json:"name"`
		DefaultValueStrategy DefaultValueStrategy `json:"defaultValueStrategy,omitempty"`
		Docs                 []string             `json:"docs,omitempty"`
		Type                 TypeNode             `json:"type"`
		DefaultValue         ValueNode            `json:"defaultValue,omitempty"`
	}
	EnumTypeNode struct {
		typeMarker
		Variants []EnumVariantTypeNode           `json:"variants"`
		Size     NestedTypeNode[*NumberTypeNode] `json:"size"`
	}
	EnumEmptyVariantTypeNode struct {
		registeredMarker
		Name          CamelCaseString `json:"name"`
		Discriminator *uint64         `json:"discriminator,omitempty"`
	}
	EnumTupleVariantTypeNode struct {
		registeredMarker
		Name          CamelCaseString                `json:"name"`
		Discriminator *uint64                        `json:"discriminator,omitempty"`
		Tuple         NestedTypeNode[*TupleTypeNode] `json:"tuple"`
	}
	EnumStructVariantTypeNode struct {
		registeredMarker
		Name          CamelCaseString                 `json:"name"`
		Discriminator *uint64                         `json:"discriminator,omitempty"`
		Struct        NestedTypeNode[*StructTypeNode] `json:"struct"`
	}
)

func (*BooleanTypeNode) Kind() string           { return "booleanTypeNode" }
func (*NumberTypeNode) Kind() string            { return "numberTypeNode" }
func (*PublicKeyTypeNode) Kind() string         { return "publicKeyTypeNode" }
func (*BytesTypeNode) Kind() string             { return "bytesTypeNode" }
func (*StringTypeNode) Kind() string            { return "stringTypeNode" }
func (*AmountTypeNode) Kind() string            { return "amountTypeNode" }
func (*DateTimeTypeNode) Kind() string          { return "dateTimeTypeNode" }
func (*SolAmountTypeNode) Kind() string         { return "solAmountTypeNode" }
func (*ArrayTypeNode) Kind() string             { return "arrayTypeNode" }
func (*SetTypeNode) Kind() string               { return "setTypeNode" }
func (*MapTypeNode) Kind() string               { return "mapTypeNode" }
func (*OptionTypeNode) Kind() string            { return "optionTypeNode" }
func (*ZeroableOptionTypeNode) Kind() string    { return "zeroableOptionTypeNode" }
func (*RemainderOptionTypeNode) Kind() string   { return "remainderOptionTypeNode" }
func (*TupleTypeNode) Kind() string             { return "tupleTypeNode" }
func (*StructTypeNode) Kind() string            { return "structTypeNode" }
func (*StructFieldTypeNode) Kind() string       { return "structFieldTypeNode" }
func (*EnumTypeNode) Kind() string              { return "enumTypeNode" }
func (*EnumEmptyVariantTypeNode) Kind() string  { return "enumEmptyVariantTypeNode" }
func (*EnumTupleVariantTypeNode) Kind() string  { return "enumTupleVariantTypeNode" }
func (*EnumStructVariantTypeNode) Kind() string { return "enumStructVariantTypeNode" }

func (v *EnumEmptyVariantTypeNode) VariantName() CamelCaseString  { return v.Name }
func (v *EnumTupleVariantTypeNode) VariantName() CamelCaseString  { return v.Name }
func (v *EnumStructVariantTypeNode) VariantName() CamelCaseString { return v.Name }

func (v *EnumEmptyVariantTypeNode) VariantDiscriminator() *uint64  { return v.Discriminator }
func (v *EnumTupleVariantTypeNode) VariantDiscriminator() *uint64  { return v.Discriminator }
func (v *EnumStructVariantTypeNode) VariantDiscriminator() *uint64 { return v.Discriminator }

func (*EnumEmptyVariantTypeNode) enumVariantTypeNode()  {}
func (*EnumTupleVariantTypeNode) enumVariantTypeNode()  {}
func (*EnumStructVariantTypeNode) enumVariantTypeNode() {}

// LE returns a little-endian number type node.
func LE(format NumberFormat) *NumberTypeNode {
	return &NumberTypeNode{Format: format, Endian: LittleEndian}
}

// Boolean returns a boolean stored as a u8.
func Boolean() *BooleanTypeNode {
	return &BooleanTypeNode{Size: Nest(LE(U8))}
}

// String returns a string type with the given encoding.
func String(encoding BytesEncoding) *StringTypeNode {
	return &StringTypeNode{Encoding: encoding}
}

// Option returns an option prefixed by a u8.
func Option(item TypeNode) *OptionTypeNode {
	return &OptionTypeNode{Item: item, Prefix: Nest(LE(U8))}
}

// Enum returns an enum whose discriminator is a u8.
func Enum(variants ...EnumVariantTypeNode) *EnumTypeNode {
	return &EnumTypeNode{Variants: variants, Size: Nest(LE(U8))}
}

// Field returns a struct field named camelCase(name).
func Field(name string, t TypeNode) *StructFieldTypeNode {
	return &StructFieldTypeNode{Name: Camel(name), Type: t}
}

// Struct returns a struct type over fields.
func Struct(fields ...*StructFieldTypeNode) *StructTypeNode {
	return &StructTypeNode{Fields: fields}
}

// Tuple returns a tuple type over items.
func Tuple(items ...TypeNode) *TupleTypeNode {
	return &TupleTypeNode{Items: items}
}

// Prefixed returns an array-length count prefixed by number.
func Prefixed(number *NumberTypeNode) *PrefixedCountNode {
	return &PrefixedCountNode{Prefix: Nest(number)}
}

// SizePrefixed returns item prefixed by its byte length.
func SizePrefixed(item TypeNode, prefix *NumberTypeNode) *SizePrefixTypeNode {
	return &SizePrefixTypeNode{Type: item, Prefix: Nest(prefix)}
}
