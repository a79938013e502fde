package nodes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calumari/codama/errors"
)

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"my_field":          "myField",
		"MyStruct":          "myStruct",
		"HTTPServer":        "httpServer",
		"already_camelCase": "alreadyCamelCase",
		"value_2":           "value2",
		"__leading":         "leading",
		"SCREAMING_CASE":    "screamingCase",
		"kebab-case-name":   "kebabCaseName",
		"":                  "",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got := CamelCase(in)
			require.Equal(t, want, got)
			require.Equal(t, got, CamelCase(got), "normalization must be idempotent")
		})
	}
}

func TestMarshal(t *testing.T) {
	t.Run("kind comes first", func(t *testing.T) {
		b, err := Marshal(LE(U16))
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"numberTypeNode","format":"u16","endian":"le"}`, string(b))
		require.Equal(t, `{"kind":"numberTypeNode"`, string(b[:24]))
	})

	t.Run("optional fields are omitted", func(t *testing.T) {
		b, err := Marshal(&EnumEmptyVariantTypeNode{Name: "quit"})
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"enumEmptyVariantTypeNode","name":"quit"}`, string(b))

		b, err = Marshal(&InstructionByteDeltaNode{Value: &NumberValueNode{Number: Uint(4)}})
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"instructionByteDeltaNode","value":{"kind":"numberValueNode","number":4},"withHeader":false}`, string(b))
	})

	t.Run("program lists are always present", func(t *testing.T) {
		b, err := Marshal(&ProgramNode{Name: "counter"})
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"programNode","name":"counter","publicKey":"","version":"","accounts":[],"instructions":[],"definedTypes":[],"pdas":[],"errors":[]}`, string(b))
	})

	t.Run("signer tri-state", func(t *testing.T) {
		b, err := Marshal(&InstructionAccountNode{Name: "authority", IsSigner: SignerEither})
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"instructionAccountNode","name":"authority","isWritable":false,"isSigner":"either"}`, string(b))
	})

	t.Run("nested wrappers encode the outer node", func(t *testing.T) {
		prefix, err := AsNested[*NumberTypeNode](&FixedSizeTypeNode{Size: 4, Type: LE(U32)})
		require.NoError(t, err)
		b, err := Marshal(&SizePrefixTypeNode{Type: String(UTF8), Prefix: prefix})
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"sizePrefixTypeNode","type":{"kind":"stringTypeNode","encoding":"utf8"},"prefix":{"kind":"fixedSizeTypeNode","size":4,"type":{"kind":"numberTypeNode","format":"u32","endian":"le"}}}`, string(b))
	})
}

func TestRoundTrip(t *testing.T) {
	disc := uint64(42)
	size := uint64(9)
	nodes := []Node{
		Boolean(),
		&ArrayTypeNode{Item: LE(U8), Count: &FixedCountNode{Value: 32}},
		&MapTypeNode{Key: String(UTF8), Value: LE(U64), Count: Prefixed(LE(U32))},
		Enum(
			&EnumEmptyVariantTypeNode{Name: "quit"},
			&EnumStructVariantTypeNode{Name: "move", Discriminator: &disc, Struct: Nest(Struct(Field("x", LE(I32))))},
			&EnumTupleVariantTypeNode{Name: "write", Tuple: Nest(Tuple(SizePrefixed(String(UTF8), LE(U32))))},
		),
		&StructFieldTypeNode{Name: "amount", Type: LE(U64), DefaultValue: &NumberValueNode{Number: Int(-3)}, DefaultValueStrategy: DefaultValueOmitted},
		&PdaValueNode{Pda: &PdaLinkNode{Name: "counter"}, Seeds: []*PdaSeedValueNode{{Name: "authority", Value: &AccountValueNode{Name: "authority"}}}},
		&ConstantValueNode{Type: LE(F32), Value: &NumberValueNode{Number: Float(1.5)}},
		Root(&ProgramNode{
			Name:      "counter",
			PublicKey: "11111111111111111111111111111111",
			Version:   "0.1.0",
			Accounts: []*AccountNode{{
				Name:           "counter",
				Size:           &size,
				Data:           Nest(Struct(Field("count", LE(U64)), Field("bump", LE(U8)))),
				Discriminators: []DiscriminatorNode{&SizeDiscriminatorNode{Size: 9}},
			}},
			Instructions: []*InstructionNode{{
				Name:                    "increment",
				OptionalAccountStrategy: OptionalAccountProgramID,
				Accounts:                []*InstructionAccountNode{{Name: "payer", IsSigner: SignerTrue, IsWritable: true, DefaultValue: &PayerValueNode{}}},
				Arguments:               []*InstructionArgumentNode{{Name: "amount", Type: LE(U64)}},
			}},
			DefinedTypes: []*DefinedTypeNode{{Name: "slot", Type: LE(U64), Docs: []string{"A slot."}}},
			Errors:       []*ErrorNode{{Name: "overflow", Code: 6000, Message: "Overflow"}},
		}),
	}
	for _, n := range nodes {
		t.Run(n.Kind(), func(t *testing.T) {
			b, err := Marshal(n)
			require.NoError(t, err)
			decoded, err := Unmarshal(b)
			require.NoError(t, err)
			require.Equal(t, n, decoded)
		})
	}

	t.Run("a root without additional programs survives a round trip", func(t *testing.T) {
		root := Root(&ProgramNode{Name: "counter"}, []*ProgramNode{}...)
		require.Nil(t, root.AdditionalPrograms)
		b, err := Marshal(root)
		require.NoError(t, err)
		require.Contains(t, string(b), `"additionalPrograms":[]`)
		decoded, err := Unmarshal(b)
		require.NoError(t, err)
		require.Equal(t, root, decoded)
	})

	t.Run("unknown kinds are rejected", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"kind":"fooNode"}`))
		require.Error(t, err)
	})

	t.Run("constrained slots reject other kinds", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"kind":"prefixedCountNode","prefix":{"kind":"stringTypeNode","encoding":"utf8"}}`))
		require.ErrorIs(t, err, errors.ErrInvalidNodeConversion)
	})
}

func TestNested(t *testing.T) {
	t.Run("accessor unwraps every wrapper", func(t *testing.T) {
		inner := LE(U16)
		wrapped := &FixedSizeTypeNode{Size: 2, Type: &PreOffsetTypeNode{Offset: 1, Strategy: OffsetRelative, Type: inner}}
		nested, err := AsNested[*NumberTypeNode](wrapped)
		require.NoError(t, err)
		require.Same(t, inner, nested.NestedTypeNode())
		require.Equal(t, TypeNode(wrapped), nested.Node())
	})

	t.Run("map keeps the wrappers", func(t *testing.T) {
		nested, err := AsNested[*NumberTypeNode](&FixedSizeTypeNode{Size: 8, Type: LE(U64)})
		require.NoError(t, err)
		mapped := nested.Map(func(n *NumberTypeNode) *NumberTypeNode {
			return &NumberTypeNode{Format: n.Format, Endian: BigEndian}
		})
		require.IsType(t, &FixedSizeTypeNode{}, mapped.Node())
		require.Equal(t, BigEndian, mapped.NestedTypeNode().Endian)
	})

	t.Run("innermost kind must match", func(t *testing.T) {
		_, err := AsNested[*NumberTypeNode](&FixedSizeTypeNode{Size: 4, Type: String(UTF8)})
		require.ErrorIs(t, err, errors.ErrInvalidNodeConversion)
	})
}

func TestConversions(t *testing.T) {
	_, err := ToTypeNode(Field("age", LE(U8)))
	require.ErrorIs(t, err, errors.ErrInvalidNodeConversion)

	r, err := ToRegisteredTypeNode(Field("age", LE(U8)))
	require.NoError(t, err)
	require.Equal(t, "structFieldTypeNode", r.Kind())

	typ, err := ToTypeNode(Boolean())
	require.NoError(t, err)
	require.Equal(t, "booleanTypeNode", typ.Kind())
}

func TestFixedSize(t *testing.T) {
	defined := map[CamelCaseString]TypeNode{"point": Struct(Field("x", LE(I32)), Field("y", LE(I32)))}
	lookup := func(name CamelCaseString) (TypeNode, bool) {
		typ, ok := defined[name]
		return typ, ok
	}

	cases := []struct {
		name string
		node TypeNode
		size uint64
		ok   bool
	}{
		{"number", LE(U64), 8, true},
		{"boolean", Boolean(), 1, true},
		{"public key", &PublicKeyTypeNode{}, 32, true},
		{"fixed array", &ArrayTypeNode{Item: LE(U16), Count: &FixedCountNode{Value: 4}}, 8, true},
		{"prefixed array", &ArrayTypeNode{Item: LE(U16), Count: Prefixed(LE(U32))}, 0, false},
		{"string", SizePrefixed(String(UTF8), LE(U32)), 0, false},
		{"struct", Struct(Field("a", LE(U8)), Field("b", &PublicKeyTypeNode{})), 33, true},
		{"unit enum", Enum(&EnumEmptyVariantTypeNode{Name: "a"}, &EnumEmptyVariantTypeNode{Name: "b"}), 1, true},
		{"option", Option(LE(U8)), 0, false},
		{"link", DefinedTypeLink("point"), 8, true},
		{"unknown link", DefinedTypeLink("other"), 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			size, ok := FixedSize(c.node, lookup)
			require.Equal(t, c.ok, ok)
			require.Equal(t, c.size, size)
		})
	}
}
