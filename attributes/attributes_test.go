package attributes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/syntax"
	"github.com/calumari/codama/token"
)

// carrier parses the attributes written above a unit struct.
func carrier(t *testing.T, attrs string) (Attributes, error) {
	t.Helper()
	f, err := syntax.ParseFile("lib.rs", attrs+"\nstruct Carrier;")
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	return ParseAll(f.Items[0].Attributes())
}

func directive(t *testing.T, attr string) Directive {
	t.Helper()
	attrs, err := carrier(t, attr)
	require.NoError(t, err)
	directives := attrs.Directives()
	require.Len(t, directives, 1)
	return directives[0]
}

func TestParse(t *testing.T) {
	t.Run("classifies derive, codama and other attributes", func(t *testing.T) {
		attrs, err := carrier(t, `
			/// A carrier.
			#[derive(Debug, borsh::BorshSerialize, CodamaAccount)]
			#[codama(type = boolean)]
			#[repr(u8)]
		`)
		require.NoError(t, err)
		require.Len(t, attrs, 4)
		require.IsType(t, &UnsupportedAttribute{}, attrs[0])
		require.IsType(t, &DeriveAttribute{}, attrs[1])
		require.IsType(t, &CodamaAttribute{}, attrs[2])
		require.IsType(t, &UnsupportedAttribute{}, attrs[3])

		require.True(t, attrs.HasDerive("CodamaAccount"))
		require.True(t, attrs.HasDerive("borsh::BorshSerialize"))
		require.False(t, attrs.HasDerive("CodamaInstruction"))
		require.Equal(t, []string{"A carrier."}, attrs.Docs())

		repr, ok := attrs.Unsupported("repr")
		require.True(t, ok)
		require.True(t, repr.Path.IsIdent("repr"))
	})

	t.Run("feature gated attributes are unwrapped", func(t *testing.T) {
		d := directive(t, `#[cfg_attr(feature = "codama", codama(type = boolean))]`)
		require.Equal(t, &TypeDirective{base: d.(*TypeDirective).base, Node: nodes.Boolean()}, d)
	})

	t.Run("other cfg_attr predicates are left alone", func(t *testing.T) {
		attrs, err := carrier(t, `#[cfg_attr(test, codama(type = boolean))]`)
		require.NoError(t, err)
		require.Len(t, attrs, 1)
		require.IsType(t, &UnsupportedAttribute{}, attrs[0])
	})

	t.Run("codama requires exactly one directive", func(t *testing.T) {
		_, err := carrier(t, `#[codama(type = boolean, name = "x")]`)
		require.ErrorIs(t, err, errors.ErrCompilation)
	})

	t.Run("unknown directives are rejected at the path", func(t *testing.T) {
		_, err := carrier(t, `#[codama(colour = "red")]`)
		require.ErrorIs(t, err, errors.ErrCompilation)
		require.Contains(t, err.Error(), "unrecognized codama directive `colour`")
	})

	t.Run("errors are combined across attributes", func(t *testing.T) {
		_, err := carrier(t, `
			#[codama(colour = "red")]
			#[codama(size = 3)]
		`)
		require.Len(t, errors.Diagnostics(err), 2)
	})

	t.Run("a carrier has at most one type override", func(t *testing.T) {
		_, err := carrier(t, `
			#[codama(type = boolean)]
			#[codama(node(public_key_type))]
		`)
		require.ErrorIs(t, err, errors.ErrCompilation)
		require.Contains(t, err.Error(), "`type` is already set")
	})
}

func TestSetOnce(t *testing.T) {
	s := NewSetOnce[int]("size")
	_, err := s.Take(token.NoSpan)
	require.ErrorContains(t, err, "`size` is missing")

	require.NoError(t, s.Set(1, token.NoSpan))
	require.ErrorContains(t, s.Set(2, token.NoSpan), "`size` is already set")

	v, err := s.Take(token.NoSpan)
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestTypeDirective(t *testing.T) {
	cases := []struct {
		name string
		attr string
		want nodes.RegisteredTypeNode
	}{
		{"boolean", `#[codama(type = boolean)]`, nodes.Boolean()},
		{"boolean with size", `#[codama(type = boolean(number(u32)))]`, &nodes.BooleanTypeNode{Size: nodes.Nest(nodes.LE(nodes.U32))}},
		{"number", `#[codama(type = number(u32))]`, nodes.LE(nodes.U32)},
		{"number endian first", `#[codama(type = number(be, u32))]`, &nodes.NumberTypeNode{Format: nodes.U32, Endian: nodes.BigEndian}},
		{"number named", `#[codama(type = number(format = u32, endian = be))]`, &nodes.NumberTypeNode{Format: nodes.U32, Endian: nodes.BigEndian}},
		{"public key", `#[codama(type = public_key)]`, &nodes.PublicKeyTypeNode{}},
		{"string", `#[codama(type = string(base58))]`, nodes.String(nodes.Base58)},
		{"fixed size", `#[codama(type = fixed_size(string, 32))]`, &nodes.FixedSizeTypeNode{Type: nodes.String(nodes.UTF8), Size: 32}},
		{"array with fixed count", `#[codama(type = array(number(u8), 4))]`, &nodes.ArrayTypeNode{Item: nodes.LE(nodes.U8), Count: &nodes.FixedCountNode{Value: 4}}},
		{"array with default count", `#[codama(type = array(public_key))]`, &nodes.ArrayTypeNode{Item: &nodes.PublicKeyTypeNode{}, Count: nodes.Prefixed(nodes.LE(nodes.U32))}},
		{"struct", `#[codama(type = struct(field("age", number(u32))))]`, nodes.Struct(nodes.Field("age", nodes.LE(nodes.U32)))},
		{"tuple", `#[codama(type = tuple(boolean, bytes))]`, nodes.Tuple(nodes.Boolean(), &nodes.BytesTypeNode{})},
		{"standalone field", `#[codama(type = field("my_age", number(u8)))]`, nodes.Field("myAge", nodes.LE(nodes.U8))},
		{
			"field with omitted default",
			`#[codama(type = field("bump", number(u8), default_value = 255, default_value_omitted))]`,
			&nodes.StructFieldTypeNode{Name: "bump", Type: nodes.LE(nodes.U8), DefaultValue: &nodes.NumberValueNode{Number: nodes.Uint(255)}, DefaultValueStrategy: nodes.DefaultValueOmitted},
		},
		{
			"enum",
			`#[codama(type = enum(variant("quit"), variant("move", struct(field("x", number(i32))), discriminator = 3)))]`,
			nodes.Enum(
				&nodes.EnumEmptyVariantTypeNode{Name: "quit"},
				&nodes.EnumStructVariantTypeNode{Name: "move", Discriminator: ptr[uint64](3), Struct: nodes.Nest(nodes.Struct(nodes.Field("x", nodes.LE(nodes.I32))))},
			),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := directive(t, c.attr)
			require.IsType(t, &TypeDirective{}, d)
			require.Equal(t, c.want, d.(*TypeDirective).Node)
		})
	}

	t.Run("number requires a format", func(t *testing.T) {
		_, err := carrier(t, `#[codama(type = number(be))]`)
		require.ErrorContains(t, err, "`format` is missing")
	})

	t.Run("number format set twice", func(t *testing.T) {
		_, err := carrier(t, `#[codama(type = number(u8, u16))]`)
		require.ErrorContains(t, err, "`format` is already set")
	})

	t.Run("unknown types", func(t *testing.T) {
		_, err := carrier(t, `#[codama(type = float)]`)
		require.ErrorContains(t, err, "unrecognized type `float`")
	})
}

func TestNodeDirective(t *testing.T) {
	cases := []struct {
		name string
		attr string
		want nodes.Node
	}{
		{"number type", `#[codama(node(number_type(u16, le)))]`, nodes.LE(nodes.U16)},
		{"public key type", `#[codama(node(public_key_type))]`, &nodes.PublicKeyTypeNode{}},
		{"nested types", `#[codama(node(fixed_size_type(number_type(u8), 4)))]`, &nodes.FixedSizeTypeNode{Type: nodes.LE(nodes.U8), Size: 4}},
		{"payer value", `#[codama(node(payer_value))]`, &nodes.PayerValueNode{}},
		{"fixed count", `#[codama(node(fixed_count(4)))]`, &nodes.FixedCountNode{Value: 4}},
		{"link", `#[codama(node(defined_type_link("my_point")))]`, &nodes.DefinedTypeLinkNode{Name: "myPoint"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := directive(t, c.attr)
			require.IsType(t, &NodeDirective{}, d)
			require.Equal(t, c.want, d.(*NodeDirective).Node)
		})
	}

	t.Run("type override of node directives", func(t *testing.T) {
		typ, ok := TypeNode(directive(t, `#[codama(node(boolean_type))]`))
		require.True(t, ok)
		require.Equal(t, nodes.Boolean(), typ)

		_, ok = TypeNode(directive(t, `#[codama(node(payer_value))]`))
		require.False(t, ok)
	})
}

func TestAccountDirective(t *testing.T) {
	t.Run("bare signer means true", func(t *testing.T) {
		a := directive(t, `#[codama(account(name = "authority", signer))]`).(*AccountDirective)
		b := directive(t, `#[codama(account(name = "authority", signer = true))]`).(*AccountDirective)
		require.Equal(t, nodes.SignerTrue, a.IsSigner)
		require.Equal(t, a.IsSigner, b.IsSigner)
		require.Equal(t, nodes.CamelCaseString("authority"), a.Name)
		require.False(t, a.IsWritable)
	})

	t.Run("either is a third state", func(t *testing.T) {
		a := directive(t, `#[codama(account(name = "delegate", signer = "either", writable, optional))]`).(*AccountDirective)
		require.Equal(t, nodes.SignerEither, a.IsSigner)
		require.True(t, a.IsWritable)
		require.True(t, a.IsOptional)
	})

	t.Run("default values", func(t *testing.T) {
		a := directive(t, `#[codama(account(name = "system_program", default_value = program("system")))]`).(*AccountDirective)
		require.Equal(t, &nodes.ProgramLinkNode{Name: "system"}, a.DefaultValue)
	})

	t.Run("invalid signer", func(t *testing.T) {
		_, err := carrier(t, `#[codama(account(signer = "sometimes"))]`)
		require.ErrorContains(t, err, `"either"`)
	})

	t.Run("flags may only be set once", func(t *testing.T) {
		_, err := carrier(t, `#[codama(account(writable, writable = false))]`)
		require.ErrorContains(t, err, "`writable` is already set")
	})
}

func TestArgumentDirective(t *testing.T) {
	t.Run("positional name and type", func(t *testing.T) {
		a := directive(t, `#[codama(argument("max_supply", number(u64)))]`).(*ArgumentDirective)
		require.Equal(t, nodes.CamelCaseString("maxSupply"), a.Name)
		require.Equal(t, nodes.LE(nodes.U64), a.Type)
	})

	t.Run("named name with default", func(t *testing.T) {
		a := directive(t, `#[codama(argument(name = "bump", type = number(u8), default_value = 1, default_value_omitted))]`).(*ArgumentDirective)
		require.Equal(t, nodes.CamelCaseString("bump"), a.Name)
		require.Equal(t, &nodes.NumberValueNode{Number: nodes.Uint(1)}, a.DefaultValue)
		require.Equal(t, nodes.DefaultValueOmitted, a.DefaultValueStrategy)
	})

	t.Run("type is required", func(t *testing.T) {
		_, err := carrier(t, `#[codama(argument("amount"))]`)
		require.ErrorContains(t, err, "`type` is missing")
	})
}

func TestDefaultValueDirective(t *testing.T) {
	cases := []struct {
		name string
		attr string
		want nodes.InstructionInputValueNode
	}{
		{"integer", `#[codama(default_value = 42)]`, &nodes.NumberValueNode{Number: nodes.Uint(42)}},
		{"negative", `#[codama(default_value = -7)]`, &nodes.NumberValueNode{Number: nodes.Int(-7)}},
		{"float", `#[codama(default_value = 1.5)]`, &nodes.NumberValueNode{Number: nodes.Float(1.5)}},
		{"string", `#[codama(default_value = "hello")]`, &nodes.StringValueNode{String: "hello"}},
		{"boolean", `#[codama(default_value = true)]`, &nodes.BooleanValueNode{Boolean: true}},
		{"array", `#[codama(default_value = [1, 2])]`, &nodes.ArrayValueNode{Items: []nodes.ValueNode{&nodes.NumberValueNode{Number: nodes.Uint(1)}, &nodes.NumberValueNode{Number: nodes.Uint(2)}}}},
		{"some", `#[codama(default_value = some(none))]`, &nodes.SomeValueNode{Value: &nodes.NoneValueNode{}}},
		{"public key", `#[codama(default_value = public_key("11111111111111111111111111111111"))]`, &nodes.PublicKeyValueNode{PublicKey: "11111111111111111111111111111111"}},
		{"payer", `#[codama(default_value = payer)]`, &nodes.PayerValueNode{}},
		{"account", `#[codama(default_value = account("mint"))]`, &nodes.AccountValueNode{Name: "mint"}},
		{"argument", `#[codama(default_value = argument("amount"))]`, &nodes.ArgumentValueNode{Name: "amount"}},
		{
			"pda",
			`#[codama(default_value = pda("counter", [account("authority"), seed("index", argument("index"))]))]`,
			&nodes.PdaValueNode{
				Pda: &nodes.PdaLinkNode{Name: "counter"},
				Seeds: []*nodes.PdaSeedValueNode{
					{Name: "authority", Value: &nodes.AccountValueNode{Name: "authority"}},
					{Name: "index", Value: &nodes.ArgumentValueNode{Name: "index"}},
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := directive(t, c.attr)
			require.IsType(t, &DefaultValueDirective{}, d)
			require.Equal(t, c.want, d.(*DefaultValueDirective).Node)
		})
	}
}

func TestErrorDirective(t *testing.T) {
	t.Run("positional", func(t *testing.T) {
		e := directive(t, `#[codama(error(6000, "Overflow"))]`).(*ErrorDirective)
		require.Equal(t, uint64(6000), *e.Code)
		require.Equal(t, "Overflow", e.Message)
	})

	t.Run("named message only", func(t *testing.T) {
		e := directive(t, `#[codama(error(message = "Invalid authority"))]`).(*ErrorDirective)
		require.Nil(t, e.Code)
		require.Equal(t, "Invalid authority", e.Message)
	})
}

func TestDiscriminatorDirective(t *testing.T) {
	cases := []struct {
		name string
		attr string
		want nodes.DiscriminatorNode
	}{
		{"size", `#[codama(discriminator(size = 8))]`, &nodes.SizeDiscriminatorNode{Size: 8}},
		{"field", `#[codama(discriminator(field = "account_type", offset = 1))]`, &nodes.FieldDiscriminatorNode{Name: "accountType", Offset: 1}},
		{
			"bytes array",
			`#[codama(discriminator(bytes = [1, 2, 255]))]`,
			&nodes.ConstantDiscriminatorNode{Constant: &nodes.ConstantValueNode{Type: &nodes.BytesTypeNode{}, Value: &nodes.BytesValueNode{Data: "0102ff", Encoding: nodes.Base16}}},
		},
		{
			"bytes string",
			`#[codama(discriminator(bytes = "3Bxs", encoding = base58, offset = 2))]`,
			&nodes.ConstantDiscriminatorNode{Offset: 2, Constant: &nodes.ConstantValueNode{Type: &nodes.BytesTypeNode{}, Value: &nodes.BytesValueNode{Data: "3Bxs", Encoding: nodes.Base58}}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := directive(t, c.attr)
			require.Equal(t, c.want, d.(*DiscriminatorDirective).Node)
		})
	}

	t.Run("no kind", func(t *testing.T) {
		_, err := carrier(t, `#[codama(discriminator(offset = 2))]`)
		require.ErrorContains(t, err, "must set one of")
	})

	t.Run("several kinds", func(t *testing.T) {
		_, err := carrier(t, `#[codama(discriminator(size = 8, field = "kind"))]`)
		require.ErrorContains(t, err, "already set to `size`")
	})
}

func TestEnumDiscriminatorDirective(t *testing.T) {
	d := directive(t, `#[codama(enum_discriminator(name = "instruction_kind", size = number(u32)))]`).(*EnumDiscriminatorDirective)
	require.Equal(t, nodes.CamelCaseString("instructionKind"), d.Name)
	require.Equal(t, nodes.LE(nodes.U32), d.Size.NestedTypeNode())

	_, err := carrier(t, `#[codama(enum_discriminator(size = string))]`)
	require.ErrorContains(t, err, "expected a number type")
}

func TestSeedDirective(t *testing.T) {
	t.Run("variable", func(t *testing.T) {
		s := directive(t, `#[codama(seed(name = "authority", type = public_key))]`).(*SeedDirective)
		require.Equal(t, SeedVariable, s.Kind)
		require.Equal(t, nodes.CamelCaseString("authority"), s.Name)
		require.Equal(t, &nodes.PublicKeyTypeNode{}, s.Type)
	})

	t.Run("constant", func(t *testing.T) {
		s := directive(t, `#[codama(seed(type = string(utf8), value = "counter"))]`).(*SeedDirective)
		require.Equal(t, SeedConstant, s.Kind)
		require.Equal(t, &nodes.StringValueNode{String: "counter"}, s.Value)
	})

	t.Run("linked", func(t *testing.T) {
		s := directive(t, `#[codama(seed(name = "owner"))]`).(*SeedDirective)
		require.Equal(t, SeedLinked, s.Kind)
	})

	t.Run("name and value are exclusive", func(t *testing.T) {
		_, err := carrier(t, `#[codama(seed(name = "owner", type = public_key, value = 1))]`)
		require.ErrorContains(t, err, "not allowed with `name`")
	})

	t.Run("something is required", func(t *testing.T) {
		_, err := carrier(t, `#[codama(seed(value = 1))]`)
		require.ErrorContains(t, err, "requires a `type`")
	})
}

func TestModifierDirectives(t *testing.T) {
	name := directive(t, `#[codama(name = "new_name")]`).(*NameDirective)
	require.Equal(t, nodes.CamelCaseString("newName"), name.Name)

	enc := directive(t, `#[codama(encoding = base64)]`).(*EncodingDirective)
	require.Equal(t, nodes.Base64, enc.Encoding)

	size := directive(t, `#[codama(fixed_size = 32)]`).(*FixedSizeDirective)
	require.Equal(t, uint64(32), size.Size)

	prefix := directive(t, `#[codama(size_prefix = number(u16))]`).(*SizePrefixDirective)
	require.Equal(t, nodes.LE(nodes.U16), prefix.Prefix.NestedTypeNode())

	_, err := carrier(t, `#[codama(encoding = base32)]`)
	require.ErrorContains(t, err, "invalid encoding `base32`")
}

func ptr[T any](v T) *T { return &v }
