package visitors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/stores"
	"github.com/calumari/codama/syntax"
)

func parse(t *testing.T, src string) *koroks.RootKorok {
	t.Helper()
	store, err := stores.FromSource(src)
	require.NoError(t, err)
	root, err := koroks.Parse(store)
	require.NoError(t, err)
	return root
}

func visit(t *testing.T, src string) *koroks.RootKorok {
	t.Helper()
	root := parse(t, src)
	require.NoError(t, Run(root, DefaultPipeline()...))
	return root
}

func program(t *testing.T, src string) *nodes.ProgramNode {
	t.Helper()
	root := visit(t, src)
	require.IsType(t, &nodes.RootNode{}, root.Node)
	return root.Node.(*nodes.RootNode).Program
}

func stringType() nodes.TypeNode {
	return nodes.SizePrefixed(nodes.String(nodes.UTF8), nodes.LE(nodes.U32))
}

func TestVisit(t *testing.T) {
	t.Run("walks children without a hook", func(t *testing.T) {
		root := parse(t, `
pub struct A { x: u8 }
mod m { pub struct B(u16, u32); }
`)
		var fields []string
		require.NoError(t, Visit(Uniform(func(k koroks.Korok, children func() error) error {
			if f, ok := k.(*koroks.FieldKorok); ok {
				fields = append(fields, f.Ident())
			}
			return children()
		}), root))
		require.Equal(t, []string{"x", "0", "1"}, fields)
	})

	t.Run("item hooks see every item first", func(t *testing.T) {
		root := parse(t, `
pub struct A;
pub enum B { C }
mod m { pub struct D; }
`)
		var seen []string
		v := &itemRecorder{seen: &seen}
		require.NoError(t, Visit(v, root))
		require.Equal(t, []string{"A", "B", "m"}, seen)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		root := parse(t, `pub struct A; pub struct B;`)
		calls := 0
		err := Visit(Uniform(func(k koroks.Korok, children func() error) error {
			if _, ok := k.(*koroks.StructKorok); ok {
				calls++
				return errors.NodeNotFound()
			}
			return children()
		}), root)
		require.ErrorIs(t, err, errors.ErrNodeNotFound)
		require.Equal(t, 1, calls)
	})
}

type itemRecorder struct {
	seen *[]string
}

func (r *itemRecorder) VisitItem(k koroks.ItemKorok) error {
	*r.seen = append(*r.seen, k.Ident())
	return nil
}

type kindRecorder struct {
	name string
	log  *[]string
}

func (r *kindRecorder) VisitStruct(k *koroks.StructKorok) error {
	*r.log = append(*r.log, r.name+":"+k.Ident())
	return nil
}

func TestCombinators(t *testing.T) {
	t.Run("compose runs visitors in insertion order", func(t *testing.T) {
		root := parse(t, `pub struct A; pub struct B;`)
		var log []string
		c := Compose(&kindRecorder{name: "first", log: &log}).Add(&kindRecorder{name: "second", log: &log})
		require.NoError(t, Visit(c, root))
		require.Equal(t, []string{"first:A", "first:B", "second:A", "second:B"}, log)
	})

	t.Run("compose fans out per korok below the root", func(t *testing.T) {
		root := parse(t, `pub struct A; pub struct B;`)
		var log []string
		c := Compose(&kindRecorder{name: "first", log: &log}, &kindRecorder{name: "second", log: &log})
		for _, item := range root.Crates[0].Items {
			require.NoError(t, Visit(c, item))
		}
		require.Equal(t, []string{"first:A", "second:A", "first:B", "second:B"}, log)
	})

	t.Run("filter reaches nested items", func(t *testing.T) {
		root := parse(t, `
pub struct Keep;
pub struct Drop;
mod m { pub struct KeepToo; }
`)
		var log []string
		f := Filter(func(k koroks.ItemKorok) bool {
			return strings.HasPrefix(k.Ident(), "Keep")
		}, &kindRecorder{name: "kept", log: &log})
		require.NoError(t, Visit(f, root))
		require.Equal(t, []string{"kept:Keep", "kept:KeepToo"}, log)
	})

	t.Run("collect gathers values in traversal order", func(t *testing.T) {
		root := parse(t, `
pub struct A { x: u8, y: bool }
pub enum E { V(u64) }
`)
		types := CollectFrom(root, func(k koroks.Korok) (string, bool) {
			ty, ok := k.(*koroks.TypeKorok)
			if !ok {
				return "", false
			}
			return ty.Ast.String(), true
		})
		require.Equal(t, []string{"u8", "bool", "u64"}, types)
	})
}

func TestInferBorsh(t *testing.T) {
	cases := []struct {
		typ  string
		want nodes.TypeNode
	}{
		{"bool", nodes.Boolean()},
		{"u8", nodes.LE(nodes.U8)},
		{"i128", nodes.LE(nodes.I128)},
		{"f64", nodes.LE(nodes.F64)},
		{"std::primitive::u16", nodes.LE(nodes.U16)},
		{"String", stringType()},
		{"Pubkey", &nodes.PublicKeyTypeNode{}},
		{"solana_program::pubkey::Pubkey", &nodes.PublicKeyTypeNode{}},
		{"Vec<u8>", &nodes.ArrayTypeNode{Item: nodes.LE(nodes.U8), Count: nodes.Prefixed(nodes.LE(nodes.U32))}},
		{"Option<u64>", nodes.Option(nodes.LE(nodes.U64))},
		{"HashSet<u32>", &nodes.SetTypeNode{Item: nodes.LE(nodes.U32), Count: nodes.Prefixed(nodes.LE(nodes.U32))}},
		{"BTreeMap<String, bool>", &nodes.MapTypeNode{Key: stringType(), Value: nodes.Boolean(), Count: nodes.Prefixed(nodes.LE(nodes.U32))}},
		{"[u8; 32]", &nodes.ArrayTypeNode{Item: nodes.LE(nodes.U8), Count: &nodes.FixedCountNode{Value: 32}}},
		{"(u8, bool)", nodes.Tuple(nodes.LE(nodes.U8), nodes.Boolean())},
		{"Option<Vec<Pubkey>>", nodes.Option(&nodes.ArrayTypeNode{Item: &nodes.PublicKeyTypeNode{}, Count: nodes.Prefixed(nodes.LE(nodes.U32))})},
		{"my_crate::Config", nodes.DefinedTypeLink("config")},
		{"Vec", nil},
		{"Vec<'a>", nil},
		{"Option<u8, u16>", nil},
		{"()", nil},
		{"&u8", nil},
		{"[u8; N]", nil},
	}
	for _, c := range cases {
		t.Run(c.typ, func(t *testing.T) {
			typ, err := syntax.ParseType(c.typ)
			require.NoError(t, err)
			require.Equal(t, c.want, InferBorsh(typ))
		})
	}
}

func TestSetLinkTypes(t *testing.T) {
	root := parse(t, `
pub struct Holder<'a> {
    a: &'a u8,
    b: &'a [u16],
    c: [Account; N],
    d: Vec,
    e: (u8, Config),
}
`)
	require.NoError(t, Run(root, &SetBorshTypes{}, &SetLinkTypes{}))
	fields := root.Crates[0].Items[0].(*koroks.StructKorok).Fields.All
	got := make([]nodes.Node, len(fields))
	for i, f := range fields {
		got[i] = f.Type.Node
	}
	require.Equal(t, []nodes.Node{
		nodes.LE(nodes.U8),
		&nodes.ArrayTypeNode{Item: nodes.LE(nodes.U16), Count: &nodes.RemainderCountNode{}},
		&nodes.ArrayTypeNode{Item: nodes.DefinedTypeLink("account"), Count: &nodes.RemainderCountNode{}},
		nodes.DefinedTypeLink("vec"),
		nodes.Tuple(nodes.LE(nodes.U8), nodes.DefinedTypeLink("config")),
	}, got)
	for _, f := range fields {
		require.IsType(t, &nodes.StructFieldTypeNode{}, f.Node)
	}
}

func TestDefaultPipeline(t *testing.T) {
	t.Run("type override on a unit struct", func(t *testing.T) {
		p := program(t, `
#[codama(type = boolean)]
struct Membership;
`)
		require.Equal(t, []*nodes.DefinedTypeNode{{Name: "membership", Type: nodes.Boolean()}}, p.DefinedTypes)
	})

	t.Run("node override with an explicit endianness", func(t *testing.T) {
		p := program(t, `
#[codama(node(number_type(u16, le)))]
struct Amount(u64);
`)
		require.Equal(t, nodes.LE(nodes.U16), p.DefinedTypes[0].Type)
	})

	t.Run("struct of native types", func(t *testing.T) {
		p := program(t, `pub struct Person { name: String, age: u8, member: bool }`)
		require.Equal(t, []*nodes.DefinedTypeNode{{
			Name: "person",
			Type: nodes.Struct(
				nodes.Field("name", stringType()),
				nodes.Field("age", nodes.LE(nodes.U8)),
				nodes.Field("member", nodes.Boolean()),
			),
		}}, p.DefinedTypes)
	})

	t.Run("newtypes unwrap their single field", func(t *testing.T) {
		p := program(t, `struct Slot(u64);`)
		require.Equal(t, []*nodes.DefinedTypeNode{{Name: "slot", Type: nodes.LE(nodes.U64)}}, p.DefinedTypes)
	})

	t.Run("enum with every variant shape", func(t *testing.T) {
		p := program(t, `enum Message { Quit, Move { x: i32, y: i32 } = 42, Write(String) }`)
		disc := uint64(42)
		require.Equal(t, []*nodes.DefinedTypeNode{{
			Name: "message",
			Type: nodes.Enum(
				&nodes.EnumEmptyVariantTypeNode{Name: "quit"},
				&nodes.EnumStructVariantTypeNode{
					Name:          "move",
					Discriminator: &disc,
					Struct:        nodes.Nest(nodes.Struct(nodes.Field("x", nodes.LE(nodes.I32)), nodes.Field("y", nodes.LE(nodes.I32)))),
				},
				&nodes.EnumTupleVariantTypeNode{Name: "write", Tuple: nodes.Nest(nodes.Tuple(stringType()))},
			),
		}}, p.DefinedTypes)
	})

	t.Run("empty bodies leave nil fields and variants", func(t *testing.T) {
		p := program(t, "pub struct A {}\npub struct B();\nenum E {}")
		require.Len(t, p.DefinedTypes, 3)
		require.Equal(t, nodes.Struct(), p.DefinedTypes[0].Type)
		require.Nil(t, p.DefinedTypes[0].Type.(*nodes.StructTypeNode).Fields)
		require.Equal(t, nodes.Tuple(), p.DefinedTypes[1].Type)
		require.Nil(t, p.DefinedTypes[2].Type.(*nodes.EnumTypeNode).Variants)
	})

	t.Run("only literal discriminants are kept", func(t *testing.T) {
		p := program(t, `enum E { A = 1 + 2, B = 7, C = -1 }`)
		seven := uint64(7)
		require.Equal(t, nodes.Enum(
			&nodes.EnumEmptyVariantTypeNode{Name: "a"},
			&nodes.EnumEmptyVariantTypeNode{Name: "b", Discriminator: &seven},
			&nodes.EnumEmptyVariantTypeNode{Name: "c"},
		), p.DefinedTypes[0].Type)
	})

	t.Run("instruction accounts declared on the struct", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaInstruction)]
#[codama(account(name = "authority", signer))]
#[codama(account(name = "payer", signer, writable))]
struct MyInstructionWithoutAccountFields;
`)
		require.Empty(t, p.DefinedTypes)
		require.Equal(t, []*nodes.InstructionNode{{
			Name:                    "myInstructionWithoutAccountFields",
			OptionalAccountStrategy: nodes.OptionalAccountProgramID,
			Accounts: []*nodes.InstructionAccountNode{
				{Name: "authority", IsSigner: nodes.SignerTrue},
				{Name: "payer", IsSigner: nodes.SignerTrue, IsWritable: true},
			},
		}}, p.Instructions)
	})

	t.Run("every type korok has a node", func(t *testing.T) {
		root := visit(t, `
pub struct A<'a> { a: &'a str, b: Option<Unknown>, c: (u8, [Foo; 3]), d: *const u8 }
pub enum B { C(HashMap<u8>), D { e: Vec } }
pub const X: &str = "x";
impl A<'_> { const Y: Weird = 1; type Z = Other; }
`)
		missing := CollectFrom(root, func(k koroks.Korok) (string, bool) {
			ty, ok := k.(*koroks.TypeKorok)
			if !ok || ty.Node != nil {
				return "", false
			}
			return ty.Ast.String(), true
		})
		require.Empty(t, missing)
	})

	t.Run("docs reach defined types and fields", func(t *testing.T) {
		p := program(t, `
/// A point on the plane.
pub struct Point {
    /// Horizontal.
    x: i64,
    y: i64,
}
`)
		require.Equal(t, []string{"A point on the plane."}, p.DefinedTypes[0].Docs)
		fields := p.DefinedTypes[0].Type.(*nodes.StructTypeNode).Fields
		require.Equal(t, []string{"Horizontal."}, fields[0].Docs)
		require.Nil(t, fields[1].Docs)
	})

	t.Run("items nested in modules reach the program", func(t *testing.T) {
		p := program(t, `
pub struct A;
mod inner {
    pub struct B;
    mod deeper { pub struct C; }
}
pub struct D;
`)
		var names []nodes.CamelCaseString
		for _, d := range p.DefinedTypes {
			names = append(names, d.Name)
		}
		require.Equal(t, []nodes.CamelCaseString{"a", "b", "c", "d"}, names)
	})
}

func TestApplyTypeModifiers(t *testing.T) {
	t.Run("field modifiers", func(t *testing.T) {
		p := program(t, `
pub struct Profile {
    #[codama(encoding = base58)]
    key: String,
    #[codama(fixed_size = 32)]
    label: String,
    #[codama(size_prefix = number(u8))]
    bio: String,
    #[codama(name = "is_active")]
    #[codama(default_value = true)]
    active: bool,
}
`)
		fields := p.DefinedTypes[0].Type.(*nodes.StructTypeNode).Fields
		require.Equal(t, nodes.SizePrefixed(nodes.String(nodes.Base58), nodes.LE(nodes.U32)), fields[0].Type)
		require.Equal(t, &nodes.FixedSizeTypeNode{Size: 32, Type: nodes.String(nodes.UTF8)}, fields[1].Type)
		require.Equal(t, nodes.SizePrefixed(nodes.String(nodes.UTF8), nodes.LE(nodes.U8)), fields[2].Type)
		require.Equal(t, nodes.CamelCaseString("isActive"), fields[3].Name)
		require.Equal(t, &nodes.BooleanValueNode{Boolean: true}, fields[3].DefaultValue)
	})

	t.Run("encoding requires a string", func(t *testing.T) {
		root := parse(t, `pub struct S { #[codama(encoding = base58)] n: u8 }`)
		err := Run(root, DefaultPipeline()...)
		require.ErrorIs(t, err, errors.ErrCompilation)
	})

	t.Run("item modifiers apply to the combined type", func(t *testing.T) {
		p := program(t, `
#[codama(name = "label")]
#[codama(fixed_size = 8)]
pub struct Tag(String);
`)
		require.Equal(t, []*nodes.DefinedTypeNode{{
			Name: "label",
			Type: &nodes.FixedSizeTypeNode{Size: 8, Type: nodes.String(nodes.UTF8)},
		}}, p.DefinedTypes)
	})

	t.Run("enum discriminator size", func(t *testing.T) {
		p := program(t, `
#[codama(enum_discriminator(size = number(u32)))]
pub enum Kind { A, B }
`)
		enum := p.DefinedTypes[0].Type.(*nodes.EnumTypeNode)
		require.Equal(t, nodes.LE(nodes.U32), enum.Size.NestedTypeNode())
	})
}

func TestSetAccounts(t *testing.T) {
	t.Run("accounts record a fixed size", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaAccount)]
#[codama(discriminator(size = 48))]
pub struct Counter { authority: Pubkey, count: u64, config: Config }

pub struct Config { flags: u8, limits: [u16; 2] }
`)
		require.Len(t, p.Accounts, 1)
		account := p.Accounts[0]
		require.Equal(t, nodes.CamelCaseString("counter"), account.Name)
		require.NotNil(t, account.Size)
		require.Equal(t, uint64(32+8+1+4), *account.Size)
		require.Equal(t, []nodes.DiscriminatorNode{&nodes.SizeDiscriminatorNode{Size: 48}}, account.Discriminators)
		require.Len(t, account.Data.NestedTypeNode().Fields, 3)
		require.Len(t, p.DefinedTypes, 1)
	})

	t.Run("variable sizes are omitted", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaAccount)]
pub struct Profile { name: String }
`)
		require.Nil(t, p.Accounts[0].Size)
	})

	t.Run("seeds declare a pda", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaAccount)]
#[codama(seed(type = string(utf8), value = "counter"))]
#[codama(seed(name = "authority"))]
#[codama(seed(name = "index", type = number(u8)))]
pub struct Counter {
    /// The owner.
    authority: Pubkey,
    count: u64,
}
`)
		require.Equal(t, &nodes.PdaLinkNode{Name: "counter"}, p.Accounts[0].Pda)
		require.Equal(t, []*nodes.PdaNode{{
			Name: "counter",
			Seeds: []nodes.PdaSeedNode{
				&nodes.ConstantPdaSeedNode{Type: nodes.String(nodes.UTF8), Value: &nodes.StringValueNode{String: "counter"}},
				&nodes.VariablePdaSeedNode{Name: "authority", Docs: []string{"The owner."}, Type: &nodes.PublicKeyTypeNode{}},
				&nodes.VariablePdaSeedNode{Name: "index", Type: nodes.LE(nodes.U8)},
			},
		}}, p.Pdas)
	})

	t.Run("linked seeds must name a field", func(t *testing.T) {
		root := parse(t, `
#[derive(CodamaAccount)]
#[codama(seed(name = "owner"))]
pub struct Counter { count: u64 }
`)
		err := Run(root, DefaultPipeline()...)
		require.ErrorIs(t, err, errors.ErrCompilation)
		require.ErrorContains(t, err, "owner")
	})

	t.Run("standalone pdas", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaPda)]
#[codama(seed(type = string(utf8), value = "config"))]
pub struct ConfigPda;
`)
		require.Empty(t, p.Accounts)
		require.Len(t, p.Pdas, 1)
		require.Equal(t, nodes.CamelCaseString("configPda"), p.Pdas[0].Name)
	})

	t.Run("enums are not accounts", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaAccount)]
pub enum State { Open, Closed }
`)
		require.Empty(t, p.Accounts)
		require.Len(t, p.DefinedTypes, 1)
	})
}

func TestSetInstructions(t *testing.T) {
	t.Run("struct fields become accounts and arguments", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaInstruction)]
#[codama(discriminator(bytes = [1]))]
#[codama(argument("bump", number(u8)))]
pub struct Increment {
    #[codama(account(signer))]
    authority: Pubkey,
    #[codama(account(writable))]
    counter: Pubkey,
    /// How much.
    amount: u64,
}
`)
		require.Len(t, p.Instructions, 1)
		ix := p.Instructions[0]
		require.Equal(t, nodes.CamelCaseString("increment"), ix.Name)
		require.Equal(t, []*nodes.InstructionAccountNode{
			{Name: "authority", IsSigner: nodes.SignerTrue},
			{Name: "counter", IsWritable: true},
		}, ix.Accounts)
		require.Equal(t, []*nodes.InstructionArgumentNode{
			{Name: "amount", Docs: []string{"How much."}, Type: nodes.LE(nodes.U64)},
			{Name: "bump", Type: nodes.LE(nodes.U8)},
		}, ix.Arguments)
		require.Len(t, ix.Discriminators, 1)
	})

	t.Run("enum variants become instructions", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaInstructions)]
#[codama(enum_discriminator(name = "kind", size = number(u16)))]
pub enum CounterInstruction {
    #[codama(account(name = "payer", signer, writable))]
    Create { initial: u64 },
    Increment(u32, bool),
    Close = 7,
    Reset,
}
`)
		require.Empty(t, p.DefinedTypes)
		require.Len(t, p.Instructions, 4)

		create := p.Instructions[0]
		require.Equal(t, nodes.CamelCaseString("create"), create.Name)
		require.Equal(t, []*nodes.InstructionAccountNode{{Name: "payer", IsSigner: nodes.SignerTrue, IsWritable: true}}, create.Accounts)
		require.Equal(t, []*nodes.InstructionArgumentNode{
			{
				Name:                 "kind",
				DefaultValueStrategy: nodes.DefaultValueOmitted,
				Type:                 nodes.LE(nodes.U16),
				DefaultValue:         &nodes.NumberValueNode{Number: nodes.Uint(0)},
			},
			{Name: "initial", Type: nodes.LE(nodes.U64)},
		}, create.Arguments)
		require.Equal(t, []nodes.DiscriminatorNode{&nodes.FieldDiscriminatorNode{Name: "kind"}}, create.Discriminators)

		increment := p.Instructions[1]
		require.Equal(t, []nodes.CamelCaseString{"kind", "arg0", "arg1"}, argumentNames(increment))

		values := make([]nodes.InstructionInputValueNode, len(p.Instructions))
		for i, ix := range p.Instructions {
			values[i] = ix.Arguments[0].DefaultValue
		}
		require.Equal(t, []nodes.InstructionInputValueNode{
			&nodes.NumberValueNode{Number: nodes.Uint(0)},
			&nodes.NumberValueNode{Number: nodes.Uint(1)},
			&nodes.NumberValueNode{Number: nodes.Uint(7)},
			&nodes.NumberValueNode{Number: nodes.Uint(8)},
		}, values)
	})

	t.Run("the discriminator defaults to a u8 named discriminator", func(t *testing.T) {
		p := program(t, `
#[derive(CodamaInstructions)]
pub enum Ix { Only }
`)
		arg := p.Instructions[0].Arguments[0]
		require.Equal(t, nodes.CamelCaseString("discriminator"), arg.Name)
		require.Equal(t, nodes.LE(nodes.U8), arg.Type)
	})

	t.Run("struct level accounts need a name", func(t *testing.T) {
		root := parse(t, `
#[derive(CodamaInstruction)]
#[codama(account(signer))]
pub struct Ix;
`)
		require.ErrorIs(t, Run(root, DefaultPipeline()...), errors.ErrCompilation)
	})
}

func argumentNames(ix *nodes.InstructionNode) []nodes.CamelCaseString {
	out := make([]nodes.CamelCaseString, len(ix.Arguments))
	for i, a := range ix.Arguments {
		out[i] = a.Name
	}
	return out
}

func TestSetErrors(t *testing.T) {
	p := program(t, `
#[derive(CodamaErrors, thiserror::Error)]
pub enum CounterError {
    /// Raised on overflow.
    #[error("Counter overflowed")]
    Overflow,
    #[codama(error(6000, "Invalid authority"))]
    InvalidAuthority,
    #[error("Unknown failure")]
    Unknown,
    Underflow = 10,
    #[codama(error(message = "Closed"))]
    #[error("ignored")]
    Closed,
}
`)
	require.Empty(t, p.DefinedTypes)
	require.Equal(t, []*nodes.ErrorNode{
		{Name: "overflow", Code: 0, Message: "Counter overflowed", Docs: []string{"Raised on overflow."}},
		{Name: "invalidAuthority", Code: 6000, Message: "Invalid authority"},
		{Name: "unknown", Code: 6001, Message: "Unknown failure"},
		{Name: "underflow", Code: 10},
		{Name: "closed", Code: 11, Message: "Closed"},
	}, p.Errors)
}

func TestSetProgramMetadata(t *testing.T) {
	t.Run("manifest and declare_id", func(t *testing.T) {
		store, err := stores.LoadArchive([]byte(`
-- Cargo.toml --
[package]
name = "counter-program"
version = "1.2.3"

[package.metadata.solana]
program-id = "Manifest1111111111111111111111111111111111"
-- src/lib.rs --
mod state;
declare_id!("Declared111111111111111111111111111111111");
-- src/state.rs --
pub struct Counter { count: u64 }
`))
		require.NoError(t, err)
		root, err := koroks.Parse(store)
		require.NoError(t, err)
		require.NoError(t, Run(root, DefaultPipeline()...))

		p := root.Node.(*nodes.RootNode).Program
		require.Equal(t, nodes.CamelCaseString("counterProgram"), p.Name)
		require.Equal(t, "1.2.3", p.Version)
		require.Equal(t, "Declared111111111111111111111111111111111", p.PublicKey)
		require.Len(t, p.DefinedTypes, 1)
	})

	t.Run("name directive wins", func(t *testing.T) {
		p := program(t, `
#![codama(name = "my_program")]
pub struct A;
`)
		require.Equal(t, nodes.CamelCaseString("myProgram"), p.Name)
	})

	t.Run("existing metadata is kept", func(t *testing.T) {
		root := parse(t, `solana_program::declare_id!("Declared111111111111111111111111111111111");`)
		root.Crates[0].Node = &nodes.ProgramNode{PublicKey: "Preset"}
		require.NoError(t, Run(root, DefaultPipeline()...))
		require.Equal(t, "Preset", root.Node.(*nodes.RootNode).Program.PublicKey)
	})
}

func TestCombineModules(t *testing.T) {
	t.Run("workspaces produce additional programs", func(t *testing.T) {
		store, err := stores.LoadArchive([]byte(`
-- programs/alpha/Cargo.toml --
[package]
name = "alpha"
-- programs/alpha/src/lib.rs --
pub struct A;
-- programs/beta/Cargo.toml --
[package]
name = "beta"
-- programs/beta/src/lib.rs --
pub struct B;
`))
		require.NoError(t, err)
		root, err := koroks.Parse(store)
		require.NoError(t, err)
		require.NoError(t, Run(root, DefaultPipeline()...))

		idl := root.Node.(*nodes.RootNode)
		require.Equal(t, nodes.CamelCaseString("alpha"), idl.Program.Name)
		require.Len(t, idl.AdditionalPrograms, 1)
		require.Equal(t, nodes.CamelCaseString("beta"), idl.AdditionalPrograms[0].Name)
		require.Equal(t, nodes.CamelCaseString("b"), idl.AdditionalPrograms[0].DefinedTypes[0].Name)
	})

	t.Run("an empty tree yields an empty program", func(t *testing.T) {
		root := &koroks.RootKorok{}
		require.NoError(t, Visit(&CombineModules{}, root))
		require.Equal(t, nodes.Root(&nodes.ProgramNode{}), root.Node)
	})

	t.Run("crates hold a root of their own", func(t *testing.T) {
		root := visit(t, `pub struct A;`)
		require.IsType(t, &nodes.RootNode{}, root.Crates[0].Node)
	})
}

func TestDebug(t *testing.T) {
	root := visit(t, `
pub struct Slot(u64);
mod m { pub enum E { A } }
`)
	var buf bytes.Buffer
	d := Debug(&buf, false)
	require.NoError(t, Visit(d, root))
	require.NoError(t, d.Err())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.True(t, strings.HasPrefix(lines[0], "root: {"))
	require.True(t, strings.HasPrefix(lines[1], "  crate: {"))
	require.True(t, strings.HasPrefix(lines[2], "    struct Slot: {"))
	require.Contains(t, lines[2], `"kind":"definedTypeNode"`)
	require.Contains(t, buf.String(), "        type u64: {")
	require.Contains(t, buf.String(), "    module m: {")
	require.Contains(t, buf.String(), "        enum_variant A: {")
}
