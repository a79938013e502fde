package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	t.Run("structs with named, unnamed and unit fields", func(t *testing.T) {
		f, err := ParseFile("lib.rs", `
			#[derive(CodamaType)]
			pub struct Named<'a, T: Copy> where T: Clone {
				/// The amount.
				pub amount: u64,
				owner: &'a Pubkey,
			}
			struct Tuple(pub u8, Vec<T>);
			struct Unit;
		`)
		require.NoError(t, err)
		require.Len(t, f.Items, 3)

		named := f.Items[0].(*ItemStruct)
		require.Equal(t, "Named", named.Ident)
		require.Equal(t, VisPublic, named.Vis)
		require.Len(t, named.Attrs, 1)
		require.Equal(t, FieldsNamed, named.Fields.Style)
		require.Equal(t, "amount", named.Fields.List[0].Name())
		require.Equal(t, "doc", named.Fields.List[0].Attrs[0].Path.String())
		require.Equal(t, "&'a Pubkey", named.Fields.List[1].Type.String())

		tuple := f.Items[1].(*ItemStruct)
		require.Equal(t, FieldsUnnamed, tuple.Fields.Style)
		require.Equal(t, "1", tuple.Fields.List[1].Name())
		require.Equal(t, "Vec<T>", tuple.Fields.List[1].Type.String())

		require.Equal(t, FieldsUnit, f.Items[2].(*ItemStruct).Fields.Style)
	})

	t.Run("enum variants carry fields and discriminants", func(t *testing.T) {
		f, err := ParseFile("lib.rs", `
			enum Direction {
				Up = 1,
				Down { speed: u8 },
				Left(u32, u32),
			}
		`)
		require.NoError(t, err)
		e := f.Items[0].(*ItemEnum)
		require.Len(t, e.Variants, 3)
		n, err := LitIntAs[uint8](e.Variants[0].Discriminant)
		require.NoError(t, err)
		require.Equal(t, uint8(1), n)
		require.Equal(t, FieldsNamed, e.Variants[1].Fields.Style)
		require.Len(t, e.Variants[2].Fields.List, 2)
	})

	t.Run("file and inline modules", func(t *testing.T) {
		f, err := ParseFile("lib.rs", `
			#![allow(unused)]
			mod state;
			pub mod inner {
				//! Inner docs.
				struct A;
			}
		`)
		require.NoError(t, err)
		require.Len(t, f.Attrs, 1)
		fileMod := f.Items[0].(*ItemMod)
		require.False(t, fileMod.Inline)
		inline := f.Items[1].(*ItemMod)
		require.True(t, inline.Inline)
		require.Len(t, inline.InnerAttrs, 1)
		require.Len(t, inline.Content, 1)
	})

	t.Run("unmodelled items are kept opaque", func(t *testing.T) {
		f, err := ParseFile("lib.rs", `
			use std::collections::{HashMap, HashSet};
			declare_id!("11111111111111111111111111111111");
			pub fn process(a: u8) -> Result<(), Error> { Ok(()) }
			impl<T> Trait for Foo<T> where T: Copy {
				const SIZE: usize = 8;
				fn go(&self) {}
			}
			const MAX: u16 = 1 << 8;
			trait Empty {}
			type Alias = u8;
		`)
		require.NoError(t, err)
		require.Len(t, f.Items, 7)
		require.Equal(t, "use", f.Items[0].(*ItemOther).Kind)
		macro := f.Items[1].(*ItemMacro)
		require.True(t, macro.Path.IsIdent("declare_id"))
		require.Equal(t, "fn", f.Items[2].(*ItemOther).Kind)
		impl := f.Items[3].(*ItemImpl)
		require.Equal(t, "Trait", impl.Trait.String())
		require.Len(t, impl.Items, 2)
		c := f.Items[4].(*ItemConst)
		bin := c.Expr.(*ExprBinary)
		require.Equal(t, "<<", bin.Op)
	})

	t.Run("attributes without an item are rejected", func(t *testing.T) {
		_, err := ParseFile("lib.rs", "#[derive(Debug)]")
		require.Error(t, err)
	})
}

func TestParseType(t *testing.T) {
	cases := map[string]string{
		"u8":                    "u8",
		"Vec<Option<u8>>":       "Vec<Option<u8>>",
		"::std::vec::Vec<u8>":   "::std::vec::Vec<u8>",
		"HashMap<String, u64>":  "HashMap<String, u64>",
		"[u8; 32]":              "[u8; 32]",
		"(u8, String)":          "(u8, String)",
		"(u8)":                  "u8",
		"&mut [u8]":             "&mut [u8]",
		"Box<dyn Fn(u8) -> u8>": "Box<dyn Fn(u8) -> u8>",
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			ty, err := ParseType(src)
			require.NoError(t, err)
			require.Equal(t, want, ty.String())
		})
	}

	t.Run("array length is an expression", func(t *testing.T) {
		ty, err := ParseType("[u8; 4]")
		require.NoError(t, err)
		n, err := LitIntAs[int](ty.(*TypeArray).Len)
		require.NoError(t, err)
		require.Equal(t, 4, n)
	})
}

func TestParseExpr(t *testing.T) {
	t.Run("precedence", func(t *testing.T) {
		e, err := ParseExpr("1 + 2 * 3")
		require.NoError(t, err)
		bin := e.(*ExprBinary)
		require.Equal(t, "+", bin.Op)
		require.Equal(t, "*", bin.Y.(*ExprBinary).Op)
	})

	t.Run("negative literal", func(t *testing.T) {
		e, err := ParseExpr("-42")
		require.NoError(t, err)
		n, err := LitIntAs[int32](e)
		require.NoError(t, err)
		require.Equal(t, int32(-42), n)
		_, err = LitIntAs[uint32](e)
		require.Error(t, err)
	})

	t.Run("out of range literal", func(t *testing.T) {
		e, err := ParseExpr("256")
		require.NoError(t, err)
		_, err = LitIntAs[uint8](e)
		require.Error(t, err)
	})

	t.Run("calls, arrays and macros", func(t *testing.T) {
		e, err := ParseExpr(`seed("a", [1, 2], vec![3])`)
		require.NoError(t, err)
		call := e.(*ExprCall)
		require.Len(t, call.Args, 3)
		require.Len(t, call.Args[1].(*ExprArray).Elems, 2)
		require.True(t, call.Args[2].(*ExprMacro).Path.IsIdent("vec"))
	})

	t.Run("casts", func(t *testing.T) {
		e, err := ParseExpr("x as u64 + 1")
		require.NoError(t, err)
		bin := e.(*ExprBinary)
		require.IsType(t, &ExprCast{}, bin.X)
	})

	t.Run("floats accept a sign and integers", func(t *testing.T) {
		e, err := ParseExpr("-2.5")
		require.NoError(t, err)
		f, err := LitFloat64(e)
		require.NoError(t, err)
		require.Equal(t, -2.5, f)

		e, err = ParseExpr("3")
		require.NoError(t, err)
		f, err = LitFloat64(e)
		require.NoError(t, err)
		require.Equal(t, 3.0, f)

		e, err = ParseExpr(`"x"`)
		require.NoError(t, err)
		_, err = LitFloat64(e)
		require.Error(t, err)
	})

	t.Run("booleans", func(t *testing.T) {
		e, err := ParseExpr("true")
		require.NoError(t, err)
		b, err := LitBoolean(e)
		require.NoError(t, err)
		require.True(t, b)
	})
}
