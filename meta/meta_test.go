package meta

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/syntax"
)

func parse(t *testing.T, src string) Meta {
	t.Helper()
	tokens, err := syntax.Tokenize("lib.rs", src)
	require.NoError(t, err)
	m, err := Parse(tokens)
	require.NoError(t, err)
	return m
}

func TestParse(t *testing.T) {
	t.Run("bare path", func(t *testing.T) {
		m := parse(t, "signer")
		p, err := AsPath(m)
		require.NoError(t, err)
		require.True(t, p.IsIdent("signer"))
	})

	t.Run("nested path lists", func(t *testing.T) {
		m := parse(t, `codama(type = struct(field("age", number(u32))))`)
		items, err := AsList(m)
		require.NoError(t, err)
		require.Len(t, items, 1)

		pv, err := AsPathValue(items[0])
		require.NoError(t, err)
		require.True(t, pv.Path.IsIdent("type"))

		st, err := AsPathList(pv.Value)
		require.NoError(t, err)
		require.True(t, Is(st, "struct"))
		field := st.Items[0].(*PathList)
		name, err := String(field.Items[0])
		require.NoError(t, err)
		require.Equal(t, "age", name)
	})

	t.Run("booleans are expressions, not paths", func(t *testing.T) {
		m := parse(t, "true")
		b, err := Bool(m)
		require.NoError(t, err)
		require.True(t, b)
		_, err = AsPath(m)
		require.Error(t, err)
	})

	t.Run("bare lists read as arrays", func(t *testing.T) {
		m := parse(t, "[1, 2, 3]")
		items, err := AsList(m)
		require.NoError(t, err)
		require.Len(t, items, 3)
		e, err := AsExpr(m)
		require.NoError(t, err)
		require.Len(t, e.(*syntax.ExprArray).Elems, 3)
	})

	t.Run("integers narrow to the requested width", func(t *testing.T) {
		m := parse(t, "300")
		n, err := Int[uint16](m)
		require.NoError(t, err)
		require.Equal(t, uint16(300), n)
		_, err = Int[uint8](m)
		require.Error(t, err)
	})

	t.Run("keywords are accepted as paths", func(t *testing.T) {
		m := parse(t, "struct(type = u8)")
		require.True(t, Is(m, "struct"))
	})

	t.Run("narrowing failures are pinned compilation errors", func(t *testing.T) {
		m := parse(t, `"name"`)
		_, err := AsPathList(m)
		require.ErrorIs(t, err, errors.ErrCompilation)
		require.NotEmpty(t, errors.Diagnostics(err))
		require.Equal(t, 1, errors.Diagnostics(err)[0].Span.Start.Line)
	})

	t.Run("assert directive", func(t *testing.T) {
		m := parse(t, "account(signer)")
		require.NoError(t, AssertDirective(m, "account"))
		require.ErrorIs(t, AssertDirective(m, "argument"), errors.ErrInvalidCodamaDirective)
	})

	t.Run("errors combine across items", func(t *testing.T) {
		tokens, err := syntax.Tokenize("lib.rs", "a = , b = ")
		require.NoError(t, err)
		_, err = ParseList(tokens)
		require.Error(t, err)
		require.Len(t, errors.Diagnostics(err), 2)
	})
}
