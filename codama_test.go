package codama

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/visitors"
)

const counterSource = `
#![codama(name = "counter")]

declare_id!("Count3AcZucFDPSFBAeHkQ6AvttieKUkyJ8HiQGhQwe");

/// Tracks a number.
#[derive(CodamaAccount)]
pub struct Counter {
    authority: Pubkey,
    count: u64,
}

#[derive(CodamaInstructions)]
pub enum CounterInstruction {
    #[codama(account(name = "counter", writable))]
    #[codama(account(name = "authority", signer))]
    Increment { amount: u32 },
}

#[derive(CodamaErrors)]
pub enum CounterError {
    #[error("Counter overflowed")]
    Overflow,
}
`

func TestCodama(t *testing.T) {
	t.Run("get korok leaves nodes empty", func(t *testing.T) {
		c, err := FromSource(counterSource)
		require.NoError(t, err)
		root, err := c.GetKorok()
		require.NoError(t, err)
		require.Nil(t, root.Node)
		require.Len(t, root.Crates, 1)
		for _, item := range root.Crates[0].Items {
			require.Nil(t, item.GetNode())
		}
	})

	t.Run("get idl", func(t *testing.T) {
		c, err := FromSource(counterSource)
		require.NoError(t, err)
		idl, err := c.GetIdl()
		require.NoError(t, err)
		require.Equal(t, nodes.Standard, idl.Standard)
		require.Equal(t, nodes.CamelCaseString("counter"), idl.Program.Name)
		require.Equal(t, "Count3AcZucFDPSFBAeHkQ6AvttieKUkyJ8HiQGhQwe", idl.Program.PublicKey)
		require.Len(t, idl.Program.Accounts, 1)
		require.Equal(t, []string{"Tracks a number."}, idl.Program.Accounts[0].Docs)
		require.Len(t, idl.Program.Instructions, 1)
		require.Len(t, idl.Program.Instructions[0].Accounts, 2)
		require.Len(t, idl.Program.Errors, 1)
		require.Empty(t, idl.AdditionalPrograms)
	})

	t.Run("get json", func(t *testing.T) {
		c, err := FromSource(counterSource)
		require.NoError(t, err)
		data, err := c.GetJSON(false)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		require.Equal(t, "rootNode", doc["kind"])
		require.Equal(t, "codama", doc["standard"])
		program := doc["program"].(map[string]any)
		require.Equal(t, "programNode", program["kind"])
		require.Equal(t, "counter", program["name"])

		pretty, err := c.GetJSON(true)
		require.NoError(t, err)
		require.Contains(t, string(pretty), "\n  \"standard\": \"codama\"")

		decoded, err := nodes.Unmarshal(data)
		require.NoError(t, err)
		again, err := nodes.Marshal(decoded)
		require.NoError(t, err)
		require.JSONEq(t, string(data), string(again))
	})

	t.Run("json decodes back to the same idl", func(t *testing.T) {
		c, err := FromSource(counterSource + "\npub struct Empty {}\npub enum Never {}\n")
		require.NoError(t, err)
		idl, err := c.GetIdl()
		require.NoError(t, err)
		data, err := c.GetJSON(false)
		require.NoError(t, err)

		decoded, err := nodes.Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, idl, decoded)
	})

	t.Run("compilation errors are combined", func(t *testing.T) {
		c, err := FromSource(`
#[codama(type = nope)]
pub struct A;
#[codama(fixed_size = "x")]
pub struct B;
`)
		require.NoError(t, err)
		_, err = c.GetIdl()
		require.ErrorIs(t, err, errors.ErrCompilation)
		require.Len(t, errors.Diagnostics(err), 2)
	})

	t.Run("a missing node is reported", func(t *testing.T) {
		c, err := FromSource(`pub struct A;`)
		require.NoError(t, err)
		c.AddPlugin(PluginFunc(func(*koroks.RootKorok, func() error) error { return nil }))
		_, err = c.GetNode()
		require.ErrorIs(t, err, errors.ErrNodeNotFound)
	})

	t.Run("a node other than a root is unexpected", func(t *testing.T) {
		c, err := FromSource(`pub struct A;`)
		require.NoError(t, err)
		c.AddPlugin(After(visitors.Uniform(func(k koroks.Korok, _ func() error) error {
			k.SetNode(&nodes.ProgramNode{})
			return nil
		})))
		_, err = c.GetIdl()
		require.ErrorIs(t, err, errors.ErrUnexpectedNode)
	})

	t.Run("from archive resolves file modules", func(t *testing.T) {
		c, err := FromArchive([]byte(`
-- Cargo.toml --
[package]
name = "vault"
version = "0.1.0"
-- src/lib.rs --
mod state;
-- src/state.rs --
#[derive(CodamaAccount)]
pub struct Vault { amount: u64 }
`))
		require.NoError(t, err)
		idl, err := c.GetIdl()
		require.NoError(t, err)
		require.Equal(t, nodes.CamelCaseString("vault"), idl.Program.Name)
		require.Equal(t, "0.1.0", idl.Program.Version)
		require.Len(t, idl.Program.Accounts, 1)
		require.Equal(t, uint64(8), *idl.Program.Accounts[0].Size)
	})

	t.Run("each query visits a fresh tree", func(t *testing.T) {
		c, err := FromSource(`pub struct A;`)
		require.NoError(t, err)
		first, err := c.GetIdl()
		require.NoError(t, err)
		second, err := c.GetIdl()
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.Len(t, second.Program.DefinedTypes, 1)
	})
}

func TestPlugins(t *testing.T) {
	t.Run("plugins wrap the pipeline in insertion order", func(t *testing.T) {
		c, err := FromSource(`pub struct A;`)
		require.NoError(t, err)
		var log []string
		record := func(name string) Plugin {
			return PluginFunc(func(root *koroks.RootKorok, next func() error) error {
				log = append(log, name+" before")
				err := next()
				log = append(log, name+" after")
				return err
			})
		}
		c.AddPlugin(record("outer")).AddPlugin(record("inner"))
		_, err = c.GetVisitedKorok()
		require.NoError(t, err)
		require.Equal(t, []string{"outer before", "inner before", "inner after", "outer after"}, log)
	})

	t.Run("before plugins see an unvisited tree", func(t *testing.T) {
		c, err := FromSource(`pub struct A;`)
		require.NoError(t, err)
		c.AddPlugin(Before(visitors.Uniform(func(k koroks.Korok, children func() error) error {
			if crate, ok := k.(*koroks.CrateKorok); ok {
				require.Nil(t, crate.Node)
				crate.Node = &nodes.ProgramNode{Name: "preset"}
			}
			return children()
		})))
		idl, err := c.GetIdl()
		require.NoError(t, err)
		require.Equal(t, nodes.CamelCaseString("preset"), idl.Program.Name)
	})

	t.Run("a plugin error stops the chain", func(t *testing.T) {
		c, err := FromSource(`pub struct A;`)
		require.NoError(t, err)
		ran := false
		c.AddPlugin(PluginFunc(func(*koroks.RootKorok, func() error) error {
			return errors.NodeNotFound()
		}))
		c.AddPlugin(PluginFunc(func(_ *koroks.RootKorok, next func() error) error {
			ran = true
			return next()
		}))
		_, err = c.GetVisitedKorok()
		require.ErrorIs(t, err, errors.ErrNodeNotFound)
		require.False(t, ran)
	})
}
