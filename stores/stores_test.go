package stores

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/calumari/codama/errors"
)

const counterArchive = `
-- Cargo.toml --
[package]
name = "counter"
version = "0.2.0"

[package.metadata.solana]
program-id = "Count3AcZucFDPSFBAeHkQ6AvttieKUkyJ8HiQGhQwe"
-- src/lib.rs --
mod state;
mod instructions {
    mod create;
}
mod errors;
-- src/state.rs --
mod seeds;
pub struct Counter { count: u64 }
-- src/state/seeds.rs --
pub const SEED: &str = "counter";
-- src/instructions/create.rs --
pub struct Create;
-- src/errors/mod.rs --
pub enum CounterError { Overflow }
`

func TestLoadArchive(t *testing.T) {
	t.Run("reads the manifest", func(t *testing.T) {
		root, err := LoadArchive([]byte(counterArchive))
		require.NoError(t, err)
		require.Len(t, root.Crates, 1)
		c := root.Crates[0]
		require.NotNil(t, c.Manifest)
		require.Equal(t, "counter", c.Manifest.Package.Name)
		require.Equal(t, "0.2.0", c.Manifest.Package.Version)
		require.Equal(t, "Count3AcZucFDPSFBAeHkQ6AvttieKUkyJ8HiQGhQwe", c.Manifest.Package.Metadata.Solana.ProgramID)
		require.Equal(t, "counter", c.Name())
		require.Equal(t, "src/lib.rs", c.Path)
	})

	t.Run("resolves file modules depth first", func(t *testing.T) {
		root, err := LoadArchive([]byte(counterArchive))
		require.NoError(t, err)
		c := root.Crates[0]
		require.Len(t, c.FileModules, 3)
		require.Equal(t, "src/state.rs", c.FileModules[0].Path)
		require.Equal(t, "src/instructions/create.rs", c.FileModules[1].Path)
		require.Equal(t, "src/errors/mod.rs", c.FileModules[2].Path)

		require.Len(t, c.FileModules[0].FileModules, 1)
		require.Equal(t, "src/state/seeds.rs", c.FileModules[0].FileModules[0].Path)
		require.Equal(t, 5, c.Files())
	})

	t.Run("honours path attributes", func(t *testing.T) {
		root, err := LoadArchive([]byte(`
-- src/lib.rs --
#[path = "generated/types.rs"]
mod types;
mod nested {
    #[path = "custom.rs"]
    mod inner;
}
-- src/generated/types.rs --
pub struct Generated;
-- src/nested/custom.rs --
pub struct Custom;
`))
		require.NoError(t, err)
		c := root.Crates[0]
		require.Len(t, c.FileModules, 2)
		require.Equal(t, "src/generated/types.rs", c.FileModules[0].Path)
		require.Equal(t, "src/nested/custom.rs", c.FileModules[1].Path)
		require.Nil(t, c.Manifest)
	})

	t.Run("reports a missing module file", func(t *testing.T) {
		_, err := LoadArchive([]byte(`
-- src/lib.rs --
mod missing;
`))
		require.ErrorIs(t, err, errors.ErrFilesystem)
		require.Contains(t, err.Error(), "src/missing.rs")
		require.Len(t, errors.Diagnostics(err), 1)
	})

	t.Run("reports a malformed manifest", func(t *testing.T) {
		_, err := LoadArchive([]byte(`
-- Cargo.toml --
[package
-- src/lib.rs --
pub struct Thing;
`))
		require.ErrorIs(t, err, errors.ErrManifest)
	})

	t.Run("reports syntax errors", func(t *testing.T) {
		_, err := LoadArchive([]byte(`
-- src/lib.rs --
pub struct Broken {
`))
		require.ErrorIs(t, err, errors.ErrCompilation)
	})

	t.Run("finds every crate of a workspace", func(t *testing.T) {
		root, err := LoadArchive([]byte(`
-- Cargo.toml --
[workspace]
members = ["programs/*"]
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
		require.Len(t, root.Crates, 2)
		require.Equal(t, "alpha", root.Crates[0].Name())
		require.Equal(t, "beta", root.Crates[1].Name())
	})
}

func TestHydrate(t *testing.T) {
	t.Run("leaves file modules unresolved", func(t *testing.T) {
		c, err := Hydrate("lib.rs", "mod state;\npub struct Counter;")
		require.NoError(t, err)
		require.Empty(t, c.Path)
		require.Nil(t, c.Manifest)
		require.Empty(t, c.FileModules)
		require.Len(t, c.File.Items, 2)
		require.Empty(t, c.Name())
	})

	t.Run("wraps a single crate", func(t *testing.T) {
		root, err := FromSource("pub struct Counter;")
		require.NoError(t, err)
		require.Len(t, root.Crates, 1)
	})
}

func TestParseManifest(t *testing.T) {
	t.Run("accepts workspace versions", func(t *testing.T) {
		m, err := ParseManifest("Cargo.toml", "[package]\nname = \"x\"\nversion.workspace = true\n")
		require.NoError(t, err)
		require.Equal(t, "x", m.Package.Name)
		require.Empty(t, m.Package.Version)
	})
}

func TestLoad(t *testing.T) {
	write := func(t *testing.T, dir, name, content string) {
		t.Helper()
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	t.Run("loads a crate directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "vault")
		write(t, dir, "src/lib.rs", "mod state;")
		write(t, dir, "src/state.rs", "pub struct Vault;")

		root, err := Load(dir)
		require.NoError(t, err)
		require.Len(t, root.Crates, 1)
		c := root.Crates[0]
		require.Equal(t, "vault", c.Name())
		require.Len(t, c.FileModules, 1)
		require.Equal(t, filepath.ToSlash(filepath.Join(dir, "src/state.rs")), c.FileModules[0].Path)
	})

	t.Run("loads an entry file", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "Cargo.toml", "[package]\nname = \"single\"\n")
		write(t, dir, "src/lib.rs", "pub struct One;")

		c, err := LoadCrate(filepath.Join(dir, "src", "lib.rs"))
		require.NoError(t, err)
		require.NotNil(t, c.Manifest)
		require.Equal(t, "single", c.Name())
	})

	t.Run("reports every failing path", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Load(filepath.Join(dir, "a"), filepath.Join(dir, "b"))
		require.Error(t, err)
		require.Len(t, multierr.Errors(err), 2)
	})
}
