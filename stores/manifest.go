package stores

import (
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/calumari/codama/errors"
)

// ManifestFile is the name of a crate manifest.
const ManifestFile = "Cargo.toml"

// Manifest is the subset of a crate manifest the extractor reads.
type Manifest struct {
	Package Package `toml:"package"`
	Path    string  `toml:"-"`
}

// Package is the `[package]` table.
type Package struct {
	Name     string          `toml:"name"`
	Version  string          `toml:"version"`
	Metadata PackageMetadata `toml:"metadata"`
}

// PackageMetadata is the `[package.metadata]` table.
type PackageMetadata struct {
	Solana SolanaMetadata `toml:"solana"`
}

// SolanaMetadata is the `[package.metadata.solana]` table.
type SolanaMetadata struct {
	ProgramID string `toml:"program-id"`
}

// ParseManifest decodes a manifest. A string version that refers to the
// workspace, `version.workspace = true`, decodes as an empty version.
func ParseManifest(name, src string) (*Manifest, error) {
	var raw struct {
		Package struct {
			Name     string          `toml:"name"`
			Version  toml.Primitive  `toml:"version"`
			Metadata PackageMetadata `toml:"metadata"`
		} `toml:"package"`
	}
	md, err := toml.Decode(src, &raw)
	if err != nil {
		return nil, errors.Manifest(name, err)
	}
	m := &Manifest{Path: name}
	m.Package.Name = raw.Package.Name
	m.Package.Metadata = raw.Package.Metadata
	if md.IsDefined("package", "version") {
		var version string
		if err := md.PrimitiveDecode(raw.Package.Version, &version); err == nil {
			m.Package.Version = version
		}
	}
	return m, nil
}

// readManifest reads dir/Cargo.toml. A missing manifest is not an error.
func readManifest(fsys fs.FS, dir string) (*Manifest, error) {
	name := join(dir, ManifestFile)
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Filesystem(name, err)
	}
	return ParseManifest(name, string(data))
}
