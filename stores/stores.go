// Package stores holds the parsed source of one or more crates. Stores are
// built once, from disk, from an fs.FS, from an in-memory source or from a
// txtar archive, and are never mutated afterwards.
package stores

import (
	"path"

	"github.com/calumari/codama/syntax"
)

// RootStore is the set of crates handed to the korok parser.
type RootStore struct {
	Crates []*CrateStore
}

// CrateStore is the entry file of a crate together with every file module
// reachable from it.
type CrateStore struct {
	File        *syntax.File
	Manifest    *Manifest
	FileModules []*FileModuleStore // depth-first, in declaration order
	Path        string             // empty when hydrated from source
}

// FileModuleStore is the content of a `mod name;` declaration.
type FileModuleStore struct {
	File        *syntax.File
	FileModules []*FileModuleStore
	Path        string
}

// Name returns the package name from the manifest, or the name of the
// directory holding the crate.
func (c *CrateStore) Name() string {
	if c.Manifest != nil && c.Manifest.Package.Name != "" {
		return c.Manifest.Package.Name
	}
	if c.Path == "" {
		return ""
	}
	dir := path.Dir(c.Path)
	if base := path.Base(dir); base == "src" {
		dir = path.Dir(dir)
	}
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}

// Files returns the number of source files in the crate.
func (c *CrateStore) Files() int {
	return 1 + countFiles(c.FileModules)
}

func countFiles(mods []*FileModuleStore) int {
	n := 0
	for _, m := range mods {
		n += 1 + countFiles(m.FileModules)
	}
	return n
}
