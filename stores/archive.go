package stores

import (
	"io/fs"
	"path"
	"sort"
	"testing/fstest"

	"golang.org/x/tools/txtar"
)

// LoadArchive reads crates from a txtar archive. Every directory holding a
// Cargo.toml and an entry file is a crate; an archive without such a
// directory is a single crate rooted at the archive root.
//
//	-- Cargo.toml --
//	[package]
//	name = "counter"
//	-- src/lib.rs --
//	mod state;
//	-- src/state.rs --
//	pub struct Counter { count: u64 }
func LoadArchive(data []byte) (*RootStore, error) {
	return ParseArchive(txtar.Parse(data))
}

// ParseArchive is LoadArchive over an already parsed archive.
func ParseArchive(a *txtar.Archive) (*RootStore, error) {
	fsys := ArchiveFS(a)
	dirs := crateDirs(fsys, a)
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	l := &loader{fsys: fsys}
	root := &RootStore{}
	for _, dir := range dirs {
		c, err := l.crate(dir)
		if err != nil {
			return nil, err
		}
		root.Crates = append(root.Crates, c)
	}
	return root, nil
}

// ArchiveFS exposes the files of a as a file system.
func ArchiveFS(a *txtar.Archive) fs.FS {
	fsys := fstest.MapFS{}
	for _, f := range a.Files {
		fsys[path.Clean(f.Name)] = &fstest.MapFile{Data: f.Data, Mode: 0o644}
	}
	return fsys
}

func crateDirs(fsys fs.FS, a *txtar.Archive) []string {
	var dirs []string
	for _, f := range a.Files {
		name := path.Clean(f.Name)
		if path.Base(name) != ManifestFile {
			continue
		}
		dir := path.Dir(name)
		l := &loader{fsys: fsys}
		if _, err := l.entry(dir); err != nil {
			continue
		}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
