package stores

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/syntax"
)

// entryFiles are the crate entry points tried in order, relative to the
// crate directory.
var entryFiles = []string{"src/lib.rs", "src/main.rs", "lib.rs"}

// Load reads the crates at paths from disk. Each path is either a crate
// directory or the entry file of a crate. Failures of every path are
// reported together.
func Load(paths ...string) (*RootStore, error) {
	root := &RootStore{}
	var errs error
	for _, p := range paths {
		c, err := LoadCrate(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		root.Crates = append(root.Crates, c)
	}
	if errs != nil {
		return nil, errs
	}
	return root, nil
}

// LoadCrate reads one crate from disk.
func LoadCrate(p string) (*CrateStore, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, errors.Filesystem(p, err)
	}
	if info.IsDir() {
		l := &loader{fsys: os.DirFS(p), prefix: filepath.ToSlash(p)}
		return l.crate(".")
	}
	dir, file := filepath.Split(p)
	if dir == "" {
		dir = "."
	}
	entry := file
	if filepath.Base(filepath.Clean(dir)) == "src" {
		entry = "src/" + file
		dir = filepath.Dir(filepath.Clean(dir))
	}
	l := &loader{fsys: os.DirFS(dir), prefix: filepath.ToSlash(dir)}
	return l.crate(entry)
}

// LoadFS reads the crate at dir in fsys. dir is a crate directory or the
// path of an entry file ending in `.rs`.
func LoadFS(fsys fs.FS, dir string) (*CrateStore, error) {
	l := &loader{fsys: fsys}
	return l.crate(dir)
}

// Hydrate builds a crate from in-memory source. The crate has no manifest
// and no path, and `mod name;` declarations are left unresolved.
func Hydrate(filename, src string) (*CrateStore, error) {
	file, err := syntax.ParseFile(filename, src)
	if err != nil {
		return nil, err
	}
	return &CrateStore{File: file}, nil
}

// FromSource returns a root store holding a single hydrated crate.
func FromSource(src string) (*RootStore, error) {
	c, err := Hydrate("lib.rs", src)
	if err != nil {
		return nil, err
	}
	return &RootStore{Crates: []*CrateStore{c}}, nil
}

type loader struct {
	fsys   fs.FS
	prefix string
}

// display returns the user facing path of name.
func (l *loader) display(name string) string {
	if l.prefix == "" {
		return name
	}
	return path.Join(l.prefix, name)
}

func (l *loader) crate(dir string) (*CrateStore, error) {
	entry, err := l.entry(dir)
	if err != nil {
		return nil, err
	}
	crateDir := path.Dir(entry)
	if path.Base(crateDir) == "src" {
		crateDir = path.Dir(crateDir)
	}
	manifest, err := readManifest(l.fsys, crateDir)
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		manifest.Path = l.display(manifest.Path)
	}
	file, err := l.parse(entry)
	if err != nil {
		return nil, err
	}
	mods, err := l.fileModules(entry, file.Items)
	if err != nil {
		return nil, err
	}
	return &CrateStore{
		File:        file,
		Manifest:    manifest,
		FileModules: mods,
		Path:        l.display(entry),
	}, nil
}

func (l *loader) entry(dir string) (string, error) {
	dir = path.Clean(dir)
	if strings.HasSuffix(dir, ".rs") {
		return dir, nil
	}
	for _, name := range entryFiles {
		candidate := join(dir, name)
		if _, err := fs.Stat(l.fsys, candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.Filesystem(l.display(join(dir, entryFiles[0])), fs.ErrNotExist)
}

func (l *loader) parse(name string) (*syntax.File, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, errors.Filesystem(l.display(name), err)
	}
	return syntax.ParseFile(l.display(name), string(data))
}

// fileModules resolves every `mod name;` reachable from items of file,
// descending into inline modules, in declaration order.
func (l *loader) fileModules(file string, items []syntax.Item) ([]*FileModuleStore, error) {
	r := resolver{loader: l, file: file, dir: moduleDir(file)}
	return r.walk(items)
}

// resolver tracks where the children of the module being walked live.
type resolver struct {
	loader *loader
	file   string
	dir    string
	inline bool
}

func (r resolver) walk(items []syntax.Item) ([]*FileModuleStore, error) {
	var (
		out  []*FileModuleStore
		errs errors.List
	)
	for _, item := range items {
		mod, ok := item.(*syntax.ItemMod)
		if !ok {
			continue
		}
		if mod.Inline {
			inner := r
			inner.inline = true
			inner.dir = join(r.dir, mod.Ident)
			if p, ok := pathAttribute(mod); ok {
				inner.dir = r.relative(p)
			}
			children, err := inner.walk(mod.Content)
			errs.Add(err)
			out = append(out, children...)
			continue
		}
		store, err := r.load(mod)
		if err != nil {
			errs.Add(err)
			continue
		}
		out = append(out, store)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resolver) load(mod *syntax.ItemMod) (*FileModuleStore, error) {
	name, err := r.locate(mod)
	if err != nil {
		return nil, err
	}
	file, err := r.loader.parse(name)
	if err != nil {
		return nil, err
	}
	children, err := r.loader.fileModules(name, file.Items)
	if err != nil {
		return nil, err
	}
	return &FileModuleStore{
		File:        file,
		FileModules: children,
		Path:        r.loader.display(name),
	}, nil
}

// locate finds the file of `mod name;`: the `#[path]` target when given,
// otherwise `name.rs` or `name/mod.rs` in the module directory.
func (r resolver) locate(mod *syntax.ItemMod) (string, error) {
	if p, ok := pathAttribute(mod); ok {
		return r.relative(p), nil
	}
	candidates := []string{
		join(r.dir, mod.Ident+".rs"),
		join(r.dir, mod.Ident, "mod.rs"),
	}
	for _, c := range candidates {
		if _, err := fs.Stat(r.loader.fsys, c); err == nil {
			return c, nil
		}
	}
	return "", errors.New(errors.KindFilesystem).
		Path(r.loader.display(candidates[0])).
		Cause(fs.ErrNotExist).
		At(mod.Span(), "file not found for module `%s`", mod.Ident).
		Build()
}

// relative resolves a `#[path]` value. Outside inline modules it is relative
// to the directory of the declaring file.
func (r resolver) relative(p string) string {
	if r.inline {
		return join(r.dir, p)
	}
	return join(path.Dir(r.file), p)
}

// moduleDir is the directory holding the children of file: its own
// directory for lib.rs, main.rs and mod.rs, a directory named after it
// otherwise.
func moduleDir(file string) string {
	base := path.Base(file)
	switch base {
	case "lib.rs", "main.rs", "mod.rs":
		return path.Dir(file)
	}
	return join(path.Dir(file), strings.TrimSuffix(base, ".rs"))
}

func pathAttribute(mod *syntax.ItemMod) (string, bool) {
	for _, attr := range mod.Attrs {
		if !attr.Path.IsIdent("path") {
			continue
		}
		value, ok := attr.Value()
		if ok && len(value) == 1 && value[0].Value != "" {
			return value[0].Value, true
		}
	}
	return "", false
}

func join(elem ...string) string {
	return path.Clean(path.Join(elem...))
}
