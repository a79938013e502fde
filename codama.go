// Package codama extracts Codama IDLs from Rust crates annotated with
// `#[codama(..)]` attributes and derives.
//
// A Codama value wraps a store of parsed crates. Each query parses the store
// into a fresh korok tree and, except for GetKorok, runs the plugin chain
// around the default visitor pipeline over it:
//
//	c, err := codama.Load("programs/counter")
//	if err != nil {
//		return err
//	}
//	idl, err := c.GetIdl()
package codama

import (
	"go.uber.org/zap"

	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/stores"
	"github.com/calumari/codama/visitors"
)

// Codama turns a store into IDL nodes.
type Codama struct {
	store   *stores.RootStore
	plugins []Plugin
}

// New returns a Codama over store.
func New(store *stores.RootStore) *Codama {
	return &Codama{store: store}
}

// Load reads the crates at paths, directories or entry files.
func Load(paths ...string) (*Codama, error) {
	store, err := stores.Load(paths...)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

// FromArchive reads the crates of a txtar archive.
func FromArchive(data []byte) (*Codama, error) {
	store, err := stores.LoadArchive(data)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

// FromSource parses src as the single file of a crate. File modules are left
// unresolved.
func FromSource(src string) (*Codama, error) {
	store, err := stores.FromSource(src)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

// Store returns the underlying store.
func (c *Codama) Store() *stores.RootStore { return c.store }

// AddPlugin appends p to the plugin chain. Plugins added first run
// outermost.
func (c *Codama) AddPlugin(p Plugin) *Codama {
	c.plugins = append(c.plugins, p)
	return c
}

// GetKorok parses the store without visiting it.
func (c *Codama) GetKorok() (*koroks.RootKorok, error) {
	return koroks.Parse(c.store)
}

// GetVisitedKorok parses the store and runs the plugin chain over it.
func (c *Codama) GetVisitedKorok() (*koroks.RootKorok, error) {
	root, err := c.GetKorok()
	if err != nil {
		return nil, err
	}
	if err := chain(c.plugins, root); err != nil {
		return nil, err
	}
	return root, nil
}

// GetNode returns the node of the visited root korok.
func (c *Codama) GetNode() (nodes.Node, error) {
	root, err := c.GetVisitedKorok()
	if err != nil {
		return nil, err
	}
	return nodeOf(root)
}

// GetIdl returns the root node of the IDL.
func (c *Codama) GetIdl() (*nodes.RootNode, error) {
	root, err := c.GetVisitedKorok()
	if err != nil {
		return nil, err
	}
	return Idl(root)
}

// Idl returns the root node held by a visited root korok.
func Idl(root *koroks.RootKorok) (*nodes.RootNode, error) {
	n, err := nodeOf(root)
	if err != nil {
		return nil, err
	}
	idl, ok := n.(*nodes.RootNode)
	if !ok {
		return nil, errors.UnexpectedNode("rootNode", n.Kind())
	}
	return idl, nil
}

func nodeOf(root *koroks.RootKorok) (nodes.Node, error) {
	if root.Node == nil {
		return nil, errors.NodeNotFound()
	}
	return root.Node, nil
}

// GetJSON returns the IDL as JSON, indented by two spaces when pretty.
func (c *Codama) GetJSON(pretty bool) ([]byte, error) {
	root, err := c.GetIdl()
	if err != nil {
		return nil, err
	}
	if pretty {
		return nodes.MarshalIndent(root, "", "  ")
	}
	return nodes.Marshal(root)
}

// SetLogger sets the logger of the korok parser and the visitors. nil
// restores the no-op default.
func SetLogger(l *zap.Logger) {
	koroks.SetLogger(l)
	visitors.SetLogger(l)
}
