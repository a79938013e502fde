package codama

import (
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/visitors"
)

// Plugin wraps the rest of the chain. Calling next runs the plugins added
// after this one and then the default pipeline; a plugin may act on root
// before, after, or instead of calling it.
type Plugin interface {
	Run(root *koroks.RootKorok, next func() error) error
}

// PluginFunc adapts a function to a Plugin.
type PluginFunc func(root *koroks.RootKorok, next func() error) error

// Run calls f.
func (f PluginFunc) Run(root *koroks.RootKorok, next func() error) error { return f(root, next) }

// Before returns a plugin visiting the tree with vs ahead of the rest of the
// chain.
func Before(vs ...visitors.Visitor) Plugin {
	return PluginFunc(func(root *koroks.RootKorok, next func() error) error {
		if err := visitors.Run(root, vs...); err != nil {
			return err
		}
		return next()
	})
}

// After returns a plugin visiting the tree with vs once the rest of the
// chain has run.
func After(vs ...visitors.Visitor) Plugin {
	return PluginFunc(func(root *koroks.RootKorok, next func() error) error {
		if err := next(); err != nil {
			return err
		}
		return visitors.Run(root, vs...)
	})
}

// chain runs plugins[0] outermost around the default pipeline.
func chain(plugins []Plugin, root *koroks.RootKorok) error {
	if len(plugins) == 0 {
		return visitors.Run(root, visitors.DefaultPipeline()...)
	}
	return plugins[0].Run(root, func() error {
		return chain(plugins[1:], root)
	})
}
