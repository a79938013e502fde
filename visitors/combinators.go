package visitors

import (
	"github.com/calumari/codama/koroks"
)

// ComposeVisitor fans every visit out to its visitors in insertion order.
// Each visitor walks the subtree on its own.
type ComposeVisitor struct {
	Visitors []Visitor
}

// Compose returns a visitor running vs one after the other.
func Compose(vs ...Visitor) *ComposeVisitor {
	return &ComposeVisitor{Visitors: vs}
}

// Add appends v.
func (c *ComposeVisitor) Add(v Visitor) *ComposeVisitor {
	c.Visitors = append(c.Visitors, v)
	return c
}

func (c *ComposeVisitor) visit(k koroks.Korok) error { return Run(k, c.Visitors...) }

func (c *ComposeVisitor) VisitRoot(k *koroks.RootKorok) error               { return c.visit(k) }
func (c *ComposeVisitor) VisitCrate(k *koroks.CrateKorok) error             { return c.visit(k) }
func (c *ComposeVisitor) VisitItem(k koroks.ItemKorok) error                { return c.visit(k) }
func (c *ComposeVisitor) VisitEnumVariant(k *koroks.EnumVariantKorok) error { return c.visit(k) }
func (c *ComposeVisitor) VisitFields(k *koroks.FieldsKorok) error           { return c.visit(k) }
func (c *ComposeVisitor) VisitField(k *koroks.FieldKorok) error             { return c.visit(k) }
func (c *ComposeVisitor) VisitType(k *koroks.TypeKorok) error               { return c.visit(k) }
func (c *ComposeVisitor) VisitImplItem(k *koroks.ImplItemKorok) error       { return c.visit(k) }

// FilterVisitor hands matching items to its inner visitor. Other items are
// walked so that matching items nested in modules are still reached.
type FilterVisitor struct {
	Match func(k koroks.ItemKorok) bool
	Inner Visitor
}

// Filter returns a visitor applying inner to the items matching match.
func Filter(match func(k koroks.ItemKorok) bool, inner Visitor) *FilterVisitor {
	return &FilterVisitor{Match: match, Inner: inner}
}

func (f *FilterVisitor) VisitItem(k koroks.ItemKorok) error {
	if f.Match(k) {
		return Visit(f.Inner, k)
	}
	return VisitChildren(f, k)
}

// UniformFunc is called for every korok. Calling children visits the
// children of k with the same function.
type UniformFunc func(k koroks.Korok, children func() error) error

// UniformVisitor applies one function to every kind of korok.
type UniformVisitor struct {
	fn UniformFunc
}

// Uniform returns a visitor calling fn for every korok.
func Uniform(fn UniformFunc) *UniformVisitor {
	return &UniformVisitor{fn: fn}
}

func (u *UniformVisitor) visit(k koroks.Korok) error {
	return u.fn(k, func() error { return VisitChildren(u, k) })
}

func (u *UniformVisitor) VisitRoot(k *koroks.RootKorok) error               { return u.visit(k) }
func (u *UniformVisitor) VisitCrate(k *koroks.CrateKorok) error             { return u.visit(k) }
func (u *UniformVisitor) VisitItem(k koroks.ItemKorok) error                { return u.visit(k) }
func (u *UniformVisitor) VisitEnumVariant(k *koroks.EnumVariantKorok) error { return u.visit(k) }
func (u *UniformVisitor) VisitFields(k *koroks.FieldsKorok) error           { return u.visit(k) }
func (u *UniformVisitor) VisitField(k *koroks.FieldKorok) error             { return u.visit(k) }
func (u *UniformVisitor) VisitType(k *koroks.TypeKorok) error               { return u.visit(k) }
func (u *UniformVisitor) VisitImplItem(k *koroks.ImplItemKorok) error       { return u.visit(k) }

// CollectVisitor accumulates one value per korok accepted by its function.
type CollectVisitor[T any] struct {
	*UniformVisitor
	results []T
}

// Collect returns a visitor gathering fn(k) for every korok where fn
// reports true. The whole subtree is always walked.
func Collect[T any](fn func(k koroks.Korok) (T, bool)) *CollectVisitor[T] {
	c := &CollectVisitor[T]{}
	c.UniformVisitor = Uniform(func(k koroks.Korok, children func() error) error {
		if v, ok := fn(k); ok {
			c.results = append(c.results, v)
		}
		return children()
	})
	return c
}

// Result returns the values gathered so far.
func (c *CollectVisitor[T]) Result() []T {
	return c.results
}

// CollectFrom walks k and returns the values fn accepts.
func CollectFrom[T any](k koroks.Korok, fn func(k koroks.Korok) (T, bool)) []T {
	c := Collect(fn)
	_ = Visit(c, k)
	return c.Result()
}
