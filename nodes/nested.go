package nodes

import (
	"encoding/json"

	"github.com/calumari/codama/errors"
)

type (
	FixedSizeTypeNode struct {
		typeMarker
		Size uint64   `json:"size"`
		Type TypeNode `json:"type"`
	}
	SizePrefixTypeNode struct {
		typeMarker
		Type   TypeNode                        `json:"type"`
		Prefix NestedTypeNode[*NumberTypeNode] `json:"prefix"`
	}
	PreOffsetTypeNode struct {
		typeMarker
		Offset   int64          `json:"offset"`
		Strategy OffsetStrategy `json:"strategy"`
		Type     TypeNode       `json:"type"`
	}
	PostOffsetTypeNode struct {
		typeMarker
		Offset   int64          `json:"offset"`
		Strategy OffsetStrategy `json:"strategy"`
		Type     TypeNode       `json:"type"`
	}
	SentinelTypeNode struct {
		typeMarker
		Type     TypeNode           `json:"type"`
		Sentinel *ConstantValueNode `json:"sentinel"`
	}
	HiddenPrefixTypeNode struct {
		typeMarker
		Type   TypeNode             `json:"type"`
		Prefix []*ConstantValueNode `json:"prefix"`
	}
	HiddenSuffixTypeNode struct {
		typeMarker
		Type   TypeNode             `json:"type"`
		Suffix []*ConstantValueNode `json:"suffix"`
	}
)

func (*FixedSizeTypeNode) Kind() string    { return "fixedSizeTypeNode" }
func (*SizePrefixTypeNode) Kind() string   { return "sizePrefixTypeNode" }
func (*PreOffsetTypeNode) Kind() string    { return "preOffsetTypeNode" }
func (*PostOffsetTypeNode) Kind() string   { return "postOffsetTypeNode" }
func (*SentinelTypeNode) Kind() string     { return "sentinelTypeNode" }
func (*HiddenPrefixTypeNode) Kind() string { return "hiddenPrefixTypeNode" }
func (*HiddenSuffixTypeNode) Kind() string { return "hiddenSuffixTypeNode" }

// WrapperTypeNode is a type node that wraps another one without changing
// what it describes, only how it is laid out.
type WrapperTypeNode interface {
	TypeNode
	// Inner returns the wrapped type node.
	Inner() TypeNode
	// WithInner returns a copy of the wrapper around t.
	WithInner(t TypeNode) WrapperTypeNode
}

func (n *FixedSizeTypeNode) Inner() TypeNode    { return n.Type }
func (n *SizePrefixTypeNode) Inner() TypeNode   { return n.Type }
func (n *PreOffsetTypeNode) Inner() TypeNode    { return n.Type }
func (n *PostOffsetTypeNode) Inner() TypeNode   { return n.Type }
func (n *SentinelTypeNode) Inner() TypeNode     { return n.Type }
func (n *HiddenPrefixTypeNode) Inner() TypeNode { return n.Type }
func (n *HiddenSuffixTypeNode) Inner() TypeNode { return n.Type }

func (n *FixedSizeTypeNode) WithInner(t TypeNode) WrapperTypeNode {
	c := *n
	c.Type = t
	return &c
}

func (n *SizePrefixTypeNode) WithInner(t TypeNode) WrapperTypeNode {
	c := *n
	c.Type = t
	return &c
}

func (n *PreOffsetTypeNode) WithInner(t TypeNode) WrapperTypeNode {
	c := *n
	c.Type = t
	return &c
}

func (n *PostOffsetTypeNode) WithInner(t TypeNode) WrapperTypeNode {
	c := *n
	c.Type = t
	return &c
}

func (n *SentinelTypeNode) WithInner(t TypeNode) WrapperTypeNode {
	c := *n
	c.Type = t
	return &c
}

func (n *HiddenPrefixTypeNode) WithInner(t TypeNode) WrapperTypeNode {
	c := *n
	c.Type = t
	return &c
}

func (n *HiddenSuffixTypeNode) WithInner(t TypeNode) WrapperTypeNode {
	c := *n
	c.Type = t
	return &c
}

// Innermost unwraps wrappers until it reaches a non-wrapper type node.
func Innermost(t TypeNode) TypeNode {
	for {
		w, ok := t.(WrapperTypeNode)
		if !ok {
			return t
		}
		t = w.Inner()
	}
}

// MapInnermost replaces the innermost type of t with f(innermost), keeping
// every wrapper around it.
func MapInnermost(t TypeNode, f func(TypeNode) TypeNode) TypeNode {
	if w, ok := t.(WrapperTypeNode); ok {
		return w.WithInner(MapInnermost(w.Inner(), f))
	}
	return f(t)
}

// NestedTypeNode is a type node constrained so that, once every wrapper is
// unwrapped, the innermost node is a T. The zero value holds nothing.
type NestedTypeNode[T TypeNode] struct {
	node TypeNode
}

// Nest returns a nested type node holding t directly.
func Nest[T TypeNode](t T) NestedTypeNode[T] {
	return NestedTypeNode[T]{node: t}
}

// AsNested validates that the innermost node of t is a T.
func AsNested[T TypeNode](t TypeNode) (NestedTypeNode[T], error) {
	if t == nil {
		var want T
		return NestedTypeNode[T]{}, errors.InvalidNodeConversion("nothing", kindOf(want))
	}
	if _, ok := Innermost(t).(T); !ok {
		var want T
		return NestedTypeNode[T]{}, errors.InvalidNodeConversion(Innermost(t).Kind(), kindOf(want))
	}
	return NestedTypeNode[T]{node: t}, nil
}

// Node returns the outermost node, wrappers included.
func (n NestedTypeNode[T]) Node() TypeNode { return n.node }

// NestedTypeNode returns the innermost node.
func (n NestedTypeNode[T]) NestedTypeNode() T {
	var zero T
	if n.node == nil {
		return zero
	}
	inner, _ := Innermost(n.node).(T)
	return inner
}

// IsZero reports whether the nested node is empty.
func (n NestedTypeNode[T]) IsZero() bool { return n.node == nil }

// Map replaces the innermost node, keeping the wrappers.
func (n NestedTypeNode[T]) Map(f func(T) T) NestedTypeNode[T] {
	if n.node == nil {
		return n
	}
	return NestedTypeNode[T]{node: MapInnermost(n.node, func(t TypeNode) TypeNode {
		return f(t.(T))
	})}
}

func (n NestedTypeNode[T]) MarshalJSON() ([]byte, error) {
	if n.node == nil {
		return []byte("null"), nil
	}
	return Marshal(n.node)
}

func (n *NestedTypeNode[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NestedTypeNode[T]{}
		return nil
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		return err
	}
	t, err := ToTypeNode(decoded)
	if err != nil {
		return err
	}
	nested, err := AsNested[T](t)
	if err != nil {
		return err
	}
	*n = nested
	return nil
}

var _ json.Marshaler = NestedTypeNode[*NumberTypeNode]{}

// kindOf names the kind of n, which may be a typed nil pointer.
func kindOf(n Node) string {
	if n == nil {
		return "typeNode"
	}
	return n.Kind()
}
