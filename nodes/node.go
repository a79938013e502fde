// Package nodes defines the IDL node taxonomy and its JSON projection.
//
// Every node is a pointer to a struct whose Kind is the camelCase tag used as
// the "kind" discriminator in JSON. Families are expressed as interfaces with
// unexported marker methods; a node may belong to several families, e.g. every
// value node is also an instruction input value node.
package nodes

// Node is any IDL node.
type Node interface {
	Kind() string
}

// TypeNode describes the layout of a value.
type TypeNode interface {
	RegisteredTypeNode
	typeNode()
}

// RegisteredTypeNode is TypeNode plus the nodes that only ever appear inside
// an aggregate: struct fields and enum variants.
type RegisteredTypeNode interface {
	Node
	registeredTypeNode()
}

// ValueNode is a constant value.
type ValueNode interface {
	InstructionInputValueNode
	valueNode()
}

// ContextualValueNode is a value resolved from the instruction context.
type ContextualValueNode interface {
	InstructionInputValueNode
	contextualValueNode()
}

// InstructionInputValueNode is a ValueNode, a ContextualValueNode or a
// ProgramLinkNode.
type InstructionInputValueNode interface {
	Node
	instructionInputValueNode()
}

// LinkNode references a top-level node by name.
type LinkNode interface {
	Node
	linkNode()
}

// CountNode determines the number of items of a collection.
type CountNode interface {
	Node
	countNode()
}

// DiscriminatorNode distinguishes accounts or instructions.
type DiscriminatorNode interface {
	Node
	discriminatorNode()
}

// PdaSeedNode is one seed of a program derived address.
type PdaSeedNode interface {
	Node
	pdaSeedNode()
}

// EnumVariantTypeNode is one of the three enum variant shapes.
type EnumVariantTypeNode interface {
	RegisteredTypeNode
	VariantName() CamelCaseString
	VariantDiscriminator() *uint64
	enumVariantTypeNode()
}

type typeMarker struct{}

func (typeMarker) typeNode()           {}
func (typeMarker) registeredTypeNode() {}

type registeredMarker struct{}

func (registeredMarker) registeredTypeNode() {}

type inputMarker struct{}

func (inputMarker) instructionInputValueNode() {}

type valueMarker struct{ inputMarker }

func (valueMarker) valueNode() {}

type contextualMarker struct{ inputMarker }

func (contextualMarker) contextualValueNode() {}

type linkMarker struct{}

func (linkMarker) linkNode() {}

type countMarker struct{}

func (countMarker) countNode() {}

type discriminatorMarker struct{}

func (discriminatorMarker) discriminatorNode() {}

type pdaSeedMarker struct{}

func (pdaSeedMarker) pdaSeedNode() {}
