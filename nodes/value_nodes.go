package nodes

type (
	BooleanValueNode struct {
		valueMarker
		Boolean bool `json:"boolean"`
	}
	NumberValueNode struct {
		valueMarker
		Number Number `json:"number"`
	}
	StringValueNode struct {
		valueMarker
		String string `json:"string"`
	}
	BytesValueNode struct {
		valueMarker
		Data     string        `json:"data"`
		Encoding BytesEncoding `json:"encoding"`
	}
	PublicKeyValueNode struct {
		valueMarker
		PublicKey  string          `json:"publicKey"`
		Identifier CamelCaseString `json:"identifier,omitempty"`
	}
	ArrayValueNode struct {
		valueMarker
		Items []ValueNode `json:"items"`
	}
	SetValueNode struct {
		valueMarker
		Items []ValueNode `json:"items"`
	}
	TupleValueNode struct {
		valueMarker
		Items []ValueNode `json:"items"`
	}
	StructValueNode struct {
		valueMarker
		Fields []*StructFieldValueNode `json:"fields"`
	}
	StructFieldValueNode struct {
		Name  CamelCaseString `json:"name"`
		Value ValueNode       `json:"value"`
	}
	MapValueNode struct {
		valueMarker
		Entries []*MapEntryValueNode `json:"entries"`
	}
	MapEntryValueNode struct {
		Key   ValueNode `json:"key"`
		Value ValueNode `json:"value"`
	}
	SomeValueNode struct {
		valueMarker
		Value ValueNode `json:"value"`
	}
	NoneValueNode struct {
		valueMarker
	}
	ConstantValueNode struct {
		valueMarker
		Type  TypeNode  `json:"type"`
		Value ValueNode `json:"value"`
	}
	EnumValueNode struct {
		valueMarker
		Enum    *DefinedTypeLinkNode `json:"enum"`
		Variant CamelCaseString      `json:"variant"`
		Value   ValueNode            `json:"value,omitempty"`
	}
)

func (*BooleanValueNode) Kind() string     { return "booleanValueNode" }
func (*NumberValueNode) Kind() string      { return "numberValueNode" }
func (*StringValueNode) Kind() string      { return "stringValueNode" }
func (*BytesValueNode) Kind() string       { return "bytesValueNode" }
func (*PublicKeyValueNode) Kind() string   { return "publicKeyValueNode" }
func (*ArrayValueNode) Kind() string       { return "arrayValueNode" }
func (*SetValueNode) Kind() string         { return "setValueNode" }
func (*TupleValueNode) Kind() string       { return "tupleValueNode" }
func (*StructValueNode) Kind() string      { return "structValueNode" }
func (*StructFieldValueNode) Kind() string { return "structFieldValueNode" }
func (*MapValueNode) Kind() string         { return "mapValueNode" }
func (*MapEntryValueNode) Kind() string    { return "mapEntryValueNode" }
func (*SomeValueNode) Kind() string        { return "someValueNode" }
func (*NoneValueNode) Kind() string        { return "noneValueNode" }
func (*ConstantValueNode) Kind() string    { return "constantValueNode" }
func (*EnumValueNode) Kind() string        { return "enumValueNode" }

type (
	AccountValueNode struct {
		contextualMarker
		Name CamelCaseString `json:"name"`
	}
	AccountBumpValueNode struct {
		contextualMarker
		Name CamelCaseString `json:"name"`
	}
	ArgumentValueNode struct {
		contextualMarker
		Name CamelCaseString `json:"name"`
	}
	IdentityValueNode struct {
		contextualMarker
	}
	PayerValueNode struct {
		contextualMarker
	}
	ProgramIdValueNode struct {
		contextualMarker
	}
	// PdaSeedValueNode assigns a value to a named seed. Value is an account
	// value, an argument value or a constant value node.
	PdaSeedValueNode struct {
		contextualMarker
		Name  CamelCaseString           `json:"name"`
		Value InstructionInputValueNode `json:"value"`
	}
	// PdaValueNode derives an address. Pda is a PdaLinkNode or a PdaNode.
	PdaValueNode struct {
		contextualMarker
		Pda   Node                `json:"pda"`
		Seeds []*PdaSeedValueNode `json:"seeds"`
	}
	ResolverValueNode struct {
		contextualMarker
		Name      CamelCaseString `json:"name"`
		Docs      []string        `json:"docs,omitempty"`
		DependsOn []Node          `json:"dependsOn,omitempty"`
	}
	// ConditionalValueNode picks IfTrue or IfFalse depending on whether
	// Condition (an account, argument or resolver value) resolves, or equals
	// Value when set.
	ConditionalValueNode struct {
		contextualMarker
		Condition Node                      `json:"condition"`
		Value     ValueNode                 `json:"value,omitempty"`
		IfTrue    InstructionInputValueNode `json:"ifTrue,omitempty"`
		IfFalse   InstructionInputValueNode `json:"ifFalse,omitempty"`
	}
)

func (*AccountValueNode) Kind() string     { return "accountValueNode" }
func (*AccountBumpValueNode) Kind() string { return "accountBumpValueNode" }
func (*ArgumentValueNode) Kind() string    { return "argumentValueNode" }
func (*IdentityValueNode) Kind() string    { return "identityValueNode" }
func (*PayerValueNode) Kind() string       { return "payerValueNode" }
func (*ProgramIdValueNode) Kind() string   { return "programIdValueNode" }
func (*PdaSeedValueNode) Kind() string     { return "pdaSeedValueNode" }
func (*PdaValueNode) Kind() string         { return "pdaValueNode" }
func (*ResolverValueNode) Kind() string    { return "resolverValueNode" }
func (*ConditionalValueNode) Kind() string { return "conditionalValueNode" }

type (
	ProgramLinkNode struct {
		linkMarker
		inputMarker
		Name CamelCaseString `json:"name"`
	}
	AccountLinkNode struct {
		linkMarker
		Name    CamelCaseString  `json:"name"`
		Program *ProgramLinkNode `json:"program,omitempty"`
	}
	DefinedTypeLinkNode struct {
		typeMarker
		linkMarker
		Name    CamelCaseString  `json:"name"`
		Program *ProgramLinkNode `json:"program,omitempty"`
	}
	PdaLinkNode struct {
		linkMarker
		Name    CamelCaseString  `json:"name"`
		Program *ProgramLinkNode `json:"program,omitempty"`
	}
	InstructionLinkNode struct {
		linkMarker
		Name    CamelCaseString  `json:"name"`
		Program *ProgramLinkNode `json:"program,omitempty"`
	}
	InstructionAccountLinkNode struct {
		linkMarker
		Name        CamelCaseString      `json:"name"`
		Instruction *InstructionLinkNode `json:"instruction,omitempty"`
	}
	InstructionArgumentLinkNode struct {
		linkMarker
		Name        CamelCaseString      `json:"name"`
		Instruction *InstructionLinkNode `json:"instruction,omitempty"`
	}
)

func (*ProgramLinkNode) Kind() string             { return "programLinkNode" }
func (*AccountLinkNode) Kind() string             { return "accountLinkNode" }
func (*DefinedTypeLinkNode) Kind() string         { return "definedTypeLinkNode" }
func (*PdaLinkNode) Kind() string                 { return "pdaLinkNode" }
func (*InstructionLinkNode) Kind() string         { return "instructionLinkNode" }
func (*InstructionAccountLinkNode) Kind() string  { return "instructionAccountLinkNode" }
func (*InstructionArgumentLinkNode) Kind() string { return "instructionArgumentLinkNode" }

// DefinedTypeLink returns a link to the defined type camelCase(name).
func DefinedTypeLink(name string) *DefinedTypeLinkNode {
	return &DefinedTypeLinkNode{Name: Camel(name)}
}

type (
	FixedCountNode struct {
		countMarker
		Value uint64 `json:"value"`
	}
	PrefixedCountNode struct {
		countMarker
		Prefix NestedTypeNode[*NumberTypeNode] `json:"prefix"`
	}
	RemainderCountNode struct {
		countMarker
	}
)

func (*FixedCountNode) Kind() string     { return "fixedCountNode" }
func (*PrefixedCountNode) Kind() string  { return "prefixedCountNode" }
func (*RemainderCountNode) Kind() string { return "remainderCountNode" }

type (
	ConstantDiscriminatorNode struct {
		discriminatorMarker
		Offset   uint64             `json:"offset"`
		Constant *ConstantValueNode `json:"constant"`
	}
	FieldDiscriminatorNode struct {
		discriminatorMarker
		Name   CamelCaseString `json:"name"`
		Offset uint64          `json:"offset"`
	}
	SizeDiscriminatorNode struct {
		discriminatorMarker
		Size uint64 `json:"size"`
	}
)

func (*ConstantDiscriminatorNode) Kind() string { return "constantDiscriminatorNode" }
func (*FieldDiscriminatorNode) Kind() string    { return "fieldDiscriminatorNode" }
func (*SizeDiscriminatorNode) Kind() string     { return "sizeDiscriminatorNode" }

type (
	ConstantPdaSeedNode struct {
		pdaSeedMarker
		Type  TypeNode `json:"type"`
		Value Node     `json:"value"`
	}
	VariablePdaSeedNode struct {
		pdaSeedMarker
		Name CamelCaseString `json:"name"`
		Docs []string        `json:"docs,omitempty"`
		Type TypeNode        `json:"type"`
	}
)

func (*ConstantPdaSeedNode) Kind() string { return "constantPdaSeedNode" }
func (*VariablePdaSeedNode) Kind() string { return "variablePdaSeedNode" }
