package nodes

// Standard is the value of the root node "standard" field.
const Standard = "codama"

// Version is the version of the node standard this package emits.
const Version = "1.0.0"

// OptionalAccountStrategy tells clients how to encode missing optional
// accounts.
type OptionalAccountStrategy string

const (
	OptionalAccountOmitted   OptionalAccountStrategy = "omitted"
	OptionalAccountProgramID OptionalAccountStrategy = "programId"
)

type (
	RootNode struct {
		Standard           string         `json:"standard"`
		Version            string         `json:"version"`
		Program            *ProgramNode   `json:"program"`
		AdditionalPrograms []*ProgramNode `json:"additionalPrograms"`
	}
	ProgramNode struct {
		Name         CamelCaseString    `json:"name"`
		PublicKey    string             `json:"publicKey"`
		Version      string             `json:"version"`
		Origin       string             `json:"origin,omitempty"`
		Docs         []string           `json:"docs,omitempty"`
		Accounts     []*AccountNode     `json:"accounts"`
		Instructions []*InstructionNode `json:"instructions"`
		DefinedTypes []*DefinedTypeNode `json:"definedTypes"`
		Pdas         []*PdaNode         `json:"pdas"`
		Errors       []*ErrorNode       `json:"errors"`
	}
	AccountNode struct {
		Name           CamelCaseString                 `json:"name"`
		Size           *uint64                         `json:"size,omitempty"`
		Docs           []string                        `json:"docs,omitempty"`
		Data           NestedTypeNode[*StructTypeNode] `json:"data"`
		Pda            *PdaLinkNode                    `json:"pda,omitempty"`
		Discriminators []DiscriminatorNode             `json:"discriminators,omitempty"`
	}
	InstructionNode struct {
		Name                    CamelCaseString                     `json:"name"`
		Docs                    []string                            `json:"docs,omitempty"`
		OptionalAccountStrategy OptionalAccountStrategy             `json:"optionalAccountStrategy"`
		Accounts                []*InstructionAccountNode           `json:"accounts"`
		Arguments               []*InstructionArgumentNode          `json:"arguments"`
		ExtraArguments          []*InstructionArgumentNode          `json:"extraArguments,omitempty"`
		RemainingAccounts       []*InstructionRemainingAccountsNode `json:"remainingAccounts,omitempty"`
		ByteDeltas              []*InstructionByteDeltaNode         `json:"byteDeltas,omitempty"`
		Discriminators          []DiscriminatorNode                 `json:"discriminators,omitempty"`
		SubInstructions         []*InstructionNode                  `json:"subInstructions,omitempty"`
	}
	InstructionAccountNode struct {
		Name         CamelCaseString           `json:"name"`
		IsWritable   bool                      `json:"isWritable"`
		IsSigner     IsSigner                  `json:"isSigner"`
		IsOptional   bool                      `json:"isOptional,omitempty"`
		Docs         []string                  `json:"docs,omitempty"`
		DefaultValue InstructionInputValueNode `json:"defaultValue,omitempty"`
	}
	InstructionArgumentNode struct {
		Name                 CamelCaseString           `json:"name"`
		DefaultValueStrategy DefaultValueStrategy      `json:"defaultValueStrategy,omitempty"`
		Docs                 []string                  `json:"docs,omitempty"`
		Type                 TypeNode                  `json:"type"`
		DefaultValue         InstructionInputValueNode `json:"defaultValue,omitempty"`
	}
	// InstructionByteDeltaNode describes how an instruction changes the size
	// of an account. Value is a number value, an argument value, an account
	// link or a resolver value.
	InstructionByteDeltaNode struct {
		Value      Node `json:"value"`
		WithHeader bool `json:"withHeader"`
		Subtract   bool `json:"subtract,omitempty"`
	}
	// InstructionRemainingAccountsNode describes accounts passed after the
	// declared ones. Value is an argument value or a resolver value.
	InstructionRemainingAccountsNode struct {
		IsOptional bool     `json:"isOptional,omitempty"`
		IsSigner   IsSigner `json:"isSigner,omitempty"`
		IsWritable bool     `json:"isWritable,omitempty"`
		Docs       []string `json:"docs,omitempty"`
		Value      Node     `json:"value"`
	}
	DefinedTypeNode struct {
		Name CamelCaseString `json:"name"`
		Docs []string        `json:"docs,omitempty"`
		Type TypeNode        `json:"type"`
	}
	PdaNode struct {
		Name      CamelCaseString `json:"name"`
		Docs      []string        `json:"docs,omitempty"`
		Seeds     []PdaSeedNode   `json:"seeds"`
		ProgramID string          `json:"programId,omitempty"`
	}
	ErrorNode struct {
		Name    CamelCaseString `json:"name"`
		Code    uint64          `json:"code"`
		Message string          `json:"message"`
		Docs    []string        `json:"docs,omitempty"`
	}
)

func (*RootNode) Kind() string                         { return "rootNode" }
func (*ProgramNode) Kind() string                      { return "programNode" }
func (*AccountNode) Kind() string                      { return "accountNode" }
func (*InstructionNode) Kind() string                  { return "instructionNode" }
func (*InstructionAccountNode) Kind() string           { return "instructionAccountNode" }
func (*InstructionArgumentNode) Kind() string          { return "instructionArgumentNode" }
func (*InstructionByteDeltaNode) Kind() string         { return "instructionByteDeltaNode" }
func (*InstructionRemainingAccountsNode) Kind() string { return "instructionRemainingAccountsNode" }
func (*DefinedTypeNode) Kind() string                  { return "definedTypeNode" }
func (*PdaNode) Kind() string                          { return "pdaNode" }
func (*ErrorNode) Kind() string                        { return "errorNode" }

// Root returns a root node around program. No additional programs leaves
// AdditionalPrograms nil so the node survives a JSON round trip.
func Root(program *ProgramNode, additional ...*ProgramNode) *RootNode {
	if len(additional) == 0 {
		additional = nil
	}
	return &RootNode{
		Standard:           Standard,
		Version:            Version,
		Program:            program,
		AdditionalPrograms: additional,
	}
}

// IsEmpty reports whether the program declares nothing but metadata.
func (p *ProgramNode) IsEmpty() bool {
	return len(p.Accounts) == 0 && len(p.Instructions) == 0 && len(p.DefinedTypes) == 0 &&
		len(p.Pdas) == 0 && len(p.Errors) == 0
}

// Merge appends every declaration of other to p. Metadata already set on p
// wins.
func (p *ProgramNode) Merge(other *ProgramNode) {
	if other == nil {
		return
	}
	if p.Name == "" {
		p.Name = other.Name
	}
	if p.PublicKey == "" {
		p.PublicKey = other.PublicKey
	}
	if p.Version == "" {
		p.Version = other.Version
	}
	if p.Origin == "" {
		p.Origin = other.Origin
	}
	if len(p.Docs) == 0 {
		p.Docs = other.Docs
	}
	p.Accounts = append(p.Accounts, other.Accounts...)
	p.Instructions = append(p.Instructions, other.Instructions...)
	p.DefinedTypes = append(p.DefinedTypes, other.DefinedTypes...)
	p.Pdas = append(p.Pdas, other.Pdas...)
	p.Errors = append(p.Errors, other.Errors...)
}

// Add appends n to the matching declaration list of p. It reports false when
// n is not a declaration.
func (p *ProgramNode) Add(n Node) bool {
	switch n := n.(type) {
	case *AccountNode:
		p.Accounts = append(p.Accounts, n)
	case *InstructionNode:
		p.Instructions = append(p.Instructions, n)
	case *DefinedTypeNode:
		p.DefinedTypes = append(p.DefinedTypes, n)
	case *PdaNode:
		p.Pdas = append(p.Pdas, n)
	case *ErrorNode:
		p.Errors = append(p.Errors, n)
	case *ProgramNode:
		p.Merge(n)
	default:
		return false
	}
	return true
}
