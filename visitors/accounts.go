package visitors

import (
	"go.uber.org/zap"

	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
)

// Derives recognized by the assembly visitors.
var (
	AccountDerives      = []string{"CodamaAccount", "codama::CodamaAccount"}
	PdaDerives          = []string{"CodamaPda", "codama::CodamaPda"}
	InstructionDerives  = []string{"CodamaInstruction", "codama::CodamaInstruction"}
	InstructionsDerives = []string{"CodamaInstructions", "codama::CodamaInstructions"}
	ErrorsDerives       = []string{"CodamaErrors", "codama::CodamaErrors"}
)

// SetAccounts promotes the defined types of structs deriving CodamaAccount
// into accounts. Seed directives on such a struct declare the PDA of the
// account, and structs deriving CodamaPda become standalone PDAs. Accounts
// with a fixed encoded size record it; sizes of linked types are resolved
// against the defined types of the crate. Enums are not promoted.
type SetAccounts struct {
	lookup nodes.Lookup
}

func (v *SetAccounts) VisitCrate(k *koroks.CrateKorok) error {
	v.lookup = lookupIn(k)
	defer func() { v.lookup = nil }()
	return VisitChildren(v, k)
}

func (v *SetAccounts) VisitStruct(k *koroks.StructKorok) error {
	switch {
	case k.Attributes.HasDerive(AccountDerives...):
		return v.setAccount(k)
	case k.Attributes.HasDerive(PdaDerives...):
		return v.setPda(k)
	}
	return nil
}

func (v *SetAccounts) VisitEnum(k *koroks.EnumKorok) error {
	if k.Attributes.HasDerive(AccountDerives...) {
		Logger().Debug("enums cannot be accounts", zap.String("enum", k.Ident()))
	}
	return nil
}

func (v *SetAccounts) setAccount(k *koroks.StructKorok) error {
	defined, ok := definedType(k)
	if !ok {
		return nil
	}
	data, err := nodes.AsNested[*nodes.StructTypeNode](defined.Type)
	if err != nil {
		return errors.Compile(k.Span(), "account `%s` must be a struct, found %s", defined.Name, nodes.Innermost(defined.Type).Kind())
	}
	account := &nodes.AccountNode{
		Name:           defined.Name,
		Docs:           defined.Docs,
		Data:           data,
		Discriminators: discriminators(k.Attributes),
	}
	if size, ok := nodes.FixedSize(data.Node(), v.lookup); ok {
		account.Size = &size
	}

	seeds, err := pdaSeeds(k.Attributes, data.NestedTypeNode())
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		k.Node = account
		return nil
	}
	pda := &nodes.PdaNode{Name: defined.Name, Docs: defined.Docs, Seeds: seeds}
	account.Pda = &nodes.PdaLinkNode{Name: pda.Name}
	Logger().Debug("account with pda", zap.String("account", string(account.Name)), zap.Int("seeds", len(seeds)))
	k.Node = &nodes.ProgramNode{Accounts: []*nodes.AccountNode{account}, Pdas: []*nodes.PdaNode{pda}}
	return nil
}

func (v *SetAccounts) setPda(k *koroks.StructKorok) error {
	name := itemName(k)
	var fields *nodes.StructTypeNode
	if defined, ok := definedType(k); ok {
		fields, _ = nodes.Innermost(defined.Type).(*nodes.StructTypeNode)
	}
	seeds, err := pdaSeeds(k.Attributes, fields)
	if err != nil {
		return err
	}
	k.Node = &nodes.PdaNode{Name: name, Docs: koroks.Docs(k), Seeds: seeds}
	return nil
}

// pdaSeeds converts the seed directives of attrs. Seeds linked to a field take
// the type of that field in data.
func pdaSeeds(attrs attributes.Attributes, data *nodes.StructTypeNode) ([]nodes.PdaSeedNode, error) {
	var (
		seeds []nodes.PdaSeedNode
		errs  errors.List
	)
	for _, d := range attributes.All[*attributes.SeedDirective](attrs) {
		switch d.Kind {
		case attributes.SeedConstant:
			seeds = append(seeds, &nodes.ConstantPdaSeedNode{Type: d.Type, Value: d.Value})
		case attributes.SeedVariable:
			seeds = append(seeds, &nodes.VariablePdaSeedNode{Name: d.Name, Type: d.Type})
		case attributes.SeedLinked:
			field := findField(data, d.Name)
			if field == nil {
				errs.Add(errors.Compile(d.Span(), "seed `%s` does not name a field of the account", d.Name))
				continue
			}
			seeds = append(seeds, &nodes.VariablePdaSeedNode{Name: d.Name, Docs: field.Docs, Type: field.Type})
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return seeds, nil
}

func findField(data *nodes.StructTypeNode, name nodes.CamelCaseString) *nodes.StructFieldTypeNode {
	if data == nil {
		return nil
	}
	for _, f := range data.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func discriminators(attrs attributes.Attributes) []nodes.DiscriminatorNode {
	var out []nodes.DiscriminatorNode
	for _, d := range attributes.All[*attributes.DiscriminatorDirective](attrs) {
		out = append(out, d.Node)
	}
	return out
}
