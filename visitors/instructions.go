package visitors

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
)

// SetInstructions promotes structs deriving CodamaInstruction into
// instructions and enums deriving CodamaInstructions into one instruction per
// variant. Fields carrying an `account` directive become instruction
// accounts, the others become arguments.
type SetInstructions struct{}

func (v *SetInstructions) VisitStruct(k *koroks.StructKorok) error {
	if !k.Attributes.HasDerive(InstructionDerives...) {
		return nil
	}
	ix, ok, err := instruction(itemName(k), koroks.Docs(k), k.Attributes, k.Fields)
	if err != nil || !ok {
		return err
	}
	k.Node = ix
	return nil
}

func (v *SetInstructions) VisitEnum(k *koroks.EnumKorok) error {
	if !k.Attributes.HasDerive(InstructionsDerives...) {
		return nil
	}
	discriminator := &nodes.InstructionArgumentNode{
		Name:                 "discriminator",
		DefaultValueStrategy: nodes.DefaultValueOmitted,
		Type:                 nodes.LE(nodes.U8),
	}
	if d, ok := attributes.Find[*attributes.EnumDiscriminatorDirective](k.Attributes); ok {
		if d.Name != "" {
			discriminator.Name = d.Name
		}
		if !d.Size.IsZero() {
			discriminator.Type = d.Size.Node()
		}
	}

	program := &nodes.ProgramNode{}
	var (
		errs errors.List
		next uint64
	)
	for _, variant := range k.Variants {
		value := next
		if d, err := variantDiscriminator(variant); err != nil {
			errs.Add(err)
		} else if d != nil {
			value = *d
		}
		next = value + 1

		name := nodes.Camel(variant.Ident())
		if n, ok := attributes.Find[*attributes.NameDirective](variant.Attributes); ok {
			name = n.Name
		}
		ix, ok, err := instruction(name, koroks.Docs(variant), variant.Attributes, variant.Fields)
		if err != nil {
			errs.Add(err)
			continue
		}
		if !ok {
			Logger().Debug("skipping instruction with unresolved fields", zap.String("variant", variant.Ident()))
			continue
		}
		arg := *discriminator
		arg.DefaultValue = &nodes.NumberValueNode{Number: nodes.Uint(value)}
		ix.Arguments = append([]*nodes.InstructionArgumentNode{&arg}, ix.Arguments...)
		ix.Discriminators = append([]nodes.DiscriminatorNode{&nodes.FieldDiscriminatorNode{Name: arg.Name}}, ix.Discriminators...)
		program.Instructions = append(program.Instructions, ix)
	}
	if err := errs.Err(); err != nil {
		return err
	}
	k.Node = program
	return nil
}

// instruction builds an instruction from the directives and fields of a
// struct or variant. It reports false when a field has no node.
func instruction(name nodes.CamelCaseString, docs []string, attrs attributes.Attributes, fields *koroks.FieldsKorok) (*nodes.InstructionNode, bool, error) {
	ix := &nodes.InstructionNode{
		Name:                    name,
		Docs:                    docs,
		OptionalAccountStrategy: nodes.OptionalAccountProgramID,
		Discriminators:          discriminators(attrs),
	}
	var errs errors.List
	for _, d := range attributes.All[*attributes.AccountDirective](attrs) {
		if d.Name == "" {
			errs.Add(errors.Compile(d.Span(), "instruction accounts declared on `%s` need a name", name))
			continue
		}
		ix.Accounts = append(ix.Accounts, instructionAccount(d, d.Name, nil))
	}
	if fields != nil {
		for i, f := range fields.All {
			if d, ok := attributes.Find[*attributes.AccountDirective](f.Attributes); ok {
				ix.Accounts = append(ix.Accounts, instructionAccount(d, fieldName(f, i), koroks.Docs(f)))
				continue
			}
			arg, ok := fieldArgument(f, i)
			if !ok {
				return nil, false, nil
			}
			ix.Arguments = append(ix.Arguments, arg)
		}
	}
	for _, d := range attributes.All[*attributes.ArgumentDirective](attrs) {
		ix.Arguments = append(ix.Arguments, &nodes.InstructionArgumentNode{
			Name:                 d.Name,
			DefaultValueStrategy: d.DefaultValueStrategy,
			Docs:                 d.Docs,
			Type:                 d.Type,
			DefaultValue:         d.DefaultValue,
		})
	}
	if err := errs.Err(); err != nil {
		return nil, false, err
	}
	return ix, true, nil
}

func instructionAccount(d *attributes.AccountDirective, name nodes.CamelCaseString, docs []string) *nodes.InstructionAccountNode {
	if d.Name != "" {
		name = d.Name
	}
	if len(d.Docs) > 0 {
		docs = d.Docs
	}
	return &nodes.InstructionAccountNode{
		Name:         name,
		IsWritable:   d.IsWritable,
		IsSigner:     d.IsSigner,
		IsOptional:   d.IsOptional,
		Docs:         docs,
		DefaultValue: d.DefaultValue,
	}
}

func fieldArgument(f *koroks.FieldKorok, i int) (*nodes.InstructionArgumentNode, bool) {
	switch n := f.Node.(type) {
	case *nodes.StructFieldTypeNode:
		arg := &nodes.InstructionArgumentNode{
			Name:                 n.Name,
			DefaultValueStrategy: n.DefaultValueStrategy,
			Docs:                 n.Docs,
			Type:                 n.Type,
		}
		if n.DefaultValue != nil {
			arg.DefaultValue = n.DefaultValue
		}
		return arg, true
	case nodes.TypeNode:
		return &nodes.InstructionArgumentNode{Name: fieldName(f, i), Docs: koroks.Docs(f), Type: n}, true
	}
	return nil, false
}

// fieldName is the camelCase name of a field; tuple fields are arg0, arg1...
func fieldName(f *koroks.FieldKorok, i int) nodes.CamelCaseString {
	if f.IsNamed() {
		return nodes.Camel(f.Ident())
	}
	return nodes.Camel(fmt.Sprintf("arg%d", i))
}
