package visitors

import (
	"go.uber.org/zap"

	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
)

// CombineModules folds the declarations of every item into a program node
// per module, then into the program of each crate. A crate ends up holding
// a root node around its program, and the root korok a root node whose
// program is the first crate's and whose additional programs are the rest.
type CombineModules struct{}

func (v *CombineModules) VisitRoot(k *koroks.RootKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	var programs []*nodes.ProgramNode
	for _, crate := range k.Crates {
		switch n := crate.Node.(type) {
		case *nodes.RootNode:
			programs = append(programs, n.Program)
			programs = append(programs, n.AdditionalPrograms...)
		case *nodes.ProgramNode:
			programs = append(programs, n)
		}
	}
	if len(programs) == 0 {
		k.Node = nodes.Root(&nodes.ProgramNode{})
		return nil
	}
	k.Node = nodes.Root(programs[0], programs[1:]...)
	return nil
}

func (v *CombineModules) VisitCrate(k *koroks.CrateKorok) error {
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	program, ok := k.Node.(*nodes.ProgramNode)
	if !ok {
		program = &nodes.ProgramNode{}
	}
	fold(program, k.Items)
	Logger().Debug("combined crate",
		zap.String("program", program.Name.String()),
		zap.Int("accounts", len(program.Accounts)),
		zap.Int("instructions", len(program.Instructions)),
		zap.Int("defined_types", len(program.DefinedTypes)),
		zap.Int("errors", len(program.Errors)))
	k.Node = nodes.Root(program)
	return nil
}

// VisitItem combines modules and leaves every other item as it is.
func (v *CombineModules) VisitItem(k koroks.ItemKorok) error {
	var items []koroks.ItemKorok
	switch m := k.(type) {
	case *koroks.ModuleKorok:
		items = m.Items
	case *koroks.FileModuleKorok:
		items = m.Items
	default:
		return nil
	}
	if err := VisitChildren(v, k); err != nil {
		return err
	}
	program, ok := k.GetNode().(*nodes.ProgramNode)
	if !ok {
		program = &nodes.ProgramNode{}
	}
	fold(program, items)
	k.SetNode(program)
	return nil
}

func fold(program *nodes.ProgramNode, items []koroks.ItemKorok) {
	for _, item := range items {
		if n := item.GetNode(); n != nil {
			program.Add(n)
		}
	}
}
