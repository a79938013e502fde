package visitors

import (
	"go.uber.org/zap"

	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
	"github.com/calumari/codama/syntax"
	"github.com/calumari/codama/token"
)

var declareIDPaths = []string{
	"declare_id",
	"solana_program::declare_id",
	"solana_pubkey::declare_id",
	"solana_sdk::declare_id",
	"anchor_lang::declare_id",
	"pinocchio_pubkey::declare_id",
}

// SetProgramMetadata gives every crate a program node carrying its name,
// version and public key. The name comes from a crate-level `name`
// directive, else the manifest, else the crate directory. The public key
// comes from a `declare_id!` invocation anywhere in the crate, else from
// `[package.metadata.solana] program-id`. Metadata already present on the
// crate node is kept.
type SetProgramMetadata struct{}

func (v *SetProgramMetadata) VisitCrate(k *koroks.CrateKorok) error {
	program, ok := k.Node.(*nodes.ProgramNode)
	if !ok {
		program = &nodes.ProgramNode{}
	}
	program.Merge(crateMetadata(k))
	k.Node = program
	Logger().Debug("program metadata",
		zap.String("name", program.Name.String()),
		zap.String("version", program.Version),
		zap.String("public_key", program.PublicKey))
	return nil
}

func crateMetadata(k *koroks.CrateKorok) *nodes.ProgramNode {
	program := &nodes.ProgramNode{}
	if d, ok := attributes.Find[*attributes.NameDirective](k.Attributes); ok {
		program.Name = d.Name
	}
	if k.Store == nil {
		program.PublicKey = declaredID(k)
		return program
	}
	if program.Name == "" {
		program.Name = nodes.Camel(k.Store.Name())
	}
	if m := k.Store.Manifest; m != nil {
		program.Version = m.Package.Version
		program.PublicKey = m.Package.Metadata.Solana.ProgramID
	}
	if id := declaredID(k); id != "" {
		program.PublicKey = id
	}
	return program
}

// declaredID returns the address of the first `declare_id!("..")` in k.
func declaredID(k koroks.Korok) string {
	ids := CollectFrom(k, func(k koroks.Korok) (string, bool) {
		u, ok := k.(*koroks.UnsupportedItemKorok)
		if !ok {
			return "", false
		}
		m, ok := u.Ast.(*syntax.ItemMacro)
		if !ok || !m.Path.Matches(declareIDPaths...) {
			return "", false
		}
		return firstString(m.Tokens)
	})
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func firstString(s token.Stream) (string, bool) {
	for _, t := range s {
		if t.Kind == token.Group {
			if v, ok := firstString(t.Tokens); ok {
				return v, true
			}
			continue
		}
		if t.Kind == token.Literal && t.LitKind == token.LitStr {
			return t.Value, true
		}
	}
	return "", false
}
