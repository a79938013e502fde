package visitors

// DefaultPipeline returns fresh instances of the visitors turning a parsed
// korok tree into a root node, in the order they must run.
func DefaultPipeline() []Visitor {
	return []Visitor{
		&SetProgramMetadata{},
		&ApplyTypeOverrides{},
		&SetBorshTypes{},
		&SetLinkTypes{},
		&ApplyTypeModifiers{},
		&CombineTypes{},
		&SetAccounts{},
		&SetInstructions{},
		&SetErrors{},
		&CombineModules{},
	}
}

// Default returns the default pipeline as a single visitor.
func Default() *ComposeVisitor {
	return Compose(DefaultPipeline()...)
}
