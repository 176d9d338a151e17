package config

import "slices"

// Builder can build rule tables.
type Builder struct {
	opcodeRename     []Rename
	attributeRename  []Rename
	attributeRemoval []string
	wholeRegisterOps []string
	miscChangeOps    []string
	unsupportedOps   []string
}

// MakeBuilder creates a builder with empty tables.
func MakeBuilder() Builder {
	return Builder{}
}

// WithOpcodeRename adds an opcode rename. Renames apply in the order they
// are added.
func (b Builder) WithOpcodeRename(from, to string) Builder {
	b.opcodeRename = append(slices.Clip(b.opcodeRename), Rename{From: from, To: to})
	return b
}

// WithAttributeRename sets the version suffix an extension is renamed to.
func (b Builder) WithAttributeRename(name, suffix string) Builder {
	b.attributeRename = append(slices.Clip(b.attributeRename),
		Rename{From: name, To: suffix})
	return b
}

// WithAttributeRemoval adds extensions that are dropped from the metadata.
func (b Builder) WithAttributeRemoval(names ...string) Builder {
	b.attributeRemoval = append(slices.Clip(b.attributeRemoval), names...)
	return b
}

// WithWholeRegisterOps adds mnemonics that need the whole-register expansion.
func (b Builder) WithWholeRegisterOps(ops ...string) Builder {
	b.wholeRegisterOps = append(slices.Clip(b.wholeRegisterOps), ops...)
	return b
}

// WithMiscChangeOps adds mnemonics handled by the miscellaneous rules.
func (b Builder) WithMiscChangeOps(ops ...string) Builder {
	b.miscChangeOps = append(slices.Clip(b.miscChangeOps), ops...)
	return b
}

// WithUnsupportedOps adds entries that make a line untranslatable.
func (b Builder) WithUnsupportedOps(ops ...string) Builder {
	b.unsupportedOps = append(slices.Clip(b.unsupportedOps), ops...)
	return b
}

// Build creates the rule tables.
func (b Builder) Build() RuleTables {
	return RuleTables{
		opcodeRename:     slices.Clone(b.opcodeRename),
		attributeRename:  slices.Clone(b.attributeRename),
		attributeRemoval: slices.Clone(b.attributeRemoval),
		wholeRegisterOps: slices.Clone(b.wholeRegisterOps),
		miscChangeOps:    slices.Clone(b.miscChangeOps),
		unsupportedOps:   slices.Clone(b.unsupportedOps),
	}
}
