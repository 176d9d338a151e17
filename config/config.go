// Package config provides the rule tables that drive the translation from
// RISC-V Vector extension 1.0 assembly to version 0.7.
package config

import "strings"

// Rename maps an old piece of text to its replacement.
type Rename struct {
	From string
	To   string
}

// RuleTables holds the lookup tables used by the rewriter. A RuleTables value
// is immutable once built and can be shared by any number of translations.
//
// Every table is kept in the order it was declared. Lookups that can match
// more than one entry always report the first one in that order.
type RuleTables struct {
	opcodeRename     []Rename
	attributeRename  []Rename
	attributeRemoval []string
	wholeRegisterOps []string
	miscChangeOps    []string
	unsupportedOps   []string
}

// OpcodeRenames returns the opcode rename table in declaration order.
func (t RuleTables) OpcodeRenames() []Rename {
	return append([]Rename(nil), t.opcodeRename...)
}

// AttributeRenames returns the extension rename table in declaration order.
func (t RuleTables) AttributeRenames() []Rename {
	return append([]Rename(nil), t.attributeRename...)
}

// AttributeRemovals returns the names of the extensions that are dropped.
func (t RuleTables) AttributeRemovals() []string {
	return append([]string(nil), t.attributeRemoval...)
}

// WholeRegisterOps returns the mnemonics that need the whole-register
// expansion.
func (t RuleTables) WholeRegisterOps() []string {
	return append([]string(nil), t.wholeRegisterOps...)
}

// MiscChangeOps returns the mnemonics handled by the miscellaneous rules.
func (t RuleTables) MiscChangeOps() []string {
	return append([]string(nil), t.miscChangeOps...)
}

// UnsupportedOps returns the entries that make a line untranslatable.
func (t RuleTables) UnsupportedOps() []string {
	return append([]string(nil), t.unsupportedOps...)
}

// AttributeSuffix returns the version suffix an extension is renamed to.
func (t RuleTables) AttributeSuffix(name string) (string, bool) {
	for _, r := range t.attributeRename {
		if r.From == name {
			return r.To, true
		}
	}

	return "", false
}

// IsAttributeRemoved tells if an extension is dropped from the metadata.
func (t RuleTables) IsAttributeRemoved(name string) bool {
	for _, n := range t.attributeRemoval {
		if n == name {
			return true
		}
	}

	return false
}

// FindUnsupported returns the first unsupported entry contained in the line.
func (t RuleTables) FindUnsupported(line string) (string, bool) {
	return firstContained(t.unsupportedOps, line)
}

// FindWholeRegister returns the first whole-register mnemonic contained in
// the line.
func (t RuleTables) FindWholeRegister(line string) (string, bool) {
	return firstContained(t.wholeRegisterOps, line)
}

// FindMiscChange returns the first miscellaneous-change mnemonic contained in
// the line.
func (t RuleTables) FindMiscChange(line string) (string, bool) {
	return firstContained(t.miscChangeOps, line)
}

// IsEmpty tells if no table has any entry.
func (t RuleTables) IsEmpty() bool {
	return len(t.opcodeRename) == 0 &&
		len(t.attributeRename) == 0 &&
		len(t.attributeRemoval) == 0 &&
		len(t.wholeRegisterOps) == 0 &&
		len(t.miscChangeOps) == 0 &&
		len(t.unsupportedOps) == 0
}

func firstContained(entries []string, line string) (string, bool) {
	for _, e := range entries {
		if e != "" && strings.Contains(line, e) {
			return e, true
		}
	}

	return "", false
}
