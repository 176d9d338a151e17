package core

import (
	"strconv"
	"strings"

	"github.com/sarchlab/rvvrollback/instr"
)

// RuleKind identifies one of the rewrite rules.
type RuleKind int

// The rules, in the order they are applied to every line.
const (
	RuleUnsupported RuleKind = iota
	RuleAttribute
	RuleOpcodeRename
	RuleWholeRegister
	RuleMiscChange
)

// AllRules lists the rule kinds in application order.
var AllRules = []RuleKind{
	RuleUnsupported,
	RuleAttribute,
	RuleOpcodeRename,
	RuleWholeRegister,
	RuleMiscChange,
}

// String returns the name of the rule.
func (k RuleKind) String() string {
	switch k {
	case RuleUnsupported:
		return "unsupported"
	case RuleAttribute:
		return "attribute"
	case RuleOpcodeRename:
		return "opcode-rename"
	case RuleWholeRegister:
		return "whole-register"
	case RuleMiscChange:
		return "misc-change"
	default:
		panic("invalid rule kind")
	}
}

// A rule is a predicate on the original line and an action on the text
// produced so far. The action reports whether it changed anything.
type rule struct {
	kind    RuleKind
	matches func(inst instr.Inst) bool
	apply   func(c *rewriteCtx) (bool, error)
}

// rewriteCtx carries one line through the rules.
type rewriteCtx struct {
	inst  instr.Inst
	lines []string

	// review is set by expansions the operator must check by hand.
	review string
}

// mapLines replaces every current output line by f(line) and reports whether
// any line changed.
func (c *rewriteCtx) mapLines(f func(string) string) bool {
	changed := false

	for i, l := range c.lines {
		n := f(l)
		if n != l {
			c.lines[i] = n
			changed = true
		}
	}

	return changed
}

// replace drops the current output and uses the given lines instead. A label
// on the original line is kept on a line of its own in front.
func (c *rewriteCtx) replace(lines []string) {
	if c.inst.Label != "" {
		lines = append([]string{c.inst.Label}, lines...)
	}

	c.lines = lines
}

func replacingComment(inst instr.Inst) string {
	return "# Replacing Line: " + strconv.Itoa(inst.LineNum) + " - " +
		strings.TrimSpace(inst.Raw)
}
