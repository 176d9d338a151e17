package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sarchlab/rvvrollback/instr"
)

// policySuffix matches a tail or mask policy operand, which v0.7 does not
// accept.
var policySuffix = regexp.MustCompile(`\s*,\s*(?:tu|ta|mu|ma)\b`)

// setIVLIHead matches "vsetivli rd, avl" so that the immediate AVL can be
// swapped for a register.
var setIVLIHead = regexp.MustCompile(`^(\s*)vsetivli(\s+[^,\s]+\s*,\s*)[^,\s]+`)

// StripPolicy removes the tail and mask policy operands from a line.
func StripPolicy(line string) string {
	return policySuffix.ReplaceAllString(line, "")
}

func (r *Rewriter) applyStripPolicy(c *rewriteCtx) (bool, error) {
	return c.mapLines(StripPolicy), nil
}

// applySetIVLI rewrites vsetivli, whose AVL is an immediate, into vsetvli
// reading the AVL from a scratch register loaded with that immediate.
func (r *Rewriter) applySetIVLI(c *rewriteCtx) (bool, error) {
	inst := c.inst

	avl, ok := inst.Operand(2)
	if !ok || !setIVLIHead.MatchString(inst.Body()) {
		return false, &UnhandledVariantError{
			Mnemonic: inst.Mnemonic(),
			Line:     inst.Raw,
			LineNum:  inst.LineNum,
			Reason:   "expected a destination and an immediate AVL",
		}
	}

	rd, _ := inst.Operand(1)

	scratch, err := pickScratch(r.scratchPool, 1, rd)
	if err != nil {
		return false, fmt.Errorf("line %d: %w", inst.LineNum, err)
	}

	s := scratch[0]
	vset := setIVLIHead.ReplaceAllString(StripPolicy(inst.Body()), "${1}vsetvli${2}"+s)
	tag := fmt.Sprintf("rvv-rollback line %d", inst.LineNum)

	var e emitter

	e.raw(replacingComment(inst))
	e.tagged("sd", operands(s, scratchSlots[0]), tag)
	e.tagged("addi", operands(s, "x0", avl), tag)
	e.raw(vset + "  # " + tag)
	e.tagged("ld", operands(s, scratchSlots[0]), tag)

	e.raw(replacingComment(inst))
	e.comment("Suggestion")
	e.comment("Pick an unused register e.g. %s", s)
	e.commented("addi", operands(s, "x0", avl), "")
	e.raw("#" + vset)

	c.replace(e.lines)
	c.review = fmt.Sprintf("vsetivli AVL %s moved to scratch register %s", avl, s)

	return true, nil
}

// extension describes how a zero or sign extension is emulated by widening
// adds of zero.
type extension struct {
	opcode string
	steps  int
}

var extensions = map[string]extension{
	"vzext.vf2": {opcode: "vwaddu.vx", steps: 1},
	"vzext.vf4": {opcode: "vwaddu.vx", steps: 2},
	"vzext.vf8": {opcode: "vwaddu.vx", steps: 3},
	"vsext.vf2": {opcode: "vwadd.vx", steps: 1},
	"vsext.vf4": {opcode: "vwadd.vx", steps: 2},
	"vsext.vf8": {opcode: "vwadd.vx", steps: 3},
}

// applyExtension replaces vzext/vsext by as many widening adds as it takes to
// reach the extension factor. Each add doubles the element width.
func (r *Rewriter) applyExtension(c *rewriteCtx) (bool, error) {
	inst := c.inst
	ext := extensions[inst.Mnemonic()]

	vd, okD := inst.Operand(1)
	vs2, okS := inst.Operand(2)
	if !okD || !okS {
		return false, &UnhandledVariantError{
			Mnemonic: inst.Mnemonic(),
			Line:     inst.Raw,
			LineNum:  inst.LineNum,
			Reason:   "expected destination and source operands",
		}
	}

	vm := inst.MaskAt(3).Suffix()

	var e emitter

	src := vs2
	for i := 0; i < ext.steps; i++ {
		e.inst(ext.opcode, operands(vd, src, "x0")+vm)
		src = vd
	}

	c.replace(e.lines)

	return true, nil
}

// miscRules returns the sub-rules of the miscellaneous change, keyed by
// mnemonic.
func (r *Rewriter) miscRules() map[string]func(c *rewriteCtx) (bool, error) {
	rules := map[string]func(c *rewriteCtx) (bool, error){
		"vsetvl":   r.applyStripPolicy,
		"vsetvli":  r.applyStripPolicy,
		"vsetivli": r.applySetIVLI,
	}

	for mnemonic := range extensions {
		rules[mnemonic] = r.applyExtension
	}

	return rules
}

func (r *Rewriter) matchMiscChange(inst instr.Inst) bool {
	if _, ok := r.tables.FindMiscChange(inst.Raw); !ok {
		return false
	}

	_, ok := r.misc[inst.Mnemonic()]

	return ok
}

func (r *Rewriter) applyMiscChange(c *rewriteCtx) (bool, error) {
	return r.misc[c.inst.Mnemonic()](c)
}

// IsPolicyOperand tells if an operand is a tail or mask policy.
func IsPolicyOperand(op string) bool {
	switch strings.TrimSpace(op) {
	case "tu", "ta", "mu", "ma":
		return true
	default:
		return false
	}
}
