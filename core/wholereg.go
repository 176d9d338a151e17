package core

import (
	"fmt"
	"strings"

	"github.com/sarchlab/rvvrollback/instr"
)

// wholeRegisterOp is the v0.7 replacement of a whole-register instruction:
// a vector configuration followed by one unit-stride or move instruction.
type wholeRegisterOp struct {
	sew    int
	lmul   int
	opcode string
}

func (w wholeRegisterOp) vset() string {
	return operands("x0", "x0", fmt.Sprintf("e%d", w.sew), fmt.Sprintf("m%d", w.lmul))
}

// wholeRegisterOps maps every v1.0 whole-register mnemonic with a defined
// expansion to its replacement.
var wholeRegisterOps = buildWholeRegisterOps()

func buildWholeRegisterOps() map[string]wholeRegisterOp {
	ops := make(map[string]wholeRegisterOp)

	for _, n := range []int{1, 2, 4, 8} {
		load := wholeRegisterOp{sew: 32, lmul: n, opcode: "vlw.v"}
		ops[fmt.Sprintf("vl%dr.v", n)] = load
		for _, eew := range []int{8, 16, 32, 64} {
			ops[fmt.Sprintf("vl%dre%d.v", n, eew)] = load
		}

		ops[fmt.Sprintf("vs%dr.v", n)] = wholeRegisterOp{sew: 32, lmul: n, opcode: "vsw.v"}
		ops[fmt.Sprintf("vmv%dr.v", n)] = wholeRegisterOp{sew: 32, lmul: n, opcode: "vmv.v.v"}
	}

	ops["vle64.v"] = wholeRegisterOp{sew: 64, lmul: 1, opcode: "vle.v"}
	ops["vse64.v"] = wholeRegisterOp{sew: 64, lmul: 1, opcode: "vse.v"}

	return ops
}

func (r *Rewriter) matchWholeRegister(inst instr.Inst) bool {
	if inst.IsEmpty() {
		return false
	}

	_, ok := r.tables.FindWholeRegister(inst.Code())

	return ok
}

// applyWholeRegister replaces the line with a sequence that saves two scratch
// registers, stashes vl and vtype in them, configures the vector unit for the
// replacement instruction, runs it, and restores everything.
func (r *Rewriter) applyWholeRegister(c *rewriteCtx) (bool, error) {
	inst := c.inst
	mnemonic := inst.Mnemonic()

	op, ok := wholeRegisterOps[mnemonic]
	if !ok {
		return false, &UnhandledVariantError{
			Mnemonic: mnemonic,
			Line:     inst.Raw,
			LineNum:  inst.LineNum,
			Reason:   "no whole-register expansion is defined",
		}
	}

	rd, okD := inst.Operand(1)
	rs, okS := inst.Operand(2)
	if !okD || !okS {
		return false, &UnhandledVariantError{
			Mnemonic: mnemonic,
			Line:     inst.Raw,
			LineNum:  inst.LineNum,
			Reason:   "expected destination and source operands",
		}
	}

	vm := inst.MaskAt(3).Suffix()

	scratch, err := pickScratch(r.scratchPool, 2, rs)
	if err != nil {
		return false, fmt.Errorf("line %d: %w", inst.LineNum, err)
	}

	s0, s1 := scratch[0], scratch[1]
	vinst := operands(rd, rs) + vm

	var e emitter

	e.raw(replacingComment(inst))
	e.inst("sd", operands(s0, scratchSlots[0]))
	e.inst("sd", operands(s1, scratchSlots[1]))
	e.inst("csrr", operands(s0, "vl"))
	e.inst("csrr", operands(s1, "vtype"))
	e.inst("vsetvli", op.vset())
	e.inst(op.opcode, vinst)
	e.inst("vsetvl", operands("x0", s0, s1))
	e.inst("ld", operands(s0, scratchSlots[0]))
	e.inst("ld", operands(s1, scratchSlots[1]))

	e.raw(replacingComment(inst))
	e.comment("Suggestion")
	e.comment("Pick 2 unused registers e.g. t0, t1")
	e.commented("csrr", operands("t0", "vl"), "may be unnecessary")
	e.commented("csrr", operands("t1", "vtype"), "may be unnecessary")
	e.commented("vsetvli", op.vset(), "")
	e.commented(op.opcode, vinst, "")
	e.commented("vsetvl", operands("x0", "t0", "t1"), "may be unnecessary")

	c.replace(e.lines)
	c.review = fmt.Sprintf(
		"whole-register %s expanded with scratch registers %s",
		mnemonic, strings.Join(scratch, ", "))

	return true, nil
}
