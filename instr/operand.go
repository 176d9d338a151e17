package instr

import "strings"

// Mask is an optional vector mask operand, such as v0.t.
type Mask struct {
	Operand string
	present bool
}

// MaskAt returns the mask operand at position n. A line without the operand
// gives an absent mask.
func (i Inst) MaskAt(n int) Mask {
	op, ok := i.Operand(n)
	return Mask{Operand: op, present: ok}
}

// Present tells if the mask operand was written.
func (m Mask) Present() bool {
	return m.present
}

// Suffix renders the mask as a trailing operand, ", v0.t", or nothing when
// it is absent.
func (m Mask) Suffix() string {
	if !m.present {
		return ""
	}

	return ", " + m.Operand
}

// Mentions tells if the register name appears anywhere in the operand text.
// "(t0)", "8(t0)" and "t0" all mention t0. The test is textual, so "t10"
// also mentions "t1".
func Mentions(operand, reg string) bool {
	return reg != "" && strings.Contains(operand, reg)
}
