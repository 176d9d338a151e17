package core

import (
	"fmt"
	"strings"
)

// emitter collects the lines of an expansion.
type emitter struct {
	lines []string
}

// inst emits an instruction. The operand text is written as given.
func (e *emitter) inst(mnemonic, operands string) {
	e.lines = append(e.lines, formatInst(mnemonic, operands))
}

// tagged emits an instruction followed by a trailing comment.
func (e *emitter) tagged(mnemonic, operands, tag string) {
	e.lines = append(e.lines, formatInst(mnemonic, operands)+"  # "+tag)
}

// raw emits a line verbatim.
func (e *emitter) raw(line string) {
	e.lines = append(e.lines, line)
}

// comment emits a full-line comment.
func (e *emitter) comment(format string, args ...any) {
	e.lines = append(e.lines, "# "+fmt.Sprintf(format, args...))
}

// commented emits an instruction that is commented out.
func (e *emitter) commented(mnemonic, operands, note string) {
	line := "#" + formatInst(mnemonic, operands)
	if note != "" {
		line += "\t\t(" + note + ")"
	}

	e.lines = append(e.lines, line)
}

func formatInst(mnemonic, operands string) string {
	return fmt.Sprintf("\t%-8s %s", mnemonic, operands)
}

func operands(ops ...string) string {
	return strings.Join(ops, ", ")
}
