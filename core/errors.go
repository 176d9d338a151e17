package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoScratchRegister is returned when every scratch register candidate is
// used by the instruction being expanded.
var ErrNoScratchRegister = errors.New("not enough unused scratch registers")

// UnsupportedError reports a line that holds an instruction the target
// version cannot express.
type UnsupportedError struct {
	// Entry is the unsupported table entry found in the line.
	Entry   string
	Line    string
	LineNum int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf(
		"line %d: encountered instruction that cannot be translated: [%s] in line: %s",
		e.LineNum, e.Entry, strings.TrimSpace(e.Line))
}

// UnhandledVariantError reports an instruction that triggered a rule but has
// no defined expansion.
type UnhandledVariantError struct {
	Mnemonic string
	Line     string
	LineNum  int
	Reason   string
}

func (e *UnhandledVariantError) Error() string {
	return fmt.Sprintf("line %d: cannot expand %q: %s in line: %s",
		e.LineNum, e.Mnemonic, e.Reason, strings.TrimSpace(e.Line))
}
