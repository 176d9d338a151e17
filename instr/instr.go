// Package instr splits RISC-V assembly source lines into instructions.
package instr

import "strings"

// CommentDelimiter starts a comment that runs to the end of the line.
const CommentDelimiter = "#"

// Inst is one line of assembly split into tokens. Tokens[0] is the mnemonic,
// the operands follow in source order with the destination first.
type Inst struct {
	// The raw text of the line.
	Raw     string
	LineNum int

	// Label is a leading "name:" token, kept out of Tokens.
	Label  string
	Tokens []string
}

// Parse splits a raw line into an instruction.
func Parse(raw string, lineNum int) Inst {
	inst := Inst{
		Raw:     raw,
		LineNum: lineNum,
		Tokens:  Tokenize(raw),
	}

	if len(inst.Tokens) > 0 && isLabel(inst.Tokens[0]) {
		inst.Label = inst.Tokens[0]
		inst.Tokens = inst.Tokens[1:]
	}

	return inst
}

func isLabel(token string) bool {
	return len(token) > 1 && strings.HasSuffix(token, ":")
}

// Tokenize strips the comment from a line and splits the rest on commas,
// spaces and tabs. Empty tokens are dropped.
func Tokenize(line string) []string {
	return strings.FieldsFunc(StripComment(line), isSeparator)
}

// StripComment removes everything from the first comment delimiter on.
func StripComment(line string) string {
	if i := strings.Index(line, CommentDelimiter); i >= 0 {
		return line[:i]
	}

	return line
}

// IsCommentOnly tells if a line holds nothing but whitespace and a comment.
func IsCommentOnly(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, CommentDelimiter)
}

func isSeparator(r rune) bool {
	switch r {
	case ',', ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// IsEmpty tells if the line has no instruction text.
func (i Inst) IsEmpty() bool {
	return len(i.Tokens) == 0
}

// Mnemonic returns the first token, or an empty string for an empty line.
func (i Inst) Mnemonic() string {
	if i.IsEmpty() {
		return ""
	}

	return i.Tokens[0]
}

// NumOperands returns the number of tokens after the mnemonic.
func (i Inst) NumOperands() int {
	if i.IsEmpty() {
		return 0
	}

	return len(i.Tokens) - 1
}

// Operand returns the n-th operand, counting from 1. The second return value
// is false when the line has fewer operands.
func (i Inst) Operand(n int) (string, bool) {
	if n < 1 || n >= len(i.Tokens) {
		return "", false
	}

	return i.Tokens[n], true
}

// OperandOr returns the n-th operand, or def when it is absent.
func (i Inst) OperandOr(n int, def string) string {
	if op, ok := i.Operand(n); ok {
		return op
	}

	return def
}

// Code returns the raw line without its comment and trailing whitespace.
func (i Inst) Code() string {
	return strings.TrimRight(StripComment(i.Raw), " \t\r\n")
}

// Body returns Code without the leading label.
func (i Inst) Body() string {
	code := i.Code()
	if i.Label == "" {
		return code
	}

	if at := strings.Index(code, i.Label); at >= 0 {
		return code[at+len(i.Label):]
	}

	return code
}

func (i Inst) String() string {
	return strings.Join(i.Tokens, " ")
}
