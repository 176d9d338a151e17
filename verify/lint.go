// Package verify checks translated assembly for constructs that the
// version 0.7 vector extension does not accept.
package verify

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/rvvrollback/config"
	"github.com/sarchlab/rvvrollback/core"
	"github.com/sarchlab/rvvrollback/instr"
)

// IssueType names the check that found an issue.
type IssueType string

const (
	IssueUnsupported   IssueType = "UNSUPPORTED"
	IssueWholeRegister IssueType = "WHOLE-REGISTER"
	IssueSetIVLI       IssueType = "VSETIVLI"
	IssuePolicy        IssueType = "POLICY"
	IssueRename        IssueType = "RENAME"
	IssueExtension     IssueType = "EXTENSION"
)

// Issue is one construct left in the output that the target cannot take.
type Issue struct {
	Type    IssueType
	LineNum int
	Line    string
	Entry   string
	Message string
}

// RunLint checks every line that is not a comment. Line numbers in the
// returned issues count from 1.
func RunLint(lines []string, tables config.RuleTables) []Issue {
	var issues []Issue

	renames := make(map[string]string)
	for _, r := range tables.OpcodeRenames() {
		renames[r.From] = r.To
	}

	for i, line := range lines {
		inst := instr.Parse(line, i+1)
		if inst.IsEmpty() {
			continue
		}

		issues = append(issues, lintLine(inst, tables, renames)...)
	}

	return issues
}

// LintReader reads translated assembly from r and checks it.
func LintReader(r io.Reader, tables config.RuleTables) ([]Issue, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	return RunLint(lines, tables), nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read translated assembly: %w", err)
	}

	return lines, nil
}

func lintLine(
	inst instr.Inst,
	tables config.RuleTables,
	renames map[string]string,
) []Issue {
	var issues []Issue

	code := inst.Code()
	mnemonic := inst.Mnemonic()

	add := func(t IssueType, entry, format string, args ...any) {
		issues = append(issues, Issue{
			Type:    t,
			LineNum: inst.LineNum,
			Line:    strings.TrimSpace(code),
			Entry:   entry,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if entry, ok := tables.FindUnsupported(code); ok {
		add(IssueUnsupported, entry, "%s has no version 0.7 equivalent", entry)
	}

	if entry, ok := tables.FindWholeRegister(code); ok {
		add(IssueWholeRegister, entry, "%s was not expanded", entry)
	}

	if to, ok := renames[mnemonic]; ok {
		add(IssueRename, mnemonic, "%s should be %s", mnemonic, to)
	}

	switch mnemonic {
	case "vsetivli":
		add(IssueSetIVLI, mnemonic, "vsetivli takes no immediate length in version 0.7")
		fallthrough
	case "vsetvl", "vsetvli":
		for _, op := range inst.Tokens[1:] {
			if core.IsPolicyOperand(op) {
				add(IssuePolicy, op, "tail/mask policy %s is not accepted", op)
			}
		}
	}

	issues = append(issues, lintAttribute(inst, code, tables)...)

	return issues
}

func lintAttribute(inst instr.Inst, code string, tables config.RuleTables) []Issue {
	entries, ok := core.AttributeEntries(code)
	if !ok {
		return nil
	}

	var issues []Issue

	for _, entry := range entries {
		name, version := core.SplitAttribute(entry)
		if name == "" {
			continue
		}

		msg := ""

		if tables.IsAttributeRemoved(name) {
			msg = fmt.Sprintf("extension %s should be removed", name)
		} else if want, ok := tables.AttributeSuffix(name); ok && version != want {
			msg = fmt.Sprintf("extension %s should be version %s", name, want)
		}

		if msg == "" {
			continue
		}

		issues = append(issues, Issue{
			Type:    IssueExtension,
			LineNum: inst.LineNum,
			Line:    strings.TrimSpace(code),
			Entry:   entry,
			Message: msg,
		})
	}

	return issues
}
