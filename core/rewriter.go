// Package core rewrites RISC-V Vector extension 1.0 assembly lines into their
// version 0.7 equivalents.
package core

import (
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvvrollback/config"
	"github.com/sarchlab/rvvrollback/instr"
)

// HookPosRuleFired marks when a rule changes a line. The hook item is a
// RuleEvent.
var HookPosRuleFired = &sim.HookPos{Name: "Rule Fired"}

// HookPosLineFailed marks when a line cannot be translated. The hook item is
// the instruction and the detail is the error.
var HookPosLineFailed = &sim.HookPos{Name: "Line Failed"}

// RuleEvent describes one rule changing one line.
type RuleEvent struct {
	Rule    RuleKind
	LineNum int
}

// Result is the text to emit for one input line.
type Result struct {
	// Lines holds the output lines, without line terminators.
	Lines []string

	// Changed tells if any rule changed the line.
	Changed bool

	// Fired lists the rules that changed the line, in application order.
	Fired []RuleKind
}

// Text joins the output lines with newlines.
func (r Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Rewriter applies the rule tables to single lines. It keeps no state between
// lines, so one Rewriter can serve several translations at once. Hooks are
// called from every translation and must do their own locking.
type Rewriter struct {
	*sim.HookableBase

	tables      config.RuleTables
	renames     []config.Rename
	reporter    DiagnosticReporter
	scratchPool []string

	rules []rule
	misc  map[string]func(c *rewriteCtx) (bool, error)
}

// Tables returns the rule tables the rewriter was built with.
func (r *Rewriter) Tables() config.RuleTables {
	return r.tables
}

func (r *Rewriter) buildRules() {
	r.misc = r.miscRules()
	r.rules = []rule{
		{
			kind: RuleUnsupported,
			matches: func(inst instr.Inst) bool {
				_, ok := r.tables.FindUnsupported(inst.Raw)
				return ok
			},
			apply: r.applyUnsupported,
		},
		{
			kind:    RuleAttribute,
			matches: func(inst instr.Inst) bool { return r.matchAttribute(inst.Raw) },
			apply:   r.applyAttribute,
		},
		{
			kind:    RuleOpcodeRename,
			matches: func(inst instr.Inst) bool { return r.matchOpcodeRename(inst.Raw) },
			apply:   r.applyOpcodeRename,
		},
		{
			kind:    RuleWholeRegister,
			matches: r.matchWholeRegister,
			apply:   r.applyWholeRegister,
		},
		{
			kind:    RuleMiscChange,
			matches: r.matchMiscChange,
			apply:   r.applyMiscChange,
		},
	}
}

func (r *Rewriter) applyUnsupported(c *rewriteCtx) (bool, error) {
	entry, _ := r.tables.FindUnsupported(c.inst.Raw)

	return false, &UnsupportedError{
		Entry:   entry,
		Line:    c.inst.Raw,
		LineNum: c.inst.LineNum,
	}
}

// RewriteLine splits a raw line and rewrites it.
func (r *Rewriter) RewriteLine(raw string, lineNum int) (Result, error) {
	return r.Rewrite(instr.Parse(raw, lineNum))
}

// Rewrite runs every rule, in order, on one instruction. Triggers are tested
// on the original line, and each rule works on the output of the rules
// before it. An error means the line cannot be translated and nothing should
// be emitted for it.
func (r *Rewriter) Rewrite(inst instr.Inst) (Result, error) {
	c := &rewriteCtx{
		inst:  inst,
		lines: []string{inst.Raw},
	}

	var fired []RuleKind

	for _, rl := range r.rules {
		if !rl.matches(inst) {
			continue
		}

		changed, err := rl.apply(c)
		if err != nil {
			r.InvokeHook(sim.HookCtx{
				Domain: r,
				Pos:    HookPosLineFailed,
				Item:   inst,
				Detail: err,
			})

			return Result{}, err
		}

		if !changed {
			continue
		}

		fired = append(fired, rl.kind)
		Trace("rule fired", "line", inst.LineNum, "rule", rl.kind.String())
		r.InvokeHook(sim.HookCtx{
			Domain: r,
			Pos:    HookPosRuleFired,
			Item:   RuleEvent{Rule: rl.kind, LineNum: inst.LineNum},
		})
	}

	res := Result{
		Lines:   c.lines,
		Changed: len(fired) > 0,
		Fired:   fired,
	}

	r.report(inst, c, res)

	return res, nil
}

func (r *Rewriter) report(inst instr.Inst, c *rewriteCtx, res Result) {
	if !res.Changed {
		return
	}

	d := Diagnostic{
		LineNum:  inst.LineNum,
		Rules:    res.Fired,
		Original: inst.Raw,
		Updated:  res.Text(),
		Message:  c.review,
	}

	if c.review != "" {
		r.reporter.Warn(d)
	}

	r.reporter.Changed(d)
}
