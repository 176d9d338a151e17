package core

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvvrollback/config"
)

// Builder can create rewriters.
type Builder struct {
	tables   config.RuleTables
	reporter DiagnosticReporter
	hooks    []sim.Hook
}

// MakeBuilder creates a builder that uses the default rule tables and
// discards diagnostics.
func MakeBuilder() Builder {
	return Builder{
		tables:   config.DefaultTables(),
		reporter: NopReporter{},
	}
}

// WithRules sets the rule tables.
func (b Builder) WithRules(tables config.RuleTables) Builder {
	b.tables = tables
	return b
}

// WithReporter sets where diagnostics go.
func (b Builder) WithReporter(reporter DiagnosticReporter) Builder {
	if reporter == nil {
		reporter = NopReporter{}
	}

	b.reporter = reporter
	return b
}

// WithHook adds a hook that is attached to every rewriter built.
func (b Builder) WithHook(hook sim.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// Build creates a rewriter.
func (b Builder) Build() *Rewriter {
	r := &Rewriter{
		HookableBase: sim.NewHookableBase(),
		tables:       b.tables,
		renames:      b.tables.OpcodeRenames(),
		reporter:     b.reporter,
		scratchPool:  append([]string(nil), ScratchPool...),
	}

	for _, h := range b.hooks {
		r.AcceptHook(h)
	}

	r.buildRules()

	return r
}
