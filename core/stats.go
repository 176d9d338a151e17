package core

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvvrollback/instr"
)

// RuleStats is a hook that counts how often each rule fires. It is safe for
// concurrent use.
type RuleStats struct {
	mu          sync.Mutex
	fired       map[RuleKind]int
	lines       map[RuleKind][]int
	failedLines []int
}

// NewRuleStats creates an empty counter.
func NewRuleStats() *RuleStats {
	return &RuleStats{
		fired: make(map[RuleKind]int),
		lines: make(map[RuleKind][]int),
	}
}

// Func records rule events from a rewriter.
func (s *RuleStats) Func(ctx sim.HookCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ctx.Pos {
	case HookPosRuleFired:
		ev := ctx.Item.(RuleEvent)
		s.fired[ev.Rule]++
		s.lines[ev.Rule] = append(s.lines[ev.Rule], ev.LineNum)
	case HookPosLineFailed:
		inst := ctx.Item.(instr.Inst)
		s.failedLines = append(s.failedLines, inst.LineNum)
	}
}

// Count returns how many lines a rule changed.
func (s *RuleStats) Count(kind RuleKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fired[kind]
}

// Total returns the number of rule firings.
func (s *RuleStats) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total()
}

func (s *RuleStats) total() int {
	total := 0
	for _, n := range s.fired {
		total += n
	}

	return total
}

// FailedLines returns the line numbers that could not be translated.
func (s *RuleStats) FailedLines() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]int(nil), s.failedLines...)
}

// Render writes the counts as a table.
func (s *RuleStats) Render(w io.Writer, style table.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(style)
	t.SetTitle("Rules Fired")
	t.AppendHeader(table.Row{"Rule", "Lines", "First Lines"})

	for _, kind := range AllRules {
		lines := s.lines[kind]
		t.AppendRow(table.Row{kind.String(), s.fired[kind], firstLines(lines, 8)})
	}

	t.AppendFooter(table.Row{"Total", s.total(), ""})
	t.Render()
}

func firstLines(lines []int, max int) string {
	sorted := append([]int(nil), lines...)
	sort.Ints(sorted)

	parts := make([]string, 0, max+1)
	for i, l := range sorted {
		if i == max {
			parts = append(parts, "...")
			break
		}

		parts = append(parts, fmt.Sprint(l))
	}

	return strings.Join(parts, " ")
}
