package verify

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/rvvrollback/config"
)

// LintReport collects the lint result of one translated file.
type LintReport struct {
	File   string
	Lines  int
	Issues []Issue
}

// GenerateReport lints the lines of a translated file.
func GenerateReport(file string, lines []string, tables config.RuleTables) *LintReport {
	return &LintReport{
		File:   file,
		Lines:  len(lines),
		Issues: RunLint(lines, tables),
	}
}

// ReadReport lints the translated file read from r.
func ReadReport(file string, r io.Reader, tables config.RuleTables) (*LintReport, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	return GenerateReport(file, lines, tables), nil
}

// OK tells if no issue was found.
func (r *LintReport) OK() bool {
	return len(r.Issues) == 0
}

// CountByType returns the number of issues of each type.
func (r *LintReport) CountByType() map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, issue := range r.Issues {
		counts[issue.Type]++
	}

	return counts
}

// WriteReport writes the issues as a table.
func (r *LintReport) WriteReport(w io.Writer, style table.Style) {
	if r.OK() {
		fmt.Fprintf(w, "%s: no issues in %d lines\n", r.File, r.Lines)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(style)
	t.SetTitle(fmt.Sprintf("%s: %d issues", r.File, len(r.Issues)))
	t.AppendHeader(table.Row{"Line", "Check", "Message", "Text"})

	issues := append([]Issue(nil), r.Issues...)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].LineNum < issues[j].LineNum
	})

	for _, issue := range issues {
		t.AppendRow(table.Row{issue.LineNum, issue.Type, issue.Message, issue.Line})
	}

	counts := r.CountByType()
	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, string(typ))
	}
	sort.Strings(types)

	summary := ""
	for i, typ := range types {
		if i > 0 {
			summary += " "
		}
		summary += fmt.Sprintf("%s=%d", typ, counts[IssueType(typ)])
	}

	t.AppendFooter(table.Row{"", "Total", len(r.Issues), summary})
	t.Render()
}
