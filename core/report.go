package core

import (
	"log/slog"
)

// Diagnostic describes a rewritten line for the operator.
type Diagnostic struct {
	LineNum  int
	Rules    []RuleKind
	Original string
	Updated  string

	// Message explains what the operator should review. It is empty for
	// rewrites that need no review.
	Message string
}

// DiagnosticReporter receives the operator-facing diagnostics of a translation.
type DiagnosticReporter interface {
	// Warn reports an expansion whose correctness relies on heuristics and
	// must be reviewed by the operator.
	Warn(d Diagnostic)

	// Changed reports every line that one or more rules rewrote.
	Changed(d Diagnostic)
}

// NopReporter discards all diagnostics.
type NopReporter struct{}

// Warn does nothing.
func (NopReporter) Warn(Diagnostic) {}

// Changed does nothing.
func (NopReporter) Changed(Diagnostic) {}

// SlogReporter writes diagnostics as structured log records. Warnings are
// always written. Changed lines are logged by rule name, and with the
// original and updated text when the verbosity is above zero.
type SlogReporter struct {
	logger    *slog.Logger
	verbosity int
}

// NewSlogReporter creates a reporter that writes to logger.
func NewSlogReporter(logger *slog.Logger, verbosity int) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogReporter{
		logger:    logger,
		verbosity: verbosity,
	}
}

// Warn logs a warning about a line that needs review.
func (r *SlogReporter) Warn(d Diagnostic) {
	r.logger.Warn("replaced line",
		"line", d.LineNum,
		"original", d.Original,
		"review", d.Message,
	)

	if r.verbosity == 0 {
		r.logger.Warn("add -v to see the suggestion (also in the output file)",
			"line", d.LineNum)
	}
}

// Changed logs a rewritten line.
func (r *SlogReporter) Changed(d Diagnostic) {
	if r.verbosity == 0 {
		r.logger.Info("rewrote line",
			"line", d.LineNum,
			"rules", ruleNames(d.Rules),
		)

		return
	}

	r.logger.Info("rewrote line",
		"line", d.LineNum,
		"rules", ruleNames(d.Rules),
		"original", d.Original,
		"updated", d.Updated,
	)
}
