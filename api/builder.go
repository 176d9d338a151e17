package api

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvvrollback/config"
	"github.com/sarchlab/rvvrollback/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	rewriterBuilder core.Builder
}

// MakeDriverBuilder creates a builder with the default rule tables.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		rewriterBuilder: core.MakeBuilder(),
	}
}

// WithRules sets the rule tables.
func (b DriverBuilder) WithRules(tables config.RuleTables) DriverBuilder {
	b.rewriterBuilder = b.rewriterBuilder.WithRules(tables)
	return b
}

// WithReporter sets where the operator diagnostics go.
func (b DriverBuilder) WithReporter(reporter core.DiagnosticReporter) DriverBuilder {
	b.rewriterBuilder = b.rewriterBuilder.WithReporter(reporter)
	return b
}

// WithHook adds a hook that observes the rewriter.
func (b DriverBuilder) WithHook(hook sim.Hook) DriverBuilder {
	b.rewriterBuilder = b.rewriterBuilder.WithHook(hook)
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build() Driver {
	return &driverImpl{
		rewriter: b.rewriterBuilder.Build(),
	}
}
