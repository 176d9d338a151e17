// Command rvv-rollback rewrites RISC-V Vector extension 1.0 assembly so that
// toolchains that only know version 0.7 can assemble it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/rvvrollback/api"
	"github.com/sarchlab/rvvrollback/config"
	"github.com/sarchlab/rvvrollback/core"
	"github.com/sarchlab/rvvrollback/verify"
	"github.com/tebeka/atexit"
	"golang.org/x/term"
)

const version = "0.1.3"

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		atexit.Exit(0)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	if opts.version {
		fmt.Printf("rvv-rollback (version %s)\n", version)
		atexit.Exit(0)
	}

	logger := newLogger(os.Stderr, opts.verbosity)
	slog.SetDefault(logger)

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("translation failed", "err", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelInfo
	if verbosity > 1 {
		level = core.LevelTrace
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadRules(dir string) (config.RuleTables, error) {
	if dir == "" {
		return config.DefaultTables(), nil
	}

	return config.LoadDir(dir)
}

func tableStyle() table.Style {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return table.StyleColoredBright
	}

	return table.StyleLight
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	tables, err := loadRules(opts.rulesDir)
	if err != nil {
		return err
	}

	fmt.Printf("input file = %s  |  output file = %s\n\n", opts.input, opts.output)

	in, err := os.Open(opts.input)
	if err != nil {
		return err
	}
	atexit.Register(func() { in.Close() })

	out, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	atexit.Register(func() { out.Close() })

	stats := core.NewRuleStats()
	driver := api.MakeDriverBuilder().
		WithRules(tables).
		WithReporter(core.NewSlogReporter(logger, opts.verbosity)).
		WithHook(stats).
		Build()

	sum, err := driver.Translate(ctx, in, out)
	if err != nil {
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opts.output, err)
	}

	logger.Info("translation done",
		"lines", sum.Lines,
		"changed", sum.Changed,
		"emitted", sum.Emitted,
	)

	if opts.stats {
		stats.Render(os.Stdout, tableStyle())
	}

	if opts.verify {
		return verifyOutput(opts.output, tables)
	}

	return nil
}

func verifyOutput(path string, tables config.RuleTables) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := verify.ReadReport(path, f, tables)
	if err != nil {
		return err
	}

	rep.WriteReport(os.Stdout, tableStyle())

	if !rep.OK() {
		return fmt.Errorf("%s: %d constructs left that version 0.7 does not accept",
			path, len(rep.Issues))
	}

	return nil
}
