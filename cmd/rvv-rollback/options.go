package main

import (
	"errors"
	"flag"
	"io"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
)

const (
	envRules   = "RVV_ROLLBACK_RULES"
	envVerbose = "RVV_ROLLBACK_VERBOSE"
)

var errNoInput = errors.New("an input file is required")

type options struct {
	input     string
	output    string
	rulesDir  string
	verbosity int
	stats     bool
	verify    bool
	version   bool
}

// verboseFlag counts how often -v (or -vv) is given.
type verboseFlag struct {
	level *int
	step  int
}

func (f verboseFlag) String() string {
	if f.level == nil {
		return "0"
	}

	return strconv.Itoa(*f.level)
}

func (f verboseFlag) Set(value string) error {
	on, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}

	if on {
		*f.level += f.step
	}

	return nil
}

func (f verboseFlag) IsBoolFlag() bool { return true }

func parseOptions(args []string, stderr io.Writer) (options, error) {
	opts := options{
		rulesDir:  env.Str(envRules),
		verbosity: env.Int(envVerbose, 0),
	}

	fs := flag.NewFlagSet("rvv-rollback", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		io.WriteString(stderr,
			"usage: rvv-rollback [flags] <file.s>\n\n"+
				"Rewrites RISC-V Vector 1.0 assembly into Vector 0.7 assembly.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.output, "o", "",
		"output file (default <input>-rvv0p7.s)")
	fs.StringVar(&opts.rulesDir, "rules", opts.rulesDir,
		"directory of rule table YAML files (env "+envRules+")")
	fs.Var(verboseFlag{level: &opts.verbosity, step: 1}, "v",
		"print every changed line; repeat or use -vv for tracing (env "+envVerbose+")")
	fs.Var(verboseFlag{level: &opts.verbosity, step: 2}, "vv",
		"same as -v -v")
	fs.BoolVar(&opts.stats, "stats", false, "print how often each rule fired")
	fs.BoolVar(&opts.verify, "verify", false,
		"check the output for constructs version 0.7 does not accept")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.version {
		return opts, nil
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errNoInput
	}

	opts.input = fs.Arg(0)
	if opts.output == "" {
		opts.output = defaultOutput(opts.input)
	}

	return opts, nil
}

// defaultOutput names the output after the input, "foo.s" becoming
// "foo-rvv0p7.s".
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, ".s") + "-rvv0p7.s"
}
