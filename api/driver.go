// Package api defines the driver that translates whole assembly files.
package api

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/sarchlab/rvvrollback/core"
)

const maxLineSize = 1 << 20

// Driver translates an assembly stream line by line.
type Driver interface {
	// Translate reads every line of r, rewrites it, and writes the result to
	// w in input order. It stops at the first line that cannot be
	// translated. Lines written before that stay written.
	Translate(ctx context.Context, r io.Reader, w io.Writer) (Summary, error)
}

// Summary counts what a translation did.
type Summary struct {
	// Lines is the number of input lines read.
	Lines int

	// Changed is the number of input lines that one or more rules rewrote.
	Changed int

	// Emitted is the number of output lines written.
	Emitted int
}

type driverImpl struct {
	rewriter *core.Rewriter
}

func (d *driverImpl) Translate(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
) (Summary, error) {
	var sum Summary

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	out := bufio.NewWriter(w)

	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, d.finish(out, err)
		}

		lineNum++
		sum.Lines++

		res, err := d.rewriter.RewriteLine(scanner.Text(), lineNum)
		if err != nil {
			return sum, d.finish(out, err)
		}

		if res.Changed {
			sum.Changed++
		}

		for _, l := range res.Lines {
			if _, err := out.WriteString(l + "\n"); err != nil {
				return sum, fmt.Errorf("write line %d: %w", lineNum, err)
			}

			sum.Emitted++
		}
	}

	if err := scanner.Err(); err != nil {
		return sum, d.finish(out, fmt.Errorf("read line %d: %w", lineNum+1, err))
	}

	return sum, d.finish(out, nil)
}

// finish flushes what was already translated and returns cause, or the flush
// error when there is no cause.
func (d *driverImpl) finish(out *bufio.Writer, cause error) error {
	flushErr := out.Flush()

	if cause != nil {
		return cause
	}

	if flushErr != nil {
		return fmt.Errorf("flush output: %w", flushErr)
	}

	return nil
}
