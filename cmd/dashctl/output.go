package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

type table struct {
	w   *tabwriter.Writer
	out io.Writer
}

func newTable(out io.Writer) *table {
	return &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0), out: out}
}

func (t *table) header(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) row(values ...any) {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprint(v)
	}
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

// line writes text outside the column layout.
func (t *table) line(format string, args ...any) {
	t.flush()
	fmt.Fprintf(t.out, format+"\n", args...)
}

func (t *table) flush() {
	_ = t.w.Flush()
}

// render prints value as indented JSON with --json, or as a table otherwise.
func render(c *cli.Context, value any, fill func(t *table)) error {
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}

	t := newTable(c.App.Writer)
	fill(t)
	t.flush()
	return nil
}
