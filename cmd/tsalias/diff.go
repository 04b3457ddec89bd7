package main

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// printDiff writes the removed and added lines between before and after.
func printDiff(w io.Writer, path, before, after string) {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	color.New(color.Bold).Fprintf(w, "--- %s\n", path)

	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")

			switch d.Type {
			case diffmatchpatch.DiffDelete:
				color.New(color.FgRed).Fprintf(w, "-%s\n", line)
			case diffmatchpatch.DiffInsert:
				color.New(color.FgGreen).Fprintf(w, "+%s\n", line)
			case diffmatchpatch.DiffEqual:
			}
		}
	}
}
