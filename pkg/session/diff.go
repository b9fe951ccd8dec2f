package session

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Change counts the lines that differ between two documents.
type Change struct {
	Added   int
	Removed int
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool { return c.Added == 0 && c.Removed == 0 }

// Summarize compares two document texts line by line.
func Summarize(from, to string) Change {
	if from == to {
		return Change{}
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var c Change
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			c.Added += countLines(d.Text)
		case diffpatch.DiffDelete:
			c.Removed += countLines(d.Text)
		}
	}
	return c
}

// countLines counts s's lines, including a final line without newline.
func countLines(s string) int {
	n := strings.Count(s, "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
