package textproc

import (
	"strings"

	"github.com/aryann/difflib"
)

// Op is the kind of a WordDelta.
type Op int

const (
	OpKeep Op = iota
	OpDelete
	OpInsert
)

// WordDelta is one word of a diff between two pipeline stages.
type WordDelta struct {
	Op   Op
	Text string
}

// DiffWords compares a and b word by word.
func DiffWords(a, b string) []WordDelta {
	recs := difflib.Diff(strings.Fields(a), strings.Fields(b))
	out := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			out = append(out, WordDelta{Op: OpKeep, Text: r.Payload})
		case difflib.LeftOnly:
			out = append(out, WordDelta{Op: OpDelete, Text: r.Payload})
		case difflib.RightOnly:
			out = append(out, WordDelta{Op: OpInsert, Text: r.Payload})
		}
	}
	return out
}

// RenderDiff formats deltas inline, marking removed words as [-w-] and added
// words as {+w+}.
func RenderDiff(deltas []WordDelta) string {
	parts := make([]string, 0, len(deltas))
	for _, d := range deltas {
		switch d.Op {
		case OpDelete:
			parts = append(parts, "[-"+d.Text+"-]")
		case OpInsert:
			parts = append(parts, "{+"+d.Text+"+}")
		default:
			parts = append(parts, d.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Changed reports whether any delta is an insertion or deletion.
func Changed(deltas []WordDelta) bool {
	for _, d := range deltas {
		if d.Op != OpKeep {
			return true
		}
	}
	return false
}
