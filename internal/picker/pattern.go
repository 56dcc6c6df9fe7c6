// Package picker provides an interactive TUI for browsing the patterns
// produced by a mining run: filter by item name, see each pattern's
// support, and copy a pattern's line back out. Per-position weights are
// not shown.
package picker

import (
	"fmt"
	"strings"
)

// Pattern is one reported pattern, collected straight from the engine's
// sink by a Collector: the picker works off the finished result of a run rather than
// streaming from the engine, since a run's full pattern set is normally
// small enough to hold in memory and the spec's live reporting contract
// (Push/Pop/Report) is already satisfied by the time a result reaches here.
type Pattern struct {
	Items   []string
	Support int64
	Weights []float64 // nil for unweighted runs
}

// Line renders the pattern the way the reporter would, without the info
// suffix (the list view renders support in its own column).
func (p Pattern) Line() string {
	out := ""
	for i, item := range p.Items {
		if i > 0 {
			out += " "
		}
		out += item
	}
	return out
}

// SupportLabel renders the pattern's support for display, e.g. "supp=12".
func (p Pattern) SupportLabel() string {
	return fmt.Sprintf("supp=%d", p.Support)
}

// matchesFilter reports whether every space-separated term in filter
// appears as a case-insensitive substring of the pattern's rendered line.
func (p Pattern) matchesFilter(terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	line := strings.ToLower(p.Line())
	for _, term := range terms {
		if !strings.Contains(line, strings.ToLower(term)) {
			return false
		}
	}
	return true
}
