package mine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func occOf(items []ItemID, ips []int) *PatternOccurrence[ItemID] {
	return &PatternOccurrence[ItemID]{Weight: 1, Items: items, IPs: ips}
}

func TestClosed_TrueWhenGapsDiffer(t *testing.T) {
	// pattern [0] anchored at position 0 in one occurrence and position 1
	// in another; the gap before position 0 differs (empty vs. one item),
	// so no single item is common to every gap: closed.
	o1 := occOf([]ItemID{0, 5}, []int{0})
	o2 := occOf([]ItemID{9, 0}, []int{1})
	sc := newScratch(10)
	ext := &PatternExtension[ItemID]{
		Cnt: 2,
		Oxs: []OccurrenceExtension[ItemID]{{Pos: 0, Occ: o1}, {Pos: 1, Occ: o2}},
	}
	assert.True(t, closed(ext, 1, PlainItemOf, sc))
}

func TestClosed_FalseWhenSameItemFillsGapEverywhere(t *testing.T) {
	// item 7 sits immediately before the pattern anchor in both
	// occurrences: the pattern is not closed, since [7,0] has equal
	// support.
	o1 := occOf([]ItemID{7, 0}, []int{1})
	o2 := occOf([]ItemID{7, 0}, []int{1})
	sc := newScratch(10)
	ext := &PatternExtension[ItemID]{
		Cnt: 2,
		Oxs: []OccurrenceExtension[ItemID]{{Pos: 1, Occ: o1}, {Pos: 1, Occ: o2}},
	}
	assert.False(t, closed(ext, 1, PlainItemOf, sc))
}

func TestClosed_ScratchIsClearedBetweenCalls(t *testing.T) {
	sc := newScratch(5)
	o1 := occOf([]ItemID{3, 0}, []int{1})
	ext := &PatternExtension[ItemID]{
		Cnt: 1,
		Oxs: []OccurrenceExtension[ItemID]{{Pos: 1, Occ: o1}},
	}
	closed(ext, 1, PlainItemOf, sc)
	for _, f := range sc.frqs {
		assert.Equal(t, int64(0), f, "closed must leave the shared counter array zeroed for the next call")
	}
	assert.Empty(t, sc.buf)
}
