// Package itembase maps item names to compact integer ids and recodes them
// by ascending frequency (rarest first), mirroring sequoia.c's item base (ibase) and its
// tbg_recode step.
package itembase

import (
	"sort"

	"github.com/runger/sequoia/internal/mine"
)

// Base assigns a stable ItemID to every distinct item name seen, in
// first-occurrence order, and tracks each item's total transaction-weighted
// frequency for later recoding.
type Base struct {
	names  []string
	ids    map[string]mine.ItemID
	counts []int64
}

// New returns an empty item base.
func New() *Base {
	return &Base{ids: make(map[string]mine.ItemID)}
}

// Add looks up name, assigning it a fresh id if unseen, and adds weight to
// its running frequency. It returns the item's id.
func (b *Base) Add(name string, weight int64) mine.ItemID {
	if id, ok := b.ids[name]; ok {
		b.counts[id] += weight
		return id
	}
	id := mine.ItemID(len(b.names))
	b.ids[name] = id
	b.names = append(b.names, name)
	b.counts = append(b.counts, weight)
	return id
}

// Lookup returns the id for name without creating it.
func (b *Base) Lookup(name string) (mine.ItemID, bool) {
	id, ok := b.ids[name]
	return id, ok
}

// Name returns the item name for an id assigned by this base (pre-recode).
func (b *Base) Name(id mine.ItemID) string { return b.names[id] }

// Count returns the weighted frequency recorded for an id.
func (b *Base) Count(id mine.ItemID) int64 { return b.counts[id] }

// Len returns the number of distinct items registered.
func (b *Base) Len() int { return len(b.names) }

// Recoding is the result of Recode: Map[old] gives the new id for an item
// that survived the minimum-support cut, or mine.NoItem if it was dropped.
// Names is indexed by the new, recoded id.
type Recoding struct {
	Map   []mine.ItemID
	Names []string
}

// Translate maps an old id through the recoding, returning mine.NoItem if
// the item was dropped.
func (r Recoding) Translate(old mine.ItemID) mine.ItemID {
	if int(old) < 0 || int(old) >= len(r.Map) {
		return mine.NoItem
	}
	return r.Map[old]
}

// Recode drops items whose weighted frequency is below minSupport and
// renumbers the rest 0..k-1 in ascending-frequency order, rarest first
// (ties broken by first-occurrence order). This is
// the standard preprocessing step that lets the engine iterate items
// 0..itemCount-1 densely instead of sparsely.
func (b *Base) Recode(minSupport int64) Recoding {
	kept := make([]mine.ItemID, 0, len(b.names))
	for id := range b.names {
		if b.counts[id] >= minSupport {
			kept = append(kept, mine.ItemID(id))
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return b.counts[kept[i]] < b.counts[kept[j]]
	})

	m := make([]mine.ItemID, len(b.names))
	for i := range m {
		m[i] = mine.NoItem
	}
	names := make([]string, len(kept))
	for newID, oldID := range kept {
		m[oldID] = mine.ItemID(newID)
		names[newID] = b.names[oldID]
	}
	return Recoding{Map: m, Names: names}
}
