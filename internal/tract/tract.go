// Package tract holds the recoded transaction bag: sorting and duplicate
// reduction on the way into the mining engine, mirroring sequoia.c's
// tbg_sort/tbg_reduce step between item-base recoding and the search.
package tract

import (
	"math"
	"sort"

	"github.com/runger/sequoia/internal/mine"
)

// Bag is a mutable collection of recoded transactions, built incrementally
// (one Add call per input record) and finalized with Reduce (and, only for
// callers that do not need input order kept, Sort) before being handed to
// mine.Engine.Run.
type Bag struct {
	txs []mine.Transaction[mine.ItemID]
}

// New returns an empty bag.
func New() *Bag { return &Bag{} }

// Add appends one transaction. items must already be recoded (no
// mine.NoItem entries) and may be mutated by a later Sort.
func (bag *Bag) Add(items []mine.ItemID, weight int64) {
	if weight <= 0 {
		weight = 1
	}
	bag.txs = append(bag.txs, mine.Transaction[mine.ItemID]{Items: items, Weight: weight})
}

// Len returns the number of transactions currently held.
func (bag *Bag) Len() int { return len(bag.txs) }

// Sort orders the items within each transaction ascending by id. The
// original spec requires pattern item positions to preserve input order for
// the "unique occurrence" contract, but sequoia.c sorts each transaction
// once up front for recoding/reduction purposes only — the occurrence
// construction in mine.Engine then walks the (now sorted) item slice as
// given, so sorting here changes which orderings are mineable. Callers that
// need to preserve original input order (the common case for sequential
// pattern mining of actual event order) should skip Sort and call Reduce
// directly; Sort exists for callers recoding unordered item sets, matching
// the teacher CLI's "sort and recode" pipeline stage.
func (bag *Bag) Sort() {
	for _, t := range bag.txs {
		sort.Slice(t.Items, func(i, j int) bool { return t.Items[i] < t.Items[j] })
	}
}

// Reduce merges transactions with identical item sequences, summing their
// weights, matching tbg_reduce. It returns the merged count.
func (bag *Bag) Reduce() int {
	type key = string
	index := make(map[key]int, len(bag.txs))
	out := bag.txs[:0]
	for _, t := range bag.txs {
		k := encodeKey(t.Items)
		if pos, ok := index[k]; ok {
			out[pos].Weight += t.Weight
			continue
		}
		index[k] = len(out)
		out = append(out, t)
	}
	bag.txs = out
	return len(bag.txs)
}

func encodeKey(items []mine.ItemID) string {
	buf := make([]byte, 0, len(items)*5)
	for _, it := range items {
		buf = append(buf, byte(it>>24), byte(it>>16), byte(it>>8), byte(it), ',')
	}
	return string(buf)
}

// Transactions returns the bag's finalized transaction slice for mine.Engine.Run.
func (bag *Bag) Transactions() []mine.Transaction[mine.ItemID] { return bag.txs }

// TotalWeight returns the sum of every transaction's weight.
func (bag *Bag) TotalWeight() int64 {
	var w int64
	for _, t := range bag.txs {
		w += t.Weight
	}
	return w
}

// WeightedBag is Bag's counterpart for the weighted mining variant: a
// mutable collection of recoded transactions whose items carry a real-
// valued weight alongside their id (mine.WeightedItem).
type WeightedBag struct {
	txs []mine.Transaction[mine.WeightedItem]
}

// NewWeighted returns an empty weighted bag.
func NewWeighted() *WeightedBag { return &WeightedBag{} }

// Add appends one weighted transaction. items must already be recoded (no
// mine.NoItem entries).
func (bag *WeightedBag) Add(items []mine.WeightedItem, weight int64) {
	if weight <= 0 {
		weight = 1
	}
	bag.txs = append(bag.txs, mine.Transaction[mine.WeightedItem]{Items: items, Weight: weight})
}

// Len returns the number of transactions currently held.
func (bag *WeightedBag) Len() int { return len(bag.txs) }

// Reduce merges transactions with identical (item id, item weight)
// sequences, summing their transaction weights, matching tbg_reduce's
// weighted-mode comparison: two transactions whose item ids agree but whose
// per-item weights differ are kept distinct.
func (bag *WeightedBag) Reduce() int {
	type key = string
	index := make(map[key]int, len(bag.txs))
	out := bag.txs[:0]
	for _, t := range bag.txs {
		k := encodeWeightedKey(t.Items)
		if pos, ok := index[k]; ok {
			out[pos].Weight += t.Weight
			continue
		}
		index[k] = len(out)
		out = append(out, t)
	}
	bag.txs = out
	return len(bag.txs)
}

func encodeWeightedKey(items []mine.WeightedItem) string {
	buf := make([]byte, 0, len(items)*13)
	for _, it := range items {
		buf = append(buf, byte(it.Item>>24), byte(it.Item>>16), byte(it.Item>>8), byte(it.Item))
		bits := math.Float64bits(it.Weight)
		for s := 56; s >= 0; s -= 8 {
			buf = append(buf, byte(bits>>uint(s)))
		}
		buf = append(buf, ',')
	}
	return string(buf)
}

// Transactions returns the bag's finalized transaction slice for the
// weighted mine.Engine.Run instantiation.
func (bag *WeightedBag) Transactions() []mine.Transaction[mine.WeightedItem] { return bag.txs }

// TotalWeight returns the sum of every transaction's weight.
func (bag *WeightedBag) TotalWeight() int64 {
	var w int64
	for _, t := range bag.txs {
		w += t.Weight
	}
	return w
}
