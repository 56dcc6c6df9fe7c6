// Package mine implements the recursive pattern-growth engine that mines
// frequent sequential patterns with unique item occurrences from a bag of
// transactions (see original_source/sequoia/src/sequoia.c).
package mine

// ItemID identifies an item after item-base recoding. Items are expected to
// be numbered 0..n-1 in ascending frequency order by the external item base;
// the engine itself relies on no particular order.
type ItemID int32

// NoItem is returned by lookups that found nothing; it is never a valid
// ItemID produced by recoding.
const NoItem ItemID = -1

// WeightedItem pairs an item id with a real-valued weight, used by the
// weighted variant (spec.md §4.4). A transaction's weighted item sequence
// carries one WeightedItem per position.
type WeightedItem struct {
	Item   ItemID
	Weight float64
}

// Transaction is an ordered sequence of distinct items with an integer
// (support) weight. E is either ItemID (unweighted) or WeightedItem
// (weighted); in both forms item ids do not repeat within one transaction.
//
// The sentinel-terminated arrays of the original C source become ordinary
// explicit-length slices here: the sentinel hazard does not exist in Go.
type Transaction[E any] struct {
	Items  []E
	Weight int64
}

// itemOf extracts the plain ItemID positioned at idx in t's item slice.
// Kept as a package-level generic helper so Engine[E] can be built once
// for both instantiations by supplying the right accessor.
type itemOf[E any] func(E) ItemID

// weightOf extracts the real-valued per-item weight carried at a position,
// or is nil for the unweighted instantiation (Engine.weightOf == nil turns
// off weight aggregation entirely, per spec.md §4.4).
type weightOf[E any] func(E) float64

// PlainItemOf is the identity extractor used when E == ItemID.
func PlainItemOf(e ItemID) ItemID { return e }

// WeightedItemOf extracts the ItemID from a WeightedItem.
func WeightedItemOf(e WeightedItem) ItemID { return e.Item }

// WeightedWeightOf extracts the real weight from a WeightedItem.
func WeightedWeightOf(e WeightedItem) float64 { return e.Weight }
