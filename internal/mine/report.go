package mine

// Sink is the engine's view of the result reporter (spec.md §6's abstract
// reporter interface), collapsing the unweighted add/report/remove push-pop
// discipline and the weighted one-shot emit(pattern, weights, support) form
// into a single interface: both are push-pop shaped in the engine's DFS, the
// only difference being whether Report carries per-position weights.
//
// A negative/error return from any method is cancellation: the engine
// unwinds immediately with the same semantics as an allocation failure
// (spec.md §5 "Cancellation", §4.7).
type Sink interface {
	// Push appends item to the reporter's current pattern prefix.
	Push(item ItemID) error
	// Report announces that the current pattern prefix (as built by Push)
	// has the given support. weights is nil for the unweighted variant;
	// otherwise it holds one mean weight per pattern position, aligned
	// with the prefix built so far.
	Report(support int64, weights []float64) error
	// Pop removes the last n items pushed onto the pattern prefix.
	Pop(n int) error
}
