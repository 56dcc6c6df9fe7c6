package mine

// Target selects which patterns are reported: every frequent pattern, or
// only the closed ones (spec.md §1, §6).
type Target int

const (
	// TargetAll reports every pattern with support >= SMin and length in
	// [ZMin, ZMax].
	TargetAll Target = iota
	// TargetClosed additionally suppresses a pattern if some proper
	// super-sequence has equal support.
	TargetClosed
)

// SupportBorder is the optional per-length support floor of spec.md §4.6:
// Mins[i] overrides the minimum support required to *report* (not to
// project/recurse past) a pattern of length ZMin+i. Lengths beyond the
// slice fall back to Options.SMin.
type SupportBorder struct {
	Mins []int64
}

func (b SupportBorder) effectiveMin(length, zmin int, smin int64) int64 {
	if b.Mins == nil {
		return smin
	}
	idx := length - zmin
	if idx < 0 || idx >= len(b.Mins) {
		return smin
	}
	if b.Mins[idx] > smin {
		return b.Mins[idx]
	}
	return smin
}

// Options configures one mining run (spec.md §6 input parameters).
type Options struct {
	Target Target
	SMin   int64 // minimum absolute support, >= 1
	ZMin   int   // suppress reporting below this length; recursion still descends
	ZMax   int   // prune recursion beyond this length
	Border SupportBorder
}

// Engine is the recursive pattern-growth miner. E is ItemID (unweighted) or
// WeightedItem (weighted); the two variants share one implementation via
// the itemOf/weightOf extractors (see types.go and SPEC_FULL.md §3).
//
// An Engine is single-use and single-threaded per spec.md §5: it owns
// engine-wide scratch state (the closedness-test counters and the scratch
// pattern/weight buffers) that is mutated destructively across the DFS and
// must not be shared across concurrent Run calls.
type Engine[E any] struct {
	itemOf    itemOf[E]
	weightOf  weightOf[E] // nil => unweighted variant
	itemCount int
	opts      Options
	sink      Sink
	sc        *scratch
	pattern   []ItemID  // rd.items: scratch, length zmax
	wgts      []float64 // rd.wgts: scratch, length zmax; nil if unweighted
}

// NewEngine builds an Engine for itemCount items (0..itemCount-1). weightOf
// may be nil to select the unweighted variant.
func NewEngine[E any](itemCount int, opts Options, extractItem itemOf[E], extractWeight weightOf[E], sink Sink) *Engine[E] {
	if opts.SMin < 1 {
		opts.SMin = 1
	}
	e := &Engine[E]{
		itemOf:    extractItem,
		weightOf:  extractWeight,
		itemCount: itemCount,
		opts:      opts,
		sink:      sink,
		sc:        newScratch(itemCount),
		pattern:   make([]ItemID, opts.ZMax),
	}
	if extractWeight != nil {
		e.wgts = make([]float64, opts.ZMax)
	}
	return e
}

// Run mines txs for frequent sequential patterns and reports them through
// the Sink supplied to NewEngine, implementing spec.md §4.1 (root
// occurrence construction), §4.2 (recursive projection), and §4.5 (empty
// pattern policy).
func (e *Engine[E]) Run(txs []Transaction[E]) error {
	var totalWeight int64
	for _, t := range txs {
		totalWeight += t.Weight
	}

	if e.itemCount <= 0 {
		// spec.md §7 NoItems: report the empty pattern per policy (both
		// variants attempt it unconditionally when there are no items,
		// mirroring sequoia_iw's k<=0 branch) and return success.
		return e.emitEmpty(totalWeight)
	}

	if totalWeight < e.opts.SMin {
		// spec.md §4.1 short-circuit: produce nothing from recursion, but
		// the empty pattern may still be eligible (§4.5).
		return e.finishRoot(0, nil, totalWeight)
	}

	// Build one PatternOccurrence per transaction and count, per item,
	// how many transactions contain it (spec.md §4.1).
	occs := make([]PatternOccurrence[E], len(txs))
	counts := make([]int, e.itemCount)
	extent := 0
	for j := range txs {
		occs[j] = PatternOccurrence[E]{
			Weight: txs[j].Weight,
			Items:  txs[j].Items,
			IPs:    make([]int, len(txs[j].Items)),
		}
		for _, it := range txs[j].Items {
			counts[e.itemOf(it)]++
			extent++
		}
	}

	root := newFrame[E](e.itemCount, extent, counts)
	for j := range txs {
		occ := &occs[j]
		for pos, it := range occ.Items {
			root.append(e.itemOf(it), pos, occ, occ.Weight)
		}
	}

	maxSupp, rerr := e.recurse(root, extent, 0)
	return e.finishRoot(maxSupp, rerr, totalWeight)
}

// finishRoot applies spec.md §4.5's empty-pattern policy and §9's documented
// asymmetry between the two variants verbatim: the unweighted path only
// attempts the empty pattern when recursion succeeded (rerr == nil) and
// reports success or the recursion error; the weighted path attempts the
// empty pattern regardless of rerr, and — matching the original's literal
// behaviour of unconditionally overwriting its result variable — the emit
// attempt's own outcome is what gets returned, not rerr. This is documented,
// not accidental: see DESIGN.md "Open Questions".
func (e *Engine[E]) finishRoot(maxSupp int64, rerr error, totalWeight int64) error {
	if e.weightOf == nil {
		if rerr != nil {
			return rerr
		}
		if maxSupp < totalWeight || e.opts.Target != TargetClosed {
			return e.emitEmpty(totalWeight)
		}
		return nil
	}
	// Weighted variant.
	if maxSupp < totalWeight || e.opts.Target != TargetClosed {
		return e.emitEmpty(totalWeight)
	}
	return rerr
}

func (e *Engine[E]) emitEmpty(totalWeight int64) error {
	if e.opts.ZMin > 0 || totalWeight < e.opts.SMin {
		return nil
	}
	var weights []float64
	if e.weightOf != nil {
		weights = e.wgts[:0]
	}
	if err := e.sink.Report(totalWeight, weights); err != nil {
		return errOutput(err)
	}
	return nil
}

// recurse implements spec.md §4.2's recurse(exts, totalTailItems, depth)
// contract: it returns the maximum Supp observed among processed
// extensions at this level (for the caller's closedness/suffix check), or
// an error.
func (e *Engine[E]) recurse(exts *frame[E], totalTailItems int, depth int) (int64, error) {
	length := depth + 1

	var cond *frame[E]
	if length < e.opts.ZMax {
		counts := make([]int, e.itemCount)
		for i := range exts.exts {
			counts[i] = exts.exts[i].Cnt
		}
		cond = newFrame[E](e.itemCount, totalTailItems, counts)
	}

	var maxSupp int64
	for i := 0; i < e.itemCount; i++ {
		ext := &exts.exts[i]
		if ext.Supp < e.opts.SMin {
			continue
		}
		if ext.Supp > maxSupp {
			maxSupp = ext.Supp
		}

		item := ItemID(i)
		for k := 0; k < ext.Cnt; k++ {
			x := &ext.Oxs[k]
			x.Occ.IPs[depth] = x.Pos
		}

		if e.opts.Target == TargetClosed && !closed(ext, length, e.itemOf, e.sc) {
			continue
		}

		e.pattern[depth] = item
		if err := e.sink.Push(item); err != nil {
			return 0, errOutput(err)
		}

		var childMax int64
		if cond != nil {
			cond.reset()
			tail := 0
			for k := 0; k < ext.Cnt; k++ {
				x := &ext.Oxs[k]
				o := x.Occ
				for p := x.Pos + 1; p < len(o.Items); p++ {
					t := e.itemOf(o.Items[p])
					cond.append(t, p, o, o.Weight)
					tail++
				}
			}
			if tail > 0 {
				var err error
				childMax, err = e.recurse(cond, tail, length)
				if err != nil {
					return 0, err
				}
			}
		}

		report := e.opts.Target != TargetClosed || childMax < ext.Supp
		if report && length >= e.opts.ZMin {
			if err := e.reportPattern(length, ext); err != nil {
				return 0, err
			}
		}

		if err := e.sink.Pop(1); err != nil {
			return 0, errOutput(err)
		}
	}

	return maxSupp, nil
}

// reportPattern applies the per-length support border (spec.md §4.6) and,
// for the weighted variant, computes the per-position weighted mean item
// weight (spec.md §4.4, sequoia.c:500): for each pattern position m, the
// sum of weightOf(item)*occ.Weight over every occurrence extended by ext,
// divided by the pattern's support (not the occurrence count — a weighted
// transaction contributes its weight's worth to both numerator and
// denominator).
func (e *Engine[E]) reportPattern(length int, ext *PatternExtension[E]) error {
	supp := ext.Supp
	if supp < e.opts.Border.effectiveMin(length, e.opts.ZMin, e.opts.SMin) {
		return nil
	}
	var weights []float64
	if e.weightOf != nil {
		weights = e.wgts[:length]
		for m := range weights {
			weights[m] = 0
		}
		for k := 0; k < ext.Cnt; k++ {
			occ := ext.Oxs[k].Occ
			for m := 0; m < length; m++ {
				weights[m] += e.weightOf(occ.Items[occ.IPs[m]]) * float64(occ.Weight)
			}
		}
		for m := range weights {
			weights[m] /= float64(supp)
		}
	}
	if err := e.sink.Report(supp, weights); err != nil {
		return errOutput(err)
	}
	return nil
}
