// Package runner wires the file-reading, item-base recoding, transaction
// bag, and mining-engine packages into the single pipeline the CLI and
// daemon both drive: read -> recode -> reduce -> mine -> report.
package runner

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/runger/sequoia/internal/itembase"
	"github.com/runger/sequoia/internal/mine"
	"github.com/runger/sequoia/internal/reporter"
	"github.com/runger/sequoia/internal/tabread"
	"github.com/runger/sequoia/internal/tract"
)

// Options configures one end-to-end run.
type Options struct {
	Read   tabread.Options
	Target mine.Target
	ZMin   int
	ZMax   int // 0 means unlimited; resolved against the item count at run time
	// MinSupp follows the CLI convention: >= 0 is a percentage of total
	// transaction weight, < 0 is an absolute minimum support count.
	MinSupp float64
	// BorderRaw holds one MinSupp-convention value per pattern length
	// starting at ZMin (the CLI's -F flag), resolved against the run's
	// total transaction weight the same way MinSupp is.
	BorderRaw []float64
	Format    reporter.Format
	// CollectSpectrum, when true, tallies a length/support histogram
	// alongside the rendered pattern output.
	CollectSpectrum bool
}

// Result holds one run's rendered output and statistics.
type Result struct {
	Output       []byte
	Spectrum     *mine.Spectrum
	Transactions int
	Items        int
	PatternCount int
	SMin         int64 // resolved absolute minimum support, for run-history records
}

// Run executes the full pipeline against the records read from r.
func Run(r io.Reader, opts Options) (Result, error) {
	records, err := tabread.Read(r, opts.Read)
	if err != nil {
		return Result{}, err
	}

	base := itembase.New()
	rawItems := tabread.Recode(records, base)

	totalWeight := int64(0)
	for _, rec := range records {
		totalWeight += rec.Weight
	}

	smin := ResolveMinSupport(opts.MinSupp, totalWeight)

	var border mine.SupportBorder
	if len(opts.BorderRaw) > 0 {
		border.Mins = make([]int64, len(opts.BorderRaw))
		for i, raw := range opts.BorderRaw {
			border.Mins[i] = ResolveMinSupport(raw, totalWeight)
		}
	}

	recoding := base.Recode(smin)

	zmax := opts.ZMax
	if zmax <= 0 || zmax > len(recoding.Names) {
		zmax = len(recoding.Names)
		if zmax == 0 {
			zmax = 1
		}
	}

	mineOpts := mine.Options{
		Target: opts.Target,
		SMin:   smin,
		ZMin:   opts.ZMin,
		ZMax:   zmax,
		Border: border,
	}

	if opts.Read.ItemWeightSep != 0 {
		return runWeighted(records, base, recoding, mineOpts, smin, opts)
	}
	return runUnweighted(rawItems, records, recoding, mineOpts, smin, opts)
}

// runUnweighted drives the plain (unweighted) mining pipeline: sequoia's
// default mode, where every item's reported weight is absent.
func runUnweighted(rawItems [][]mine.ItemID, records []tabread.Record, recoding itembase.Recoding, mineOpts mine.Options, smin int64, opts Options) (Result, error) {
	bag := tract.New()
	for i, ids := range rawItems {
		kept := make([]mine.ItemID, 0, len(ids))
		for _, old := range ids {
			if newID := recoding.Translate(old); newID != mine.NoItem {
				kept = append(kept, newID)
			}
		}
		if len(kept) > 0 {
			bag.Add(kept, records[i].Weight)
		}
	}
	bag.Reduce()

	var buf bytes.Buffer
	writer := reporter.NewWriter(&buf, recoding.Names, bag.TotalWeight(), opts.Format)

	var sink mine.Sink = writer
	var spectrum *mine.Spectrum
	if opts.CollectSpectrum {
		spectrum = mine.NewSpectrum()
		sink = &mine.TeeSink{Primary: writer, Spectrum: spectrum}
	}

	engine := mine.NewEngine[mine.ItemID](len(recoding.Names), mineOpts, mine.PlainItemOf, nil, sink)

	if err := engine.Run(bag.Transactions()); err != nil {
		return Result{}, fmt.Errorf("runner: mining failed: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return Result{}, fmt.Errorf("runner: flush failed: %w", err)
	}

	return Result{
		Output:       buf.Bytes(),
		Spectrum:     spectrum,
		Transactions: bag.Len(),
		Items:        len(recoding.Names),
		PatternCount: writer.Count(),
		SMin:         smin,
	}, nil
}

// runWeighted drives the Weight Aggregator pipeline (-u): the same
// read/recode/reduce/mine/report stages as runUnweighted, but carrying each
// item's real-valued weight through tabread.RecodeWeighted and
// tract.WeightedBag into a mine.Engine[mine.WeightedItem] so %w/%m report
// directives have real per-pattern means to render instead of always
// rendering blank.
func runWeighted(records []tabread.Record, base *itembase.Base, recoding itembase.Recoding, mineOpts mine.Options, smin int64, opts Options) (Result, error) {
	weightedItems := tabread.RecodeWeighted(records, base)

	bag := tract.NewWeighted()
	for i, ids := range weightedItems {
		kept := make([]mine.WeightedItem, 0, len(ids))
		for _, old := range ids {
			if newID := recoding.Translate(old.Item); newID != mine.NoItem {
				kept = append(kept, mine.WeightedItem{Item: newID, Weight: old.Weight})
			}
		}
		if len(kept) > 0 {
			bag.Add(kept, records[i].Weight)
		}
	}
	bag.Reduce()

	var buf bytes.Buffer
	writer := reporter.NewWriter(&buf, recoding.Names, bag.TotalWeight(), opts.Format)

	var sink mine.Sink = writer
	var spectrum *mine.Spectrum
	if opts.CollectSpectrum {
		spectrum = mine.NewSpectrum()
		sink = &mine.TeeSink{Primary: writer, Spectrum: spectrum}
	}

	engine := mine.NewEngine[mine.WeightedItem](len(recoding.Names), mineOpts, mine.WeightedItemOf, mine.WeightedWeightOf, sink)

	if err := engine.Run(bag.Transactions()); err != nil {
		return Result{}, fmt.Errorf("runner: mining failed: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return Result{}, fmt.Errorf("runner: flush failed: %w", err)
	}

	return Result{
		Output:       buf.Bytes(),
		Spectrum:     spectrum,
		Transactions: bag.Len(),
		Items:        len(recoding.Names),
		PatternCount: writer.Count(),
		SMin:         smin,
	}, nil
}

// ResolveMinSupport converts the CLI's signed support convention (percent
// of total weight if >= 0, absolute count if negative) into an absolute
// support threshold, rounding percentages up like sequoia.c's ceilsupp.
func ResolveMinSupport(minSupp float64, totalWeight int64) int64 {
	if minSupp < 0 {
		return int64(-minSupp)
	}
	if totalWeight <= 0 {
		return 1
	}
	supp := int64(math.Ceil(minSupp / 100 * float64(totalWeight) * (1 - 1e-12)))
	if supp < 1 {
		supp = 1
	}
	return supp
}
