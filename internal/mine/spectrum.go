package mine

import "sort"

// Spectrum is a pattern-spectrum table: the number of reported patterns of
// each (length, support) pair, matching sequoia.c's PATSPEC/psp_report
// (written via -P). It can be driven directly as a Sink, or wrapped around
// another Sink to tally every pattern as it is reported.
type Spectrum struct {
	counts map[[2]int64]int64
	depth  int
}

// NewSpectrum returns an empty pattern spectrum.
func NewSpectrum() *Spectrum {
	return &Spectrum{counts: make(map[[2]int64]int64)}
}

func (s *Spectrum) Push(item ItemID) error { s.depth++; return nil }

func (s *Spectrum) Pop(n int) error { s.depth -= n; return nil }

func (s *Spectrum) Report(support int64, weights []float64) error {
	key := [2]int64{int64(s.depth), support}
	s.counts[key]++
	return nil
}

// Signature is one row of the pattern spectrum: Length patterns of Support
// occurred Count times.
type Signature struct {
	Length  int
	Support int64
	Count   int64
}

// Signatures returns the spectrum's rows sorted by length then support,
// matching psp_report's traversal order.
func (s *Spectrum) Signatures() []Signature {
	out := make([]Signature, 0, len(s.counts))
	for k, c := range s.counts {
		out = append(out, Signature{Length: int(k[0]), Support: k[1], Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Length != out[j].Length {
			return out[i].Length < out[j].Length
		}
		return out[i].Support < out[j].Support
	})
	return out
}

// TeeSink reports to both Primary and Spectrum, so a run can write patterns
// and collect statistics in a single pass (sequoia.c's main() does this by
// registering a pattern spectrum with the same item set reporter; here the
// two are separate Sinks composed by the caller, which better fits Go's
// accept-an-interface style).
type TeeSink struct {
	Primary  Sink
	Spectrum *Spectrum
}

func (t *TeeSink) Push(item ItemID) error {
	if err := t.Primary.Push(item); err != nil {
		return err
	}
	return t.Spectrum.Push(item)
}

func (t *TeeSink) Pop(n int) error {
	if err := t.Primary.Pop(n); err != nil {
		return err
	}
	return t.Spectrum.Pop(n)
}

func (t *TeeSink) Report(support int64, weights []float64) error {
	if err := t.Primary.Report(support, weights); err != nil {
		return err
	}
	return t.Spectrum.Report(support, weights)
}
