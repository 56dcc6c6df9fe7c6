package mine

// scratch holds the engine-wide closedness-test buffers: a sparse item
// counter array and a touch list recording which counters were touched
// during the current gap scan, so they can be cleared in O(k) rather than
// O(|I|) (spec.md §4.3's "complexity note").
//
// Both buffers are shared across the entire run (spec.md §5): every gap
// scan must leave frqs all-zero before returning, which closed() below
// guarantees by always popping exactly what it pushed.
type scratch struct {
	frqs []int64
	buf  []ItemID
}

func newScratch(itemCount int) *scratch {
	return &scratch{
		frqs: make([]int64, itemCount),
		buf:  make([]ItemID, 0, itemCount),
	}
}

// closed implements spec.md §4.3: given ext (the PatternExtension about to
// grow the pattern to length n) with ips[0..n-1] already anchored in every
// one of its occurrences, decide whether the grown pattern is closed with
// respect to simple prefix/infix extension (suffix closedness is handled
// separately by the caller via maxSupp comparison, §4.2(f)).
func closed[E any](ext *PatternExtension[E], n int, itemOf itemOf[E], sc *scratch) bool {
	for g := n - 1; g >= 0; g-- {
		hit := false
		for i := 0; i < ext.Cnt; i++ {
			occ := ext.Oxs[i].Occ
			lo := 0
			if g > 0 {
				lo = occ.IPs[g-1] + 1
			}
			hi := occ.IPs[g]
			hit = false
			for p := lo; p < hi; p++ {
				item := itemOf(occ.Items[p])
				sc.frqs[item]++
				c := sc.frqs[item]
				if c > int64(i) {
					hit = true
				}
				if c == 1 {
					sc.buf = append(sc.buf, item)
				}
			}
			if !hit {
				break
			}
		}
		for len(sc.buf) > 0 {
			last := sc.buf[len(sc.buf)-1]
			sc.buf = sc.buf[:len(sc.buf)-1]
			sc.frqs[last] = 0
		}
		if hit {
			return false // some item occurs in gap g of every occurrence
		}
	}
	return true
}
