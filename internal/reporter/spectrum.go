package reporter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/runger/sequoia/internal/mine"
)

// WriteSpectrum writes a pattern-spectrum table (length, support, count),
// one row per line, matching sequoia.c's psp_report output used by -P.
func WriteSpectrum(w io.Writer, sp *mine.Spectrum) error {
	bw := bufio.NewWriter(w)
	for _, sig := range sp.Signatures() {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", sig.Length, sig.Support, sig.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}
