// Package daemon runs the mining engine as a long-lived background process
// reachable over a Unix domain socket, so repeated "sequoia mine" calls from
// a shell can be served by one running process. Nothing is kept between
// requests: each one re-reads its source file and rebuilds the item base.
package daemon

import (
	"github.com/runger/sequoia/internal/mine"
	"github.com/runger/sequoia/internal/reporter"
	"github.com/runger/sequoia/internal/tabread"
)

// Request is one client call: mine the transactions read from SourcePath
// with the given options. Each connection carries exactly one Request
// followed by exactly one Response, newline-delimited JSON.
type Request struct {
	SourcePath      string          `json:"source_path"`
	Read            tabread.Options `json:"read"`
	Target          mine.Target     `json:"target"`
	ZMin            int             `json:"zmin"`
	ZMax            int             `json:"zmax"`
	MinSupp         float64         `json:"min_supp"`
	Border          []float64       `json:"border,omitempty"`
	Format          reporter.Format `json:"format"`
	CollectSpectrum bool            `json:"collect_spectrum"`
}

// Response carries either a successful result or an error message.
type Response struct {
	Error        string `json:"error,omitempty"`
	Output       []byte `json:"output,omitempty"`
	SpectrumText []byte `json:"spectrum_text,omitempty"`
	Transactions int    `json:"transactions"`
	Items        int    `json:"items"`
	PatternCount int    `json:"pattern_count"`
}
