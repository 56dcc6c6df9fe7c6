package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/sequoia/internal/config"
	"github.com/runger/sequoia/internal/daemon"
	"github.com/runger/sequoia/internal/mine"
	"github.com/runger/sequoia/internal/reporter"
	"github.com/runger/sequoia/internal/runner"
	"github.com/runger/sequoia/internal/store"
	"github.com/runger/sequoia/internal/tabread"
)

var mineFlags struct {
	target     string
	zmin       int
	zmax       int
	minSupp    float64
	border     string
	spectrum   string
	scanable   bool
	header     string
	itemSep    string
	weightFmt  string
	infoFmt    string
	weightTag  bool
	fieldSeps  string
	comment    string
	noDaemon   bool
	itemWgtSep string
}

var mineCmd = &cobra.Command{
	Use:     "mine <infile> [outfile]",
	Short:   "mine a transaction bag for frequent sequential patterns",
	GroupID: groupCore,
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runMine,
}

func init() {
	f := mineCmd.Flags()
	f.StringVarP(&mineFlags.target, "target", "t", "all", "target patterns: all or closed")
	f.IntVarP(&mineFlags.zmin, "zmin", "m", 1, "minimum pattern length to report")
	f.IntVarP(&mineFlags.zmax, "zmax", "n", 0, "maximum pattern length (0 = unlimited)")
	f.Float64VarP(&mineFlags.minSupp, "min-support", "s", 10, "minimum support: >=0 percent of transactions, <0 absolute count")
	f.StringVarP(&mineFlags.border, "border", "F", "", "colon-separated per-length support border, starting at zmin")
	f.StringVarP(&mineFlags.spectrum, "spectrum", "P", "", "write a pattern-spectrum table to this file")
	f.BoolVarP(&mineFlags.scanable, "scanable", "g", false, "quote items for machine-readable output")
	f.StringVar(&mineFlags.header, "header", "", "text printed at the start of every output line")
	f.StringVarP(&mineFlags.itemSep, "item-sep", "k", " ", "separator between items in a reported pattern")
	f.StringVarP(&mineFlags.weightFmt, "weight-format", "i", "", "per-item weight format, e.g. ':%m' (weighted runs only)")
	f.StringVarP(&mineFlags.infoFmt, "info-format", "v", " (%S)", "per-pattern info suffix format")
	f.BoolVarP(&mineFlags.weightTag, "weighted-transactions", "w", false, "last field of each record is an integer transaction weight")
	f.StringVarP(&mineFlags.fieldSeps, "field-seps", "f", " \t,", "item separator characters within a record")
	f.StringVarP(&mineFlags.comment, "comment", "C", "#", "comment line prefix character")
	f.BoolVar(&mineFlags.noDaemon, "no-daemon", false, "mine in-process instead of delegating to the background daemon")
	f.StringVarP(&mineFlags.itemWgtSep, "item-weight-sep", "u", "", "split each item on this separator into a name and a real-valued weight (weighted mining); falls back to mining.weighted in config with ':' when unset")
}

func runMine(cmd *cobra.Command, args []string) error {
	infile := args[0]

	target, err := parseTarget(mineFlags.target)
	if err != nil {
		return err
	}

	border, err := parseBorder(mineFlags.border)
	if err != nil {
		return err
	}

	readOpts := tabread.Options{
		FieldSeps:     []byte(mineFlags.fieldSeps),
		Comment:       commentByte(mineFlags.comment),
		WeightTag:     mineFlags.weightTag,
		Scanable:      mineFlags.scanable,
		ItemWeightSep: resolveItemWeightSep(mineFlags.itemWgtSep),
	}

	format := reporter.Format{
		Header:   mineFlags.header,
		ItemSep:  mineFlags.itemSep,
		WeightFn: mineFlags.weightFmt,
		InfoFn:   mineFlags.infoFmt,
		Scanable: mineFlags.scanable,
	}

	opts := runner.Options{
		Read:            readOpts,
		Target:          target,
		ZMin:            mineFlags.zmin,
		ZMax:            mineFlags.zmax,
		MinSupp:         mineFlags.minSupp,
		BorderRaw:       border,
		Format:          format,
		CollectSpectrum: mineFlags.spectrum != "",
	}

	startedAt := time.Now()
	result, spectrumText, err := mineViaDaemonOrInline(infile, opts)
	if err != nil {
		return err
	}

	recordRun(infile, mineFlags.target, opts, result, startedAt)

	out := cmd.OutOrStdout()
	if len(args) == 2 {
		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("sequoia: %w", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(result.Output); err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}

	if mineFlags.spectrum != "" && len(spectrumText) > 0 {
		if err := os.WriteFile(mineFlags.spectrum, spectrumText, 0o644); err != nil {
			return fmt.Errorf("sequoia: %w", err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d transactions, %d items, %d patterns\n",
		result.Transactions, result.Items, result.PatternCount)
	return nil
}

// recordRun persists one run's parameters and outcome to the run-history
// store. Failures are swallowed: history is ambient bookkeeping, not part
// of the mining contract, so a broken or locked database must never fail
// an otherwise-successful run.
func recordRun(infile, target string, opts runner.Options, result runner.Result, startedAt time.Time) {
	st, err := openStore()
	if err != nil {
		return
	}
	defer st.Close()

	abs, err := filepath.Abs(infile)
	if err != nil {
		abs = infile
	}

	run := store.Run{
		RunID:         store.NewRunID(),
		SourcePath:    abs,
		Target:        target,
		ZMin:          opts.ZMin,
		ZMax:          opts.ZMax,
		SMin:          result.SMin,
		Transactions:  result.Transactions,
		Items:         result.Items,
		PatternCount:  result.PatternCount,
		DurationMs:    time.Since(startedAt).Milliseconds(),
		StartedAtUnix: startedAt.Unix(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = st.InsertRun(ctx, run, result.Spectrum)
}

// mineViaDaemonOrInline tries the background daemon first (unless
// --no-daemon was given), falling back to an in-process run when no
// daemon is listening. It returns the rendered pattern output alongside
// the spectrum's rendered text, since the daemon already renders its
// spectrum to bytes before replying.
func mineViaDaemonOrInline(infile string, opts runner.Options) (runner.Result, []byte, error) {
	if !mineFlags.noDaemon {
		if result, spectrumText, ok, err := mineViaDaemon(infile, opts); ok {
			return result, spectrumText, err
		}
	}

	in, err := os.Open(infile)
	if err != nil {
		return runner.Result{}, nil, fmt.Errorf("sequoia: %w", err)
	}
	defer in.Close()

	result, err := runner.Run(in, opts)
	if err != nil {
		return runner.Result{}, nil, err
	}

	var spectrumText []byte
	if result.Spectrum != nil {
		var buf bytes.Buffer
		if err := reporter.WriteSpectrum(&buf, result.Spectrum); err != nil {
			return runner.Result{}, nil, fmt.Errorf("sequoia: %w", err)
		}
		spectrumText = buf.Bytes()
	}
	return result, spectrumText, nil
}

// mineViaDaemon attempts to delegate the run to a listening daemon. The
// third return value is false when no daemon is reachable, signaling the
// caller to fall back to an in-process run instead of surfacing an error.
func mineViaDaemon(infile string, opts runner.Options) (runner.Result, []byte, bool, error) {
	cfg, err := config.Load()
	if err != nil {
		return runner.Result{}, nil, false, nil
	}

	paths := config.DefaultPaths()
	socketPath := cfg.Daemon.SocketPath
	if socketPath == "" {
		socketPath = paths.SocketFile()
	}

	abs, err := filepath.Abs(infile)
	if err != nil {
		return runner.Result{}, nil, false, nil
	}

	timeout := time.Duration(cfg.Client.ConnectTimeoutMs) * time.Millisecond
	client := daemon.NewClient(socketPath, timeout)

	req := daemon.Request{
		SourcePath:      abs,
		Read:            opts.Read,
		Target:          opts.Target,
		ZMin:            opts.ZMin,
		ZMax:            opts.ZMax,
		MinSupp:         opts.MinSupp,
		Border:          opts.BorderRaw,
		Format:          opts.Format,
		CollectSpectrum: opts.CollectSpectrum,
	}

	resp, err := client.Mine(req)
	if err != nil {
		if err == daemon.ErrNotRunning {
			return runner.Result{}, nil, false, nil
		}
		return runner.Result{}, nil, true, fmt.Errorf("sequoia: %w", err)
	}

	result := runner.Result{
		Output:       resp.Output,
		Transactions: resp.Transactions,
		Items:        resp.Items,
		PatternCount: resp.PatternCount,
	}
	return result, resp.SpectrumText, true, nil
}

// parseBorder splits a colon-separated per-length support border, e.g.
// "50:20:-3", into one float64 per pattern length following the same
// sign convention as -s: >= 0 is a percentage, < 0 an absolute count.
func parseBorder(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	border := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("sequoia: invalid border value %q: %w", p, err)
		}
		border[i] = v
	}
	return border, nil
}

func parseTarget(s string) (mine.Target, error) {
	switch s {
	case "all", "s":
		return mine.TargetAll, nil
	case "closed", "c":
		return mine.TargetClosed, nil
	default:
		return 0, fmt.Errorf("sequoia: invalid target %q (want all or closed)", s)
	}
}

// resolveItemWeightSep decides whether a run reads per-item real-valued
// weights and on what separator. An explicit -u flag always wins; otherwise
// the mining.weighted config field (set by "sequoia config set
// mining.weighted true", previously read nowhere) turns on weighted mode
// with sequoia.c's default item/weight separator ':'.
func resolveItemWeightSep(flagVal string) byte {
	if flagVal != "" {
		return flagVal[0]
	}
	cfg, err := config.Load()
	if err != nil || !cfg.Mining.Weighted {
		return 0
	}
	return ':'
}

func commentByte(s string) byte {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}
