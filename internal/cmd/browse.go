package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runger/sequoia/internal/itembase"
	"github.com/runger/sequoia/internal/mine"
	"github.com/runger/sequoia/internal/picker"
	"github.com/runger/sequoia/internal/runner"
	"github.com/runger/sequoia/internal/tabread"
	"github.com/runger/sequoia/internal/tract"
)

var browseFlags struct {
	target    string
	zmin      int
	zmax      int
	minSupp   float64
	weightTag bool
	fieldSeps string
	comment   string
}

var browseCmd = &cobra.Command{
	Use:     "browse <infile>",
	Short:   "mine a transaction bag and browse the patterns interactively",
	GroupID: groupCore,
	Args:    cobra.ExactArgs(1),
	RunE:    runBrowse,
}

func init() {
	f := browseCmd.Flags()
	f.StringVarP(&browseFlags.target, "target", "t", "all", "target patterns: all or closed")
	f.IntVarP(&browseFlags.zmin, "zmin", "m", 1, "minimum pattern length to report")
	f.IntVarP(&browseFlags.zmax, "zmax", "n", 0, "maximum pattern length (0 = unlimited)")
	f.Float64VarP(&browseFlags.minSupp, "min-support", "s", 10, "minimum support: >=0 percent of transactions, <0 absolute count")
	f.BoolVarP(&browseFlags.weightTag, "weighted-transactions", "w", false, "last field of each record is an integer transaction weight")
	f.StringVarP(&browseFlags.fieldSeps, "field-seps", "f", " \t,", "item separator characters within a record")
	f.StringVarP(&browseFlags.comment, "comment", "C", "#", "comment line prefix character")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	target, err := parseTarget(browseFlags.target)
	if err != nil {
		return err
	}

	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	defer in.Close()

	readOpts := tabread.Options{
		FieldSeps: []byte(browseFlags.fieldSeps),
		Comment:   commentByte(browseFlags.comment),
		WeightTag: browseFlags.weightTag,
	}

	records, err := tabread.Read(in, readOpts)
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}

	base := itembase.New()
	rawItems := tabread.Recode(records, base)

	totalWeight := int64(0)
	for _, rec := range records {
		totalWeight += rec.Weight
	}
	smin := runner.ResolveMinSupport(browseFlags.minSupp, totalWeight)
	recoding := base.Recode(smin)

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

	zmax := browseFlags.zmax
	if zmax <= 0 || zmax > len(recoding.Names) {
		zmax = len(recoding.Names)
		if zmax == 0 {
			zmax = 1
		}
	}

	collector := picker.NewCollector(recoding.Names)
	engine := mine.NewEngine[mine.ItemID](len(recoding.Names), mine.Options{
		Target: target,
		SMin:   smin,
		ZMin:   browseFlags.zmin,
		ZMax:   zmax,
	}, mine.PlainItemOf, nil, collector)

	if err := engine.Run(bag.Transactions()); err != nil {
		return fmt.Errorf("sequoia: mining failed: %w", err)
	}

	patterns := collector.Patterns()
	if len(patterns) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no patterns found")
		return nil
	}

	model := picker.NewModel(patterns)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("sequoia: browse: %w", err)
	}

	if picked, ok := final.(picker.Model).Selected(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  supp=%d\n", picked.Line(), picked.Support)
	}
	return nil
}
