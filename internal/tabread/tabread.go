// Package tabread reads a transaction database from a table file, one
// transaction per record, mirroring sequoia.c's table reader (trd_*): each
// record is split into item fields, with comment lines and configurable
// separators, an optional trailing integer transaction weight, and an
// optional per-item real-valued weight (-u) for the weighted mining variant.
package tabread

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/runger/sequoia/internal/itembase"
	"github.com/runger/sequoia/internal/mine"
)

// Options configures the reader, matching the CLI's -r/-f/-b/-C/-w/-u flags.
type Options struct {
	FieldSeps     []byte // item separators within a record; default " \t,"
	Comment       byte   // comment prefix; default '#'
	WeightTag     bool   // true: the last field of each record is an integer weight (-w)
	Scanable      bool   // true: split each record with shell-style quoting (-g)
	ItemWeightSep byte   // 0 disables; otherwise splits "item<sep>weight" fields (-u)
}

// DefaultOptions returns the CLI's default separator set.
func DefaultOptions() Options {
	return Options{FieldSeps: []byte{' ', '\t', ','}, Comment: '#'}
}

// Record is one parsed transaction record before item-base recoding.
type Record struct {
	Items  []string
	Weight int64
	// ItemWeights holds one real-valued weight per entry in Items, set only
	// when Options.ItemWeightSep is non-zero (the weighted mining variant).
	ItemWeights []float64
}

// Read parses every record in r and returns it unrecoded. Blank lines and
// comment lines (starting with Comment) are skipped.
func Read(r io.Reader, opts Options) ([]Record, error) {
	if len(opts.FieldSeps) == 0 {
		opts = DefaultOptions()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []Record
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || (opts.Comment != 0 && len(trimmed) > 0 && trimmed[0] == opts.Comment) {
			continue
		}
		fields, err := splitRecord(line, opts)
		if err != nil {
			return nil, fmt.Errorf("tabread: %w", err)
		}
		if len(fields) == 0 {
			continue
		}
		rec := Record{Items: fields}
		if opts.WeightTag {
			last := fields[len(fields)-1]
			w, err := strconv.ParseInt(last, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("tabread: invalid transaction weight %q: %w", last, err)
			}
			rec.Items = fields[:len(fields)-1]
			rec.Weight = w
		} else {
			rec.Weight = 1
		}
		if len(rec.Items) == 0 {
			return nil, errors.New("tabread: empty transaction after removing weight field")
		}
		if opts.ItemWeightSep != 0 {
			names := make([]string, len(rec.Items))
			weights := make([]float64, len(rec.Items))
			for j, field := range rec.Items {
				name, w, err := splitItemWeight(field, opts.ItemWeightSep)
				if err != nil {
					return nil, fmt.Errorf("tabread: %w", err)
				}
				names[j] = name
				weights[j] = w
			}
			rec.Items = names
			rec.ItemWeights = weights
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tabread: %w", err)
	}
	return records, nil
}

// splitItemWeight splits a field on the last occurrence of sep into an item
// name and its real-valued weight. A field with no sep is given weight 1,
// matching the unweighted default used elsewhere (spec.md's "weight 1
// unless noted" transactions).
func splitItemWeight(field string, sep byte) (string, float64, error) {
	idx := strings.LastIndexByte(field, sep)
	if idx < 0 {
		return field, 1, nil
	}
	w, err := strconv.ParseFloat(field[idx+1:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid item weight in %q: %w", field, err)
	}
	return field[:idx], w, nil
}

func splitRecord(line string, opts Options) ([]string, error) {
	if opts.Scanable {
		return shlex.Split(line)
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		for _, s := range opts.FieldSeps {
			if byte(r) == s {
				return true
			}
		}
		return false
	}), nil
}

// Recode reads every record, adds its items to base, and returns them
// unfiltered (the caller recodes against a minimum support after seeing the
// whole file, matching the CLI's two-pass "read, then recode" pipeline).
func Recode(records []Record, base *itembase.Base) [][]mine.ItemID {
	out := make([][]mine.ItemID, len(records))
	for i, rec := range records {
		ids := make([]mine.ItemID, len(rec.Items))
		for j, name := range rec.Items {
			ids[j] = base.Add(name, rec.Weight)
		}
		out[i] = ids
	}
	return out
}

// RecodeWeighted is Recode's counterpart for the weighted mining variant: it
// carries each item's parsed real-valued weight (Record.ItemWeights)
// alongside its pre-cut item id. Item-base frequency is still tallied by
// transaction weight only, exactly as in Recode — an item's own weight has
// no bearing on which items survive Base.Recode's minimum-support cut.
func RecodeWeighted(records []Record, base *itembase.Base) [][]mine.WeightedItem {
	out := make([][]mine.WeightedItem, len(records))
	for i, rec := range records {
		items := make([]mine.WeightedItem, len(rec.Items))
		for j, name := range rec.Items {
			id := base.Add(name, rec.Weight)
			w := 1.0
			if j < len(rec.ItemWeights) {
				w = rec.ItemWeights[j]
			}
			items[j] = mine.WeightedItem{Item: id, Weight: w}
		}
		out[i] = items
	}
	return out
}
