package picker

import "github.com/runger/sequoia/internal/mine"

// Collector is a mine.Sink that accumulates reported patterns in memory as
// Pattern values ready for the browser Model, sparing callers from having
// to parse the reporter's rendered text back into structured data.
type Collector struct {
	names  []string
	prefix []mine.ItemID
	out    []Pattern
}

// NewCollector returns a Collector that renders item ids through names.
func NewCollector(names []string) *Collector {
	return &Collector{names: names}
}

func (c *Collector) Push(item mine.ItemID) error {
	c.prefix = append(c.prefix, item)
	return nil
}

func (c *Collector) Pop(n int) error {
	c.prefix = c.prefix[:len(c.prefix)-n]
	return nil
}

func (c *Collector) Report(support int64, weights []float64) error {
	items := make([]string, len(c.prefix))
	for i, id := range c.prefix {
		if int(id) >= 0 && int(id) < len(c.names) {
			items[i] = c.names[id]
		}
	}
	var w []float64
	if weights != nil {
		w = append(w, weights...)
	}
	c.out = append(c.out, Pattern{Items: items, Support: support, Weights: w})
	return nil
}

// Patterns returns every pattern reported so far.
func (c *Collector) Patterns() []Pattern { return c.out }
