package picker

import (
	"testing"

	"github.com/runger/sequoia/internal/mine"
)

func TestCollector_AccumulatesPatternsWithNames(t *testing.T) {
	c := NewCollector([]string{"a", "b", "c"})

	c.Push(0)
	c.Push(1)
	if err := c.Report(5, nil); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	c.Pop(1)
	c.Push(2)
	if err := c.Report(3, nil); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	patterns := c.Patterns()
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
	if patterns[0].Line() != "a b" || patterns[0].Support != 5 {
		t.Errorf("unexpected first pattern: %+v", patterns[0])
	}
	if patterns[1].Line() != "a c" || patterns[1].Support != 3 {
		t.Errorf("unexpected second pattern: %+v", patterns[1])
	}
}

var _ mine.Sink = (*Collector)(nil)
