package picker

import (
	tea "github.com/charmbracelet/bubbletea"
	"testing"
)

func samplePatterns() []Pattern {
	return []Pattern{
		{Items: []string{"a"}, Support: 4},
		{Items: []string{"a", "b"}, Support: 3},
		{Items: []string{"b", "c"}, Support: 2},
	}
}

func TestNewModel_StartsWithAllPatternsVisible(t *testing.T) {
	m := NewModel(samplePatterns())
	if len(m.filtered) != 3 {
		t.Errorf("expected all 3 patterns visible initially, got %d", len(m.filtered))
	}
}

func TestModel_FilterNarrowsList(t *testing.T) {
	m := NewModel(samplePatterns())
	m.textInput.SetValue("b c")
	m.refilter()

	if len(m.filtered) != 1 {
		t.Fatalf("expected 1 pattern to match 'b c', got %d", len(m.filtered))
	}
	if m.filtered[0].Line() != "b c" {
		t.Errorf("unexpected match: %s", m.filtered[0].Line())
	}
}

func TestModel_EnterSelectsHighlightedPattern(t *testing.T) {
	m := NewModel(samplePatterns())
	m.selection = 1

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := updated.(Model)

	sel, ok := mm.Selected()
	if !ok {
		t.Fatal("expected a pattern to be selected")
	}
	if sel.Line() != "a b" {
		t.Errorf("expected selection 'a b', got %q", sel.Line())
	}
	if cmd == nil {
		t.Error("expected a tea.Quit command")
	}
}

func TestModel_EscQuitsWithoutSelection(t *testing.T) {
	m := NewModel(samplePatterns())
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	mm := updated.(Model)

	if _, ok := mm.Selected(); ok {
		t.Error("expected no selection after Esc")
	}
	if !mm.quit {
		t.Error("expected quit flag to be set")
	}
}

func TestModel_ArrowKeysMoveSelection(t *testing.T) {
	m := NewModel(samplePatterns())
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	mm := updated.(Model)
	if mm.selection != 1 {
		t.Errorf("expected selection=1 after KeyDown, got %d", mm.selection)
	}

	updated, _ = mm.Update(tea.KeyMsg{Type: tea.KeyUp})
	mm = updated.(Model)
	if mm.selection != 0 {
		t.Errorf("expected selection=0 after KeyUp, got %d", mm.selection)
	}
}
