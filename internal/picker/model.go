package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	queryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	supportStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// Model is the Bubble Tea model for the pattern browser TUI. It holds the
// full pattern set for one mining run in memory and filters it locally as
// the user types, since a run's result set is already finite and resident
// by the time the picker starts (unlike the engine's own streaming Sink).
type Model struct {
	all       []Pattern
	filtered  []Pattern
	textInput textinput.Model
	selection int
	offset    int
	width     int
	height    int
	selected  *Pattern // set on Enter, read by the caller after Run exits
	quit      bool
}

// NewModel builds a Model over patterns.
func NewModel(patterns []Pattern) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = queryStyle
	ti.Placeholder = "filter by item name..."
	ti.Focus()
	return Model{
		all:       patterns,
		filtered:  patterns,
		textInput: ti,
		selection: 0,
	}
}

// Selected returns the pattern the user chose with Enter, if any.
func (m Model) Selected() (Pattern, bool) {
	if m.selected == nil {
		return Pattern{}, false
	}
	return *m.selected, true
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.quit = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.selection >= 0 && m.selection < len(m.filtered) {
				sel := m.filtered[m.selection]
				m.selected = &sel
			}
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if m.selection > 0 {
				m.selection--
				m.adjustOffset()
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.selection < len(m.filtered)-1 {
				m.selection++
				m.adjustOffset()
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		m.refilter()
		return m, cmd
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) refilter() {
	terms := strings.Fields(m.textInput.Value())
	m.filtered = make([]Pattern, 0, len(m.all))
	for _, p := range m.all {
		if p.matchesFilter(terms) {
			m.filtered = append(m.filtered, p)
		}
	}
	if m.selection >= len(m.filtered) {
		m.selection = len(m.filtered) - 1
	}
	if m.selection < 0 {
		m.selection = 0
	}
	m.offset = 0
}

func (m *Model) adjustOffset() {
	visible := m.listHeight()
	if m.selection < m.offset {
		m.offset = m.selection
	} else if m.selection >= m.offset+visible {
		m.offset = m.selection - visible + 1
	}
}

func (m Model) listHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 10
	}
	return h
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render("sequoia patterns"), supportStyle.Render(fmt.Sprintf("(%d/%d)", len(m.filtered), len(m.all))))
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		b.WriteString(emptyStyle.Render("no patterns match"))
		return b.String()
	}

	visible := m.listHeight()
	end := m.offset + visible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		p := m.filtered[i]
		line := fmt.Sprintf("%-50s %s", p.Line(), p.SupportLabel())
		if i == m.selection {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
