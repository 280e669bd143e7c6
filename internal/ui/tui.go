package ui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/search"
)

// ViewSource is a collection.Source that forwards view changes into the
// interactive program. It is the host surface for the TUI.
type ViewSource struct {
	mu     sync.Mutex
	items  []collection.Item
	notify func([]collection.Item)
}

// NewViewSource creates a view source seeded with the given items.
func NewViewSource(items []collection.Item) *ViewSource {
	s := &ViewSource{}
	s.SetItems(items)
	return s
}

// Items returns a copy of the current view.
func (s *ViewSource) Items() []collection.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]collection.Item, len(s.items))
	copy(out, s.items)
	return out
}

// SetItems replaces the current view.
func (s *ViewSource) SetItems(items []collection.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]collection.Item, len(items))
	copy(s.items, items)
}

// ForceRefresh pushes the current view to the registered listener.
func (s *ViewSource) ForceRefresh() {
	s.mu.Lock()
	notify := s.notify
	items := make([]collection.Item, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	if notify != nil {
		notify(items)
	}
}

// OnRefresh registers the listener called on ForceRefresh.
func (s *ViewSource) OnRefresh(fn func([]collection.Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// viewMsg carries a reordered view into the program.
type viewMsg []collection.Item

// searchModel is the interactive search screen: a text input whose every
// change feeds the query orchestrator, and the live collection view below.
type searchModel struct {
	input  textinput.Model
	items  []collection.Item
	orch   *search.Orchestrator
	styles Styles
	height int
	last   string
}

func newSearchModel(orch *search.Orchestrator, items []collection.Item, styles Styles) searchModel {
	input := textinput.New()
	input.Placeholder = "type to search your collection"
	input.Prompt = styles.Prompt.Render("search> ")
	input.Focus()

	return searchModel{
		input:  input,
		items:  items,
		orch:   orch,
		styles: styles,
		height: 20,
	}
}

// Init implements tea.Model.
func (m searchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.orch.Close()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case viewMsg:
		m.items = msg
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Every input change goes through the orchestrator; it debounces and
	// cancels superseded requests on its own.
	if v := m.input.Value(); v != m.last {
		m.last = v
		m.orch.OnInput(v)
	}
	return m, cmd
}

// View implements tea.Model.
func (m searchModel) View() string {
	s := m.input.View() + "\n\n"

	max := m.height - 4
	if max < 1 {
		max = 1
	}
	for i, it := range m.items {
		if i >= max {
			s += m.styles.Dim.Render(fmt.Sprintf("  ... and %d more", len(m.items)-i)) + "\n"
			break
		}
		s += fmt.Sprintf("%s %s  %s\n",
			m.styles.Rank.Render(fmt.Sprintf("%3d.", i+1)),
			m.styles.Header.Render(it.ID),
			m.styles.Dim.Render(it.Locator))
	}
	s += "\n" + m.styles.Dim.Render("esc to quit")
	return s
}

// RunInteractive runs the interactive search screen until the user quits.
// The source must be the same one the orchestrator applies views to.
func RunInteractive(orch *search.Orchestrator, source *ViewSource, styles Styles) error {
	model := newSearchModel(orch, source.Items(), styles)
	program := tea.NewProgram(model, tea.WithAltScreen())

	source.OnRefresh(func(items []collection.Item) {
		program.Send(viewMsg(items))
	})
	defer source.OnRefresh(nil)

	_, err := program.Run()
	return err
}
