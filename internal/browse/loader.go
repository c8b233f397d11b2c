package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/hunter/internal/model"
)

// ErrCancelled is returned by RunLoader when the user aborts the search.
var ErrCancelled = errors.New("cancelled")

type searchDoneMsg struct {
	result model.AggregationResult
}

type loaderModel struct {
	label    string
	searchFn func(ctx context.Context) model.AggregationResult
	ctx      context.Context
	cancel   context.CancelFunc
	spinner  spinner.Model
	result   model.AggregationResult
	err      error
	done     bool
}

func newLoader(ctx context.Context, label string, searchFn func(ctx context.Context) model.AggregationResult) loaderModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{
		label:    label,
		searchFn: searchFn,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  s,
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doSearch(), m.spinner.Tick)
}

func (m loaderModel) doSearch() tea.Cmd {
	searchFn, ctx := m.searchFn, m.ctx
	return func() tea.Msg {
		return searchDoneMsg{result: searchFn(ctx)}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchDoneMsg:
		m.result = msg.result
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Searching %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while searchFn runs. It renders inline (no alt screen).
// searchFn receives a context that is cancelled if the user presses ctrl+c.
func RunLoader(ctx context.Context, label string, searchFn func(ctx context.Context) model.AggregationResult) (model.AggregationResult, error) {
	m := newLoader(ctx, label, searchFn)
	defer m.cancel()

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return model.AggregationResult{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
