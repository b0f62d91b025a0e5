// Package tui is the full-screen bubbletea front end for the bingo caller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/bingocards/internal/caller"
)

const allDrawnMsg = "All the values have been drawn."

// CallerModel is the Bubble Tea model for a draw session. It draws the
// first value on creation, like the line-oriented session does.
type CallerModel struct {
	seq        *caller.Sequence
	showLabels bool
	logger     *log.Logger

	history viewport.Model

	current  *caller.Call
	done     bool
	quitting bool

	width       int
	height      int
	initialized bool
}

// NewCallerModel creates a model over seq and makes the first call.
func NewCallerModel(seq *caller.Sequence, showLabels bool, logger *log.Logger) *CallerModel {
	// Sized properly when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &CallerModel{
		seq:        seq,
		showLabels: showLabels,
		logger:     logger.WithPrefix("tui"),
		history:    vp,
	}
	m.draw()
	return m
}

// Init initializes the model.
func (m *CallerModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses and resizes.
func (m *CallerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q", "Q":
			m.quitting = true
			m.logger.Debug("Operator quit", "drawn", len(m.seq.Drawn()), "remaining", m.seq.Remaining())
			return m, tea.Quit
		case "enter", "n":
			m.draw()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// draw makes the next call and refreshes the history pane.
func (m *CallerModel) draw() {
	if m.done {
		return
	}
	call, ok := m.seq.Next()
	if !ok {
		m.done = true
		m.logger.Debug("All values drawn", "total", m.seq.Total())
		return
	}
	m.current = &call
	m.logger.Debug("Drew value", "number", call.Number, "label", call.Label, "value", call.Value,
		"remaining", m.seq.Remaining())

	m.history.SetContent(m.renderHistory())
	m.history.GotoBottom()
}

// resize fits the history pane beside the board.
func (m *CallerModel) resize() {
	board := m.renderBoard()
	width := m.width - lipgloss.Width(board) - 4
	height := m.height - lipgloss.Height(m.renderCall()) - 4
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	m.history.Width = width
	m.history.Height = height
	if !m.initialized {
		m.history.SetContent(m.renderHistory())
		m.history.GotoBottom()
		m.initialized = true
	}
}

// View renders the session.
func (m *CallerModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render(fmt.Sprintf("BINGO  %d of %d called", len(m.seq.Drawn()), m.seq.Total()))

	historyPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Render(m.history.View())

	boardPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Render(m.renderBoard())

	body := lipgloss.JoinHorizontal(lipgloss.Top, boardPane, historyPane)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderCall(), body, m.renderHelp())
}

// renderCall shows the latest call, or the end-of-game message.
func (m *CallerModel) renderCall() string {
	if m.done {
		return CallStyle.Render(SuccessStyle.Render(allDrawnMsg))
	}
	if m.current == nil {
		return CallStyle.Render(WarningStyle.Render("No values to draw"))
	}
	return CallStyle.Render(m.current.Format(m.showLabels))
}

// renderBoard lists called values per column label, or all together for an
// unlabeled pool.
func (m *CallerModel) renderBoard() string {
	drawn := m.seq.Drawn()
	labels := m.seq.Labels()
	if len(labels) == 0 || !m.showLabels {
		values := make([]string, 0, len(drawn))
		for _, c := range drawn {
			values = append(values, oneLine(c.Value))
		}
		return CalledStyle.Render(strings.Join(values, " "))
	}

	byLabel := make(map[string][]string, len(labels))
	for _, c := range drawn {
		byLabel[c.Label] = append(byLabel[c.Label], oneLine(c.Value))
	}

	rows := make([]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, LabelStyle.Render(label)+CalledStyle.Render(strings.Join(byLabel[label], " ")))
	}
	return strings.Join(rows, "\n")
}

func (m *CallerModel) renderHistory() string {
	drawn := m.seq.Drawn()
	lines := make([]string, 0, len(drawn))
	for _, c := range drawn {
		lines = append(lines, HistoryStyle.Render(oneLine(c.Format(m.showLabels))))
	}
	return strings.Join(lines, "\n")
}

func (m *CallerModel) renderHelp() string {
	if m.done {
		return InfoStyle.Render("↑↓ scroll history • q to quit")
	}
	return InfoStyle.Render("Enter/n to draw • ↑↓ scroll history • q to quit")
}

// oneLine folds multi-line values so the board stays aligned.
func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// RunCaller runs the full-screen caller until the operator quits or ctx is
// cancelled.
func RunCaller(ctx context.Context, seq *caller.Sequence, showLabels bool, logger *log.Logger) error {
	m := NewCallerModel(seq, showLabels, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("caller ui: %w", err)
	}
	return nil
}
