package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qabot/internal/domain"
	"qabot/internal/history"
)

// Model is the Bubble Tea model of the chat window. The conversation log is
// owned here, not by the chatbot.
type Model struct {
	bot      domain.Answerer
	history  *history.Log
	input    textinput.Model
	viewport viewport.Model
	title    string
	status   string
	ready    bool
}

// New creates a chat model that sends every submitted line to bot.
func New(bot domain.Answerer, title string) Model {
	ti := textinput.New()
	ti.Prompt = "You: "
	ti.Placeholder = "Type your message and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		bot:      bot,
		history:  history.New(),
		input:    ti,
		viewport: vp,
		title:    title,
		status:   "Ready. Ctrl+C to quit.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, lh := logBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, spacer
		vh := msg.Height - reserved - lh
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.Type {
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyPgUp:
			m.viewport.HalfViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.HalfViewDown()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	raw := m.input.Value()
	if strings.TrimSpace(raw) == "" {
		m.status = "Please type something."
		return
	}
	match := m.bot.Match(raw)
	m.history.Exchange(raw, match.Answer)
	m.input.SetValue("")
	m.status = fmt.Sprintf("matched #%d  score=%.3f", match.Index, match.Score)
	if match.Fallback {
		m.status += "  (below threshold)"
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// Turns returns the conversation so far.
func (m Model) Turns() []domain.Turn { return m.history.Snapshot() }

// View renders the TUI layout and the conversation.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.title)
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.status)
	log := logBoxStyle.Render(m.viewport.View())
	return header + "\n" + log + "\n" + input + "\n" + status
}

func (m Model) renderHistory() string {
	turns := m.history.Snapshot()
	if len(turns) == 0 {
		return "No messages yet."
	}
	lines := make([]string, 0, len(turns))
	width := m.viewport.Width - 4
	for _, t := range turns {
		label := userStyle.Render("You:")
		if t.Speaker == domain.SpeakerBot {
			label = botStyle.Render("Bot:")
		}
		line := label + " " + t.Message
		if width > 0 {
			line = lipgloss.NewStyle().Width(width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

var (
	logBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
