package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"qabot/internal/domain"
)

type stubBot struct {
	queries []string
}

func (s *stubBot) Answer(text string) string { return s.Match(text).Answer }

func (s *stubBot) Match(text string) domain.Match {
	s.queries = append(s.queries, text)
	return domain.Match{Index: 1, Score: 0.5, Answer: "echo: " + text}
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitAppendsExchange(t *testing.T) {
	bot := &stubBot{}
	var m tea.Model = New(bot, "Chatbot")
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24}, typeText("Hello There"), tea.KeyMsg{Type: tea.KeyEnter})

	model := m.(Model)
	require.Equal(t, []string{"Hello There"}, bot.queries)
	require.Equal(t, []domain.Turn{
		{Speaker: domain.SpeakerUser, Message: "Hello There"},
		{Speaker: domain.SpeakerBot, Message: "echo: Hello There"},
	}, model.Turns())
	require.Empty(t, model.input.Value())
	require.Contains(t, model.View(), "echo: Hello There")
}

func TestBlankInputIsNotAQuery(t *testing.T) {
	bot := &stubBot{}
	var m tea.Model = New(bot, "Chatbot")
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24}, typeText("   "), tea.KeyMsg{Type: tea.KeyEnter})

	model := m.(Model)
	require.Empty(t, bot.queries)
	require.Empty(t, model.Turns())
	require.Contains(t, model.View(), "Please type something.")
}

func TestViewBeforeResize(t *testing.T) {
	require.Equal(t, "Loading...", New(&stubBot{}, "Chatbot").View())
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := New(&stubBot{}, "Chatbot").Update(tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		require.True(t, ok, "key %v", k)
	}
}

func TestHistoryKeepsOrder(t *testing.T) {
	bot := &stubBot{}
	var m tea.Model = New(bot, "Chatbot")
	m = send(m,
		tea.WindowSizeMsg{Width: 100, Height: 30},
		typeText("one"), tea.KeyMsg{Type: tea.KeyEnter},
		typeText("two"), tea.KeyMsg{Type: tea.KeyEnter},
	)
	view := m.(Model).renderHistory()
	require.Less(t, strings.Index(view, "echo: one"), strings.Index(view, "echo: two"))
}
