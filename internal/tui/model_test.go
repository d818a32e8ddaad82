package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikichat/internal/domain"
	"wikichat/internal/service"
)

type scriptedSession struct {
	mode       service.Mode
	transcript []domain.Entry
	utterances []string
}

func (s *scriptedSession) Handle(_ context.Context, utterance string) ([]domain.Entry, error) {
	s.utterances = append(s.utterances, utterance)
	reply := "reply to " + utterance
	if utterance == "bye" {
		s.mode = service.ModeEnded
		reply = service.FarewellReply
	} else {
		s.mode = service.ModeChatting
	}
	s.transcript = append(s.transcript,
		domain.Entry{Speaker: domain.SpeakerUser, Text: utterance},
		domain.Entry{Speaker: domain.SpeakerChatBot, Text: reply})
	return s.transcript, nil
}

func (s *scriptedSession) Mode() service.Mode { return s.mode }
func (s *scriptedSession) Title() string      { return "Go" }
func (s *scriptedSession) Summary() string    { return "Go is a language." }

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func TestTurnRoundTrip(t *testing.T) {
	sess := &scriptedSession{}
	m := sized(t, New(sess))
	assert.Contains(t, m.View(), service.Greeting)

	msg := m.turn("Go")()
	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"Go"}, sess.utterances)
	assert.Equal(t, "Go", m.title)
	view := m.View()
	assert.Contains(t, view, "WikiChat - Go")
	assert.Contains(t, view, "reply to Go")
}

func TestEnterIgnoredWhileBusy(t *testing.T) {
	m := sized(t, New(&scriptedSession{}))
	m.busy = true
	m.input.SetValue("hello")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "hello", next.(Model).input.Value())
}

func TestEnterStartsTurn(t *testing.T) {
	m := sized(t, New(&scriptedSession{}))
	m.input.SetValue("  Go  ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Equal(t, "", m.input.Value())
	assert.Contains(t, m.View(), "Thinking...")
}

func TestEndedSessionQuits(t *testing.T) {
	sess := &scriptedSession{}
	m := sized(t, New(sess))
	next, cmd := m.Update(m.turn("bye")())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, "Session ended.", next.(Model).status)
}

func TestRenderTranscriptHighlightsMore(t *testing.T) {
	entries := []domain.Entry{
		{Speaker: domain.SpeakerUser, Text: "When was Go released?"},
		{Speaker: domain.SpeakerChatBot, Text: "Go was released in 2009."},
		{Speaker: domain.SpeakerUser, Text: "more"},
		{Speaker: domain.SpeakerChatBot, Text: "Go is compiled. Go was released in 2009. It is popular."},
	}
	out := renderTranscript(entries, 200)
	assert.Contains(t, out, "User    >> When was Go released?")
	assert.Contains(t, out, "Go was released in 2009.")
	assert.Contains(t, out, "It is popular.")
}

func TestHighlightBestSentence(t *testing.T) {
	assert.Equal(t, "", highlightBestSentence("", "x"))
	assert.Equal(t, "One. Two.", highlightBestSentence("One. Two.", ""))
	got := highlightBestSentence("Cats purr. Dogs bark.", "why do dogs bark")
	assert.Contains(t, got, "Dogs bark.")
	assert.Contains(t, got, "Cats purr.")
}
