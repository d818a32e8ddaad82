package tui

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wikichat/internal/domain"
	"wikichat/internal/service"
)

// ChatPort is the TUI-facing subset of a chat session.
type ChatPort interface {
	Handle(ctx context.Context, utterance string) ([]domain.Entry, error)
	Mode() service.Mode
	Title() string
	Summary() string
}

// turnMsg carries the result of one turn back to the UI goroutine.
type turnMsg struct {
	transcript []domain.Entry
	mode       service.Mode
	title      string
	summary    string
	err        error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	session    ChatPort
	input      textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model
	transcript []domain.Entry
	title      string
	summary    string
	status     string
	busy       bool
	ready      bool
}

// New creates a new TUI model instance.
func New(session ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a topic and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{session: session, input: ti, viewport: vp, spinner: sp, status: service.Usage}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and input boxes
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, vh-th)
		m.refresh()
		return m, nil
	case turnMsg:
		m.busy = false
		m.transcript = msg.transcript
		m.title = msg.title
		m.summary = msg.summary
		m.refresh()
		switch {
		case errors.Is(msg.err, domain.ErrSessionEnded), msg.mode == service.ModeEnded && msg.err == nil:
			m.status = "Session ended."
			return m, tea.Quit
		case msg.err != nil:
			m.status = "Error: " + msg.err.Error()
			return m, tea.Quit
		case msg.mode == service.ModeChatting:
			m.input.Placeholder = `Ask a question, or type "more"`
			m.status = service.Usage
		}
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			m.status = "Thinking..."
			return m, tea.Batch(m.spinner.Tick, m.turn(q))
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// turn runs one utterance off the UI goroutine. The session is only touched
// here while busy is set, so it is never accessed concurrently.
func (m Model) turn(utterance string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		transcript, err := session.Handle(context.Background(), utterance)
		return turnMsg{
			transcript: transcript,
			mode:       session.Mode(),
			title:      session.Title(),
			summary:    session.Summary(),
			err:        err,
		}
	}
}

// View renders the TUI layout and current transcript.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	heading := "WikiChat"
	if m.title != "" {
		heading += " - " + m.title
	}
	header := lipgloss.NewStyle().Bold(true).Render(heading)
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		MaxWidth(m.viewport.Width).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	statusText := m.status
	if m.busy {
		statusText = m.spinner.View() + " " + statusText
	}
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(statusText)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.transcript, m.viewport.Width))
	m.viewport.GotoBottom()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	unicodeWordRe      = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe         = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// renderTranscript lays out the conversation. A "more" reply highlights the
// sentence that best answers the question it expands on.
func renderTranscript(entries []domain.Entry, width int) string {
	wrap := lipgloss.NewStyle().Width(max(10, width-12))
	lines := []string{botStyle.Render("ChatBot >>") + " " + wrap.Render(service.Greeting)}
	lastQuestion := ""
	for i, e := range entries {
		text := e.Text
		if e.Speaker == domain.SpeakerUser {
			lines = append(lines, userStyle.Render("User    >>")+" "+wrap.Render(text))
			continue
		}
		if i > 0 && entries[i-1].Speaker == domain.SpeakerUser {
			asked := strings.ToLower(strings.TrimSpace(entries[i-1].Text))
			if asked == "more" && lastQuestion != "" {
				text = highlightBestSentence(text, lastQuestion)
			} else if asked != "more" {
				lastQuestion = entries[i-1].Text
			}
		}
		lines = append(lines, botStyle.Render("ChatBot >>")+" "+wrap.Render(text))
	}
	return strings.Join(lines, "\n")
}

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
