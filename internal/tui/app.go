package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newstalk/internal/chat"
	"github.com/matheuskafuri/newstalk/internal/session"
)

const marqueeInterval = 400 * time.Millisecond

type App struct {
	pipe    *chat.Pipeline
	store   *session.Store
	marquee []string

	width  int
	height int

	input   textinput.Model
	spinner spinner.Model

	busy          bool
	marqueeOffset int
	currentDate   string
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Pipeline *chat.Pipeline
	Store    *session.Store
	Keywords []string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "topic, follow-up, +merge, ~general..."
	ti.Prompt = promptStyle.Render("> ")
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	return &App{
		pipe:        opts.Pipeline,
		store:       opts.Store,
		marquee:     opts.Keywords,
		input:       ti,
		spinner:     sp,
		currentDate: time.Now().Format("Jan 2"),
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if len(a.marquee) > 0 {
		cmds = append(cmds, marqueeTick())
	}
	return tea.Batch(cmds...)
}

func marqueeTick() tea.Cmd {
	return tea.Tick(marqueeInterval, func(time.Time) tea.Msg {
		return marqueeTickMsg{}
	})
}

// runQuery captures the submission into the closure; the pipeline itself
// enforces one-at-a-time execution.
func (a *App) runQuery(input string, forceNew bool) tea.Cmd {
	pipe := a.pipe
	return func() tea.Msg {
		msg, err := pipe.Run(context.Background(), input, forceNew)
		if err != nil {
			// Busy and empty-query rejections are silent no-ops.
			return queryDoneMsg{}
		}
		return queryDoneMsg{msg: msg, ok: true}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case queryDoneMsg:
		a.busy = false
		return a, nil

	case marqueeTickMsg:
		a.marqueeOffset++
		return a, marqueeTick()

	case spinner.TickMsg:
		if a.busy {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "enter":
		return a.submit(false)
	case "ctrl+n":
		// Force a new topic even when a summary exists.
		return a.submit(true)
	case "ctrl+r":
		if a.busy {
			return a, nil
		}
		root := a.store.Snapshot().RootTopic
		if root == "" {
			return a, nil
		}
		a.busy = true
		return a, tea.Batch(a.runQuery(root, true), a.spinner.Tick)
	case "ctrl+x":
		if !a.busy {
			a.store.Reset()
			a.input.SetValue("")
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submit(forceNew bool) (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return a, nil
	}
	a.input.SetValue("")
	a.busy = true
	return a, tea.Batch(a.runQuery(text, forceNew), a.spinner.Tick)
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newstalk")
	}

	snap := a.store.Snapshot()

	// Header
	headerLeft := headerStyle.Render("newstalk")
	if snap.RootTopic != "" {
		headerLeft += " " + headerTopicStyle.Render(snap.RootTopic)
	}
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	marquee := renderMarquee(a.marquee, a.marqueeOffset, a.width-2)

	// Transcript fills the space between header/marquee and prompt/status.
	transcriptHeight := a.height - 5
	if marquee == "" {
		transcriptHeight++
	}
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	var transcript string
	if len(snap.Messages) == 0 && !a.busy {
		transcript = answerStyle.Render("  Type a topic to get a briefing. Prefix with ~ for a general question.")
	} else {
		transcript = renderTranscript(snap.Messages, a.width-2, transcriptHeight)
	}

	lines := strings.Split(transcript, "\n")
	for len(lines) < transcriptHeight {
		lines = append(lines, "")
	}
	transcript = strings.Join(lines, "\n")

	prompt := a.input.View()
	if a.busy {
		prompt = a.spinner.View() + " thinking..."
	}

	status := a.renderStatus()

	sections := []string{header}
	if marquee != "" {
		sections = append(sections, marquee)
	}
	sections = append(sections, transcript, prompt, status)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderStatus() string {
	left := ""
	if a.busy {
		left = " working..."
	}
	right := " enter ask  ctrl+n new topic  ctrl+r refresh  ctrl+x reset  ctrl+c quit "

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(a.width).Render(left + fmt.Sprintf("%*s", gap, "") + right)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
