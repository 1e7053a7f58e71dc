package console

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/ui/splitpanel"
	"github.com/footprint-tools/switchboard/internal/ui/style"
)

const (
	maxScrollback = 1000
	maxHistory    = 100
	rosterEvery   = time.Second
)

// Messages

type deliveredMsg struct {
	text  string
	color domain.Color
}

type executedMsg struct{}

type rosterMsg []string

type keyMap struct {
	Submit  key.Binding
	Quit    key.Binding
	Prev    key.Binding
	Next    key.Binding
	PageUp  key.Binding
	PageDown key.Binding
}

var keys = keyMap{
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "run")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("Ctrl+C", "quit")),
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "scroll up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "scroll down")),
}

// model is the Bubble Tea model of the operator console: a scrollback
// viewport above a single input line.
type model struct {
	run      func(line string)
	complete func(string) []string
	roster   func() []string
	styler   domain.Styler

	viewport viewport.Model
	input    textinput.Model
	ready    bool
	layout   *splitpanel.Layout
	online   []string

	lines   []string
	history []string
	histPos int // len(history) when not browsing
	pending int // commands still running
}

func newModel(run func(line string), styler domain.Styler) model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "type a command, /help for a list"
	in.CharLimit = 512
	in.Focus()

	return model{
		run:      run,
		styler:   styler,
		viewport: viewport.New(80, 20),
		input:    in,
	}
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	if m.roster == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.pollRoster(0))
}

func (m model) pollRoster(after time.Duration) tea.Cmd {
	roster := m.roster
	return tea.Tick(after, func(time.Time) tea.Msg {
		return rosterMsg(roster())
	})
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		if m.roster != nil {
			l := splitpanel.NewLayout(msg.Width, msg.Height-1, splitpanel.DefaultConfig, style.GetColors())
			m.layout = &l
			m.viewport.Width = l.MainContentWidth()
			m.viewport.Height = l.VisibleHeight()
		}
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
		m.ready = true
		m.refresh()
		return m, nil

	case deliveredMsg:
		m.appendLine(m.styler.Paint(msg.color, msg.text))
		return m, nil

	case executedMsg:
		if m.pending > 0 {
			m.pending--
		}
		return m, nil

	case rosterMsg:
		m.online = msg
		return m, m.pollRoster(rosterEvery)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggest()
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Submit):
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		if isQuit(line) {
			return m, tea.Quit
		}
		m.remember(line)
		m.appendLine(m.styler.Muted("> " + line))
		m.pending++
		run := m.run
		return m, func() tea.Msg {
			run(line)
			return executedMsg{}
		}

	case key.Matches(msg, keys.Prev):
		if m.histPos > 0 {
			m.histPos--
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, keys.Next):
		if m.histPos < len(m.history) {
			m.histPos++
		}
		if m.histPos == len(m.history) {
			m.input.Reset()
		} else {
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggest()
	return m, cmd
}

// suggest refreshes the input's completions for its current value.
func (m *model) suggest() {
	if m.complete == nil {
		return
	}
	m.input.SetSuggestions(m.complete(m.input.Value()))
}

func (m *model) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	}
	m.histPos = len(m.history)
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if over := len(m.lines) - maxScrollback; over > 0 {
		m.lines = m.lines[over:]
	}
	m.refresh()
}

// refresh re-renders the scrollback and follows the bottom when the view
// was already there.
func (m *model) refresh() {
	follow := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if follow || !m.ready {
		m.viewport.GotoBottom()
	}
}

// View implements tea.Model
func (m model) View() string {
	if m.layout == nil {
		return m.viewport.View() + "\n" + m.input.View()
	}
	scrollback := splitpanel.Panel{
		Lines:      strings.Split(m.viewport.View(), "\n"),
		ScrollPos:  m.viewport.YOffset,
		TotalItems: m.viewport.TotalLineCount(),
	}
	roster := splitpanel.Panel{Title: "Online", Lines: m.online}
	return m.layout.Render(scrollback, roster) + "\n" + m.input.View()
}

// RunUI runs the interactive console until the operator quits or ctx is
// done.
func (c *Console) RunUI(ctx context.Context) error {
	m := newModel(func(line string) { c.execute(ctx, line) }, c.styler)
	m.complete = c.complete
	m.roster = c.roster
	m.input.ShowSuggestions = c.complete != nil
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	c.caller.attach(func(text string, color domain.Color) {
		p.Send(deliveredMsg{text: c.stamp(text), color: color})
	})
	defer c.caller.attach(nil)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
