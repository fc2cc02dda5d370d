// Package tui provides a Bubble Tea terminal UI for deckcore games.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/deckcore/console"
	"github.com/nathoo/deckcore/driver"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the deckcore TUI.
type Model struct {
	session *driver.Session
	meta    *console.Meta
	title   string

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	thinking bool // an automated seat is moving
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for engine output)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// aiStepMsg asks the model to apply one automated intent.
type aiStepMsg struct{}

// New creates a TUI model for sess. title heads the log.
func New(sess *driver.Session, title, saveDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: sess,
		meta:    &console.Meta{Session: sess, SaveDir: saveDir},
		title:   title,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(sess *driver.Session, title, saveDir string) error {
	m := New(sess, title, saveDir)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init shows the title and the opening log, then lets an automated seat
// move if it goes first.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	lines := append([]string(nil), m.session.State.Log...)
	if m.title != "" {
		lines = append([]string{m.title, ""}, lines...)
	}
	return func() tea.Msg {
		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
		cmds = append(cmds, m.scheduleAI())

	case aiStepMsg:
		return m.stepAI()
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// scheduleAI returns the command that triggers the next automated step, or
// nil when a human has to act. One step is in flight at a time.
func (m *Model) scheduleAI() tea.Cmd {
	if m.thinking || !m.session.Automated() {
		return nil
	}
	m.thinking = true
	if m.session.Delay <= 0 {
		return func() tea.Msg { return aiStepMsg{} }
	}
	return tea.Tick(m.session.Delay, func(time.Time) tea.Msg { return aiStepMsg{} })
}

// stepAI applies one automated intent. The session is only touched from
// Update, so there is never a second writer.
func (m Model) stepAI() (tea.Model, tea.Cmd) {
	m.thinking = false
	out, ok := m.session.StepAutomated()
	var lines []string
	if ok {
		lines = out.Lines
		if m.meta.Trace {
			lines = append(lines, console.TraceLines(out)...)
		}
	} else if out.Err != nil {
		lines = []string{"[" + out.Err.Error() + "]"}
	}
	if len(lines) > 0 {
		m = m.appendOutput(gameOutputMsg{lines: lines})
	}
	if !ok {
		return m, nil
	}
	cmd := m.scheduleAI()
	return m, cmd
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	// "again" repeats the last game command.
	if strings.EqualFold(input, "again") {
		last, ok := m.history.LastMove()
		if !ok {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = last
	}
	m.history.Push(input)

	if console.IsMeta(input) {
		output, quit := m.meta.Handle(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		cmd := m.scheduleAI()
		return m, cmd
	}

	out := m.session.Step(input)
	output := out.Lines
	switch {
	case out.Err != nil:
		output = append(output, "["+out.Err.Error()+"]")
	case !out.Applied:
		output = append(output, "[Nothing to do.]")
	case m.meta.Trace:
		output = append(output, console.TraceLines(out)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	cmd := m.scheduleAI()
	return m, cmd
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width,
// sizes the viewport around the hand panel and scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)

	panel := lipgloss.Height(strings.Join(m.renderHandPanel(), "\n"))
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-2-panel, 1) // status bar + input line

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks each line of text at spaces so no line is wider than
// width cells. A single word wider than width is left whole.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) <= width {
			continue
		}
		var out []string
		cur := ""
		for _, word := range strings.Fields(line) {
			switch {
			case cur == "":
				cur = word
			case lipgloss.Width(cur)+1+lipgloss.Width(word) > width:
				out = append(out, cur)
				cur = word
			default:
				cur += " " + word
			}
		}
		lines[i] = strings.Join(append(out, cur), "\n")
	}
	return strings.Join(lines, "\n")
}

// View renders the full TUI layout: log, hand panel, status bar and input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" +
		strings.Join(m.renderHandPanel(), "\n") + "\n" +
		m.renderStatusBar() + "\n" +
		m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
