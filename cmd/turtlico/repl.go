package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/turtlico/turtlicoscript/tcs"
)

var (
	accentColor    = lipgloss.Color("#2E9E5B")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	stdout string
	output string
	isErr  bool
}

// session is the interpreter state shared by every line typed into the
// REPL. Script output goes to a buffer so it does not tear the screen.
type session struct {
	ctx      *tcs.Context
	cancel   *atomic.Bool
	stdout   *bytes.Buffer
	builtins map[string]struct{}
}

func newSession() *session {
	s := &session{cancel: new(atomic.Bool), stdout: new(bytes.Buffer)}
	s.ctx = tcs.NewContext(tcs.Config{
		Cancel: s.cancel,
		Stdout: s.stdout,
		Stdin:  strings.NewReader(""),
	})
	s.builtins = make(map[string]struct{})
	for _, name := range s.ctx.Globals().Names() {
		s.builtins[name] = struct{}{}
	}
	return s
}

// userNames lists the globals defined by typed code.
func (s *session) userNames() []string {
	var names []string
	for _, name := range s.ctx.Globals().Names() {
		if _, ok := s.builtins[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

type replModel struct {
	textInput   textinput.Model
	session     *session
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	running     bool
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

// evalDoneMsg reports a line evaluated in the background.
type evalDoneMsg struct {
	entry historyEntry
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "interrupt or quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "type an expression..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "tcs> "

	return replModel{
		textInput:  ti,
		session:    newSession(),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case evalDoneMsg:
		m.running = false
		m.session.cancel.Store(false)
		m.history = append(m.history, msg.entry)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC) && m.running:
			m.session.cancel.Store(true)
			return m, nil

		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case m.running:
			return m, nil

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			m.historyIdx = -1

			if strings.HasPrefix(input, ":") {
				return m.handleCommand(input)
			}

			m.cmdHistory = append(m.cmdHistory, input)
			m.running = true
			sess := m.session
			return m, func() tea.Msg {
				return evalDoneMsg{entry: sess.evaluate(input)}
			}
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.session = newSession()
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Environment reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

var replKeywords = []string{"if", "loop", "for", "while", "fn", "return", "break"}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	start := strings.LastIndexFunc(input, func(r rune) bool {
		return r != '$' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) + 1
	lastWord := input[start:]
	if lastWord == "" {
		return m
	}

	var completions []string
	if name, ok := strings.CutPrefix(lastWord, "$"); ok {
		for _, candidate := range m.session.userNames() {
			if strings.HasPrefix(candidate, name) {
				completions = append(completions, "$"+candidate)
			}
		}
	} else {
		for _, k := range replKeywords {
			if strings.HasPrefix(k, lastWord) {
				completions = append(completions, k)
			}
		}
		for _, name := range m.session.ctx.Globals().Names() {
			v, _ := m.session.ctx.Lookup(name)
			if v.Kind() == tcs.KindCallable && strings.HasPrefix(name, lastWord) {
				completions = append(completions, name)
			}
		}
	}

	if len(completions) == 1 {
		m.textInput.SetValue(input[:start] + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// evaluate runs one line against the session. Definitions and assignments
// stay visible to later lines.
func (s *session) evaluate(input string) historyEntry {
	entry := historyEntry{input: input}
	root, errs := tcs.Parse(input)
	if len(errs) > 0 {
		entry.output = ansi.Strip(tcs.BuildMessages(errs, input))
		entry.isErr = true
		return entry
	}

	s.stdout.Reset()
	result, err := s.ctx.EvalRoot(root)
	entry.stdout = strings.TrimRight(s.stdout.String(), "\n")
	if err != nil {
		var spanned *tcs.Error
		switch {
		case tcs.IsInterrupted(err):
			entry.output = "Interrupted"
		case errors.As(err, &spanned):
			entry.output = ansi.Strip(spanned.BuildMessage(input))
		default:
			entry.output = err.Error()
		}
		entry.isErr = true
		return entry
	}
	entry.output = result.String()
	return entry
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("TurtlicoScript REPL")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 10
	}
	showVars := m.showVars && !m.running
	if showVars {
		reservedLines += len(m.session.userNames()) + 3
	}
	availableHeight := max(m.height-reservedLines, 1)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.stdout != "" {
			for _, line := range strings.Split(entry.stdout, "\n") {
				b.WriteString("    " + line + "\n")
			}
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if showVars {
		b.WriteString(renderVarsPanel(m.session))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	if m.running {
		b.WriteString(mutedStyle.Render("running... (ctrl+c to interrupt)") + "\n\n")
	} else {
		b.WriteString(m.textInput.View() + "\n\n")
	}

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(s *session) string {
	names := s.userNames()
	if len(names) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		val, _ := s.ctx.Lookup(name)
		label := name
		if val.Kind() != tcs.KindCallable {
			label = "$" + name
		}
		line := fmt.Sprintf("  %s = %s", varNameStyle.Render(label), val.String())
		lines = append(lines, line)
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate command history"},
		{"Tab", "Autocomplete"},
		{"Enter", "Execute expression"},
		{"Ctrl+C", "Interrupt a running line"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":clear", "Clear history"},
		{":reset", "Reset environment"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("turtlico repl: standard input is not a terminal")
	}
	p := tea.NewProgram(newREPLModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
