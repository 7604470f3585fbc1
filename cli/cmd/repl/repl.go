// Package repl implements an interactive strux session.
//
// Each submitted input is evaluated in one [lang.Session], so constants
// defined by earlier inputs stay available. Input that ends inside an
// unfinished form continues on the next line.
package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/strux/encode"
	"github.com/ardnew/strux/lang"
	"github.com/ardnew/strux/log"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
)

// formatSource prints results as canonical source.
const formatSource = "strux"

// formats are the result formats selectable with :format.
var formats = []string{formatSource, "yaml", "json", "xml"}

func helpMessage() string {
	return `
Commands:

  :help            Print this cruft
  :consts          List defined constants
  :format [name]   Show or set the result format (` + strings.Join(formats, ", ") + `)
  :reset           Forget all constants
  :clear           Clear screen
  :quit            Exit REPL

Usage:
  Type a value to print it, or "set name = value" to define a constant
  Unfinished input continues on the next line
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down arrows for history navigation
  Press Ctrl+C to discard input, Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config configures [Run].
type Config struct {
	CacheDir string     // History is kept here; empty disables persistence
	Logger   log.Logger // Receives trace output of the session
	Preload  string     // Source evaluated before the first prompt
	Format   string     // Initial result format; see :format
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Session
	logger       log.Logger
	history      *History
	historyIdx   int
	pending      []string      // lines of an unfinished input
	format       string        // result format
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts the REPL and blocks until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := cfg.Logger

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Bool("preload", cfg.Preload != ""),
	)

	session := lang.NewSession(lang.WithLogger(logger))

	if strings.TrimSpace(cfg.Preload) != "" {
		if _, err := session.Eval(ctx, cfg.Preload); err != nil {
			return err
		}
	}

	if cfg.Format == "" {
		cfg.Format = formatSource
	}

	if !slices.Contains(formats, cfg.Format) {
		return ErrUnknownFormat.With(slog.String("format", cfg.Format))
	}

	var historyPath string
	if cfg.CacheDir != "" {
		historyPath = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, session, history, logger, cfg.Format)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *lang.Session,
	history *History,
	logger log.Logger,
	format string,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		format:     format,
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case len(m.pending) > 0:
		b.WriteString(hintStyle.Render("Input continues; Ctrl+C discards it"))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render("Type a value, or :help for commands"))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending = nil
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current tab candidate without executing.
			m.tabActive = false
			refreshMatches(&m)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

// cycle moves the tab selection by step and writes the selected candidate
// into the input. A single candidate is accepted immediately.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
func refreshMatches(m *model) {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

func (m model) historyMove(step int) model {
	idx := m.historyIdx + step
	if idx < 0 || idx > m.history.Len() {
		return m
	}

	m.historyIdx = idx
	m.tabActive = false

	line, err := m.history.Entry(idx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	refreshMatches(&m)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if len(m.pending) == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return m, nil
		}

		if strings.HasPrefix(trimmed, ":") {
			_ = m.history.Add(trimmed)
			m.historyIdx = m.history.Len()

			return m.executeCommand(trimmed)
		}
	}

	_ = m.history.Add(line)
	m.historyIdx = m.history.Len()

	echo := tea.Println(promptStyle.Render(m.prompt()) + inputStyle.Render(line))

	m.pending = append(m.pending, line)
	src := strings.Join(m.pending, "\n")

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.Int("lines", len(m.pending)),
	)

	val, err := m.session.Eval(m.ctxFunc(), src)
	if errors.Is(err, lang.ErrUnexpectedEOF) {
		m.input.Prompt = promptStyle.Render(contPrompt)

		return m, echo
	}

	m.pending = nil
	m.input.Prompt = promptStyle.Render(evalPrompt)

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if val == nil {
		return m, echo
	}

	out, err := render(val, m.format)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// prompt returns the prompt of the line being entered.
func (m model) prompt() string {
	if len(m.pending) > 0 {
		return contPrompt
	}

	return evalPrompt
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd, args := parts[0], parts[1:]

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case ":q", ":quit", ":exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case ":h", ":help":
		return m, tea.Sequence(echo, tea.Println(hintStyle.Render(helpMessage())))

	case ":consts":
		return m, tea.Sequence(echo, tea.Println(m.listConstants()))

	case ":format":
		if len(args) == 0 {
			return m, tea.Sequence(echo, tea.Println(hintStyle.Render("format: "+m.format)))
		}

		if !slices.Contains(formats, args[0]) {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(
				"unknown format "+strconv.Quote(args[0])+" (one of "+strings.Join(formats, ", ")+")",
			)))
		}

		m.format = args[0]

		return m, echo

	case ":reset":
		m.session.Reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("constants cleared")))

	case ":c", ":clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+cmd+" (try :help)"),
		))
	}
}

// listConstants renders every defined constant on its own line.
func (m model) listConstants() string {
	var lines []string

	for name, val := range m.session.Constants() {
		text, err := lang.FormatString(val, 0)
		if err != nil {
			text = errorStyle.Render(err.Error())
		}

		lines = append(lines, suggestionStyle.Render("|"+name+"|")+" = "+resultStyle.Render(text))
	}

	if len(lines) == 0 {
		return hintStyle.Render("no constants defined")
	}

	return strings.Join(lines, "\n")
}

// render formats v for display in the named format.
func render(v *lang.Value, format string) (string, error) {
	if format == formatSource {
		out, err := lang.FormatString(v, 2)

		return strings.TrimSuffix(out, "\n"), err
	}

	f, err := encode.ParseFormat(format)
	if err != nil {
		return "", err
	}

	opts := encode.DefaultOptions()
	opts.Format = f

	out, err := encode.Marshal(v, opts)

	return strings.TrimSuffix(string(out), "\n"), err
}
