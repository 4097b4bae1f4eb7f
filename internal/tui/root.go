package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/raygun/raygun-tui/internal/board"
	"github.com/raygun/raygun-tui/internal/breathing"
	"github.com/raygun/raygun-tui/internal/model"
)

// Experiment is the flow the TUI drives
type Experiment interface {
	Advance() error
	SelectFrame(choice model.FrameChoice) error
	SelectBranch(choice model.Branch) error
	SelectReflection(choice model.Reflection) error
	Reset()
	Session() model.Session
	Breathing() breathing.Run
}

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeMain ViewMode = iota
	ViewModeHelp
)

// Message types
type boardChangedMsg struct{}

type tickMsg time.Time

// Options configures the root model
type Options struct {
	Experiment    Experiment
	Board         *board.Board
	ReducedMotion bool
	Log           LineSource // Feeds the debug panel
	Debug         bool       // Start with the debug panel open
	Logger        *zap.Logger
}

// Model is the root Bubble Tea model
type Model struct {
	// Terminal dimensions
	width  int
	height int

	// View state
	viewMode ViewMode
	ready    bool

	// Experiment and the board it draws on
	exp     Experiment
	board   *board.Board
	snap    board.Snapshot
	current model.State

	// Text inputs, one per captured field
	inputs map[model.Field]textinput.Model

	// Option cursor on choice screens
	cursor int

	reducedMotion bool

	// Key bindings
	keys KeyMap

	debug  DebugPanel
	logger *zap.Logger
}

// NewRootModel creates a new root model
func NewRootModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	inputs := make(map[model.Field]textinput.Model)
	for _, sc := range screens {
		if sc.Field == "" {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = sc.Placeholder
		ti.Prompt = "❯ "
		ti.PromptStyle = InputPromptStyle
		ti.CharLimit = 280
		ti.Width = 60 // Default width, will be updated on WindowSizeMsg
		inputs[sc.Field] = ti
	}

	m := Model{
		viewMode:      ViewModeMain,
		exp:           opts.Experiment,
		board:         opts.Board,
		inputs:        inputs,
		reducedMotion: opts.ReducedMotion,
		keys:          DefaultKeyMap(),
		debug:         NewDebugPanel(opts.Log, opts.Debug),
		logger:        opts.Logger.Named("tui"),
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForChange(m.board.Changes()),
		tickCmd(),
	)
}

// tickCmd returns a tick command for refreshing the debug panel and status bar
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the board signals an update.
// Timer callbacks change the board from other goroutines, so the model
// learns about them here instead of through Program.Send.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if changes == nil {
			return nil
		}
		<-changes
		return boardChangedMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		inputWidth := m.cardWidth() - 14 // Card padding, input border and prompt
		if inputWidth < 10 {
			inputWidth = 10
		}
		for f, ti := range m.inputs {
			ti.Width = inputWidth
			m.inputs[f] = ti
		}
		m.debug.SetSize(m.width, m.debugHeight())

	case boardChangedMsg:
		m.refresh()
		cmds = append(cmds, waitForChange(m.board.Changes()))

	case tickMsg:
		m.debug.Refresh()
		cmds = append(cmds, tickCmd())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes a key press for the current view and screen
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Ctrl+C always quits, regardless of state
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}

	if m.viewMode == ViewModeHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.viewMode = ViewModeMain
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Debug):
		m.debug.Toggle()
		m.debug.SetSize(m.width, m.debugHeight())
		return nil
	case key.Matches(msg, m.keys.Reset):
		m.logger.Info("reset requested")
		m.exp.Reset()
		m.refresh()
		return nil
	case key.Matches(msg, m.keys.PageUp) && m.debug.IsVisible():
		m.debug.ScrollUp()
		return nil
	case key.Matches(msg, m.keys.PageDown) && m.debug.IsVisible():
		m.debug.ScrollDown()
		return nil
	case key.Matches(msg, m.keys.Escape):
		m.board.DismissPrompt()
		m.refresh()
		return nil
	}

	sc, _ := screenFor(m.current)

	// Text entry screens
	if sc.Field != "" {
		if key.Matches(msg, m.keys.Enter) {
			m.advance()
			return nil
		}
		ti := m.inputs[sc.Field]
		var cmd tea.Cmd
		ti, cmd = ti.Update(msg)
		m.inputs[sc.Field] = ti
		m.board.SetInputValue(sc.Field, ti.Value())
		return cmd
	}

	// Choice screens
	if len(sc.Options) > 0 {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(sc.Options)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Enter):
			m.choose(sc.Options[m.cursor].Value)
		case key.Matches(msg, m.keys.Help):
			m.viewMode = ViewModeHelp
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.viewMode = ViewModeHelp
	case key.Matches(msg, m.keys.Enter):
		// The interrupt screen moves on when the breathing guide finishes
		if m.current == model.StateInterrupt || m.current.Terminal() {
			return nil
		}
		m.advance()
	}
	return nil
}

func (m *Model) advance() {
	if err := m.exp.Advance(); err != nil {
		m.logger.Debug("advance rejected", zap.String("state", string(m.current)), zap.Error(err))
	}
	m.refresh()
}

func (m *Model) choose(value string) {
	var err error
	switch m.current {
	case model.StateFrame:
		err = m.exp.SelectFrame(model.FrameChoice(value))
	case model.StateReframe:
		err = m.exp.SelectBranch(model.Branch(value))
	case model.StateReflection:
		err = m.exp.SelectReflection(model.Reflection(value))
	}
	if err != nil {
		m.logger.Debug("choice rejected", zap.String("value", value), zap.Error(err))
	}
	m.refresh()
}

// refresh pulls the latest board snapshot into the model
func (m *Model) refresh() {
	if m.board == nil {
		return
	}
	m.snap = m.board.Snapshot()

	// Mid-transition the board can briefly show no screen; keep the last one
	if cur := m.snap.Current(); cur != "" && cur != m.current {
		m.current = cur
		m.cursor = 0
	}

	sc, _ := screenFor(m.current)
	for f, ti := range m.inputs {
		if v := m.snap.Inputs[f]; v != ti.Value() {
			ti.SetValue(v)
			ti.CursorEnd()
		}
		if f == sc.Field {
			ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[f] = ti
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.viewMode == ViewModeHelp {
		return m.helpView()
	}
	return m.mainView()
}

// mainView renders the current screen with header, status bar and debug panel
func (m Model) mainView() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()

	debug := m.debug.Render()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar) - lipgloss.Height(debug)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	body := lipgloss.Place(
		m.width,
		bodyHeight,
		lipgloss.Center,
		lipgloss.Center,
		m.renderScreen(),
	)

	parts := []string{header, body}
	if debug != "" {
		parts = append(parts, debug)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the header bar
func (m Model) renderHeader() string {
	title := HeaderStyle.Render("RAYGUN")

	subtitle := lipgloss.NewStyle().
		Foreground(ColorFgMuted).
		Render("  A ten-minute experiment")

	return lipgloss.NewStyle().
		PaddingLeft(1).
		Width(m.width).
		Render(title+subtitle) + "\n"
}

func (m Model) cardWidth() int {
	w := m.width - 8
	if w > 76 {
		w = 76
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) debugHeight() int {
	return m.height / 3
}

// renderScreen renders the card for the current state
func (m Model) renderScreen() string {
	sc, ok := screenFor(m.current)
	if !ok {
		return ScreenStyle.Render(DimStyle.Render("Nothing to show."))
	}

	inner := m.cardWidth() - 8
	var b strings.Builder
	b.WriteString(ScreenTitleStyle.Render(sc.Title))
	b.WriteString("\n")
	b.WriteString(ScreenBodyStyle.Width(inner).Render(sc.Body))

	switch {
	case sc.Field != "":
		b.WriteString("\n")
		b.WriteString(InputStyle.Render(m.inputs[sc.Field].View()))
	case len(sc.Options) > 0:
		b.WriteString("\n\n")
		b.WriteString(m.renderOptions(sc.Options))
	case m.current == model.StateInterrupt:
		b.WriteString("\n\n")
		b.WriteString(m.renderBreathing(inner))
	case m.current == model.StateCelebration:
		b.WriteString("\n\n")
		b.WriteString(m.renderSummary(inner))
	}

	if m.current == model.StateFrame && m.snap.FrameFeedback != "" {
		b.WriteString("\n")
		b.WriteString(FeedbackStyle.Width(inner).Render(frameFeedback(m.snap.FrameFeedback)))
	}

	if m.snap.Prompt != "" {
		b.WriteString("\n")
		b.WriteString(PromptStyle.Width(inner).Render(m.snap.Prompt))
	}

	if sc.Hint != "" {
		b.WriteString("\n")
		b.WriteString(ScreenHintStyle.Render(sc.Hint))
	}

	return ScreenStyle.Width(m.cardWidth()).Render(b.String())
}

// renderOptions renders a choice list with the cursor and any recorded choice
func (m Model) renderOptions(opts []Option) string {
	chosen := ""
	if m.current == model.StateFrame {
		chosen = string(m.snap.FrameFeedback)
	}

	var lines []string
	for i, opt := range opts {
		var line string
		switch {
		case i == m.cursor:
			line = OptionSelectedStyle.Render("▸ " + opt.Label)
		case opt.Value == chosen:
			line = OptionChosenStyle.Render("✓ " + opt.Label)
		default:
			line = OptionStyle.Render("  " + opt.Label)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// frameFeedback acknowledges the chosen frame before the flow moves on
func frameFeedback(choice model.FrameChoice) string {
	return fmt.Sprintf("Noticed: %q. That's a heavy way to hold a task. Let's interrupt it.", choice.Label())
}

// circleSize returns the circle's inner width and height for a phase tag
func circleSize(tag string) (int, int) {
	switch tag {
	case "inhale", "hold":
		return 21, 7
	case "exhale", "pause":
		return 7, 1
	default:
		return 13, 3
	}
}

// renderBreathing draws the circle for the current phase and the instruction under it
func (m Model) renderBreathing(width int) string {
	instruction := m.snap.Instruction
	if instruction == "" {
		instruction = "Get comfortable..."
	}

	if m.reducedMotion {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, InstructionStyle.Render(instruction))
	}

	w, h := circleSize(m.snap.PhaseTag)
	color, ok := circleColors[m.snap.PhaseTag]
	if !ok {
		color = ColorBorder
	}
	circle := CircleStyle.
		Width(w).
		Height(h).
		BorderForeground(color).
		Render("")

	// Fixed frame so the layout does not jump between phases
	maxW, maxH := circleSize("inhale")
	framed := lipgloss.Place(maxW+2, maxH+2, lipgloss.Center, lipgloss.Center, circle)

	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, framed),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, InstructionStyle.Render(instruction)),
	)
}

// renderSummary plays back the visitor's answers on the celebration screen
func (m Model) renderSummary(width int) string {
	sum := m.exp.Session().Summarize()
	if m.snap.Summary != nil {
		sum = *m.snap.Summary
	}

	rows := []struct {
		label string
		value string
	}{
		{"The grind", sum.Grind},
		{"Your frame", sum.Frame},
		{"Constraint", sum.Constraint},
		{"Experiment", sum.Experiment},
	}

	valueWidth := width - SummaryLabelStyle.GetWidth()
	if valueWidth < 10 {
		valueWidth = 10
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			SummaryLabelStyle.Render(r.label),
			SummaryValueStyle.Width(valueWidth).Render(r.value),
		))
	}
	return strings.Join(lines, "\n")
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	mutedStyle := lipgloss.NewStyle().Foreground(ColorFgMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorFgPrimary)

	var status string
	switch run := m.exp.Breathing(); {
	case m.current.Terminal():
		status = StatusDoneStyle.Render(m.current.Icon() + " " + string(m.current))
	case m.current == model.StateInterrupt && run.Running:
		status = StatusRunningStyle.Render(fmt.Sprintf("● Breathing · cycle %d · %s", run.Cycle+1, run.Phase))
	default:
		status = StatusIdleStyle.Render(m.current.Icon() + " " + string(m.current))
	}

	var helpHint string
	sc, _ := screenFor(m.current)
	switch {
	case sc.Field != "":
		helpHint = mutedStyle.Render(" │ ") +
			keyStyle.Render("Enter") + mutedStyle.Render(" continue │ ") +
			keyStyle.Render("Ctrl+R") + mutedStyle.Render(" start over │ ") +
			keyStyle.Render("Ctrl+C") + mutedStyle.Render(" quit")
	case len(sc.Options) > 0:
		helpHint = mutedStyle.Render(" │ ") +
			keyStyle.Render("↑/↓") + mutedStyle.Render(" move │ ") +
			keyStyle.Render("Enter") + mutedStyle.Render(" choose │ ") +
			keyStyle.Render("?") + mutedStyle.Render(" help │ ") +
			keyStyle.Render("Ctrl+C") + mutedStyle.Render(" quit")
	default:
		helpHint = mutedStyle.Render(" │ ") +
			keyStyle.Render("Enter") + mutedStyle.Render(" continue │ ") +
			keyStyle.Render("?") + mutedStyle.Render(" help │ ") +
			keyStyle.Render("Ctrl+C") + mutedStyle.Render(" quit")
	}

	return StatusBarStyle.Render(status + helpHint)
}

// helpView renders the help overlay
func (m Model) helpView() string {
	title := HelpTitleStyle.Render("Keyboard Shortcuts")

	help := `
` + HelpKeyStyle.Render("Enter") + HelpDescStyle.Render("    Continue / choose") + `
` + HelpKeyStyle.Render("↑/↓") + HelpDescStyle.Render("      Move between options") + `
` + HelpKeyStyle.Render("Ctrl+R") + HelpDescStyle.Render("   Start over") + `
` + HelpKeyStyle.Render("Esc") + HelpDescStyle.Render("      Dismiss message") + `
` + HelpKeyStyle.Render("Ctrl+D") + HelpDescStyle.Render("   Toggle debug panel") + `
` + HelpKeyStyle.Render("PgUp/Dn") + HelpDescStyle.Render("  Scroll debug panel") + `
` + HelpKeyStyle.Render("?") + HelpDescStyle.Render("        Toggle help") + `
` + HelpKeyStyle.Render("Ctrl+C") + HelpDescStyle.Render("   Quit") + `
`

	content := title + "\n" + help + "\n" + HelpDescStyle.Render("Your progress is saved. Press ? or Esc to close")

	// Center the help box
	helpBox := HelpStyle.Render(content)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
	)
}
