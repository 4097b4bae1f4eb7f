package board

import (
	"errors"
	"fmt"
	"sync"

	"github.com/raygun/raygun-tui/internal/breathing"
	"github.com/raygun/raygun-tui/internal/model"
)

var (
	// ErrNoScreen is returned when a state has no screen on the board
	ErrNoScreen = errors.New("screen not found")
)

// Snapshot is a copy of everything the board displays
type Snapshot struct {
	Visible       []model.State
	Inputs        map[model.Field]string
	Prompt        string
	FrameFeedback model.FrameChoice
	Summary       *model.Summary
	PhaseTag      string
	Instruction   string
	Version       uint64
}

// Current returns the single visible screen, or "" when zero or several are visible
func (s Snapshot) Current() model.State {
	if len(s.Visible) != 1 {
		return ""
	}
	return s.Visible[0]
}

// Option removes elements from a board
type Option func(*Board)

// WithoutScreen builds a board with no screen for s
func WithoutScreen(s model.State) Option {
	return func(b *Board) { delete(b.screens, s) }
}

// WithoutInput builds a board with no text input for f
func WithoutInput(f model.Field) Option {
	return func(b *Board) { delete(b.inputs, f) }
}

// WithoutCircle builds a board with no breathing circle
func WithoutCircle() Option {
	return func(b *Board) { b.hasCircle = false }
}

// WithoutInstruction builds a board with no breathing instruction
func WithoutInstruction() Option {
	return func(b *Board) { b.hasInstruction = false }
}

// Board holds the screen state shared by the controller, the breathing
// runner and the renderer. Every method is safe for concurrent use.
type Board struct {
	mu             sync.Mutex
	screens        map[model.State]bool // present screens and whether each is visible
	inputs         map[model.Field]string
	hasCircle      bool
	hasInstruction bool

	prompt      string
	feedback    model.FrameChoice
	summary     *model.Summary
	phaseTag    string
	instruction string
	version     uint64

	changes chan struct{}
}

// New returns a board with every screen and input, all hidden
func New(opts ...Option) *Board {
	b := &Board{
		screens:        make(map[model.State]bool),
		inputs:         make(map[model.Field]string),
		hasCircle:      true,
		hasInstruction: true,
		changes:        make(chan struct{}, 1),
	}
	for _, s := range model.AllStates() {
		b.screens[s] = false
	}
	for _, f := range model.AllFields() {
		b.inputs[f] = ""
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Changes delivers a signal after any update. Signals coalesce.
func (b *Board) Changes() <-chan struct{} {
	return b.changes
}

// notify must be called with b.mu held
func (b *Board) notify() {
	b.version++
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// Show makes the screen for s visible
func (b *Board) Show(s model.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.screens[s]; !ok {
		return fmt.Errorf("%w: %s", ErrNoScreen, s.ScreenID())
	}
	b.screens[s] = true
	b.prompt = ""
	if s == model.StateInterrupt {
		b.phaseTag = ""
		b.instruction = ""
	}
	b.notify()
	return nil
}

// Hide hides the screen for s
func (b *Board) Hide(s model.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.screens[s]; !ok {
		return fmt.Errorf("%w: %s", ErrNoScreen, s.ScreenID())
	}
	if b.screens[s] {
		b.screens[s] = false
		b.notify()
	}
	return nil
}

// Prompt shows a message until it is dismissed or another screen is shown
func (b *Board) Prompt(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prompt = msg
	b.notify()
}

// DismissPrompt clears the current message
func (b *Board) DismissPrompt() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.prompt != "" {
		b.prompt = ""
		b.notify()
	}
}

// FrameFeedback marks the chosen frame while the flow waits to advance
func (b *Board) FrameFeedback(choice model.FrameChoice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.feedback = choice
	b.notify()
}

// ShowSummary fills the celebration summary
func (b *Board) ShowSummary(sum model.Summary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summary = &sum
	b.notify()
}

// InputValue returns the text typed into f's input
func (b *Board) InputValue(f model.Field) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.inputs[f]
	return v, ok
}

// SetInputValue replaces the text in f's input. Missing inputs are ignored.
func (b *Board) SetInputValue(f model.Field, v string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.inputs[f]; !ok {
		return
	}
	b.inputs[f] = v
	b.notify()
}

// ClearInputs empties every input and the feedback and summary they produced
func (b *Board) ClearInputs() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for f := range b.inputs {
		b.inputs[f] = ""
	}
	b.feedback = ""
	b.summary = nil
	b.notify()
}

// Circle returns the breathing circle
func (b *Board) Circle() (breathing.Circle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasCircle {
		return nil, false
	}
	return circle{b}, true
}

// Instruction returns the breathing instruction
func (b *Board) Instruction() (breathing.Instruction, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasInstruction {
		return nil, false
	}
	return instruction{b}, true
}

type circle struct{ b *Board }

func (c circle) SetPhaseTag(tag string) {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.b.phaseTag = tag
	c.b.notify()
}

type instruction struct{ b *Board }

func (i instruction) SetInstruction(text string) {
	i.b.mu.Lock()
	defer i.b.mu.Unlock()
	i.b.instruction = text
	i.b.notify()
}

// Snapshot returns a copy of the board
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{
		Inputs:        make(map[model.Field]string, len(b.inputs)),
		Prompt:        b.prompt,
		FrameFeedback: b.feedback,
		PhaseTag:      b.phaseTag,
		Instruction:   b.instruction,
		Version:       b.version,
	}
	for _, s := range model.AllStates() {
		if b.screens[s] {
			snap.Visible = append(snap.Visible, s)
		}
	}
	for f, v := range b.inputs {
		snap.Inputs[f] = v
	}
	if b.summary != nil {
		sum := *b.summary
		snap.Summary = &sum
	}
	return snap
}
