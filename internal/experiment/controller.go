package experiment

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/raygun/raygun-tui/internal/breathing"
	"github.com/raygun/raygun-tui/internal/journal"
	"github.com/raygun/raygun-tui/internal/model"
	"github.com/raygun/raygun-tui/internal/scheduler"
	"github.com/raygun/raygun-tui/internal/store"
)

// Timings are the fixed delays of the flow
type Timings struct {
	FrameFeedbackDelay  time.Duration // Feedback shown before the frame screen auto-advances
	InterruptStartDelay time.Duration // Lets the interrupt screen settle before breathing starts
	FreshnessWindow     time.Duration // Saved sessions older than this are discarded
}

// DefaultTimings returns the standard flow delays
func DefaultTimings() Timings {
	return Timings{
		FrameFeedbackDelay:  2 * time.Second,
		InterruptStartDelay: 500 * time.Millisecond,
		FreshnessWindow:     24 * time.Hour,
	}
}

// Options wires a Controller to its collaborators
type Options struct {
	Store     store.Store
	View      View
	Anchors   breathing.Anchors
	Breathing breathing.Config
	Timings   Timings
	Scheduler scheduler.Scheduler
	Journal   Recorder
	Logger    *zap.Logger
	Now       func() time.Time
}

// Controller owns the experiment session and sequences the visitor through it
type Controller struct {
	store   store.Store
	view    View
	breath  Breather
	timings Timings
	sched   scheduler.Scheduler
	journal Recorder
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	sess    model.Session
	pending scheduler.Group
}

// New creates a controller and the breathing runner it drives.
// Call Init to restore any saved session and show the first screen.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.NewReal()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Timings == (Timings{}) {
		opts.Timings = DefaultTimings()
	}
	if opts.Breathing.Pattern == nil {
		run := breathing.DefaultConfig()
		run.ReducedMotion = opts.Breathing.ReducedMotion
		opts.Breathing = run
	}
	if opts.Anchors == nil {
		if a, ok := opts.View.(breathing.Anchors); ok {
			opts.Anchors = a
		}
	}

	c := &Controller{
		store:   opts.Store,
		view:    opts.View,
		timings: opts.Timings,
		sched:   opts.Scheduler,
		journal: opts.Journal,
		logger:  opts.Logger.Named("experiment"),
		now:     opts.Now,
		sess:    model.NewSession(),
	}
	c.breath = breathing.New(opts.Breathing, opts.Anchors, opts.Scheduler, opts.Logger.Named("breathing"), c.onBreathingComplete)
	return c
}

// Init loads any fresh saved session and shows its screen
func (c *Controller) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("initializing experiment")
	c.load()
	c.show(c.sess.CurrentState)

	if c.sess.CurrentState != model.InitialState {
		c.record(c.sess.CurrentState, c.sess.CurrentState, journal.TriggerRestore)
	}

	// A visitor who left mid-breath would otherwise be stuck on the interrupt screen
	if c.sess.CurrentState == model.StateInterrupt {
		c.scheduleBreathing()
	}

	c.logger.Info("experiment initialized", zap.String("state", string(c.sess.CurrentState)))
}

// Advance captures the current screen's input and moves to the next screen
func (c *Controller) Advance() error {
	return c.advance("", journal.TriggerAdvance)
}

// advance moves on from the current state. When from is set the call is a
// no-op unless the session is still in that state.
func (c *Controller) advance(from model.State, trigger journal.Trigger) error {
	c.mu.Lock()

	current := c.sess.CurrentState
	if from != "" && current != from {
		c.mu.Unlock()
		c.logger.Debug("skipping stale advance",
			zap.String("expected", string(from)),
			zap.String("state", string(current)))
		return nil
	}

	c.logger.Debug("next state", zap.String("from", string(current)))
	c.captureInput(current)

	next, prompt, err := c.successor(current)
	if err != nil {
		c.mu.Unlock()
		if prompt != "" {
			c.view.Prompt(prompt)
		}
		return err
	}

	c.transitionTo(next, trigger)
	c.mu.Unlock()
	return nil
}

// successor returns the linear next state. Caller holds c.mu.
func (c *Controller) successor(current model.State) (model.State, string, error) {
	switch current {
	case model.StateLanding:
		return model.StateGrind, "", nil
	case model.StateGrind:
		return model.StateFrame, "", nil
	case model.StateFrame:
		if c.sess.FrameChoice == "" {
			return "", PromptFrame, ErrChoiceRequired
		}
		return model.StateInterrupt, "", nil
	case model.StateInterrupt:
		// Normally reached through the breathing completion callback
		return model.StateGap, "", nil
	case model.StateGap:
		return model.StateReframe, "", nil
	case model.StateReframe:
		// Leaves only through SelectBranch
		return "", PromptBranch, ErrChoiceRequired
	case model.StateExperiment, model.StateDepleted:
		return model.StateReflection, "", nil
	case model.StateReflection:
		// Leaves only through SelectReflection
		return "", PromptReflection, ErrChoiceRequired
	default:
		c.logger.Warn("unknown state or end state", zap.String("state", string(current)))
		return "", "", ErrTerminalState
	}
}

// SelectFrame records the frame choice and advances after the feedback delay
func (c *Controller) SelectFrame(choice model.FrameChoice) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireState(model.StateFrame, "frame", string(choice)); err != nil {
		return err
	}
	if !choice.Valid() {
		c.view.Prompt(PromptInvalid)
		return ErrInvalidChoice
	}

	c.logger.Info("frame selected", zap.String("frame", string(choice)))
	c.sess.FrameChoice = string(choice)
	c.view.FrameFeedback(choice)

	c.pending.Schedule(c.sched, c.timings.FrameFeedbackDelay, func() {
		c.advance(model.StateFrame, journal.TriggerFrame)
	})
	return nil
}

// SelectBranch records the branch and moves to its path
func (c *Controller) SelectBranch(choice model.Branch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireState(model.StateReframe, "branch", string(choice)); err != nil {
		return err
	}
	next, ok := choice.Next()
	if !ok {
		c.view.Prompt(PromptInvalid)
		return ErrInvalidChoice
	}

	c.logger.Info("branch selected", zap.String("branch", string(choice)))
	c.sess.Branch = string(choice)
	c.transitionTo(next, journal.TriggerBranch)
	return nil
}

// SelectReflection records the reflection and moves to its ending
func (c *Controller) SelectReflection(choice model.Reflection) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireState(model.StateReflection, "reflection", string(choice)); err != nil {
		return err
	}
	ending, ok := choice.Ending()
	if !ok {
		c.view.Prompt(PromptInvalid)
		return ErrInvalidChoice
	}

	c.logger.Info("reflection selected", zap.String("reflection", string(choice)))
	c.sess.Reflection = string(choice)
	c.transitionTo(ending, journal.TriggerReflection)

	if ending == model.StateCelebration {
		c.view.ShowSummary(c.sess.Summarize())
	}
	return nil
}

// requireState rejects a selection made away from its screen. Caller holds c.mu.
func (c *Controller) requireState(want model.State, kind, value string) error {
	if c.sess.CurrentState == want {
		return nil
	}
	c.logger.Warn("selection ignored outside its screen",
		zap.String("kind", kind),
		zap.String("value", value),
		zap.String("state", string(c.sess.CurrentState)))
	return ErrWrongState
}

// transitionTo is the only place the current state changes. Caller holds c.mu.
func (c *Controller) transitionTo(next model.State, trigger journal.Trigger) {
	old := c.sess.CurrentState
	c.logger.Info("transitioning",
		zap.String("from", string(old)),
		zap.String("to", string(next)),
		zap.String("trigger", string(trigger)))

	// Leaving the interrupt early must not let the old run advance us again
	if old == model.StateInterrupt && trigger != journal.TriggerBreathing {
		c.breath.Stop()
	}

	c.sess.CurrentState = next
	c.hide(old)
	c.show(next)
	c.save()
	c.record(old, next, trigger)

	if next == model.StateInterrupt {
		c.scheduleBreathing()
	}
}

// scheduleBreathing starts the guide once the interrupt screen has settled. Caller holds c.mu.
func (c *Controller) scheduleBreathing() {
	c.pending.Schedule(c.sched, c.timings.InterruptStartDelay, func() {
		// Held across Start so a Reset cannot slip in between the check and the run.
		// The runner never calls back into the controller while starting.
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.sess.CurrentState != model.StateInterrupt {
			return
		}
		if err := c.breath.Start(); err != nil {
			c.logger.Error("failed to start breathing guide", zap.Error(err))
		}
	})
}

// onBreathingComplete is the breathing runner's completion callback
func (c *Controller) onBreathingComplete() {
	if err := c.advance(model.StateInterrupt, journal.TriggerBreathing); err != nil {
		c.logger.Error("advance after breathing failed", zap.Error(err))
	}
}

// captureInput stores the text owned by state. Caller holds c.mu.
func (c *Controller) captureInput(state model.State) {
	field, ok := model.OwnedField(state)
	if !ok {
		return
	}
	v, ok := c.view.InputValue(field)
	if !ok {
		c.logger.Warn("input not found", zap.String("input", field.InputID()))
		return
	}
	c.sess.SetField(field, strings.TrimSpace(v))
	c.logger.Debug("captured input", zap.String("field", string(field)))
}

// Reset clears every answer and returns to the landing screen
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("resetting experiment")

	c.breath.Stop()
	c.pending.StopAll()

	old := c.sess.CurrentState
	c.sess = model.NewSession()
	c.view.ClearInputs()
	for _, s := range model.AllStates() {
		c.hide(s)
	}
	c.show(model.InitialState)
	c.save()
	c.record(old, model.InitialState, journal.TriggerReset)
}

// Close cancels every pending timer and the breathing run
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.breath.Stop()
	c.pending.StopAll()
}

// Session returns a copy of the current session
func (c *Controller) Session() model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// State returns the current state
func (c *Controller) State() model.State {
	return c.Session().CurrentState
}

// Breathing returns the breathing runner's progress
func (c *Controller) Breathing() breathing.Run {
	return c.breath.Snapshot()
}

func (c *Controller) show(s model.State) {
	if err := c.view.Show(s); err != nil {
		c.logger.Error("state element not found", zap.String("state", string(s)), zap.Error(err))
	}
}

func (c *Controller) hide(s model.State) {
	if err := c.view.Hide(s); err != nil {
		c.logger.Debug("state element not found", zap.String("state", string(s)), zap.Error(err))
	}
}

func (c *Controller) record(from, to model.State, trigger journal.Trigger) {
	if c.journal == nil {
		return
	}
	c.journal.Record(from, to, trigger)
}
