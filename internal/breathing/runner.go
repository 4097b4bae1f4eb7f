package breathing

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raygun/raygun-tui/internal/scheduler"
)

// ErrMissingAnchor is returned when the circle or instruction is not available
var ErrMissingAnchor = errors.New("breathing guide elements not found")

// Anchor ids the runner resolves before a run
const (
	CircleID      = "breathing-circle"
	InstructionID = "breathing-instruction"
)

// Circle is the animated element of the breathing screen
type Circle interface {
	SetPhaseTag(tag string)
}

// Instruction is the text element of the breathing screen
type Instruction interface {
	SetInstruction(text string)
}

// Anchors resolves the two screen elements a run needs
type Anchors interface {
	Circle() (Circle, bool)
	Instruction() (Instruction, bool)
}

// PhaseComplete is the phase reported once every cycle has run
const PhaseComplete = "complete"

// Config controls a breathing run
type Config struct {
	Pattern         Pattern
	Cycles          int
	ReducedMotion   bool
	CompletionDelay time.Duration
	CompletionLabel string
}

// DefaultConfig returns the classic two-cycle guide
func DefaultConfig() Config {
	p, _ := PatternByName(DefaultPattern)
	return Config{
		Pattern:         p,
		Cycles:          2,
		CompletionDelay: time.Second,
		CompletionLabel: "Complete ✓",
	}
}

// Run is a snapshot of the runner's progress
type Run struct {
	ID        string
	Running   bool
	Cycle     int
	PhaseIdx  int
	Phase     string
	Completed bool
}

// Runner sequences timed breathing phases and reports completion once
type Runner struct {
	cfg        Config
	anchors    Anchors
	sched      scheduler.Scheduler
	logger     *zap.Logger
	onComplete func()

	mu          sync.Mutex
	run         Run
	gen         int // bumped on Stop so callbacks already in flight are ignored
	pending     scheduler.Group
	circle      Circle
	instruction Instruction
}

// New creates a runner. onComplete is called exactly once at the end of each run.
func New(cfg Config, anchors Anchors, sched scheduler.Scheduler, logger *zap.Logger, onComplete func()) *Runner {
	if cfg.Cycles <= 0 {
		cfg.Cycles = 1
	}
	if cfg.CompletionLabel == "" {
		cfg.CompletionLabel = DefaultConfig().CompletionLabel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		anchors:    anchors,
		sched:      sched,
		logger:     logger,
		onComplete: onComplete,
	}
}

// Start begins a run. It does nothing while a run is already in progress.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.run.Running {
		r.logger.Debug("breathing guide already running", zap.String("run", r.run.ID))
		return nil
	}

	if r.anchors == nil {
		r.logger.Error("breathing guide has no screen")
		return ErrMissingAnchor
	}
	circle, okCircle := r.anchors.Circle()
	instruction, okInstruction := r.anchors.Instruction()
	if !okCircle || !okInstruction {
		r.logger.Error("breathing guide elements not found",
			zap.Bool("circle", okCircle),
			zap.Bool("instruction", okInstruction))
		return ErrMissingAnchor
	}
	if err := r.cfg.Pattern.Validate(); err != nil {
		r.logger.Error("invalid breathing pattern", zap.Error(err))
		return err
	}

	r.circle = circle
	r.instruction = instruction
	r.run = Run{ID: uuid.NewString(), Running: true}

	r.logger.Info("starting breathing guide",
		zap.String("run", r.run.ID),
		zap.Int("phases", len(r.cfg.Pattern)),
		zap.Int("cycles", r.cfg.Cycles),
		zap.Bool("reduced_motion", r.cfg.ReducedMotion))

	r.enterPhase(0)
	return nil
}

// enterPhase displays phase idx and schedules the step after it. Caller holds r.mu.
func (r *Runner) enterPhase(idx int) {
	ph := r.cfg.Pattern[idx]
	r.run.PhaseIdx = idx
	r.run.Phase = ph.Name

	if r.cfg.ReducedMotion {
		r.instruction.SetInstruction(ph.CaptionText())
	} else {
		r.instruction.SetInstruction(ph.Label)
		r.circle.SetPhaseTag(ph.Tag)
	}

	r.logger.Debug("phase",
		zap.String("run", r.run.ID),
		zap.Int("cycle", r.run.Cycle+1),
		zap.String("phase", ph.Name))

	gen := r.gen
	r.pending.Schedule(r.sched, ph.Duration, func() { r.step(gen) })
}

// step moves to the next phase, the next cycle, or completion
func (r *Runner) step(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen || !r.run.Running {
		return
	}

	next := r.run.PhaseIdx + 1
	if next < len(r.cfg.Pattern) {
		r.enterPhase(next)
		return
	}

	r.run.Cycle++
	if r.run.Cycle < r.cfg.Cycles {
		r.enterPhase(0)
		return
	}
	r.complete()
}

// complete ends the run and schedules the completion callback. Caller holds r.mu.
func (r *Runner) complete() {
	r.run.Running = false
	r.run.Completed = true
	r.run.Phase = PhaseComplete
	r.instruction.SetInstruction(r.cfg.CompletionLabel)

	r.logger.Info("breathing complete", zap.String("run", r.run.ID))

	gen := r.gen
	r.pending.Schedule(r.sched, r.cfg.CompletionDelay, func() {
		r.mu.Lock()
		stale := gen != r.gen
		r.mu.Unlock()
		if stale || r.onComplete == nil {
			return
		}
		r.onComplete()
	})
}

// Stop aborts the current run and cancels every pending phase and completion callback
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	cancelled := r.pending.StopAll()
	wasRunning := r.run.Running
	r.run.Running = false

	r.logger.Info("breathing guide stopped",
		zap.String("run", r.run.ID),
		zap.Bool("was_running", wasRunning),
		zap.Int("cancelled", cancelled))
}

// Running reports whether a run is in progress
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run.Running
}

// Snapshot returns the current run state
func (r *Runner) Snapshot() Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run
}

// TotalDuration returns the time from Start to the completion callback
func (c Config) TotalDuration() time.Duration {
	cycles := c.Cycles
	if cycles <= 0 {
		cycles = 1
	}
	return c.Pattern.CycleDuration()*time.Duration(cycles) + c.CompletionDelay
}
