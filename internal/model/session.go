package model

import "time"

// Session is the persisted progress of one visitor
type Session struct {
	CurrentState State     `json:"currentState"`
	GrindTask    string    `json:"grindTask"`
	FrameChoice  string    `json:"frameChoice"`
	Constraint   string    `json:"constraint"`
	Experiment   string    `json:"experiment"`
	Branch       string    `json:"branch"`     // "curious" or "depleted"
	Reflection   string    `json:"reflection"` // "yes", "maybe" or "no"
	Timestamp    time.Time `json:"timestamp"`
}

// NewSession returns a session at the initial state with empty fields
func NewSession() Session {
	return Session{CurrentState: InitialState}
}

// Field returns the captured value of f
func (s Session) Field(f Field) string {
	switch f {
	case FieldGrind:
		return s.GrindTask
	case FieldConstraint:
		return s.Constraint
	case FieldExperiment:
		return s.Experiment
	default:
		return ""
	}
}

// SetField stores v as the captured value of f
func (s *Session) SetField(f Field, v string) {
	switch f {
	case FieldGrind:
		s.GrindTask = v
	case FieldConstraint:
		s.Constraint = v
	case FieldExperiment:
		s.Experiment = v
	}
}

// FreshAt reports whether the session was written less than window before now.
// A session that was never written is never fresh.
func (s Session) FreshAt(now time.Time, window time.Duration) bool {
	if s.Timestamp.IsZero() {
		return false
	}
	return now.Sub(s.Timestamp) < window
}

// Summary is what the celebration ending plays back to the visitor
type Summary struct {
	Grind      string
	Frame      string
	Constraint string
	Experiment string
}

const (
	thinkAboutItFallback = "(You chose to just think about it)"
	unknownFrameFallback = "Unknown frame"
	pathBFallback        = "(You followed Path B - Depletion)"
)

// Summarize builds the celebration summary from the captured fields
func (s Session) Summarize() Summary {
	sum := Summary{
		Grind:      s.GrindTask,
		Frame:      FrameChoice(s.FrameChoice).Label(),
		Constraint: s.Constraint,
		Experiment: s.Experiment,
	}
	if sum.Grind == "" {
		sum.Grind = thinkAboutItFallback
	}
	if sum.Frame == "" {
		sum.Frame = unknownFrameFallback
	}
	if sum.Constraint == "" {
		sum.Constraint = thinkAboutItFallback
	}
	if sum.Experiment == "" {
		sum.Experiment = pathBFallback
	}
	return sum
}
