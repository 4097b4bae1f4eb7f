package model

// State represents one screen of the experiment flow
type State string

const (
	StateLanding      State = "landing"
	StateGrind        State = "grind"
	StateFrame        State = "frame"
	StateInterrupt    State = "interrupt"
	StateGap          State = "gap"
	StateReframe      State = "reframe"
	StateExperiment   State = "experiment"   // Path A
	StateDepleted     State = "depleted"     // Path B
	StateReflection   State = "reflection"   // Paths converge here
	StateCelebration  State = "celebration"  // Ending 1
	StateSubtle       State = "subtle"       // Ending 2
	StateTroubleshoot State = "troubleshoot" // Ending 3
)

// InitialState is where every fresh session starts
const InitialState = StateLanding

// AllStates returns every state in flow order
func AllStates() []State {
	return []State{
		StateLanding,
		StateGrind,
		StateFrame,
		StateInterrupt,
		StateGap,
		StateReframe,
		StateExperiment,
		StateDepleted,
		StateReflection,
		StateCelebration,
		StateSubtle,
		StateTroubleshoot,
	}
}

// Valid reports whether s is a known state
func (s State) Valid() bool {
	for _, known := range AllStates() {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether s is one of the endings
func (s State) Terminal() bool {
	switch s {
	case StateCelebration, StateSubtle, StateTroubleshoot:
		return true
	default:
		return false
	}
}

// ScreenID returns the collaborator id for the state's screen
func (s State) ScreenID() string {
	return "state-" + string(s)
}

// Icon returns the progress icon for the state
func (s State) Icon() string {
	switch {
	case s == StateInterrupt:
		return "◌"
	case s.Terminal():
		return "✓"
	case s == StateLanding:
		return "○"
	default:
		return "●"
	}
}

// Field is a free-text input captured when its owning state is exited
type Field string

const (
	FieldGrind      Field = "grind"
	FieldConstraint Field = "constraint"
	FieldExperiment Field = "experiment"
)

// AllFields returns every captured text field
func AllFields() []Field {
	return []Field{FieldGrind, FieldConstraint, FieldExperiment}
}

// InputID returns the collaborator id for the field's input
func (f Field) InputID() string {
	return string(f) + "-input"
}

// OwnedField returns the field captured when leaving s, if any
func OwnedField(s State) (Field, bool) {
	switch s {
	case StateGrind:
		return FieldGrind, true
	case StateGap:
		return FieldConstraint, true
	case StateExperiment:
		return FieldExperiment, true
	default:
		return "", false
	}
}
