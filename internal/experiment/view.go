package experiment

import (
	"errors"

	"github.com/raygun/raygun-tui/internal/breathing"
	"github.com/raygun/raygun-tui/internal/journal"
	"github.com/raygun/raygun-tui/internal/model"
)

var (
	// ErrChoiceRequired is returned when advancing needs a choice the visitor has not made
	ErrChoiceRequired = errors.New("a choice is required before continuing")

	// ErrInvalidChoice is returned for a choice value the flow does not offer
	ErrInvalidChoice = errors.New("unknown choice")

	// ErrWrongState is returned when a choice is made outside the screen that offers it
	ErrWrongState = errors.New("choice is not offered on the current screen")

	// ErrTerminalState is returned when advancing past an ending
	ErrTerminalState = errors.New("experiment has already ended")
)

// Prompts shown when a required choice is missing
const (
	PromptFrame      = "Please select how you're thinking about this task."
	PromptBranch     = "Please choose: Are you curious, or does this feel impossible?"
	PromptReflection = "Please select: Did you notice a shift?"
	PromptInvalid    = "That option isn't available here."
)

// Screens toggles the visibility of per-state screens
type Screens interface {
	// Show makes the state's screen visible. An error means the screen is missing.
	Show(s model.State) error
	Hide(s model.State) error
	// Prompt surfaces a blocking message to the visitor
	Prompt(msg string)
	FrameFeedback(choice model.FrameChoice)
	ShowSummary(sum model.Summary)
}

// Inputs holds the visitor's free-text answers
type Inputs interface {
	InputValue(f model.Field) (string, bool)
	SetInputValue(f model.Field, v string)
	ClearInputs()
}

// View is everything the controller needs from the screen
type View interface {
	Screens
	Inputs
}

// Breather runs the breathing guide on the interrupt screen
type Breather interface {
	Start() error
	Stop()
	Snapshot() breathing.Run
}

// Recorder receives every transition
type Recorder interface {
	Record(from, to model.State, trigger journal.Trigger)
}
