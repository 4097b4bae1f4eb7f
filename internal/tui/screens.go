package tui

import (
	"github.com/raygun/raygun-tui/internal/model"
)

// Screen is the copy and controls shown for one state
type Screen struct {
	Title       string
	Body        string
	Field       model.Field // Text input on this screen, if any
	Placeholder string
	Options     []Option // Choices on this screen, if any
	Hint        string
}

// Option is one selectable choice
type Option struct {
	Value string
	Label string
}

var screens = map[model.State]Screen{
	model.StateLanding: {
		Title: "The RAYGUN Experiment",
		Body: "Ten minutes. One task you've been grinding against.\n" +
			"We'll notice how you're holding it, take a breath, and try a smaller way in.",
		Hint: "Press Enter to begin",
	},
	model.StateGrind: {
		Title:       "What are you grinding on?",
		Body:        "Name the task that keeps not happening. A few words is enough.",
		Field:       model.FieldGrind,
		Placeholder: "e.g. finish the quarterly report",
		Hint:        "Type, then press Enter (or leave it blank and just think about it)",
	},
	model.StateFrame: {
		Title: "How are you thinking about it?",
		Body:  "Pick the one that sounds most like the voice in your head.",
		Hint:  "↑/↓ to move, Enter to choose",
	},
	model.StateInterrupt: {
		Title: "Interrupt the pattern",
		Body:  "Before doing anything else, breathe with the circle.",
	},
	model.StateGap: {
		Title:       "Find the gap",
		Body:        "What's one constraint you could put on this? Less time, less scope, lower stakes.",
		Field:       model.FieldConstraint,
		Placeholder: "e.g. only 10 minutes, only the outline",
		Hint:        "Type, then press Enter",
	},
	model.StateReframe: {
		Title: "Where are you right now?",
		Body:  "Be honest. Both answers are useful.",
		Hint:  "↑/↓ to move, Enter to choose",
	},
	model.StateExperiment: {
		Title:       "Design a tiny experiment",
		Body:        "With that constraint, what's the smallest thing you could try just to see what happens?",
		Field:       model.FieldExperiment,
		Placeholder: "e.g. write one ugly paragraph",
		Hint:        "Type, then press Enter",
	},
	model.StateDepleted: {
		Title: "That's real information",
		Body: "If this feels impossible, the task may not be the problem. You might be running on empty.\n" +
			"Rest counts. Eat something, step outside, or come back tomorrow.",
		Hint: "Press Enter when you're ready",
	},
	model.StateReflection: {
		Title: "Did you notice a shift?",
		Body:  "Compared to when you started, does the task feel any different?",
		Hint:  "↑/↓ to move, Enter to choose",
	},
	model.StateCelebration: {
		Title: "That's the RAYGUN shift",
		Body:  "Here's what you did:",
		Hint:  "Ctrl+R to start over",
	},
	model.StateSubtle: {
		Title: "Subtle counts",
		Body: "Small shifts are still shifts. Notice them and they get easier to find.\n" +
			"Try the experiment you designed and check in with yourself afterwards.",
		Hint: "Ctrl+R to start over",
	},
	model.StateTroubleshoot: {
		Title: "Let's troubleshoot",
		Body: "No shift is fine. Maybe the constraint wasn't small enough, or the task needs a different entry point.\n" +
			"Try again with something even smaller.",
		Hint: "Ctrl+R to start over",
	},
}

func init() {
	frame := screens[model.StateFrame]
	for _, c := range model.FrameChoices() {
		frame.Options = append(frame.Options, Option{Value: string(c), Label: c.Label()})
	}
	screens[model.StateFrame] = frame

	reframe := screens[model.StateReframe]
	reframe.Options = []Option{
		{Value: string(model.BranchCurious), Label: "I'm curious what would happen"},
		{Value: string(model.BranchDepleted), Label: "Honestly, this feels impossible"},
	}
	screens[model.StateReframe] = reframe

	reflection := screens[model.StateReflection]
	reflection.Options = []Option{
		{Value: string(model.ReflectionYes), Label: "Yes, something moved"},
		{Value: string(model.ReflectionMaybe), Label: "Maybe a little"},
		{Value: string(model.ReflectionNo), Label: "Not really"},
	}
	screens[model.StateReflection] = reflection
}

// screenFor returns the screen for s
func screenFor(s model.State) (Screen, bool) {
	sc, ok := screens[s]
	return sc, ok
}
