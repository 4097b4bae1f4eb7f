package model

// FrameChoice is how the visitor currently thinks about their task
type FrameChoice string

const (
	FrameBurden   FrameChoice = "burden"
	FrameObstacle FrameChoice = "obstacle"
	FrameShould   FrameChoice = "should"
	FrameFailing  FrameChoice = "failing"
)

// FrameChoices returns the frames in display order
func FrameChoices() []FrameChoice {
	return []FrameChoice{FrameBurden, FrameObstacle, FrameShould, FrameFailing}
}

// Valid reports whether f is a known frame
func (f FrameChoice) Valid() bool {
	return f.Label() != ""
}

// Label returns the readable text for the frame
func (f FrameChoice) Label() string {
	switch f {
	case FrameBurden:
		return "A burden I have to push through"
	case FrameObstacle:
		return "An obstacle in my way"
	case FrameShould:
		return "Something I should have done already"
	case FrameFailing:
		return "A problem I'm failing at"
	default:
		return ""
	}
}

// Branch is the fork taken at the reframe screen
type Branch string

const (
	BranchCurious  Branch = "curious"
	BranchDepleted Branch = "depleted"
)

// Branches returns the branches in display order
func Branches() []Branch {
	return []Branch{BranchCurious, BranchDepleted}
}

// Next returns the state the branch leads to
func (b Branch) Next() (State, bool) {
	switch b {
	case BranchCurious:
		return StateExperiment, true
	case BranchDepleted:
		return StateDepleted, true
	default:
		return "", false
	}
}

// Reflection is the visitor's answer to "did you notice a shift?"
type Reflection string

const (
	ReflectionYes   Reflection = "yes"
	ReflectionMaybe Reflection = "maybe"
	ReflectionNo    Reflection = "no"
)

// Reflections returns the reflections in display order
func Reflections() []Reflection {
	return []Reflection{ReflectionYes, ReflectionMaybe, ReflectionNo}
}

// Ending returns the terminal state the reflection leads to
func (r Reflection) Ending() (State, bool) {
	switch r {
	case ReflectionYes:
		return StateCelebration, true
	case ReflectionMaybe:
		return StateSubtle, true
	case ReflectionNo:
		return StateTroubleshoot, true
	default:
		return "", false
	}
}
