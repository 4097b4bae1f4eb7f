package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state    State
		valid    bool
		terminal bool
	}{
		{StateLanding, true, false},
		{StateInterrupt, true, false},
		{StateReflection, true, false},
		{StateCelebration, true, true},
		{StateSubtle, true, true},
		{StateTroubleshoot, true, true},
		{State("diagnostic"), false, false},
		{State(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.Valid())
			assert.Equal(t, tt.terminal, tt.state.Terminal())
		})
	}

	assert.Equal(t, "state-reframe", StateReframe.ScreenID())
	assert.Len(t, AllStates(), 12)
}

func TestOwnedField(t *testing.T) {
	owners := map[State]Field{
		StateGrind:      FieldGrind,
		StateGap:        FieldConstraint,
		StateExperiment: FieldExperiment,
	}
	for _, s := range AllStates() {
		f, ok := OwnedField(s)
		want, owned := owners[s]
		assert.Equal(t, owned, ok, "state %s", s)
		assert.Equal(t, want, f, "state %s", s)
	}
	assert.Equal(t, "constraint-input", FieldConstraint.InputID())
}

func TestChoiceMappings(t *testing.T) {
	next, ok := BranchCurious.Next()
	assert.True(t, ok)
	assert.Equal(t, StateExperiment, next)

	next, ok = BranchDepleted.Next()
	assert.True(t, ok)
	assert.Equal(t, StateDepleted, next)

	_, ok = Branch("bored").Next()
	assert.False(t, ok)

	endings := map[Reflection]State{
		ReflectionYes:   StateCelebration,
		ReflectionMaybe: StateSubtle,
		ReflectionNo:    StateTroubleshoot,
	}
	for r, want := range endings {
		got, ok := r.Ending()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok = Reflection("perhaps").Ending()
	assert.False(t, ok)

	for _, f := range FrameChoices() {
		assert.True(t, f.Valid(), f)
	}
	assert.False(t, FrameChoice("dread").Valid())
}

func TestSessionJSONShape(t *testing.T) {
	s := Session{
		CurrentState: StateGap,
		GrindTask:    "quarterly report",
		FrameChoice:  string(FrameObstacle),
		Timestamp:    time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"currentState", "grindTask", "frameChoice", "constraint", "experiment", "branch", "reflection", "timestamp"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "gap", raw["currentState"])
	assert.Equal(t, "2026-03-04T05:06:07Z", raw["timestamp"])
}

func TestSessionNullTimestampIsStale(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"currentState":"grind","timestamp":null}`), &s))
	assert.Equal(t, StateGrind, s.CurrentState)
	assert.False(t, s.FreshAt(time.Now(), 24*time.Hour))
}

func TestFreshAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	s := Session{Timestamp: now.Add(-23 * time.Hour)}
	assert.True(t, s.FreshAt(now, window))

	s.Timestamp = now.Add(-24 * time.Hour)
	assert.False(t, s.FreshAt(now, window), "exactly one window old is stale")
}

func TestSummarizeFallbacks(t *testing.T) {
	sum := NewSession().Summarize()
	assert.Equal(t, "(You chose to just think about it)", sum.Grind)
	assert.Equal(t, "Unknown frame", sum.Frame)
	assert.Equal(t, "(You chose to just think about it)", sum.Constraint)
	assert.Equal(t, "(You followed Path B - Depletion)", sum.Experiment)

	s := Session{
		GrindTask:   "inbox zero",
		FrameChoice: string(FrameShould),
		Constraint:  "two minutes",
		Experiment:  "answer one email",
	}
	sum = s.Summarize()
	assert.Equal(t, "inbox zero", sum.Grind)
	assert.Equal(t, "Something I should have done already", sum.Frame)
	assert.Equal(t, "two minutes", sum.Constraint)
	assert.Equal(t, "answer one email", sum.Experiment)
}

func TestSetField(t *testing.T) {
	s := NewSession()
	for _, f := range AllFields() {
		s.SetField(f, "value-"+string(f))
		assert.Equal(t, "value-"+string(f), s.Field(f))
	}
	assert.Equal(t, InitialState, s.CurrentState)
}
