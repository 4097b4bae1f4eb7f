package breathing

import (
	"fmt"
	"sort"
	"time"
)

// Phase is one timed step of a breathing cycle
type Phase struct {
	Name     string        `yaml:"name"`
	Label    string        `yaml:"label"`             // Instruction shown with the animated circle
	Caption  string        `yaml:"caption,omitempty"` // Instruction shown with reduced motion
	Tag      string        `yaml:"tag"`               // Visual tag applied to the circle
	Duration time.Duration `yaml:"duration"`
}

// CaptionText returns the reduced-motion text for the phase
func (p Phase) CaptionText() string {
	if p.Caption != "" {
		return p.Caption
	}
	secs := int(p.Duration.Round(time.Second) / time.Second)
	unit := "seconds"
	if secs == 1 {
		unit = "second"
	}
	return fmt.Sprintf("%s (%d %s)", p.Label, secs, unit)
}

// Pattern is an ordered list of phases making up one cycle
type Pattern []Phase

// CycleDuration returns the time one pass through the pattern takes
func (p Pattern) CycleDuration() time.Duration {
	var total time.Duration
	for _, ph := range p {
		total += ph.Duration
	}
	return total
}

// Validate checks the pattern can drive a run
func (p Pattern) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("pattern has no phases")
	}
	for i, ph := range p {
		if ph.Name == "" {
			return fmt.Errorf("phase %d has no name", i)
		}
		if ph.Duration <= 0 {
			return fmt.Errorf("phase %q must have a positive duration", ph.Name)
		}
	}
	return nil
}

// DefaultPattern is the preset used when none is configured
const DefaultPattern = "classic"

var presets = map[string]Pattern{
	// 4s inhale, 2s hold, 4s exhale
	"classic": {
		{Name: "inhale", Label: "Breathe in...", Caption: "Breathe in slowly... (4 seconds)", Tag: "inhale", Duration: 4 * time.Second},
		{Name: "hold", Label: "Hold...", Caption: "Hold... (2 seconds)", Tag: "hold", Duration: 2 * time.Second},
		{Name: "exhale", Label: "Breathe out...", Caption: "Breathe out slowly... (4 seconds)", Tag: "exhale", Duration: 4 * time.Second},
	},
	"box": {
		{Name: "inhale", Label: "Breathe in...", Tag: "inhale", Duration: 4 * time.Second},
		{Name: "hold", Label: "Hold...", Tag: "hold", Duration: 4 * time.Second},
		{Name: "exhale", Label: "Breathe out...", Tag: "exhale", Duration: 4 * time.Second},
		{Name: "hold-empty", Label: "Hold empty...", Tag: "hold", Duration: 4 * time.Second},
	},
	"pause": {
		{Name: "inhale", Label: "Breathe in...", Tag: "inhale", Duration: 4 * time.Second},
		{Name: "hold", Label: "Hold...", Tag: "hold", Duration: 2 * time.Second},
		{Name: "exhale", Label: "Breathe out...", Tag: "exhale", Duration: 4 * time.Second},
		{Name: "pause", Label: "Rest...", Tag: "pause", Duration: 2 * time.Second},
	},
	// Physiological sigh: double inhale, long exhale
	"sigh": {
		{Name: "inhale", Label: "Breathe in through your nose...", Tag: "inhale", Duration: 2 * time.Second},
		{Name: "top-up", Label: "One more sip of air...", Tag: "inhale", Duration: time.Second},
		{Name: "hold", Label: "Hold...", Tag: "hold", Duration: time.Second},
		{Name: "exhale", Label: "Long breath out...", Tag: "exhale", Duration: 6 * time.Second},
		{Name: "pause", Label: "Rest...", Tag: "pause", Duration: 2 * time.Second},
	},
}

// PatternByName returns a copy of the named preset
func PatternByName(name string) (Pattern, bool) {
	p, ok := presets[name]
	if !ok {
		return nil, false
	}
	return append(Pattern(nil), p...), true
}

// PatternNames returns the preset names in sorted order
func PatternNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
