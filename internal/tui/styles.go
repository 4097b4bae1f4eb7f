package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	// Background colors
	ColorBgPrimary   = lipgloss.Color("#282C34")
	ColorBgHighlight = lipgloss.Color("#2C313C")

	// Foreground colors
	ColorFgPrimary   = lipgloss.Color("#ABB2BF")
	ColorFgSecondary = lipgloss.Color("#828997")
	ColorFgMuted     = lipgloss.Color("#636B78")
	ColorFgComment   = lipgloss.Color("#5C6370")

	// Syntax colors
	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorCyan    = lipgloss.Color("#56B6C2")

	// UI colors
	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	// Header style
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	// Screen card
	ScreenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 3)

	ScreenTitleStyle = lipgloss.NewStyle().
				Foreground(ColorMagenta).
				Bold(true).
				MarginBottom(1)

	ScreenBodyStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	ScreenHintStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			MarginTop(1)

	// Option list styles
	OptionStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Padding(0, 1)

	OptionSelectedStyle = lipgloss.NewStyle().
				Background(ColorBgHighlight).
				Foreground(ColorFgPrimary).
				Bold(true).
				Padding(0, 1)

	OptionChosenStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true).
				Padding(0, 1)

	FeedbackStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorCyan).
			Foreground(ColorCyan).
			PaddingLeft(1).
			MarginTop(1)

	// Prompt shown when a choice is missing
	PromptStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorYellow).
			Foreground(ColorYellow).
			PaddingLeft(1).
			MarginTop(1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginTop(1)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	// Breathing guide styles
	CircleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Align(lipgloss.Center, lipgloss.Center)

	InstructionStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true).
				MarginTop(1)

	// Summary styles
	SummaryLabelStyle = lipgloss.NewStyle().
				Foreground(ColorFgSecondary).
				Width(14)

	SummaryValueStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	StatusRunningStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	StatusIdleStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	StatusDoneStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	// Help overlay styles
	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	// Dimmed/info style for less important messages
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgComment)
)

// circleColors gives each breathing phase tag its own border color
var circleColors = map[string]lipgloss.Color{
	"inhale": ColorBlue,
	"hold":   ColorMagenta,
	"exhale": ColorCyan,
	"pause":  ColorFgMuted,
}
