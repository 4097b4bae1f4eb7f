package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// LineSource supplies recent log lines
type LineSource interface {
	Lines() []string
}

// DebugPanel shows the tail of the log
type DebugPanel struct {
	visible  bool       // Whether debug panel is shown
	source   LineSource // Log ring feeding the panel
	viewport viewport.Model
	width    int
	follow   bool // Stick to the newest line
}

// NewDebugPanel creates a new debug panel
func NewDebugPanel(source LineSource, visible bool) DebugPanel {
	return DebugPanel{
		visible:  visible,
		source:   source,
		viewport: viewport.New(0, 0),
		follow:   true,
	}
}

// IsVisible returns whether the panel is shown
func (d *DebugPanel) IsVisible() bool {
	return d.visible && d.source != nil
}

// Toggle shows or hides the panel
func (d *DebugPanel) Toggle() {
	d.visible = !d.visible
	d.follow = true
	d.Refresh()
}

// SetSize sets the outer size of the panel
func (d *DebugPanel) SetSize(width, height int) {
	d.width = width
	d.viewport.Width = width - 4 // Border and padding
	d.viewport.Height = height - 3
	if d.viewport.Height < 1 {
		d.viewport.Height = 1
	}
	d.Refresh()
}

// Lines returns the current debug lines
func (d *DebugPanel) Lines() []string {
	if d.source == nil {
		return nil
	}
	return d.source.Lines()
}

// Refresh reloads lines from the source
func (d *DebugPanel) Refresh() {
	if !d.IsVisible() {
		return
	}
	maxLen := d.viewport.Width
	if maxLen < 10 {
		maxLen = 10
	}
	var lines []string
	for _, line := range d.Lines() {
		lines = append(lines, truncate(line, maxLen))
	}
	d.viewport.SetContent(strings.Join(lines, "\n"))
	if d.follow {
		d.viewport.GotoBottom()
	}
}

// ScrollUp moves back through older lines
func (d *DebugPanel) ScrollUp() {
	d.viewport.HalfViewUp()
	d.follow = d.viewport.AtBottom()
}

// ScrollDown moves toward the newest line
func (d *DebugPanel) ScrollDown() {
	d.viewport.HalfViewDown()
	d.follow = d.viewport.AtBottom()
}

// Render renders the debug panel
func (d DebugPanel) Render() string {
	if !d.IsVisible() {
		return ""
	}

	title := lipgloss.NewStyle().
		Foreground(ColorYellow).
		Bold(true).
		Render("DEBUG")

	// Style the panel
	return lipgloss.NewStyle().
		Width(d.width-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorYellow).
		Padding(0, 1).
		Render(title + "\n" + d.viewport.View())
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
