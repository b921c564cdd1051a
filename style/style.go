// Package style provides a functional API for composing lipgloss styles for CLI output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vidplay-cli/vidplay/color"
)

// New returns an empty lipgloss.Style used as a foundation for composition.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a rendering function that applies the foreground color to a string.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

// Faint renders s in faint intensity.
func Faint(s string) string {
	return New().Faint(true).Render(s)
}

// Bold renders s in bold.
func Bold(s string) string {
	return New().Bold(true).Render(s)
}

// Success and Fail prefix status lines in CLI output.
var (
	Success = Fg(color.Green)("✓")
	Fail    = Fg(color.Red)("✗")
)
