package cli

import "github.com/charmbracelet/lipgloss"

// Spectrum colour palette
// Shared theme colours for consistent branding across CLI and TUI
var (
	// Core colours (low to high frequency)
	SpectrumViolet = lipgloss.Color("#7B2FF7")
	SpectrumIndigo = lipgloss.Color("#4363D8")
	SpectrumCyan   = lipgloss.Color("#42D4F4")
	SpectrumGreen  = lipgloss.Color("#3CB44B")

	// Accent colours
	Slate = lipgloss.Color("#708090") // Subtle text
)
