package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/radspec/internal/analysis"
)

const (
	AppName        = "Radspec"
	AppDescription = "Average the spatial power spectrum of every video in a folder and compare them on one log-log chart."
)

// Color palette
var (
	primaryColor   = SpectrumViolet
	successColor   = SpectrumGreen
	mutedColor     = lipgloss.Color("#888888") // Gray
	highlightColor = lipgloss.Color("#FFFF00") // Yellow
	errorColor     = lipgloss.Color("#E6194B") // Red
	textColor      = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	// Title style - bold violet
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Success message style
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	// Highlight style for important values
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// Box style for framed content
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(AppName))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// RunSummary describes a finished run, one line per video
func RunSummary(results []analysis.Result, elapsed time.Duration) string {
	var b strings.Builder

	totalFrames := 0
	for _, r := range results {
		totalFrames += r.Frames
	}

	b.WriteString(SuccessStyle.Render("✓ Analysis Complete!"))
	b.WriteString("\n\n")

	b.WriteString(KeyStyle.Render("Videos: "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d (%d frames)", len(results), totalFrames)))
	b.WriteString("\n")
	b.WriteString(KeyStyle.Render("Time:   "))
	b.WriteString(ValueStyle.Render(FormatDuration(elapsed)))
	b.WriteString("\n")

	for _, r := range results {
		b.WriteString("\n  ")
		b.WriteString(KeyStyle.Render(r.Name + ": "))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%d frames, %dx%d, %s", r.Frames, r.Cols, r.Rows, FormatDuration(r.Elapsed))))
	}

	return b.String()
}

// PrintRunSummary prints the run summary in a box
func PrintRunSummary(results []analysis.Result, elapsed time.Duration) {
	fmt.Println(BoxStyle.Render(RunSummary(results, elapsed)))
}
