package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/radspec/internal/analysis"
)

// Spectrum colour palette
var (
	violet = lipgloss.Color("#7B2FF7")
	indigo = lipgloss.Color("#4363D8")
	cyan   = lipgloss.Color("#42D4F4")
	green  = lipgloss.Color("#3CB44B")

	// Accent colours
	slate = lipgloss.Color("#708090") // Subtle text
)

// RunStarted announces the files about to be analysed
type RunStarted struct {
	Dir     string
	Files   int
	Workers int
}

// RunComplete signals the end of the run, successful or not
type RunComplete struct {
	Results []analysis.Result
	Elapsed time.Duration
	Err     error
}

// fileState tracks one video between its started and done events
type fileState struct {
	name        string
	frames      int
	totalFrames int
	elapsed     time.Duration
	done        bool
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// Model is the Bubbletea model for a whole analysis run
type Model struct {
	progressBar progress.Model
	fileBar     progress.Model
	summaryBar  progress.Model

	dir     string
	total   int
	workers int
	files   map[int]*fileState

	complete *RunComplete

	startTime       time.Time
	width           int
	completionDelay time.Duration
	quitting        bool
}

// NewModel creates a progress model for a run
func NewModel() *Model {
	p := progress.New(
		progress.WithGradient(string(violet), string(cyan)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	// Per-file bars
	fileBar := progress.New(
		progress.WithGradient(string(indigo), string(cyan)),
		progress.WithWidth(24),
		progress.WithoutPercentage(),
	)

	// Smaller bars for the timing breakdown
	summaryBar := progress.New(
		progress.WithGradient(string(violet), string(cyan)),
		progress.WithWidth(20),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		fileBar:         fileBar,
		summaryBar:      summaryBar,
		files:           make(map[int]*fileState),
		startTime:       time.Now(),
		completionDelay: time.Second,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(min(msg.Width-30, 50), 10)
		return m, nil

	case RunStarted:
		m.dir = msg.Dir
		m.total = msg.Files
		m.workers = msg.Workers
		m.startTime = time.Now()
		return m, nil

	case analysis.Progress:
		m.applyProgress(msg)
		return m, nil

	case RunComplete:
		m.complete = &msg
		m.quitting = true
		if msg.Err != nil {
			return m, tea.Quit
		}
		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) applyProgress(p analysis.Progress) {
	if p.Total > m.total {
		m.total = p.Total
	}
	f, ok := m.files[p.Index]
	if !ok {
		f = &fileState{name: p.Name}
		m.files[p.Index] = f
	}
	f.elapsed = p.Elapsed
	switch p.Stage {
	case analysis.StageFrames:
		f.frames = p.Frames
		f.totalFrames = p.TotalFrames
	case analysis.StageDone:
		f.frames = p.Frames
		f.totalFrames = p.TotalFrames
		f.done = true
	}
}

// Fraction is the overall progress in [0, 1]. Files in flight count by
// frames decoded when their length is known.
func (m *Model) Fraction() float64 {
	if m.total == 0 {
		return 0
	}
	var sum float64
	for _, f := range m.files {
		switch {
		case f.done:
			sum++
		case f.totalFrames > 0:
			sum += min(float64(f.frames)/float64(f.totalFrames), 1)
		}
	}
	return min(sum/float64(m.total), 1)
}

// Completed returns how many files have finished
func (m *Model) Completed() int {
	n := 0
	for _, f := range m.files {
		if f.done {
			n++
		}
	}
	return n
}

// View renders the UI
func (m *Model) View() string {
	if m.complete != nil && m.complete.Err == nil {
		return m.renderComplete()
	}
	return m.renderProgress()
}

// CompletionSummary returns the final summary for printing once the program exits.
// Returns empty string unless the run succeeded.
func (m *Model) CompletionSummary() string {
	if m.complete == nil || m.complete.Err != nil {
		return ""
	}
	return m.renderComplete()
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(violet).
		Render("Radspec")
	s.WriteString(title)
	s.WriteString("\n")

	workers := "1 worker"
	if m.workers > 1 {
		workers = fmt.Sprintf("%d workers", m.workers)
	}
	s.WriteString(lipgloss.NewStyle().Foreground(indigo).Render(
		fmt.Sprintf("Analysing %d videos in %s (%s)", m.total, m.dir, workers)))
	s.WriteString("\n\n")

	percent := m.Fraction()
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")

	elapsed := time.Since(m.startTime)
	timing := fmt.Sprintf("Files: %d / %d  │  Elapsed: %s", m.Completed(), m.total, formatDuration(elapsed))
	if percent > 0 && percent < 1 {
		eta := time.Duration(float64(elapsed)/percent) - elapsed
		timing += "  │  ETA: " + formatDuration(eta)
	}
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(timing))
	s.WriteString("\n")

	m.renderActive(&s)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(indigo).
		Padding(1, 2).
		Render(s.String())
}

// renderActive lists the files currently being decoded
func (m *Model) renderActive(s *strings.Builder) {
	var active []int
	for idx, f := range m.files {
		if !f.done {
			active = append(active, idx)
		}
	}
	if len(active) == 0 {
		return
	}
	sort.Ints(active)

	nameStyle := lipgloss.NewStyle().Foreground(cyan)
	faint := lipgloss.NewStyle().Faint(true)

	s.WriteString("\n")
	for _, idx := range active {
		f := m.files[idx]
		s.WriteString(nameStyle.Render(fmt.Sprintf("%-24s", truncate(f.name, 24))))
		s.WriteString(" ")
		if f.totalFrames > 0 {
			s.WriteString(m.fileBar.ViewAs(min(float64(f.frames)/float64(f.totalFrames), 1)))
			s.WriteString(faint.Render(fmt.Sprintf("  %d / %d frames", f.frames, f.totalFrames)))
		} else {
			s.WriteString(faint.Render(fmt.Sprintf("%d frames", f.frames)))
		}
		s.WriteString("\n")
	}
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(green).
		Render("✓ Analysis Complete!")
	s.WriteString(title)
	s.WriteString("\n\n")

	dimLabel := lipgloss.NewStyle().Faint(true)
	totalFrames := 0
	for _, r := range m.complete.Results {
		totalFrames += r.Frames
	}
	s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Input:    "), m.dir))
	s.WriteString(fmt.Sprintf("%s%d videos, %d frames\n", dimLabel.Render("Videos:   "), len(m.complete.Results), totalFrames))
	s.WriteString(fmt.Sprintf("%s%s\n\n", dimLabel.Render("Time:     "), formatDuration(m.complete.Elapsed)))

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(indigo)
	labelStyle := lipgloss.NewStyle().Faint(true)
	valueStyle := lipgloss.NewStyle()

	s.WriteString(headerStyle.Render("Per-video breakdown"))
	s.WriteString("\n")

	var longest time.Duration
	for _, r := range m.complete.Results {
		longest = max(longest, r.Elapsed)
	}
	if longest == 0 {
		longest = 1
	}

	for _, r := range m.complete.Results {
		s.WriteString(fmt.Sprintf("  %s%s  %s  %s\n",
			labelStyle.Render(fmt.Sprintf("%-24s", truncate(r.Name, 24))),
			valueStyle.Render(fmt.Sprintf("%5d frames  %4dx%-4d", r.Frames, r.Cols, r.Rows)),
			valueStyle.Render(fmt.Sprintf("~%-6s", formatDuration(r.Elapsed))),
			m.summaryBar.ViewAs(float64(r.Elapsed)/float64(longest))))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(indigo).
		Padding(1, 1).
		Render(s.String()) + "\n"
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
