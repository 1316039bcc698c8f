package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/radspec/internal/analysis"
	"github.com/linuxmatters/radspec/internal/cli"
	"github.com/linuxmatters/radspec/internal/config"
	"github.com/linuxmatters/radspec/internal/plot"
	"github.com/linuxmatters/radspec/internal/ui"
	"github.com/linuxmatters/radspec/internal/video"
	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

// Zero values mean "not given" so the config file can supply them
var CLI struct {
	Dir        string `arg:"" name:"dir" help:"Directory of videos to analyse" optional:""`
	Pattern    string `short:"p" help:"File name glob matched in the directory (default *.mov)" placeholder:"GLOB"`
	Workers    int    `short:"j" help:"Videos analysed at once (default 1)" placeholder:"N"`
	Config     string `short:"c" help:"TOML config file, ignored when missing" default:"radspec.toml" placeholder:"FILE"`
	PNG        string `help:"Also write the chart to this PNG file" placeholder:"FILE"`
	Width      int    `help:"Plot width in cells (default: terminal width)" placeholder:"CELLS"`
	Height     int    `help:"Plot height in rows" placeholder:"ROWS"`
	NoProgress bool   `help:"Disable the progress display"`
	Verbose    bool   `short:"v" help:"Log each video as it is analysed"`
	Version    bool   `help:"Show version information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("radspec"),
		kong.Description(cli.AppDescription),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	os.Exit(run())
}

func run() int {
	cfg, err := resolveConfig()
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	logger := newLogger(CLI.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	paths, err := analysis.FindInputs(cfg.InputDir, cfg.Pattern)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	start := time.Now()
	var results []analysis.Result
	if useProgressUI() {
		results, err = runWithUI(ctx, cfg, paths, logger)
	} else {
		cli.PrintInfo("Input", cfg.InputDir)
		cli.PrintInfo("Videos", fmt.Sprintf("%d matching %s, %d at a time", len(paths), cfg.Pattern, max(cfg.Workers, 1)))
		results, err = analysis.RunFiles(ctx, cfg, paths, video.Open, logger, nil)
		if err == nil {
			cli.PrintRunSummary(results, time.Since(start))
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			cli.PrintError("analysis cancelled")
		} else {
			cli.PrintError(fmt.Sprintf("analysing videos: %v", err))
		}
		return 1
	}

	chart := plot.NewChart(results, cfg.Palette)
	drawn, err := drawCharts(os.Stdout, chart, cfg)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}
	if !drawn {
		cli.PrintWarning("every spectrum is zero, nothing to draw on log axes")
	} else if cfg.PNGPath != "" {
		cli.PrintSuccess(fmt.Sprintf("Chart saved: %s", cfg.PNGPath))
	}

	return 0
}

// drawCharts plots chart to out and, when configured, to a PNG. A chart with
// no positive values is reported as not drawn rather than as an error, and
// then no PNG is written either.
func drawCharts(out io.Writer, chart plot.Chart, cfg config.Config) (bool, error) {
	if err := plot.Terminal(out, chart, cfg.PlotWidth, cfg.PlotHeight); err != nil {
		if errors.Is(err, plot.ErrNothingToPlot) {
			return false, nil
		}
		return false, fmt.Errorf("plotting: %w", err)
	}

	if cfg.PNGPath != "" {
		if err := plot.PNG(cfg.PNGPath, chart, cfg.PNGWidth, cfg.PNGHeight); err != nil {
			return true, fmt.Errorf("writing chart: %w", err)
		}
	}
	return true, nil
}

// resolveConfig layers built-in defaults, the config file and flags, in
// that order of precedence
func resolveConfig() (config.Config, error) {
	cfg := config.Default()

	fc, err := config.LoadFile(CLI.Config)
	if err != nil {
		return cfg, err
	}
	if err := fc.Apply(&cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", CLI.Config, err)
	}

	if CLI.Dir != "" {
		cfg.InputDir = CLI.Dir
	}
	if CLI.Pattern != "" {
		cfg.Pattern = CLI.Pattern
	}
	if CLI.Workers != 0 {
		cfg.Workers = CLI.Workers
	}
	if CLI.PNG != "" {
		cfg.PNGPath = CLI.PNG
	}
	if CLI.Width != 0 {
		cfg.PlotWidth = CLI.Width
	}
	if CLI.Height != 0 {
		cfg.PlotHeight = CLI.Height
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger writes to stderr. Quiet unless verbose because the progress
// display owns the terminal.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
			NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
		}),
	)
}

func useProgressUI() bool {
	return !CLI.NoProgress && !CLI.Verbose && term.IsTerminal(int(os.Stdout.Fd()))
}

func runWithUI(ctx context.Context, cfg config.Config, paths []string, logger *slog.Logger) ([]analysis.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel()
	p := tea.NewProgram(model, tea.WithAltScreen())

	var results []analysis.Result
	var runErr error
	done := make(chan struct{})

	// Run analysis in a goroutine and send progress updates
	go func() {
		defer close(done)
		start := time.Now()
		p.Send(ui.RunStarted{Dir: cfg.InputDir, Files: len(paths), Workers: cfg.Workers})

		results, runErr = analysis.RunFiles(ctx, cfg, paths, video.Open, logger, func(pr analysis.Progress) {
			p.Send(pr)
		})

		p.Send(ui.RunComplete{Results: results, Elapsed: time.Since(start), Err: runErr})
	}()

	// Run the Bubbletea UI
	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("running UI: %w", err)
	}

	// The UI also exits on ctrl+c, before the analysis has finished
	cancel()
	<-done

	if runErr != nil {
		return nil, runErr
	}
	// The alt screen is gone once the program exits, so print the summary again
	fmt.Print(model.CompletionSummary())
	return results, nil
}
