// Package analysis runs the spectral pipeline over every video in a directory.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/linuxmatters/radspec/internal/config"
	"github.com/linuxmatters/radspec/internal/spectrum"
	"github.com/linuxmatters/radspec/internal/video"
	"golang.org/x/sync/errgroup"
)

// Result holds the radial power spectrum of one video
type Result struct {
	Name string // File name, used as the plot label
	Path string

	Frames int
	Rows   int // Spectrum (frame) height
	Cols   int // Spectrum (frame) width

	// Parallel sequences indexed by radius in pixels
	Frequencies []float64 // cycles/pixel
	Powers      []float64

	Elapsed time.Duration
}

// Stage identifies a progress event
type Stage int

const (
	StageStarted Stage = iota
	StageFrames
	StageDone
)

// Progress reports the state of one file
type Progress struct {
	Stage Stage

	Index int // Position in scan order
	Total int // Files in the run
	Name  string

	Frames      int
	TotalFrames int // Container frame count, 0 when unknown
	Elapsed     time.Duration

	Result *Result // Set for StageDone
}

// ProgressFunc receives progress updates.
// With more than one worker it is called from several goroutines.
type ProgressFunc func(Progress)

// Run analyses every file in cfg.InputDir matching cfg.Pattern and returns
// one Result per file in lexicographic order.
func Run(ctx context.Context, cfg config.Config, open video.OpenFunc, logger *slog.Logger, onProgress ProgressFunc) ([]Result, error) {
	paths, err := FindInputs(cfg.InputDir, cfg.Pattern)
	if err != nil {
		return nil, err
	}
	return RunFiles(ctx, cfg, paths, open, logger, onProgress)
}

// RunFiles analyses paths with up to cfg.Workers files in flight. Results
// keep the order of paths. The first failure cancels the remaining work and
// no partial results are returned.
func RunFiles(ctx context.Context, cfg config.Config, paths []string, open video.OpenFunc, logger *slog.Logger, onProgress ProgressFunc) ([]Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s matching %q", ErrNoInputs, cfg.InputDir, cfg.Pattern)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := max(cfg.Workers, 1)
	every := max(cfg.ProgressEvery, 1)

	logger.Info("analysing videos", "dir", cfg.InputDir, "pattern", cfg.Pattern, "count", len(paths), "workers", workers)

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := analyzeFile(gctx, open, path, i, len(paths), every, logger, onProgress)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Cancelled before any file was scheduled
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func analyzeFile(ctx context.Context, open video.OpenFunc, path string, index, total, every int, logger *slog.Logger, onProgress ProgressFunc) (Result, error) {
	name := filepath.Base(path)
	start := time.Now()

	report := func(p Progress) {
		if onProgress == nil {
			return
		}
		p.Index = index
		p.Total = total
		p.Name = name
		p.Elapsed = time.Since(start)
		onProgress(p)
	}

	logger.Debug("analysing video", "path", path, "index", index+1, "total", total)
	report(Progress{Stage: StageStarted})

	avg, frames, err := spectrum.AccumulateVideo(ctx, open, path, func(done, totalFrames int) {
		if done%every == 0 {
			report(Progress{Stage: StageFrames, Frames: done, TotalFrames: totalFrames})
		}
	})
	if err != nil {
		return Result{}, err
	}

	powers := spectrum.RadialProfile(avg)
	res := Result{
		Name:        name,
		Path:        path,
		Frames:      frames,
		Rows:        avg.Rows,
		Cols:        avg.Cols,
		Frequencies: spectrum.FrequencyAxis(len(powers), avg.Rows, avg.Cols),
		Powers:      powers,
		Elapsed:     time.Since(start),
	}

	logger.Info("video analysed",
		"file", name,
		"frames", frames,
		"size", fmt.Sprintf("%dx%d", res.Cols, res.Rows),
		"bins", len(powers),
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	report(Progress{Stage: StageDone, Frames: frames, TotalFrames: frames, Result: &res})

	return res, nil
}
