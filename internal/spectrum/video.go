package spectrum

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/linuxmatters/radspec/internal/video"
)

// FrameCallback is called after each accumulated frame.
// totalFrames is the container's frame count, 0 when unknown.
type FrameCallback func(frames, totalFrames int)

// AccumulateVideo decodes every frame of the video at path and returns its
// average power spectrum and the number of frames read. The decoder is
// released before returning, whatever the outcome.
func AccumulateVideo(ctx context.Context, open video.OpenFunc, path string, onFrame FrameCallback) (Field, int, error) {
	dec, err := open(ctx, path)
	if err != nil {
		return Field{}, 0, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	defer dec.Close()

	totalFrames := dec.Info().Frames
	acc := NewAccumulator()

	for {
		if err := ctx.Err(); err != nil {
			return Field{}, acc.Frames(), err
		}

		frame, err := dec.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Field{}, acc.Frames(), fmt.Errorf("error reading frame %d of %s: %w", acc.Frames(), path, err)
		}
		if err := frame.Validate(); err != nil {
			return Field{}, acc.Frames(), fmt.Errorf("bad frame %d of %s: %w", acc.Frames(), path, err)
		}

		if err := acc.Add(Luma(frame)); err != nil {
			return Field{}, acc.Frames(), fmt.Errorf("%s: %w", path, err)
		}

		if onFrame != nil {
			onFrame(acc.Frames(), totalFrames)
		}
	}

	avg, err := acc.Average()
	if err != nil {
		return Field{}, 0, fmt.Errorf("%w: %s has no decodable frames", err, path)
	}
	return avg, acc.Frames(), nil
}
