package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// FFmpegDecoder implements Decoder by piping raw RGB frames out of an ffmpeg process.
// This supports any container and codec the local ffmpeg can decode.
type FFmpegDecoder struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	stderr    bytes.Buffer
	info      StreamInfo
	frameSize int

	waited  bool
	waitErr error
	closed  bool
}

// Open is an OpenFunc backed by ffprobe and ffmpeg
func Open(ctx context.Context, path string) (Decoder, error) {
	return NewFFmpegDecoder(ctx, path)
}

// NewFFmpegDecoder probes filename and starts an ffmpeg process decoding its
// first video stream. The file is checked before any process is started.
func NewFFmpegDecoder(ctx context.Context, filename string) (*FFmpegDecoder, error) {
	fi, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("failed to open video: %s is a directory", filename)
	}

	info, err := Probe(ctx, filename)
	if err != nil {
		return nil, err
	}

	d := &FFmpegDecoder{
		info:      info,
		frameSize: info.Width * info.Height * 3,
	}

	d.cmd = exec.CommandContext(ctx, FFmpegPath, ffmpegArgs(filename)...)
	d.cmd.Stderr = &d.stderr

	d.stdout, err = d.cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg pipe: %w", err)
	}
	if err := d.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return d, nil
}

// ffmpegArgs decodes the first video stream to packed RGB on stdout. Frames
// keep their coded size, matching what Probe reports, even when the
// container asks for display rotation.
func ffmpegArgs(filename string) []string {
	return []string{
		"-v", "error",
		"-nostdin",
		"-noautorotate",
		"-i", filename,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	}
}

// ReadFrame reads the next frame from the ffmpeg pipe.
// Returns io.EOF when ffmpeg has delivered every frame and exited cleanly.
func (d *FFmpegDecoder) ReadFrame() (Frame, error) {
	if d.closed {
		return Frame{}, errors.New("decoder is closed")
	}
	if d.waited {
		return Frame{}, io.EOF
	}

	frame := NewFrame(d.info.Width, d.info.Height)
	n, err := io.ReadFull(d.stdout, frame.Pix)
	switch {
	case err == nil:
		return frame, nil

	case errors.Is(err, io.EOF):
		// Stream ended on a frame boundary; ffmpeg's exit status decides
		if werr := d.wait(); werr != nil {
			return Frame{}, werr
		}
		return Frame{}, io.EOF

	case errors.Is(err, io.ErrUnexpectedEOF):
		if werr := d.wait(); werr != nil {
			return Frame{}, werr
		}
		return Frame{}, fmt.Errorf("truncated frame: got %d of %d bytes", n, d.frameSize)

	default:
		return Frame{}, fmt.Errorf("failed to read frame: %w", err)
	}
}

// Info returns the probed stream properties
func (d *FFmpegDecoder) Info() StreamInfo {
	return d.info
}

// Close stops ffmpeg if it is still running and reaps the process
func (d *FFmpegDecoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	if d.waited {
		return nil
	}

	// Early termination: ffmpeg may be blocked writing to a pipe nobody reads
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
	}
	_ = d.cmd.Wait()
	d.waited = true
	return nil
}

func (d *FFmpegDecoder) wait() error {
	if !d.waited {
		d.waitErr = d.cmd.Wait()
		d.waited = true
	}
	if d.waitErr == nil {
		return nil
	}
	if msg := strings.TrimSpace(d.stderr.String()); msg != "" {
		return fmt.Errorf("ffmpeg failed: %w: %s", d.waitErr, msg)
	}
	return fmt.Errorf("ffmpeg failed: %w", d.waitErr)
}
