package video

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestNewFFmpegDecoder_MissingFile verifies that a nonexistent path fails
// before ffprobe or ffmpeg are started, so it works without either installed.
func TestNewFFmpegDecoder_MissingFile(t *testing.T) {
	saved := FFprobePath
	FFprobePath = filepath.Join(t.TempDir(), "no-such-ffprobe")
	defer func() { FFprobePath = saved }()

	_, err := NewFFmpegDecoder(context.Background(), filepath.Join(t.TempDir(), "missing.mov"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		t.Fatalf("decoder tried to run %s for a missing file: %v", execErr.Name, err)
	}
}

func TestNewFFmpegDecoder_Directory(t *testing.T) {
	if _, err := NewFFmpegDecoder(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error when opening a directory")
	}
}

// TestFFmpegArgs_KeepsCodedSize verifies ffmpeg is told not to apply display
// rotation. A rotated clip would otherwise arrive as Height x Width frames of
// the same byte count as the probed Width x Height, and be misread silently.
func TestFFmpegArgs_KeepsCodedSize(t *testing.T) {
	args := ffmpegArgs("clip.mov")

	noRotate, input := -1, -1
	for i, arg := range args {
		switch arg {
		case "-noautorotate":
			noRotate = i
		case "-i":
			input = i
		}
	}
	if noRotate < 0 {
		t.Fatalf("ffmpegArgs() = %v, missing -noautorotate", args)
	}
	// Input options only apply when given before -i
	if input < 0 || noRotate > input {
		t.Errorf("-noautorotate at %d must precede -i at %d", noRotate, input)
	}
	if args[input+1] != "clip.mov" {
		t.Errorf("input = %q, want clip.mov", args[input+1])
	}
}

// TestFFmpegDecoder_RoundTrip encodes a tiny synthetic clip with ffmpeg's
// lavfi colour source and decodes it back. Skipped when ffmpeg is missing.
func TestFFmpegDecoder_RoundTrip(t *testing.T) {
	if _, err := exec.LookPath(FFmpegPath); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath(FFprobePath); err != nil {
		t.Skip("ffprobe not available")
	}

	const (
		width  = 32
		height = 24
		frames = 5
	)

	clip := filepath.Join(t.TempDir(), "gray.mov")
	gen := exec.Command(FFmpegPath,
		"-v", "error", "-y",
		"-f", "lavfi", "-i", "color=c=gray:s=32x24:r=25",
		"-frames:v", "5",
		"-c:v", "png",
		clip,
	)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Fatalf("failed to generate clip: %v\n%s", err, out)
	}

	dec, err := NewFFmpegDecoder(context.Background(), clip)
	if err != nil {
		t.Fatalf("NewFFmpegDecoder() error = %v", err)
	}
	defer dec.Close()

	info := dec.Info()
	if info.Width != width || info.Height != height {
		t.Fatalf("Info() size = %dx%d, want %dx%d", info.Width, info.Height, width, height)
	}

	count := 0
	for {
		frame, err := dec.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadFrame() error = %v", err)
		}
		if err := frame.Validate(); err != nil {
			t.Fatalf("frame %d: %v", count, err)
		}
		r, g, b := frame.RGB(width/2, height/2)
		if r != g || g != b {
			t.Errorf("frame %d centre pixel = (%d, %d, %d), want neutral gray", count, r, g, b)
		}
		count++
	}

	if count != frames {
		t.Errorf("decoded %d frames, want %d", count, frames)
	}

	// Reads after EOF keep reporting EOF
	if _, err := dec.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadFrame() after EOF = %v, want io.EOF", err)
	}
}

// TestFFmpegDecoder_CloseEarly verifies that abandoning a stream part way
// releases the ffmpeg process instead of leaving it blocked on the pipe.
func TestFFmpegDecoder_CloseEarly(t *testing.T) {
	if _, err := exec.LookPath(FFmpegPath); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath(FFprobePath); err != nil {
		t.Skip("ffprobe not available")
	}

	clip := filepath.Join(t.TempDir(), "long.mov")
	gen := exec.Command(FFmpegPath,
		"-v", "error", "-y",
		"-f", "lavfi", "-i", "testsrc=s=64x48:r=25",
		"-frames:v", "200",
		"-c:v", "png",
		clip,
	)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Fatalf("failed to generate clip: %v\n%s", err, out)
	}

	dec, err := NewFFmpegDecoder(context.Background(), clip)
	if err != nil {
		t.Fatalf("NewFFmpegDecoder() error = %v", err)
	}
	if _, err := dec.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}

	if err := dec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if dec.cmd.ProcessState == nil {
		t.Fatal("ffmpeg process was not reaped by Close()")
	}
	if err := dec.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := dec.ReadFrame(); err == nil {
		t.Error("ReadFrame() after Close() returned no error")
	}
}
