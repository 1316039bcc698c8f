package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Executables used for probing and decoding; overridable for tests and odd installs
var (
	FFprobePath = "ffprobe"
	FFmpegPath  = "ffmpeg"
)

type ffprobeStream struct {
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`

	SideData []struct {
		Rotation float64 `json:"rotation"`
	} `json:"side_data_list"`
	Tags struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
}

type ffprobeResult struct {
	Streams []ffprobeStream `json:"streams"`
}

// Probe runs ffprobe on the first video stream of filename
func Probe(ctx context.Context, filename string) (StreamInfo, error) {
	cmd := exec.CommandContext(ctx,
		FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,avg_frame_rate,nb_frames:stream_tags=rotate:stream_side_data=rotation",
		"-print_format", "json",
		filename,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return StreamInfo{}, fmt.Errorf("ffprobe failed: %w: %s", err, msg)
		}
		return StreamInfo{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(stdout.Bytes())
}

func parseProbe(data []byte) (StreamInfo, error) {
	var result ffprobeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return StreamInfo{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(result.Streams) == 0 {
		return StreamInfo{}, errors.New("no video stream found in file")
	}

	s := result.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return StreamInfo{}, fmt.Errorf("ffprobe reported invalid frame size %dx%d", s.Width, s.Height)
	}

	info := StreamInfo{
		Width:     s.Width,
		Height:    s.Height,
		Codec:     s.CodecName,
		FrameRate: parseRate(s.AvgFrameRate),
	}
	// nb_frames is "N/A" or absent for many containers
	if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
		info.Frames = n
	}
	info.Rotation = s.rotation()
	return info, nil
}

// rotation reads the display matrix, falling back to the legacy rotate tag
// older ffprobe builds emit
func (s ffprobeStream) rotation() int {
	for _, sd := range s.SideData {
		if sd.Rotation != 0 {
			return int(math.Round(sd.Rotation))
		}
	}
	if r, err := strconv.Atoi(s.Tags.Rotate); err == nil {
		return r
	}
	return 0
}

// parseRate converts ffprobe's "num/den" rate, returning 0 when unknown
func parseRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0
		}
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
