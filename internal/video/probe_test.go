package video

import (
	"math"
	"testing"
)

func TestParseProbe(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    StreamInfo
		wantErr bool
	}{
		{
			name: "prores with frame count",
			input: `{"streams":[{"codec_name":"prores","width":1920,"height":1080,
				"avg_frame_rate":"24000/1001","nb_frames":"240"}]}`,
			want: StreamInfo{Width: 1920, Height: 1080, Codec: "prores", FrameRate: 24000.0 / 1001.0, Frames: 240},
		},
		{
			name:  "frame count unavailable",
			input: `{"streams":[{"codec_name":"h264","width":640,"height":360,"avg_frame_rate":"30/1","nb_frames":"N/A"}]}`,
			want:  StreamInfo{Width: 640, Height: 360, Codec: "h264", FrameRate: 30},
		},
		{
			name: "phone clip rotated by display matrix",
			input: `{"streams":[{"codec_name":"hevc","width":1920,"height":1080,"avg_frame_rate":"30/1",
				"nb_frames":"90","side_data_list":[{"side_data_type":"Display Matrix","rotation":-90}]}]}`,
			want: StreamInfo{Width: 1920, Height: 1080, Codec: "hevc", FrameRate: 30, Frames: 90, Rotation: -90},
		},
		{
			name: "legacy rotate tag",
			input: `{"streams":[{"codec_name":"h264","width":1280,"height":720,"avg_frame_rate":"25/1",
				"tags":{"rotate":"90"}}]}`,
			want: StreamInfo{Width: 1280, Height: 720, Codec: "h264", FrameRate: 25, Rotation: 90},
		},
		{
			name:    "audio only file",
			input:   `{"streams":[]}`,
			wantErr: true,
		},
		{
			name:    "zero size",
			input:   `{"streams":[{"codec_name":"h264","width":0,"height":0}]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `Invalid data found when processing input`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseProbe([]byte(tc.input))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseProbe() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProbe() error = %v", err)
			}
			if got.Width != tc.want.Width || got.Height != tc.want.Height ||
				got.Codec != tc.want.Codec || got.Frames != tc.want.Frames || got.Rotation != tc.want.Rotation {
				t.Errorf("parseProbe() = %+v, want %+v", got, tc.want)
			}
			if math.Abs(got.FrameRate-tc.want.FrameRate) > 1e-9 {
				t.Errorf("FrameRate = %v, want %v", got.FrameRate, tc.want.FrameRate)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	testCases := map[string]float64{
		"25/1":       25,
		"30000/1001": 30000.0 / 1001.0,
		"0/0":        0,
		"":           0,
		"29.97":      29.97,
		"abc/1":      0,
	}
	for input, want := range testCases {
		if got := parseRate(input); math.Abs(got-want) > 1e-9 {
			t.Errorf("parseRate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFrameValidate(t *testing.T) {
	frame := NewFrame(4, 3)
	if err := frame.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	frame.Pix = frame.Pix[:len(frame.Pix)-1]
	if err := frame.Validate(); err == nil {
		t.Error("Validate() accepted a short buffer")
	}

	if err := (Frame{}).Validate(); err == nil {
		t.Error("Validate() accepted an empty frame")
	}
}

func TestFrameRGB(t *testing.T) {
	frame := NewFrame(2, 2)
	// pixel (1, 1) is the last one
	copy(frame.Pix[9:], []byte{10, 20, 30})

	r, g, b := frame.RGB(1, 1)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("RGB(1, 1) = (%d, %d, %d), want (10, 20, 30)", r, g, b)
	}
}
