package cli

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/linuxmatters/radspec/internal/analysis"
)

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{40 * time.Millisecond, "40ms"},
		{2500 * time.Millisecond, "2.5s"},
	}
	for _, tc := range testCases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

// TestRunSummary verifies every video is listed in order with its frame
// count and resolution.
func TestRunSummary(t *testing.T) {
	results := []analysis.Result{
		{Name: "a.mov", Frames: 24, Rows: 1080, Cols: 1920, Elapsed: 3 * time.Second},
		{Name: "b.mov", Frames: 6, Rows: 480, Cols: 640, Elapsed: 200 * time.Millisecond},
	}
	summary := RunSummary(results, 4*time.Second)

	for _, want := range []string{"2 (30 frames)", "4.0s", "24 frames, 1920x1080, 3.0s", "6 frames, 640x480, 200ms"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Index(summary, "a.mov") > strings.Index(summary, "b.mov") {
		t.Error("videos are not listed in result order")
	}
}

// TestPrintInfo verifies the key and value both reach stdout
func TestPrintInfo(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	saved := os.Stdout
	os.Stdout = w
	PrintInfo("Videos", "3 matching *.mov")
	os.Stdout = saved
	w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	got := ansiPattern.ReplaceAllString(string(out), "")
	if want := "Videos: 3 matching *.mov\n"; got != want {
		t.Errorf("PrintInfo() wrote %q, want %q", got, want)
	}
}
