package cli

import (
	"regexp"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type helpCLI struct {
	Dir     string `arg:"" name:"dir" help:"Directory of videos to analyse" optional:""`
	Workers int    `short:"j" help:"Videos analysed at once" placeholder:"N"`
	Config  string `short:"c" help:"TOML config file" default:"radspec.toml" placeholder:"FILE"`
	Verbose bool   `short:"v" help:"Log each video"`
}

func helpText(t *testing.T) string {
	t.Helper()
	var c helpCLI
	k, err := kong.New(&c, kong.Name("radspec"))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	return ansiPattern.ReplaceAllString(renderHelp(k.Model), "")
}

// TestRenderHelp_Interface verifies the usage line marks the directory as
// optional and flags carry their placeholders and defaults.
func TestRenderHelp_Interface(t *testing.T) {
	help := helpText(t)

	for _, want := range []string{
		"radspec [<dir>] [flags]",
		"Directory of videos to analyse",
		"-j, --workers=N",
		"-c, --config=FILE",
		"(default: radspec.toml)",
		"-h, --help",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
	if strings.Contains(help, "--verbose=") {
		t.Error("boolean flag rendered with a placeholder")
	}
}

// TestRenderHelp_ConfigFile verifies every config key is documented under
// its table along with the precedence order.
func TestRenderHelp_ConfigFile(t *testing.T) {
	help := helpText(t)

	start := strings.Index(help, "Config file:")
	if start < 0 {
		t.Fatalf("no config file section:\n%s", help)
	}
	section := help[start:]
	for _, want := range []string{"[input]", "dir", "Directory of videos, used when <dir> is not given", "[plot]", "png-height", "defaults, then the config file, then flags"} {
		if !strings.Contains(section, want) {
			t.Errorf("config section missing %q:\n%s", want, section)
		}
	}
	if strings.Index(section, "[input]") > strings.Index(section, "[plot]") {
		t.Error("tables are not listed in file order")
	}
}
