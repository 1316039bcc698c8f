package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/radspec/internal/config"
)

// Help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SpectrumViolet).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(SpectrumIndigo).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(SpectrumIndigo).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(SpectrumCyan).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(SpectrumGreen).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(Slate).
				Italic(true)
)

// helpEntry is one aligned line of a help section
type helpEntry struct {
	label string
	help  string
	note  string
}

// StyledHelpPrinter renders help for the radspec command line, including the
// config file keys that stand in for flags
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		fmt.Fprint(ctx.Stdout, renderHelp(ctx.Model))
		return nil
	}
}

func renderHelp(app *kong.Application) string {
	var sb strings.Builder

	sb.WriteString(helpTitleStyle.Render(AppName))
	sb.WriteString("\n")
	sb.WriteString(helpDescStyle.Render(AppDescription))
	sb.WriteString("\n")

	sb.WriteString(helpSectionStyle.Render("Usage:"))
	sb.WriteString("\n  " + usageLine(app) + "\n")

	writeSection(&sb, "Arguments:", helpArgStyle, positionalEntries(app))
	writeSection(&sb, "Flags:", helpFlagStyle, flagEntries(app))
	writeSection(&sb, "Config file:", helpArgStyle, configEntries())

	sb.WriteString("\n  Settings apply in order: built-in defaults, then the config file, then flags.\n")
	sb.WriteString("  A missing config file is ignored; an unknown key is an error.\n\n")
	return sb.String()
}

// usageLine shows optional positionals in brackets
func usageLine(app *kong.Application) string {
	parts := []string{app.Name}
	for _, arg := range app.Positional {
		if arg.Required {
			parts = append(parts, "<"+arg.Name+">")
		} else {
			parts = append(parts, "[<"+arg.Name+">]")
		}
	}
	return strings.Join(append(parts, "[flags]"), " ")
}

func positionalEntries(app *kong.Application) []helpEntry {
	var entries []helpEntry
	for _, arg := range app.Positional {
		entries = append(entries, helpEntry{label: arg.Summary(), help: arg.Help})
	}
	return entries
}

func flagEntries(app *kong.Application) []helpEntry {
	entries := []helpEntry{{label: "-h, --help", help: "Show this help"}}
	for _, f := range app.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		label := "    --" + f.Name
		if f.Short != 0 {
			label = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() {
			placeholder := f.PlaceHolder
			if placeholder == "" {
				placeholder = f.Name
			}
			label += "=" + strings.ToUpper(placeholder)
		}

		entry := helpEntry{label: label, help: f.Help}
		if f.HasDefault && !f.IsBool() && f.Default != "" {
			entry.note = "(default: " + f.Default + ")"
		}
		entries = append(entries, entry)
	}
	return entries
}

func configEntries() []helpEntry {
	var entries []helpEntry
	table := ""
	for _, k := range config.FileKeys() {
		if k.Table != table {
			table = k.Table
			entries = append(entries, helpEntry{label: "[" + table + "]"})
		}
		entries = append(entries, helpEntry{label: "  " + k.Name, help: k.Help})
	}
	return entries
}

// writeSection pads labels to a common width so the help text lines up
func writeSection(sb *strings.Builder, title string, labelStyle lipgloss.Style, entries []helpEntry) {
	if len(entries) == 0 {
		return
	}
	width := 0
	for _, e := range entries {
		width = max(width, len(e.label))
	}

	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(title))
	sb.WriteString("\n")
	for _, e := range entries {
		sb.WriteString("  ")
		if e.help == "" {
			sb.WriteString(labelStyle.Render(e.label))
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width, e.label)))
		sb.WriteString("  " + e.help)
		if e.note != "" {
			sb.WriteString(" " + helpDefaultStyle.Render(e.note))
		}
		sb.WriteString("\n")
	}
}
