package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/reminders/internal/app"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/settings"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple
)

// Columns that lead the reminder table when present.
var leadingColumns = []string{"title", "date", "note"}

type Formatter struct {
	colored  bool
	appName  string
	wordWrap int
}

func NewFormatter(colored bool, appName string) *Formatter {
	if appName == "" {
		appName = "Reminders"
	}
	return &Formatter{
		colored:  colored,
		appName:  appName,
		wordWrap: 100,
	}
}

func (f *Formatter) FormatError(err error) string {
	prefix := "Error: "
	if f.colored {
		prefix = ErrorStyle.Render("Error: ")
	}
	return prefix + err.Error()
}

func (f *Formatter) FormatWarning(err error) string {
	prefix := "Warning: "
	if f.colored {
		prefix = WarningStyle.Render("Warning: ")
	}
	return prefix + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	if f.colored {
		return InfoStyle.Render(info)
	}
	return info
}

func (f *Formatter) FormatSuccess(msg string) string {
	if f.colored {
		return SuccessStyle.Render(msg)
	}
	return msg
}

func (f *Formatter) FormatSystem(msg string) string {
	if f.colored {
		return SystemStyle.Render(msg)
	}
	return msg
}

func (f *Formatter) FormatStatus(msg string) string {
	if f.colored {
		return StatusStyle.Render(msg)
	}
	return msg
}

// RecordsMarkdown builds a markdown table of the records in list order.
// The first column is the record's position.
func RecordsMarkdown(records []reminder.Record) string {
	if len(records) == 0 {
		return "_No reminders yet._\n"
	}

	cols := columns(records)

	var b strings.Builder
	b.WriteString("| # |")
	for _, c := range cols {
		b.WriteString(" " + escapeCell(c) + " |")
	}
	b.WriteString("\n|---|")
	for range cols {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for i, r := range records {
		fmt.Fprintf(&b, "| %d |", i+1)
		for _, c := range cols {
			cell := ""
			if v, ok := r[c]; ok && v != nil {
				cell = fmt.Sprint(v)
			}
			b.WriteString(" " + escapeCell(cell) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// columns returns the union of record keys: known fields first, the rest
// sorted.
func columns(records []reminder.Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r {
			seen[k] = true
		}
	}

	var cols []string
	for _, k := range leadingColumns {
		if seen[k] {
			cols = append(cols, k)
			delete(seen, k)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// FormatRecords renders the reminder list as a terminal table.
func (f *Formatter) FormatRecords(records []reminder.Record) string {
	md := RecordsMarkdown(records)

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(f.wordWrap)}
	if f.colored {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

func (f *Formatter) FormatSettings(v settings.Values) string {
	source := v.SourcePath
	if source == "" {
		source = "not set"
	}
	tray := "off"
	if v.KeepInTray {
		tray = "on"
	}

	if f.colored {
		label := DimStyle.Render
		value := SuccessStyle.Render
		return HeaderStyle.Render("Settings") + "\n" +
			label("  Data source:  ") + value(source) + "\n" +
			label("  Keep in tray: ") + value(tray) + "\n"
	}
	return "Settings\n" +
		"  Data source:  " + source + "\n" +
		"  Keep in tray: " + tray + "\n"
}

// FormatMenu renders a menu tree with accelerators and check marks.
func (f *Formatter) FormatMenu(title string, items []app.MenuItem) string {
	var b strings.Builder
	if f.colored {
		b.WriteString(HeaderStyle.Render(title))
	} else {
		b.WriteString(title)
	}
	b.WriteString("\n")
	f.writeMenu(&b, items, 1)
	return b.String()
}

func (f *Formatter) writeMenu(b *strings.Builder, items []app.MenuItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		if it.Type == app.ItemSeparator {
			line := indent + "----"
			if f.colored {
				line = DimStyle.Render(line)
			}
			b.WriteString(line + "\n")
			continue
		}

		label := it.Label
		if it.Type == app.ItemCheckbox {
			mark := "[ ] "
			if it.Checked {
				mark = "[x] "
			}
			label = mark + label
		}
		if f.colored && len(it.Submenu) > 0 {
			label = AccentStyle.Render(label)
		}
		b.WriteString(indent + label)

		if it.Accelerator != "" {
			acc := "  " + it.Accelerator
			if f.colored {
				acc = DimStyle.Render(acc)
			}
			b.WriteString(acc)
		}
		b.WriteString("\n")

		if len(it.Submenu) > 0 {
			f.writeMenu(b, it.Submenu, depth+1)
		}
	}
}

func (f *Formatter) FormatWelcome(version, source string) string {
	if source == "" {
		source = "not set (use /source <path>)"
	}

	if f.colored {
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

		subtitleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

		labelStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

		valueStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

		content := strings.Join([]string{
			titleStyle.Render(fmt.Sprintf("%s %s", f.appName, version)),
			labelStyle.Render("Source: ") + valueStyle.Render(source),
			"",
			subtitleStyle.Render("Type /help for commands"),
		}, "\n")

		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Render(content)

		return "\n" + box + "\n\n"
	}

	lines := []string{
		"",
		fmt.Sprintf("%s %s", f.appName, version),
		fmt.Sprintf("Source: %s", source),
		"Type /help for commands",
		"",
	}
	return strings.Join(lines, "\n") + "\n"
}

func (f *Formatter) FormatHelp() string {
	type entry struct{ cmd, desc string }
	sections := []struct {
		name    string
		entries []entry
	}{
		{"Reminders", []entry{
			{"/add key=value ...", "Add a reminder (quote values with spaces)"},
			{"/list", "Show all reminders"},
			{"/load", "Reload from the data source"},
			{"/source <path>", "Choose the data source file"},
		}},
		{"Settings", []entry{
			{"/tray [on|off]", "Keep the tray icon after closing windows"},
			{"/settings", "Show current settings"},
		}},
		{"General", []entry{
			{"/menu", "Pick an entry from the tray menu"},
			{"/menus", "Show the application and tray menus"},
			{"/about", "About this app"},
			{"/help", "Show this help"},
			{"/quit", "Exit"},
		}},
	}

	var lines []string
	if f.colored {
		cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
		descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)

		lines = append(lines, "", HeaderStyle.Render("Commands"))
		for _, s := range sections {
			lines = append(lines, "", sectionStyle.Render(s.name))
			for _, e := range s.entries {
				lines = append(lines, "  "+cmdStyle.Render(e.cmd)+" "+descStyle.Render(e.desc))
			}
		}
		lines = append(lines, "", DimStyle.Render("  Ctrl+C or Ctrl+D to exit"), "")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "", "Commands:")
	for _, s := range sections {
		for _, e := range s.entries {
			lines = append(lines, fmt.Sprintf("  %-20s - %s", e.cmd, e.desc))
		}
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// FormatPrompt returns a styled input prompt
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("reminders") + arrowStyle.Render(" > ")
	}
	return "reminders > "
}

// FormatBox wraps content in a styled box
func (f *Formatter) FormatBox(title, content string) string {
	if f.colored {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Render(content)
		return HeaderStyle.Render(title) + "\n" + box
	}
	return title + "\n" + content
}
