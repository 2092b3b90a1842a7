package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/reminders/internal/app"
	"github.com/notexe/reminders/internal/command"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/settings"
)

func TestRecordsMarkdown(t *testing.T) {
	records := []reminder.Record{
		{"title": "Pay rent", "date": "2024-01-01"},
		{"title": "Call | mom", "priority": "high"},
	}

	want := "| # | title | date | priority |\n" +
		"|---|---|---|---|\n" +
		"| 1 | Pay rent | 2024-01-01 |  |\n" +
		"| 2 | Call \\| mom |  | high |\n"
	assert.Equal(t, want, RecordsMarkdown(records))
}

func TestRecordsMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "_No reminders yet._\n", RecordsMarkdown(nil))
}

func TestFormatRecords_Plain(t *testing.T) {
	f := NewFormatter(false, "Reminders")
	out := f.FormatRecords([]reminder.Record{{"title": "Pay rent"}})
	assert.Contains(t, out, "Pay rent")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestFormatSettings_Plain(t *testing.T) {
	f := NewFormatter(false, "")
	out := f.FormatSettings(settings.Values{SourcePath: "/tmp/r.json", KeepInTray: false})
	assert.Equal(t, "Settings\n  Data source:  /tmp/r.json\n  Keep in tray: off\n", out)
}

func TestFormatMenu_Plain(t *testing.T) {
	f := NewFormatter(false, "Reminders")
	items := []app.MenuItem{
		{Label: "File", Type: app.ItemNormal, Submenu: []app.MenuItem{
			{Label: "Reload", Type: app.ItemNormal, Accelerator: "CmdOrCtrl+R", Command: command.LoadReminders},
			{Type: app.ItemSeparator},
			{Label: "Keep in Tray", Type: app.ItemCheckbox, Checked: true},
		}},
	}

	want := "Menu\n" +
		"  File\n" +
		"    Reload  CmdOrCtrl+R\n" +
		"    ----\n" +
		"    [x] Keep in Tray\n"
	assert.Equal(t, want, f.FormatMenu("Menu", items))
}

func TestFormatter_PlainMessages(t *testing.T) {
	f := NewFormatter(false, "")
	assert.Equal(t, "Error: boom", f.FormatError(errors.New("boom")))
	assert.Equal(t, "Warning: careful", f.FormatWarning(errors.New("careful")))
	assert.Equal(t, "Reminder added (1 total).", f.FormatSuccess("Reminder added (1 total)."))
	assert.Equal(t, "reminders > ", f.FormatPrompt())
	assert.Contains(t, f.FormatWelcome("1.0.0", ""), "Reminders 1.0.0")
	assert.Contains(t, f.FormatWelcome("1.0.0", ""), "not set")
	assert.Contains(t, f.FormatHelp(), "/add key=value ...")
}

func TestFormatSuccess_Colored(t *testing.T) {
	f := NewFormatter(true, "")
	assert.Equal(t, SuccessStyle.Render("saved"), f.FormatSuccess("saved"))
	assert.Contains(t, f.FormatSuccess("saved"), "saved")
}

func TestSelector_Simple(t *testing.T) {
	options := []SelectorOption{{Label: "Open"}, {Label: "About"}, {Label: "Quit", Description: "CmdOrCtrl+Q"}}

	var out bytes.Buffer
	idx, err := NewSelector("Pick", options, false).WithIO(strings.NewReader("2\n"), &out).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "[3] Quit - CmdOrCtrl+Q")

	_, err = NewSelector("Pick", options, false).WithIO(strings.NewReader("7\n"), &out).Run()
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = NewSelector("Pick", options, false).WithIO(strings.NewReader(""), &out).Run()
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = NewSelector("Pick", nil, false).WithIO(strings.NewReader("1\n"), &out).Run()
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestStatusDisplay(t *testing.T) {
	var out bytes.Buffer
	s := NewStatusDisplay(NewFormatter(false, ""), &out, true)
	s.ShowWithNewline("saved")
	assert.Equal(t, "saved\n", out.String())

	out.Reset()
	NewStatusDisplay(NewFormatter(false, ""), &out, false).ShowWithNewline("saved")
	assert.Empty(t, out.String())
}
