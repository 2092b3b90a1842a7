package repl

import (
	"fmt"

	"github.com/notexe/reminders/internal/command"
	"github.com/notexe/reminders/internal/reminder"
)

func (r *REPL) displayResult(cmd command.Command, res command.Result) {
	switch cmd {
	case command.About:
		fmt.Fprintln(r.out, r.formatter.FormatBox("About", res.Message))
		fmt.Fprintln(r.out)
		return
	case command.ListReminders, command.OpenMain:
		r.displayRecords(res.Records)
	case command.AddReminder, command.SetSource, command.LoadReminders,
		command.SetKeepInTray, command.ToggleKeepInTray:
		if res.Message != "" {
			r.displaySuccess(res.Message)
		}
	default:
		if res.Message != "" {
			r.displaySystem(res.Message)
		}
	}

	if res.Settings != nil {
		fmt.Fprintln(r.out, r.formatter.FormatSettings(*res.Settings))
	}
	if res.Warning != nil {
		fmt.Fprintln(r.out, r.formatter.FormatWarning(res.Warning))
		fmt.Fprintln(r.out)
	}
}

func (r *REPL) displayRecords(records []reminder.Record) {
	fmt.Fprint(r.out, r.formatter.FormatRecords(records))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayMenus() {
	fmt.Fprint(r.out, r.formatter.FormatMenu("Application menu", r.app.ApplicationMenu()))
	fmt.Fprintln(r.out)
	if r.app.TrayEnabled() {
		fmt.Fprint(r.out, r.formatter.FormatMenu("Tray menu", r.app.TrayMenu()))
		fmt.Fprintln(r.out)
		return
	}
	r.displayInfo("Tray icon disabled (/tray on to enable at next launch).")
}

func (r *REPL) displayError(err error) {
	fmt.Fprintln(r.out, r.formatter.FormatError(err))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayWelcome() {
	cfg := r.app.Config()
	fmt.Fprint(r.out, r.formatter.FormatWelcome(cfg.App.Version, r.app.Store().Source()))
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r.out, r.formatter.FormatHelp())
}

func (r *REPL) displayInfo(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatInfo(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displaySuccess(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatSuccess(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displaySystem(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatSystem(msg))
	fmt.Fprintln(r.out)
}
