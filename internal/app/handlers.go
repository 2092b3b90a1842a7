package app

import (
	"context"
	"fmt"

	"github.com/notexe/reminders/internal/command"
)

func (a *App) registerHandlers() {
	a.dispatcher.Register(command.OpenMain, a.handleOpenMain)
	a.dispatcher.Register(command.About, a.handleAbout)
	a.dispatcher.Register(command.AddReminder, a.handleAddReminder)
	a.dispatcher.Register(command.SetSource, a.handleSetSource)
	a.dispatcher.Register(command.LoadReminders, a.handleLoadReminders)
	a.dispatcher.Register(command.ListReminders, a.handleListReminders)
	a.dispatcher.Register(command.ToggleKeepInTray, a.handleToggleKeepInTray)
	a.dispatcher.Register(command.SetKeepInTray, a.handleSetKeepInTray)
	a.dispatcher.Register(command.ShowSettings, a.handleShowSettings)
	a.dispatcher.Register(command.Quit, a.handleQuit)
}

func (a *App) handleOpenMain(_ context.Context, _ command.Request) (command.Result, error) {
	return command.Result{
		Message: a.cfg.App.Name,
		Records: a.store.Records(),
		Warning: warning(a.store.LastError()),
	}, nil
}

func (a *App) handleAbout(_ context.Context, _ command.Request) (command.Result, error) {
	return command.Result{Message: a.About()}, nil
}

func (a *App) handleAddReminder(ctx context.Context, req command.Request) (command.Result, error) {
	rec := req.Record
	if len(rec) == 0 {
		rec = RecordFromArgs(req.Args)
	}
	if len(rec) == 0 {
		return command.Result{}, fmt.Errorf("%w: reminder fields", command.ErrMissingArgument)
	}

	records := a.store.Add(ctx, rec)
	return command.Result{
		Message: fmt.Sprintf("Reminder added (%d total).", len(records)),
		Records: records,
		Warning: a.store.LastError(),
	}, nil
}

func (a *App) handleSetSource(ctx context.Context, req command.Request) (command.Result, error) {
	path, err := req.Arg("path")
	if err != nil {
		return command.Result{}, err
	}

	a.store.SetSource(ctx, path)
	records := a.store.Records()
	return command.Result{
		Message: fmt.Sprintf("Data source set to %s (%d reminders).", path, len(records)),
		Records: records,
		Warning: warning(a.store.LastError()),
	}, nil
}

func (a *App) handleLoadReminders(ctx context.Context, _ command.Request) (command.Result, error) {
	a.store.Load(ctx)
	records := a.store.Records()
	return command.Result{
		Message: fmt.Sprintf("Loaded %d reminders.", len(records)),
		Records: records,
		Warning: warning(a.store.LastError()),
	}, nil
}

func (a *App) handleListReminders(_ context.Context, _ command.Request) (command.Result, error) {
	return command.Result{
		Records: a.store.Records(),
		Warning: warning(a.store.LastError()),
	}, nil
}

func (a *App) handleToggleKeepInTray(_ context.Context, _ command.Request) (command.Result, error) {
	keep, err := a.settings.ToggleKeepInTray()
	if err != nil {
		return command.Result{}, fmt.Errorf("failed to save keep-in-tray: %w", err)
	}
	return a.trayResult(keep), nil
}

func (a *App) handleSetKeepInTray(_ context.Context, req command.Request) (command.Result, error) {
	raw, err := req.Arg("enabled")
	if err != nil {
		return command.Result{}, err
	}
	keep, err := ParseSwitch(raw)
	if err != nil {
		return command.Result{}, err
	}
	if err := a.settings.SetKeepInTray(keep); err != nil {
		return command.Result{}, fmt.Errorf("failed to save keep-in-tray: %w", err)
	}
	return a.trayResult(keep), nil
}

func (a *App) trayResult(keep bool) command.Result {
	v := a.settings.Values()
	msg := "Keep in tray disabled; takes effect at next launch."
	if keep {
		msg = "Keep in tray enabled; takes effect at next launch."
	}
	return command.Result{Message: msg, Settings: &v}
}

func (a *App) handleShowSettings(_ context.Context, _ command.Request) (command.Result, error) {
	v := a.settings.Values()
	return command.Result{Settings: &v}, nil
}

func (a *App) handleQuit(_ context.Context, _ command.Request) (command.Result, error) {
	return command.Result{Message: "Goodbye!", Quit: true}, nil
}
