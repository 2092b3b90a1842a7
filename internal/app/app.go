// Package app owns the running application: user settings, the reminder
// store and the command handler table. There is one App per process; it is
// built at startup and closed at exit.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/notexe/reminders/internal/command"
	"github.com/notexe/reminders/internal/config"
	"github.com/notexe/reminders/internal/queue"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/settings"
)

type App struct {
	cfg        *config.Config
	settings   *settings.Settings
	store      *reminder.Store
	dispatcher *command.Dispatcher
	logger     zerolog.Logger
	goos       string

	baseCtx context.Context
	cancel  context.CancelFunc
}

// New builds the store on top of st and registers every command handler.
func New(cfg *config.Config, st *settings.Settings, logger zerolog.Logger) *App {
	store := reminder.NewStore(reminder.Options{
		Logger:      logger,
		SourceSaver: st,
		Queue: queue.Config{
			QueueSize:      cfg.Queue.Size,
			EnqueueTimeout: cfg.Queue.EnqueueTimeout(),
		},
	})

	a := &App{
		cfg:        cfg,
		settings:   st,
		store:      store,
		dispatcher: command.NewDispatcher(),
		logger:     logger.With().Str("component", "app").Logger(),
		goos:       runtime.GOOS,
	}
	a.registerHandlers()
	return a
}

func (a *App) Store() *reminder.Store          { return a.store }
func (a *App) Settings() *settings.Settings    { return a.settings }
func (a *App) Dispatcher() *command.Dispatcher { return a.dispatcher }
func (a *App) Config() *config.Config          { return a.cfg }

// Dispatch runs one command through the handler table.
func (a *App) Dispatch(ctx context.Context, req command.Request) (command.Result, error) {
	return a.dispatcher.Dispatch(ctx, req)
}

// Start loads reminders from the saved source path, if any, and follows
// later edits of the settings file.
func (a *App) Start(ctx context.Context) error {
	a.baseCtx, a.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if path := a.settings.SourcePath(); path != "" {
		a.store.Open(ctx, path)
	} else {
		a.logger.Info().Msg("no data source configured yet")
	}

	path := a.settings.Path()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		a.logger.Debug().Str("path", path).Msg("settings file not present, not watching")
		return nil
	}
	if err := a.settings.Watch(a.onSettingsChanged); err != nil {
		return fmt.Errorf("failed to watch settings: %w", err)
	}
	return nil
}

// TrayEnabled reports whether a tray icon should be created at launch.
func (a *App) TrayEnabled() bool {
	return a.settings.KeepInTray()
}

// Close stops watching settings and drains the store.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	var errs []error
	if err := a.settings.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop settings watch: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) onSettingsChanged(v settings.Values) {
	if v.SourcePath == "" || v.SourcePath == a.store.Source() {
		return
	}
	a.logger.Info().Str("path", v.SourcePath).Msg("source path changed in settings")
	a.store.Open(a.baseCtx, v.SourcePath)
}

// About returns the text of the about window.
func (a *App) About() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", a.cfg.App.Name, a.cfg.App.Version)
	b.WriteString("Keep a simple list of reminders in a JSON file of your choice.\n")
	if src := a.store.Source(); src != "" {
		fmt.Fprintf(&b, "Data source: %s\n", src)
	} else {
		b.WriteString("Data source: not set\n")
	}
	if p := a.settings.Path(); p != "" {
		fmt.Fprintf(&b, "Settings: %s\n", p)
	}
	return b.String()
}

// RecordFromArgs turns form fields into a record. Keys are trimmed; empty
// keys are dropped. When two keys trim to the same name, the one that sorts
// last wins.
func RecordFromArgs(args map[string]string) reminder.Record {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := reminder.Record{}
	for _, k := range keys {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		r[key] = args[k]
	}
	return r
}

// ParseSwitch accepts on/off style values as well as strconv booleans.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid switch value %q (use on or off)", s)
	}
	return b, nil
}

// warning hides the expected "no file yet" condition of a first run.
func warning(err error) error {
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
