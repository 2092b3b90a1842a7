// Package command maps user actions (menu items, tray items, typed commands,
// tool calls) to a fixed set of commands and dispatches them to handlers.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/settings"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

// Command is one user-triggerable action.
type Command int

const (
	OpenMain Command = iota + 1
	About
	AddReminder
	SetSource
	LoadReminders
	ListReminders
	ToggleKeepInTray
	SetKeepInTray
	ShowSettings
	Quit
)

var names = map[Command]string{
	OpenMain:         "open-main",
	About:            "about",
	AddReminder:      "add-reminder",
	SetSource:        "set-source",
	LoadReminders:    "load-reminders",
	ListReminders:    "list-reminders",
	ToggleKeepInTray: "toggle-keep-in-tray",
	SetKeepInTray:    "set-keep-in-tray",
	ShowSettings:     "show-settings",
	Quit:             "quit",
}

func (c Command) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Parse returns the command with the given name.
func Parse(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range names {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// Request carries a command and its inputs.
type Request struct {
	Command Command
	Args    map[string]string
	// Record is the submitted form for AddReminder.
	Record reminder.Record
}

// Arg returns the named argument or ErrMissingArgument.
func (r Request) Arg(name string) (string, error) {
	v, ok := r.Args[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	return v, nil
}

// Result is what a handler hands back to the surface that triggered it.
type Result struct {
	Message  string
	Records  []reminder.Record
	Settings *settings.Values
	// Warning is a non-fatal problem worth showing, e.g. a failed file write.
	Warning error
	Quit    bool
}

// Handler runs one command.
type Handler func(ctx context.Context, req Request) (Result, error)

// Dispatcher is the handler table.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Command]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Command]Handler)}
}

// Register sets the handler for c, replacing any earlier one.
func (d *Dispatcher) Register(c Command, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[c] = h
}

// Dispatch runs the handler registered for req.Command.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	d.mu.RLock()
	h, ok := d.handlers[req.Command]
	d.mu.RUnlock()
	if !ok || h == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, req.Command)
	}
	return h(ctx, req)
}

// Commands lists the registered commands in declaration order.
func (d *Dispatcher) Commands() []Command {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Command, 0, len(d.handlers))
	for c := range d.handlers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
