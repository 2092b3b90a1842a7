// Package repl is the interactive terminal shell of the reminders app. It
// stands in for the main window: it shows the list, takes the add form as
// key=value pairs and exposes the menu entries as slash commands.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/notexe/reminders/internal/app"
	"github.com/notexe/reminders/internal/command"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/ui"
)

// Buffer of the list-changed subscription. Updates beyond it are dropped;
// the next one carries the full list anyway.
const listBuffer = 8

type REPL struct {
	app       *app.App
	rl        *readline.Instance
	out       io.Writer
	in        io.Reader
	formatter *ui.Formatter
	status    *ui.StatusDisplay
	logger    zerolog.Logger
}

func NewREPL(a *app.App, logger zerolog.Logger) (*REPL, error) {
	formatter := ui.NewFormatter(a.Config().UI.ColoredOutput, a.Config().App.Name)

	rl, err := setupReadline(formatter.FormatPrompt())
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	r := newREPL(a, rl.Stdout(), os.Stdin, formatter, logger)
	r.rl = rl
	return r, nil
}

func newREPL(a *app.App, out io.Writer, in io.Reader, formatter *ui.Formatter, logger zerolog.Logger) *REPL {
	return &REPL{
		app:       a,
		out:       out,
		in:        in,
		formatter: formatter,
		status:    ui.NewStatusDisplay(formatter, out, true),
		logger:    logger.With().Str("component", "repl").Logger(),
	}
}

// Start runs the read-eval loop until /quit, Ctrl+D or Ctrl+C.
func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	updates, cancel := r.app.Store().Subscribe(listBuffer)
	defer cancel()
	go r.watchList(updates)

	r.displayWelcome()
	r.openMain(ctx)

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		quit, err := r.execute(ctx, input)
		if err != nil {
			r.displayError(err)
		}
		if quit {
			return nil
		}
	}
}

func (r *REPL) Stop() {
	if r.rl != nil {
		r.rl.Close()
	}
}

// execute runs one line of input and reports whether the shell should exit.
func (r *REPL) execute(ctx context.Context, input string) (bool, error) {
	isCommand, name, args := r.parseCommand(input)
	if !isCommand {
		return false, fmt.Errorf("unknown input %q (commands start with /, type /help)", input)
	}

	switch name {
	case "/help", "/h":
		r.displayHelp()
		return false, nil
	case "/menus":
		r.displayMenus()
		return false, nil
	case "/menu", "/m":
		return r.pickTrayItem(ctx)
	}

	req, err := r.request(name, args)
	if err != nil {
		return false, err
	}
	return r.run(ctx, req)
}

// request maps a slash command to a dispatcher request.
func (r *REPL) request(name, args string) (command.Request, error) {
	switch name {
	case "/add", "/a":
		fields, err := parseFields(args)
		if err != nil {
			return command.Request{}, err
		}
		if len(fields) == 0 {
			return command.Request{}, errors.New("usage: /add key=value [key=value ...]")
		}
		return command.Request{Command: command.AddReminder, Record: app.RecordFromArgs(fields)}, nil

	case "/source", "/open":
		if args == "" {
			return command.Request{}, errors.New("usage: /source <path>")
		}
		return command.Request{Command: command.SetSource, Args: map[string]string{"path": unquote(args)}}, nil

	case "/load", "/reload":
		return command.Request{Command: command.LoadReminders}, nil

	case "/list", "/l":
		return command.Request{Command: command.ListReminders}, nil

	case "/tray":
		if args == "" {
			return command.Request{Command: command.ToggleKeepInTray}, nil
		}
		return command.Request{Command: command.SetKeepInTray, Args: map[string]string{"enabled": args}}, nil

	case "/settings":
		return command.Request{Command: command.ShowSettings}, nil

	case "/about":
		return command.Request{Command: command.About}, nil

	case "/quit", "/exit", "/q":
		return command.Request{Command: command.Quit}, nil
	}
	return command.Request{}, fmt.Errorf("unknown command: %s (type /help for available commands)", name)
}

func (r *REPL) run(ctx context.Context, req command.Request) (bool, error) {
	res, err := r.app.Dispatch(ctx, req)
	if err != nil {
		return false, err
	}
	r.displayResult(req.Command, res)
	return res.Quit, nil
}

// pickTrayItem shows the tray menu and dispatches the chosen entry, as a
// click on the tray icon would.
func (r *REPL) pickTrayItem(ctx context.Context) (bool, error) {
	items := r.app.TrayMenu()
	options := make([]ui.SelectorOption, len(items))
	for i, it := range items {
		options[i] = ui.SelectorOption{Label: it.Label, Description: it.Accelerator}
	}

	idx, err := ui.NewSelector(r.app.Config().App.Name, options, r.app.Config().UI.ColoredOutput).
		WithIO(r.in, r.out).
		Run()
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return false, nil
		}
		return false, err
	}
	return r.run(ctx, command.Request{Command: items[idx].Command})
}

func (r *REPL) openMain(ctx context.Context) {
	if _, err := r.run(ctx, command.Request{Command: command.OpenMain}); err != nil {
		r.displayError(err)
	}
}

// watchList re-renders the list whenever the store announces a change,
// including reloads triggered by an edit of the settings file.
func (r *REPL) watchList(updates <-chan reminder.ListChanged) {
	for ev := range updates {
		r.logger.Debug().
			Str("cause", string(ev.Cause)).
			Int("count", len(ev.Records)).
			Msg("reminder list changed")
		r.status.ShowWithNewline(fmt.Sprintf("Reminders updated (%s)", ev.Cause))
		r.displayRecords(ev.Records)
	}
}
