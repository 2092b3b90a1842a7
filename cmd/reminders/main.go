// Command reminders keeps a list of reminders in a JSON file.
//
// Usage:
//
//	reminders                     # interactive shell
//	reminders add title="Pay rent" date=2024-01-01
//	reminders list [--json]
//	reminders source ~/reminders.json
//	reminders tray [on|off]
//	reminders mcp                 # serve MCP tools over stdio
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/notexe/reminders/internal/app"
	"github.com/notexe/reminders/internal/command"
	"github.com/notexe/reminders/internal/config"
	"github.com/notexe/reminders/internal/logging"
	"github.com/notexe/reminders/internal/mcpserver"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/repl"
	"github.com/notexe/reminders/internal/settings"
	"github.com/notexe/reminders/internal/ui"
)

const serviceName = "reminders"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	debug      bool
	noColor    bool
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "reminders",
		Short:        "Keep a simple list of reminders in a JSON file",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.GetDefaultConfigPath(), "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newShellCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newSourceCmd(opts))
	rootCmd.AddCommand(newLoadCmd(opts))
	rootCmd.AddCommand(newTrayCmd(opts))
	rootCmd.AddCommand(newSettingsCmd(opts))
	rootCmd.AddCommand(newMCPCmd(opts))

	return rootCmd
}

// bootstrap loads configuration and settings and starts the app. The caller
// closes the returned app.
func (o *rootOptions) bootstrap(cmd *cobra.Command) (*app.App, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	if o.noColor {
		cfg.UI.ColoredOutput = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cfg.Log, serviceName, cmd.ErrOrStderr())

	st, err := settings.Load(cfg.Settings.File, logger)
	if err != nil {
		return nil, logger, fmt.Errorf("failed to load settings: %w", err)
	}

	a := app.New(cfg, st, logger)
	if err := a.Start(cmd.Context()); err != nil {
		_ = a.Close()
		return nil, logger, fmt.Errorf("failed to start: %w", err)
	}

	logger.Debug().
		Str("settings", cfg.Settings.File).
		Str("source", a.Store().Source()).
		Bool("tray", a.TrayEnabled()).
		Msg("app started")
	return a, logger, nil
}

// withApp runs fn against a started app and closes it afterwards.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(a *app.App, logger zerolog.Logger) error) error {
	a, logger, err := o.bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("shutdown incomplete")
		}
	}()
	return fn(a, logger)
}

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *rootOptions) error {
	return opts.withApp(cmd, func(a *app.App, logger zerolog.Logger) error {
		r, err := repl.NewREPL(a, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			r.Stop()
		}()

		return r.Start(ctx)
	})
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add key=value [key=value ...]",
		Short: "Append a reminder to the data source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make(map[string]string, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || strings.TrimSpace(key) == "" {
					return fmt.Errorf("invalid field %q (expected key=value)", arg)
				}
				fields[key] = value
			}

			return opts.dispatch(cmd, command.Request{
				Command: command.AddReminder,
				Record:  app.RecordFromArgs(fields),
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show all reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App, _ zerolog.Logger) error {
				res, err := a.Dispatch(cmd.Context(), command.Request{Command: command.ListReminders})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					data, err := reminder.Encode(res.Records)
					if err != nil {
						return fmt.Errorf("failed to encode reminders: %w", err)
					}
					_, err = fmt.Fprintln(out, string(data))
					return err
				}

				f := ui.NewFormatter(a.Config().UI.ColoredOutput, a.Config().App.Name)
				fmt.Fprint(out, f.FormatRecords(res.Records))
				printWarning(cmd.ErrOrStderr(), f, res.Warning)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reminders in the data file format")
	return cmd
}

func newSourceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "source <path>",
		Short: "Choose the JSON file reminders are stored in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.dispatch(cmd, command.Request{
				Command: command.SetSource,
				Args:    map[string]string{"path": config.ExpandPath(args[0])},
			})
		},
	}
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Reload reminders from the data source and report the count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.dispatch(cmd, command.Request{Command: command.LoadReminders})
		},
	}
}

func newTrayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "tray [on|off]",
		Short:     "Set or toggle whether the tray icon stays after windows close",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := command.Request{Command: command.ToggleKeepInTray}
			if len(args) == 1 {
				req = command.Request{
					Command: command.SetKeepInTray,
					Args:    map[string]string{"enabled": args[0]},
				}
			}
			return opts.dispatch(cmd, req)
		},
	}
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.dispatch(cmd, command.Request{Command: command.ShowSettings})
		},
	}
}

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the reminder tools over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App, logger zerolog.Logger) error {
				logger.Info().Msg("serving MCP over stdio")
				if err := mcpserver.NewServer(a).Serve(); err != nil {
					return fmt.Errorf("mcp server error: %w", err)
				}
				return nil
			})
		},
	}
}

// dispatch runs one command and prints its result.
func (o *rootOptions) dispatch(cmd *cobra.Command, req command.Request) error {
	return o.withApp(cmd, func(a *app.App, _ zerolog.Logger) error {
		res, err := a.Dispatch(cmd.Context(), req)
		if err != nil {
			return err
		}

		f := ui.NewFormatter(a.Config().UI.ColoredOutput, a.Config().App.Name)
		out := cmd.OutOrStdout()
		if res.Message != "" {
			fmt.Fprintln(out, res.Message)
		}
		if res.Settings != nil {
			fmt.Fprint(out, f.FormatSettings(*res.Settings))
		}
		printWarning(cmd.ErrOrStderr(), f, res.Warning)
		return nil
	})
}

func printWarning(w io.Writer, f *ui.Formatter, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, f.FormatWarning(err))
}
