// Package cli wires config, logging and the session into the todo commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/session"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// exitCode lets a command choose the process exit status without printing.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

type globalFlags struct {
	configPath string
	theme      string
	locale     string
	filter     string
	logLevel   string
	logFile    string
}

// app is everything one invocation needs.
type app struct {
	cfg    *config.Config
	log    *log.Logger
	closer io.Closer
	sess   *session.Session
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	ui.Fail(cmd.ErrOrStderr(), err.Error())
	return 1
}

// NewRootCommand builds the command tree. Without a subcommand it opens the
// interactive list.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "A todo list that lives for one session",
		Long:          "todo keeps a list of items in memory while it runs. Nothing is saved when it exits.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.setup(cmd)
			if err != nil {
				return err
			}
			defer a.closer.Close()
			a.log.Info("session started", "locale", a.cfg.StoreLocale(), "theme", a.cfg.Theme)
			if err := ui.Run(a.sess, ui.Options{CharLimit: a.cfg.CharLimit, Logger: a.log}); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			done, pending := a.sess.Store().Stats()
			a.log.Info("session ended", "done", done, "pending", pending)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ./todo.toml or the user config dir)")
	pf.StringVar(&g.theme, "theme", "", "theme: classic, neon or mono")
	pf.StringVar(&g.locale, "locale", "", "locale for creation stamps, e.g. en-GB")
	pf.StringVar(&g.filter, "filter", "", "initial filter: all, complete or incomplete")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&g.logFile, "log-file", "", "append logs to this file")

	root.AddCommand(newRunCommand(g), newVersionCommand())
	return root
}

func newRunCommand(g *globalFlags) *cobra.Command {
	var opt Options
	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run script commands against a fresh list (reads stdin when no file or -)",
		Example: `  printf 'add Buy milk\nadd Walk the dog\ntoggle 1\nls\n' | todo run
  todo run --json plan.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.setup(cmd)
			if err != nil {
				return err
			}
			defer a.closer.Close()

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			r := NewRunner(a.sess, cmd.OutOrStdout(), cmd.ErrOrStderr(), opt)
			if code := r.RunScript(in); code != 0 {
				return exitCode(code)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opt.JSON, "json", false, "print ls output as JSON")
	cmd.Flags().BoolVar(&opt.Group, "group", false, "group ls output by pending/done")
	cmd.Flags().BoolVar(&opt.Strict, "strict", false, "stop at the first failing line")
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		fmt.Fprintln(c.OutOrStdout(), c.UsageString())
		PrintScriptHelp(c.OutOrStdout())
	})
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s\n", Version)
		},
	}
}

// setup loads config, applies flags on top and builds the session.
func (g *globalFlags) setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme = g.theme
	}
	if flags.Changed("locale") {
		cfg.Locale = g.locale
	}
	if flags.Changed("filter") {
		cfg.DefaultFilter = g.filter
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = g.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ui.SetTheme(cfg.Theme)
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("config loaded", "path", cfg.Source)
	}

	st := store.New(store.WithLocale(cfg.StoreLocale()), store.WithLogger(logger))
	return &app{
		cfg:    cfg,
		log:    logger,
		closer: closer,
		sess:   session.New(st, cfg.Filter(), logger),
	}, nil
}
