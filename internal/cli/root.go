// Package cli is the formpost command tree. Execute returns a process
// exit code: 0 ok, 1 error, 2 usage or validation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/formpost/internal/config"
	"github.com/idilsaglam/formpost/internal/credentials"
	"github.com/idilsaglam/formpost/internal/logging"
	"github.com/idilsaglam/formpost/internal/submit"
	"github.com/idilsaglam/formpost/internal/tui"
	"github.com/idilsaglam/formpost/internal/ui"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// codeError carries a specific exit code out of a RunE.
type codeError struct {
	code int
	err  error
}

func (e *codeError) Error() string { return e.err.Error() }
func (e *codeError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &codeError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

// silentExit ends the command with code after the message was already
// shown.
type silentExit int

func (e silentExit) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

type app struct {
	ctx     context.Context
	cfgFile string
	verbose bool
	color   bool
	noColor bool

	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the command line in args and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{ctx: ctx}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return exitOK
	}

	var se silentExit
	if errors.As(err, &se) {
		return int(se)
	}
	fmt.Fprintln(stderr, ui.Failure(err.Error()))
	var ce *codeError
	if errors.As(err, &ce) {
		if ce.code == exitUsage {
			fmt.Fprintln(stderr, ui.Muted("Run `formpost --help` for usage."))
		}
		return ce.code
	}
	return exitError
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formpost",
		Short: "Post a name and email to any HTTP endpoint",
		Long: `formpost collects a name and an email, lets you pick an HTTP endpoint,
and POSTs {"name","email"} as JSON with your stored cookies attached.

Run without arguments to open the interactive form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runForm()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &codeError{code: exitUsage, err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $FORMPOST_HOME/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.color, "color", false, "force colored output")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	pf.String("log-file", "", "write logs to this file")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("theme", "", "start-up theme (dark, light)")
	pf.String("endpoint", "", "API endpoint to post to")

	root.AddCommand(a.newSubmitCmd(), a.newCookiesCmd(), a.newConfigCmd())
	return root
}

// setup loads configuration and builds the logger. Without a log file,
// subcommands log to stderr only with --verbose; the interactive form owns
// the terminal and never does.
func (a *app) setup(cmd *cobra.Command) error {
	if a.color || a.noColor {
		ui.SetColorForcing(a.color, a.noColor)
	}
	cfg, err := config.Load(config.Options{File: a.cfgFile, Flags: cmd.Flags()})
	if err != nil {
		return &codeError{code: exitUsage, err: err}
	}
	a.cfg = cfg

	fallback := ""
	if a.verbose && cmd.HasParent() {
		fallback = "stderr"
	}
	logger, err := logging.New(logging.Options{
		File:     cfg.Log.File,
		Fallback: fallback,
		Level:    cfg.Log.Level,
		Verbose:  a.verbose,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// newClient builds a submit client whose jar holds the stored cookies.
func (a *app) newClient() (*submit.Client, error) {
	store, err := credentials.DefaultStore()
	if err != nil {
		return nil, err
	}
	cookies, err := store.Resolve()
	if err != nil {
		return nil, fmt.Errorf("cookies: %w", err)
	}
	jar, err := credentials.NewJar(cookies)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("cookie jar ready", zap.Int("cookies", len(cookies)))
	return submit.NewClient(jar, a.logger), nil
}

func (a *app) runForm() error {
	client, err := a.newClient()
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Client:        client,
		Theme:         a.cfg.StartTheme(),
		Endpoint:      a.cfg.Endpoint,
		ToastDuration: a.cfg.ToastDuration,
		Context:       a.ctx,
	})
}
