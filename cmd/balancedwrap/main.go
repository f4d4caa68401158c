package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/termfx/balancedwrap"
	"github.com/termfx/balancedwrap/internal/config"
	"github.com/termfx/balancedwrap/internal/model"
	"github.com/termfx/balancedwrap/providers"
)

// Exit codes.
const (
	exitClean      = 0
	exitViolations = 1
	exitError      = 2
)

// exitStatus ends a command with a specific exit code. A nil err means the
// outcome was already reported.
type exitStatus struct {
	code int
	err  error
}

func (e *exitStatus) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitStatus) Unwrap() error {
	return e.err
}

// app carries what every command needs.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	debug    bool
	logger   *slog.Logger
	registry *providers.Registry
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	// A missing .env file is fine
	_ = godotenv.Load()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return exitCode(root.Execute(), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitClean
	}
	var status *exitStatus
	if errors.As(err, &status) {
		if status.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", status.err)
		}
		return status.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		registry: newRegistry(),
	}

	check := newCheckCmd(a)
	root := &cobra.Command{
		Use:   "balancedwrap [paths...]",
		Short: "Check that code is wrapped in a balanced way",
		Long: `balancedwrap reports groups of arguments, parameters and collection items
that are neither on one line nor one per line (BWR001), and comparisons or
comprehensions split over several lines for no reason (BWR002).

Running it without a subcommand is the same as "balancedwrap check".`,
		Version:       balancedwrap.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogger()
		},
		RunE: check.RunE,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(balancedwrap.Name + " {{.Version}}\n")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	root.Flags().AddFlagSet(check.Flags())

	root.AddCommand(
		check,
		newCacheCmd(a),
		newLanguagesCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setupLogger() {
	level := slog.LevelInfo
	if v, ok := os.LookupEnv(config.EnvDebug); ok && (v == "1" || v == "true") {
		a.debug = true
	}
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves settings from the config file and the environment.
func (a *app) loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, model.Wrap(model.ECConfig, "cannot load config", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, model.Wrap(model.ECConfig, "invalid environment", err)
	}
	cfg.Debug = cfg.Debug || a.debug
	return cfg, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", balancedwrap.Name, balancedwrap.Version)
		},
	}
}
