package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/termfx/balancedwrap/core"
	"github.com/termfx/balancedwrap/db"
	"github.com/termfx/balancedwrap/internal/config"
	"github.com/termfx/balancedwrap/internal/model"
	"github.com/termfx/balancedwrap/internal/output"
)

type checkOptions struct {
	configPath     string
	selectCodes    []string
	ignoreCodes    []string
	include        []string
	exclude        []string
	format         string
	workers        int
	maxBytes       int64
	followSymlinks bool
	noCache        bool
	cacheDSN       string
	noColor        bool
}

func newCheckCmd(a *app) *cobra.Command {
	o := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check files and directories (default: current directory)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, o, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&o.configPath, "config", "c", "", "Config file (default: discovered in the working directory)")
	fs.StringSliceVar(&o.selectCodes, "select", nil, "Code prefixes to report, e.g. BWR or BWR001")
	fs.StringSliceVar(&o.ignoreCodes, "ignore", nil, "Code prefixes to suppress; wins over --select")
	fs.StringSliceVar(&o.include, "include", nil, "Glob patterns of files to check inside directories")
	fs.StringSliceVar(&o.exclude, "exclude", nil, "Glob patterns of files and directories to skip")
	fs.StringVarP(&o.format, "format", "f", "", "Output format: text or json")
	fs.IntVarP(&o.workers, "workers", "w", 0, "Number of concurrent workers (default: number of CPUs)")
	fs.Int64Var(&o.maxBytes, "max-bytes", 0, "Skip files larger than this many bytes")
	fs.BoolVar(&o.followSymlinks, "follow-symlinks", false, "Follow symbolic links while walking directories")
	fs.BoolVar(&o.noCache, "no-cache", false, "Do not read or write the result cache")
	fs.StringVar(&o.cacheDSN, "cache-dsn", "", "Cache database: a file path or a libsql:// URL")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	return cmd
}

// apply overrides cfg with the flags that were set explicitly.
func (o *checkOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("select") {
		cfg.Select = o.selectCodes
	}
	if fs.Changed("ignore") {
		cfg.Ignore = o.ignoreCodes
	}
	if fs.Changed("include") {
		cfg.Include = o.include
	}
	if fs.Changed("exclude") {
		cfg.Exclude = o.exclude
	}
	if fs.Changed("format") {
		cfg.Format = o.format
	}
	if fs.Changed("workers") {
		cfg.Workers = o.workers
	}
	if fs.Changed("max-bytes") {
		cfg.MaxBytes = o.maxBytes
	}
	if fs.Changed("follow-symlinks") {
		cfg.FollowSymlinks = o.followSymlinks
	}
	if o.noCache {
		cfg.Cache.Enabled = false
	}
	if fs.Changed("cache-dsn") {
		cfg.Cache.DSN = o.cacheDSN
	}
	if o.noColor {
		cfg.Color = false
	}
}

func (a *app) runCheck(cmd *cobra.Command, o *checkOptions, args []string) error {
	cfg, err := a.loadConfig(o.configPath)
	if err != nil {
		return &exitStatus{code: exitError, err: err}
	}
	o.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return &exitStatus{code: exitError, err: model.Wrap(model.ECConfig, "invalid flags", err)}
	}

	formatter, err := output.New(cfg.Format, cfg.Color)
	if err != nil {
		return &exitStatus{code: exitError, err: model.Wrap(model.ECConfig, "invalid flags", err)}
	}

	opts := core.Options{
		Workers:        cfg.Workers,
		MaxBytes:       cfg.MaxBytes,
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
		MaxDepth:       cfg.MaxDepth,
		FollowSymlinks: cfg.FollowSymlinks,
		Selection:      cfg.Selection(),
		Logger:         a.logger,
	}
	if cfg.Cache.Enabled {
		store, err := db.Open(cfg.Cache.DSN, cfg.Debug)
		if err != nil {
			a.logger.Warn("cache disabled", "code", model.ECCache, "dsn", cfg.Cache.DSN, "error", err)
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	summary, err := core.NewRunner(a.registry, opts).Run(ctx, paths)
	if err != nil {
		code := model.ECInternal
		if errors.Is(err, model.ErrNoFiles) {
			code = model.ECIO
		}
		return &exitStatus{code: exitError, err: model.Wrap(code, "check failed", err)}
	}
	a.logger.Debug("run finished",
		"run", summary.RunID,
		"files", len(summary.Files),
		"violations", summary.Violations,
		"cache_hits", summary.CacheHits,
		"duration", summary.Duration,
	)

	if err := formatter.Format(a.stdout, summary); err != nil {
		return &exitStatus{code: exitError, err: model.Wrap(model.ECIO, "cannot write output", err)}
	}

	switch {
	case summary.Failures > 0:
		return &exitStatus{code: exitError}
	case summary.Violations > 0:
		return &exitStatus{code: exitViolations}
	default:
		return nil
	}
}

// cacheDSN resolves the cache database for commands that only manage the
// cache.
func (a *app) cacheDSN(configPath, flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	cfg, err := a.loadConfig(configPath)
	if err != nil {
		return "", err
	}
	if cfg.Cache.DSN == "" {
		return config.DefaultCacheDSN, nil
	}
	if _, err := os.Stat(cfg.Cache.DSN); err != nil && !db.IsRemote(cfg.Cache.DSN) {
		return "", model.Wrap(model.ECCache, "no cache database", err)
	}
	return cfg.Cache.DSN, nil
}
