package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/termfx/balancedwrap"
	"github.com/termfx/balancedwrap/internal/config"
	"github.com/termfx/balancedwrap/internal/model"
	"github.com/termfx/balancedwrap/providers"
	"github.com/termfx/balancedwrap/providers/catalog"
)

// Options configures a Runner.
type Options struct {
	Workers        int
	MaxBytes       int64
	Include        []string
	Exclude        []string
	MaxDepth       int
	FollowSymlinks bool
	Selection      config.Selection
	// Store caches results between runs. Nil disables caching.
	Store  ResultStore
	Logger *slog.Logger
}

// Runner checks files in parallel.
type Runner struct {
	registry *providers.Registry
	walker   *FileWalker
	opts     Options
	logger   *slog.Logger
}

// NewRunner creates a runner over the languages in registry.
func NewRunner(registry *providers.Registry, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		registry: registry,
		walker:   NewFileWalker(0),
		opts:     opts,
		logger:   logger,
	}
}

type target struct {
	path     string
	language string
}

// Run checks every file named by paths. Directories are walked with the
// include and exclude globs; files named explicitly are always checked.
// Per-file failures are part of the summary, the returned error is only
// set when the run itself could not proceed.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	if len(paths) == 0 {
		return nil, model.ErrNoFiles
	}
	start := time.Now()

	summary := &Summary{}
	if recorder, ok := r.opts.Store.(RunRecorder); ok {
		id, err := recorder.BeginRun(ctx)
		if err != nil {
			r.logger.Warn("recording run failed", "error", err)
		}
		summary.RunID = id
	}

	targets, failed, err := r.expand(ctx, paths)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("files discovered", "count", len(targets), "workers", r.opts.Workers)

	results := r.process(ctx, targets)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results = append(results, failed...)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	summary.Files = results
	for _, res := range results {
		switch {
		case res.Failed():
			summary.Failures++
		case res.Skipped != "":
		default:
			summary.Checked++
		}
		if res.Cached {
			summary.CacheHits++
		}
		summary.Violations += len(res.Diagnostics)
	}
	summary.Duration = time.Since(start)

	if recorder, ok := r.opts.Store.(RunRecorder); ok && summary.RunID != "" {
		if err := recorder.FinishRun(ctx, summary.RunID, summary); err != nil {
			r.logger.Warn("recording run failed", "run", summary.RunID, "error", err)
		}
	}
	return summary, nil
}

// expand resolves paths to the files to check. Paths that cannot be used
// become failed results.
func (r *Runner) expand(ctx context.Context, paths []string) ([]target, []FileResult, error) {
	seen := make(map[string]struct{})
	var targets []target
	var failed []FileResult

	add := func(path, language string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		targets = append(targets, target{path: clean, language: language})
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			failed = append(failed, failure(path, model.Wrap(model.ECIO, "cannot access path", err)))
			continue
		}

		if !info.IsDir() {
			lang, ok := catalog.Detect(path)
			if !ok || !r.registry.Has(lang.ID) {
				failed = append(failed, failure(path, model.Wrap(
					model.ECUnsupportedLang,
					"cannot check file",
					fmt.Errorf("%w: %s", model.ErrUnsupportedLanguage, filepath.Ext(path)),
				)))
				continue
			}
			add(path, lang.ID)
			continue
		}

		found, err := r.walker.Collect(ctx, FileScope{
			Path:           path,
			Include:        r.opts.Include,
			Exclude:        r.opts.Exclude,
			MaxDepth:       r.opts.MaxDepth,
			FollowSymlinks: r.opts.FollowSymlinks,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, err
			}
			failed = append(failed, failure(path, model.Wrap(model.ECIO, "cannot walk directory", err)))
			continue
		}
		for _, f := range found {
			switch {
			case f.Err != nil:
				failed = append(failed, failure(f.Path, model.Wrap(model.ECIO, "cannot stat file", f.Err)))
			case r.registry.Has(f.Language):
				add(f.Path, f.Language)
			}
		}
	}
	return targets, failed, nil
}

// process fans targets out to the worker pool.
func (r *Runner) process(ctx context.Context, targets []target) []FileResult {
	jobs := make(chan target)
	out := make(chan FileResult, r.opts.Workers)

	var wg sync.WaitGroup
	for range min(r.opts.Workers, max(len(targets), 1)) {
		wg.Add(1)
		go r.worker(ctx, jobs, out, &wg)
	}

	go func() {
		defer close(jobs)
		for _, t := range targets {
			select {
			case <-ctx.Done():
				return
			case jobs <- t:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]FileResult, 0, len(targets))
	for res := range out {
		results = append(results, res)
	}
	return results
}

// worker owns its providers, one per language, since parsers cannot be
// shared between goroutines.
func (r *Runner) worker(ctx context.Context, jobs <-chan target, out chan<- FileResult, wg *sync.WaitGroup) {
	defer wg.Done()
	owned := make(map[string]providers.Provider)

	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-jobs:
			if !ok {
				return
			}
			p, ok := owned[t.language]
			if !ok {
				var err error
				if p, err = r.registry.New(t.language); err != nil {
					out <- failure(t.path, model.Wrap(model.ECUnsupportedLang, "cannot check file", err))
					continue
				}
				owned[t.language] = p
			}
			out <- r.checkFile(ctx, p, t)
		}
	}
}

// checkFile analyses one file. A panic inside the analysis is reported as
// an internal failure of that file only.
func (r *Runner) checkFile(ctx context.Context, p providers.Provider, t target) (res FileResult) {
	res = FileResult{Path: t.path, Language: t.language}
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("analysis panicked", "path", t.path, "panic", v)
			res = failure(t.path, model.Wrap(model.ECInternal, "internal error", fmt.Errorf("%v", v)))
			res.Language = t.language
		}
	}()

	src, err := r.read(t.path)
	if errors.Is(err, errTooLarge) {
		r.logger.Info("skipping file", "path", t.path, "reason", err)
		res.Skipped = err.Error()
		res.Diagnostics = []Diagnostic{}
		return res
	}
	if err != nil {
		return failure(t.path, model.Wrap(model.ECIO, "cannot read file", err))
	}

	sum := sha256.Sum256(src)
	res.Digest = hex.EncodeToString(sum[:])
	key := CacheKey{Path: t.path, Digest: res.Digest, EngineVersion: balancedwrap.Version}

	diagnostics, hit := r.lookup(ctx, key)
	if !hit {
		file, err := p.ParseContext(ctx, t.path, src)
		if err != nil {
			code := model.ECParse
			if ctx.Err() != nil {
				code = model.ECInternal
			}
			failed := failure(t.path, model.Wrap(code, "cannot parse file", err))
			failed.Language, failed.Digest = t.language, res.Digest
			return failed
		}
		diagnostics = []Diagnostic{}
		for report := range balancedwrap.Run(file) {
			diagnostics = append(diagnostics, Diagnostic{
				Line:    report.Line,
				Column:  report.Column,
				Code:    report.Code(),
				Message: report.Message,
			})
		}
		r.save(ctx, key, diagnostics)
	}

	res.Cached = hit
	res.Diagnostics = r.filter(src, diagnostics)
	return res
}

func (r *Runner) lookup(ctx context.Context, key CacheKey) ([]Diagnostic, bool) {
	if r.opts.Store == nil {
		return nil, false
	}
	diagnostics, ok, err := r.opts.Store.Lookup(ctx, key)
	if err != nil {
		r.logger.Warn("cache lookup failed", "path", key.Path, "error", err)
		return nil, false
	}
	return diagnostics, ok
}

func (r *Runner) save(ctx context.Context, key CacheKey, diagnostics []Diagnostic) {
	if r.opts.Store == nil {
		return
	}
	if err := r.opts.Store.Save(ctx, key, diagnostics); err != nil {
		r.logger.Warn("cache save failed", "path", key.Path, "error", err)
	}
}

// filter drops diagnostics that are suppressed inline or not selected.
func (r *Runner) filter(src []byte, diagnostics []Diagnostic) []Diagnostic {
	lines := bytes.Split(src, []byte("\n"))
	kept := make([]Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if !r.opts.Selection.Enabled(d.Code) {
			continue
		}
		if d.Line >= 1 && d.Line <= len(lines) && noqa(string(lines[d.Line-1]), d.Code) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

var errTooLarge = errors.New("file exceeds max_bytes")

func (r *Runner) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if r.opts.MaxBytes <= 0 {
		return io.ReadAll(f)
	}
	src, err := io.ReadAll(io.LimitReader(f, r.opts.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(src)) > r.opts.MaxBytes {
		return nil, fmt.Errorf("%w (%d)", errTooLarge, r.opts.MaxBytes)
	}
	return src, nil
}

func failure(path string, err error) FileResult {
	return FileResult{
		Path:        path,
		Diagnostics: []Diagnostic{},
		Error:       err.Error(),
		ErrorCode:   model.CodeOf(err),
	}
}
