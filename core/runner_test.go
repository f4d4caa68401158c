package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/balancedwrap"
	"github.com/termfx/balancedwrap/internal/config"
	"github.com/termfx/balancedwrap/internal/model"
	"github.com/termfx/balancedwrap/providers"
	"github.com/termfx/balancedwrap/providers/python"
)

const (
	underWrapped = "f(a,\n  b, c)\n"
	overWrapped  = "ok = ('foo' in\n    'foobar')\n"
	balanced     = "f(a, b, c)\ng(\n    a,\n    b,\n)\n"
)

func newTestRunner(opts Options) *Runner {
	registry := providers.NewRegistry()
	registry.Register(func() providers.Provider { return python.New() })
	if opts.Selection.Select == nil {
		opts.Selection = config.Selection{Select: []string{"BWR"}}
	}
	if opts.Include == nil {
		opts.Include = []string{"**/*.py"}
	}
	return NewRunner(registry, opts)
}

// memoryStore is an in-memory ResultStore that also records runs.
type memoryStore struct {
	mu       sync.Mutex
	entries  map[CacheKey][]Diagnostic
	lookups  int
	saves    int
	began    int
	finished *Summary
	failRead bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[CacheKey][]Diagnostic)}
}

func (s *memoryStore) Lookup(_ context.Context, key CacheKey) ([]Diagnostic, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.failRead {
		return nil, false, errors.New("store offline")
	}
	d, ok := s.entries[key]
	return d, ok, nil
}

func (s *memoryStore) Save(_ context.Context, key CacheKey, diagnostics []Diagnostic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.entries[key] = diagnostics
	return nil
}

func (s *memoryStore) BeginRun(context.Context) (string, error) {
	s.began++
	return "run-1", nil
}

func (s *memoryStore) FinishRun(_ context.Context, _ string, summary *Summary) error {
	s.finished = summary
	return nil
}

func TestRunner_Run(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pkg/under.py":    underWrapped,
		"pkg/over.py":     overWrapped,
		"pkg/ok.py":       balanced,
		"pkg/readme.md":   underWrapped,
		"pkg/broken.py":   "def f(:\n",
		"venv/ignored.py": underWrapped,
	})

	runner := newTestRunner(Options{Workers: 2, Exclude: []string{"**/venv/**"}})
	summary, err := runner.Run(context.Background(), []string{root})
	require.NoError(t, err)

	require.Len(t, summary.Files, 4)
	got := map[string]FileResult{}
	for _, res := range summary.Files {
		got[filepath.Base(res.Path)] = res
	}

	assert.Equal(t, []Diagnostic{{
		Line:    2,
		Column:  2,
		Code:    "BWR001",
		Message: "BWR001 Call is wrapped badly - 3 elements on the same line",
	}}, got["under.py"].Diagnostics)
	assert.Equal(t, "python", got["under.py"].Language)
	assert.Len(t, got["under.py"].Digest, 64)

	require.Len(t, got["over.py"].Diagnostics, 1)
	assert.Equal(t, "BWR002", got["over.py"].Diagnostics[0].Code)

	assert.Empty(t, got["ok.py"].Diagnostics)
	assert.False(t, got["ok.py"].Failed())

	assert.True(t, got["broken.py"].Failed())
	assert.Equal(t, model.ECParse, got["broken.py"].ErrorCode)

	assert.Equal(t, 3, summary.Checked)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, 2, summary.Violations)

	for i := 1; i < len(summary.Files); i++ {
		assert.Less(t, summary.Files[i-1].Path, summary.Files[i].Path)
	}
}

func TestRunner_ExplicitFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"script.py":  underWrapped,
		"notes.txt":  "hello",
		"nested.pyi": underWrapped,
	})
	script := filepath.Join(root, "script.py")

	runner := newTestRunner(Options{Include: []string{"*.pyi"}})
	summary, err := runner.Run(context.Background(), []string{
		script,
		script,
		filepath.Join(root, "notes.txt"),
		filepath.Join(root, "missing.py"),
	})
	require.NoError(t, err)
	require.Len(t, summary.Files, 3)

	codes := map[string]model.ErrorCode{}
	for _, res := range summary.Files {
		codes[filepath.Base(res.Path)] = res.ErrorCode
	}
	assert.Equal(t, model.ECNone, codes["script.py"])
	assert.Equal(t, model.ECUnsupportedLang, codes["notes.txt"])
	assert.Equal(t, model.ECIO, codes["missing.py"])
	assert.Equal(t, 1, summary.Violations)
}

func TestRunner_NoPaths(t *testing.T) {
	_, err := newTestRunner(Options{}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrNoFiles)
}

func TestRunner_Selection(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": underWrapped + overWrapped})

	tests := []struct {
		name      string
		selection config.Selection
		want      []string
	}{
		{"all", config.Selection{Select: []string{"BWR"}}, []string{"BWR001", "BWR002"}},
		{"select one", config.Selection{Select: []string{"BWR002"}}, []string{"BWR002"}},
		{"ignore wins", config.Selection{Select: []string{"BWR"}, Ignore: []string{"bwr001"}}, []string{"BWR002"}},
		{"none", config.Selection{Select: []string{"E"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := newTestRunner(Options{Selection: tt.selection}).Run(context.Background(), []string{root})
			require.NoError(t, err)
			require.Len(t, summary.Files, 1)

			var codes []string
			for _, d := range summary.Files[0].Diagnostics {
				codes = append(codes, d.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestRunner_Noqa(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py": "f(a,\n  b, c)  # noqa: BWR001\ng(a,\n  b, c)  # noqa: BWR002\nh(a,\n  b, c)  # NOQA\n",
	})

	summary, err := newTestRunner(Options{}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, summary.Files, 1)
	require.Len(t, summary.Files[0].Diagnostics, 1)
	assert.Equal(t, 4, summary.Files[0].Diagnostics[0].Line)
}

func TestRunner_MaxBytes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"big.py":   underWrapped + underWrapped,
		"small.py": "x = 1\n",
	})

	summary, err := newTestRunner(Options{MaxBytes: 10}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, summary.Files, 2)

	big := summary.Files[0]
	assert.Equal(t, "big.py", filepath.Base(big.Path))
	assert.Contains(t, big.Skipped, "max_bytes")
	assert.False(t, big.Failed())
	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 0, summary.Failures)
}

func TestRunner_Cache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": underWrapped})
	store := newMemoryStore()

	first, err := newTestRunner(Options{Store: store}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "run-1", first.RunID)
	assert.Same(t, first, store.finished)

	second, err := newTestRunner(Options{Store: store}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 1, second.CacheHits)
	assert.True(t, second.Files[0].Cached)
	assert.Equal(t, first.Files[0].Diagnostics, second.Files[0].Diagnostics)
	assert.Equal(t, 1, store.saves)

	for key := range store.entries {
		assert.Equal(t, balancedwrap.Version, key.EngineVersion)
	}

	// Cached raw diagnostics still go through suppression.
	quiet, err := newTestRunner(Options{
		Store:     store,
		Selection: config.Selection{Select: []string{"BWR"}, Ignore: []string{"BWR001"}},
	}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 1, quiet.CacheHits)
	assert.Empty(t, quiet.Files[0].Diagnostics)

	// Changed content misses.
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte(balanced), 0o644))
	changed, err := newTestRunner(Options{Store: store}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 0, changed.CacheHits)
	assert.Empty(t, changed.Files[0].Diagnostics)
}

func TestRunner_CacheErrorsAreNotFatal(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": underWrapped})
	store := newMemoryStore()
	store.failRead = true

	summary, err := newTestRunner(Options{Store: store}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Violations)
	assert.Equal(t, 0, summary.Failures)
}

func TestRunner_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": underWrapped})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(Options{}).Run(ctx, []string{root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Deterministic(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files[name+".py"] = underWrapped + overWrapped
	}
	writeTree(t, root, files)

	first, err := newTestRunner(Options{Workers: 1}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	second, err := newTestRunner(Options{Workers: 8}).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
}
