package core

import (
	"context"
	"time"

	"github.com/termfx/balancedwrap/internal/model"
)

// FileScope defines which files to process in filesystem operations
type FileScope struct {
	Path           string   `json:"path"`                // Root path to scan
	Include        []string `json:"include,omitempty"`   // File patterns to include (*.py, **/*.pyi)
	Exclude        []string `json:"exclude,omitempty"`   // File patterns to exclude
	MaxDepth       int      `json:"max_depth,omitempty"` // Max directory depth (0 = unlimited)
	MaxFiles       int      `json:"max_files,omitempty"` // Max files to process (0 = unlimited)
	FollowSymlinks bool     `json:"follow_symlinks"`     // Follow symbolic links
}

// Diagnostic is one reported finding in a file.
type Diagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FileResult is the outcome of checking a single file.
type FileResult struct {
	Path        string          `json:"path"`
	Language    string          `json:"language,omitempty"`
	Digest      string          `json:"digest,omitempty"`
	Diagnostics []Diagnostic    `json:"diagnostics"`
	Cached      bool            `json:"cached,omitempty"`
	Skipped     string          `json:"skipped,omitempty"` // Reason the file was not analysed
	Error       string          `json:"error,omitempty"`
	ErrorCode   model.ErrorCode `json:"error_code,omitempty"`
}

// Failed reports whether the file could not be checked.
func (r FileResult) Failed() bool {
	return r.ErrorCode != model.ECNone
}

// Summary aggregates a whole run.
type Summary struct {
	RunID      string        `json:"run_id,omitempty"`
	Files      []FileResult  `json:"files"`
	Checked    int           `json:"checked"`
	Violations int           `json:"violations"`
	CacheHits  int           `json:"cache_hits"`
	Failures   int           `json:"failures"`
	Duration   time.Duration `json:"duration"`
}

// CacheKey identifies a cached analysis. A result is only reused for the
// same content checked by the same engine version.
type CacheKey struct {
	Path          string
	Digest        string
	EngineVersion string
}

// ResultStore persists analysis results between runs.
type ResultStore interface {
	Lookup(ctx context.Context, key CacheKey) ([]Diagnostic, bool, error)
	Save(ctx context.Context, key CacheKey, diagnostics []Diagnostic) error
}

// RunRecorder records run statistics. Stores that also implement it get
// told when a run starts and ends.
type RunRecorder interface {
	BeginRun(ctx context.Context) (string, error)
	FinishRun(ctx context.Context, runID string, summary *Summary) error
}
