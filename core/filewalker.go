package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/termfx/balancedwrap/providers/catalog"
)

const unknownLanguage = "unknown"

// FileWalker finds the files to check below a directory. Listing runs on one
// goroutine; stat calls and language detection are spread over workers.
type FileWalker struct {
	workers int
}

// NewFileWalker returns a walker with the given number of stat workers.
// Zero or less picks twice the CPU count.
func NewFileWalker(workers int) *FileWalker {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &FileWalker{workers: workers}
}

// SourceFile is a file found by the walker. Language is "unknown" when no
// registered language claims the extension.
type SourceFile struct {
	Path     string
	Language string
	Size     int64
	Err      error
}

// Walk streams the files below scope.Path that pass the include and exclude
// patterns. The channel is closed when the walk ends or ctx is done.
func (fw *FileWalker) Walk(ctx context.Context, scope FileScope) (<-chan SourceFile, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	paths := make(chan string, fw.workers)
	files := make(chan SourceFile, fw.workers)

	go func() {
		defer close(paths)
		newScan(scope, paths).dir(ctx, scope.Path, 0)
	}()

	var wg sync.WaitGroup
	for range fw.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				select {
				case files <- inspect(path):
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(files)
	}()

	return files, nil
}

// Collect runs Walk to completion and returns the files sorted by path.
// Files that could not be stat'ed carry their error.
func (fw *FileWalker) Collect(ctx context.Context, scope FileScope) ([]SourceFile, error) {
	stream, err := fw.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}

	var files []SourceFile
	for file := range stream {
		files = append(files, file)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(files, func(a, b SourceFile) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

func inspect(path string) SourceFile {
	file := SourceFile{Path: path, Language: unknownLanguage}
	info, err := os.Stat(path)
	if err != nil {
		file.Err = err
		return file
	}
	file.Size = info.Size()
	if lang, ok := catalog.Detect(path); ok {
		file.Language = lang.ID
	}
	return file
}

// scan is the state of one directory walk.
type scan struct {
	scope   FileScope
	out     chan<- string
	sent    int
	visited map[string]struct{}
}

func newScan(scope FileScope, out chan<- string) *scan {
	s := &scan{scope: scope, out: out}
	if scope.FollowSymlinks {
		s.visited = map[string]struct{}{realPath(scope.Path): {}}
	}
	return s
}

func (s *scan) full() bool {
	return s.scope.MaxFiles > 0 && s.sent >= s.scope.MaxFiles
}

// dir lists one directory and descends into its subdirectories. It returns
// false once the whole walk has to stop.
func (s *scan) dir(ctx context.Context, path string, depth int) bool {
	if s.scope.MaxDepth > 0 && depth > s.scope.MaxDepth {
		return true
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		// Unreadable directories are skipped.
		return true
	}

	for _, entry := range entries {
		if ctx.Err() != nil || s.full() {
			return false
		}

		child := filepath.Join(path, entry.Name())
		if matchAny(s.scope.Path, child, s.scope.Exclude) {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(child)
			if err != nil {
				continue
			}
			isDir = info.IsDir()
			if isDir && !s.scope.FollowSymlinks {
				continue
			}
		}

		if isDir {
			if s.enter(child) && !s.dir(ctx, child, depth+1) {
				return false
			}
			continue
		}

		if len(s.scope.Include) > 0 && !matchAny(s.scope.Path, child, s.scope.Include) {
			continue
		}
		select {
		case s.out <- child:
			s.sent++
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// enter marks a directory as visited while following symlinks, so a link
// cycle is walked once.
func (s *scan) enter(path string) bool {
	if s.visited == nil {
		return true
	}
	resolved := realPath(path)
	if _, seen := s.visited[resolved]; seen {
		return false
	}
	s.visited[resolved] = struct{}{}
	return true
}

func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil && resolved != "" {
		return resolved
	}
	return path
}

func matchAny(root, path string, patterns []string) bool {
	for _, pattern := range patterns {
		if match(root, path, pattern) {
			return true
		}
	}
	return false
}

// match tries pattern against the path relative to root, then the full path,
// and for patterns without a slash the base name.
func match(root, path, pattern string) bool {
	candidates := []string{path}
	if rel, err := filepath.Rel(root, path); err == nil {
		candidates = append(candidates, rel)
	}
	if !strings.Contains(pattern, "/") {
		candidates = append(candidates, filepath.Base(path))
	}
	for _, candidate := range candidates {
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(candidate)); ok {
			return true
		}
	}
	return false
}

func validateScope(scope FileScope) error {
	if scope.Path == "" {
		return errors.New("path is required")
	}
	info, err := os.Stat(scope.Path)
	if err != nil {
		return fmt.Errorf("cannot access path %s: %w", scope.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", scope.Path)
	}
	for _, pattern := range slices.Concat(scope.Include, scope.Exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q", pattern)
		}
	}
	return nil
}
