//go:build stress

package stress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/termfx/balancedwrap/core"
	"github.com/termfx/balancedwrap/db"
	"github.com/termfx/balancedwrap/internal/config"
	"github.com/termfx/balancedwrap/providers"
	"github.com/termfx/balancedwrap/providers/python"
)

const module = `import os


def build(name, *args,
          flag=False, **kwargs):
    return Item(name, 'slug',
        display=name, visible=flag,
    )


values = [x for x in range(10)
          if x in os.environ]
`

func TestStressCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	const files = 200
	for i := range files {
		path := filepath.Join(dir, fmt.Sprintf("pkg%02d", i%10), fmt.Sprintf("mod%03d.py", i))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(strings.Repeat(module, 5)), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	store, err := db.Open(filepath.Join(dir, "cache.db"), false)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer store.Close()

	registry := providers.NewRegistry()
	registry.Register(func() providers.Provider { return python.New() })

	runner := core.NewRunner(registry, core.Options{
		Workers:   16,
		Include:   []string{"**/*.py"},
		Selection: config.Selection{Select: []string{"BWR"}},
		Store:     store,
	})

	ctx := context.Background()
	var baseline int
	for i := range 20 {
		summary, err := runner.Run(ctx, []string{dir})
		if err != nil {
			t.Fatalf("iteration %d check error: %v", i, err)
		}
		if summary.Failures != 0 || summary.Checked != files {
			t.Fatalf("iteration %d: checked=%d failures=%d", i, summary.Checked, summary.Failures)
		}
		if i == 0 {
			baseline = summary.Violations
			if baseline == 0 {
				t.Fatal("expected violations")
			}
			continue
		}
		if summary.Violations != baseline {
			t.Fatalf("iteration %d: violations=%d, want %d", i, summary.Violations, baseline)
		}
		if summary.CacheHits != files {
			t.Fatalf("iteration %d: cache hits=%d, want %d", i, summary.CacheHits, files)
		}
	}
}
