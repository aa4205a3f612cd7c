// Package testutil provides shared test helpers for building source trees
// and generated bundles.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/bundle"
	"github.com/starford/ansuz/internal/source"
)

// Logger returns a silent logger for tests.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SourceTree writes the given relative-path/content pairs into a temp
// directory and returns its root.
func SourceTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// Bundle generates a bundle from files and returns its root directory and
// the plan it was written from.
func Bundle(t *testing.T, files map[string]string, meta bundle.Meta) (string, *bundle.Plan) {
	t.Helper()
	srcRoot := SourceTree(t, files)

	docs, err := source.Load(context.Background(), srcRoot, meta.Scheme, 2)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := bundle.BuildPlan(docs, meta)
	if err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	w, err := bundle.NewWriter(out, nil, Logger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(context.Background(), plan); err != nil {
		t.Fatal(err)
	}
	return out, plan
}
