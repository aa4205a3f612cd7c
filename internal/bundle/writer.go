package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/buildcache"
	"github.com/starford/ansuz/internal/checksum"
)

// Writer materialises a Plan under a bundle root directory. Every write is
// atomic (tmp file, fsync, rename). With a cache attached, artifacts whose
// checksum is unchanged are skipped and artifacts that left the plan are
// pruned from disk.
type Writer struct {
	root   string
	cache  *buildcache.DB // nil disables incremental behaviour
	logger *slog.Logger
}

// Stats summarises one Write pass.
type Stats struct {
	Written int
	Skipped int
	Pruned  int
}

// NewWriter creates a Writer rooted at dir, creating it if needed. cache
// may be nil.
func NewWriter(dir string, cache *buildcache.DB, logger *slog.Logger) (*Writer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("bundle: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("bundle: create root: %w", err)
	}
	return &Writer{root: abs, cache: cache, logger: logger}, nil
}

// Root returns the absolute bundle root.
func (w *Writer) Root() string {
	return w.root
}

// Write materialises every artifact in the plan and prunes cached
// artifacts that are no longer part of it.
func (w *Writer) Write(ctx context.Context, plan *Plan) (Stats, error) {
	var stats Stats

	var cached map[string]string
	if w.cache != nil {
		var err error
		cached, err = w.cache.AllChecksums()
		if err != nil {
			return stats, err
		}
	}

	planned := make(map[string]struct{}, len(plan.Artifacts))
	for _, a := range plan.Artifacts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := safeRel(a.Path); err != nil {
			return stats, err
		}
		planned[a.Path] = struct{}{}

		cs := checksum.Sum(a.Data)
		abs := filepath.Join(w.root, filepath.FromSlash(a.Path))
		if cached[a.Path] == cs {
			if _, statErr := os.Stat(abs); statErr == nil {
				stats.Skipped++
				continue
			}
		}

		if err := writeAtomic(abs, a.Data); err != nil {
			return stats, err
		}
		if w.cache != nil {
			if err := w.cache.Put(a.Path, cs); err != nil {
				return stats, err
			}
		}
		w.logger.Debug("bundle: wrote", slog.String("path", a.Path))
		stats.Written++
	}

	// Prune artifacts that disappeared from the plan.
	for p := range cached {
		if _, ok := planned[p]; ok {
			continue
		}
		abs := filepath.Join(w.root, filepath.FromSlash(p))
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("bundle: prune failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if err := w.cache.Delete(p); err != nil {
			return stats, err
		}
		w.logger.Debug("bundle: pruned", slog.String("path", p))
		stats.Pruned++
	}

	return stats, nil
}

// writeAtomic writes content via tmp file, fsync and rename.
func writeAtomic(abs string, content []byte) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("bundle: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ansuz-tmp-*")
	if err != nil {
		return fmt.Errorf("bundle: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("bundle: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("bundle: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("bundle: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("bundle: rename: %w", err)
	}
	success = true
	return nil
}

// safeRel rejects artifact paths that would land outside the bundle root.
func safeRel(rel string) error {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("bundle: path escapes root: %s", rel)
	}
	return nil
}
