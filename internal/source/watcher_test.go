package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_FiresOnDocumentChange(t *testing.T) {
	root := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, logger, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "new.md"), []byte("# New"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire after document write")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatch_IgnoresNonDocuments(t *testing.T) {
	root := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	go func() {
		_ = Watch(ctx, root, logger, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Fatal("watcher fired for a non-document file")
	case <-time.After(500 * time.Millisecond):
	}
}
