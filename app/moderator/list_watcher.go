package moderator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/umputun/tg-linkcheck/app/storage"
)

//go:generate moq --out mocks/list_importer.go --pkg mocks --with-resets --skip-ensure . ListImporter

// ListImporter replaces the stored spam list
type ListImporter interface {
	ImportSpamList(ctx context.Context, entries []storage.ListEntry) (int, error)
}

// ListWatcher loads the spam list file and reloads it on every change
type ListWatcher struct {
	Path     string
	Importer ListImporter
	loaded   chan struct{} // signals completed loads, for tests
}

// Run loads the list and watches it until ctx is done. A broken update is logged and the previous list stays.
func (w *ListWatcher) Run(ctx context.Context) error {
	if err := w.load(ctx); err != nil {
		return fmt.Errorf("failed to load spam list: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// editors replace files instead of writing them, so the directory is watched
	if err = watcher.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", w.Path, err)
	}
	name := filepath.Clean(w.Path)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping spam list watcher for %s, %v", w.Path, ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name || (!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create)) {
				continue
			}
			if e := w.load(ctx); e != nil {
				log.Printf("[WARN] failed to load updated spam list %s: %v", w.Path, e)
			}
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}

func (w *ListWatcher) load(ctx context.Context) error {
	data, err := readFile(w.Path)
	if err != nil {
		return err
	}
	entries, err := storage.ParseSpamList(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", w.Path, err)
	}
	n, err := w.Importer.ImportSpamList(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", w.Path, err)
	}
	log.Printf("[INFO] spam list %s loaded, %d entries, %d changed", w.Path, len(entries), n)
	if w.loaded != nil {
		select {
		case w.loaded <- struct{}{}:
		default:
		}
	}
	return nil
}

func readFile(path string) (io.Reader, error) {
	file, err := os.Open(path) //nolint gosec // path is controlled by the app
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return bytes.NewReader(data), nil
}
