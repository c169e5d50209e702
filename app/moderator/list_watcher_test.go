package moderator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tg-linkcheck/app/moderator/mocks"
	"github.com/umputun/tg-linkcheck/app/storage"
)

func TestListWatcher_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spam_list.txt")
	require.NoError(t, os.WriteFile(path, []byte("# known spam\nscam.example.com https://scam.example.com/Promo\n"), 0o600))

	importer := &mocks.ListImporterMock{
		ImportSpamListFunc: func(_ context.Context, entries []storage.ListEntry) (int, error) { return len(entries), nil },
	}
	w := &ListWatcher{Path: path, Importer: importer, loaded: make(chan struct{}, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.loaded:
	case <-time.After(time.Second):
		t.Fatal("spam list not loaded")
	}
	require.Len(t, importer.ImportSpamListCalls(), 1)
	entries := importer.ImportSpamListCalls()[0].Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "https://scam.example.com/", entries[0].URL.String())
	assert.Equal(t, "https://scam.example.com/Promo", entries[0].Example)

	// the watcher may not be attached yet, so the file is rewritten until the change is picked up
	updated := []byte("scam.example.com\ndrain.example.org\n")
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, updated, 0o600); err != nil {
			return false
		}
		calls := importer.ImportSpamListCalls()
		return len(calls[len(calls)-1].Entries) == 2
	}, 2*time.Second, 50*time.Millisecond)

	importer.ResetImportSpamListCalls()
	require.NoError(t, os.WriteFile(path, []byte("too many fields here\n"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, importer.ImportSpamListCalls(), "broken list is not imported")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher not stopped")
	}
}

func TestListWatcher_RunMissingFile(t *testing.T) {
	w := &ListWatcher{Path: filepath.Join(t.TempDir(), "nope.txt"), Importer: &mocks.ListImporterMock{}}
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load spam list")
}
