package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisiscore-systems/textsplitter/internal/watch"
)

type recordingSplitter struct {
	mu    sync.Mutex
	paths []string
}

func (s *recordingSplitter) SplitFile(ctx context.Context, inputPath string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, inputPath)
	return []string{inputPath + ".cc000.txt"}, nil
}

func TestSplitChangedFiles(t *testing.T) {
	dir := t.TempDir()
	created := writeFile(t, dir, "created.txt", "alpha\n")
	modified := writeFile(t, dir, "modified.txt", "beta\n")
	renamed := writeFile(t, dir, "renamed.txt", "gamma\n")
	folder := filepath.Join(dir, "folder.txt")
	require.NoError(t, os.Mkdir(folder, 0o755))

	s := &recordingSplitter{}
	handler := splitChangedFiles(s, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := handler(context.Background(), []watch.ChangeEvent{
		{Type: watch.EventTypeCreated, Path: created},
		{Type: watch.EventTypeModified, Path: modified},
		{Type: watch.EventTypeDeleted, Path: filepath.Join(dir, "deleted.txt")},
		{Type: watch.EventTypeRenamed, Path: renamed},
		{Type: watch.EventTypeCreated, Path: folder},
		{Type: watch.EventTypeModified, Path: filepath.Join(dir, "vanished.txt")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{created, modified}, s.paths)
}

// lockedBuffer is written by the command while the test reads it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	args := []string{"--config", emptyConfig(t), "watch", dir, "--debounce", "50ms"}

	var stderr lockedBuffer
	done := make(chan error, 1)
	go func() {
		_, err := Execute(ctx, args, io.Discard, &stderr)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "Watching for files")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.txt"), 0o755))
	writeFile(t, dir, "notes.md", "ignored\n")
	input := writeFile(t, dir, "notes.txt", "alpha\nbeta\n")

	assert.Eventually(t, func() bool {
		_, err := os.Stat(input + ".cc000.txt")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(input))
	time.Sleep(200 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}

	assert.NoFileExists(t, filepath.Join(dir, "notes.md.cc000.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "folder.txt.cc000.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "folder.txt", "folder.txt.cc000.txt"))
	assert.NotContains(t, stderr.String(), "Failed to split file")
}
