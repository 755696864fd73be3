// Package watch reports debounced file changes in a directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

// FileWatcher watches for file changes with debouncing
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    *slog.Logger
	mutex     sync.RWMutex
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a file should be watched
type FileFilter func(path string) bool

// ChangeHandler handles file change events
type ChangeHandler func(ctx context.Context, events []ChangeEvent) error

// NewFileWatcher creates a new file watcher. A nil logger uses slog.Default().
func NewFileWatcher(debounceDelay time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(debounceDelay),
		filters:   make([]FileFilter, 0),
		handlers:  make([]ChangeHandler, 0),
		logger:    logger.With("component", "watcher"),
	}, nil
}

// AddFilter adds a file filter. An event is handled only if all filters accept its path.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath adds a directory to watch
func (fw *FileWatcher) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", path)
	}
	return fw.watcher.Add(filepath.Clean(path))
}

// Run processes events until ctx is cancelled and closes the watcher afterwards.
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer fw.watcher.Close()

	go fw.debouncer.Run(ctx)
	go fw.processEvents(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			// Log error but continue watching
			fw.logger.WarnContext(ctx, "File watcher error", slog.String("error", err.Error()))
		}
	}
}

func (fw *FileWatcher) accepts(path string) bool {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()

	for _, filter := range fw.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	if !fw.accepts(event.Name) {
		return
	}

	var (
		modTime time.Time
		size    int64
	)
	if info, err := os.Stat(event.Name); err == nil {
		modTime = info.ModTime()
		size = info.Size()
	}

	var eventType EventType
	switch {
	case event.Has(fsnotify.Create):
		eventType = EventTypeCreated
	case event.Has(fsnotify.Write):
		eventType = EventTypeModified
	case event.Has(fsnotify.Remove):
		eventType = EventTypeDeleted
	case event.Has(fsnotify.Rename):
		eventType = EventTypeRenamed
	default:
		eventType = EventTypeModified
	}

	fw.debouncer.Add(ChangeEvent{
		Type:    eventType,
		Path:    event.Name,
		ModTime: modTime,
		Size:    size,
	})
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.Output():
			fw.mutex.RLock()
			handlers := slices.Clone(fw.handlers)
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(ctx, events); err != nil {
					// Log error but continue processing
					fw.logger.ErrorContext(ctx, "File watcher handler error", slog.String("error", err.Error()))
				}
			}
		}
	}
}

// PatternFilter accepts files whose base name matches the glob pattern.
func PatternFilter(pattern string) FileFilter {
	return func(path string) bool {
		matched, _ := filepath.Match(pattern, filepath.Base(path))
		return matched
	}
}

// NoOutputFilter rejects chunks and sections written by a splitter, so split output
// in the watched directory does not trigger another split.
func NoOutputFilter(path string) bool {
	return !splitter.IsOutputFile(path)
}

// NoHiddenFilter rejects dot files such as editor swap files.
func NoHiddenFilter(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}
