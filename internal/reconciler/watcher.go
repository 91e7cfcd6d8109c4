package reconciler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"bactool/internal/entity"
	"bactool/pkg/logging"
)

// DefaultDebounce is used when NewWatcher is given a zero interval.
const DefaultDebounce = 500 * time.Millisecond

// Watcher turns filesystem events under a base directory into ChangeEvents.
type Watcher struct {
	mu sync.Mutex

	// basePath is the root directory holding one sub-directory per kind
	basePath string

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pendingEvents tracks pending debounced events by file path
	pendingEvents map[string]*debounceEntry

	// ready receives events whose debounce interval elapsed
	ready chan ChangeEvent
}

// debounceEntry tracks a pending event for debouncing.
type debounceEntry struct {
	event ChangeEvent
	timer *time.Timer
}

// NewWatcher creates a watcher rooted at basePath.
func NewWatcher(basePath string, debounceInterval time.Duration) *Watcher {
	if debounceInterval == 0 {
		debounceInterval = DefaultDebounce
	}

	return &Watcher{
		basePath:         filepath.Clean(basePath),
		debounceInterval: debounceInterval,
		pendingEvents:    make(map[string]*debounceEntry),
		ready:            make(chan ChangeEvent, 64),
	}
}

// Scan lists the resource files already present, directors first so that
// catalogs and storage daemons can refer to them.
func (w *Watcher) Scan() ([]ChangeEvent, error) {
	var events []ChangeEvent
	for _, kind := range entity.Kinds() {
		dir := filepath.Join(w.basePath, kindDirs[kind])
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && isConfFile(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			path := filepath.Join(dir, n)
			events = append(events, ChangeEvent{
				Kind:      kind,
				Name:      strings.TrimSuffix(n, filepath.Ext(n)),
				Operation: OperationCreate,
				Timestamp: time.Now(),
				FilePath:  path,
			})
		}
	}
	return events, nil
}

// Run watches until ctx is cancelled, calling handler for every debounced
// event. A handler error is logged and does not stop the watcher.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range kindDirs {
		watchPath := filepath.Join(w.basePath, dir)
		if err := os.MkdirAll(watchPath, 0o750); err != nil {
			return err
		}
		if err := watcher.Add(watchPath); err != nil {
			return err
		}
		logging.Debug("Watch", "Watching directory: %s", watchPath)
	}
	logging.Info("Watch", "Started watching %s for resource changes", w.basePath)

	defer w.cleanupPendingEvents()
	for {
		select {
		case <-ctx.Done():
			logging.Info("Watch", "Stopped watching %s", w.basePath)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFsEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watch", err, "Filesystem watcher error")

		case ev := <-w.ready:
			logging.Debug("Watch", "Handling %s %s/%s", ev.Operation, ev.Kind, ev.Name)
			if err := handler(ctx, ev); err != nil {
				logging.Error("Watch", err, "Failed to handle %s of %s", ev.Operation, ev.FilePath)
			}
		}
	}
}

// handleFsEvent maps one fsnotify event and queues it for debouncing.
func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	if !isConfFile(event.Name) {
		return
	}
	kind, name := w.parseFilePath(event.Name)
	if kind == "" {
		return
	}

	var operation ChangeOperation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		operation = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		operation = OperationUpdate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		operation = OperationDelete
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		// the new name arrives as a separate Create
		operation = OperationDelete
	default:
		return
	}

	w.debounceEvent(ChangeEvent{
		Kind:      kind,
		Name:      name,
		Operation: operation,
		Timestamp: time.Now(),
		FilePath:  event.Name,
	})
}

// debounceEvent restarts the timer for the event's file, merging operations.
func (w *Watcher) debounceEvent(event ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := event.FilePath
	if entry, ok := w.pendingEvents[key]; ok {
		entry.timer.Stop()
		event.Operation = mergeOperations(entry.event.Operation, event.Operation)
	}

	timer := time.AfterFunc(w.debounceInterval, func() {
		w.mu.Lock()
		entry, ok := w.pendingEvents[key]
		if ok {
			delete(w.pendingEvents, key)
		}
		w.mu.Unlock()

		if ok {
			select {
			case w.ready <- entry.event:
			default:
				logging.Warn("Watch", "Change queue full, dropping event for %s", entry.event.FilePath)
			}
		}
	})

	w.pendingEvents[key] = &debounceEntry{event: event, timer: timer}
}

// mergeOperations merges two operations into a single logical operation.
func mergeOperations(old, new ChangeOperation) ChangeOperation {
	if old == OperationCreate {
		if new == OperationDelete {
			return OperationDelete
		}
		return OperationCreate
	}
	if old == OperationUpdate && new == OperationDelete {
		return OperationDelete
	}
	return new
}

// parseFilePath extracts the entity kind and resource name from a path.
func (w *Watcher) parseFilePath(path string) (string, string) {
	relPath, err := filepath.Rel(w.basePath, path)
	if err != nil {
		return "", ""
	}

	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) != 2 {
		return "", ""
	}

	for kind, dir := range kindDirs {
		if dir == parts[0] {
			return kind, strings.TrimSuffix(parts[1], filepath.Ext(parts[1]))
		}
	}
	return "", ""
}

// cleanupPendingEvents cancels all pending debounce timers.
func (w *Watcher) cleanupPendingEvents() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, entry := range w.pendingEvents {
		entry.timer.Stop()
	}
	w.pendingEvents = make(map[string]*debounceEntry)
}

// isConfFile reports whether path names a resource file.
func isConfFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), FileExt) && !strings.HasPrefix(filepath.Base(path), ".")
}
