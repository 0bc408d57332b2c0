package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/warp/resource-planner/metrics"
	"github.com/warp/resource-planner/planning"
)

// defaultDebounce collapses the burst of events an editor save produces.
const defaultDebounce = 500 * time.Millisecond

// Watcher reloads the document when the file changes on disk and hands the
// fresh copy to a callback. The parent directory is watched rather than the
// file, because atomic saves replace the file's inode.
type Watcher struct {
	store    *Store
	target   string
	debounce time.Duration
	onChange func(*planning.Document)
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching the store's directory. Call Run to process
// events.
func NewWatcher(store *Store, debounce time.Duration, onChange func(*planning.Document), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	target, err := filepath.Abs(store.Path())
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	return &Watcher{
		store:    store,
		target:   target,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		fsw:      fsw,
	}, nil
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	w.logger.Info("Watching document", slog.String("path", w.target))

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != w.target {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	doc, err := w.store.Load(context.Background())
	metrics.RecordReload(err)
	if err != nil {
		w.logger.Warn("Failed to reload document", slog.String("path", w.target), slog.String("error", err.Error()))
		return
	}
	w.logger.Info("Document reloaded",
		slog.String("path", w.target),
		slog.Int("people", len(doc.People)),
		slog.Int("projects", len(doc.Projects)))
	w.onChange(doc)
}
