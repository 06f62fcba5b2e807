package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"custodian/internal/metrics"
	"custodian/pkg/logging"
)

// Watcher keeps a MemoryStore in sync with a catalog directory. Any create,
// write, rename or remove of a catalog file schedules a debounced reload of
// the whole directory, which is then synced into the store with pruning.
type Watcher struct {
	mu sync.Mutex

	dir              string
	store            *MemoryStore
	debounceInterval time.Duration

	watcher *fsnotify.Watcher
	timer   *time.Timer
	stopCh  chan struct{}
	running bool

	// onReload is invoked after every reload attempt; tests use it to wait.
	onReload func(SyncResult, error)
}

// NewWatcher creates a watcher for dir feeding store.
func NewWatcher(dir string, store *MemoryStore, debounceInterval time.Duration) *Watcher {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}
	return &Watcher{
		dir:              dir,
		store:            store,
		debounceInterval: debounceInterval,
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching. It returns once the watch is established; events
// are processed until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		w.mu.Unlock()
		return err
	}

	w.watcher = fw
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	go w.processEvents(ctx)

	logging.Info("CatalogWatcher", "Watching %s for catalog changes", w.dir)
	return nil
}

// Stop ends the watch. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	w.mu.Lock()
	fw := w.watcher
	stopCh := w.stopCh
	w.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case <-stopCh:
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !IsCatalogFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.Debug("CatalogWatcher", "Change detected: %s %s", event.Op, event.Name)
			w.scheduleReload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logging.Error("CatalogWatcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceInterval, func() {
		w.reload(ctx)
	})
}

// Reload loads the directory and syncs it into the store immediately.
func (w *Watcher) Reload(ctx context.Context) (SyncResult, error) {
	records, err := LoadDirectory(w.dir)
	if err != nil {
		return SyncResult{}, err
	}
	return Sync(ctx, w.store, records, true)
}

func (w *Watcher) reload(ctx context.Context) {
	result, err := w.Reload(ctx)
	if err != nil {
		// Keep serving the last good catalog.
		metrics.CatalogSyncTotal.WithLabelValues("watch", metrics.OutcomeError).Inc()
		logging.Error("CatalogWatcher", err, "Catalog reload failed, keeping previous catalog")
	} else {
		metrics.CatalogSyncTotal.WithLabelValues("watch", metrics.OutcomeOK).Inc()
		metrics.CatalogServices.Set(float64(w.store.Len()))
		if result.Changed() {
			logging.Info("CatalogWatcher", "Catalog reloaded: %d created, %d updated, %d deleted",
				len(result.Created), len(result.Updated), len(result.Deleted))
		}
	}

	w.mu.Lock()
	hook := w.onReload
	w.mu.Unlock()
	if hook != nil {
		hook(result, err)
	}
}
