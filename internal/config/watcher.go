package config

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Limits holds the runtime-tunable knobs. Operators edit the limits file
// in place; the watcher picks the change up without a restart.
type Limits struct {
	// SyncMinIntervalMS bounds write frequency under rapid grid edits.
	SyncMinIntervalMS int `yaml:"syncMinIntervalMs"`
	// ImportBatchSize caps rows per bulk upsert call.
	ImportBatchSize int `yaml:"importBatchSize"`
}

// LimitsWatcher watches the limits file for changes and serves the most
// recently loaded values.
type LimitsWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	mu       sync.RWMutex
	current  Limits
	onChange []func(Limits)
	stopCh   chan struct{}
}

// NewLimitsWatcher loads the limits file and starts watching it. The
// defaults argument fills any field the file leaves at zero.
func NewLimitsWatcher(path string, defaults Limits, logger *zap.Logger) (*LimitsWatcher, error) {
	limits, err := loadLimitsFile(path, defaults)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &LimitsWatcher{
		path:    path,
		watcher: fsWatcher,
		logger:  logger,
		current: limits,
		stopCh:  make(chan struct{}),
	}
	go w.watch(defaults)
	return w, nil
}

// Current returns the most recently loaded limits.
func (w *LimitsWatcher) Current() Limits {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// SyncMinInterval returns the current debounce interval.
func (w *LimitsWatcher) SyncMinInterval() time.Duration {
	return time.Duration(w.Current().SyncMinIntervalMS) * time.Millisecond
}

// OnChange registers a callback invoked after each successful reload.
func (w *LimitsWatcher) OnChange(fn func(Limits)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Stop stops the watcher.
func (w *LimitsWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *LimitsWatcher) watch(defaults Limits) {
	// Editors replace files rather than rewriting them, so debounce a
	// burst of events into one reload.
	var reloadTimer *time.Timer
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(250*time.Millisecond, func() {
				w.reload(defaults)
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("limits watcher error", zap.Error(err))
		}
	}
}

func (w *LimitsWatcher) reload(defaults Limits) {
	limits, err := loadLimitsFile(w.path, defaults)
	if err != nil {
		w.logger.Warn("failed to reload limits file, keeping previous values",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}

	w.mu.Lock()
	w.current = limits
	callbacks := make([]func(Limits), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	w.logger.Info("limits reloaded",
		zap.Int("syncMinIntervalMs", limits.SyncMinIntervalMS),
		zap.Int("importBatchSize", limits.ImportBatchSize),
	)
	for _, fn := range callbacks {
		fn(limits)
	}
}

func loadLimitsFile(path string, defaults Limits) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, err
	}

	limits := Limits{}
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return Limits{}, err
	}
	if limits.SyncMinIntervalMS <= 0 {
		limits.SyncMinIntervalMS = defaults.SyncMinIntervalMS
	}
	if limits.ImportBatchSize <= 0 {
		limits.ImportBatchSize = defaults.ImportBatchSize
	}
	return limits, nil
}
