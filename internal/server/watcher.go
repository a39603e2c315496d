package server

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// watchedExts are the file types a reload depends on: view partials, locale
// files and the config file.
var watchedExts = []string{".html", ".yaml", ".yml", ".toml"}

// Watcher watches view and locale paths. Once a burst of changes has been
// quiet for the debounce interval it calls onChange with the changed files,
// sorted and deduplicated.
type Watcher struct {
	paths    []string
	onChange func(changed []string)
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	pending []string
}

// NewWatcher creates a Watcher over paths. Paths that do not exist when
// Start runs are skipped.
func NewWatcher(paths []string, debounce time.Duration, logger *zap.Logger, onChange func(changed []string)) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins watching. It blocks until Stop is called or the fsnotify
// watcher fails.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsw

	// fsnotify is not recursive, so directories are added one by one.
	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.IsDir() {
			err = w.addRecursive(p)
		} else {
			err = fsw.Add(p)
		}
		if err != nil {
			w.logger.Warn("cannot watch path", zap.String("path", p), zap.Error(err))
		}
	}

	var timer *time.Timer
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					continue
				}
			}
			if !isWatchedFile(event.Name) {
				continue
			}

			w.logger.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			w.mu.Lock()
			w.pending = append(w.pending, event.Name)
			w.mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.flush)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return fsw.Close()
		}
	}
}

// flush hands the pending changes to onChange.
func (w *Watcher) flush() {
	w.mu.Lock()
	changed := lo.Uniq(w.pending)
	w.pending = nil
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	slices.Sort(changed)
	w.onChange(changed)
}

// Stop signals the watcher to stop. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
	})
}

// addRecursive adds root and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func isWatchedFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return slices.Contains(watchedExts, strings.ToLower(filepath.Ext(base)))
}
