package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned when Watch is called twice.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config describes what to watch.
type Config struct {
	// Paths are configuration files or directories. Directories are watched
	// recursively for files with a matching extension.
	Paths []string

	// Debounce is the quiet period before changed files are reported.
	Debounce time.Duration

	// Extensions are the file extensions that count as configuration files.
	Extensions []string

	// SkipHidden ignores dot files and dot directories.
	SkipHidden bool
}

// Watcher reports configuration files that changed on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	config  Config

	// explicit holds files named directly in Config.Paths. Their parent
	// directory is watched so that editors replacing the file are seen.
	explicit map[string]bool

	mu      sync.Mutex
	running bool
}

// New creates a watcher. A nil logger discards log output.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		logger:   logger,
		config:   cfg,
		explicit: make(map[string]bool),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange with each debounced
// batch of changed files. onChange runs on the debouncer's goroutine; a
// batch is never delivered concurrently with another.
func (w *Watcher) Watch(ctx context.Context, onChange func(paths []string)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()

	defer w.watcher.Close()

	for _, p := range w.config.Paths {
		if err := w.addPath(p); err != nil {
			return fmt.Errorf("failed to watch %q: %w", p, err)
		}
	}

	var flushMu sync.Mutex
	debounce := NewDebouncer(w.config.Debounce, func(paths []string) {
		flushMu.Lock()
		defer flushMu.Unlock()
		w.logger.Info("Configuration files changed", "count", len(paths))
		onChange(paths)
	})
	defer debounce.Stop()

	w.logger.Info("File watcher started",
		"paths", w.config.Paths,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Op.Has(fsnotify.Create) {
				w.watchNewDirectory(event.Name)
			}
			if !w.accepts(event) {
				continue
			}
			w.logger.Debug("File event detected", "path", event.Name, "op", event.Op.String())
			debounce.Trigger(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.addDirectory(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.explicit[abs] = true
	return w.watcher.Add(filepath.Dir(abs))
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.hidden(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.logger.Debug("Watching directory", "path", path)
		return nil
	})
}

func (w *Watcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.hidden(path) {
		return
	}
	if err := w.addDirectory(path); err != nil {
		w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
	}
}

// accepts reports whether event concerns a configuration file.
func (w *Watcher) accepts(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if abs, err := filepath.Abs(event.Name); err == nil && w.explicit[abs] {
		return true
	}
	if w.hidden(event.Name) {
		return false
	}
	return w.hasExtension(event.Name) && w.underDirectory(event.Name)
}

// underDirectory reports whether path lies below a directory named in
// Config.Paths, as opposed to beside an explicitly watched file.
func (w *Watcher) underDirectory(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range w.config.Paths {
		root, err := filepath.Abs(p)
		if err != nil || w.explicit[root] {
			continue
		}
		if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

func (w *Watcher) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

func (w *Watcher) hidden(path string) bool {
	return w.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}
