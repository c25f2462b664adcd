package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"dvr2plex-go/internal/scanner"
)

// DefaultSettle is how long a recording must stay unchanged before it is
// processed. DVRs write recordings over the length of the broadcast.
const DefaultSettle = 30 * time.Second

// minTick bounds how often pending recordings are checked.
const minTick = 50 * time.Millisecond

// Handler processes one recording.
type Handler func(ctx context.Context, path string) error

// Config contains configuration for a Watcher
type Config struct {
	// Root is the directory recordings appear in. It is watched recursively.
	Root string
	// Destination is the series library. New or removed series folders
	// there call Invalidate.
	Destination string
	// Rescan is an optional cron spec for full rescans of Root.
	Rescan string
	// Settle is the quiet period before a new recording is processed.
	Settle time.Duration
	// ScanOnStart processes the recordings already in Root.
	ScanOnStart bool
}

// Watcher feeds recordings that appear under a directory to a Handler.
// Every call to the Handler happens on the goroutine running Run.
type Watcher struct {
	cfg        Config
	scanner    *scanner.Scanner
	handler    Handler
	invalidate func()
	logger     logrus.FieldLogger

	fs      *fsnotify.Watcher
	pending map[string]time.Time
	done    map[string]time.Time
	rescan  chan struct{}
	ready   chan struct{}
}

// New creates a Watcher. invalidate may be nil.
func New(cfg Config, s *scanner.Scanner, handler Handler, invalidate func(), logger logrus.FieldLogger) *Watcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if invalidate == nil {
		invalidate = func() {}
	}
	return &Watcher{
		cfg:        cfg,
		scanner:    s,
		handler:    handler,
		invalidate: invalidate,
		logger:     logger.WithField("watch", cfg.Root),
		pending:    make(map[string]time.Time),
		done:       make(map[string]time.Time),
		rescan:     make(chan struct{}, 1),
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the watches are in place.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Rescan asks Run for a full rescan of the root directory.
func (w *Watcher) Rescan() {
	select {
	case w.rescan <- struct{}{}:
	default:
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if info, err := os.Stat(w.cfg.Root); err != nil || !info.IsDir() {
		return fmt.Errorf("watch directory does not exist: %s", w.cfg.Root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fs = fsw
	defer fsw.Close()

	w.addRecursive(w.cfg.Root)
	if w.cfg.Destination != "" {
		if err := fsw.Add(w.cfg.Destination); err != nil {
			w.logger.WithError(err).Warn("cannot watch destination, series folders are re-read when the cache expires")
		}
	}

	if w.cfg.Rescan != "" {
		c := cron.New()
		if _, err := c.AddFunc(w.cfg.Rescan, w.Rescan); err != nil {
			return fmt.Errorf("invalid rescan schedule %q: %w", w.cfg.Rescan, err)
		}
		c.Start()
		defer c.Stop()
	}

	tick := w.cfg.Settle / 4
	if tick < minTick {
		tick = minTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	close(w.ready)
	w.logger.WithField("extensions", w.scanner.GetSupportedExtensions()).Info("watching for recordings")
	if w.cfg.ScanOnStart {
		w.scanAll(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Error("file watcher error")
		case <-ticker.C:
			w.flush(ctx, time.Now())
		case <-w.rescan:
			w.logger.Info("rescanning")
			w.invalidate()
			w.scanAll(ctx)
		}
	}
}

func (w *Watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible dirs
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.scanner.ShouldIgnoreDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.WithError(err).WithField("dir", path).Warn("cannot watch folder")
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if w.cfg.Destination != "" && filepath.Dir(event.Name) == filepath.Clean(w.cfg.Destination) {
		if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
			w.logger.WithField("folder", event.Name).Debug("series folders changed")
			w.invalidate()
		}
		return
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(w.pending, event.Name)

	case event.Op&fsnotify.Create != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.scanner.ShouldIgnoreDir(info.Name()) {
				return
			}
			// folder moved in: watch it and pick up what it already holds
			w.addRecursive(event.Name)
			w.scanDir(ctx, event.Name)
			return
		}
		w.touch(event.Name)

	case event.Op&fsnotify.Write != 0:
		w.touch(event.Name)
	}
}

func (w *Watcher) touch(path string) {
	if !w.scanner.Accepts(path) {
		return
	}
	w.pending[path] = time.Now()
}

// flush processes pending recordings that have been quiet for Settle.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	for path, last := range w.pending {
		if now.Sub(last) < w.cfg.Settle {
			continue
		}
		delete(w.pending, path)
		w.process(ctx, path)
	}
}

func (w *Watcher) scanAll(ctx context.Context) {
	w.scanDir(ctx, w.cfg.Root)
}

func (w *Watcher) scanDir(ctx context.Context, dir string) {
	result, err := w.scanner.Scan(dir)
	if err != nil {
		w.logger.WithError(err).Error("scan failed")
		return
	}
	for _, scanErr := range result.Errors {
		w.logger.WithField("path", scanErr.Path).Warn(scanErr.Message)
	}
	w.logger.WithFields(result.GetStats()).WithField("dir", dir).Debug("scanned")
	for _, path := range result.Files {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path)
	}
}

// process hands path to the handler unless it was already handled in its
// current state.
func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if mod, seen := w.done[path]; seen && mod.Equal(info.ModTime()) {
		return
	}

	entry := w.logger.WithField("source", path)
	if err := w.handler(ctx, path); err != nil {
		entry.WithError(err).Error("processing failed")
		return
	}
	w.done[path] = info.ModTime()
	entry.Debug("processed")
}
