package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openkraft/layerlint/internal/adapters/outbound/scanner"
	"github.com/openkraft/layerlint/internal/domain"
)

// DefaultDebounce is how long changes accumulate before a batch is emitted.
const DefaultDebounce = 300 * time.Millisecond

const batchBuffer = 16

// Watcher watches a project tree and emits debounced batches of changed
// source files, relative to the root and slash-separated.
type Watcher struct {
	root       string
	debounce   time.Duration
	extensions map[string]bool
	fsw        *fsnotify.Watcher
	logger     *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]bool

	batches chan []string
}

// New creates a watcher for root. Empty extensions fall back to the default
// source extensions; a non-positive debounce uses DefaultDebounce.
func New(root string, extensions []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[strings.ToLower(e)] = true
	}

	return &Watcher{
		root:       absRoot,
		debounce:   debounce,
		extensions: exts,
		fsw:        fsw,
		logger:     logger,
		pending:    make(map[string]bool),
		batches:    make(chan []string, batchBuffer),
	}, nil
}

// Batches returns the channel of changed-file batches. It is closed when
// the watcher stops.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// Start adds watches for every directory under the root and begins
// processing events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	go w.process(ctx)

	w.logger.Info("watching for changes", "root", w.root, "debounce", w.debounce)
	return nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipped(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func skipped(name string) bool {
	return scanner.IsSkippedDir(name) || strings.HasPrefix(name, ".")
}

func (w *Watcher) process(ctx context.Context) {
	defer close(w.batches)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !skipped(filepath.Base(path)) {
				if err := w.addRecursive(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if skipped(part) {
			return
		}
	}

	w.pendingMu.Lock()
	w.pending[rel] = true
	w.pendingMu.Unlock()
	w.logger.Debug("change detected", "path", rel, "op", event.Op.String())
}

func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	sort.Strings(batch)
	select {
	case w.batches <- batch:
	case <-ctx.Done():
	}
}
