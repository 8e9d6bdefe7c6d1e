// Package watcher generates variants for originals dropped straight into the
// media root, without going through the API.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/mediahook"
)

// Handler receives one call per settled original.
type Handler interface {
	OnSaved(ctx context.Context, ref domain.MediaRef) mediahook.Report
}

// dirKinds maps upload directories to media kinds, most specific first.
// Gallery uploads share products/ with product images and are treated as such.
var dirKinds = []struct {
	prefix string
	kind   domain.MediaKind
}{
	{"categories_images/", domain.MediaKindCategoryImage},
	{"categories_seo/", domain.MediaKindCategorySEOImage},
	{"products/cards/", domain.MediaKindProductCardImage},
	{"products/", domain.MediaKindProductImage},
	{"icons/", domain.MediaKindStaticIcon},
}

var originalExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// KindFor maps a storage name to the kind of its upload directory.
func KindFor(name string) (domain.MediaKind, bool) {
	name = filepath.ToSlash(name)
	if !originalExts[strings.ToLower(filepath.Ext(name))] {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return "", false
	}
	for _, dk := range dirKinds {
		if strings.HasPrefix(name, dk.prefix) {
			return dk.kind, true
		}
	}
	return "", false
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before it is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher follows the media root recursively.
type Watcher struct {
	root     string
	handler  Handler
	logger   zerolog.Logger
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a Watcher over root. Call Run to start it.
func New(root string, handler Handler, logger zerolog.Logger, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create fsnotify: %w", err)
	}
	w := &Watcher{
		root:     abs,
		handler:  handler,
		logger:   logger,
		debounce: 750 * time.Millisecond,
		fsw:      fsw,
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addTree(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watcher: watch %s: %w", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	tick := w.debounce / 2
	if tick <= 0 {
		tick = w.debounce
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.logger.Info().Str("root", w.root).Dur("debounce", w.debounce).Msg("watcher: started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("watcher: stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher: fsnotify error")

		case <-ticker.C:
			w.flush(ctx, false)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("dir", event.Name).Msg("watcher: add directory failed")
			}
			w.enqueueExisting(event.Name)
			return
		}
	}
	w.enqueue(event.Name)
}

// enqueueExisting picks up files that landed in a new directory before its
// watch was registered.
func (w *Watcher) enqueueExisting(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			w.enqueue(path)
		}
		return nil
	})
}

func (w *Watcher) enqueue(path string) {
	name, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	if _, ok := KindFor(name); !ok {
		return
	}
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// flush hands every settled path to the handler. With force set, paths are
// handled regardless of age.
func (w *Watcher) flush(ctx context.Context, force bool) {
	now := time.Now()
	var ready []string
	w.mu.Lock()
	for path, t := range w.pending {
		if force || now.Sub(t) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	name := filepath.ToSlash(rel)
	kind, ok := KindFor(name)
	if !ok {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}
	report := w.handler.OnSaved(ctx, domain.MediaRef{Kind: kind, Name: name})
	logger := w.logger.With().Str("name", name).Str("kind", string(kind)).Logger()
	if err := report.Err(); err != nil {
		logger.Warn().Err(err).Msg("watcher: variants incomplete")
		return
	}
	logger.Info().Int("runs", len(report.Results)).Msg("watcher: variants generated")
}
