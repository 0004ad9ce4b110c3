package locale

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

const debounceDelay = 100 * time.Millisecond

// Watcher reloads a locale table file into a registry whenever it changes
// on disk.
type Watcher struct {
	path     string
	registry *Registry
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	onChange []func([]domain.LocaleDelimiters)
	ctx      context.Context
	cancel   context.CancelFunc
	errChan  chan error
	done     chan struct{}
}

// NewWatcher creates a watcher for path. Watch must be called to start it.
func NewWatcher(path string, registry *Registry) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		registry: registry,
		ctx:      ctx,
		cancel:   cancel,
		errChan:  make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// Watch loads the file once and then follows changes to it.
func (w *Watcher) Watch() error {
	if err := w.registry.LoadFile(w.path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Editors replace files, so watch the directory rather than the file.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = watcher

	go w.watchLoop()
	return nil
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	tables, err := LoadFile(w.path)
	if err != nil {
		w.report(fmt.Errorf("reload locales: %w", err))
		return
	}
	if err := w.registry.Register(tables...); err != nil {
		w.report(fmt.Errorf("register locales: %w", err))
		return
	}
	w.registry.logger.Info("Locale tables reloaded", "path", w.path, "count", len(tables))

	w.mu.Lock()
	callbacks := append([]func([]domain.LocaleDelimiters){}, w.onChange...)
	w.mu.Unlock()
	for _, cb := range callbacks {
		cb(tables)
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errChan <- err:
	default:
	}
}

// OnChange registers a callback that receives the reloaded tables.
func (w *Watcher) OnChange(cb func([]domain.LocaleDelimiters)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, cb)
}

// Errors returns a channel for receiving errors that occur while watching.
func (w *Watcher) Errors() <-chan error {
	return w.errChan
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	<-w.done
	return err
}
