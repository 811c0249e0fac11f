// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package watch re-runs a generation when schema files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls a function after schema files in a set of directories
// change. Bursts of events within the debounce window produce one call.
type Watcher struct {
	Dirs     []string
	Debounce time.Duration
	Logger   *zap.Logger
	// OnChange runs on the watcher goroutine; an error is logged and the
	// watcher keeps going.
	OnChange func(ctx context.Context) error
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Close() //nolint:errcheck

	for _, dir := range w.Dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching", zap.String("dir", dir))
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("change", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if err := w.OnChange(ctx); err != nil {
				logger.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}

// relevant reports whether an event touches a schema file.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
