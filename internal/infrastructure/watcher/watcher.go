package watcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/usecase/meeting"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// maxSettleAttempts bounds how long a copy may take before the file
// is given up on
const maxSettleAttempts = 30

// EventHandler ingests a settled audio file dropped into the hot folder
type EventHandler func(ctx context.Context, path string) error

// Watcher monitors a directory for new recordings and hands settled
// audio files to the handler with bounded concurrency.
type Watcher struct {
	dir           string
	handler       EventHandler
	settleDelay   time.Duration
	maxConcurrent int
	fsWatcher     *fsnotify.Watcher
	semaphore     chan struct{}
	wg            sync.WaitGroup
	logger        *zap.Logger
}

// New creates a watcher for the configured hot folder
func New(cfg *config.WatcherConfig, handler EventHandler, logger *zap.Logger) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("watch directory not configured")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsWatcher.Add(cfg.Dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", cfg.Dir, err)
	}

	settleDelay := cfg.SettleDelay
	if settleDelay <= 0 {
		settleDelay = 2 * time.Second
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		dir:           cfg.Dir,
		handler:       handler,
		settleDelay:   settleDelay,
		maxConcurrent: maxConcurrent,
		fsWatcher:     fsWatcher,
		semaphore:     make(chan struct{}, maxConcurrent),
		logger:        logger,
	}, nil
}

// Start blocks processing create events until the context is cancelled
func (w *Watcher) Start(ctx context.Context) error {
	if w.logger != nil {
		w.logger.Info("👀 Hot folder watcher started",
			zap.String("dir", w.dir),
			zap.Int("max_concurrent", w.maxConcurrent),
			zap.Duration("settle_delay", w.settleDelay),
		)
	}

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			if w.logger != nil {
				w.logger.Info("👀 Hot folder watcher stopped")
			}
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !meeting.IsSupportedAudio(event.Name) {
				if w.logger != nil {
					w.logger.Debug("Ignoring non-audio file", zap.String("path", event.Name))
				}
				continue
			}

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go w.ingest(ctx, event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if w.logger != nil {
				w.logger.Warn("⚠️ Watcher error", zap.Error(err))
			}
		}
	}
}

// Stop closes the underlying filesystem watcher
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()

	if err := w.waitSettled(ctx, path); err != nil {
		if w.logger != nil {
			w.logger.Warn("⚠️ Dropped file never settled",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return
	}

	if err := w.handler(ctx, path); err != nil {
		if w.logger != nil {
			w.logger.Error("Failed to ingest recording",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return
	}

	if w.logger != nil {
		w.logger.Info("📥 Recording ingested from hot folder", zap.String("path", path))
	}
}

// waitSettled waits until the file size stops changing. The create
// event fires as soon as the file appears; copies into the folder can
// still be in flight.
func (w *Watcher) waitSettled(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for attempt := 0; attempt < maxSettleAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settleDelay):
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.Size() > 0 && info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
	return fmt.Errorf("file %s still growing after %d checks", path, maxSettleAttempts)
}
