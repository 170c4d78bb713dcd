package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"docqc/internal/common"
)

// WatchConfig configures continuous discovery of record files under a root.
type WatchConfig struct {
	Root       string
	SkipHidden bool
	// InitialScan emits the .json files already present before watching.
	InitialScan bool
	// Debounce coalesces the create/write bursts an upstream extractor
	// produces while it is still flushing a file.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch emits paths of .json files created or rewritten under cfg.Root until
// the context is canceled. New subdirectories are picked up as they appear.
func Watch(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, nil, fmt.Errorf("%w: root path is required", common.ErrInvalidInput)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths := make(chan string, 256)
	errs := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	err = filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if cfg.SkipHidden && isHidden(path) && path != cfg.Root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && isRecordFile(path) {
			select {
			case paths <- path:
			default:
			}
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	go func() {
		defer close(paths)
		defer close(errs)
		defer w.Close()

		// pending is owned by this goroutine alone. The debounce timer never
		// touches it: it only pokes flushCh, and the flush happens here in
		// the select loop.
		var timer *time.Timer
		pending := map[string]struct{}{}
		flushCh := make(chan struct{}, 1)

		flush := func() {
			for p := range pending {
				select {
				case paths <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flushCh:
				flush()
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if cfg.SkipHidden && isHidden(e.Name) {
					continue
				}
				if e.Op&fsnotify.Create != 0 {
					// A new directory must be watched too; Add on a
					// plain file is harmless.
					if err := w.Add(e.Name); err != nil {
						logger.Debug("ingest.watch.add_failed", "path", e.Name, "error", err)
					}
				}
				if isRecordFile(e.Name) && e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer != nil {
							timer.Stop()
						}
						timer = time.AfterFunc(cfg.Debounce, func() {
							select {
							case flushCh <- struct{}{}:
							default:
							}
						})
					} else {
						flush()
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("ingest.watch.error", "error", err)
				select {
				case errs <- err:
				default:
				}
			}
		}
	}()

	return paths, errs, nil
}

func isRecordFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
