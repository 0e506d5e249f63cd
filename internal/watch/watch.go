// Package watch notifies a caller when a repository's refs, HEAD, or
// working tree change, for commands like `rvs status --watch`.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rybkr/rvs/internal/gitcore"
)

const debounceTime = 100 * time.Millisecond

// statusPollInterval controls how often the working tree is polled for
// changes that do not touch .rvs (new untracked files, edits) and would
// therefore be invisible to fsnotify watches rooted at the metadata dir.
const statusPollInterval = 2 * time.Second

// Watcher calls OnChange whenever the repository's metadata or working tree
// appears to have changed.
type Watcher struct {
	repo     *gitcore.Repository
	logger   *slog.Logger
	onChange func()

	wg sync.WaitGroup
}

// New returns a Watcher bound to repo. onChange is invoked (never
// concurrently) after a debounce window following a detected change.
func New(repo *gitcore.Repository, logger *slog.Logger, onChange func()) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	// The poll loop and the debounce timer fire from different goroutines,
	// so calls are serialized here.
	var mu sync.Mutex
	serialized := func() {
		mu.Lock()
		defer mu.Unlock()
		onChange()
	}
	return &Watcher{repo: repo, logger: logger, onChange: serialized}
}

// Run blocks, watching until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Error("failed to close watcher", "err", err)
		}
	}()

	if err := fsw.Add(w.repo.MetaDir); err != nil {
		return err
	}
	for _, sub := range []string{"refs/heads", "refs/tags", "worktrees"} {
		walkAndWatch(fsw, filepath.Join(w.repo.MainMetaDir, sub), w.logger)
	}

	w.wg.Add(2)
	go w.pollLoop(ctx)
	go w.eventLoop(ctx, fsw)
	w.wg.Wait()
	return nil
}

// walkAndWatch adds fsnotify watches to dir and all its subdirectories.
// Missing directories are silently skipped.
func walkAndWatch(fsw *fsnotify.Watcher, dir string, logger *slog.Logger) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	err = filepath.Walk(dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if fi.IsDir() {
			if addErr := fsw.Add(path); addErr != nil {
				logger.Warn("failed to watch directory", "dir", path, "err", addErr)
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("failed to walk directory", "dir", dir, "err", err)
	}
}

// pollLoop periodically fires onChange to catch working-tree-only edits
// that never touch .rvs and would otherwise be invisible to fsnotify.
func (w *Watcher) pollLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.onChange()
		}
	}
}

func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}
			w.logger.Debug("change detected", "file", filepath.Base(event.Name), "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, func() {
				if ctx.Err() == nil {
					w.onChange()
				}
			})
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "err", err)
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if base == "config" {
		return true
	}
	return false
}
