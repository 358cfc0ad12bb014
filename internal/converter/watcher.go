package converter

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/dokuwiki2wikijs/internal/apperr"
	"github.com/starford/dokuwiki2wikijs/internal/dokuwiki"
)

// EventCallback is called after a watcher-driven conversion change.
// kind is one of "converted", "removed"; rel is relative to data/pages.
type EventCallback func(kind string, rel string)

// reconcileDelay debounces the full refresh scheduled after renames.
const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the installation's data/pages
// directory and reconverts changed pages until ctx is cancelled. It calls
// cb (if non-nil) after each change written to the output tree.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events remove the old page and trigger a refresh pass over
// all pages, which converts whatever moved in.
func Watch(ctx context.Context, svc *Service, logger *slog.Logger, cb EventCallback) error {
	pagesRoot := filepath.Join(svc.src.Root(), filepath.FromSlash(dokuwiki.PagesDir))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, pagesRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", pagesRoot))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(ctx, svc, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					convertNewDir(ctx, svc, pagesRoot, absPath, logger, cb)
					continue
				}
			}

			if !strings.HasSuffix(absPath, dokuwiki.PageExt) {
				continue
			}

			rel, relErr := filepath.Rel(pagesRoot, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				refresh(ctx, svc, rel, logger, cb)

			case ev.Op&fsnotify.Remove != 0:
				remove(svc, rel, logger, cb)

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; the new path
				// arrives as a Create if it stays inside a watched dir.
				remove(svc, rel, logger, cb)
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func refresh(ctx context.Context, svc *Service, rel string, logger *slog.Logger, cb EventCallback) {
	_, changed, err := svc.RefreshPage(ctx, rel)
	switch {
	case errors.Is(err, apperr.ErrSkipped):
		return
	case errors.Is(err, os.ErrNotExist):
		// Removed again before we got to read it.
		return
	case err != nil:
		logger.Warn("watcher: convert failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if changed && cb != nil {
		cb("converted", rel)
	}
}

func remove(svc *Service, rel string, logger *slog.Logger, cb EventCallback) {
	if err := svc.RemovePage(rel); err != nil {
		logger.Warn("watcher: remove failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if cb != nil {
		cb("removed", rel)
	}
}

// reconcile refreshes every page; unchanged pages are skipped by checksum.
func reconcile(ctx context.Context, svc *Service, logger *slog.Logger, cb EventCallback) {
	pages, err := svc.src.List(dokuwiki.PagesDir, dokuwiki.PageExt)
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}
	for _, p := range pages {
		refresh(ctx, svc, p.Path, logger, cb)
	}
}

// convertNewDir converts any pages already present in a new directory.
func convertNewDir(ctx context.Context, svc *Service, pagesRoot, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, dokuwiki.PageExt) {
			return nil
		}
		rel, relErr := filepath.Rel(pagesRoot, path)
		if relErr != nil {
			return nil
		}
		refresh(ctx, svc, filepath.ToSlash(rel), logger, cb)
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
