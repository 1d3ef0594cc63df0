package watch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LegacyCodeHQ/localize/internal/config"
	"github.com/LegacyCodeHQ/localize/internal/runner"
	"github.com/LegacyCodeHQ/localize/rewrite"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":     true,
	".hg":      true,
	".svn":     true,
	".idea":    true,
	".vscode":  true,
	"coverage": true,
}

type digest = [sha256.Size]byte

type watcher struct {
	root    string
	outDir  string
	skip    map[string]bool
	runner  *runner.Runner
	logger  *log.Logger
	digests *lru.Cache[string, digest]
}

func newWatcher(root string, opts *watchOptions, cfg *config.Config, r *runner.Runner, logger *log.Logger) (*watcher, error) {
	digests, err := lru.New[string, digest](digestCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest cache: %w", err)
	}

	skip := make(map[string]bool, len(skippedDirs)+2)
	for name := range skippedDirs {
		skip[name] = true
	}
	for _, name := range runner.SkipDirs(cfg) {
		skip[name] = true
	}

	outDir := ""
	if opts.outDir != "" {
		if outDir, err = filepath.Abs(opts.outDir); err != nil {
			return nil, fmt.Errorf("failed to resolve output directory: %w", err)
		}
	}

	return &watcher{
		root:    root,
		outDir:  outDir,
		skip:    skip,
		runner:  r,
		logger:  logger,
		digests: digests,
	}, nil
}

func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addWatchDirs(fsw.Add, w.root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	debounce := time.NewTimer(debounceInterval)
	debounce.Stop()
	defer debounce.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				w.addIfDirectory(fsw.Add, event.Name)
			}
			if !w.isRelevantChange(event) {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.digests.Remove(event.Name)
				continue
			}
			pending[event.Name] = struct{}{}
			debounce.Reset(debounceInterval)

		case <-debounce.C:
			files := make([]string, 0, len(pending))
			for file := range pending {
				files = append(files, file)
			}
			pending = make(map[string]struct{})
			w.processAll(ctx, files)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "err", err)
		}
	}
}

// processAll rewrites files and returns how many were written.
func (w *watcher) processAll(ctx context.Context, files []string) int {
	written := 0
	for _, file := range files {
		ok, err := w.process(ctx, file)
		if err != nil {
			w.logger.Error("rewrite failed", "file", file, "err", err)
			continue
		}
		if ok {
			written++
		}
	}
	return written
}

// process rewrites file unless its content matches what was last seen or
// written for it. It reports whether an output was written.
func (w *watcher) process(ctx context.Context, file string) (bool, error) {
	if w.inOutDir(file) {
		return false, nil
	}

	source, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		w.digests.Remove(file)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", file, err)
	}

	sum := sha256.Sum256(source)
	if last, ok := w.digests.Get(file); ok && last == sum {
		return false, nil
	}

	result, err := w.runner.File(ctx, file)
	if err != nil {
		w.digests.Add(file, sum)
		return false, err
	}

	dest, err := runner.Destination(file, w.root, w.outDir)
	if err != nil {
		return false, err
	}

	if w.outDir == "" {
		if !result.Changed() && result.Map == nil {
			w.digests.Add(file, sum)
			return false, nil
		}
		if err := runner.Write(dest, result); err != nil {
			return false, err
		}
		written, err := os.ReadFile(dest)
		if err != nil {
			return false, fmt.Errorf("failed to read back %s: %w", dest, err)
		}
		w.digests.Add(file, sha256.Sum256(written))
	} else {
		if err := runner.Write(dest, result); err != nil {
			return false, err
		}
		w.digests.Add(file, sum)
	}

	w.logger.Info("rewrote", "file", file, "specifiers", len(result.Edits))
	return true, nil
}

func (w *watcher) isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !rewrite.IsSupportedFile(event.Name) || w.inOutDir(event.Name) {
		return false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if w.skip[part] {
			return false
		}
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}

func (w *watcher) inOutDir(path string) bool {
	if w.outDir == "" {
		return false
	}
	rel, err := filepath.Rel(w.outDir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *watcher) addWatchDirs(add func(string) error, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.inOutDir(path) || (path != root && w.skip[d.Name()]) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func (w *watcher) addIfDirectory(add func(string) error, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		if err := w.addWatchDirs(add, path); err != nil {
			w.logger.Warn("failed to watch directory", "dir", path, "err", err)
		}
	}
}
