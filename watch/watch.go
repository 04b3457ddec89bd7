// Package watch keeps fixing imports of a set of files as they are saved.
package watch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is how long a file must stay quiet before it is processed.
const DefaultDebounce = 100 * time.Millisecond

// Processor fixes a single file. rewriter.FileProcessor satisfies it.
type Processor interface {
	Process(path string) (bool, error)
}

// ResultFunc is told about every processed file.
type ResultFunc func(path string, modified bool, err error)

// Watcher re-runs a Processor on tracked files when they change on disk.
type Watcher struct {
	files     map[string]struct{}
	dirs      []string
	processor Processor
	logger    *slog.Logger
	debounce  time.Duration
	onResult  ResultFunc
}

// New creates a Watcher over files. Relative paths are made absolute.
func New(files []string, processor Processor, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w := &Watcher{
		files:     make(map[string]struct{}, len(files)),
		processor: processor,
		logger:    logger,
		debounce:  DefaultDebounce,
	}

	seenDirs := make(map[string]struct{})
	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", file)
		}
		w.files[absPath] = struct{}{}

		dir := filepath.Dir(absPath)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// SetDebounce overrides DefaultDebounce.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// OnResult registers a callback invoked after each processed file.
func (w *Watcher) OnResult(fn ResultFunc) {
	w.onResult = fn
}

// Run watches until ctx is cancelled. Files are processed on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		err = fsw.Add(dir)
		if err != nil {
			return errors.Wrapf(err, "watching %s", dir)
		}
	}
	w.logger.Info("watching", slog.Int("files", len(w.files)), slog.Int("dirs", len(w.dirs)))

	pending := newDebouncer(w.debounce)
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			name := filepath.Clean(event.Name)
			if _, tracked := w.files[name]; !tracked {
				continue
			}

			// Wait for the file to settle (editors often save in several steps).
			pending.touch(ctx, name)

		case tk := <-pending.ready:
			if !pending.accept(tk) {
				continue
			}

			w.process(tk.name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) process(path string) {
	modified, err := w.processor.Process(path)
	if err != nil {
		w.logger.Error("processing file", slog.String("file", path), slog.Any("error", err))
	} else if modified {
		w.logger.Info("file changed", slog.String("file", path))
	}

	if w.onResult != nil {
		w.onResult(path, modified, err)
	}
}
