package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/strux/lang"
	"github.com/ardnew/strux/log"
)

// watch calls run once, then again after each write to or creation of any of
// the given files, until ctx is done. Errors from run are logged and do not
// stop the loop.
//
// The parent directories are watched rather than the files, so saves that
// replace a file by renaming over it are still seen. The parse cache is
// cleared before each run; every save is new content and would otherwise
// stay cached for the life of the loop.
func watch(ctx context.Context, paths []string, run func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})

	for _, path := range paths {
		files[filepath.Clean(path)] = struct{}{}

		dir := filepath.Dir(path)
		if _, ok := dirs[dir]; ok {
			continue
		}

		if err := w.Add(dir); err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}

		dirs[dir] = struct{}{}
	}

	log.InfoContext(ctx, "watching", slog.Any("paths", paths))

	report := func(reason string) {
		lang.ClearCache()

		if err := run(); err != nil {
			log.ErrorContext(ctx, "conversion failed",
				slog.String("trigger", reason),
				slog.Any("error", err),
			)
		}
	}

	report("start")

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if _, ok := files[filepath.Clean(ev.Name)]; !ok {
				continue
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			log.DebugContext(ctx, "source changed",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)
			report(ev.Name)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watcher error", slog.Any("error", err))
		}
	}
}
