package generator

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dhamidi/fusion/errors"
)

// Watch runs the generator once and then again whenever class files below
// the directory roots change, until ctx is done. Bursts of changes within
// Debounce of each other trigger a single run. Every run starts with an
// empty cache. fn receives the outcome of each run.
func (g *Generator) Watch(ctx context.Context, dirs []string, entries []string, fn func(*Report, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watchTree(watcher, dir); err != nil {
			return err
		}
	}

	fn(g.Run(ctx, entries))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New directories need watches of their own.
				_ = watchTree(watcher, event.Name)
			}
			if !strings.HasSuffix(event.Name, ".class") {
				continue
			}
			log.Debugf("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(g.Debounce)
			} else {
				timer.Reset(g.Debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch: %s", err)

		case <-fire:
			fire = nil
			log.Infof("classes changed, regenerating")
			fn(g.Run(ctx, entries))
		}
	}
}

// watchTree adds root and every directory below it. A root that is not a
// directory is ignored.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debugf("watch: skipping %s: %s", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}
