package main

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"gopkg.microglot.org/minilet.go/internal/fs"
	"gopkg.microglot.org/minilet.go/internal/idl"
	"gopkg.microglot.org/minilet.go/internal/target"
)

// watch runs r once and again after every change to a source directory
// until ctx is done. Changes that arrive within debounce of each other cause
// a single run.
func watch(ctx context.Context, r *runner, debounce time.Duration) error {
	for _, t := range r.targets {
		if target.IsStdin(t) {
			return errors.New("cannot watch standard input")
		}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	r.run(ctx)
	watchDirs(ctx, r, watcher)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			log.Debugf("%s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		case <-fire:
			fire = nil
			log.Infof("sources changed, parsing again")
			r.run(ctx)
			watchDirs(ctx, r, watcher)
		}
	}
}

// watchDirs adds the directories of every source the targets resolve to.
// Adding a directory twice has no effect.
func watchDirs(ctx context.Context, r *runner, watcher *fsnotify.Watcher) {
	for _, t := range r.targets {
		files, err := r.driver.FS.Open(ctx, target.Normalize(t))
		if err != nil {
			continue
		}
		for _, f := range files {
			dir := filepath.Dir(f.Path(ctx))
			if err := watcher.Add(dir); err != nil {
				log.Warningf("could not watch %s: %s", dir, err)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return fs.KindOf(event.Name) != idl.FileKindNone
}
