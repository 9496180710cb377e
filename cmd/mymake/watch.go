package main

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
)

// watchLoop runs build once, then watches every file reachable from every
// loaded target's include closure (spec.md's distilled core has no notion of
// watch mode; this is the supplemented feature described in SPEC_FULL.md,
// grounded on fsnotify rather than on anything in the original source).
func watchLoop(ctx context.Context, wd mmpath.Path, active config.ActiveSet, targetNames []string, run func() error) error {
	if err := run(); err != nil {
		fmt.Println("mymake:", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	if err := addWatchedFiles(watcher, wd, active, targetNames, watched); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			fmt.Println("mymake: change detected in", event.Name, "— rebuilding")
			if err := run(); err != nil {
				fmt.Println("mymake:", err)
			}
			// the include set may have changed (new header, removed unit):
			// re-derive it so newly-discovered files are watched too.
			if err := addWatchedFiles(watcher, wd, active, targetNames, watched); err != nil {
				fmt.Println("mymake: re-scanning watch set:", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println("mymake: watch error:", err)
		}
	}
}

// addWatchedFiles loads (without building) either the single target or the
// project rooted at wd, and adds every file known to each target's Scanner
// to watcher, skipping paths already watched.
func addWatchedFiles(watcher *fsnotify.Watcher, wd mmpath.Path, active config.ActiveSet, targetNames []string, watched map[string]bool) error {
	var files []mmpath.Path

	if isProject(wd.String()) {
		p, err := loadProject(wd, active, targetNames, false)
		if err != nil {
			return err
		}
		for _, name := range p.Order() {
			t := p.Target(name)
			if t == nil {
				continue
			}
			_ = t.Find()
			files = append(files, t.Scanner.Files()...)
		}
	} else {
		t, err := loadSingleTarget(wd, active, false)
		if err != nil {
			return err
		}
		_ = t.Find()
		files = append(files, t.Scanner.Files()...)
	}

	for _, f := range files {
		path := f.String()
		if watched[path] {
			continue
		}
		if err := watcher.Add(path); err == nil {
			watched[path] = true
		}
	}
	return nil
}
