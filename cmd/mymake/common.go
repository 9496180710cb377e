package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mymake-build/mymake/internal/cmdcache"
	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/outputmux"
	"github.com/mymake-build/mymake/internal/procpool"
	"github.com/mymake-build/mymake/internal/project"
	"github.com/mymake-build/mymake/internal/target"
)

const (
	singleTargetFile = ".mymake"
	projectFile      = ".myproject"
)

// activeSet builds spec §6's active tag set: the platform tag, the word
// size, and every option name given on the command line.
func activeSet(optionNames []string) config.ActiveSet {
	tags := append([]string{config.PlatformTag(), config.WordSizeTag()}, optionNames...)
	return config.NewActiveSet(tags...)
}

// globalProcLimit resolves the process-wide cap: the user's -j flag if set,
// otherwise ~/.mymake/settings.toml's max_processes, otherwise NumCPU.
func globalProcLimit(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if path, err := config.DefaultSettingsPath(); err == nil {
		if settings, err := config.LoadSettings(path); err == nil && settings.MaxProcesses > 0 {
			return settings.MaxProcesses
		}
	}
	return runtime.NumCPU()
}

// isProject reports whether wd looks like a multi-target project root.
func isProject(wd string) bool {
	_, err := os.Stat(mmpath.New(wd).JoinStr(projectFile).String())
	return err == nil
}

// loadSingleTarget wires a standalone `.mymake` build: its own CommandCache,
// scanner and command caches loaded from its own buildDir. force, if true,
// overrides the config's `force` key regardless of what (if anything) the
// file itself assigns.
func loadSingleTarget(wd mmpath.Path, active config.ActiveSet, force bool) (*target.Target, error) {
	cfgPath := wd.JoinStr(singleTargetFile).String()
	cfg, err := config.Load(cfgPath, active)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfgPath, err)
	}
	if force {
		cfg.Override("force", "yes")
	}
	commands := cmdcache.New()
	t := target.New(wd.Title(), wd, cfg, commands)
	t.LoadIncludeCache()
	_ = commands.Load(t.CommandCachePath())
	return t, nil
}

// loadProject wires a `.myproject` multi-target build. The force override is
// applied to the shared top-level config, so every target inherits it
// through its WithParent chain unless its own `.mymake` sets `force` itself.
func loadProject(wd mmpath.Path, active config.ActiveSet, targetNames []string, force bool) (*project.Project, error) {
	cfgPath := wd.JoinStr(projectFile).String()
	cfg, err := config.Load(cfgPath, active)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfgPath, err)
	}
	if force {
		cfg.Override("force", "yes")
	}
	if len(targetNames) == 0 {
		targetNames = cfg.GetArray("targets", nil)
	}
	p, err := project.Load(wd, cfg, targetNames)
	if err != nil {
		return nil, err
	}
	p.LoadCaches()
	return p, nil
}

func newPoolAndMux(procLimit int) (*procpool.Pool, *outputmux.Mux) {
	return procpool.NewPool(procLimit), outputmux.NewSplit(os.Stdout, os.Stderr)
}
