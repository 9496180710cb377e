// Package project implements spec §4.5's Project scheduler: it loads sibling
// targets named by a `.myproject`, discovers further targets and their
// dependency edges by running each target's own dependency discovery,
// topologically orders them, and compiles them in dependency order with a
// configurable worker pool. Grounded on original_source/src/projectcompile.cpp
// (target loading, the worker dispatch loop, library-closure resolution) and
// internal/dsutil.TopoSort for the ordering itself.
package project

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mymake-build/mymake/internal/cmdcache"
	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/dsutil"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/target"
)

// Project coordinates a multi-target build.
type Project struct {
	Wd       mmpath.Path
	Commands *cmdcache.CommandCache

	nodes map[string]*node
	order []string // compile order, dependencies first
}

// CommandCachePath is the single project-level file the shared CommandCache
// is persisted to (spec §3: the command cache is "owned by... the project
// (multi-target build)", as opposed to each target owning its own).
func (p *Project) CommandCachePath() string {
	return p.Wd.JoinStr(".mymake-cache").String()
}

// LoadCaches reads the shared command cache plus every loaded target's own
// include cache. Call once, right after Load.
func (p *Project) LoadCaches() {
	_ = p.Commands.Load(p.CommandCachePath())
	for _, n := range p.nodes {
		n.target.LoadIncludeCache()
	}
}

// SaveCaches persists the shared command cache plus every target's include
// cache. Call once, after Compile returns (success or failure): partial
// progress is still worth keeping.
func (p *Project) SaveCaches() error {
	for _, n := range p.nodes {
		if err := n.target.SaveIncludeCache(); err != nil {
			return err
		}
	}
	return p.Commands.Save(p.CommandCachePath())
}

// Load implements spec §4.5's `find`: load each named target by directory
// under wd, run that target's own dependency discovery (Target.Find,
// populating Target.DependsOn from out-of-tree includes), transitively queue
// any newly-discovered sibling names plus the top-level `deps` config
// section's explicit arrays, and finally compute the compile order via a
// Kahn topological sort. Targets whose directory lacks a `.mymake` are
// silently skipped when `explicitTargets` is set; otherwise they're loaded
// using only inherited configuration.
func Load(wd mmpath.Path, topConfig *config.Config, targetNames []string) (*Project, error) {
	p := &Project{
		Wd:       wd,
		Commands: cmdcache.New(),
		nodes:    make(map[string]*node),
	}

	explicitTargets := topConfig.GetBool("explicitTargets", false)
	explicitDeps := parseExplicitDeps(topConfig.GetArray("deps", nil))

	queue := dsutil.NewUniqueQueue[string]()
	for _, name := range targetNames {
		queue.Push(name)
	}

	for queue.Any() {
		name := queue.Pop()
		if _, ok := p.nodes[name]; ok {
			continue
		}

		dir := wd.JoinStr(name)
		mmFile := dir.JoinStr(".mymake").String()

		cfg := topConfig
		if _, err := os.Stat(mmFile); err != nil {
			if explicitTargets {
				continue
			}
			// no .mymake: still loaded, using only the inherited top-level config
		} else if loaded, loadErr := config.Load(mmFile, config.NewActiveSet(config.PlatformTag(), config.WordSizeTag())); loadErr == nil {
			cfg = loaded.WithParent(topConfig)
		}

		t := target.New(name, dir, cfg, p.Commands)
		if err := t.Find(); err != nil {
			return nil, err
		}
		for _, dep := range explicitDeps[name] {
			t.DependsOn[dep] = true
		}

		n := newNode(name, t)
		p.nodes[name] = n

		for dep := range t.DependsOn {
			queue.Push(dep)
		}
	}

	order, err := p.topoSort()
	if err != nil {
		return nil, err
	}
	p.order = order
	for i, name := range order {
		p.nodes[name].order = i
	}
	return p, nil
}

// parseExplicitDeps reads the top-level `deps` config array: each entry is
// shaped `target:dependency` (the same "structured array entry" idiom the
// format already uses for `compile`'s `wildcard:template` pairs), recording
// one extra dependency edge a target's includes alone wouldn't reveal (spec
// §4.5: "the `deps` config section's explicit arrays").
func parseExplicitDeps(entries []string) map[string][]string {
	out := make(map[string][]string)
	for _, e := range entries {
		target, dep, ok := strings.Cut(e, ":")
		if !ok {
			continue
		}
		out[target] = append(out[target], dep)
	}
	return out
}

// topoSort runs dsutil.TopoSort over the loaded nodes' DependsOn edges (spec
// §4.5: "cycles cause a fatal diagnostic naming the nodes with minimum
// remaining in-degree. The returned order is compile order").
func (p *Project) topoSort() ([]string, error) {
	names := make([]string, 0, len(p.nodes))
	for name := range p.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]dsutil.Node[string], 0, len(names))
	for _, name := range names {
		var deps []string
		for dep := range p.nodes[name].target.DependsOn {
			if _, ok := p.nodes[dep]; ok {
				deps = append(deps, dep)
			}
		}
		sort.Strings(deps)
		nodes = append(nodes, dsutil.Node[string]{Name: name, DependsOn: deps})
	}

	sorted, err := dsutil.TopoSort(nodes)
	if err != nil {
		return nil, fmt.Errorf("dependency cycle: %w", err)
	}

	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = n.Name
	}
	return out, nil
}

// Order returns the compile order (dependencies first).
func (p *Project) Order() []string {
	return append([]string(nil), p.order...)
}

// Target returns the loaded Target for name, or nil if not loaded.
func (p *Project) Target(name string) *target.Target {
	if n, ok := p.nodes[name]; ok {
		return n.target
	}
	return nil
}
