package project

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"

	"github.com/mymake-build/mymake/internal/outputmux"
	"github.com/mymake-build/mymake/internal/procpool"
)

// Compile implements spec §4.5's dispatch loop: with maxThreads ≤ 1 or
// parallel=false, targets are built strictly in compile order on the calling
// goroutine; otherwise N worker goroutines each atomically claim the next
// unclaimed index, wait on the completion condition of every one of that
// node's dependencies, then build. A failure anywhere sets a shared ok=false
// flag and every claimed node still finishes (so no waiter blocks forever),
// but workers stop claiming new indices once the flag is set.
func (p *Project) Compile(ctx context.Context, pool *procpool.Pool, mux *outputmux.Mux, maxThreads int, parallel bool, banner func(name string) string) error {
	if maxThreads < 1 {
		maxThreads = 1
	}
	if !parallel {
		maxThreads = 1
	}

	var nextIndex int64 = -1
	var failed int32

	worker := func() error {
	claimLoop:
		for {
			if atomic.LoadInt32(&failed) != 0 {
				return nil
			}
			i := atomic.AddInt64(&nextIndex, 1)
			if int(i) >= len(p.order) {
				return nil
			}
			name := p.order[i]
			n := p.nodes[name]

			for dep := range n.target.DependsOn {
				dn, ok := p.nodes[dep]
				if !ok {
					continue
				}
				status, err := dn.waitDone()
				if status == Error || err != nil {
					atomic.StoreInt32(&failed, 1)
					n.finish(Error, fmt.Errorf("%s: dependency %s failed", name, dep))
					continue claimLoop
				}
			}

			if atomic.LoadInt32(&failed) != 0 {
				n.finish(Error, fmt.Errorf("%s: build aborted", name))
				continue claimLoop
			}

			if err := p.buildOne(ctx, pool, mux, n, banner); err != nil {
				atomic.StoreInt32(&failed, 1)
				n.finish(Error, err)
				return err
			}
			n.finish(OK, nil)
		}
	}

	if maxThreads == 1 {
		return worker()
	}

	var wg sync.WaitGroup
	errs := make([]error, maxThreads)
	for w := 0; w < maxThreads; w++ {
		wg.Add(1)
		idx := w
		go func() {
			defer wg.Done()
			errs[idx] = worker()
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if atomic.LoadInt32(&failed) != 0 {
		return fmt.Errorf("build failed")
	}
	return nil
}

// buildOne resolves n's library closure and runs its full build sequence.
func (p *Project) buildOne(ctx context.Context, pool *procpool.Pool, mux *outputmux.Mux, n *node, banner func(name string) string) error {
	libs := p.libraryClosure(n.name)
	b := ""
	if banner != nil {
		b = banner(n.name)
	}
	clr := targetColor(n.order)
	return n.target.Build(ctx, pool, mux, libs, clr, b, "["+n.name+"] ")
}

// targetColor assigns each target a deterministic color from a fixed
// palette by its compile-order index (spec §4.7's banner mechanism). The
// color applies to the banner line only; prefixes and output lines are
// printed uncolored.
func targetColor(order int) *color.Color {
	palette := []color.Attribute{color.FgCyan, color.FgMagenta, color.FgYellow, color.FgGreen, color.FgBlue, color.FgRed}
	return color.New(palette[order%len(palette)], color.Bold)
}

// libraryClosure implements spec §4.5's paragraph 4: walk dependsOn, and for
// each dependency with linkOutput=true, add its output path; recurse into a
// dependency's own dependencies when that dependency has forwardDeps=true.
// Duplicates are removed keeping only the final appearance, which preserves
// left-to-right linker resolution order for gnu-style linkers.
func (p *Project) libraryClosure(name string) []string {
	n, ok := p.nodes[name]
	if !ok {
		return nil
	}

	var walk func(name string, libs *[]string, visited map[string]bool)
	walk = func(name string, libs *[]string, visited map[string]bool) {
		if visited[name] {
			return
		}
		visited[name] = true
		dn, ok := p.nodes[name]
		if !ok {
			return
		}
		for dep := range dn.target.DependsOn {
			depNode, ok := p.nodes[dep]
			if !ok {
				continue
			}
			if depNode.target.LinkOutput {
				*libs = append(*libs, depNode.target.Output.String())
			}
			if depNode.target.ForwardDeps {
				walk(dep, libs, visited)
			}
		}
	}

	var libs []string
	libs = append(libs, n.target.LocalLibraries()...)
	walk(name, &libs, map[string]bool{})

	return dedupLastOccurrence(libs)
}

// dedupLastOccurrence keeps only the final appearance of each string,
// preserving the relative order of the surviving occurrences.
func dedupLastOccurrence(items []string) []string {
	lastIndex := make(map[string]int, len(items))
	for i, item := range items {
		lastIndex[item] = i
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if lastIndex[item] == i {
			out = append(out, item)
		}
	}
	return out
}
