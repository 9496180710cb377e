package target

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/outputmux"
	"github.com/mymake-build/mymake/internal/procpool"
)

// Link implements spec §4.4's link decision: compute latestModified as the
// max of every intermediate's mTime and every library's mTime (libraries
// missing from disk are assumed system-provided and contribute nothing),
// then link iff force, output missing, or output older than latestModified.
// libs is the resolved, deduplicated library closure a Project computes
// (spec §4.5); a single-target build passes the target's own
// LocalLibraries() (`library` plus `localLibrary`) instead.
func (t *Target) Link(ctx context.Context, pool *procpool.Pool, mux *outputmux.Mux, libs []string, clr *color.Color, banner, prefix string) error {
	force := t.Config.GetBool("force", false)

	latest := mmpath.Zero
	var files []string
	for _, u := range t.linkInputs {
		info := t.Times.Stat(u.intermediate)
		latest = mmpath.Max(latest, info.MTime)
		files = append(files, u.intermediate.String())
	}
	for _, lib := range libs {
		p := mmpath.New(lib)
		info := t.Times.Stat(p)
		if info.Exists {
			latest = mmpath.Max(latest, info.MTime)
		}
	}

	outInfo := t.Times.Stat(t.Output)
	stale := force || !outInfo.Exists || outInfo.MTime.Before(latest)
	if !stale {
		return nil
	}

	if err := os.MkdirAll(t.Output.Parent().String(), 0o755); err != nil {
		return err
	}

	libCl := t.Config.GetStr("libraryCl", "-l")
	libArgs := make([]string, 0, len(libs))
	for _, l := range libs {
		libArgs = append(libArgs, libCl+l)
	}

	extra := map[string]string{
		"files":  strings.Join(files, " "),
		"output": t.Output.String(),
		"libs":   strings.Join(libArgs, " "),
	}
	template := t.Config.GetStr("link", "")
	cmd := config.ExpandVars(template, t.Config, extra)

	group := pool.NewGroup(1, mux)
	ok, err := group.Spawn(ctx, procpool.SpawnOptions{Command: cmd, Dir: t.Wd.String(), Env: t.buildEnv(), Banner: banner, Prefix: prefix, Color: clr})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: link skipped, group already failed", t.Name)
	}
	succeeded, results := group.Wait()
	if !succeeded {
		for _, r := range results {
			if r.ExitCode != 0 {
				return &CompileError{Cmd: r.Command, Code: r.ExitCode}
			}
		}
		return fmt.Errorf("%s: link failed", t.Name)
	}
	return nil
}

// RunSteps expands and serially executes a `preBuild`/`postBuild` config
// array (spec §4.4: "expanded and executed serially... any non-zero exit
// aborts the target").
func (t *Target) RunSteps(ctx context.Context, pool *procpool.Pool, mux *outputmux.Mux, key string, clr *color.Color, banner, prefix string) error {
	steps := t.Config.GetArray(key, nil)
	if len(steps) == 0 {
		return nil
	}
	group := pool.NewGroup(1, mux)
	env := t.buildEnv()
	for _, step := range steps {
		cmd := config.ExpandVars(step, t.Config, nil)
		ok, err := group.Spawn(ctx, procpool.SpawnOptions{Command: cmd, Dir: t.Wd.String(), Env: env, Banner: banner, Prefix: prefix, Color: clr})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		succeeded, results := group.Wait()
		if !succeeded {
			for _, r := range results {
				if r.ExitCode != 0 {
					return &CompileError{Cmd: r.Command, Code: r.ExitCode}
				}
			}
			return fmt.Errorf("%s: %s step failed", t.Name, key)
		}
		group = pool.NewGroup(1, mux)
	}
	return nil
}
