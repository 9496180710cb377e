package target

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/outputmux"
	"github.com/mymake-build/mymake/internal/procpool"
)

// CompileError wraps a non-zero compile/link exit (spec §7's "compile/link
// failure" error kind).
type CompileError struct {
	Cmd  string
	Code int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("command exited with code %d: %s", e.Code, e.Cmd)
}

type compiledUnit struct {
	intermediate mmpath.Path
}

// Compile implements spec §4.4: for each unit in t.ToCompile, decide
// staleness, expand its command, and submit it to the pool's ProcessGroup
// scoped to this target. Because compiles run concurrently under the group,
// intermediate mTimes for newly-submitted units are only trustworthy after
// group.Wait() returns — they're collected in a second pass, not inline
// during submission.
func (t *Target) Compile(ctx context.Context, pool *procpool.Pool, mux *outputmux.Mux, clr *color.Color, banner, prefix string) error {
	group := pool.NewGroup(t.ProcLimit, mux)
	force := t.Config.GetBool("force", false)
	buildDir := t.buildDir()
	combinedPch := t.Config.GetBool("pchCompileCombined", false)
	env := t.buildEnv()

	var toLink []compiledUnit

	for _, unit := range t.ToCompile {
		if t.isIgnored(unit.Path) {
			continue
		}

		intermediate := t.intermediatePath(unit.Path, buildDir)
		if err := os.MkdirAll(intermediate.Parent().String(), 0o755); err != nil {
			return err
		}

		info := t.Scanner.Info(unit.Path)
		lastModified := info.LastModified(t.Times.Stat)
		cmd := t.expandCompileCommand(unit, intermediate)

		intermediateInfo := t.Times.Stat(intermediate)
		stale := force ||
			!intermediateInfo.Exists ||
			intermediateInfo.MTime.Before(lastModified) ||
			!t.Commands.Check(unit.Path.String(), cmd)

		if unit.IsPch {
			pchInfo := t.Times.Stat(t.pchArtifactPath())
			if !pchInfo.Exists || pchInfo.MTime.Before(lastModified) {
				stale = true
			}
		}

		toLink = append(toLink, compiledUnit{intermediate: intermediate})

		if !stale {
			continue
		}

		if unit.IsPch && !combinedPch {
			pchCmd := t.expandTemplate(t.Config.GetStr("pchCompile", ""), unit.Path, intermediate)
			if ok, err := group.Spawn(ctx, procpool.SpawnOptions{Command: pchCmd, Dir: t.Wd.String(), Env: env, Banner: banner, Prefix: prefix, Color: clr}); err != nil {
				return err
			} else if !ok {
				break
			}
		}

		if ok, err := group.Spawn(ctx, procpool.SpawnOptions{Command: cmd, Dir: t.Wd.String(), Env: env, Banner: banner, Prefix: prefix, Color: clr}); err != nil {
			return err
		} else if !ok {
			break
		}

		t.Commands.Set(unit.Path.String(), cmd)
	}

	ok, results := group.Wait()
	if !ok {
		for _, r := range results {
			if r.ExitCode != 0 {
				return &CompileError{Cmd: r.Command, Code: r.ExitCode}
			}
		}
		return fmt.Errorf("%s: compilation failed", t.Name)
	}

	for _, u := range toLink {
		t.Times.Invalidate(u.intermediate)
	}
	t.linkInputs = toLink
	return nil
}
