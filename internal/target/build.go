package target

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/mymake-build/mymake/internal/outputmux"
	"github.com/mymake-build/mymake/internal/procpool"
)

// LocalLibraries returns this target's own `library`/`localLibrary` config
// arrays, merged — the base of the library closure a Project resolves
// around dependency targets (spec §4.5), and the whole of it for a
// single-target (`.mymake`) build that has no siblings.
func (t *Target) LocalLibraries() []string {
	libs := append([]string{}, t.Config.GetArray("library", nil)...)
	libs = append(libs, t.Config.GetArray("localLibrary", nil)...)
	return libs
}

// Build runs the full single-target sequence (spec §4.4's closing
// paragraph): preBuild, find, compile, link, postBuild. libs is the
// library closure to link against (for a lone `.mymake` target this is
// just LocalLibraries(); a Project computes a richer closure across
// dependencies and passes that instead).
func (t *Target) Build(ctx context.Context, pool *procpool.Pool, mux *outputmux.Mux, libs []string, clr *color.Color, banner, prefix string) error {
	if err := t.RunSteps(ctx, pool, mux, "preBuild", clr, banner, prefix); err != nil {
		return err
	}
	if err := t.Find(); err != nil {
		return err
	}
	if err := t.Compile(ctx, pool, mux, clr, banner, prefix); err != nil {
		return err
	}
	if err := t.Link(ctx, pool, mux, libs, clr, banner, prefix); err != nil {
		return err
	}
	if err := t.RunSteps(ctx, pool, mux, "postBuild", clr, banner, prefix); err != nil {
		return err
	}
	return t.maybeExecute(ctx)
}

// maybeExecute runs the built artifact when `execute=yes` (spec §6's
// "execute, execPath, maxThreads, parallel" run-after-build keys), passing
// through its exit code (spec §6: "the exit code of the built executable is
// passed through when execute=yes").
func (t *Target) maybeExecute(ctx context.Context) error {
	if !t.Config.GetBool("execute", false) {
		return nil
	}
	execPath := t.Config.GetStr("execPath", t.Output.String())
	group := procpool.NewPool(1).NewGroup(1, nil)
	ok, err := group.Spawn(ctx, procpool.SpawnOptions{Command: execPath, Dir: t.Wd.String(), Env: t.buildEnv()})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	succeeded, results := group.Wait()
	if !succeeded {
		for _, r := range results {
			if r.ExitCode != 0 {
				return &ExecuteError{Code: r.ExitCode}
			}
		}
	}
	return nil
}

// ExecuteError carries the executed artifact's exit code back to cmd/mymake
// so the CLI can pass it through verbatim (spec §6: "the exit code of the
// built executable is passed through when execute=yes").
type ExecuteError struct {
	Code int
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("executable exited with code %d", e.Code)
}

func (e *ExecuteError) ExitCode() int {
	return e.Code
}
