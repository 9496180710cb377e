package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/target"
)

func newBuildCommand() *cobra.Command {
	var (
		procLimitFlag int
		forceFlag     bool
		watchFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the target(s) rooted at the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			var optionNames []string
			if forceFlag {
				optionNames = append(optionNames, "force")
			}

			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			wd := mmpath.New(dir).MakeDir()
			active := activeSet(optionNames)

			run := func() error {
				return runBuild(cmd.Context(), wd, active, args, procLimitFlag, forceFlag)
			}

			if !watchFlag {
				return run()
			}
			return watchLoop(cmd.Context(), wd, active, args, run)
		},
	}

	cmd.Flags().IntVarP(&procLimitFlag, "jobs", "j", 0, "global process cap (0 = derive from settings/NumCPU)")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "rebuild every unit regardless of staleness")
	cmd.Flags().BoolVar(&watchFlag, "watch", false, "rebuild automatically when a watched file changes")

	return cmd
}

// logBuildFailure logs a build error, attaching the failing command and exit
// code as structured fields when err carries them (a *target.CompileError or
// *target.ExecuteError) rather than just stringifying err into the message.
func logBuildFailure(msg string, err error) {
	switch e := err.(type) {
	case *target.CompileError:
		logger.ErrorFields(logrus.Fields{"command": e.Cmd, "exitCode": e.Code}, msg)
	case *target.ExecuteError:
		logger.ErrorFields(logrus.Fields{"exitCode": e.Code}, msg)
	default:
		logger.Error(msg+":", err)
	}
}

// runBuild loads either a single .mymake target or a .myproject tree rooted
// at wd and builds it, persisting caches afterward regardless of outcome.
func runBuild(ctx context.Context, wd mmpath.Path, active config.ActiveSet, targetNames []string, procLimitFlag int, force bool) error {
	procLimit := globalProcLimit(procLimitFlag)
	pool, mux := newPoolAndMux(procLimit)
	defer mux.Wait()

	if isProject(wd.String()) {
		p, err := loadProject(wd, active, targetNames, force)
		if err != nil {
			return err
		}
		logger.Info(1, "building project", wd.String(), "targets", p.Order())
		banner := func(name string) string { return "" }
		buildErr := p.Compile(ctx, pool, mux, procLimit, true, banner)
		if buildErr != nil {
			logBuildFailure("project build failed", buildErr)
		}
		if saveErr := p.SaveCaches(); saveErr != nil && buildErr == nil {
			buildErr = saveErr
		}
		return buildErr
	}

	t, err := loadSingleTarget(wd, active, force)
	if err != nil {
		return err
	}
	logger.Info(1, "building target", t.Name)
	clr := color.New(color.FgCyan, color.Bold)
	buildErr := t.Build(ctx, pool, mux, t.LocalLibraries(), clr, "", "")
	if buildErr != nil {
		logBuildFailure("build failed", buildErr)
	}
	if saveErr := t.SaveIncludeCache(); saveErr != nil && buildErr == nil {
		buildErr = saveErr
	}
	if saveErr := t.Commands.Save(t.CommandCachePath()); saveErr != nil && buildErr == nil {
		buildErr = saveErr
	}
	return buildErr
}
