package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mymake-build/mymake/internal/mmpath"
)

// newWatchCommand is a thin alias for `build --watch`: a dedicated verb is
// more discoverable than a flag for a feature with no equivalent in the
// original spec.
func newWatchCommand() *cobra.Command {
	var procLimitFlag int

	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Build, then rebuild automatically on every watched file change",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			wd := mmpath.New(dir).MakeDir()
			active := activeSet(nil)

			run := func() error { return runBuild(cmd.Context(), wd, active, args, procLimitFlag, false) }
			return watchLoop(cmd.Context(), wd, active, args, run)
		},
	}

	cmd.Flags().IntVarP(&procLimitFlag, "jobs", "j", 0, "global process cap (0 = derive from settings/NumCPU)")
	return cmd
}
