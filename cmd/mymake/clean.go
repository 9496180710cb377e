package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mymake-build/mymake/internal/mmpath"
)

func newCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Remove build directories and caches for the target(s) rooted here",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			wd := mmpath.New(dir).MakeDir()
			active := activeSet(nil)

			if isProject(wd.String()) {
				p, err := loadProject(wd, active, args, false)
				if err != nil {
					return err
				}
				for _, name := range p.Order() {
					t := p.Target(name)
					if t == nil {
						continue
					}
					if err := os.RemoveAll(t.BuildDirPath()); err != nil {
						return err
					}
				}
				return os.RemoveAll(p.CommandCachePath())
			}

			t, err := loadSingleTarget(wd, active, false)
			if err != nil {
				return err
			}
			return os.RemoveAll(t.BuildDirPath())
		},
	}
	return cmd
}
