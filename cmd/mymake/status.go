package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/target"
)

// targetStatus is one target's summary, gathered on a worker goroutine and
// collected over a channel — the same fan-out/collect shape nocc's
// manage-servers.go uses for per-remote-host health, repurposed here to fan
// out over this project's targets instead of remote hosts.
type targetStatus struct {
	name       string
	err        error
	stale      bool
	output     string
	dependsOn  []string
	checkedFor time.Duration
}

func statusOne(name string, t *target.Target, resChannel chan targetStatus) {
	start := time.Now()
	err := t.Find()
	st := targetStatus{name: name, checkedFor: time.Since(start)}
	if err != nil {
		st.err = err
		resChannel <- st
		return
	}
	st.output = t.Output.String()
	info := mmpath.Stat(t.Output)
	st.stale = !info.Exists
	for dep := range t.DependsOn {
		st.dependsOn = append(st.dependsOn, dep)
	}
	resChannel <- st
}

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [targets...]",
		Short: "Print a per-target summary: output path, dependencies, freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			wd := mmpath.New(dir).MakeDir()
			active := activeSet(nil)

			var names []string
			var targets map[string]*target.Target

			if isProject(wd.String()) {
				p, err := loadProject(wd, active, args, false)
				if err != nil {
					return err
				}
				names = p.Order()
				targets = make(map[string]*target.Target, len(names))
				for _, n := range names {
					targets[n] = p.Target(n)
				}
			} else {
				t, err := loadSingleTarget(wd, active, false)
				if err != nil {
					return err
				}
				names = []string{t.Name}
				targets = map[string]*target.Target{t.Name: t}
			}

			resChannel := make(chan targetStatus)
			for _, name := range names {
				go statusOne(name, targets[name], resChannel)
			}

			nOk := 0
			for range names {
				st := <-resChannel
				printStatus(st)
				if st.err == nil && !st.stale {
					nOk++
				}
			}

			if len(names) > 1 {
				fmt.Printf("\nSummary: %d / %d targets up to date with no errors\n", nOk, len(names))
			}
			return nil
		},
	}
	return cmd
}

func printStatus(st targetStatus) {
	name := color.New(color.FgCyan, color.Bold).Sprint(st.name)
	if st.err != nil {
		fmt.Printf("%s: %s\n", name, color.New(color.FgRed).Sprintf("error: %v", st.err))
		return
	}
	freshness := "built"
	if st.stale {
		freshness = color.New(color.FgYellow).Sprint("needs build")
	}
	fmt.Printf("%s: %s (%s)\n", name, st.output, freshness)
	if len(st.dependsOn) > 0 {
		fmt.Printf("  depends on: %v\n", st.dependsOn)
	}
}
