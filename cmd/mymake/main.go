// Command mymake is an incremental, dependency-aware build driver for
// C-family source trees: a single `.mymake` file drives one target, a
// `.myproject` drives several with cross-target dependency discovery.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mymake-build/mymake/internal/common"
)

var (
	logFileName  string
	logVerbosity int
	logger       *common.Logger
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mymake",
		Short: "Incremental build driver for C/C++ source trees",
		Long: `mymake drives gcc/clang/msvc-style builds from a small, sectioned
config file: .mymake for a single target, .myproject for several targets
built in dependency order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger()
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logFileName, "log-file", "", "log to this file instead of stderr")
	root.PersistentFlags().IntVar(&logVerbosity, "log-verbosity", 0, "logger verbosity, -1 (silent) to 2 (debug)")

	root.AddCommand(newBuildCommand())
	root.AddCommand(newCleanCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newWatchCommand())

	return root
}

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if ec, ok := err.(exitCoder); ok {
			fmt.Fprintln(os.Stderr, "mymake:", err)
			return ec.ExitCode()
		}
		fmt.Fprintln(os.Stderr, "mymake:", err)
		return 1
	}
	return 0
}

// exitCoder is implemented by errors that carry a specific process exit
// code (spec §6: "0 = success; 1 = build/parse/config failure; 10/11 =
// internal OS wait failure. The exit code of the built executable is
// passed through when execute=yes").
type exitCoder interface {
	ExitCode() int
}

func newLogger() (*common.Logger, error) {
	return common.MakeLogger(logFileName, logVerbosity, logFileName != "" && logFileName != "stderr")
}
