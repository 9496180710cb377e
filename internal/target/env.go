package target

import (
	"os"

	"github.com/mymake-build/mymake/internal/procpool"
)

// buildEnv merges the current process environment with this target's `env`
// config directives (spec §4.6).
func (t *Target) buildEnv() []string {
	return procpool.BuildEnv(os.Environ(), t.Config.GetArray("env", nil))
}
