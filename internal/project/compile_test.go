package project

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mymake-build/mymake/internal/cmdcache"
	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/target"
)

// newTestTarget builds a minimal Target for library-closure tests: no
// scanning happens (Find is never called here), only the config-derived
// fields libraryClosure reads are exercised.
func newTestTarget(t *testing.T, name string, cfg *config.Config) *target.Target {
	t.Helper()
	wd := mmpath.New(t.TempDir())
	tg := target.New(name, wd, cfg, cmdcache.New())
	tg.Output = wd.JoinStr(name + ".out")
	return tg
}

func TestDedupLastOccurrenceKeepsFinalAppearance(t *testing.T) {
	in := []string{"a", "b", "a", "c", "b"}
	out := dedupLastOccurrence(in)
	assert.Equal(t, []string{"a", "c", "b"}, out)
}

func TestDedupLastOccurrenceNoDuplicates(t *testing.T) {
	in := []string{"x", "y", "z"}
	assert.Equal(t, in, dedupLastOccurrence(in))
}

func TestLibraryClosureWalksLinkOutputAndForwardDeps(t *testing.T) {
	p := &Project{nodes: make(map[string]*node)}

	leafCfg := config.New()
	leafCfg.Override("linkOutput", "yes")
	leaf := newTestTarget(t, "leaf", leafCfg)

	midCfg := config.New()
	midCfg.Override("linkOutput", "yes")
	midCfg.Override("forwardDeps", "yes")
	mid := newTestTarget(t, "mid", midCfg)
	mid.DependsOn["leaf"] = true

	appCfg := config.New()
	app := newTestTarget(t, "app", appCfg)
	app.DependsOn["mid"] = true

	p.nodes["leaf"] = newNode("leaf", leaf)
	p.nodes["mid"] = newNode("mid", mid)
	p.nodes["app"] = newNode("app", app)

	libs := p.libraryClosure("app")
	assert.Contains(t, libs, mid.Output.String())
	assert.Contains(t, libs, leaf.Output.String(), "mid has forwardDeps=yes, so its own dependency's output must be pulled in too")
}

func TestLibraryClosureStopsAtNonForwardingDependency(t *testing.T) {
	p := &Project{nodes: make(map[string]*node)}

	leafCfg := config.New()
	leafCfg.Override("linkOutput", "yes")
	leaf := newTestTarget(t, "leaf", leafCfg)

	midCfg := config.New()
	midCfg.Override("linkOutput", "yes")
	midCfg.Override("forwardDeps", "no")
	mid := newTestTarget(t, "mid", midCfg)
	mid.DependsOn["leaf"] = true

	appCfg := config.New()
	app := newTestTarget(t, "app", appCfg)
	app.DependsOn["mid"] = true

	p.nodes["leaf"] = newNode("leaf", leaf)
	p.nodes["mid"] = newNode("mid", mid)
	p.nodes["app"] = newNode("app", app)

	libs := p.libraryClosure("app")
	assert.Contains(t, libs, mid.Output.String())
	assert.NotContains(t, libs, leaf.Output.String(), "mid does not forward its own deps, so leaf's output must not leak into app's closure")
}

func TestLibraryClosureIncludesLocalLibraries(t *testing.T) {
	p := &Project{nodes: make(map[string]*node)}

	appCfg := config.New()
	appCfg.Override("library", "m")
	app := newTestTarget(t, "app", appCfg)

	p.nodes["app"] = newNode("app", app)

	libs := p.libraryClosure("app")
	assert.Equal(t, []string{"m"}, libs)
}

func TestTargetColorIsDeterministicPerOrder(t *testing.T) {
	c1 := targetColor(0)
	c2 := targetColor(0)
	c3 := targetColor(1)
	assert.Equal(t, c1, c2)
	assert.NotEqual(t, c1, c3)
}
