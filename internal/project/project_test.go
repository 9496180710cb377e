package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/outputmux"
	"github.com/mymake-build/mymake/internal/procpool"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setUpLibAndApp lays out a two-target project on disk: lib exposes
// foo.h/foo.c, app's main.c includes lib's header, which Target.Find must
// turn into a cross-target dependency edge without any explicit `deps` entry.
func setUpLibAndApp(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "lib", ".mymake"), strings.Join([]string{
		"input=*",
		"compile=*:true",
		"link=true",
		"output=liboutput",
	}, "\n")+"\n")
	writeFile(t, filepath.Join(root, "lib", "foo.h"), "\n")
	writeFile(t, filepath.Join(root, "lib", "foo.c"), "#include \"foo.h\"\n")

	writeFile(t, filepath.Join(root, "app", ".mymake"), strings.Join([]string{
		"input=*",
		"compile=*:true",
		"link=true",
		"output=appoutput",
	}, "\n")+"\n")
	writeFile(t, filepath.Join(root, "app", "main.c"), "#include \"../lib/foo.h\"\n")

	return root
}

func TestProjectLoadOrdersLibBeforeApp(t *testing.T) {
	root := setUpLibAndApp(t)
	topConfig := config.New()

	p, err := Load(mmpath.New(root), topConfig, []string{"app", "lib"})
	require.NoError(t, err)

	order := p.Order()
	require.Len(t, order, 2)

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["lib"], pos["app"], "lib has no .mymake-declared dependency on app but app's header include does depend on lib")
}

func TestProjectLoadDetectsCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", ".mymake"), "input=*\n")
	writeFile(t, filepath.Join(root, "a", "a.c"), "#include \"../b/b.h\"\n")
	writeFile(t, filepath.Join(root, "b", ".mymake"), "input=*\n")
	writeFile(t, filepath.Join(root, "b", "b.h"), "\n")
	writeFile(t, filepath.Join(root, "b", "b.c"), "#include \"../a/a.h\"\n")
	writeFile(t, filepath.Join(root, "a", "a.h"), "\n")

	topConfig := config.New()
	_, err := Load(mmpath.New(root), topConfig, []string{"a", "b"})
	require.Error(t, err)
}

func TestProjectCompileBuildsInDependencyOrder(t *testing.T) {
	root := setUpLibAndApp(t)
	topConfig := config.New()

	p, err := Load(mmpath.New(root), topConfig, []string{"app", "lib"})
	require.NoError(t, err)

	pool := procpool.NewPool(2)
	mux := outputmux.New(&discard{})
	err = p.Compile(context.Background(), pool, mux, 2, true, nil)
	mux.Wait()
	require.NoError(t, err)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
