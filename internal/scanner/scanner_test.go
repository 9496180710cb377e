package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mymake-build/mymake/internal/mmpath"
)

func writeFile(t *testing.T, dir, name, content string) mmpath.Path {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return mmpath.New(full)
}

func TestInfoResolvesQuotedIncludesOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "foo.h", "int foo();\n")
	main := writeFile(t, dir, "main.c", "#include \"foo.h\"\n#include <stdio.h>\nint main(){return 0;}\n")

	s := New(mmpath.New(dir), nil)
	info := s.Info(main)

	assert.Equal(t, "foo.h", info.FirstInclude)
	require.Len(t, info.Includes, 1)
	assert.Equal(t, filepath.Join(dir, "foo.h"), info.Includes[0].String())
}

func TestInfoFollowsTransitiveIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.h", "\n")
	writeFile(t, dir, "b.h", "#include \"c.h\"\n")
	main := writeFile(t, dir, "main.c", "#include \"b.h\"\n")

	s := New(mmpath.New(dir), nil)
	info := s.Info(main)
	require.Len(t, info.Includes, 2)
}

func TestInfoIgnoredFileStopsDescent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.h", "#include \"c.h\"\n")
	writeFile(t, dir, "c.h", "\n")
	main := writeFile(t, dir, "main.c", "#include \"b.h\"\n")

	s := New(mmpath.New(dir), nil)
	s.SetIgnorePatterns([]string{"b.h"})
	info := s.Info(main)
	assert.True(t, info.Ignored, "main directly includes the ignored b.h")
}

func TestInfoUsesIncludePathFallback(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "inc")
	writeFile(t, incDir, "shared.h", "\n")
	main := writeFile(t, dir, "main.c", "#include \"shared.h\"\n")

	s := New(mmpath.New(dir), []mmpath.Path{mmpath.New(incDir)})
	info := s.Info(main)
	require.Len(t, info.Includes, 1)
	assert.Equal(t, filepath.Join(incDir, "shared.h"), info.Includes[0].String())
}

func TestFilesReturnsEveryResolvedRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "foo.h", "\n")
	main := writeFile(t, dir, "main.c", "#include \"foo.h\"\n")

	s := New(mmpath.New(dir), nil)
	s.Info(main)

	files := s.Files()
	assert.Len(t, files, 2)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "foo.h", "\n")
	main := writeFile(t, dir, "main.c", "#include \"foo.h\"\n")

	s := New(mmpath.New(dir), nil)
	s.Info(main)

	cachePath := filepath.Join(dir, "includecache")
	require.NoError(t, s.Save(cachePath))

	reloaded := New(mmpath.New(dir), nil)
	require.NoError(t, reloaded.Load(cachePath))
	assert.Len(t, reloaded.Files(), 2)
}
