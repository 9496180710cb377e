package mmpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinSimplifiesDotDot(t *testing.T) {
	p := New("/a/b").JoinStr("../c")
	assert.Equal(t, "/a/c", p.String())
}

func TestJoinAbsoluteRelReplaces(t *testing.T) {
	base := New("/a/b")
	abs := New("/x/y")
	assert.Equal(t, abs.String(), base.Join(abs).String())
}

func TestIsChild(t *testing.T) {
	parent := New("/project/src")
	child := New("/project/src/foo/bar.c")
	sibling := New("/project/other/bar.c")

	assert.True(t, child.IsChild(parent))
	assert.False(t, sibling.IsChild(parent))
	assert.True(t, parent.IsChild(parent), "a path is its own child")
}

func TestMakeRelative(t *testing.T) {
	parent := New("/project/src")
	child := New("/project/src/foo/bar.c")
	rel := child.MakeRelative(parent)
	assert.Equal(t, "foo/bar.c", rel.String())
}

func TestWithExtAndExt(t *testing.T) {
	p := New("/src/main.cpp")
	assert.Equal(t, ".cpp", p.Ext())

	obj := p.WithExt(".o")
	assert.Equal(t, "/src/main.o", obj.String())

	noExt := p.WithExt("")
	assert.Equal(t, "/src/main", noExt.String())
}

func TestTitleAndTitleNoExt(t *testing.T) {
	p := New("/src/sub/main.cpp")
	assert.Equal(t, "main.cpp", p.Title())
	assert.Equal(t, "main", p.TitleNoExt())
	assert.Equal(t, "src", New("/src/sub").Parent().Title())
}

func TestFirst(t *testing.T) {
	p := New("libs/mathlib/foo.c")
	assert.Equal(t, "libs", p.First())
}

func TestEqualRespectsDirectoryFlag(t *testing.T) {
	a := New("/a/b")
	b := New("/a/b/")
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}

func TestKeyAgreesWithEqual(t *testing.T) {
	a := New("/a/b/c.h")
	b := New("/a/b/c.h")
	assert.Equal(t, a.Key(), b.Key())
}

func TestMakeDir(t *testing.T) {
	p := New("/a/b").MakeDir()
	assert.True(t, p.IsDir())
}
