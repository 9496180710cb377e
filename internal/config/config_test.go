package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicAssignment(t *testing.T) {
	text := `
compiler=gcc
library+=m
library+=pthread
`
	cfg, err := Parse(strings.NewReader(text), NewActiveSet())
	require.NoError(t, err)
	assert.Equal(t, "gcc", cfg.GetStr("compiler", ""))
	assert.Equal(t, []string{"m", "pthread"}, cfg.GetArray("library", nil))
}

func TestParseSectionGating(t *testing.T) {
	text := `
compiler=gcc
[windows]
compiler=cl
[unix]
compiler=clang
`
	cfg, err := Parse(strings.NewReader(text), NewActiveSet("unix"))
	require.NoError(t, err)
	assert.Equal(t, "clang", cfg.GetStr("compiler", ""))
}

func TestParseNegatedTag(t *testing.T) {
	text := `
[!force]
optimize=yes
[force]
optimize=no
`
	cfg, err := Parse(strings.NewReader(text), NewActiveSet())
	require.NoError(t, err)
	assert.Equal(t, "yes", cfg.GetStr("optimize", ""))

	cfg2, err := Parse(strings.NewReader(text), NewActiveSet("force"))
	require.NoError(t, err)
	assert.Equal(t, "no", cfg2.GetStr("optimize", ""))
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	text := `
# a comment
compiler=gcc # trailing comment

`
	cfg, err := Parse(strings.NewReader(text), NewActiveSet())
	require.NoError(t, err)
	assert.Equal(t, "gcc", cfg.GetStr("compiler", ""))
}

func TestParseMalformedSectionHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("[unix\n"), NewActiveSet())
	assert.Error(t, err)
}

func TestParseAssignmentWithoutEquals(t *testing.T) {
	_, err := Parse(strings.NewReader("nonsense-line\n"), NewActiveSet())
	assert.Error(t, err)
}

func TestConfigWithParentFallback(t *testing.T) {
	parent := New()
	parent.set("compiler", "gcc")
	child := New().WithParent(parent)
	assert.Equal(t, "gcc", child.GetStr("compiler", ""))

	child.set("compiler", "clang")
	assert.Equal(t, "clang", child.GetStr("compiler", ""))
	assert.Equal(t, "gcc", parent.GetStr("compiler", ""))
}

func TestConfigWithParentKeepsReceiversOwnValues(t *testing.T) {
	parent := New()
	parent.set("compiler", "gcc")
	parent.set("output", "fallback")

	receiver := New()
	receiver.set("output", "mytarget")
	chained := receiver.WithParent(parent)

	assert.Equal(t, "mytarget", chained.GetStr("output", ""), "the receiver's own value must survive chaining, not just the parent's")
	assert.Equal(t, "gcc", chained.GetStr("compiler", ""), "a key only the parent defines must still fall back correctly")
}

func TestConfigOverrideShadowsFileValue(t *testing.T) {
	cfg, err := Parse(strings.NewReader("force=no\n"), NewActiveSet())
	require.NoError(t, err)
	assert.False(t, cfg.GetBool("force", false))

	cfg.Override("force", "yes")
	assert.True(t, cfg.GetBool("force", false))
}

func TestConfigGetBoolLooseParsing(t *testing.T) {
	cfg := New()
	cfg.set("a", "yes")
	cfg.set("b", "0")
	cfg.set("c", "banana")

	assert.True(t, cfg.GetBool("a", false))
	assert.False(t, cfg.GetBool("b", true))
	assert.True(t, cfg.GetBool("c", true), "unrecognized values fall back to the default")
}

func TestConfigHas(t *testing.T) {
	cfg := New()
	assert.False(t, cfg.Has("missing"))
	cfg.set("present", "x")
	assert.True(t, cfg.Has("present"))
}
