package wildcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlobStar(t *testing.T) {
	p := Compile("generated/**/*.pb.c")
	assert.True(t, p.Match("generated/proto/foo.pb.c"))
	assert.False(t, p.Match("src/foo.pb.c"))
}

func TestMatchBareBasename(t *testing.T) {
	p := Compile("moc_foo.cpp")
	assert.True(t, p.Match("build/moc_foo.cpp"))
	assert.True(t, p.Match("moc_foo.cpp"))
	assert.False(t, p.Match("moc_foo.cpp.bak"))
}

func TestMatchAny(t *testing.T) {
	patterns := CompileAll([]string{"*.bak", "vendor/*"})
	assert.True(t, MatchAny(patterns, "thing.bak"))
	assert.True(t, MatchAny(patterns, "vendor/lib.c"))
	assert.False(t, MatchAny(patterns, "src/main.c"))
}

func TestMatchNormalizesBackslashes(t *testing.T) {
	p := Compile(`vendor\*.c`)
	assert.True(t, p.Match(`vendor\foo.c`))
}
