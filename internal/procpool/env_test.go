package procpool

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEnvReplace(t *testing.T) {
	out := BuildEnv([]string{"PATH=/usr/bin"}, []string{"PATH=/opt/bin"})
	assert.Equal(t, []string{"PATH=/opt/bin"}, out)
}

func TestBuildEnvPrepend(t *testing.T) {
	sep := ";"
	if runtime.GOOS != "windows" {
		sep = ":"
	}
	out := BuildEnv([]string{"PATH=/usr/bin"}, []string{"PATH<=/opt/bin"})
	assert.Equal(t, []string{"PATH=/opt/bin" + sep + "/usr/bin"}, out)
}

func TestBuildEnvAppend(t *testing.T) {
	sep := ";"
	if runtime.GOOS != "windows" {
		sep = ":"
	}
	out := BuildEnv([]string{"PATH=/usr/bin"}, []string{"PATH=>/opt/bin"})
	assert.Equal(t, []string{"PATH=/usr/bin" + sep + "/opt/bin"}, out)
}

func TestBuildEnvNewKeyAppendedAtEnd(t *testing.T) {
	out := BuildEnv([]string{"A=1"}, []string{"B=2"})
	assert.Equal(t, []string{"A=1", "B=2"}, out)
}

func TestBuildEnvIgnoresMalformedDirective(t *testing.T) {
	out := BuildEnv([]string{"A=1"}, []string{"nonsense"})
	assert.Equal(t, []string{"A=1"}, out)
}
