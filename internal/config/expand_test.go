package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandVarsExtraTakesPriority(t *testing.T) {
	cfg := New()
	cfg.set("output", "from-config")
	got := ExpandVars("gcc -o <output> <input>", cfg, map[string]string{"input": "main.c", "output": "a.out"})
	assert.Equal(t, "gcc -o a.out main.c", got)
}

func TestExpandVarsFallsBackToConfigArray(t *testing.T) {
	cfg := New()
	cfg.appendValue("flags", "-Wall")
	cfg.appendValue("flags", "-O2")
	got := ExpandVars("gcc <flags> -c <input>", cfg, map[string]string{"input": "main.c"})
	assert.Equal(t, "gcc -Wall -O2 -c main.c", got)
}

func TestExpandVarsUnknownNameBecomesEmpty(t *testing.T) {
	got := ExpandVars("gcc <bogus> -c", New(), nil)
	assert.Equal(t, "gcc  -c", got)
}

func TestExpandVarsNoTokens(t *testing.T) {
	got := ExpandVars("plain command", New(), nil)
	assert.Equal(t, "plain command", got)
}

func TestExpandVarsUnterminatedToken(t *testing.T) {
	got := ExpandVars("gcc <unterminated", New(), nil)
	assert.Equal(t, "gcc <unterminated", got)
}
