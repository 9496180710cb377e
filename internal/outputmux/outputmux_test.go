package outputmux

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEmitsPrefixedLines(t *testing.T) {
	var buf bytes.Buffer
	mux := New(&buf)

	state := NewOutputState("", "[app] ", nil)
	mux.AddPipe(io.NopCloser(strings.NewReader("line one\nline two\n")), state, false, 0)
	mux.Wait()

	out := buf.String()
	assert.Contains(t, out, "[app] line one")
	assert.Contains(t, out, "[app] line two")
}

func TestBannerEmittedOnceBeforeFirstLine(t *testing.T) {
	var buf bytes.Buffer
	mux := New(&buf)

	state := NewOutputState("=== building app ===", "", nil)
	mux.AddPipe(io.NopCloser(strings.NewReader("out1\n")), state, false, 0)
	mux.AddPipe(io.NopCloser(strings.NewReader("out2\n")), state, true, 0)
	mux.Wait()

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "=== building app ==="))
}

func TestSkipLinesDiscardsLeadingOutput(t *testing.T) {
	var buf bytes.Buffer
	mux := New(&buf)

	state := NewOutputState("", "", nil)
	mux.AddPipe(io.NopCloser(strings.NewReader("echoed-banner\nreal output\n")), state, false, 1)
	mux.Wait()

	out := buf.String()
	assert.NotContains(t, out, "echoed-banner")
	assert.Contains(t, out, "real output")
}

func TestConcurrentPipesDoNotInterleaveMidLine(t *testing.T) {
	var buf bytes.Buffer
	mux := New(&buf)

	long := strings.Repeat("x", 4096) + "\n"
	state1 := NewOutputState("", "[a] ", nil)
	state2 := NewOutputState("", "[b] ", nil)
	for i := 0; i < 20; i++ {
		mux.AddPipe(io.NopCloser(strings.NewReader(long)), state1, false, 0)
		mux.AddPipe(io.NopCloser(strings.NewReader(long)), state2, false, 0)
	}
	mux.Wait()

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "[a] ") || strings.HasPrefix(line, "[b] "))
	}
}
