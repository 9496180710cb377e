// Package outputmux implements spec §4.7's OutputMux: child processes'
// stdout/stderr are multiplexed onto the real stdout as whole, banner- and
// prefix-tagged lines, emitted atomically under one lock so that output from
// concurrent targets never interleaves mid-line (spec §8 property 6).
//
// The source's design is a single thread polling all pipes plus a self-pipe
// for control messages (spec §4.7). Go has no need for that: each pipe gets
// its own reader goroutine doing ordinary blocking line reads (bufio.Scanner
// naturally buffers "accumulate until newline"), and every goroutine funnels
// complete lines through one channel to a single consumer goroutine that
// holds the stdout lock for the width of one emit. This keeps the
// end-user-visible contract (atomic whole-line emission, fair interleaving
// only at line boundaries) while replacing the self-pipe plumbing with
// ordinary channels — grounded on nocc's internal/server/cxx-launcher.go for
// "a goroutine per in-flight unit of work" style.
package outputmux

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// OutputState is the banner/prefix shared by every pipe belonging to one
// running command (spec §4.7's reference-counted OutputState): the banner is
// emitted once, before the first line from either of this command's pipes.
type OutputState struct {
	Banner string
	Prefix string
	Color  *color.Color

	mu            sync.Mutex
	bannerEmitted bool
}

func NewOutputState(banner, prefix string, c *color.Color) *OutputState {
	return &OutputState{Banner: banner, Prefix: prefix, Color: c}
}

type lineMsg struct {
	state    *OutputState
	line     string
	isStderr bool
}

// Mux is the single consumer of every pipe's lines; Out defaults to the
// process's real stdout but is swappable for tests. ErrOut, if set, receives
// lines from pipes added with isStderr=true instead of Out — matching
// original_source/src/output.h's PLN (writes to std::cout) versus PERROR
// (writes to std::cerr), both taken under the same lock so the two streams
// never interleave mid-line. A nil ErrOut merges stderr lines onto Out.
type Mux struct {
	Out    io.Writer
	ErrOut io.Writer
	lock   sync.Mutex // the "global stdout lock" (spec §5)

	lines chan lineMsg
	wg    sync.WaitGroup
	done  chan struct{}
}

func New(out io.Writer) *Mux {
	m := &Mux{
		Out:   out,
		lines: make(chan lineMsg, 256),
		done:  make(chan struct{}),
	}
	go m.consume()
	return m
}

// NewSplit is New, but routes stderr-tagged lines to errOut instead of
// merging them onto out.
func NewSplit(out, errOut io.Writer) *Mux {
	m := New(out)
	m.ErrOut = errOut
	return m
}

func (m *Mux) consume() {
	for msg := range m.lines {
		m.emit(msg)
	}
	close(m.done)
}

func (m *Mux) emit(msg lineMsg) {
	m.lock.Lock()
	defer m.lock.Unlock()

	out := m.Out
	if msg.isStderr && m.ErrOut != nil {
		out = m.ErrOut
	}

	st := msg.state
	st.mu.Lock()
	firstEmit := !st.bannerEmitted
	st.bannerEmitted = true
	st.mu.Unlock()

	if firstEmit && st.Banner != "" {
		if st.Color != nil {
			st.Color.Fprintln(out, st.Banner)
		} else {
			fmt.Fprintln(out, st.Banner)
		}
	}
	if st.Prefix != "" {
		fmt.Fprint(out, st.Prefix)
	}
	fmt.Fprintln(out, msg.line)
}

// AddPipe starts a reader goroutine for r, tagging every line it produces
// with state. skipLines leading lines are discarded before any output is
// emitted (spec §4.7: "used to swallow the banner that MSVC cl.exe echoes").
// Closing is always driven by EOF, never by the caller: once this function
// returns, the caller has handed r's lifetime to the mux (spec §9's "Pipe
// lifetime ambiguity" note — deferred close until EOF, never on remove). The
// returned channel closes once this pipe has been fully drained; os/exec
// requires every StdoutPipe/StderrPipe reader to finish before Cmd.Wait is
// called, so a caller holding its own *exec.Cmd must wait on it first.
func (m *Mux) AddPipe(r io.ReadCloser, state *OutputState, isStderr bool, skipLines int) <-chan struct{} {
	drained := make(chan struct{})
	m.wg.Add(1)
	go func() {
		defer close(drained)
		defer m.wg.Done()
		defer r.Close()

		scan := bufio.NewScanner(r)
		scan.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		skipped := 0
		for scan.Scan() {
			if skipped < skipLines {
				skipped++
				continue
			}
			m.lines <- lineMsg{state: state, line: scan.Text(), isStderr: isStderr}
		}
		// EOF: any partial final line bufio.Scanner held is already flushed by Scan's contract
	}()
	return drained
}

// Wait blocks until every added pipe has reached EOF and its line has been
// emitted, then stops the consumer goroutine. Call once, after all pipes for
// this run have been added.
func (m *Mux) Wait() {
	m.wg.Wait()
	close(m.lines)
	<-m.done
}
