// Package procpool implements spec §4.6's ProcessPool and ProcessGroup: a
// global cap on live child processes plus per-target local caps, with output
// piped to an internal/outputmux.Mux.
//
// Spec §9 flags the source's design (a linked list of waiters, one of which
// holds a "manager" role looping on the OS wait, handed off on exit) as worth
// re-architecting: "a single dedicated reaper task plus a broadcast channel
// of exit events to whichever futures are interested." In Go, exec.Cmd.Wait
// already gives each caller its own OS wait without a shared blocking loop,
// so the idiomatic equivalent is simpler still: one goroutine per spawned
// process calls Wait itself and releases its semaphore slots on exit — no
// manager role to hand off, no waiter list, same end-user guarantees (a
// single global live-count ceiling, fair admission via semaphore FIFO-ish
// ordering).
package procpool

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/sync/semaphore"

	"github.com/mymake-build/mymake/internal/outputmux"
)

// Pool enforces spec §4.6's single process-count limit across the whole run.
type Pool struct {
	sem   *semaphore.Weighted
	limit int
}

func NewPool(procLimit int) *Pool {
	if procLimit < 1 {
		procLimit = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(procLimit)), limit: procLimit}
}

// NewGroup returns a scoped sub-pool with its own local cap (spec §4.6's
// ProcessGroup), sharing this Pool's global cap.
func (p *Pool) NewGroup(limit int, mux *outputmux.Mux) *Group {
	if limit < 1 {
		limit = 1
	}
	return &Group{
		pool:  p,
		local: semaphore.NewWeighted(int64(limit)),
		limit: limit,
		mux:   mux,
	}
}

// Result describes one finished child process (spec §4.6's exit-code rules).
type Result struct {
	Command  string
	ExitCode int // 0 success; -signo if killed by signal; otherwise the process's exit code
	Err      error
}

// SpawnOptions configures one child process launch (spec §4.6's "Process
// launch" paragraph).
type SpawnOptions struct {
	Command  string // a shell command line, run via the platform shell
	Dir      string
	Env      []string // full environment (already merged via BuildEnv)
	Banner   string
	Prefix   string
	Color    *color.Color // nil means uncolored banner text
	SkipLines int // MSVC-echo swallowing, forwarded to outputmux.AddPipe
}

// Group is spec §4.6's ProcessGroup: a shared failure flag plus a local
// concurrency cap.
type Group struct {
	pool  *Pool
	local *semaphore.Weighted
	limit int

	mu      sync.Mutex
	wg      sync.WaitGroup
	failed  bool
	results []Result

	mux *outputmux.Mux
}

// Spawn blocks until both the global and local live-process counts permit
// launching, then starts command. Returns (false, nil) without launching if
// the group has already failed (spec §4.6: "If a previous process in the
// group failed, spawn returns false without launching"). When the group's
// local limit is 1 (or the pool's global limit is 1), Spawn synchronously
// waits for the child to finish before returning, preserving deterministic
// output ordering for a single-threaded build.
func (g *Group) Spawn(ctx context.Context, opts SpawnOptions) (bool, error) {
	g.mu.Lock()
	failed := g.failed
	g.mu.Unlock()
	if failed {
		return false, nil
	}

	if err := g.pool.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	if err := g.local.Acquire(ctx, 1); err != nil {
		g.pool.sem.Release(1)
		return false, err
	}

	g.mu.Lock()
	failed = g.failed
	g.mu.Unlock()
	if failed {
		g.local.Release(1)
		g.pool.sem.Release(1)
		return false, nil
	}

	synchronous := g.limit == 1 || g.pool.limit == 1
	done := make(chan Result, 1)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.pool.sem.Release(1)
		defer g.local.Release(1)

		result := g.run(opts)
		g.mu.Lock()
		g.results = append(g.results, result)
		if result.ExitCode != 0 {
			g.failed = true
		}
		g.mu.Unlock()
		done <- result
	}()

	if synchronous {
		<-done
	}

	return true, nil
}

func (g *Group) run(opts SpawnOptions) Result {
	shell, shellArg := shellInvocation()
	cmd := exec.Command(shell, shellArg, opts.Command)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{Command: opts.Command, ExitCode: 1, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{Command: opts.Command, ExitCode: 1, Err: err}
	}

	state := outputmux.NewOutputState(opts.Banner, opts.Prefix, opts.Color)
	var stdoutDone, stderrDone <-chan struct{}
	if g.mux != nil {
		stdoutDone = g.mux.AddPipe(stdout, state, false, opts.SkipLines)
		stderrDone = g.mux.AddPipe(stderr, state, true, opts.SkipLines)
	} else {
		// no mux wired (e.g. tests): still drain the pipes so the child
		// never blocks writing to a full pipe buffer
		stdoutDone = drain(stdout)
		stderrDone = drain(stderr)
	}

	if err := cmd.Start(); err != nil {
		return Result{Command: opts.Command, ExitCode: 1, Err: err}
	}

	// Wait must not be called until every reader of stdout/stderr has seen
	// EOF, or Wait can close the pipe out from under a still-reading
	// goroutine and truncate the command's last lines of output.
	<-stdoutDone
	<-stderrDone
	err = cmd.Wait()
	if err == nil {
		return Result{Command: opts.Command, ExitCode: 0}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitStatus(exitErr); ok {
			return Result{Command: opts.Command, ExitCode: status, Err: err}
		}
	}
	return Result{Command: opts.Command, ExitCode: 1, Err: err}
}

func drain(r io.Reader) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(io.Discard, r)
	}()
	return done
}

// Wait blocks until every spawned process in this group has exited, then
// reports the group's overall success (spec §4.6: "wait() blocks until
// either all processes exit or the group has failed").
func (g *Group) Wait() (ok bool, results []Result) {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.failed, append([]Result(nil), g.results...)
}

func shellInvocation() (string, string) {
	if runtime.GOOS == "windows" {
		shell := os.Getenv("COMSPEC")
		if shell == "" {
			shell = "cmd"
		}
		return shell, "/C"
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, "-c"
}
