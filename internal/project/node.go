package project

import (
	"sync"

	"github.com/mymake-build/mymake/internal/target"
)

// Status is spec §3's TargetInfo.status.
type Status int

const (
	NotReady Status = iota
	OK
	Error
)

// node is spec §3's TargetInfo: a scheduler-side wrapper around one Target,
// tracking compile order and a one-shot completion condition dependent
// workers wait on (spec §4.5: "waits on the completion condition of each of
// that node's dependencies").
type node struct {
	name   string
	target *target.Target

	order int

	mu     sync.Mutex
	cond   *sync.Cond
	done   bool
	status Status
	err    error
}

func newNode(name string, t *target.Target) *node {
	n := &node{name: name, target: t}
	n.cond = sync.NewCond(&n.mu)
	return n
}

func (n *node) waitDone() (Status, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for !n.done {
		n.cond.Wait()
	}
	return n.status, n.err
}

func (n *node) finish(status Status, err error) {
	n.mu.Lock()
	n.status = status
	n.err = err
	n.done = true
	n.mu.Unlock()
	n.cond.Broadcast()
}
