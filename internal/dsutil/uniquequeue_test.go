package dsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueQueueDiscardsDuplicates(t *testing.T) {
	q := NewUniqueQueue[string]()
	q.Push("a")
	q.Push("b")
	q.Push("a")

	var drained []string
	for q.Any() {
		drained = append(drained, q.Pop())
	}
	assert.Equal(t, []string{"a", "b"}, drained)
}

func TestUniqueQueueNeverReadmitsAfterDrain(t *testing.T) {
	q := NewUniqueQueue[int]()
	q.Push(1)
	q.Pop()
	assert.True(t, q.Empty())

	q.Push(1)
	assert.True(t, q.Empty(), "1 was already seen, pushing it again must be a no-op")
}
