package comm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusQueueDropsOldest(t *testing.T) {
	q := NewStatusQueue(3)
	for i := 1; i <= 5; i++ {
		q.Push(fmt.Sprintf("msg %d", i))
	}
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []string{"msg 3", "msg 4", "msg 5"}, q.Drain())
	assert.Equal(t, 0, q.Len())
}

func TestStatusQueueTryPopEmpty(t *testing.T) {
	q := NewStatusQueue(StatusQueueSize)
	_, ok := q.TryPop()
	assert.False(t, ok)

	q.Push("Ready")
	msg, ok := q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, "Ready", msg)
}
