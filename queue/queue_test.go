package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFO(t *testing.T) {
	q := New("pipeline", "final")
	q.Enqueue("rooms")

	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"pipeline", "final", "rooms"} {
		got, ok := q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := q.Dequeue()
	assert.False(t, ok)
	assert.Zero(t, q.Len())
}

func TestConcurrentEnqueue(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Enqueue(n*100 + j)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 800, q.Len())
	seen := map[int]bool{}
	for {
		n, ok := q.Dequeue()
		if !ok {
			break
		}
		seen[n] = true
	}
	assert.Len(t, seen, 800)
}
