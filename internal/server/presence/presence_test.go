package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	tr := NewTracker()
	assert.True(t, tr.IsOnline("u1"), "unknown users are online")

	tr.SetOnline("u1", false)
	assert.False(t, tr.IsOnline("u1"))
	assert.True(t, tr.IsOnline("u2"))

	tr.SetOnline("u1", true)
	assert.True(t, tr.IsOnline("u1"))
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.SetOnline("u", i%2 == 0)
			_ = tr.IsOnline("u")
		}(i)
	}
	wg.Wait()
}
