package monitor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetRegistry_AddRemove(t *testing.T) {
	r := NewTargetRegistry()

	assert.True(t, r.Add("https://b.test"))
	assert.True(t, r.Add("https://a.test"))
	assert.False(t, r.Add("https://a.test"), "second add is idempotent")
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, r.List())

	assert.True(t, r.Contains("https://a.test"))
	assert.False(t, r.Contains("https://A.test"), "identity is the exact string")

	assert.True(t, r.Remove("https://a.test"))
	assert.False(t, r.Remove("https://a.test"))
	assert.Equal(t, []string{"https://b.test"}, r.List())
	assert.Equal(t, 1, r.Count())
}

func TestTargetRegistry_ListIsACopy(t *testing.T) {
	r := NewTargetRegistry()
	r.Add("https://a.test")

	snapshot := r.List()
	r.Add("https://b.test")
	r.Remove("https://a.test")

	assert.Equal(t, []string{"https://a.test"}, snapshot)
}

func TestTargetRegistry_ConcurrentAccess(t *testing.T) {
	r := NewTargetRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Add(fmt.Sprintf("https://%d.test", i))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.List()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Count())
	assert.Len(t, r.List(), 50)
}

func TestTargetRegistry_AddRemoveSameKeyWhileListing(t *testing.T) {
	r := NewTargetRegistry()
	const target = "https://flap.test"
	const iterations = 20000

	var writers sync.WaitGroup
	for i := 0; i < 4; i++ {
		writers.Add(2)
		go func() {
			defer writers.Done()
			for j := 0; j < iterations; j++ {
				r.Add(target)
			}
		}()
		go func() {
			defer writers.Done()
			for j := 0; j < iterations; j++ {
				r.Remove(target)
			}
		}()
	}

	done := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				assert.NotPanics(t, func() { _ = r.List() })
				count := r.Count()
				assert.GreaterOrEqual(t, count, 0)
				assert.LessOrEqual(t, count, 1)
			}
		}()
	}

	writers.Wait()
	close(done)
	readers.Wait()

	assert.Equal(t, len(r.List()), r.Count())
}
