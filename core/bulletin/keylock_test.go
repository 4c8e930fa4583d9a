package bulletin

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_keyLock(t *testing.T) {
	kl := newKeyLock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		running int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := kl.Lock("student|1")
			defer unlock()

			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			mu.Unlock()

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, kl.locks)
}

func Test_keyLock_distinctKeys(t *testing.T) {
	kl := newKeyLock()
	unlockA := kl.Lock(reportCardKey("a", "trimestre_1", "2023-2024"))
	unlockB := kl.Lock(reportCardKey("b", "trimestre_1", "2023-2024")) // must not block
	assert.Len(t, kl.locks, 2)
	unlockA()
	unlockB()
	assert.Empty(t, kl.locks)
}
