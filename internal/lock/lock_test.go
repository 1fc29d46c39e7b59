package lock

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWithLockSerializes(t *testing.T) {
	ul := NewUserLock()
	userID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ul.WithLock(userID, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestTryLock(t *testing.T) {
	ul := NewUserLock()
	userID := uuid.New()

	ul.Lock(userID)
	assert.False(t, ul.TryLock(userID), "held lock cannot be acquired")

	otherID := uuid.New()
	assert.True(t, ul.TryLock(otherID), "different users do not contend")
	ul.Unlock(otherID)

	ul.Unlock(userID)
	assert.True(t, ul.TryLock(userID))
	ul.Unlock(userID)
}
