// Package lock provides per-user locking so reward mutations for one user
// are serialized: two concurrent completions cannot both observe
// "achievement not yet unlocked" and insert it twice. Database unique
// constraints remain the final backstop.
package lock

import (
	"sync"

	"github.com/google/uuid"
)

type userMutex struct {
	mu sync.Mutex
}

// UserLock hands out one mutex per user ID.
type UserLock struct {
	locks sync.Map // map[uuid.UUID]*userMutex
}

func NewUserLock() *UserLock {
	return &UserLock{}
}

func (ul *UserLock) getLock(userID uuid.UUID) *userMutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*userMutex)
	}
	actual, _ := ul.locks.LoadOrStore(userID, &userMutex{})
	return actual.(*userMutex)
}

// Lock acquires the lock for a user. Call before any reward-modifying operation.
func (ul *UserLock) Lock(userID uuid.UUID) {
	ul.getLock(userID).mu.Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID uuid.UUID) {
	if v, ok := ul.locks.Load(userID); ok {
		v.(*userMutex).mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (ul *UserLock) TryLock(userID uuid.UUID) bool {
	return ul.getLock(userID).mu.TryLock()
}

// WithLock executes fn while holding the user's lock.
func (ul *UserLock) WithLock(userID uuid.UUID, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}
