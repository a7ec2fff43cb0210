package guard

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrReentrantCall is returned when a guarded entry point is entered again
// before the first call released the guard.
var ErrReentrantCall = errors.New("reentrant call on guarded entry point")

// Guard is a fail-fast, non-blocking reentrancy guard. Acquire never waits,
// a second caller is rejected immediately while the guard is held.
type Guard struct {
	busy int32
}

// Acquire takes the guard, returning ErrReentrantCall if it is already held.
func (g *Guard) Acquire() error {
	if !atomic.CompareAndSwapInt32(&g.busy, 0, 1) {
		return ErrReentrantCall
	}
	return nil
}

// Release frees the guard. Must be called on every exit path of the guarded
// entry point, including error paths.
func (g *Guard) Release() {
	atomic.StoreInt32(&g.busy, 0)
}
