package queue

import (
	"context"
	"fmt"
	"sync"
)

var (
	errNilTask    = fmt.Errorf("task must not be nil")
	errNotRunning = fmt.Errorf("dispatcher is not running")
)

// ownerRegistry maps owner keys to the cancel funcs of their live jobs.
// The registry is the only shared mutable state in the queue; the owner key
// itself carries no other semantics.
type ownerRegistry struct {
	mu      sync.Mutex
	nextID  uint64
	cancels map[string]map[uint64]context.CancelFunc
}

func newOwnerRegistry() ownerRegistry {
	return ownerRegistry{
		cancels: make(map[string]map[uint64]context.CancelFunc),
	}
}

// register records cancel under ownerKey and returns a release func that
// removes the entry and cancels the job's context. The release func is
// idempotent and safe to call after cancelAll already fired.
func (r *ownerRegistry) register(ownerKey string, cancel context.CancelFunc) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++

	owned, ok := r.cancels[ownerKey]
	if !ok {
		owned = make(map[uint64]context.CancelFunc)
		r.cancels[ownerKey] = owned
	}
	owned[id] = cancel

	return func() {
		r.mu.Lock()
		if owned, ok := r.cancels[ownerKey]; ok {
			delete(owned, id)
			if len(owned) == 0 {
				delete(r.cancels, ownerKey)
			}
		}
		r.mu.Unlock()
		cancel()
	}
}

// cancelAll fires every live cancel func registered under ownerKey and
// reports how many there were. Cancel funcs run outside the lock.
func (r *ownerRegistry) cancelAll(ownerKey string) int {
	r.mu.Lock()
	owned := r.cancels[ownerKey]
	delete(r.cancels, ownerKey)
	fired := make([]context.CancelFunc, 0, len(owned))
	for _, cancel := range owned {
		fired = append(fired, cancel)
	}
	r.mu.Unlock()

	for _, cancel := range fired {
		cancel()
	}
	return len(fired)
}
