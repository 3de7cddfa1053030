package kernel

import "sync"

// criticalSection is the software stand-in for spec.md §4.1. On real
// hardware this brackets a region with maskable interrupts disabled and
// hands the caller an opaque token to restore the prior mask. On a host
// there is no interrupt mask to save, so a plain mutex provides the same
// mutual-exclusion guarantee every kernel mutator needs with respect to
// the tick ISR and other threads; the token exists so call sites look and
// read exactly like the hardware version.
type criticalSection struct {
	mu sync.Mutex
}

// token is the opaque value returned by enter and consumed by leave.
type token struct{}

func (c *criticalSection) enter() token {
	c.mu.Lock()
	return token{}
}

func (c *criticalSection) leave(token) {
	c.mu.Unlock()
}
