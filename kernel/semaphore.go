package kernel

// Semaphore is a counting semaphore whose value is a signed 32-bit counter:
// non-negative values are available permits, negative values encode how
// many threads are waiting (spec.md §3). There is no explicit wait queue —
// waiters are found by walking the thread ring, which is also why wake
// order is ring order rather than strict FIFO arrival order (spec.md
// §4.8, §9).
type Semaphore struct {
	value int32
}

// Value returns the current counter value.
func (s *Semaphore) Value() int32 { return s.value }

// Waiters returns how many threads are currently blocked on this
// semaphore, i.e. max(0, -value).
func (s *Semaphore) Waiters() int32 {
	if s.value >= 0 {
		return 0
	}
	return -s.value
}

// InitSemaphore writes value into sem under critical section (spec.md
// §4.8).
func (k *Kernel) InitSemaphore(sem *Semaphore, value int32) {
	t := k.cs.enter()
	sem.value = value
	k.cs.leave(t)
}

// WaitSemaphore decrements sem; if the result is negative the calling
// thread blocks (recorded via blockedOn) and a context switch is
// requested. Must only be called from thread context (spec.md §4.8).
func (k *Kernel) WaitSemaphore(sem *Semaphore) {
	t := k.cs.enter()
	sem.value--
	if sem.value < 0 {
		k.currentlyRunning.blockedOn = sem
		k.cs.leave(t)
		k.metrics.semaphoreWaiters.Set(float64(sem.Waiters()))
		k.pendContextSwitch()
		return
	}
	k.cs.leave(t)
}

// SignalSemaphore increments sem; if a waiter existed it is found by
// walking the ring starting at currentlyRunning.next and unblocked. This
// does NOT request a context switch — the woken thread only becomes
// eligible at the next scheduler invocation (spec.md §4.8, a documented
// weakness preserved here for behavioral fidelity).
func (k *Kernel) SignalSemaphore(sem *Semaphore) {
	t := k.cs.enter()
	k.signalLocked(sem)
	k.cs.leave(t)
}

// signalLocked performs the body of SignalSemaphore assuming cs is already
// held; used by SignalSemaphore itself and by the kill paths, which must
// signal on behalf of a waiter they just terminated without releasing and
// re-acquiring the critical section.
func (k *Kernel) signalLocked(sem *Semaphore) {
	sem.value++
	if sem.value <= 0 {
		iter := k.currentlyRunning.next
		for iter.blockedOn != sem {
			iter = iter.next
		}
		iter.blockedOn = nil
	}
	k.metrics.semaphoreWaiters.Set(float64(sem.Waiters()))
}

// releaseOnKill is unlink's counterpart to signalLocked: it increments sem
// on behalf of a waiter that is being removed from the ring as part of its
// own termination, rather than one that called SignalSemaphore itself. The
// waiter being searched for by a plain signalLocked call would be the
// victim itself, but unlink splices the victim out of the ring before this
// runs — so unlike signalLocked, this only searches the ring when the
// post-increment value is still negative, meaning some OTHER live waiter
// genuinely remains to be found. Searching on value == 0 (no waiters left)
// would spin forever, since nothing in the live ring has blockedOn == sem
// anymore.
func (k *Kernel) releaseOnKill(sem *Semaphore) {
	sem.value++
	if sem.value < 0 {
		iter := k.currentlyRunning.next
		for iter.blockedOn != sem {
			iter = iter.next
		}
		iter.blockedOn = nil
	}
	k.metrics.semaphoreWaiters.Set(float64(sem.Waiters()))
}
