package kernel

import "github.com/sourcegraph/log"

// AddThread installs a new thread into the ring (spec.md §4.5). entry is
// invoked with no arguments once the thread is first scheduled; priority
// is scheduling priority (smaller runs first); name is truncated at
// Config.MaxNameLength; id need not be unique, though duplicates make
// KillThread select the first ring match.
func (k *Kernel) AddThread(entry func(), priority uint8, name string, id uint8) error {
	t := k.cs.enter()
	defer k.cs.leave(t)

	if k.numThreads == k.cfg.MaxThreads {
		return ErrThreadLimitReached
	}

	idx := 0
	if k.numThreads > 0 {
		idx = -1
		for i := range k.tcbs {
			if !k.tcbs[i].alive {
				idx = i
				break
			}
		}
	}

	tcb := &k.tcbs[idx]
	handle, frame := k.builder.Build(entry, k.cfg.StackWords)
	*tcb = ThreadControlBlock{
		handle:   handle,
		frame:    frame,
		priority: priority,
		threadID: id,
		name:     truncateName(name, k.cfg.MaxNameLength),
		asleep:   false,
		alive:    true,
	}

	if k.numThreads == 0 {
		tcb.next = tcb
		tcb.prev = tcb
		k.head = tcb
	} else {
		tcb.prev = k.tail
		tcb.next = k.head
		k.tail.next = tcb
		k.head.prev = tcb
	}
	k.tail = tcb
	k.numThreads++

	k.metrics.threads.Set(float64(k.numThreads))
	k.logger.Debug("thread added",
		log.String("name", tcb.name),
		log.Int("priority", int(priority)),
		log.Int("threadID", int(id)),
	)
	return nil
}

// unlink removes tcb from the ring, marks it dead, and signals on its
// behalf if it was genuinely blocked (negative semaphore count) on a
// semaphore. Callers must already hold the critical section and must not
// be removing the last thread. Shared by KillThread and KillSelf (spec.md
// §4.5).
func (k *Kernel) unlink(tcb *ThreadControlBlock) {
	tcb.prev.next = tcb.next
	tcb.next.prev = tcb.prev
	tcb.alive = false

	if tcb.blockedOn != nil && tcb.blockedOn.value < 0 {
		k.releaseOnKill(tcb.blockedOn)
		k.logger.Warn("signaled semaphore on behalf of killed waiter",
			log.Int("threadID", int(tcb.threadID)),
		)
	}
	tcb.blockedOn = nil

	k.numThreads--
	if tcb == k.tail {
		k.tail = tcb.prev
	}
	if tcb == k.head {
		k.head = tcb.next
	}
	k.metrics.threads.Set(float64(k.numThreads))
}

// KillThread removes the thread matching id from the ring. It never
// matches currentlyRunning — killing the running thread requires
// KillSelf. Fails with ErrCannotKillLastThread if only one thread remains,
// or ErrThreadDoesNotExist if no other thread carries id (spec.md §4.5).
func (k *Kernel) KillThread(id uint8) error {
	t := k.cs.enter()
	defer k.cs.leave(t)

	if k.numThreads <= 1 {
		return ErrCannotKillLastThread
	}

	iter := k.currentlyRunning.next
	for i := 0; i < k.numThreads-1; i++ {
		if iter.threadID == id {
			k.unlink(iter)
			k.logger.Debug("thread killed", log.Int("threadID", int(id)))
			return nil
		}
		iter = iter.next
	}
	return ErrThreadDoesNotExist
}

// KillSelf removes currentlyRunning from the ring and requests a context
// switch. Because the calling thread's own execution context is about to
// be abandoned, the trampoline's Switch never resumes it — in practice
// control never returns to the caller of KillSelf, matching spec.md §4.5.
func (k *Kernel) KillSelf() error {
	t := k.cs.enter()
	if k.numThreads <= 1 {
		k.cs.leave(t)
		return ErrCannotKillLastThread
	}

	self := k.currentlyRunning
	k.unlink(self)
	k.cs.leave(t)

	k.logger.Debug("thread killed self", log.Int("threadID", int(self.threadID)))
	k.pendContextSwitch()
	return nil
}

// Sleep marks the calling thread asleep until systemTime reaches
// systemTime+durationMS and requests a context switch. Must only be
// called from thread context (spec.md §4.5).
func (k *Kernel) Sleep(durationMS uint32) {
	t := k.cs.enter()
	k.currentlyRunning.sleepUntil = k.systemTime + durationMS
	k.currentlyRunning.asleep = true
	k.cs.leave(t)

	k.pendContextSwitch()
}

// GetThreadID returns the currently running thread's caller-supplied id.
func (k *Kernel) GetThreadID() uint8 {
	t := k.cs.enter()
	defer k.cs.leave(t)
	return k.currentlyRunning.threadID
}

// GetNumberOfThreads returns the number of alive threads.
func (k *Kernel) GetNumberOfThreads() int {
	t := k.cs.enter()
	defer k.cs.leave(t)
	return k.numThreads
}

// GetSysTime returns the current tick count.
func (k *Kernel) GetSysTime() uint32 {
	t := k.cs.enter()
	defer k.cs.leave(t)
	return k.systemTime
}

// CurrentThread returns the TCB currently selected to run, for tests and
// diagnostics.
func (k *Kernel) CurrentThread() *ThreadControlBlock {
	t := k.cs.enter()
	defer k.cs.leave(t)
	return k.currentlyRunning
}
