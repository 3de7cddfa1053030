package kernel

import "github.com/sourcegraph/log"

// schedule implements spec.md §4.2: starting at currentlyRunning.next, walk
// every other thread in the ring and track the runnable one with the
// strictly smallest priority (ties go to the earliest visited). If none of
// the visited threads are runnable, currentlyRunning is left unchanged.
// Callers must already hold the critical section.
func (k *Kernel) schedule() {
	if k.currentlyRunning == nil || k.numThreads == 0 {
		return
	}

	const noPriority = 256
	best := k.currentlyRunning
	bestPriority := noPriority

	// A thread that has just killed itself is no longer in the ring, so
	// every live thread is a candidate.
	candidates := k.numThreads - 1
	if !k.currentlyRunning.alive {
		candidates = k.numThreads
	}

	iter := k.currentlyRunning.next
	for i := 0; i < candidates; i++ {
		if iter.Runnable() && int(iter.priority) < bestPriority {
			bestPriority = int(iter.priority)
			best = iter
		}
		iter = iter.next
	}

	k.currentlyRunning = best
}

// pendContextSwitch is the software stand-in for "set a pending
// context-switch interrupt" (spec.md §4.5, §4.8): it runs the scheduler
// and, if a different thread was selected, invokes the trampoline to
// suspend the outgoing thread and resume the incoming one. On real
// hardware this work happens asynchronously in the PendSV handler; here it
// happens synchronously at the call site, which is observably equivalent
// for a single logical thread of control (spec.md §5: "context switches
// only occur through the pendable context-switch handler, never mid-
// function within kernel code").
func (k *Kernel) pendContextSwitch() {
	t := k.cs.enter()
	prev := k.currentlyRunning
	k.schedule()
	next := k.currentlyRunning
	k.cs.leave(t)

	if next != prev {
		k.metrics.contextSwitches.Inc()
		k.logger.Debug("context switch",
			log.Int("fromThreadID", int(prev.threadID)),
			log.Int("toThreadID", int(next.threadID)),
		)
		k.trampoline.Switch(prev.handle, next.handle)
	}
}
