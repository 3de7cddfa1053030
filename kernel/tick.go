package kernel

// Tick implements the 1kHz system timer handler (spec.md §4.4). Within one
// call, in order: sleeping threads whose sleepUntil has arrived are woken,
// due periodic handlers run synchronously at tick priority and are
// rescheduled, system time advances, and a context switch is requested.
// Periodic handlers must not block on semaphores — this is a contract on
// callers, not something Tick enforces.
func (k *Kernel) Tick() {
	t := k.cs.enter()

	if k.currentlyRunning != nil && k.numThreads > 0 {
		iter := k.currentlyRunning.next
		for iter != k.currentlyRunning {
			if iter.asleep && iter.sleepUntil == k.systemTime {
				iter.asleep = false
			}
			iter = iter.next
		}
	}

	if k.numPThreads > 0 {
		p := k.pHead
		for i := 0; i < k.numPThreads; i++ {
			if p.currentTime == k.systemTime {
				k.cs.leave(t)
				p.handler()
				t = k.cs.enter()
				p.currentTime = k.systemTime + p.period
			}
			p = p.next
		}
	}

	k.systemTime++
	k.metrics.ticks.Inc()
	k.cs.leave(t)

	k.pendContextSwitch()
}
