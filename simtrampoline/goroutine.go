// Package simtrampoline implements kernel.ContextSwitcher and
// kernel.StackBuilder on top of goroutines and channels, for use by tests
// and the kernelsim CLI. It stands in for the ARMv7-M PendSV/SVC trampoline
// spec.md treats as out of scope: instead of saving callee-saved registers
// to a hand-forged stack and restoring them from another, a Go goroutine is
// parked on a channel receive and resumed by a channel send, one goroutine
// per thread. This is the toy-scheduler pattern of parking an M's goroutine
// until handed a token to proceed, adapted here so a kernel.ThreadHandle is
// a per-thread resume channel rather than a runqueue entry.
//
// Switching is cooperative rather than truly preemptive: a thread goroutine
// only ever blocks on its own channel from inside a kernel call that
// requested a switch (Sleep, WaitSemaphore, KillSelf), which matches how
// every G8RTOS application thread is written — an infinite loop that
// eventually blocks. Calling Kernel.Tick concurrently with a thread
// goroutine that is busy computing rather than blocked in a kernel call is
// safe for kernel bookkeeping (guarded by the kernel's own critical
// section) but will not forcibly suspend that goroutine mid-computation:
// Go gives user code no hook for that, unlike the NVIC on real hardware.
// Driving Tick from the same goroutine that runs thread bodies, or only
// while threads are parked, avoids relying on that unreachable guarantee.
package simtrampoline

import "github.com/g8rtos/kernel/kernel"

// resumeSignal is sent on a thread's channel to wake it; the payload is
// unused, only the receive unblocking matters.
type resumeSignal struct{}

// handle is the ThreadHandle implementation: a channel the owning goroutine
// blocks on when suspended, plus a started flag that Start/Switch set once
// they have resumed it.
type handle struct {
	resume  chan resumeSignal
	started bool
}

// Goroutine is a ContextSwitcher and StackBuilder pair that runs every
// kernel thread as its own goroutine, serialized so that only the thread
// matching the kernel's currentlyRunning TCB is ever unparked at a time.
// Callers are responsible for invoking Tick and the kernel APIs from a
// single driver goroutine (or under their own locking) since Goroutine
// itself does not serialize calls into Start/Switch.
type Goroutine struct{}

// NewGoroutine constructs a Goroutine trampoline. There is no state to
// share between threads beyond what each handle already carries, so every
// call returns an independent, ready-to-use value.
func NewGoroutine() *Goroutine { return &Goroutine{} }

// Build starts entry in a new goroutine immediately, but parked on its
// resume channel before the first instruction of entry runs; it only
// actually begins executing entry once Start or Switch targets its handle.
// stackWords is accepted for interface compatibility and ignored: a host
// goroutine stack grows on demand and is never forged by hand.
func (g *Goroutine) Build(entry func(), stackWords int) (kernel.ThreadHandle, kernel.Frame) {
	h := &handle{resume: make(chan resumeSignal)}

	go func() {
		<-h.resume
		entry()
		// entry returning (rather than the thread calling KillSelf) is a
		// caller bug on real hardware too: G8RTOS threads are written as
		// infinite loops. Block forever rather than letting the goroutine
		// exit out from under the scheduler's bookkeeping.
		select {}
	}()

	return h, kernel.Frame{PSR: kernel.ThumbBit}
}

// Start unparks handle for the first time.
func (g *Goroutine) Start(h kernel.ThreadHandle) {
	th := h.(*handle)
	th.started = true
	th.resume <- resumeSignal{}
}

// Switch wakes to by sending on its resume channel, then parks the calling
// goroutine — which is from's own goroutine, partway through whichever
// kernel call (Sleep, WaitSemaphore, KillSelf) triggered the switch — by
// blocking on from's resume channel. The call only returns to its caller
// once some later Switch names from as to again, exactly mirroring a real
// PendSV handler never "returning" to the suspended thread until it is
// rescheduled.
func (g *Goroutine) Switch(from, to kernel.ThreadHandle) {
	tt := to.(*handle)
	tt.started = true
	tt.resume <- resumeSignal{}

	ft := from.(*handle)
	<-ft.resume
}
