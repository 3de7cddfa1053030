package kernel

import "github.com/g8rtos/kernel/lib/errors"

// Handler is a zero-argument callback, used both for aperiodic (IRQ) and
// periodic (tick-driven) event handlers.
type Handler func()

const (
	// maxIRQ is the platform-specific upper bound on IRQ numbers
	// (spec.md §4.6).
	maxIRQ = 155
	// maxUserPriority is the highest (numerically largest, i.e. lowest
	// urgency) hardware priority a user aperiodic handler may request;
	// it must stay above osintPriority so user IRQs preempt the
	// scheduler (spec.md §4.6).
	maxUserPriority = 6
	// osintPriority is the kernel's own hardware priority band, shared
	// by the tick and context-switch handlers (spec.md §4.4).
	osintPriority = 7
	// vectorOffset is where aperiodic IRQ slots begin in the vector
	// table; slots 0..15 are reserved for core exceptions and the
	// tick/context-switch handlers (spec.md §6).
	vectorOffset = 16
	// vectorTableSize covers the reserved core slots plus IRQs 0..155.
	vectorTableSize = vectorOffset + maxIRQ + 1
)

// VectorTable models the relocated, writable copy of the interrupt vector
// table the original firmware installs at the start of SRAM (spec.md §6).
// Snapshot/Restore are a supplemented feature (see SPEC_FULL.md) letting
// tests assert that installing aperiodic handlers never disturbs the
// reserved system slots.
type VectorTable struct {
	slots [vectorTableSize]Handler
}

// Snapshot returns a copy of the current table contents.
func (v *VectorTable) Snapshot() [vectorTableSize]Handler {
	return v.slots
}

// Restore replaces the table contents with a previously taken snapshot.
func (v *VectorTable) Restore(snap [vectorTableSize]Handler) {
	v.slots = snap
}

// irqPriority records the hardware priority an aperiodic handler was
// installed with, for inspection by tests.
type irqPriority struct {
	priority uint8
	enabled  bool
}

// AddAperiodicEvent installs handler in the vector table at irq, sets its
// hardware priority, and enables the IRQ line, all under critical section
// (spec.md §4.6). irq must be in [0,155]; priority must be <= 6 so user
// handlers stay strictly above the kernel's own OSINT_PRIORITY band.
func (k *Kernel) AddAperiodicEvent(handler Handler, priority uint8, irq int) error {
	if irq < 0 || irq > maxIRQ {
		return ErrIRQInvalid
	}
	if priority > maxUserPriority {
		return ErrHWIPriorityInvalid
	}

	t := k.cs.enter()
	defer k.cs.leave(t)

	k.vectorTable.slots[vectorOffset+irq] = handler
	k.irqPriorities[irq] = irqPriority{priority: priority, enabled: true}
	return nil
}

// AddPeriodicEvent appends a periodic handler invoked every period ticks
// (spec.md §4.7). execution is recorded but — as in the original source —
// does not influence when the handler first fires: currentTime is always
// set to systemTime+period, so the parameter's name does not describe its
// effect.
func (k *Kernel) AddPeriodicEvent(handler Handler, period, execution uint32) error {
	t := k.cs.enter()
	defer k.cs.leave(t)

	if k.numPThreads == k.cfg.MaxPThreads {
		return errors.New("periodic thread limit reached")
	}

	idx := k.numPThreads
	p := &k.ptcbs[idx]
	*p = PeriodicControlBlock{
		handler:     handler,
		period:      period,
		executeTime: execution,
		currentTime: k.systemTime + period,
	}

	if idx == 0 {
		p.next = p
		p.prev = p
		k.pHead = p
	} else {
		oldTail := k.pHead.prev
		p.prev = oldTail
		p.next = k.pHead
		oldTail.next = p
		k.pHead.prev = p
	}
	k.numPThreads++
	return nil
}
