package kernel

// Frame is a snapshot of the synthetic initial register frame forged for a
// newly added thread, recorded for inspection and testing. Its fields name
// the registers SetInitialStack fills in the original firmware (spec.md
// §4.3). simtrampoline's StackBuilder sets only PSR (ThumbBit); every other
// slot is left zero, and no debug poison values are written.
type Frame struct {
	R0, R1, R2, R3                 uint32
	R4, R5, R6, R7                 uint32
	R8, R9, R10, R11, R12          uint32
	LR, PC, PSR                    uint32
}

// ThumbBit is set in PSR so an exception return resumes in Thumb state, the
// only execution state ARMv7-M supports.
const ThumbBit = 0x01000000

// ThreadHandle is an opaque reference to a thread's suspended execution
// context. The kernel never inspects it; only a ContextSwitcher /
// StackBuilder pair understands what it is.
type ThreadHandle interface{}

// StackBuilder forges the initial exception-return frame for a newly added
// thread (spec.md §4.3): it must be shaped so that "returning" from the
// context-switch handler resumes at entry with Thumb state set and the
// argument registers in a harmless state.
type StackBuilder interface {
	Build(entry func(), stackWords int) (ThreadHandle, Frame)
}

// ContextSwitcher is the out-of-scope hardware trampoline contract from
// spec.md §4.3: "suspend current, resume selected." A real port implements
// this with a PendSV handler that saves callee-saved registers to the
// outgoing thread's stack and restores them from the incoming thread's
// stack; see simtrampoline for a goroutine-based host implementation used
// by tests and the CLI simulator.
type ContextSwitcher interface {
	// Start begins executing handle as if resuming from the very first
	// context-switch interrupt; there is no outgoing context to save.
	Start(handle ThreadHandle)
	// Switch suspends from (saving its frame) and resumes to.
	Switch(from, to ThreadHandle)
}
