package kernel

// PeriodicControlBlock is one entry in the tick-driven periodic handler
// list (spec.md §3). Like ThreadControlBlock, these are never destroyed
// after being added: Kernel.ptcbs is sized once from Config.MaxPThreads and
// entries are appended in insertion order, never reclaimed.
type PeriodicControlBlock struct {
	handler Handler

	period      uint32
	executeTime uint32
	currentTime uint32

	next, prev *PeriodicControlBlock
}

// Period returns the tick interval between invocations.
func (p *PeriodicControlBlock) Period() uint32 { return p.period }

// CurrentTime returns the next tick on which the handler will run.
func (p *PeriodicControlBlock) CurrentTime() uint32 { return p.currentTime }
