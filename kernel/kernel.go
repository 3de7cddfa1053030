// Package kernel implements the scheduler, thread lifecycle, semaphore and
// IPC FIFO core of a preemptive, priority-scheduled real-time kernel for a
// single-core processor, as specified in SPEC_FULL.md. The hardware
// register-save/restore trampoline and interrupt-mask primitive are
// out of scope and expressed here as the ContextSwitcher/StackBuilder
// interfaces; see the simtrampoline package for a host implementation.
package kernel

import "github.com/sourcegraph/log"

// Kernel owns every piece of statically allocated kernel state: the thread
// ring, the periodic handler ring, the FIFO pool, and the vector table.
// Following the "global mutable kernel state" design note, a process
// constructs exactly one Kernel and reaches every kernel operation through
// it, mirroring the single static kernel image a real firmware would link.
type Kernel struct {
	cfg Config
	cs  criticalSection

	trampoline ContextSwitcher
	builder    StackBuilder
	logger     log.Logger
	metrics    *metrics

	tcbs             []ThreadControlBlock
	numThreads       int
	head, tail       *ThreadControlBlock
	currentlyRunning *ThreadControlBlock

	ptcbs       []PeriodicControlBlock
	numPThreads int
	pHead       *PeriodicControlBlock

	fifos []FIFO

	vectorTable  VectorTable
	irqPriorities map[int]irqPriority

	systemTime uint32
	launched   bool
}

// New constructs a Kernel with the given configuration, hardware
// trampoline, stack builder, and logger. Construction validates cfg and
// allocates every fixed-capacity pool up front; it does not itself enter a
// critical section since no other goroutine can observe the Kernel until
// New returns it.
func New(cfg Config, trampoline ContextSwitcher, builder StackBuilder, logger log.Logger) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fifos := make([]FIFO, cfg.MaxFIFOs)
	for i := range fifos {
		fifos[i].buffer = make([]int32, cfg.FIFOCapacity)
	}

	return &Kernel{
		cfg:           cfg,
		trampoline:    trampoline,
		builder:       builder,
		logger:        logger.Scoped("kernel", "preemptive priority-scheduled kernel core"),
		metrics:       newMetrics(),
		tcbs:          make([]ThreadControlBlock, cfg.MaxThreads),
		ptcbs:         make([]PeriodicControlBlock, cfg.MaxPThreads),
		fifos:         fifos,
		irqPriorities: make(map[int]irqPriority, vectorTableSize),
	}, nil
}

// Init resets system time to zero, matching G8RTOS_Init (spec.md §4.4).
// Must be called before AddThread/Launch.
func (k *Kernel) Init() {
	k.systemTime = 0
}

// Launch selects the ring head as the first currentlyRunning thread and
// hands control to the trampoline. Returns ErrNoThreadsScheduled if no
// thread was ever added (spec.md §6 error taxonomy).
func (k *Kernel) Launch() error {
	if k.numThreads == 0 {
		return ErrNoThreadsScheduled
	}

	k.currentlyRunning = k.head
	k.launched = true
	k.logger.Info("kernel launched", log.Int("numThreads", k.numThreads))
	k.trampoline.Start(k.head.handle)
	return nil
}

// Launched reports whether Launch has been called.
func (k *Kernel) Launched() bool { return k.launched }

// TickRateHertz returns the configured tick frequency, for callers driving
// their own timer loop outside the kernel.
func (k *Kernel) TickRateHertz() int { return k.cfg.TickRateHertz }

// ThreadSnapshot is a point-in-time, read-only view of one thread, used by
// DebugDump.
type ThreadSnapshot struct {
	ThreadID   uint8  `json:"threadID"`
	Name       string `json:"name"`
	Priority   uint8  `json:"priority"`
	Asleep     bool   `json:"asleep"`
	BlockedOn  bool   `json:"blockedOn"`
	Running    bool   `json:"running"`
}

// FIFOSnapshot is a point-in-time view of one FIFO's occupancy.
type FIFOSnapshot struct {
	Index       int    `json:"index"`
	CurrentSize int32  `json:"currentSize"`
	RoomLeft    int32  `json:"roomLeft"`
	LostData    uint32 `json:"lostData"`
}

// DebugSnapshot is the JSON shape returned by DebugDump.
type DebugSnapshot struct {
	SystemTime  uint32           `json:"systemTime"`
	NumThreads  int              `json:"numThreads"`
	NumPThreads int              `json:"numPThreads"`
	Threads     []ThreadSnapshot `json:"threads"`
	FIFOs       []FIFOSnapshot   `json:"fifos"`
}

// DebugDump implements debugserver.Dumper: it snapshots every live thread
// and configured FIFO under the critical section, for display on a debug
// HTTP endpoint (see cmd/kernelsim's serve subcommand).
func (k *Kernel) DebugDump() interface{} {
	t := k.cs.enter()
	defer k.cs.leave(t)

	threads := make([]ThreadSnapshot, 0, k.numThreads)
	if k.currentlyRunning != nil && k.numThreads > 0 {
		iter := k.currentlyRunning
		for i := 0; i < k.numThreads; i++ {
			threads = append(threads, ThreadSnapshot{
				ThreadID:  iter.threadID,
				Name:      iter.name,
				Priority:  iter.priority,
				Asleep:    iter.asleep,
				BlockedOn: iter.blockedOn != nil,
				Running:   iter == k.currentlyRunning,
			})
			iter = iter.next
		}
	}

	fifos := make([]FIFOSnapshot, len(k.fifos))
	for i := range k.fifos {
		fifos[i] = FIFOSnapshot{
			Index:       i,
			CurrentSize: k.fifos[i].currentSize.value,
			RoomLeft:    k.fifos[i].roomLeft.value,
			LostData:    k.fifos[i].lostData,
		}
	}

	return DebugSnapshot{
		SystemTime:  k.systemTime,
		NumThreads:  k.numThreads,
		NumPThreads: k.numPThreads,
		Threads:     threads,
		FIFOs:       fifos,
	}
}
