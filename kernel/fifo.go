package kernel

// FIFO is a fixed-capacity ring buffer used for interprocess communication
// (spec.md §3, §4.9). mutex is kept for structural fidelity with the
// original source, which declares it and initializes it to 1 but — like
// this port — never actually acquires it in Read/Write; callers instead
// rely on the kernel's critical section for mutual exclusion. currentSize
// and roomLeft are modeled as Semaphore values (matching the original's
// "three semaphore implementation") but read/write only ever inspect and
// mutate .value directly rather than calling Wait/Signal, per spec.md
// §4.9's note that the source gates reads on current_size used as a plain
// integer rather than a blocking semaphore.
type FIFO struct {
	buffer   []int32
	head     int
	tail     int
	lostData uint32

	currentSize Semaphore
	roomLeft    Semaphore
	mutex       Semaphore
}

// LostData returns the diagnostic counter of overwritten nonzero slots.
func (f *FIFO) LostData() uint32 { return f.lostData }

// CurrentSize returns the number of filled slots.
func (f *FIFO) CurrentSize() int32 { return f.currentSize.value }

// RoomLeft returns the number of free slots.
func (f *FIFO) RoomLeft() int32 { return f.roomLeft.value }

func (k *Kernel) fifoAt(i int) (*FIFO, error) {
	if i < 0 || i >= len(k.fifos) {
		return nil, ErrIndexOutOfBounds
	}
	return &k.fifos[i], nil
}

// InitFIFO zeroes the buffer and resets head/tail/counters (spec.md §4.9).
func (k *Kernel) InitFIFO(i int) error {
	f, err := k.fifoAt(i)
	if err != nil {
		return err
	}
	t := k.cs.enter()
	defer k.cs.leave(t)

	for j := range f.buffer {
		f.buffer[j] = 0
	}
	f.head = 0
	f.tail = 0
	f.lostData = 0
	f.currentSize.value = 0
	f.roomLeft.value = int32(len(f.buffer))
	f.mutex.value = 1
	return nil
}

// ReadFIFO returns the value at head, advancing head modulo capacity.
// Returns ErrFIFOEmpty when the FIFO holds no data and ErrIndexOutOfBounds
// for an invalid index — compared against the FIFO count, fixing the
// original source's bug of comparing against the per-FIFO capacity
// instead (spec.md §4.9, §9).
func (k *Kernel) ReadFIFO(i int) (int32, error) {
	f, err := k.fifoAt(i)
	if err != nil {
		return 0, err
	}
	t := k.cs.enter()
	defer k.cs.leave(t)

	if f.currentSize.value == 0 {
		return 0, ErrFIFOEmpty
	}
	data := f.buffer[f.head]
	f.currentSize.value--
	f.roomLeft.value++
	f.head = (f.head + 1) % len(f.buffer)
	return data, nil
}

// WriteFIFO writes data at tail, advancing tail modulo capacity. Returns
// ErrFIFOFull when there is no room left. If the overwritten slot held a
// nonzero value, LostData is incremented as a diagnostic (spec.md §4.9).
func (k *Kernel) WriteFIFO(i int, data int32) error {
	f, err := k.fifoAt(i)
	if err != nil {
		return err
	}
	t := k.cs.enter()
	defer k.cs.leave(t)

	if f.roomLeft.value == 0 {
		return ErrFIFOFull
	}
	if f.buffer[f.tail] != 0 {
		f.lostData++
		k.metrics.fifoLostData.Inc()
	}
	f.buffer[f.tail] = data
	f.currentSize.value++
	f.roomLeft.value--
	f.tail = (f.tail + 1) % len(f.buffer)
	return nil
}
