package kernel

import (
	"context"
	"time"

	"github.com/derision-test/glock"
	"github.com/sourcegraph/log"
)

// SysTick drives (*Kernel).Tick at a fixed wall-clock interval, standing in
// for the hardware SysTick exception a real ARMv7-M board configures at
// G8RTOS_Launch. It is structured after internal/goroutine.PeriodicGoroutine
// (options, a cancelable root context, a finished channel signaling Start's
// return) but trimmed to the one thing a tick source needs: call the
// handler, wait the interval, repeat, until Stop is called.
type SysTick struct {
	kernel   *Kernel
	interval time.Duration
	clock    glock.Clock
	logger   log.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{}
}

// SysTickOption configures a SysTick before Start.
type SysTickOption func(*SysTick)

// WithClock overrides the real wall clock, for tests that want to advance
// time deterministically via glock.NewMockClock().
func WithClock(clock glock.Clock) SysTickOption {
	return func(s *SysTick) { s.clock = clock }
}

// NewSysTick builds a ticker for k, firing every 1/k.TickRateHertz()
// seconds. The returned SysTick does not start ticking until Start is
// called.
func NewSysTick(ctx context.Context, k *Kernel, logger log.Logger, opts ...SysTickOption) *SysTick {
	s := &SysTick{
		kernel:   k,
		interval: time.Second / time.Duration(k.TickRateHertz()),
		clock:    glock.NewRealClock(),
		logger:   logger.Scoped("systick", "wall-clock driven tick source"),
	}
	for _, o := range opts {
		o(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.finished = make(chan struct{})
	return s
}

// Start blocks, calling Tick every interval until Stop is called or the
// context passed to NewSysTick is canceled. Run it in its own goroutine.
func (s *SysTick) Start() {
	defer close(s.finished)

	for {
		select {
		case <-s.clock.After(s.interval):
			s.kernel.Tick()
		case <-s.ctx.Done():
			s.logger.Info("systick stopped", log.Int("systemTime", int(s.kernel.GetSysTime())))
			return
		}
	}
}

// Stop cancels the tick loop and blocks until Start has returned.
func (s *SysTick) Stop() {
	s.cancel()
	<-s.finished
}
