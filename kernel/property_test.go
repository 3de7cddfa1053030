package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestRapidRingStaysConsistent drives a random sequence of AddThread/
// KillThread operations and checks the ring invariants that every other
// scheduler test assumes hold: numThreads matches the live set, walking
// numThreads steps from head returns to head, and every live thread appears
// exactly once.
func TestRapidRingStaysConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k, _ := newTestKernel(t)
		cfg := DefaultConfig()

		live := map[uint8]bool{}
		var nextID uint8

		steps := rapid.IntRange(1, 80).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if len(live) == 0 || rapid.Bool().Draw(rt, "addNotKill") {
				if k.numThreads == cfg.MaxThreads {
					continue
				}
				id := nextID
				nextID++
				priority := uint8(rapid.IntRange(0, 10).Draw(rt, "priority"))
				require.NoError(rt, k.AddThread(noopEntry, priority, "t", id))
				live[id] = true
				continue
			}

			if k.numThreads <= 1 {
				continue
			}
			var victim uint8
			for id := range live {
				victim = id
				break
			}
			k.currentlyRunning = k.head
			if k.currentlyRunning.ThreadID() == victim {
				// KillThread never matches currentlyRunning; rotate first.
				k.currentlyRunning = k.currentlyRunning.next
			}
			require.NoError(rt, k.KillThread(victim))
			delete(live, victim)
		}

		assert.Equal(rt, len(live), k.numThreads)
		if k.numThreads == 0 {
			return
		}

		seen := map[uint8]bool{}
		iter := k.head
		for i := 0; i < k.numThreads; i++ {
			assert.False(rt, seen[iter.ThreadID()], "ring must not visit the same thread twice")
			seen[iter.ThreadID()] = true
			iter = iter.next
		}
		assert.True(rt, iter == k.head, "walking numThreads steps from head must return to head")
		assert.Equal(rt, len(live), len(seen))
	})
}

// TestRapidSemaphoreCounterMatchesWaiters checks the invariant from
// spec.md §3: the waiter count always equals max(0, -value).
func TestRapidSemaphoreCounterMatchesWaiters(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		initial := int32(rapid.IntRange(-5, 5).Draw(rt, "initial"))
		sem := &Semaphore{value: initial}

		ops := rapid.IntRange(0, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(rt, "incOrDec") {
				sem.value++
			} else {
				sem.value--
			}
		}

		want := int32(0)
		if sem.value < 0 {
			want = -sem.value
		}
		assert.Equal(rt, want, sem.Waiters())
	})
}

// TestRapidFIFORoomLeftPlusCurrentSizeEqualsCapacity checks the invariant
// that every slot is accounted for as either filled or free.
func TestRapidFIFORoomLeftPlusCurrentSizeEqualsCapacity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k, _ := newTestKernel(t)
		require.NoError(rt, k.InitFIFO(0))
		cap := int32(DefaultConfig().FIFOCapacity)

		ops := rapid.IntRange(0, 100).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(rt, "writeOrRead") {
				_ = k.WriteFIFO(0, int32(i+1))
			} else {
				_, _ = k.ReadFIFO(0)
			}

			f, err := k.fifoAt(0)
			require.NoError(rt, err)
			assert.Equal(rt, cap, f.CurrentSize()+f.RoomLeft())
		}
	})
}
