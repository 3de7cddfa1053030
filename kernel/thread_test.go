package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThreadRejectsAtCapacity(t *testing.T) {
	k, _ := newTestKernel(t)
	cfg := DefaultConfig()

	for i := 0; i < cfg.MaxThreads; i++ {
		require.NoError(t, k.AddThread(noopEntry, 1, "t", uint8(i)))
	}

	err := k.AddThread(noopEntry, 1, "overflow", 255)
	assert.ErrorIs(t, err, ErrThreadLimitReached)
}

func TestAddThreadTruncatesName(t *testing.T) {
	k, _ := newTestKernel(t)
	long := "this-name-is-definitely-longer-than-the-configured-maximum"
	require.NoError(t, k.AddThread(noopEntry, 1, long, 1))

	assert.LessOrEqual(t, len([]rune(k.head.Name())), DefaultConfig().MaxNameLength)
}

func TestKillThreadCannotRemoveLastThread(t *testing.T) {
	k, _ := newTestKernel(t)
	require.NoError(t, k.AddThread(noopEntry, 1, "only", 1))

	err := k.KillThread(1)
	assert.ErrorIs(t, err, ErrCannotKillLastThread)
}

func TestKillThreadRemovesFromRing(t *testing.T) {
	k, _ := newTestKernel(t)
	require.NoError(t, k.AddThread(noopEntry, 1, "a", 1))
	require.NoError(t, k.AddThread(noopEntry, 1, "b", 2))
	k.currentlyRunning = k.head

	require.NoError(t, k.KillThread(2))
	assert.Equal(t, 1, k.numThreads)
	assert.Equal(t, k.head, k.head.next, "the sole survivor must be a self-loop")
}

func TestKillThreadUnknownID(t *testing.T) {
	k, _ := newTestKernel(t)
	require.NoError(t, k.AddThread(noopEntry, 1, "a", 1))
	require.NoError(t, k.AddThread(noopEntry, 1, "b", 2))
	k.currentlyRunning = k.head

	err := k.KillThread(99)
	assert.ErrorIs(t, err, ErrThreadDoesNotExist)
}

func TestKillThreadReusesFreedSlot(t *testing.T) {
	k, _ := newTestKernel(t)
	require.NoError(t, k.AddThread(noopEntry, 1, "a", 1))
	require.NoError(t, k.AddThread(noopEntry, 1, "b", 2))
	k.currentlyRunning = k.head

	require.NoError(t, k.KillThread(2))
	require.NoError(t, k.AddThread(noopEntry, 1, "c", 3))

	assert.Equal(t, 2, k.numThreads)
	found := false
	iter := k.head
	for i := 0; i < k.numThreads; i++ {
		if iter.ThreadID() == 3 {
			found = true
		}
		iter = iter.next
	}
	assert.True(t, found, "a thread added after a kill must reuse a free slot, not grow storage")
	assert.Equal(t, uint8(3), k.tcbs[1].ThreadID(), "the new thread must take the slot freed by the kill")
}

func TestSleepMarksAsleepAndRequestsSwitch(t *testing.T) {
	k, trampoline := newTestKernel(t)
	require.NoError(t, k.AddThread(noopEntry, 1, "a", 1))
	require.NoError(t, k.AddThread(noopEntry, 1, "b", 2))
	k.currentlyRunning = k.head

	sleeper := k.currentlyRunning
	k.Sleep(5)

	assert.True(t, sleeper.Asleep())
	assert.Equal(t, uint32(5), sleeper.sleepUntil)
	assert.Equal(t, 1, trampoline.switches)
}
