package simos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants re-verifies every cross-component invariant from
// spec.md §8 against s's current state.
func checkInvariants(t *testing.T, s *Sim) {
	t.Helper()

	running := s.GetCPU()
	ready := s.GetReadyQueue()

	// at most one process is ever Running, and it matches GetCPU.
	runningCount := 0
	for pid := PID(1); int(pid) < len(s.table.records); pid++ {
		p := s.table.get(pid)
		if p == nil {
			continue
		}
		if p.state == Running {
			runningCount++
			assert.Equal(t, running, pid, "the Running record must be the CPU occupant")
		}
	}
	if running != NoProcess {
		assert.Equal(t, 1, runningCount)
	} else {
		assert.Zero(t, runningCount)
	}

	// ready queue: every member is state Ready, and appears exactly once.
	seenReady := map[PID]bool{}
	for _, pid := range ready {
		assert.False(t, seenReady[pid], "pid %d appears twice in the ready queue", pid)
		seenReady[pid] = true
		info, ok := s.ProcessView(pid)
		require.True(t, ok)
		assert.Equal(t, Ready, info.State)
	}

	// no process occupies more than one of {ready, disk waiting/service,
	// running} at once.
	diskOccupants := map[PID]bool{}
	for i := range s.disks.disks {
		d := &s.disks.disks[i]
		if !d.inService.isIdle() {
			assert.False(t, diskOccupants[d.inService.PID], "pid double-occupies disk structures")
			diskOccupants[d.inService.PID] = true
		}
		for _, w := range d.waiting {
			assert.False(t, diskOccupants[w.PID], "pid double-occupies disk structures")
			diskOccupants[w.PID] = true
		}
	}
	for pid := range diskOccupants {
		assert.False(t, seenReady[pid], "pid %d in both ready queue and a disk structure", pid)
		assert.NotEqual(t, running, pid, "pid %d is both running and on a disk", pid)
	}

	// GetMemory never mentions a zombie or terminated process.
	for _, m := range s.GetMemory() {
		info, ok := s.ProcessView(m.PID)
		require.True(t, ok)
		assert.NotEqual(t, Zombie, info.State)
		assert.NotEqual(t, Terminated, info.State)
	}

	// frame count never exceeds the configured total.
	assert.LessOrEqual(t, len(s.GetMemory()), s.memory.frames)

	// PIDs are strictly increasing allocation order (no reuse, no gaps
	// below the high-water mark).
	for pid := PID(1); int(pid) < len(s.table.records); pid++ {
		assert.NotNil(t, s.table.records[pid])
	}
}

func TestInvariants_HoldAcrossLongEventSequence(t *testing.T) {
	s := New(2, 8*256, 256) // 8 frames

	var allPIDs []PID

	step := func(name string, fn func()) {
		fn()
		checkInvariants(t, s)
		_ = name
	}

	step("p1", func() { allPIDs = append(allPIDs, s.NewProcess()) })
	step("p2", func() { allPIDs = append(allPIDs, s.NewProcess()) })

	step("fork", func() {
		c, err := s.SimFork()
		require.NoError(t, err)
		allPIDs = append(allPIDs, c)
	})

	step("timer", func() { require.NoError(t, s.TimerInterrupt()) })
	step("timer", func() { require.NoError(t, s.TimerInterrupt()) })

	for _, addr := range []uint64{0, 256, 512, 768, 1024, 1280, 1536, 1792, 2048} {
		step("access", func() { require.NoError(t, s.AccessMemoryAddress(addr)) })
	}

	step("disk-read", func() { require.NoError(t, s.DiskReadRequest(0, "a")) })
	step("disk-read-other-disk", func() {
		if s.GetCPU() != NoProcess {
			require.NoError(t, s.DiskReadRequest(1, "b"))
		}
	})
	step("disk-complete", func() { require.NoError(t, s.DiskJobCompleted(0)) })

	step("fork2", func() {
		if s.GetCPU() != NoProcess {
			c, err := s.SimFork()
			require.NoError(t, err)
			allPIDs = append(allPIDs, c)
		}
	})

	step("wait", func() {
		if s.GetCPU() != NoProcess {
			require.NoError(t, s.SimWait())
		}
	})

	step("exit-loop", func() {
		for i := 0; i < 6 && s.GetCPU() != NoProcess; i++ {
			require.NoError(t, s.SimExit())
		}
	})

	// strictly increasing PIDs across the whole run.
	for i := 1; i < len(allPIDs); i++ {
		assert.Less(t, allPIDs[i-1], allPIDs[i])
	}
}

func TestInvariants_TimerInterruptOnEmptyQueueIsNoOp(t *testing.T) {
	s := New(0, 1024, 256)
	p := s.NewProcess()
	before := s.GetCPU()
	require.NoError(t, s.TimerInterrupt())
	assert.Equal(t, before, s.GetCPU())
	assert.Equal(t, p, s.GetCPU())
	checkInvariants(t, s)
}

func TestInvariants_DoubleAccessIsIdempotent(t *testing.T) {
	s := New(0, 1024, 256)
	s.NewProcess()
	require.NoError(t, s.AccessMemoryAddress(0))
	first := s.GetMemory()
	require.NoError(t, s.AccessMemoryAddress(0))
	second := s.GetMemory()
	assert.Equal(t, first, second)
	checkInvariants(t, s)
}

// runUntil advances the CPU via TimerInterrupt until target is running,
// bounded by the ready-queue size so a FIFO round-robin is guaranteed to
// reach it.
func runUntil(t *testing.T, s *Sim, target PID) {
	t.Helper()
	for i := 0; i < len(s.GetReadyQueue())+2 && s.GetCPU() != target; i++ {
		require.NoError(t, s.TimerInterrupt())
	}
	require.Equal(t, target, s.GetCPU())
}

func TestInvariants_CascadingTerminationCoversEveryDescendant(t *testing.T) {
	s := New(0, 1<<20, 1<<10)
	root := s.NewProcess()

	a, err := s.SimFork()
	require.NoError(t, err)
	runUntil(t, s, a)

	b, err := s.SimFork()
	require.NoError(t, err)
	runUntil(t, s, b)

	c, err := s.SimFork()
	require.NoError(t, err)

	runUntil(t, s, root)
	require.NoError(t, s.SimExit())

	for _, pid := range []PID{a, b, c} {
		info, ok := s.ProcessView(pid)
		require.True(t, ok)
		assert.Equal(t, Terminated, info.State)
	}
	checkInvariants(t, s)
}
