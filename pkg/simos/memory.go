package simos

import "container/list"

// MemoryItem describes one occupied frame, returned by GetMemory.
type MemoryItem struct {
	PageNumber  uint64
	FrameNumber int
	PID         PID
}

type occupant struct {
	pid  PID
	page uint64
}

// memoryManager is the fixed frame table plus the global LRU order over all
// frames. The LRU order is a doubly-linked list of frame indices (front =
// least-recently-used, back = most-recently-used), per spec.md §9's
// recommendation — this makes access and reclaim O(1) and never reorders
// the underlying occupancy array, which GetMemory's ordering contract
// depends on.
type memoryManager struct {
	frames int

	occupancy []*occupant // occupancy[f] is nil when frame f is free

	lru     *list.List       // of int frame indices
	lruNode []*list.Element  // lruNode[f] is f's node in lru
	indexOf map[occupant]int // (pid, page) -> frame index, for O(1) Access hits
}

// newMemoryManager builds a frame table sized floor(ramBytes/pageSize).
// Construction with a resulting frame count of zero is rejected by the
// caller (Sim's constructor), per spec.md §4.4.
func newMemoryManager(frames int) *memoryManager {
	m := &memoryManager{
		frames:    frames,
		occupancy: make([]*occupant, frames),
		lru:       list.New(),
		lruNode:   make([]*list.Element, frames),
		indexOf:   make(map[occupant]int),
	}
	for f := 0; f < frames; f++ {
		m.lruNode[f] = m.lru.PushBack(f)
	}
	return m
}

// touchMRU moves frame f to the back of the LRU order (most recently used).
func (m *memoryManager) touchMRU(f int) {
	m.lru.MoveToBack(m.lruNode[f])
}

// touchLRU moves frame f to the front of the LRU order (next to be reused),
// used when a frame is freed.
func (m *memoryManager) touchLRU(f int) {
	m.lru.MoveToFront(m.lruNode[f])
}

// access loads (pid, page) into a frame, updating LRU order. A hit only
// reorders LRU; a miss evicts the current LRU-front frame, matching
// spec.md §4.4. Note the contract: a hit matches on (pid, page), not page
// alone, since different processes have disjoint address spaces.
func (m *memoryManager) access(pid PID, page uint64) {
	key := occupant{pid: pid, page: page}
	if f, ok := m.indexOf[key]; ok {
		m.touchMRU(f)
		return
	}

	victim := m.lru.Front().Value.(int)
	m.touchMRU(victim)

	if old := m.occupancy[victim]; old != nil {
		delete(m.indexOf, *old)
	}
	occ := &occupant{pid: pid, page: page}
	m.occupancy[victim] = occ
	m.indexOf[key] = victim
}

// freeByPID releases every frame owned by pid and moves each to the front
// of the LRU order so it's preferred for the next allocation. Frames are
// visited from the highest index down, so the lowest-numbered freed frame
// ends up at the very front and is reused first.
func (m *memoryManager) freeByPID(pid PID) {
	for f := len(m.occupancy) - 1; f >= 0; f-- {
		occ := m.occupancy[f]
		if occ == nil || occ.pid != pid {
			continue
		}
		delete(m.indexOf, *occ)
		m.occupancy[f] = nil
		m.touchLRU(f)
	}
}

// usage returns occupied frames in ascending frame-index order, per
// spec.md §4.4's stable-ordering contract.
func (m *memoryManager) usage() []MemoryItem {
	var out []MemoryItem
	for f, occ := range m.occupancy {
		if occ == nil {
			continue
		}
		out = append(out, MemoryItem{PageNumber: occ.page, FrameNumber: f, PID: occ.pid})
	}
	return out
}
