package simos

// Sim is the OS façade: the single type a driver talks to. It owns the
// process table, scheduler, disk set, and memory manager, and orchestrates
// them so every cross-component invariant in spec.md §8 holds once an
// event handler returns.
//
// Sim is not safe for concurrent use: the simulator is strictly
// single-threaded and event-driven, matching the driver contract in
// spec.md §5 ("single-threaded, one event at a time").
type Sim struct {
	table         *processTable
	scheduler     *scheduler
	disks         *diskSet
	memory        *memoryManager
	waiting       map[PID]bool
	pageSizeBytes uint64

	load     *loadEstimator
	lastLoad LoadResult
}

// New constructs a simulator with numDisks disks (numDisks may be 0),
// ramBytes of RAM, and the given pageSize. Frame count is
// floor(ramBytes/pageSize); construction panics if that would be zero,
// since a memory manager with no frames is undefined by spec.md §4.4.
func New(numDisks int, ramBytes, pageSize uint64) *Sim {
	return NewWithLoadConfig(numDisks, ramBytes, pageSize, DefaultLoadConfig())
}

// NewWithLoadConfig is New, but with explicit load-estimator coefficients.
func NewWithLoadConfig(numDisks int, ramBytes, pageSize uint64, loadCfg LoadConfig) *Sim {
	if pageSize == 0 {
		panic("simos: pageSize must be > 0")
	}
	frames := int(ramBytes / pageSize)
	if frames == 0 {
		panic("simos: ramBytes/pageSize must yield at least one frame")
	}

	s := &Sim{
		table:         newProcessTable(),
		disks:         newDiskSet(numDisks),
		memory:        newMemoryManager(frames),
		waiting:       make(map[PID]bool),
		pageSizeBytes: pageSize,
		load:          newLoadEstimator(loadCfg),
	}
	s.scheduler = newScheduler(s.table)
	return s
}

// ---- events ----

// NewProcess creates a new process. It takes the ready queue or, if the CPU
// is idle, starts running immediately. Never fails.
func (s *Sim) NewProcess() PID {
	p := s.table.create(NoProcess)
	s.scheduler.admit(p.pid)
	s.recordLoad()
	return p.pid
}

// SimFork forks the running process. The child is placed at the tail of
// the ready queue; the parent keeps running.
func (s *Sim) SimFork() (PID, error) {
	if s.scheduler.running == NoProcess {
		return NoProcess, ErrNoRunningProcess
	}
	parentPID := s.scheduler.running
	parent := s.table.get(parentPID)

	child := s.table.create(parentPID)
	parent.children = append(parent.children, child.pid)

	s.scheduler.admit(child.pid)
	s.recordLoad()
	return child.pid, nil
}

// SimExit terminates the running process, cascading to all of its
// descendants, reclaiming memory, and — per spec.md §4.1 — either reaping
// immediately (parent already waiting), turning into a zombie (parent not
// waiting), or terminating outright (no parent).
func (s *Sim) SimExit() error {
	if s.scheduler.running == NoProcess {
		return ErrNoRunningProcess
	}
	p := s.scheduler.running
	proc := s.table.get(p)

	for _, d := range s.table.descendants(p) {
		s.purgeProcess(d)
		s.table.get(d).state = Terminated
		s.memory.freeByPID(d)
	}

	s.memory.freeByPID(p)

	parentPID := proc.parent
	s.scheduler.yieldClear()

	switch {
	case parentPID == NoProcess:
		proc.state = Terminated
	case s.waiting[parentPID]:
		proc.state = Terminated
		s.table.removeChild(parentPID, p)
		delete(s.waiting, parentPID)
		s.scheduler.admit(parentPID)
	default:
		proc.state = Zombie
	}

	if s.scheduler.running == NoProcess {
		s.scheduler.runNext()
	}
	s.recordLoad()
	return nil
}

// purgeProcess removes p from every queue/set it might occupy: the ready
// queue, the waiting set, and every disk's structures. Used during
// cascading termination, per spec.md §4.2's RemoveFromAllQueues.
func (s *Sim) purgeProcess(p PID) {
	s.scheduler.remove(p)
	delete(s.waiting, p)
	s.disks.removeByPID(p)
}

// SimWait pauses the running process until a child terminates. If a zombie
// child already exists, it's reaped immediately and the caller keeps
// running. If live (non-zombie) children exist, the caller blocks. If there
// are no children at all, this is a silent no-op (spec.md §9, Open
// Question 1).
func (s *Sim) SimWait() error {
	if s.scheduler.running == NoProcess {
		return ErrNoRunningProcess
	}
	p := s.scheduler.running
	proc := s.table.get(p)

	for _, c := range proc.children {
		if s.table.get(c).state == Zombie {
			s.table.get(c).state = Terminated
			s.table.removeChild(p, c)
			s.recordLoad()
			return nil
		}
	}

	if len(proc.children) > 0 {
		proc.state = Waiting
		s.waiting[p] = true
		s.scheduler.yieldClear()
		s.scheduler.runNext()
	}
	s.recordLoad()
	return nil
}

// TimerInterrupt yields the running process to the tail of the ready
// queue and runs the next ready process. If the ready queue was empty, the
// same process re-enters and is immediately popped back onto the CPU —
// externally a no-op (spec.md §4.1).
func (s *Sim) TimerInterrupt() error {
	if s.scheduler.running == NoProcess {
		return ErrNoRunningProcess
	}
	s.scheduler.preempt()
	s.recordLoad()
	return nil
}

// DiskReadRequest blocks the running process on disk diskNumber for
// fileName. Disk-number validation runs before the CPU-busy check, per
// spec.md §9, Open Question 3's recommended ordering.
func (s *Sim) DiskReadRequest(diskNumber int, fileName string) error {
	if !s.disks.valid(diskNumber) {
		return ErrBadDisk
	}
	if s.scheduler.running == NoProcess {
		return ErrNoRunningProcess
	}
	p := s.scheduler.running
	s.table.get(p).state = BlockedIO
	s.disks.get(diskNumber).enqueue(FileReadRequest{PID: p, FileName: fileName})
	s.scheduler.yieldClear()
	s.scheduler.runNext()
	s.recordLoad()
	return nil
}

// DiskJobCompleted admits the PID that disk diskNumber just finished
// serving back to the scheduler, and advances the disk's queue. Unlike
// every other event, this has no CPU-busy precondition: completions are
// external and must be processable when the CPU is idle.
func (s *Sim) DiskJobCompleted(diskNumber int) error {
	if !s.disks.valid(diskNumber) {
		return ErrBadDisk
	}
	d := s.disks.get(diskNumber)
	finished := d.complete()
	if finished != NoProcess {
		s.scheduler.admit(finished)
	}
	s.recordLoad()
	return nil
}

// AccessMemoryAddress loads the page containing address for the running
// process, updating LRU order.
func (s *Sim) AccessMemoryAddress(address uint64) error {
	if s.scheduler.running == NoProcess {
		return ErrNoRunningProcess
	}
	s.memory.access(s.scheduler.running, address/s.pageSizeBytes)
	s.recordLoad()
	return nil
}

// ---- queries ----

// GetCPU returns the PID currently using the CPU, or NoProcess if idle.
func (s *Sim) GetCPU() PID {
	return s.scheduler.running
}

// GetReadyQueue returns the PIDs in the ready queue, front first.
func (s *Sim) GetReadyQueue() []PID {
	return s.scheduler.readyQueue()
}

// GetMemory returns occupied frames in ascending frame-index order.
// Frames owned by a zombie or terminated process never appear, since
// SimExit frees them immediately.
func (s *Sim) GetMemory() []MemoryItem {
	return s.memory.usage()
}

// GetDisk returns the in-service request for diskNumber, or the zero value
// if the disk is idle.
func (s *Sim) GetDisk(diskNumber int) (FileReadRequest, error) {
	if !s.disks.valid(diskNumber) {
		return FileReadRequest{}, ErrBadDisk
	}
	return s.disks.get(diskNumber).inService, nil
}

// GetDiskQueue returns diskNumber's waiting queue, front first (excludes
// the in-service request).
func (s *Sim) GetDiskQueue(diskNumber int) ([]FileReadRequest, error) {
	if !s.disks.valid(diskNumber) {
		return nil, ErrBadDisk
	}
	return s.disks.get(diskNumber).waitingQueue(), nil
}

// ProcessView returns a read-only snapshot of pid's process record. The
// second return value is false if pid was never created. This is an
// additional query beyond spec.md §6 (see SPEC_FULL.md §10) that lets a
// driver render process-tree relationships without reaching into package
// internals.
func (s *Sim) ProcessView(pid PID) (ProcessInfo, bool) {
	p := s.table.get(pid)
	if p == nil {
		return ProcessInfo{}, false
	}
	return p.view(), true
}

// GetLoad returns the most recent load-estimator breakdown and its running
// average. It is purely observational (see SPEC_FULL.md §2, §10): nothing
// it computes feeds back into scheduling, admission, or replacement.
func (s *Sim) GetLoad() (current LoadResult, average float64) {
	return s.lastLoad, s.load.average()
}

// recordLoad samples subsystem pressure after every event.
func (s *Sim) recordLoad() {
	busy := 0
	for i := range s.disks.disks {
		if !s.disks.disks[i].inService.isIdle() {
			busy++
		}
	}
	s.lastLoad = s.load.apply(LoadSample{
		ReadyDepth:  len(s.scheduler.ready),
		DisksBusy:   busy,
		DisksTotal:  len(s.disks.disks),
		FramesUsed:  len(s.memory.usage()),
		FramesTotal: s.memory.frames,
	})
}
