package simos

// scheduler tracks the single running PID and the strict-FIFO ready queue.
// It mutates process state directly so the process table and scheduler
// never disagree about who is Ready/Running.
type scheduler struct {
	running PID
	ready   []PID
	table   *processTable
}

func newScheduler(t *processTable) *scheduler {
	return &scheduler{running: NoProcess, table: t}
}

// admit places p on the CPU if it's idle, otherwise at the tail of the
// ready queue.
func (s *scheduler) admit(p PID) {
	if s.running == NoProcess {
		s.running = p
		s.table.get(p).state = Running
		return
	}
	s.ready = append(s.ready, p)
	s.table.get(p).state = Ready
}

// runNext pops the ready-queue head onto the CPU, or leaves it idle if the
// queue is empty.
func (s *scheduler) runNext() {
	if len(s.ready) == 0 {
		s.running = NoProcess
		return
	}
	next := s.ready[0]
	s.ready = s.ready[1:]
	s.running = next
	s.table.get(next).state = Running
}

// yieldClear empties the running slot without re-queuing the occupant. The
// caller is responsible for the occupant's new state (e.g. Terminated,
// Waiting, BlockedIO).
func (s *scheduler) yieldClear() {
	s.running = NoProcess
}

// preempt re-queues the current occupant at the tail of ready (state
// becomes Ready) and promotes the next ready process, if any. Used by
// TimerInterrupt.
func (s *scheduler) preempt() {
	cur := s.running
	s.running = NoProcess
	if cur != NoProcess {
		s.ready = append(s.ready, cur)
		s.table.get(cur).state = Ready
	}
	s.runNext()
}

// remove drops p from the ready queue, if present. No-op otherwise. Used
// during cascading termination.
func (s *scheduler) remove(p PID) {
	for i, q := range s.ready {
		if q == p {
			s.ready = append(s.ready[:i], s.ready[i+1:]...)
			return
		}
	}
}

func (s *scheduler) readyQueue() []PID {
	out := make([]PID, len(s.ready))
	copy(out, s.ready)
	return out
}
