package simos

// FileReadRequest is a single pending or in-service disk read. The zero
// value (PID 0, empty FileName) denotes "no request" / an idle disk.
type FileReadRequest struct {
	PID      PID
	FileName string
}

func (r FileReadRequest) isIdle() bool { return r.PID == NoProcess }

// disk is one per-disk controller: one in-service request plus an ordered
// FIFO of waiting requests.
type disk struct {
	inService FileReadRequest
	waiting   []FileReadRequest
}

// enqueue starts r immediately if the disk is idle, otherwise appends it to
// the waiting queue.
func (d *disk) enqueue(r FileReadRequest) {
	if d.inService.isIdle() {
		d.inService = r
		return
	}
	d.waiting = append(d.waiting, r)
}

// complete returns the PID that just finished service and advances the
// disk: the waiting-queue head (if any) becomes the new in-service request,
// otherwise the disk goes idle.
func (d *disk) complete() PID {
	finished := d.inService.PID
	if len(d.waiting) > 0 {
		d.inService = d.waiting[0]
		d.waiting = d.waiting[1:]
	} else {
		d.inService = FileReadRequest{}
	}
	return finished
}

// removeByPID drops any waiting entries owned by pid, and if pid is the
// in-service occupant, promotes the next waiter (or idles). Used by
// cascading termination.
func (d *disk) removeByPID(pid PID) {
	filtered := d.waiting[:0]
	for _, r := range d.waiting {
		if r.PID != pid {
			filtered = append(filtered, r)
		}
	}
	d.waiting = filtered

	if d.inService.PID == pid {
		if len(d.waiting) > 0 {
			d.inService = d.waiting[0]
			d.waiting = d.waiting[1:]
		} else {
			d.inService = FileReadRequest{}
		}
	}
}

func (d *disk) waitingQueue() []FileReadRequest {
	out := make([]FileReadRequest, len(d.waiting))
	copy(out, d.waiting)
	return out
}

// diskSet is the fixed-size array of disk controllers.
type diskSet struct {
	disks []disk
}

func newDiskSet(n int) *diskSet {
	return &diskSet{disks: make([]disk, n)}
}

func (ds *diskSet) valid(diskNumber int) bool {
	return diskNumber >= 0 && diskNumber < len(ds.disks)
}

func (ds *diskSet) get(diskNumber int) *disk {
	return &ds.disks[diskNumber]
}

// removeByPID purges pid from every disk's waiting queue and in-service
// slot. Used by cascading termination.
func (ds *diskSet) removeByPID(pid PID) {
	for i := range ds.disks {
		ds.disks[i].removeByPID(pid)
	}
}
