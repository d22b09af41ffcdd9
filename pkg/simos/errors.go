package simos

import "errors"

var (
	// ErrNoRunningProcess indicates an event that requires a running process
	// was invoked while the CPU was idle.
	ErrNoRunningProcess = errors.New("simos: no running process")

	// ErrBadDisk indicates a disk number outside [0, numDisks).
	ErrBadDisk = errors.New("simos: disk does not exist")
)
