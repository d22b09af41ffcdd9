// Package simos implements the core of a single-machine operating-system
// simulator: a process table with fork/exit/wait lifecycle, a round-robin
// CPU scheduler, a fixed set of per-disk I/O queues, and a demand-paged
// memory manager with global LRU frame replacement.
//
// Overview
//
//   - Sim is the façade. It owns the four subsystems (process table,
//     scheduler, disks, memory) and is the only type a driver talks to.
//     Events (NewProcess, SimFork, SimExit, SimWait, TimerInterrupt,
//     DiskReadRequest, DiskJobCompleted, AccessMemoryAddress) mutate state;
//     Get* queries read it back without mutation.
//
//   - The simulator is event-driven and single-threaded by contract: a
//     driver issues one event at a time and may issue any number of queries
//     between events. Sim does not synchronize its own state and is not
//     safe for concurrent use.
//
//   - Errors (errors.go):
//     ErrNoRunningProcess : event requires a running process, CPU is idle
//     ErrBadDisk          : diskNumber is outside [0, numDisks)
//
//   - There is no real I/O, no real time, and no persistence between runs.
//     Disks and timers are abstract; a "disk read" just removes a PID from
//     the CPU until a driver later reports DiskJobCompleted.
package simos
