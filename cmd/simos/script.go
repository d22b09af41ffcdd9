package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scriptConfig is the top-level shape of an event script file: construction
// parameters for the simulator plus an ordered list of events to replay.
// Mirrors the teacher's `row`-struct style of JSON tags in
// cmd/consumption/main.go, extended here to YAML.
type scriptConfig struct {
	Disks    int    `yaml:"disks"`
	RAM      uint64 `yaml:"ram_bytes"`
	PageSize uint64 `yaml:"page_size"`
	Events   []step `yaml:"events"`
}

// step is one line of the script: Op selects the event, and which of Disk,
// File and Address are meaningful depends on Op. Describe applies to any op.
type step struct {
	Op       string `yaml:"op"`
	Disk     int    `yaml:"disk,omitempty"`
	File     string `yaml:"file,omitempty"`
	Address  uint64 `yaml:"address,omitempty"`
	Describe bool   `yaml:"describe,omitempty"`
}

func loadScript(path string) (scriptConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return scriptConfig{}, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	var cfg scriptConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return scriptConfig{}, fmt.Errorf("parse script: %w", err)
	}
	if cfg.PageSize == 0 {
		return scriptConfig{}, fmt.Errorf("parse script: page_size must be > 0")
	}
	return cfg, nil
}

// parseLine turns one REPL line ("fork", "disk-read 0 report.bin", ...)
// into a step, using the same op vocabulary as the YAML script format.
func parseLine(fields []string) (step, error) {
	if len(fields) == 0 {
		return step{}, fmt.Errorf("empty line")
	}
	s := step{Op: fields[0]}
	switch s.Op {
	case "new", "fork", "exit", "wait", "interrupt", "help", "quit":
		// no arguments
	case "disk-read":
		if len(fields) != 3 {
			return step{}, fmt.Errorf("disk-read requires <disk> <file>")
		}
		if _, err := fmt.Sscanf(fields[1], "%d", &s.Disk); err != nil {
			return step{}, fmt.Errorf("disk-read: bad disk number %q", fields[1])
		}
		s.File = fields[2]
	case "disk-done":
		if len(fields) != 2 {
			return step{}, fmt.Errorf("disk-done requires <disk>")
		}
		if _, err := fmt.Sscanf(fields[1], "%d", &s.Disk); err != nil {
			return step{}, fmt.Errorf("disk-done: bad disk number %q", fields[1])
		}
	case "access":
		if len(fields) != 2 {
			return step{}, fmt.Errorf("access requires <address>")
		}
		if _, err := fmt.Sscanf(fields[1], "%d", &s.Address); err != nil {
			return step{}, fmt.Errorf("access: bad address %q", fields[1])
		}
	case "status":
		// no arguments; prints a snapshot
	default:
		return step{}, fmt.Errorf("unknown op %q", s.Op)
	}
	return s, nil
}
