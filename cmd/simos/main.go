package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ja7ad/simos/pkg/simos"
	"github.com/ja7ad/simos/pkg/types"
)

func main() {
	root := &cobra.Command{
		Use:   "simos",
		Short: "Single-machine operating-system simulator",
		Long: `simos drives an in-memory OS simulator core: process lifecycle, a
FIFO round-robin CPU scheduler, per-disk I/O queues, and demand-paged memory
with global LRU replacement. It is event-driven and single-threaded — the
driver (this CLI) issues one event at a time and may query state freely
between events.

Examples:
  simos run scenario.yaml
  simos repl --disks 2 --ram 8192 --page-size 1024`,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Replay an event script end-to-end and print the final state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScript(args[0])
			if err != nil {
				return err
			}
			sim := simos.New(cfg.Disks, cfg.RAM, cfg.PageSize)
			next := PID(1)

			for i, st := range cfg.Events {
				if err := applyStep(sim, st, &next); err != nil {
					slog.Warn("event failed", "index", i, "op", st.Op, "err", err)
					continue
				}
				if st.Describe {
					printSnapshot(sim, cfg.Disks, types.Bytes(cfg.RAM), next)
				}
			}

			printSnapshot(sim, cfg.Disks, types.Bytes(cfg.RAM), next)
			return nil
		},
	}
}

func newReplCmd() *cobra.Command {
	var disks int
	var ram, pageSize uint64

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read events one per line from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := simos.New(disks, ram, pageSize)
			next := PID(1)

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Println("simos repl — one event per line (new, fork, exit, wait, interrupt, disk-read <d> <f>, disk-done <d>, access <addr>, status, quit)")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				st, err := parseLine(strings.Fields(line))
				if err != nil {
					slog.Warn("bad input", "err", err)
					continue
				}
				if st.Op == "quit" {
					return nil
				}
				if st.Op == "status" {
					printSnapshot(sim, disks, types.Bytes(ram), next)
					continue
				}
				if err := applyStep(sim, st, &next); err != nil {
					slog.Warn("event failed", "op", st.Op, "err", err)
					continue
				}
				printSnapshot(sim, disks, types.Bytes(ram), next)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().IntVar(&disks, "disks", 1, "number of simulated disks")
	cmd.Flags().Uint64Var(&ram, "ram", 4096, fmt.Sprintf("simulated RAM in bytes (default %s)", types.Bytes(4096).Humanized()))
	cmd.Flags().Uint64Var(&pageSize, "page-size", 256, fmt.Sprintf("page size in bytes (default %s)", types.Bytes(256).Humanized()))
	return cmd
}

// PID mirrors simos.PID for the CLI's own bookkeeping of the next PID a
// NewProcess/SimFork call will hand out, used only for process-tree
// rendering (the simulator itself has no "list every PID" query, by design
// — see ProcessView in pkg/simos).
type PID = simos.PID

// applyStep dispatches one script/REPL step to the simulator, tracking the
// high-water PID mark for later tree rendering.
func applyStep(sim *simos.Sim, st step, next *PID) error {
	switch st.Op {
	case "new":
		pid := sim.NewProcess()
		bumpNext(next, pid)
		return nil
	case "fork":
		pid, err := sim.SimFork()
		if err != nil {
			return err
		}
		bumpNext(next, pid)
		return nil
	case "exit":
		return sim.SimExit()
	case "wait":
		return sim.SimWait()
	case "interrupt":
		return sim.TimerInterrupt()
	case "disk-read":
		return sim.DiskReadRequest(st.Disk, st.File)
	case "disk-done":
		return sim.DiskJobCompleted(st.Disk)
	case "access":
		return sim.AccessMemoryAddress(st.Address)
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
}

func bumpNext(next *PID, pid PID) {
	if pid >= *next {
		*next = pid + 1
	}
}

// printSnapshot renders the process table (with the CPU occupant marked),
// disks, and memory as tables, and the ready queue and load as single
// lines — the same role text/tabwriter plays for cmd/consumption's sample
// rows; tablewriter is used instead because the process table below needs
// bordered, variable-width columns that tabwriter can't express.
func printSnapshot(sim *simos.Sim, disks int, ram types.Bytes, next PID) {
	fmt.Println()
	printProcessTable(sim, next)
	printReadyQueue(sim)
	printDisks(sim, disks)
	printMemory(sim, ram)
	printLoad(sim)
}

func printProcessTable(sim *simos.Sim, next PID) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"PID", "State", "Role", "Parent", "Children"})

	for pid := simos.PID(1); pid < next; pid++ {
		info, ok := sim.ProcessView(pid)
		if !ok {
			continue
		}
		children := make([]string, len(info.Children))
		for i, c := range info.Children {
			children[i] = strconv.Itoa(int(c))
		}
		cpuMark := ""
		if sim.GetCPU() == pid {
			cpuMark = " (CPU)"
		}
		table.Append([]string{
			strconv.Itoa(int(pid)) + cpuMark,
			info.State.String(),
			info.Role.String(),
			strconv.Itoa(int(info.Parent)),
			strings.Join(children, ","),
		})
	}
	table.Render()
}

func printReadyQueue(sim *simos.Sim) {
	q := sim.GetReadyQueue()
	row := make([]string, len(q))
	for i, pid := range q {
		row[i] = strconv.Itoa(int(pid))
	}
	fmt.Printf("ready queue (front->back): [%s]\n", strings.Join(row, " "))
}

func printDisks(sim *simos.Sim, disks int) {
	if disks == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Disk", "In-service", "Waiting"})
	for d := 0; d < disks; d++ {
		cur, err := sim.GetDisk(d)
		if err != nil {
			continue
		}
		q, _ := sim.GetDiskQueue(d)
		waiting := make([]string, len(q))
		for i, r := range q {
			waiting[i] = fmt.Sprintf("%d:%s", r.PID, r.FileName)
		}
		service := "idle"
		if cur.PID != simos.NoProcess {
			service = fmt.Sprintf("%d:%s", cur.PID, cur.FileName)
		}
		table.Append([]string{strconv.Itoa(d), service, strings.Join(waiting, ", ")})
	}
	table.Render()
}

func printMemory(sim *simos.Sim, ram types.Bytes) {
	mem := sim.GetMemory()
	fmt.Printf("memory: %s RAM, %d frames occupied\n", ram.Humanized(), len(mem))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Frame", "Page", "PID"})
	for _, m := range mem {
		table.Append([]string{
			strconv.Itoa(m.FrameNumber),
			strconv.FormatUint(m.PageNumber, 10),
			strconv.Itoa(int(m.PID)),
		})
	}
	table.Render()
}

func printLoad(sim *simos.Sim) {
	cur, avg := sim.GetLoad()
	fmt.Printf("load: %.2f (ready %.2f disk %.2f mem %.2f)  avg: %.2f\n",
		cur.Score, cur.ReadyPressure, cur.DiskPressure, cur.MemPressure, avg)
}
