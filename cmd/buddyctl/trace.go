package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joshuapare/buddykit/buddy"
	"github.com/spf13/cobra"
)

var (
	traceMinOrder int
	traceMaxOrder int
	traceStats    bool
)

func init() {
	cmd := newTraceCmd()
	cmd.Flags().IntVar(&traceMinOrder, "min-order", buddy.DefaultConfig.MinOrder,
		"Allocation granularity exponent (unit = 2^min-order bytes)")
	cmd.Flags().IntVar(&traceMaxOrder, "max-order", buddy.DefaultConfig.MaxOrder,
		"Arena size exponent (arena = 2^max-order bytes)")
	cmd.Flags().BoolVar(&traceStats, "stats", false, "Print operation statistics at the end")
	rootCmd.AddCommand(cmd)
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <script>",
		Short: "Replay an alloc/free script against a fresh allocator",
		Long: `The trace command replays an allocation script against a fresh buddy
allocator and prints the free-list state wherever the script asks for it.
Use "-" to read the script from stdin.

Script syntax, one command per line ("#" starts a comment):

  alloc <bytes>   allocate a block; allocations are numbered from 1
  free <n>        free the n-th successful allocation
  dump            print free blocks per order
  reset           reinitialize the allocator

Example:
  buddyctl trace workload.txt
  buddyctl trace --min-order 12 --max-order 14 --stats workload.txt
  buddyctl trace --json - < workload.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args)
		},
	}
	return cmd
}

func runTrace(args []string) error {
	var in io.Reader
	if args[0] == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	cfg := buddy.Config{MinOrder: traceMinOrder, MaxOrder: traceMaxOrder}
	a, err := buddy.New(&cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	printVerbose("Arena: %d bytes, unit %d bytes\n", a.Size(), a.UnitSize())

	var refs []buddy.Ref
	scanner := bufio.NewScanner(in)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "alloc":
			if len(fields) != 2 {
				return fmt.Errorf("line %d: usage: alloc <bytes>", lineNo)
			}
			size, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				return fmt.Errorf("line %d: bad size %q", lineNo, fields[1])
			}
			ref, buf, allocErr := a.Alloc(size)
			if allocErr != nil {
				printInfo("line %d: alloc %d: %v\n", lineNo, size, allocErr)
				continue
			}
			refs = append(refs, ref)
			printVerbose("alloc #%d: %d bytes -> offset 0x%X (block %d bytes)\n",
				len(refs), size, ref, len(buf))

		case "free":
			if len(fields) != 2 {
				return fmt.Errorf("line %d: usage: free <n>", lineNo)
			}
			n, convErr := strconv.Atoi(fields[1])
			if convErr != nil || n < 1 || n > len(refs) {
				return fmt.Errorf("line %d: no allocation #%s", lineNo, fields[1])
			}
			if freeErr := a.Free(refs[n-1]); freeErr != nil {
				return fmt.Errorf("line %d: free #%d: %w", lineNo, n, freeErr)
			}
			printVerbose("free #%d: offset 0x%X\n", n, refs[n-1])

		case "dump":
			if jsonOut {
				if jsonErr := printJSON(a.Dump()); jsonErr != nil {
					return jsonErr
				}
			} else {
				printInfo("%s\n", buddy.FormatDump(a.Dump()))
			}

		case "reset":
			a.Reset()
			refs = refs[:0]
			printVerbose("reset\n")

		default:
			return fmt.Errorf("line %d: unknown command %q", lineNo, fields[0])
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return fmt.Errorf("failed to read script: %w", scanErr)
	}

	if traceStats {
		st := a.Stats()
		if jsonOut {
			return printJSON(st)
		}
		printInfo("\nStatistics:\n")
		printInfo("  Allocs:    %d (%d failed)\n", st.AllocCalls, st.FailedAllocs)
		printInfo("  Frees:     %d\n", st.FreeCalls)
		printInfo("  Splits:    %d\n", st.SplitCount)
		printInfo("  Merges:    %d\n", st.MergeCount)
		printInfo("  Allocated: %d bytes\n", st.BytesAllocated)
		printInfo("  Freed:     %d bytes\n", st.BytesFreed)
	}

	return nil
}
