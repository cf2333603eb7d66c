package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/reval-dev/reval/pkg/reval"
)

func benchCmd() *cobra.Command {
	var ops int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run signal microbenchmarks",
		Long: `Measures write throughput, cached-read throughput, and recompute
latency of the reactive engine on this machine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(ops)
		},
	}
	cmd.Flags().IntVar(&ops, "ops", 1_000_000, "operations per benchmark")
	return cmd
}

func runBench(ops int) error {
	if ops <= 0 {
		return fmt.Errorf("ops must be positive, got %d", ops)
	}

	fmt.Printf("reval bench: %d ops per benchmark\n\n", ops)

	// Signal writes
	sig := reval.NewSignal(0)
	start := time.Now()
	for i := 0; i < ops; i++ {
		sig.Set(i)
	}
	report("signal write (Set)", ops, time.Since(start))

	// Scoped mutable handle writes
	start = time.Now()
	for i := 0; i < ops; i++ {
		m := sig.Mut()
		*m.Value() = i
		m.Release()
	}
	report("signal write (Mut)", ops, time.Since(start))

	// Cached derived reads
	double := reval.Derive(sig, func(n int) int { return n * 2 })
	_ = double.Get()
	start = time.Now()
	for i := 0; i < ops; i++ {
		_ = double.Get()
	}
	report("derived read (cache hit)", ops, time.Since(start))

	// Recompute latency distribution: every read is preceded by a write,
	// so every read pays for one transformation run.
	samples := ops
	if samples > 200_000 {
		samples = 200_000
	}
	latencies := make([]time.Duration, 0, samples)
	for i := 0; i < samples; i++ {
		sig.Set(i)
		t0 := time.Now()
		_ = double.Get()
		latencies = append(latencies, time.Since(t0))
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Printf("\nrecompute latency (%d samples):\n", samples)
	fmt.Printf("  p50: %v\n", percentile(latencies, 0.50))
	fmt.Printf("  p95: %v\n", percentile(latencies, 0.95))
	fmt.Printf("  p99: %v\n", percentile(latencies, 0.99))
	fmt.Printf("  max: %v\n", latencies[len(latencies)-1])

	return nil
}

func report(name string, ops int, elapsed time.Duration) {
	perOp := elapsed / time.Duration(ops)
	fmt.Printf("%-26s %10d ops in %8v  (%v/op)\n", name, ops, elapsed.Round(time.Millisecond), perOp)
}

// percentile returns the p-quantile of a sorted latency slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
