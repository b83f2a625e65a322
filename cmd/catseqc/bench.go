package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hirobumii/catseq/compiler"
	"github.com/hirobumii/catseq/core"
)

// newBenchCmd is adapted from this package's teacher's cmd/sublperf: where
// that tool timed SIMD kernel throughput, this one times compilation of a
// configurable-size operand chain and reports cache hit/miss counts,
// exercising the serial bulk-append join (spec.md §8 Scenario D) and the
// cache-stats requirement of §6.1.
func newBenchCmd() *cobra.Command {
	var (
		size       int
		iterations int
		unbalanced bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time compilation of a configurable-size serial chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			arena, root, err := buildChain(size, unbalanced)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "chain size:   %d\n", size)
			fmt.Fprintf(cmd.OutOrStdout(), "tree shape:   %s\n", shapeName(unbalanced))
			fmt.Fprintf(cmd.OutOrStdout(), "iterations:   %d\n\n", iterations)

			c := compiler.New(arena)
			var total time.Duration
			for i := 0; i < iterations; i++ {
				c.Cache().Clear()
				start := time.Now()
				events, err := c.Compile(root)
				elapsed := time.Since(start)
				total += elapsed
				if err != nil {
					return err
				}
				logger.Info("compiled chain",
					zap.Int("iteration", i),
					zap.Int("events", len(events)),
					zap.Duration("elapsed", elapsed))
			}

			stats := c.Cache().Stats()
			avg := total / time.Duration(iterations)
			fmt.Fprintf(cmd.OutOrStdout(), "total time:   %v\n", total)
			fmt.Fprintf(cmd.OutOrStdout(), "avg/compile:  %v\n", avg)
			fmt.Fprintf(cmd.OutOrStdout(), "cache hits:   %d\n", stats.Hits)
			fmt.Fprintf(cmd.OutOrStdout(), "cache misses: %d\n", stats.Misses)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 10000, "number of atomic operands in the chain")
	cmd.Flags().IntVar(&iterations, "iter", 10, "number of repeated compilations to time")
	cmd.Flags().BoolVar(&unbalanced, "unbalanced", false, "build a deliberately right-leaning chain instead of a balanced one")
	return cmd
}

func shapeName(unbalanced bool) string {
	if unbalanced {
		return "right-leaning"
	}
	return "balanced (compose_many)"
}

// buildChain constructs a serial chain of size atomic operands on a single
// channel. unbalanced builds it with a naive left fold (depth == size),
// which is the adversarial input spec.md §4.3 calls out as the reason the
// compiler walks an explicit work stack rather than the Go call stack.
func buildChain(size int, unbalanced bool) (*core.Arena, core.NodeID, error) {
	if size <= 0 {
		return nil, 0, fmt.Errorf("catseqc: chain size must be positive, got %d", size)
	}

	a := core.NewArena()
	if !unbalanced {
		ids := make([]core.NodeID, size)
		for i := range ids {
			ids[i] = a.Atomic(0, 1, uint16(i%0xFFFF), nil)
		}
		root, _, err := a.ComposeMany(ids)
		return a, root, err
	}

	root := a.Atomic(0, 1, 0, nil)
	for i := 1; i < size; i++ {
		next := a.Atomic(0, 1, uint16(i%0xFFFF), nil)
		var err error
		root, err = a.Compose(root, next)
		if err != nil {
			return nil, 0, err
		}
	}
	return a, root, nil
}
