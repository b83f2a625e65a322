package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hirobumii/catseq/compiler"
	"github.com/hirobumii/catseq/core"
	"github.com/hirobumii/catseq/snapshot"
)

// newServeMetricsCmd is adapted from this package's teacher's cmd/sublrun:
// where that tool loaded a compiled model and ran it, this one loads a
// snapshot, compiles it once, and serves its compiler.Stats as Prometheus
// metrics over HTTP for the given duration — a debug convenience, not a
// monitoring product.
func newServeMetricsCmd() *cobra.Command {
	var (
		snapshotPath string
		addr         string
		duration     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Compile a snapshot and serve its cache/node-count metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			arena, root, err := loadArena(snapshotPath)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			nodeCount := promauto.With(reg).NewGauge(prometheus.GaugeOpts{
				Namespace: "catseq",
				Name:      "arena_node_count",
				Help:      "Number of nodes constructed in the served arena.",
			})
			cacheHits := promauto.With(reg).NewCounter(prometheus.CounterOpts{
				Namespace: "catseq",
				Name:      "compile_cache_hits_total",
				Help:      "Memoisation cache hits during the one served compilation.",
			})
			cacheMisses := promauto.With(reg).NewCounter(prometheus.CounterOpts{
				Namespace: "catseq",
				Name:      "compile_cache_misses_total",
				Help:      "Memoisation cache misses during the one served compilation.",
			})
			eventCount := promauto.With(reg).NewGauge(prometheus.GaugeOpts{
				Namespace: "catseq",
				Name:      "compiled_event_count",
				Help:      "Number of events produced by the served compilation.",
			})

			c := compiler.New(arena)
			events, err := c.Compile(root)
			if err != nil {
				return err
			}
			stats := c.Cache().Stats()
			nodeCount.Set(float64(arena.NodeCount()))
			cacheHits.Add(float64(stats.Hits))
			cacheMisses.Add(float64(stats.Misses))
			eventCount.Set(float64(len(events)))

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			server := &http.Server{Addr: addr, Handler: mux}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("serving metrics", zap.String("addr", addr))
				serveErr <- server.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-serveErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to a CBOR snapshot file (default: scenario a)")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9109", "address to serve /metrics on")
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "how long to serve before shutting down (0 = until interrupted)")
	return cmd
}

// loadArena reads a CBOR snapshot file and rebuilds its arena, or falls
// back to scenario a if no path is given; either way it returns the
// rebuilt arena's last constructed node as the root to compile.
func loadArena(snapshotPath string) (*core.Arena, core.NodeID, error) {
	if snapshotPath == "" {
		return scenarioA()
	}

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return nil, 0, err
	}
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, 0, err
	}
	arena, err := snap.Rebuild()
	if err != nil {
		return nil, 0, err
	}
	return arena, core.NodeID(arena.NodeCount() - 1), nil
}
