package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hirobumii/catseq/compiler"
)

func newDemoCmd() *cobra.Command {
	var (
		scenario string
		byBoard  bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build and compile one of this package's literal example scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if scenario == "c" {
				err := scenarioC()
				if err == nil {
					return fmt.Errorf("catseqc: scenario c unexpectedly succeeded")
				}
				logger.Info("construction rejected as expected", zap.Error(err))
				fmt.Println(err)
				return nil
			}

			arena, root, err := buildScenario(scenario)
			if err != nil {
				return err
			}
			logger.Info("arena built", zap.Int("node_count", arena.NodeCount()))

			c := compiler.New(arena)
			if byBoard {
				byBoardEvents, err := c.CompileByBoard(root)
				if err != nil {
					return err
				}
				out := make(map[string]any, len(byBoardEvents))
				for board, events := range byBoardEvents {
					out[fmt.Sprintf("%d", board)] = events.AsTuples()
				}
				return printJSON(cmd, out)
			}

			events, err := c.Compile(root)
			if err != nil {
				return err
			}
			stats := c.Cache().Stats()
			logger.Info("compiled", zap.Int("events", len(events)),
				zap.Int64("cache_hits", stats.Hits), zap.Int64("cache_misses", stats.Misses))

			return printJSON(cmd, events.AsTuples())
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "a", "scenario to build: a, b, c, d, e, or f")
	cmd.Flags().BoolVar(&byBoard, "by-board", false, "print the per-board event map instead of the flat stream")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
