package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/OldStager01/scaling-advisor/internal/orchestrator"
)

func newRunCmd(load configLoader) *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one cycle and print its response",
		Long: "Run one decision cycle. The trigger is read from --event (\"-\" for stdin); " +
			"without it the cycle runs as a scheduled one. Exits 1 when the cycle fails.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			raw, err := readEvent(cmd.InOrStdin(), eventPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if cfg.Schedule.CycleTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Schedule.CycleTimeout)
				defer cancel()
			}

			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			a.orchestrator.Start()
			resp := a.orchestrator.Trigger(ctx, raw)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}

			if !resp.OK() {
				return errCycleFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventPath, "event", "e", "", "trigger payload file, - for stdin")
	return cmd
}

func readEvent(stdin io.Reader, path string) ([]byte, error) {
	switch path {
	case "":
		return orchestrator.ScheduledTrigger, nil
	case "-":
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return raw, nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		return raw, nil
	}
}
