package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/config"
)

// errCycleFailed makes the process exit non-zero after the failed response
// has already been printed.
var errCycleFailed = errors.New("cycle failed")

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "advisor",
		Short:         "Metrics-driven replica advisor for one Kubernetes deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newRunCmd(load),
		newMigrateCmd(load),
		newUserCmd(load),
	)
	return root
}

type configLoader func() (*config.Config, error)
