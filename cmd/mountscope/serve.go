package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/mountscope/internal/exporter"
	"github.com/marmos91/mountscope/internal/logger"
	"github.com/marmos91/mountscope/pkg/metrics"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve mount-table metrics for Prometheus scraping",
		Long: `Serve exposes gauges about the configured mount table (mount counts by
filesystem type, propagation tag counts, capture timing) on a Prometheus
metrics endpoint. Each scrape re-captures the table, bounded by the
configured rate limit; scrapes beyond the budget see the cached table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics.InitRegistry()

			exp := exporter.New(exporter.Config{
				Listen:          root.cfg.Exporter.Listen,
				Source:          root.source(),
				CaptureRate:     root.cfg.Exporter.CaptureRate,
				CaptureBurst:    root.cfg.Exporter.CaptureBurst,
				ShutdownTimeout: root.cfg.Exporter.ShutdownTimeout,
			}, metrics.NewMountTableMetrics())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := exp.Serve(ctx)
			logger.Info("exporter stopped")
			return err
		},
	}
}
