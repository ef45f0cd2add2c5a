package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fakerfilter/internal/config"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		cfgPath string
		dryRun  bool
		mf      metricsFlags
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rewrite the configured columns of every input partition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if dryRun {
				p.Storage.Kind = "null"
			}
			if p.Job == "" {
				p.Job = "fakerfilter"
			}

			flush := setupMetrics(mf, p.Job, a.log)
			defer flush()

			start := time.Now()
			st, err := runPipeline(cmd.Context(), p, a.log)
			if err != nil {
				return err
			}
			a.log.Info("run: completed",
				zap.Int("partitions", st.Partitions),
				zap.Int64("records", st.Records),
				zap.Int64("rewritten", st.Rewritten),
				zap.Int64("nulls_kept", st.NullsKept),
				zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "pipeline.yaml", "pipeline config (JSON or YAML)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "process every record but discard the output")
	cmd.Flags().StringVar(&mf.backend, "metrics-backend", "", "metrics backend: none, pushgateway, datadog")
	cmd.Flags().StringVar(&mf.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL")
	cmd.Flags().StringVar(&mf.statsdAddr, "statsd-addr", "", "DogStatsD address host:port")
	return cmd
}
