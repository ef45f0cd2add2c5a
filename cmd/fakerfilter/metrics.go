package main

import (
	"os"

	"go.uber.org/zap"

	"fakerfilter/internal/metrics"
	"fakerfilter/internal/metrics/datadog"
	"fakerfilter/internal/metrics/prompush"
)

type metricsFlags struct {
	backend        string
	pushgatewayURL string
	statsdAddr     string
}

// setupMetrics installs the selected backend and returns a flush func.
// Flag values win over METRICS_BACKEND, PUSHGATEWAY_URL and STATSD_ADDR.
// Backend init failures are logged and leave metrics disabled.
func setupMetrics(f metricsFlags, job string, log *zap.Logger) func() {
	name := firstNonEmpty(f.backend, os.Getenv("METRICS_BACKEND"), "none")

	var (
		b   metrics.Backend
		err error
	)
	switch name {
	case "pushgateway":
		url := firstNonEmpty(f.pushgatewayURL, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091")
		b, err = prompush.NewBackend(job, url)
		log.Info("metrics: pushgateway", zap.String("url", url), zap.String("job", job))
	case "datadog":
		addr := firstNonEmpty(f.statsdAddr, os.Getenv("STATSD_ADDR"), "127.0.0.1:8125")
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "fakerfilter.",
			GlobalTags: []string{"job:" + job},
		})
		log.Info("metrics: datadog", zap.String("addr", addr))
	case "none", "":
		return func() {}
	default:
		log.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", name))
		return func() {}
	}
	if err != nil {
		log.Warn("metrics: backend init failed; metrics disabled", zap.String("backend", name), zap.Error(err))
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics: flush", zap.Error(err))
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
