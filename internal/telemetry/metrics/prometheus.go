package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus builds the registry served on /metrics: build info, Go
// runtime (GC and scheduler) and process collectors, plus the given extra
// collectors (e.g. the pgx pool stats).
func SetupPrometheus(extraCollectors ...prometheus.Collector) (*prometheus.Registry, error) {
	promRegistry := prometheus.NewRegistry()

	base := []prometheus.Collector{
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(collectors.WithGoCollectorRuntimeMetrics(
			collectors.MetricsGC,
			collectors.MetricsScheduler,
		)),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range append(base, extraCollectors...) {
		if c == nil {
			continue
		}
		if err := promRegistry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector %T: %w", c, err)
		}
	}

	return promRegistry, nil
}
