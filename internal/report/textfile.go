package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricPrefix prefixes every gauge in the textfile.
const MetricPrefix = "graylogic_confgen_"

// TextfileSink writes the run's gauges in the Prometheus text format for
// node_exporter's textfile collector.
type TextfileSink struct {
	Path string
}

// Name implements Sink.
func (TextfileSink) Name() string { return "prometheus-textfile" }

// Publish implements Sink.
func (s TextfileSink) Publish(_ context.Context, st Stats) error {
	reg, err := newRegistry(st)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil { //nolint:gosec // node_exporter reads this directory
		return fmt.Errorf("creating textfile directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(s.Path, reg); err != nil {
		return fmt.Errorf("writing textfile: %w", err)
	}
	return nil
}

// newRegistry builds a private registry holding one gauge per counter.
func newRegistry(st Stats) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"site": st.Name}

	fields := st.fields()
	keys := make([]string, 0, len(fields)+2)
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]float64, len(fields)+2)
	for _, k := range keys {
		switch v := fields[k].(type) {
		case int:
			values[k] = float64(v)
		case float64:
			values[k] = v
		}
	}
	values["last_run_timestamp_seconds"] = float64(st.FinishedAt.Unix())
	success := 0.0
	if st.Success() {
		success = 1
	}
	values["last_run_success"] = success
	keys = append(keys, "last_run_success", "last_run_timestamp_seconds")

	for _, k := range keys {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        MetricPrefix + k,
			Help:        "Configuration generator run statistic: " + k + ".",
			ConstLabels: labels,
		})
		g.Set(values[k])
		if err := reg.Register(g); err != nil {
			return nil, fmt.Errorf("registering %s: %w", k, err)
		}
	}
	return reg, nil
}
