package report

import (
	"context"
	"fmt"
	"time"
)

// Measurement is the InfluxDB measurement holding run statistics.
const Measurement = "confgen_run"

// PointWriter writes a single point. Satisfied by *influxdb.Client.
type PointWriter interface {
	WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}, ts time.Time) error
}

// InfluxSink writes one point per run, tagged with the site name.
type InfluxSink struct {
	Writer PointWriter
}

// Name implements Sink.
func (InfluxSink) Name() string { return "influxdb" }

// Publish implements Sink.
func (s InfluxSink) Publish(ctx context.Context, st Stats) error {
	fields := st.fields()
	fields["run_id"] = st.RunID

	tags := map[string]string{
		"site":    st.Name,
		"success": fmt.Sprintf("%t", st.Success()),
	}
	if err := s.Writer.WritePoint(ctx, Measurement, tags, fields, st.FinishedAt); err != nil {
		return fmt.Errorf("writing %s point: %w", Measurement, err)
	}
	return nil
}
