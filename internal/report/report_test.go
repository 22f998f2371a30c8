package report

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/resolver"
)

func sampleModel(t *testing.T) *model.Model {
	t.Helper()
	docs := &inventory.Documents{
		Bridges: []inventory.Entry{
			{Key: "gw", Doc: map[string]any{"name": "Gateway", "typed": "zigbee"}},
		},
		Locations: []inventory.Entry{{Doc: map[string]any{
			"name": "House", "typed": "building",
			"locations": []any{map[string]any{
				"name": "Hall", "typed": "room",
				"equipment": []any{
					map[string]any{
						"name": "Lamp", "typed": "lightbulb",
						"points": map[string]any{"onoff": "state", "brightness": "level"},
						"thing":  map[string]any{"bridge": "gw", "thingtype": "lamp"},
					},
					map[string]any{"name": "Radiator", "typed": "heating"},
				},
			}},
		}}},
	}
	res, err := resolver.New(resolver.Options{Registries: model.NewRegistries()}).Resolve(docs)
	require.NoError(t, err)
	return res.Model
}

func sampleStats() Stats {
	return Stats{
		RunID:      "run-1",
		Name:       "home",
		Locations:  2,
		Bridges:    1,
		Equipment:  2,
		Things:     2,
		Channels:   2,
		Artifacts:  3,
		Duration:   1500 * time.Millisecond,
		FinishedAt: time.Unix(1700000000, 0),
	}
}

type recordingLogger struct {
	warns []string
	infos []string
}

func (l *recordingLogger) Info(msg string, _ ...any) { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Warn(msg string, _ ...any) { l.warns = append(l.warns, msg) }

func TestCompute(t *testing.T) {
	started := time.Now().Add(-time.Second)
	st, err := Compute(Run{ID: "r1", Name: "home", MissingSecrets: 1, Artifacts: 3, Started: started}, sampleModel(t))
	require.NoError(t, err)

	assert.Equal(t, "r1", st.RunID)
	assert.Equal(t, 2, st.Locations)
	assert.Equal(t, 1, st.Bridges)
	assert.Equal(t, 2, st.Equipment)
	assert.Equal(t, 1, st.Things, "only the bound lamp is a thing")
	assert.Equal(t, 2, st.Channels)
	assert.Equal(t, 1, st.MissingSecrets)
	assert.Equal(t, 3, st.Artifacts)
	assert.GreaterOrEqual(t, st.Duration, time.Second)
	assert.False(t, st.Success())
}

type fakeWriter struct {
	measurement string
	tags        map[string]string
	fields      map[string]interface{}
	err         error
}

func (w *fakeWriter) WritePoint(_ context.Context, m string, tags map[string]string, fields map[string]interface{}, _ time.Time) error {
	w.measurement, w.tags, w.fields = m, tags, fields
	return w.err
}

func TestInfluxSink(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, InfluxSink{Writer: w}.Publish(context.Background(), sampleStats()))

	assert.Equal(t, Measurement, w.measurement)
	assert.Equal(t, map[string]string{"site": "home", "success": "true"}, w.tags)
	assert.Equal(t, 2, w.fields["things"])
	assert.Equal(t, "run-1", w.fields["run_id"])
	assert.InDelta(t, 1.5, w.fields["duration_seconds"], 0.001)
}

func TestTextfileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "confgen.prom")
	require.NoError(t, TextfileSink{Path: path}.Publish(context.Background(), sampleStats()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `graylogic_confgen_things{site="home"} 2`)
	assert.Contains(t, out, `graylogic_confgen_missing_secrets{site="home"} 0`)
	assert.Contains(t, out, `graylogic_confgen_last_run_success{site="home"} 1`)
	assert.Contains(t, out, `graylogic_confgen_duration_seconds{site="home"} 1.5`)
	assert.Contains(t, out, "# TYPE graylogic_confgen_channels gauge")
}

type fakePublisher struct {
	topic   string
	payload []byte
	err     error
}

func (p *fakePublisher) PublishRetained(topic string, payload []byte) error {
	p.topic, p.payload = topic, payload
	return p.err
}

func TestNoticeSink(t *testing.T) {
	p := &fakePublisher{}
	st := sampleStats()
	st.MissingSecrets = 2

	sink := NoticeSink{Publisher: p, Topic: "graylogic/system/confgen/home"}
	require.NoError(t, sink.Publish(context.Background(), st))

	assert.Equal(t, "graylogic/system/confgen/home", p.topic)

	var got map[string]any
	require.NoError(t, json.Unmarshal(p.payload, &got))
	assert.Equal(t, "incomplete", got["event"])
	assert.Equal(t, "run-1", got["run_id"])
	assert.EqualValues(t, 2, got["missing_secrets"])
}

func TestPublishContinuesAfterFailure(t *testing.T) {
	log := &recordingLogger{}
	failing := InfluxSink{Writer: &fakeWriter{err: errors.New("down")}}
	p := &fakePublisher{}
	ok := NoticeSink{Publisher: p, Topic: "t"}

	failed := Publish(context.Background(), log, sampleStats(), failing, nil, ok)

	assert.Equal(t, 1, failed)
	require.Len(t, log.warns, 1)
	assert.True(t, strings.HasPrefix(log.warns[0], "report sink failed"))
	assert.NotEmpty(t, p.payload, "later sinks still run")
}
