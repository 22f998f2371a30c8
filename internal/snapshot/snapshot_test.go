package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/report"
	"github.com/nerrad567/gray-logic-confgen/internal/resolver"
	"github.com/nerrad567/gray-logic-confgen/migrations"
)

func openStore(t *testing.T) (*Store, *database.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "confgen.db"),
		WALMode:     true,
		BusyTimeout: 5,
	}, database.WithMigrations(migrations.FS))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return NewStore(db), db
}

func sampleModel(t *testing.T) *model.Model {
	t.Helper()
	docs := &inventory.Documents{
		Bridges: []inventory.Entry{
			{Key: "gw", Doc: map[string]any{
				"name": "Gateway", "typed": "zigbee",
				"thing": map[string]any{"thinguid": "gw0"},
			}},
		},
		Locations: []inventory.Entry{{Doc: map[string]any{
			"name": "House", "typed": "building", "area": "Indoor",
			"locations": []any{map[string]any{
				"name": "Hall", "typed": "room",
				"equipment": []any{map[string]any{
					"name": "Lamp", "typed": "lightbulb",
					"points": map[string]any{"onoff": "state", "brightness": "level"},
					"thing":  map[string]any{"bridge": "gw", "thingtype": "lamp"},
				}},
			}},
		}}},
		Persons: []inventory.Entry{{Doc: map[string]any{
			"name": "Alice",
			"equipment": []any{map[string]any{"name": "Phone", "typed": "smartphone"}},
		}}},
	}
	res, err := resolver.New(resolver.Options{Registries: model.NewRegistries()}).Resolve(docs)
	require.NoError(t, err)
	return res.Model
}

func statsFor(t *testing.T, id string, m *model.Model) report.Stats {
	t.Helper()
	st, err := report.Compute(report.Run{ID: id, Name: "home"}, m)
	require.NoError(t, err)
	return st
}

func count(t *testing.T, db *database.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func TestSave(t *testing.T) {
	store, db := openStore(t)
	ctx := context.Background()
	m := sampleModel(t)

	require.NoError(t, store.Save(ctx, statsFor(t, "run-1", m), m))

	run, err := store.LatestRun(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 2, run.Things)
	assert.Equal(t, 2, run.Channels)
	assert.WithinDuration(t, time.Now(), run.CreatedAt, time.Minute)

	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM locations WHERE run_id = ?", "run-1"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM bridges WHERE thing_uid = ?", "zigbee:coordinator_ember:gw0"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM equipment WHERE person IS NOT NULL AND thing_uid IS NULL"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM locations WHERE area = 'Indoor' AND parent_identifier IS NULL"))

	channels, err := store.Channels(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "brightness", channels[0].Point)
	assert.Equal(t, "onoff", channels[1].Point)
	for _, c := range channels {
		assert.Equal(t, "HallLamp", c.Equipment)
	}
}

func TestSaveReplacesPreviousRun(t *testing.T) {
	store, db := openStore(t)
	ctx := context.Background()
	m := sampleModel(t)

	require.NoError(t, store.Save(ctx, statsFor(t, "run-1", m), m))
	require.NoError(t, store.Save(ctx, statsFor(t, "run-2", m), m))

	run, err := store.LatestRun(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "run-2", run.ID)

	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM runs"))
	assert.Zero(t, count(t, db, "SELECT COUNT(*) FROM channels WHERE run_id = ?", "run-1"), "child rows cascade")
}

func TestLatestRunUnknownSite(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.LatestRun(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSinkPublish(t *testing.T) {
	store, _ := openStore(t)
	m := sampleModel(t)

	var sink report.Sink = Sink{Store: store, Model: m}
	require.NoError(t, sink.Publish(context.Background(), statsFor(t, "run-9", m)))

	run, err := store.LatestRun(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, "run-9", run.ID)
}
