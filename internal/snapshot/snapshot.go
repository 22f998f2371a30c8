package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/report"
)

// Store writes model snapshots to the database.
type Store struct {
	db *database.DB
}

// NewStore returns a Store backed by db. The schema must already be migrated.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Save replaces the snapshot of st.Name with m, in one transaction.
func (s *Store) Save(ctx context.Context, st report.Stats, m *model.Model) error {
	channels, err := m.Channels()
	if err != nil {
		return fmt.Errorf("collecting channels: %w", err)
	}

	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE name = ?`, st.Name); err != nil {
			return fmt.Errorf("deleting previous run: %w", err)
		}
		if err := insertRun(ctx, tx, st); err != nil {
			return err
		}
		if err := insertLocations(ctx, tx, st.RunID, m); err != nil {
			return err
		}
		if err := insertBridges(ctx, tx, st.RunID, m); err != nil {
			return err
		}
		if err := insertEquipment(ctx, tx, st.RunID, m); err != nil {
			return err
		}
		return insertChannels(ctx, tx, st.RunID, channels)
	})
}

// Run is a stored run summary.
type Run struct {
	ID             string
	Name           string
	CreatedAt      time.Time
	Things         int
	Channels       int
	MissingSecrets int
}

// LatestRun returns the stored run of a site, or sql.ErrNoRows.
func (s *Store) LatestRun(ctx context.Context, name string) (Run, error) {
	var r Run
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, things, channels, missing_secrets FROM runs WHERE name = ?`,
		name,
	).Scan(&r.ID, &r.Name, &created, &r.Things, &r.Channels, &r.MissingSecrets)
	if err != nil {
		return Run{}, fmt.Errorf("querying run %q: %w", name, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, created) //nolint:errcheck // Format is controlled
	return r, nil
}

// ChannelRow is a stored channel link.
type ChannelRow struct {
	Equipment string
	Point     string
	Address   string
}

// Channels returns the stored channel links of a run in model order.
func (s *Store) Channels(ctx context.Context, runID string) ([]ChannelRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT equipment, point, address FROM channels WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying channels: %w", err)
	}
	defer rows.Close()

	var out []ChannelRow
	for rows.Next() {
		var c ChannelRow
		if err := rows.Scan(&c.Equipment, &c.Point, &c.Address); err != nil {
			return nil, fmt.Errorf("scanning channel row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating channels: %w", err)
	}
	return out, nil
}

func insertRun(ctx context.Context, tx *sql.Tx, st report.Stats) error {
	created := st.FinishedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, created_at, locations, bridges, equipment, things, channels, missing_secrets)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.RunID, st.Name, created.UTC().Format(time.RFC3339),
		st.Locations, st.Bridges, st.Equipment, st.Things, st.Channels, st.MissingSecrets,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func insertLocations(ctx context.Context, tx *sql.Tx, runID string, m *model.Model) error {
	for i, l := range m.AllLocations() {
		var parent sql.NullString
		if p := l.Parent(); p != nil {
			parent = sql.NullString{String: p.Identifier(), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO locations (run_id, position, identifier, name, type, subtype, area, parent_identifier)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, l.Identifier(), l.Name(), string(l.Type()), l.Subtype(), nullable(l.Area()), parent,
		)
		if err != nil {
			return fmt.Errorf("inserting location %q: %w", l.Name(), err)
		}
	}
	return nil
}

func insertBridges(ctx context.Context, tx *sql.Tx, runID string, m *model.Model) error {
	for _, b := range m.Bridges() {
		var parent, uid sql.NullString
		if p := b.Parent(); p != nil {
			parent = sql.NullString{String: p.Key(), Valid: true}
		}
		if t := b.Thing(); t != nil {
			uid = sql.NullString{String: t.FullUID(), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bridges (run_id, bridge_key, name, identifier, binding, parent_key, thing_uid)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, b.Key(), b.Name(), b.Identifier(), b.Binding(), parent, uid,
		)
		if err != nil {
			return fmt.Errorf("inserting bridge %q: %w", b.Key(), err)
		}
	}
	return nil
}

func insertEquipment(ctx context.Context, tx *sql.Tx, runID string, m *model.Model) error {
	for i, eq := range m.Equipment() {
		var location, person, parent, bridge, uid sql.NullString
		if l := eq.Location(); l != nil {
			location = sql.NullString{String: l.Identifier(), Valid: true}
		}
		if p := eq.Person(); p != nil {
			person = sql.NullString{String: p.Identifier(), Valid: true}
		}
		if p := eq.Parent(); p != nil {
			parent = sql.NullString{String: p.Identifier(), Valid: true}
		}
		if t := eq.Thing(); t != nil {
			uid = sql.NullString{String: t.FullUID(), Valid: true}
			if b := t.Bridge(); b != nil {
				bridge = sql.NullString{String: b.Key(), Valid: true}
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO equipment (run_id, position, identifier, name, type, location, person, parent_identifier, bridge_key, thing_uid)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, eq.Identifier(), eq.Name(), eq.Type(), location, person, parent, bridge, uid,
		)
		if err != nil {
			return fmt.Errorf("inserting equipment %q: %w", eq.Name(), err)
		}
	}
	return nil
}

func insertChannels(ctx context.Context, tx *sql.Tx, runID string, channels []model.Channel) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO channels (run_id, position, equipment, point, address)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing channel insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range channels {
		if _, err := stmt.ExecContext(ctx, runID, i, c.Equipment.Identifier(), c.Point, c.Address); err != nil {
			return fmt.Errorf("inserting channel %q: %w", c.Address, err)
		}
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Sink adapts a Store to report.Sink for one model.
type Sink struct {
	Store *Store
	Model *model.Model
}

// Name implements report.Sink.
func (Sink) Name() string { return "sqlite-snapshot" }

// Publish implements report.Sink.
func (s Sink) Publish(ctx context.Context, st report.Stats) error {
	return s.Store.Save(ctx, st, s.Model)
}
