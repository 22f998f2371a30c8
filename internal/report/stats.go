package report

import (
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// Stats summarises one generator run.
type Stats struct {
	RunID          string        `json:"run_id"`
	Name           string        `json:"name"`
	Locations      int           `json:"locations"`
	Bridges        int           `json:"bridges"`
	Equipment      int           `json:"equipment"`
	Things         int           `json:"things"`
	Channels       int           `json:"channels"`
	MissingSecrets int           `json:"missing_secrets"`
	Artifacts      int           `json:"artifacts"`
	Duration       time.Duration `json:"duration_ns"`
	FinishedAt     time.Time     `json:"finished_at"`
}

// Run carries the facts about a run that the model does not hold.
type Run struct {
	ID             string
	Name           string
	MissingSecrets int
	Artifacts      int
	Started        time.Time
}

// Compute counts the model's entities and combines them with the run facts.
// Duration is measured up to now.
func Compute(run Run, m *model.Model) (Stats, error) {
	channels, err := m.Channels()
	if err != nil {
		return Stats{}, fmt.Errorf("counting channels: %w", err)
	}

	now := time.Now()
	st := Stats{
		RunID:          run.ID,
		Name:           run.Name,
		Locations:      len(m.AllLocations()),
		Bridges:        len(m.Bridges()),
		Equipment:      len(m.Equipment()),
		Things:         len(m.Things()),
		Channels:       len(channels),
		MissingSecrets: run.MissingSecrets,
		Artifacts:      run.Artifacts,
		FinishedAt:     now,
	}
	if !run.Started.IsZero() {
		st.Duration = now.Sub(run.Started)
	}
	return st, nil
}

// Success reports whether the run resolved every secret.
func (s Stats) Success() bool {
	return s.MissingSecrets == 0
}

// fields returns the counters keyed by their metric suffix.
func (s Stats) fields() map[string]interface{} {
	return map[string]interface{}{
		"locations":        s.Locations,
		"bridges":          s.Bridges,
		"equipment":        s.Equipment,
		"things":           s.Things,
		"channels":         s.Channels,
		"missing_secrets":  s.MissingSecrets,
		"artifacts":        s.Artifacts,
		"duration_seconds": s.Duration.Seconds(),
	}
}
