package main

import (
	"context"

	"github.com/nerrad567/gray-logic-confgen/internal/generator"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/report"
	"github.com/nerrad567/gray-logic-confgen/internal/snapshot"
	"github.com/nerrad567/gray-logic-confgen/migrations"
)

// openSinks connects every enabled report sink. A sink that cannot be
// opened is logged and skipped. The returned func closes what was opened.
func openSinks(ctx context.Context, cfg *config.Config, m *model.Model, log *logging.Logger) ([]report.Sink, func()) {
	var sinks []report.Sink
	var closers []func() error

	if cfg.Database.Enabled {
		db, err := database.Open(ctx, cfg.Database, database.WithMigrations(migrations.FS))
		switch {
		case err != nil:
			log.Warn("snapshot database unavailable", "path", cfg.Database.Path, "error", err)
		default:
			closers = append(closers, db.Close)
			if err := db.Migrate(ctx); err != nil {
				log.Warn("snapshot migrations failed", "error", err)
				break
			}
			sinks = append(sinks, snapshot.Sink{Store: snapshot.NewStore(db), Model: m})
		}
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			log.Warn("influxdb unavailable", "url", cfg.InfluxDB.URL, "error", err)
		} else {
			closers = append(closers, client.Close)
			sinks = append(sinks, report.InfluxSink{Writer: client})
		}
	}

	if cfg.Metrics.TextfilePath != "" {
		sinks = append(sinks, report.TextfileSink{Path: cfg.Metrics.TextfilePath})
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.Connect(ctx, cfg.MQTT)
		if err != nil {
			log.Warn("mqtt broker unavailable", "broker", cfg.MQTT.Broker.Host, "error", err)
		} else {
			closers = append(closers, client.Close)
			sinks = append(sinks, report.NoticeSink{
				Publisher: client,
				Topic:     mqtt.Topics{}.ConfgenRun((&generator.Input{Name: cfg.Site.Name}).BaseName()),
			})
		}
	}

	return sinks, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("closing report sink", "error", err)
			}
		}
	}
}
