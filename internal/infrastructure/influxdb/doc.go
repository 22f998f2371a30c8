// Package influxdb records generator runs in InfluxDB.
//
// Each run writes one point to the "confgen_run" measurement, tagged with
// the site name and carrying the run's counters as fields. Dashboards use
// it to spot a configuration that suddenly lost half its things.
//
// Usage:
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.WritePoint(ctx, "confgen_run", tags, fields, time.Now())
package influxdb
