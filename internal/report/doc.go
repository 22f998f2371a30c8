// Package report summarises a generator run and hands the summary to
// optional sinks.
//
//	resolver.Result + artifacts ──► Compute ──► Stats
//	                                              │
//	          ┌───────────────────────────────────┼────────────────────┐
//	          ▼                                   ▼                    ▼
//	   InfluxSink (confgen_run)     TextfileSink (graylogic_confgen_*)   NoticeSink (MQTT)
//
// A sink failure never fails the run: Publish logs a warning and carries on
// with the next sink.
package report
