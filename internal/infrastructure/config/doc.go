// Package config handles loading and validating the settings of the
// configuration generator.
//
// This package manages:
//   - Loading settings from an optional YAML file
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Settings describe how the generator runs (where the configuration tree
// lives, where output goes, which sinks are enabled); the home itself is
// described by the configuration tree read by the inventory package.
//
// Security Considerations:
//   - Credentials (MQTT password, InfluxDB token) should be set via environment variables
//   - Secret tables should be age-encrypted at rest; the identity file needs mode 0600
//
// Usage:
//
//	cfg, err := config.Load("confgen.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Paths.ConfigDir)
package config
