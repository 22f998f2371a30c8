package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root settings structure of the configuration generator.
// Settings are loaded from an optional YAML file and can be overridden by
// environment variables and command-line flags.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Paths      PathsConfig      `yaml:"paths"`
	Secrets    SecretsConfig    `yaml:"secrets"`
	Generation GenerationConfig `yaml:"generation"`
	Database   DatabaseConfig   `yaml:"database"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SiteConfig names the installation the artifacts are generated for.
type SiteConfig struct {
	Name string `yaml:"name"`
}

// PathsConfig contains the input and output locations.
type PathsConfig struct {
	ConfigDir string `yaml:"config_dir"`
	OutputDir string `yaml:"output_dir"`
}

// SecretsConfig contains secret table settings.
type SecretsConfig struct {
	// File is the secret table. Relative paths are resolved against the
	// config dir. Files ending in ".age" are decrypted with IdentityFile.
	File string `yaml:"file"`

	// IdentityFile is an age identity file for encrypted tables.
	IdentityFile string `yaml:"identity_file"`

	// AllowUnresolved writes artifacts even when secrets are missing, for
	// inspection. The run still fails.
	AllowUnresolved bool `yaml:"allow_unresolved"`
}

// GenerationConfig contains generator settings.
type GenerationConfig struct {
	// CheckOnly resolves structure without reading secrets or writing output.
	CheckOnly bool `yaml:"check_only"`
}

// DatabaseConfig contains SQLite snapshot settings.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker settings for the regeneration notice.
type MQTTConfig struct {
	Enabled bool             `yaml:"enabled"`
	Broker  MQTTBrokerConfig `yaml:"broker"`
	Auth    MQTTAuthConfig   `yaml:"auth"`
	QoS     int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB settings for run statistics.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// MetricsConfig contains Prometheus textfile settings.
type MetricsConfig struct {
	// TextfilePath is where run gauges are written for node_exporter's
	// textfile collector. Empty disables the textfile.
	TextfilePath string `yaml:"textfile_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads settings from a YAML file and applies environment variable overrides.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults); skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern GRAYLOGIC_CONFGEN_SECTION_KEY,
// e.g. GRAYLOGIC_CONFGEN_SECRETS_FILE. Credentials shared with the rest of
// the installation use GRAYLOGIC_MQTT_PASSWORD and GRAYLOGIC_INFLUXDB_TOKEN.
//
// Parameters:
//   - path: Path to the YAML settings file, or "" for defaults
//
// Returns:
//   - *Config: Loaded and validated settings
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns the default settings with environment overrides applied,
// without validation.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name: "Home",
		},
		Paths: PathsConfig{
			ConfigDir: "./config",
			OutputDir: "./generated",
		},
		Secrets: SecretsConfig{
			File: "secrets.csv",
		},
		Database: DatabaseConfig{
			Path:        "./data/confgen.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "graylogic-confgen",
			},
			QoS: 1,
		},
		InfluxDB: InfluxDBConfig{
			URL:    "http://localhost:8086",
			Org:    "graylogic",
			Bucket: "confgen",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the settings.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAYLOGIC_CONFGEN_SITE_NAME"); v != "" {
		cfg.Site.Name = v
	}
	if v := os.Getenv("GRAYLOGIC_CONFGEN_CONFIG_DIR"); v != "" {
		cfg.Paths.ConfigDir = v
	}
	if v := os.Getenv("GRAYLOGIC_CONFGEN_OUTPUT_DIR"); v != "" {
		cfg.Paths.OutputDir = v
	}

	// Secrets
	if v := os.Getenv("GRAYLOGIC_CONFGEN_SECRETS_FILE"); v != "" {
		cfg.Secrets.File = v
	}
	if v := os.Getenv("GRAYLOGIC_CONFGEN_AGE_IDENTITY"); v != "" {
		cfg.Secrets.IdentityFile = v
	}

	// Database
	if v := os.Getenv("GRAYLOGIC_CONFGEN_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("GRAYLOGIC_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GRAYLOGIC_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GRAYLOGIC_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("GRAYLOGIC_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("GRAYLOGIC_CONFGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the settings for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Site.Name) == "" {
		errs = append(errs, "site.name is required")
	}
	if c.Paths.ConfigDir == "" {
		errs = append(errs, "paths.config_dir is required")
	}
	if c.Paths.OutputDir == "" && !c.Generation.CheckOnly {
		errs = append(errs, "paths.output_dir is required")
	}
	if strings.HasSuffix(c.Secrets.File, ".age") && c.Secrets.IdentityFile == "" && !c.Generation.CheckOnly {
		errs = append(errs, "secrets.identity_file is required for an encrypted secrets.file")
	}

	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database is enabled")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, "logging.format must be json or text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SecretsPath returns the secret table path, resolved against the config dir
// when relative.
func (c *Config) SecretsPath() string {
	if c.Secrets.File == "" || filepath.IsAbs(c.Secrets.File) {
		return c.Secrets.File
	}
	return filepath.Join(c.Paths.ConfigDir, c.Secrets.File)
}
