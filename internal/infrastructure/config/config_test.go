package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  name: "Lakeside"
paths:
  config_dir: "/srv/home/config"
  output_dir: "/srv/openhab/conf"
secrets:
  file: "secrets.csv.age"
  identity_file: "/root/.age/key.txt"
database:
  enabled: true
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "confgen.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.Name != "Lakeside" {
		t.Errorf("Site.Name = %q, want %q", cfg.Site.Name, "Lakeside")
	}
	if cfg.Paths.OutputDir != "/srv/openhab/conf" {
		t.Errorf("Paths.OutputDir = %q, want %q", cfg.Paths.OutputDir, "/srv/openhab/conf")
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if got, want := cfg.SecretsPath(), "/srv/home/config/secrets.csv.age"; got != want {
		t.Errorf("SecretsPath() = %q, want %q", got, want)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Site.Name != "Home" {
		t.Errorf("Site.Name = %q, want %q", cfg.Site.Name, "Home")
	}
	if cfg.Secrets.File != "secrets.csv" {
		t.Errorf("Secrets.File = %q, want %q", cfg.Secrets.File, "secrets.csv")
	}
	if cfg.Database.Enabled || cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("sinks should be disabled by default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/confgen.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "confgen.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
site:
  name: ""
mqtt:
  qos: 5
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "confgen.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}
	for _, want := range []string{"configuration errors: ", "site.name is required", "mqtt.qos must be 0, 1, or 2"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err, want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFGEN_SITE_NAME", "Env Site")
	t.Setenv("GRAYLOGIC_CONFGEN_SECRETS_FILE", "/run/secrets/home.csv")
	t.Setenv("GRAYLOGIC_MQTT_PASSWORD", "s3cret")
	t.Setenv("GRAYLOGIC_INFLUXDB_TOKEN", "tok")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.Name != "Env Site" {
		t.Errorf("Site.Name = %q, want %q", cfg.Site.Name, "Env Site")
	}
	if cfg.SecretsPath() != "/run/secrets/home.csv" {
		t.Errorf("SecretsPath() = %q, want absolute override", cfg.SecretsPath())
	}
	if cfg.MQTT.Auth.Password != "s3cret" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "s3cret")
	}
	if cfg.InfluxDB.Token != "tok" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "tok")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "encrypted table without identity",
			modify:  func(c *Config) { c.Secrets.File = "secrets.csv.age" },
			wantErr: "secrets.identity_file is required",
		},
		{
			name: "encrypted table in check-only mode",
			modify: func(c *Config) {
				c.Secrets.File = "secrets.csv.age"
				c.Generation.CheckOnly = true
			},
		},
		{
			name: "database enabled without path",
			modify: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Path = ""
			},
			wantErr: "database.path is required",
		},
		{
			name: "mqtt invalid port",
			modify: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.Broker.Port = 0
			},
			wantErr: "mqtt.broker.port must be between 1 and 65535",
		},
		{
			name: "influxdb enabled without bucket",
			modify: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Bucket = ""
			},
			wantErr: "influxdb.bucket is required",
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format must be json or text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
