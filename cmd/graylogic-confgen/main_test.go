package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/secrets"
)

const bridgesYAML = `
bridges:
  hub1:
    name: Coordinator
    typed: zigbee
    thing:
      thinguid: coord
`

const locationsYAML = `
locations:
  - name: Kitchen
    typed: room
    equipment:
      - name: Lamp
        typed: lightbulb
        points:
          onoff: state
        thing:
          bridge: hub1
          thingtype: lamp
          secrets: [apikey]
          properties:
            key: "{apikey}"
`

// writeTree creates a configuration tree and returns its directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	return dir
}

func baseTree(t *testing.T, withSecrets bool) string {
	t.Helper()
	files := map[string]string{
		"bridges/zigbee.yaml":    bridgesYAML,
		"locations/kitchen.yaml": locationsYAML,
	}
	if withSecrets {
		files["secrets.csv"] = "key,value\nzigbee_lightbulb_kitchenlamp_apikey,k3y\n"
	}
	return writeTree(t, files)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GRAYLOGIC_CONFGEN_SETTINGS", "")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(stdout, "graylogic-confgen dev") {
		t.Errorf("stdout = %q, want version line", stdout)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--no-such-flag"}},
		{"positional argument", []string{"extra"}},
		{"invalid log format", []string{"--log-format", "xml"}},
		{"missing settings file", []string{"--settings", "/nonexistent/confgen.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if got := exitCode(err); got != ExitUsage {
				t.Errorf("exitCode = %d, want %d (err = %v)", got, ExitUsage, err)
			}
		})
	}
}

func TestRun_Success(t *testing.T) {
	cfgDir := baseTree(t, true)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := runCLI(t, "--name", "My Home", "--config-dir", cfgDir, "--output-dir", outDir)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	things := readFile(t, filepath.Join(outDir, "things", "myhome.things"))
	if !strings.Contains(things, `key="k3y"`) {
		t.Errorf("things file does not contain resolved secret:\n%s", things)
	}
	items := readFile(t, filepath.Join(outDir, "items", "myhome.items"))
	if !strings.Contains(items, "zigbee:lamp:coord:KitchenLamp:state") {
		t.Errorf("items file does not link the lamp channel:\n%s", items)
	}
	if _, err := os.Stat(filepath.Join(outDir, "manifest.json")); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
	if !strings.Contains(stdout, "My Home: 3 files (3 written") {
		t.Errorf("stdout = %q", stdout)
	}

	// A second run leaves identical files untouched.
	stdout, _, err = runCLI(t, "--name", "My Home", "--config-dir", cfgDir, "--output-dir", outDir)
	if err != nil {
		t.Fatalf("second run() error = %v", err)
	}
	if !strings.Contains(stdout, "(0 written, 3 unchanged") {
		t.Errorf("second stdout = %q", stdout)
	}
}

func TestRun_MissingSecretsWritesNothing(t *testing.T) {
	cfgDir := baseTree(t, false)
	outDir := filepath.Join(t.TempDir(), "out")

	_, stderr, err := runCLI(t, "--config-dir", cfgDir, "--output-dir", outDir)
	if got := exitCode(err); got != ExitUnresolved {
		t.Fatalf("exitCode = %d, want %d (err = %v)", got, ExitUnresolved, err)
	}
	if !errors.Is(err, secrets.ErrMissing) {
		t.Errorf("error %v does not wrap secrets.ErrMissing", err)
	}
	if !strings.Contains(stderr, "zigbee_lightbulb_kitchenlamp_apikey") {
		t.Errorf("missing key not logged:\n%s", stderr)
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Errorf("output dir should not exist, stat error = %v", statErr)
	}
}

func TestRun_AllowUnresolvedSecrets(t *testing.T) {
	cfgDir := baseTree(t, false)
	outDir := filepath.Join(t.TempDir(), "out")

	_, _, err := runCLI(t, "--config-dir", cfgDir, "--output-dir", outDir, "--allow-unresolved-secrets")
	if got := exitCode(err); got != ExitUnresolved {
		t.Fatalf("exitCode = %d, want %d (err = %v)", got, ExitUnresolved, err)
	}

	things := readFile(t, filepath.Join(outDir, "things", "home.things"))
	if !strings.Contains(things, "__ZIGBEE_LIGHTBULB_KITCHENLAMP_APIKEY__") {
		t.Errorf("sentinel missing from things file:\n%s", things)
	}
}

func TestRun_CheckOnly(t *testing.T) {
	cfgDir := baseTree(t, false)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := runCLI(t, "--config-dir", cfgDir, "--output-dir", outDir, "--check-only")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout, "structure OK") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Errorf("check-only run wrote output, stat error = %v", statErr)
	}
}

func TestRun_ConfigurationError(t *testing.T) {
	cfgDir := writeTree(t, map[string]string{
		"bridges/zigbee.yaml": bridgesYAML,
		"locations/kitchen.yaml": `
locations:
  - name: Kitchen
    typed: room
    equipment:
      - name: Lamp
        typed: lightbulb
        thing: {bridge: nope, thingtype: lamp}
`,
	})

	_, _, err := runCLI(t, "--config-dir", cfgDir, "--output-dir", t.TempDir())
	if got := exitCode(err); got != ExitError {
		t.Fatalf("exitCode = %d, want %d (err = %v)", got, ExitError, err)
	}
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error %v is not a ConfigurationError", err)
	}
	if !errors.Is(err, model.ErrUnknownBridge) {
		t.Errorf("error %v does not wrap ErrUnknownBridge", err)
	}
}

func TestRun_SettingsFileWithSinks(t *testing.T) {
	cfgDir := baseTree(t, true)
	work := t.TempDir()
	dbPath := filepath.Join(work, "data", "confgen.db")
	promPath := filepath.Join(work, "textfile", "confgen.prom")
	settings := filepath.Join(work, "confgen.yaml")

	content := "site:\n  name: Lakeside\n" +
		"paths:\n  config_dir: " + cfgDir + "\n  output_dir: " + filepath.Join(work, "out") + "\n" +
		"database:\n  enabled: true\n  path: " + dbPath + "\n  wal_mode: true\n  busy_timeout: 5\n" +
		"metrics:\n  textfile_path: " + promPath + "\n" +
		"logging:\n  level: debug\n  format: json\n"
	if err := os.WriteFile(settings, []byte(content), 0o600); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	_, stderr, err := runCLI(t, "--settings", settings)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, stderr)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("snapshot database not created: %v", err)
	}
	prom := readFile(t, promPath)
	if !strings.Contains(prom, `graylogic_confgen_things{site="Lakeside"} 2`) {
		t.Errorf("textfile = %q", prom)
	}
	if !strings.Contains(stderr, `"service":"graylogic-confgen"`) {
		t.Errorf("expected JSON logs on stderr, got:\n%s", stderr)
	}
	if strings.Contains(stderr, "report sink failed") {
		t.Errorf("a sink failed:\n%s", stderr)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != ExitOK {
		t.Errorf("exitCode(nil) = %d", got)
	}
	if got := exitCode(errors.New("plain")); got != ExitError {
		t.Errorf("exitCode(plain) = %d", got)
	}
	wrapped := &CLIError{Code: ExitUnresolved, Message: "m", Err: errors.New("inner")}
	if got := exitCode(wrapped); got != ExitUnresolved {
		t.Errorf("exitCode(CLIError) = %d", got)
	}
	if wrapped.Error() != "m: inner" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
