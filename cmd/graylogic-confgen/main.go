// Gray Logic Configuration Generator
//
// graylogic-confgen reads a home described as a tree of YAML/JSON documents
// (bridges, equipment templates, locations, persons) plus a secret table,
// resolves it into a validated model and writes openHAB things, items and
// sitemap files from it.
//
// A run is a single batch pass: it never talks to devices. Exit codes:
//
//	0  success
//	1  configuration or resolution error
//	2  usage or settings error
//	3  secrets left unresolved
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/nerrad567/gray-logic-confgen/internal/generator"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/report"
	"github.com/nerrad567/gray-logic-confgen/internal/resolver"
	"github.com/nerrad567/gray-logic-confgen/internal/secrets"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitUsage      = 2
	ExitUnresolved = 3
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	cancel()
	os.Exit(exitCode(err))
}

// CLIError carries the exit status of a failed run.
type CLIError struct {
	Code    int
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CLIError) Unwrap() error { return e.Err }

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *CLIError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ExitError
}

func usageError(err error) error {
	return &CLIError{Code: ExitUsage, Err: err}
}

// options holds the parsed command line.
type options struct {
	settings        string
	name            string
	configDir       string
	outputDir       string
	secretsFile     string
	identityFile    string
	checkOnly       bool
	allowUnresolved bool
	logLevel        string
	logFormat       string
	showVersion     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fl := pflag.NewFlagSet("graylogic-confgen", pflag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.StringVar(&opts.settings, "settings", os.Getenv("GRAYLOGIC_CONFGEN_SETTINGS"), "path to the generator settings file (YAML)")
	fl.StringVarP(&opts.name, "name", "n", "", "site name used in file names and titles")
	fl.StringVarP(&opts.configDir, "config-dir", "c", "", "directory holding bridges/, templates/, locations/ and persons/")
	fl.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory the generated files are written to")
	fl.StringVar(&opts.secretsFile, "secrets", "", "secret table (CSV, or age-encrypted CSV ending in .age)")
	fl.StringVar(&opts.identityFile, "identity", "", "age identity file for an encrypted secret table")
	fl.BoolVar(&opts.checkOnly, "check-only", false, "resolve structure only; read no secrets and write nothing")
	fl.BoolVar(&opts.allowUnresolved, "allow-unresolved-secrets", false, "write files even when secrets are missing (exit status stays 3)")
	fl.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fl.StringVar(&opts.logFormat, "log-format", "", "log format: text, json")
	fl.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fl.Parse(args); err != nil {
		return nil, fl, err
	}
	if fl.NArg() > 0 {
		return nil, fl, fmt.Errorf("unexpected arguments: %v", fl.Args())
	}
	return opts, fl, nil
}

// applyFlags overrides settings with the flags given on the command line.
func applyFlags(cfg *config.Config, opts *options, fl *pflag.FlagSet) {
	if fl.Changed("name") {
		cfg.Site.Name = opts.name
	}
	if fl.Changed("config-dir") {
		cfg.Paths.ConfigDir = opts.configDir
	}
	if fl.Changed("output-dir") {
		cfg.Paths.OutputDir = opts.outputDir
	}
	if fl.Changed("secrets") {
		cfg.Secrets.File = opts.secretsFile
	}
	if fl.Changed("identity") {
		cfg.Secrets.IdentityFile = opts.identityFile
	}
	if fl.Changed("check-only") {
		cfg.Generation.CheckOnly = opts.checkOnly
	}
	if fl.Changed("allow-unresolved-secrets") {
		cfg.Secrets.AllowUnresolved = opts.allowUnresolved
	}
	if fl.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if fl.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
}

// loadSettings reads the settings file (if any) and layers the flags on top.
func loadSettings(opts *options, fl *pflag.FlagSet) (*config.Config, error) {
	var cfg *config.Config
	if opts.settings != "" {
		loaded, err := config.Load(opts.settings)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	applyFlags(cfg, opts, fl)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run is the application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation
//   - args: Command-line arguments without the program name
//   - stdout: Receives the run summary
//   - stderr: Receives log output and usage
//
// Returns:
//   - error: nil on success, *CLIError carrying the exit status otherwise
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fl, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return usageError(err)
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "graylogic-confgen %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	cfg, err := loadSettings(opts, fl)
	if err != nil {
		return usageError(fmt.Errorf("loading settings: %w", err))
	}

	log := logging.NewWithWriter(cfg.Logging, version, stderr)
	runID := uuid.NewString()
	started := time.Now()
	log.Info("starting configuration generator",
		"run_id", runID,
		"site", cfg.Site.Name,
		"config_dir", cfg.Paths.ConfigDir,
		"check_only", cfg.Generation.CheckOnly,
	)

	store, err := openSecrets(cfg, log)
	if err != nil {
		return &CLIError{Code: ExitError, Message: "loading secrets", Err: err}
	}

	docs, err := inventory.Load(cfg.Paths.ConfigDir)
	if err != nil {
		return &CLIError{Code: ExitError, Message: "reading configuration", Err: err}
	}
	log.Debug("configuration documents loaded", "documents", docs.Len())

	res, err := resolver.New(resolver.Options{
		Registries: model.DefaultRegistries(),
		Secrets:    store,
		Logger:     log.With("component", "resolver"),
	}).Resolve(docs)
	if err != nil {
		return &CLIError{Code: ExitError, Err: err}
	}

	if cfg.Generation.CheckOnly {
		fmt.Fprintf(stdout, "%s: structure OK (%d locations, %d bridges, %d equipment)\n",
			cfg.Site.Name, len(res.Model.AllLocations()), len(res.Model.Bridges()), len(res.Model.Equipment()))
		return nil
	}

	missingErr := res.Err()
	for _, key := range res.MissingSecrets {
		log.Warn("secret not resolved", "key", key)
	}
	if missingErr != nil && !cfg.Secrets.AllowUnresolved {
		return &CLIError{Code: ExitUnresolved, Message: "no files written", Err: missingErr}
	}

	in := &generator.Input{Name: cfg.Site.Name, Model: res.Model}
	artifacts, err := generator.DefaultPipeline().Run(ctx, in)
	if err != nil {
		return &CLIError{Code: ExitError, Message: "generating files", Err: err}
	}
	written, err := generator.Write(cfg.Paths.OutputDir, runID, cfg.Site.Name, artifacts)
	if err != nil {
		return &CLIError{Code: ExitError, Message: "writing files", Err: err}
	}
	log.Info("files written",
		"output_dir", cfg.Paths.OutputDir,
		"written", written.Written,
		"unchanged", written.Unchanged,
		"removed", written.Removed,
	)

	st, err := report.Compute(report.Run{
		ID:             runID,
		Name:           cfg.Site.Name,
		MissingSecrets: len(res.MissingSecrets),
		Artifacts:      len(artifacts),
		Started:        started,
	}, res.Model)
	if err != nil {
		return &CLIError{Code: ExitError, Err: err}
	}

	sinks, closeSinks := openSinks(ctx, cfg, res.Model, log)
	report.Publish(ctx, log, st, sinks...)
	closeSinks()

	fmt.Fprintf(stdout, "%s: %d files (%d written, %d unchanged, %d removed), %d things, %d channels in %s\n",
		cfg.Site.Name, len(artifacts), written.Written, written.Unchanged, written.Removed,
		st.Things, st.Channels, cfg.Paths.OutputDir)

	if missingErr != nil {
		return &CLIError{Code: ExitUnresolved, Message: "files contain unresolved secrets", Err: missingErr}
	}
	return nil
}

// openSecrets returns the secret store for the run. A missing secret table
// is not an error: every requested secret is then reported as missing.
func openSecrets(cfg *config.Config, log *logging.Logger) (*secrets.Store, error) {
	if cfg.Generation.CheckOnly {
		return secrets.NewStructureOnlyStore(), nil
	}

	path := cfg.SecretsPath()
	if path == "" {
		return secrets.NewStore(nil), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Warn("secret table not found", "path", path)
		return secrets.NewStore(nil), nil
	}
	values, err := secrets.LoadFile(path, cfg.Secrets.IdentityFile)
	if err != nil {
		return nil, err
	}
	log.Debug("secret table loaded", "path", path, "entries", len(values))
	return secrets.NewStore(values), nil
}
