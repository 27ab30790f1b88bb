package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/dst-clock/internal/logger"
)

// Config holds the settings of the dst-clock binaries.
type Config struct {
	// NTPServer is the host queried for network time.
	NTPServer string `yaml:"ntp_server"`
	// NTPTimeout bounds a single NTP query.
	NTPTimeout time.Duration `yaml:"ntp_timeout"`
	// SyncInterval is the minimum time between two NTP queries.
	SyncInterval time.Duration `yaml:"sync_interval"`
	// SyncRetryInterval is the minimum time between a failed NTP query and the next.
	SyncRetryInterval time.Duration `yaml:"sync_retry_interval"`
	// RenderInterval is the display refresh period, one loop iteration.
	RenderInterval time.Duration `yaml:"render_interval"`
	// ReconcileEvery is the number of loop iterations between DST checks.
	ReconcileEvery int `yaml:"reconcile_every"`
	// Display selects the display sink: console or terminal.
	Display string `yaml:"display"`
	// RuleSource selects where transition days come from: computed or table.
	RuleSource string `yaml:"rule_source"`
	// ReconcilePolicy selects how the offset is decided: exact or local.
	ReconcilePolicy string `yaml:"reconcile_policy"`
	// StatusAddress is the gRPC status listen address; empty disables it.
	StatusAddress string `yaml:"status_addr"`
	// MetricsAddress is the HTTP metrics listen address; empty disables it.
	MetricsAddress string `yaml:"metrics_addr"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
	// LogFile receives logs while the terminal display owns stdout.
	LogFile string `yaml:"log_file"`
	// Timeout bounds status RPC calls made by clients.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "dst-clock-settings.yaml"
	// DefaultNTPServer is the NTP pool the device firmware used.
	DefaultNTPServer = "pool.ntp.org"
	// DefaultNTPTimeout bounds a single NTP query.
	DefaultNTPTimeout = 5 * time.Second
	// DefaultSyncInterval matches the 60s update interval of the device.
	DefaultSyncInterval = 60 * time.Second
	// DefaultSyncRetryInterval spaces queries to an unreachable server.
	DefaultSyncRetryInterval = 10 * time.Second
	// DefaultRenderInterval refreshes the display once per second.
	DefaultRenderInterval = time.Second
	// DefaultReconcileEvery checks the DST rule once a minute at the default render interval.
	DefaultReconcileEvery = 60
	// DefaultStatusAddress is where the status gRPC API listens.
	DefaultStatusAddress = "127.0.0.1:50061"
	// DefaultMetricsAddress is where /metrics, /healthz and /readyz are served.
	DefaultMetricsAddress = ":9161"
	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"
	// DefaultLogFile receives logs in terminal display mode.
	DefaultLogFile = "dst-clock.log"
	// DefaultTimeout bounds status RPC calls.
	DefaultTimeout = 5 * time.Second
	// DefaultFilePermissions is the permission used for written files.
	DefaultFilePermissions = 0o600
)

// Display sinks.
const (
	DisplayConsole  = "console"
	DisplayTerminal = "terminal"
)

// Transition-day sources.
const (
	RuleSourceComputed = "computed"
	RuleSourceTable    = "table"
)

// Reconciliation policies.
const (
	// ReconcileExact decides from the UTC transition instants.
	ReconcileExact = "exact"
	// ReconcileLocal decides from local calendar fields built with the applied offset.
	ReconcileLocal = "local"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNTPServerRequired is returned when the NTP server is blank after defaults.
	errNTPServerRequired = errors.New("ntp server must be provided")
	// errInvalidChoice is wrapped by enum validation failures.
	errInvalidChoice = errors.New("invalid value")
	// errInvalidLogLevel is returned for unknown log levels.
	errInvalidLogLevel = errors.New("invalid log level")
)

// Default returns a configuration with every default applied and both
// servers enabled.
func Default() *Config {
	cfg := &Config{
		StatusAddress:  DefaultStatusAddress,
		MetricsAddress: DefaultMetricsAddress,
	}

	// Defaults alone always validate.
	_ = Validate(cfg)

	return cfg
}

// LoadOrDefault loads path, or returns Default when the file does not exist.
// The boolean reports whether the file was read.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return cfg, true, nil
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks enums and addresses.
//
//nolint:cyclop // A flat list of field checks.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	applyDefaults(settings)

	if settings.NTPServer == "" {
		return errNTPServerRequired
	}

	if err := oneOf("display", settings.Display, DisplayConsole, DisplayTerminal); err != nil {
		return err
	}

	if err := oneOf("rule_source", settings.RuleSource, RuleSourceComputed, RuleSourceTable); err != nil {
		return err
	}

	if err := oneOf("reconcile_policy", settings.ReconcilePolicy, ReconcileExact, ReconcileLocal); err != nil {
		return err
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, settings.LogLevel)
	}

	if settings.StatusAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.StatusAddress); err != nil {
			return fmt.Errorf("invalid status address: %w", err)
		}
	}

	if settings.MetricsAddress != "" {
		if _, _, err := net.SplitHostPort(settings.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	return nil
}

// applyDefaults sets every zero optional field to its default.
func applyDefaults(settings *Config) {
	if settings.NTPServer == "" {
		settings.NTPServer = DefaultNTPServer
	}

	if settings.NTPTimeout <= 0 {
		settings.NTPTimeout = DefaultNTPTimeout
	}

	if settings.SyncInterval <= 0 {
		settings.SyncInterval = DefaultSyncInterval
	}

	if settings.SyncRetryInterval <= 0 {
		settings.SyncRetryInterval = DefaultSyncRetryInterval
	}

	if settings.RenderInterval <= 0 {
		settings.RenderInterval = DefaultRenderInterval
	}

	if settings.ReconcileEvery <= 0 {
		settings.ReconcileEvery = DefaultReconcileEvery
	}

	if settings.Display == "" {
		settings.Display = DisplayConsole
	}

	if settings.RuleSource == "" {
		settings.RuleSource = RuleSourceComputed
	}

	if settings.ReconcilePolicy == "" {
		settings.ReconcilePolicy = ReconcileExact
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.LogFile == "" {
		settings.LogFile = DefaultLogFile
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
}

// oneOf checks that value is one of allowed.
func oneOf(field, value string, allowed ...string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}

	return fmt.Errorf("%w for %s: %q (allowed: %v)", errInvalidChoice, field, value, allowed)
}
