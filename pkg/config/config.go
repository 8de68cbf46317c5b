// Package config loads the engine's one-shot Config value, in ascending
// precedence: built-in defaults, an optional YAML file, environment
// variables, then CLI flags (SPEC_FULL.md §10).
//
// Grounded on the teacher's pkg/config.Config for the overall idea of a
// central configuration object, but replaced from that package's
// live-reloadable map[string]string (meant for a long-running mesh service
// with restart-key tracking) to a typed, one-shot value appropriate for a
// single CLI invocation — see DESIGN.md for the justification. YAML parsing
// reuses gopkg.in/yaml.v3, the same library the teacher's unifiedmodel
// service already depends on.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// keyringService names the OS keyring service entry this package reads the
// document-store credential from, when present.
const keyringService = "schemascope"

// Config is the fully resolved, one-shot configuration for a single engine
// run.
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	Credential string `yaml:"credential"`

	Databases  []string `yaml:"databases"`
	SampleSize int      `yaml:"sample_size"`

	OutputDir string `yaml:"output_dir"`
	CacheDir  string `yaml:"cache_dir"`
	Format    string `yaml:"format"`

	Validate       bool          `yaml:"validate"`
	CollabTimeout  time.Duration `yaml:"collaborator_timeout"`
	Parallelism    int           `yaml:"parallelism"`
	WatchInterval  time.Duration `yaml:"watch_interval"`
	WatchStatusPort int          `yaml:"watch_status_port"`

	EnumDetection   bool               `yaml:"enum_detection"`
	CustomPatterns  map[string]string  `yaml:"custom_patterns"`
	CustomOrder     []string           `yaml:"custom_patterns_order"`
}

// Defaults returns the built-in baseline configuration, the lowest
// precedence layer.
func Defaults() Config {
	return Config{
		SampleSize:      100,
		OutputDir:       ".",
		CacheDir:        ".cosmoscache",
		Format:          "markdown",
		Validate:        true,
		CollabTimeout:   10 * time.Second,
		Parallelism:     runtime.NumCPU(),
		WatchInterval:   5 * time.Minute,
		WatchStatusPort: 8090,
		EnumDetection:   false,
	}
}

// Load resolves a Config from defaults, an optional YAML file at path (skip
// if path is empty or the file does not exist), then environment
// variables. CLI flags are applied afterward by the caller (applyFlags in
// cmd/schemascope), since the flag set is owned by cmd/schemascope.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	resolveCredential(&cfg)

	if err := cfg.Validate_(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SCHEMASCOPE_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("SCHEMASCOPE_CREDENTIAL"); v != "" {
		cfg.Credential = v
	}
	if v := os.Getenv("DATABASES"); v != "" {
		cfg.Databases = strings.Split(v, ",")
	}
	if v := os.Getenv("SAMPLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SampleSize = n
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("VALIDATE_RELATIONSHIPS"); v != "" {
		cfg.Validate = v == "1" || strings.EqualFold(v, "true")
	}
}

// resolveCredential consults the OS keyring before falling back to whatever
// the env/file layers already set, letting an operator keep the
// document-store credential out of shell history and config files on disk.
func resolveCredential(cfg *Config) {
	secret, err := keyring.Get(keyringService, "default")
	if err == nil && secret != "" {
		cfg.Credential = secret
	}
}

// Validate_ checks the resolved configuration for the fail-fast conditions
// in SPEC_FULL.md §7 ("Configuration error"). Named with a trailing
// underscore to avoid colliding with the Validate field above.
func (c Config) Validate_() error {
	if c.Endpoint == "" {
		return &model.ConfigError{Field: "endpoint", Reason: "missing document-store endpoint"}
	}
	if c.SampleSize <= 0 {
		return &model.ConfigError{Field: "sample_size", Reason: "must be a positive integer"}
	}
	switch c.Format {
	case "markdown", "json", "mermaid":
	default:
		return &model.ConfigError{Field: "format", Reason: fmt.Sprintf("unknown output format %q", c.Format)}
	}
	return nil
}
