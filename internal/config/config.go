package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rshade/nutriboard/internal/cache"
	"github.com/rshade/nutriboard/internal/logging"
	"github.com/rshade/nutriboard/internal/pagination"
)

// SchemaVersion is the config file format written by this build. Files whose
// major version differs are rejected.
const SchemaVersion = "1.0.0"

// Default values.
const (
	DefaultBaseURL     = "http://localhost:7071"
	DefaultTimeout     = 10 * time.Second
	DefaultDiet        = "all"
	DefaultClusters    = 3
	DefaultLogLevel    = "info"
	DefaultLogFormat   = logging.FormatConsole
	defaultConfigName  = "config.yaml"
	defaultCacheSubdir = "cache"
)

// Environment variables that override file values.
const (
	EnvHome        = "NUTRIBOARD_HOME"
	EnvAPIURL      = "NUTRIBOARD_API_URL"
	EnvFunctionKey = "NUTRIBOARD_FUNCTION_KEY"
	EnvLogLevel    = "NUTRIBOARD_LOG_LEVEL"
)

// Errors returned while loading configuration.
var (
	ErrIncompatibleSchema = errors.New("incompatible config schema version")
	ErrConfigExists       = errors.New("config file already exists")
)

// Config is the full nutriboard configuration.
type Config struct {
	SchemaVersion string        `yaml:"schema_version"`
	API           APIConfig     `yaml:"api"`
	View          ViewConfig    `yaml:"view"`
	Cache         CacheConfig   `yaml:"cache"`
	Logging       LoggingConfig `yaml:"logging"`

	// path is the file the config was loaded from, empty when only defaults apply.
	path string
}

// APIConfig points the client at the dashboard backend.
type APIConfig struct {
	BaseURL     string        `yaml:"base_url"               validate:"required,url"`
	FunctionKey string        `yaml:"function_key,omitempty"`
	Timeout     time.Duration `yaml:"timeout"                validate:"gte=0"`
}

// ViewConfig controls list rendering.
type ViewConfig struct {
	PageSize    int    `yaml:"page_size"    validate:"gte=1,lte=100"`
	WindowSize  int    `yaml:"window_size"  validate:"gte=1,lte=15"`
	DefaultDiet string `yaml:"default_diet" validate:"oneof=all vegan keto mediterranean paleo dash"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend"              validate:"oneof=file redis"`
	TTLSeconds int    `yaml:"ttl_seconds"          validate:"gte=1,lte=86400"`
	Directory  string `yaml:"directory,omitempty"`
	RedisAddr  string `yaml:"redis_addr,omitempty" validate:"required_if=Backend redis"`
}

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string `yaml:"level"          validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format"         validate:"oneof=console json"`
	File   string `yaml:"file,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	cacheDir := ""
	if dir, err := GetConfigDir(); err == nil {
		cacheDir = filepath.Join(dir, defaultCacheSubdir)
	}

	return &Config{
		SchemaVersion: SchemaVersion,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		View: ViewConfig{
			PageSize:    pagination.DefaultPageSize,
			WindowSize:  pagination.DefaultWindowSize,
			DefaultDiet: DefaultDiet,
		},
		Cache: CacheConfig{
			Enabled:    false,
			Backend:    cache.BackendFile,
			TTLSeconds: cache.DefaultTTLSeconds,
			Directory:  cacheDir,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. A missing file is not an error; an empty path means the
// default location.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
		cfg.path = path
		cfg.fillDefaults()
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	if err := cfg.CheckSchemaVersion(); err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores defaults for fields a replaced section left at zero.
func (c *Config) fillDefaults() {
	def := New()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.View.PageSize == 0 {
		c.View.PageSize = def.View.PageSize
	}
	if c.View.WindowSize == 0 {
		c.View.WindowSize = def.View.WindowSize
	}
	if c.View.DefaultDiet == "" {
		c.View.DefaultDiet = def.View.DefaultDiet
	}
	c.View.DefaultDiet = strings.ToLower(c.View.DefaultDiet)
	if c.Cache.Backend == "" {
		c.Cache.Backend = def.Cache.Backend
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = def.Cache.TTLSeconds
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = def.Cache.Directory
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// CheckSchemaVersion rejects files written for a different major version.
// An absent version is treated as current.
func (c *Config) CheckSchemaVersion() error {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SchemaVersion
		return nil
	}

	fileVersion, err := semver.NewVersion(c.SchemaVersion)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrIncompatibleSchema, c.SchemaVersion)
	}
	current := semver.MustParse(SchemaVersion)
	if fileVersion.Major() != current.Major() {
		return fmt.Errorf("%w: file is %s, this build reads %d.x",
			ErrIncompatibleSchema, fileVersion, current.Major())
	}
	return nil
}

// ApplyEnvOverrides applies NUTRIBOARD_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvFunctionKey); v != "" {
		c.API.FunctionKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	c.Cache.TTLSeconds = cache.GetTTLFromEnv(c.Cache.TTLSeconds)
	c.Cache.Enabled = cache.GetCacheEnabledFromEnv(c.Cache.Enabled)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// CacheOptions converts the cache section for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Enabled:    c.Cache.Enabled,
		Backend:    c.Cache.Backend,
		TTLSeconds: c.Cache.TTLSeconds,
		Directory:  c.Cache.Directory,
		RedisAddr:  c.Cache.RedisAddr,
	}
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if mkErr := os.MkdirAll(filepath.Dir(path), 0o700); mkErr != nil {
		return fmt.Errorf("creating config directory: %w", mkErr)
	}

	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", path, writeErr)
	}
	c.path = path
	return nil
}

// Init writes a default config file to path. It refuses to overwrite an
// existing file unless force is set.
func Init(path string, force bool) (*Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	cfg := New()
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	return cfg, nil
}
