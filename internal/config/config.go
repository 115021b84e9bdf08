// Package config handles site configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFile marks the root of a site.
	ConfigFile = "folio.yml"
	// EnvFile holds per-site environment overrides.
	EnvFile = ".env"

	DefaultOutputDir    = "_includes/folio"
	DefaultPapersFile   = "papers.md"
	DefaultTalksFile    = "talk.bib"
	DefaultCVFile       = "cv.yml"
	DefaultContactFile  = "contactinfo.yaml"
	DefaultSnapshotFile = "publications.json"
	DefaultCachePath    = ".folio/cache.db"
	DefaultInspireURL   = "https://inspirehep.net/api"
	DefaultStrategy     = "batched"
	DefaultBatchSize    = 5
	DefaultBatchDelay   = time.Second
	DefaultPageSize     = 100
	DefaultRateLimit    = 3.0
	DefaultDebounce     = 300 * time.Millisecond
)

// Environment variables that override file settings.
const (
	EnvInspireURL = "FOLIO_INSPIRE_URL"
	EnvStrategy   = "FOLIO_STRATEGY"
	EnvOutputDir  = "FOLIO_OUTPUT_DIR"
)

// ErrNotSite is returned when no folio.yml is found.
var ErrNotSite = errors.New("not in a folio site (no folio.yml found)")

// Config is the site configuration stored in folio.yml.
type Config struct {
	// Source is a directory (relative to the site root) or an http(s) base
	// URL holding the input documents.
	Source       string `yaml:"source,omitempty"`
	OutputDir    string `yaml:"output_dir" validate:"required"`
	PapersFile   string `yaml:"papers_file" validate:"required"`
	TalksFile    string `yaml:"talks_file" validate:"required"`
	CVFile       string `yaml:"cv_file,omitempty"`
	ContactFile  string `yaml:"contact_file,omitempty"`
	SnapshotFile string `yaml:"snapshot_file,omitempty"`
	CachePath    string `yaml:"cache_path,omitempty"`

	// ReferencePattern is the literal text preceding an identifier.
	ReferencePattern string `yaml:"reference_pattern,omitempty"`
	DedupeReferences bool   `yaml:"dedupe_references,omitempty"`
	// SelfNames lists spellings of the site owner's name.
	SelfNames []string `yaml:"self_names,omitempty"`

	Inspire  InspireConfig  `yaml:"inspire"`
	Snapshot SnapshotConfig `yaml:"snapshot,omitempty"`
	Watch    WatchConfig    `yaml:"watch,omitempty"`
}

// InspireConfig configures the metadata lookup.
type InspireConfig struct {
	BaseURL    string        `yaml:"base_url" validate:"required,url"`
	Strategy   string        `yaml:"strategy" validate:"oneof=batched query"`
	BatchSize  int           `yaml:"batch_size" validate:"min=1,max=50"`
	BatchDelay time.Duration `yaml:"batch_delay"`
	PageSize   int           `yaml:"page_size" validate:"min=1,max=100"`
	RateLimit  float64       `yaml:"rate_limit" validate:"min=0"`
	UserAgent  string        `yaml:"user_agent,omitempty"`
}

// SnapshotConfig configures the static snapshot producer.
type SnapshotConfig struct {
	IDs []string `yaml:"ids,omitempty" validate:"omitempty,dive,numeric"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	setDefault(&c.OutputDir, DefaultOutputDir)
	setDefault(&c.PapersFile, DefaultPapersFile)
	setDefault(&c.TalksFile, DefaultTalksFile)
	setDefault(&c.CVFile, DefaultCVFile)
	setDefault(&c.ContactFile, DefaultContactFile)
	setDefault(&c.SnapshotFile, DefaultSnapshotFile)
	setDefault(&c.CachePath, DefaultCachePath)
	setDefault(&c.Inspire.BaseURL, DefaultInspireURL)
	setDefault(&c.Inspire.Strategy, DefaultStrategy)
	if c.Inspire.BatchSize == 0 {
		c.Inspire.BatchSize = DefaultBatchSize
	}
	if c.Inspire.BatchDelay == 0 {
		c.Inspire.BatchDelay = DefaultBatchDelay
	}
	if c.Inspire.PageSize == 0 {
		c.Inspire.PageSize = DefaultPageSize
	}
	if c.Inspire.RateLimit == 0 {
		c.Inspire.RateLimit = DefaultRateLimit
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// applyEnv overrides settings from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvInspireURL); v != "" {
		c.Inspire.BaseURL = v
	}
	if v := os.Getenv(EnvStrategy); v != "" {
		c.Inspire.Strategy = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c.Inspire.BatchDelay < 0 || c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid config: durations must not be negative")
	}
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to folio.yml from a site root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}

// IsSite checks if the given directory contains a folio.yml.
func IsSite(root string) bool {
	info, err := os.Stat(ConfigPath(root))
	return err == nil && !info.IsDir()
}

// FindSite walks up from the given path to find a site root.
func FindSite(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsSite(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotSite
		}
		abs = parent
	}
}

// Load reads folio.yml at root, loads root/.env into the process
// environment (existing variables win), fills gaps from the global config,
// applies defaults and environment overrides, and validates the result.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := godotenv.Load(filepath.Join(root, EnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", EnvFile, err)
	}

	global, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	cfg.mergeGlobal(global)
	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to folio.yml at root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve returns path relative to root unless it is absolute, a URL or
// starts with ~.
func Resolve(root, path string) string {
	switch {
	case path == "":
		return root
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "~"):
		return ExpandPath(path)
	case filepath.IsAbs(path):
		return path
	}
	return filepath.Join(root, path)
}

// SourceLocation returns the resolved input location.
func (c *Config) SourceLocation(root string) string {
	return Resolve(root, c.Source)
}

// OutputPath returns the resolved output directory.
func (c *Config) OutputPath(root string) string {
	return Resolve(root, c.OutputDir)
}

// CacheFile returns the resolved cache database path.
func (c *Config) CacheFile(root string) string {
	return Resolve(root, c.CachePath)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
