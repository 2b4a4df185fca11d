package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SearchRerank/internal/rerank"
	"SearchRerank/internal/scanner"
)

const (
	configPathEnv = "SEARCH_RERANK_CONFIG"
	logLevelEnv   = "SEARCH_RERANK_LOG_LEVEL"
	listenEnv     = "SEARCH_RERANK_LISTEN"
	enginesEnv    = "SEARCH_RERANK_ENGINES"
)

// ErrInvalidConfig marks a configuration that cannot be read or used.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig  `yaml:"logging"`
	Rerank    RerankConfig   `yaml:"rerank"`
	Providers ProviderConfig `yaml:"providers"`
	HTTP      HTTPConfig     `yaml:"http"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RerankConfig carries the reranker thresholds and term lists.
type RerankConfig struct {
	MinScore           float64      `yaml:"minScore"`
	MaxPerDomain       int          `yaml:"maxPerDomain"`
	DuplicateThreshold float64      `yaml:"duplicateThreshold"`
	Lists              rerank.Lists `yaml:"lists"`
}

// Options projects the thresholds onto rerank.Options.
func (r RerankConfig) Options() rerank.Options {
	return rerank.Options{
		MinScore:           r.MinScore,
		MaxPerDomain:       r.MaxPerDomain,
		DuplicateThreshold: r.DuplicateThreshold,
	}
}

// ProviderConfig groups settings for the search engines.
type ProviderConfig struct {
	Engines          []string       `yaml:"engines"`
	ResultsPerEngine int            `yaml:"resultsPerEngine"`
	Timeout          time.Duration  `yaml:"timeout"`
	UserAgent        string         `yaml:"userAgent"`
	Bing             EndpointConfig `yaml:"bing"`
	Baidu            EndpointConfig `yaml:"baidu"`
}

// EndpointConfig points a provider at its search page.
type EndpointConfig struct {
	BaseURL string `yaml:"baseURL"`
}

// HTTPConfig controls the serve command.
type HTTPConfig struct {
	Listen          string        `yaml:"listen"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// Load reads YAML configuration from path, or from the file named by
// SEARCH_RERANK_CONFIG when path is empty, and applies environment overrides.
// Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.Providers.Engines = NormalizeEngines(cfg.Providers.Engines)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(listenEnv); v != "" {
		c.HTTP.Listen = v
	}

	if v := os.Getenv(enginesEnv); v != "" {
		c.Providers.Engines = SplitEngines(v)
	}
}

// SplitEngines parses a comma separated engine list.
func SplitEngines(value string) []string {
	return NormalizeEngines(strings.Split(value, ","))
}

// NormalizeEngines lower-cases and trims engine names, dropping blanks.
func NormalizeEngines(names []string) []string {
	var engines []string
	for _, e := range names {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			engines = append(engines, e)
		}
	}
	return engines
}

// Validate reports every problem found, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error

	if err := c.Rerank.Options().Validate(); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not text or json", c.Logging.Format))
	}

	if len(c.Providers.Engines) == 0 {
		errs = append(errs, errors.New("providers.engines is empty"))
	}
	if n := c.Providers.ResultsPerEngine; n <= 0 || n > scanner.MaxCount {
		errs = append(errs, fmt.Errorf("providers.resultsPerEngine must be in [1, %d], got %d", scanner.MaxCount, n))
	}
	if c.Providers.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("providers.timeout must be positive, got %s", c.Providers.Timeout))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.shutdownTimeout must be positive, got %s", c.HTTP.ShutdownTimeout))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Default returns the built-in configuration.
func Default() Config {
	opts := rerank.DefaultOptions()
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Rerank: RerankConfig{
			MinScore:           opts.MinScore,
			MaxPerDomain:       opts.MaxPerDomain,
			DuplicateThreshold: opts.DuplicateThreshold,
			Lists:              rerank.DefaultLists(),
		},
		Providers: ProviderConfig{
			Engines:          []string{"baidu", "bing"},
			ResultsPerEngine: 10,
			Timeout:          10 * time.Second,
			Bing:             EndpointConfig{BaseURL: "https://www.bing.com/search"},
			Baidu:            EndpointConfig{BaseURL: "https://www.baidu.com/s"},
		},
		HTTP: HTTPConfig{
			Listen:          ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
