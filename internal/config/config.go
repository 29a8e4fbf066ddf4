package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_document_similarity/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_document_similarity/internal/core/score"
)

// Config holds settings shared by the server and the CLI.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Upload     UploadConfig     `yaml:"upload"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	MaxRequestBytes int `yaml:"max_request_bytes"`
	Concurrency     int `yaml:"concurrency"` // 0 = fasthttp default
}

// SimilarityConfig holds scoring settings.
type SimilarityConfig struct {
	Threshold      float64 `yaml:"threshold"` // 0 = default 75
	MinTokenLength int     `yaml:"min_token_length"`
	Normalizer     string  `yaml:"normalizer"` // default, fast
	Precision      *int    `yaml:"precision"`
	WarmUp         bool    `yaml:"warm_up"`
}

// UploadConfig holds upload restrictions.
type UploadConfig struct {
	Extensions []string `yaml:"extensions"`
	MaxFiles   int      `yaml:"max_files"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	File string `yaml:"file"` // empty = stdout
	JSON bool   `yaml:"json"`
}

// Default returns a configuration with every default applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// Load reads a YAML configuration file. ${VAR} references are replaced
// with environment values before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration data, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = 10 * 1024 * 1024
	}
	if c.Similarity.Threshold == 0 {
		c.Similarity.Threshold = 75
	}
	if c.Similarity.MinTokenLength <= 0 {
		c.Similarity.MinTokenLength = tokenizer.DefaultMinLength
	}
	if c.Similarity.Normalizer == "" {
		c.Similarity.Normalizer = "default"
	}
	if c.Similarity.Precision == nil {
		p := score.DefaultPrecision
		c.Similarity.Precision = &p
	}
	if len(c.Upload.Extensions) == 0 {
		c.Upload.Extensions = []string{".txt"}
	}
	if c.Upload.MaxFiles <= 0 {
		c.Upload.MaxFiles = 50
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}
	if c.Similarity.Threshold < 0 || c.Similarity.Threshold > 100 {
		errs = append(errs, fmt.Errorf("similarity.threshold %v must be between 0 and 100", c.Similarity.Threshold))
	}
	if c.Similarity.Precision != nil {
		if err := score.ValidatePrecision(*c.Similarity.Precision); err != nil {
			errs = append(errs, fmt.Errorf("similarity.precision: %w", err))
		}
	}
	switch c.Similarity.Normalizer {
	case "default", "fast":
	default:
		errs = append(errs, fmt.Errorf("similarity.normalizer %q must be default or fast", c.Similarity.Normalizer))
	}
	if c.HTTP.Concurrency < 0 {
		errs = append(errs, errors.New("http.concurrency must not be negative"))
	}
	return errors.Join(errs...)
}

// ReadTimeout returns the read timeout as a duration.
func (h HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(h.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (h HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(h.WriteTimeoutSec) * time.Second
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}
