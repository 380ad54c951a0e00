package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/field"
)

// Config holds the search index service configuration.
type Config struct {
	HTTP          HTTPConfig             `yaml:"http"`
	Elasticsearch ElasticsearchConfig    `yaml:"elasticsearch"`
	Search        SearchConfig           `yaml:"search"`
	Indexes       map[string]IndexConfig `yaml:"indexes"`
	Auth          AuthConfig             `yaml:"auth"`
	Logging       LoggingConfig          `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds engine connection settings.
type ElasticsearchConfig struct {
	Addresses        []string `yaml:"addresses"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds index naming and sizing settings.
type SearchConfig struct {
	IndexVariant     string `yaml:"index_variant"`
	MaxDocumentSize  int    `yaml:"max_document_size"`
	ConfigureOnStart bool   `yaml:"configure_on_start"`
}

// IndexConfig declares one logical index and its searchable fields.
type IndexConfig struct {
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig declares a searchable field within an index.
type FieldConfig struct {
	Name    string            `yaml:"name"`
	Type    string            `yaml:"type"`
	Options map[string]string `yaml:"options"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Elasticsearch.ReadinessTimeout <= 0 {
		c.Elasticsearch.ReadinessTimeout = 10
	}
	if c.Search.MaxDocumentSize <= 0 {
		c.Search.MaxDocumentSize = 102400
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch.addresses is required")
	}
	for index, ic := range c.Indexes {
		if err := validateIndexName(index); err != nil {
			return fmt.Errorf("indexes.%s: %w", index, err)
		}
		for _, f := range ic.Fields {
			if err := field.ValidateName(f.Name); err != nil {
				return fmt.Errorf("indexes.%s field %q: %w", index, f.Name, err)
			}
		}
	}
	return nil
}

// indexNameForbiddenChars are the characters the engine rejects in index
// names. Index naming rules differ from field naming rules: names must
// also be lowercase and must not start with -, _ or +.
const indexNameForbiddenChars = `\/*?"<>| ,#:`

func validateIndexName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is empty")
	}
	if strings.ContainsAny(name[:1], "-_+") {
		return fmt.Errorf("index name %q must not start with -, _ or +", name)
	}
	if name != strings.ToLower(name) {
		return fmt.Errorf("index name %q must be lowercase", name)
	}
	if i := strings.IndexAny(name, indexNameForbiddenChars); i >= 0 {
		return fmt.Errorf("index name %q contains forbidden character %q", name, name[i])
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
