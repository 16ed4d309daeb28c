package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the marketlens API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Search     SearchConfig     `yaml:"search"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	APIKeys         []string `yaml:"api_keys"` // empty disables auth
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds query-embedding provider settings. Lead embeddings are
// produced by an external batch job; this provider only vectorizes market names.
type EmbeddingConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`
}

// AnalysisConfig holds pipeline defaults and operational timeouts.
type AnalysisConfig struct {
	MinSimilarity      float64 `yaml:"min_similarity"`
	MinLeads           int     `yaml:"min_leads"`
	MaxResults         int     `yaml:"max_results"` // 0 = uncapped
	CoverageTimeoutSec int     `yaml:"coverage_timeout_sec"`
	LockTTLSec         int     `yaml:"lock_ttl_sec"`
	LockWaitSec        int     `yaml:"lock_wait_sec"`
}

// ClusteringConfig bounds automatic cluster-count selection.
type ClusteringConfig struct {
	MinClusters   int   `yaml:"min_clusters"`
	MaxClusters   int   `yaml:"max_clusters"`
	Seed          int64 `yaml:"seed"`
	MaxIterations int   `yaml:"max_iterations"`
}

// SearchConfig holds the chunked similarity-scan settings.
type SearchConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Workers   int `yaml:"workers"`
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
		// Analysis runs scan + cluster the whole matched set; allow slow responses.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Embedding.CacheTTLSec <= 0 {
		c.Embedding.CacheTTLSec = 24 * 60 * 60
	}
	if c.Analysis.MinSimilarity <= 0 {
		c.Analysis.MinSimilarity = 0.65
	}
	if c.Analysis.MinLeads <= 0 {
		c.Analysis.MinLeads = 100
	}
	if c.Analysis.CoverageTimeoutSec <= 0 {
		c.Analysis.CoverageTimeoutSec = 5
	}
	if c.Analysis.LockTTLSec <= 0 {
		c.Analysis.LockTTLSec = 120
	}
	if c.Analysis.LockWaitSec <= 0 {
		c.Analysis.LockWaitSec = 30
	}
	if c.Clustering.MinClusters <= 0 {
		c.Clustering.MinClusters = 2
	}
	if c.Clustering.MaxClusters <= 0 {
		c.Clustering.MaxClusters = 8
	}
	if c.Clustering.Seed == 0 {
		c.Clustering.Seed = 42
	}
	if c.Clustering.MaxIterations <= 0 {
		c.Clustering.MaxIterations = 100
	}
	if c.Search.ChunkSize <= 0 {
		c.Search.ChunkSize = 500
	}
	if c.Search.Workers <= 0 {
		c.Search.Workers = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Analysis.MinSimilarity <= 0 || c.Analysis.MinSimilarity > 1 {
		return fmt.Errorf("analysis.min_similarity must be in (0,1], got %v", c.Analysis.MinSimilarity)
	}
	if c.Analysis.MaxResults < 0 {
		return fmt.Errorf("analysis.max_results must be >= 0, got %d", c.Analysis.MaxResults)
	}
	if c.Clustering.MinClusters > c.Clustering.MaxClusters {
		return fmt.Errorf("clustering.min_clusters %d exceeds max_clusters %d",
			c.Clustering.MinClusters, c.Clustering.MaxClusters)
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
