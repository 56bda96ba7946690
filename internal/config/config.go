// Package config loads the service configuration from an optional YAML
// file layered with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	// Addr is the HTTP listen address (e.g. ":8080").
	Addr string `yaml:"addr"`

	// SeedFile is an optional JSON snapshot loaded into the store at
	// startup.
	SeedFile string `yaml:"seed_file"`

	// Verbose enables per-request debug logging.
	Verbose bool `yaml:"verbose"`

	Store StoreConfig `yaml:"store"`
	Auth  AuthConfig  `yaml:"auth"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is one of "memory", "sqlite", "neo4j".
	Backend string `yaml:"backend"`

	// Path is the sqlite database file.
	Path string `yaml:"path"`

	Neo4j Neo4jConfig `yaml:"neo4j"`
}

// Neo4jConfig carries connection settings for the neo4j backend.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// AuthConfig controls the optional bearer-token middleware. When Enabled
// is false the route set is open and JWTSecret is ignored.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns the configuration used when no file and no overrides
// are present: an open in-memory service on :8080.
func Default() *Config {
	return &Config{
		Addr: ":8080",
		Store: StoreConfig{
			Backend: "memory",
			Path:    "userapi.db",
			Neo4j: Neo4jConfig{
				URI:      "neo4j://localhost:7687",
				Database: "neo4j",
			},
		},
	}
}

// Load reads the config file at path, falling back to defaults when path
// is empty or the file does not exist, then applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth is enabled but no JWT secret is set (JWT_SECRET)")
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment.
func (c *Config) applyEnv() {
	c.Addr = getEnv("ADDR", c.Addr)
	c.SeedFile = getEnv("SEED_FILE", c.SeedFile)
	c.Verbose = getEnvBool("VERBOSE", c.Verbose)

	c.Store.Backend = getEnv("STORE_BACKEND", c.Store.Backend)
	c.Store.Path = getEnv("DB_PATH", c.Store.Path)
	c.Store.Neo4j.URI = getEnv("NEO4J_URI", c.Store.Neo4j.URI)
	c.Store.Neo4j.Username = getEnv("NEO4J_USERNAME", c.Store.Neo4j.Username)
	c.Store.Neo4j.Password = getEnv("NEO4J_PASSWORD", c.Store.Neo4j.Password)
	c.Store.Neo4j.Database = getEnv("NEO4J_DATABASE", c.Store.Neo4j.Database)

	c.Auth.Enabled = getEnvBool("AUTH_ENABLED", c.Auth.Enabled)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultVal
}

// String returns a printable representation with secrets masked.
func (c *Config) String() string {
	auth := "disabled"
	if c.Auth.Enabled {
		auth = "enabled (secret masked)"
	}
	return fmt.Sprintf("Config{addr: %s, store: %s, auth: %s}", c.Addr, c.Store.Backend, auth)
}
