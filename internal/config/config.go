// Package config handles the XDG configuration directory, config.yaml and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tboard"

	// ConfigFile holds backend settings.
	ConfigFile = "config.yaml"

	// EnvFile holds optional KEY=value overrides.
	EnvFile = ".env"

	// SessionFile is the stored sign-in session filename.
	SessionFile = "session.json"
)

// ErrNotConfigured is returned by Validate when a required setting is missing.
var ErrNotConfigured = errors.New("backend not configured")

// Backends.
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
)

// FirestoreConfig selects the Firebase project.
type FirestoreConfig struct {
	ProjectID string `yaml:"project_id"`
	APIKey    string `yaml:"api_key"`

	// Endpoint overrides the REST base URLs, e.g. for the emulator.
	Endpoint     string `yaml:"endpoint,omitempty"`
	AuthEndpoint string `yaml:"auth_endpoint,omitempty"`
}

// MongoConfig selects the MongoDB deployment.
type MongoConfig struct {
	URI         string `yaml:"uri"`
	Database    string `yaml:"database"`
	TokenSecret string `yaml:"token_secret"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	Backend   string          `yaml:"backend"`
	Firestore FirestoreConfig `yaml:"firestore"`
	Mongo     MongoConfig     `yaml:"mongo"`
}

// New creates a Config for configDir, or the default directory if it is
// empty, and loads config.yaml, .env and the environment in that order.
// Missing files are not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Backend: BackendFirestore, Mongo: MongoConfig{Database: AppName}}

	data, err := os.ReadFile(cfg.FilePath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	env, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}
	cfg.applyEnv(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return env[key]
	})
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Backend, "TBOARD_BACKEND")
	set(&c.Firestore.ProjectID, "FIREBASE_PROJECT_ID")
	set(&c.Firestore.APIKey, "FIREBASE_API_KEY")
	set(&c.Firestore.Endpoint, "FIRESTORE_ENDPOINT")
	set(&c.Firestore.AuthEndpoint, "FIREBASE_AUTH_ENDPOINT")
	set(&c.Mongo.URI, "MONGO_URI")
	set(&c.Mongo.Database, "MONGO_DATABASE")
	set(&c.Mongo.TokenSecret, "TBOARD_TOKEN_SECRET")
}

// Validate checks the settings the selected backend needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("%w: firestore.project_id is not set", ErrNotConfigured)
		}
		if c.Firestore.APIKey == "" {
			return fmt.Errorf("%w: firestore.api_key is not set", ErrNotConfigured)
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: mongo.uri is not set", ErrNotConfigured)
		}
		if c.Mongo.TokenSecret == "" {
			return fmt.Errorf("%w: mongo.token_secret is not set", ErrNotConfigured)
		}
	default:
		return fmt.Errorf("%w: unknown backend: %s", ErrNotConfigured, c.Backend)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}
