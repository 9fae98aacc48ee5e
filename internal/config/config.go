package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config is the main configuration for the traki client.
type Config struct {
	DataDir    string           `toml:"data_dir"`
	LogDir     string           `toml:"log_dir"`
	API        APIConfig        `toml:"api"`
	Database   DatabaseConfig   `toml:"database"`
	Archive    ArchiveConfig    `toml:"archive"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// APIConfig locates the fleet API.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout; zero lets the client default apply.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig configures the local state database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ArchiveConfig configures where downloaded trip reports are filed.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArchiveConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", or "s3"

	// Filesystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket      string `toml:"s3_bucket,omitempty"`
	S3Prefix      string `toml:"s3_prefix,omitempty"`
	S3Region      string `toml:"s3_region,omitempty"`
	S3AccessKeyID string `toml:"s3_access_key_id,omitempty"`
	S3SecretKey   string `toml:"s3_secret_key,omitempty"`
}

// EncryptionConfig configures at-rest encryption of archived reports.
type EncryptionConfig struct {
	Type      string `toml:"type"`                // "none" (default) or "age"
	Recipient string `toml:"recipient,omitempty"` // age public key, required for type=age
}

// envOverrides are the environment variables that overlay the config file,
// so the base URL or timeout can be swapped without editing it.
type envOverrides struct {
	BaseURL        string `env:"TRAKI_API_BASE_URL"`
	TimeoutSeconds int    `env:"TRAKI_API_TIMEOUT"`
}

// NewConfig creates a Config with the provided API base URL and data
// directory, and defaults for everything else.
func NewConfig(baseURL, baseDir string) *Config {
	return &Config{
		DataDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		API: APIConfig{
			BaseURL:        baseURL,
			TimeoutSeconds: 5,
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: baseDir,
		},
		Archive: ArchiveConfig{
			Type:   "filesystem",
			FSRoot: filepath.Join(baseDir, "reports"),
		},
		Encryption: EncryptionConfig{Type: "none"},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path and applies
// environment overrides on top.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays TRAKI_* environment variables onto the config.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parsing environment overrides: %w", err)
	}
	if o.BaseURL != "" {
		c.API.BaseURL = o.BaseURL
	}
	if o.TimeoutSeconds > 0 {
		c.API.TimeoutSeconds = o.TimeoutSeconds
	}
	return nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided
// Config. Fails if one already exists.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
