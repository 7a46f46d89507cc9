package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for leettrack.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	Identity   IdentityConfig   `toml:"identity"`
	Database   DatabaseConfig   `toml:"database"`
	Cache      CacheConfig      `toml:"cache"`
	Vault      VaultConfig      `toml:"vault"`
	Encryption EncryptionConfig `toml:"encryption"`
	Lookup     LookupConfig     `toml:"lookup"`
	Stats      StatsConfig      `toml:"stats"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// IdentityConfig is the user the CLI acts as. The HTTP server ignores it and
// takes the identity from each request's token.
type IdentityConfig struct {
	UserID string `toml:"user_id"`
	Email  string `toml:"email,omitempty"`
}

// DatabaseConfig represents configuration for the remote store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "postgres"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
	DSN     string `toml:"dsn,omitempty"`      // only used for type=postgres
}

// CacheConfig represents configuration for the device-local settings cache.
type CacheConfig struct {
	Type string `toml:"type"` // "filesystem", "memory" or "redis"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// Redis-specific fields (only used when Type == "redis")
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
}

// VaultConfig represents configuration for the export archive store.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // S3-compatible services (MinIO, R2)

	// Static keys; when empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for exports.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// LookupConfig selects the profile statistics source.
type LookupConfig struct {
	Type           string `toml:"type"`               // "stub" (default) or "leetcode"
	Endpoint       string `toml:"endpoint,omitempty"` // only used for type=leetcode
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
}

// StatsConfig tunes the derived statistics.
type StatsConfig struct {
	WeekStart   string   `toml:"week_start"` // weekday name, "sunday" by default
	HeatmapDays int      `toml:"heatmap_days"`
	TopicLimit  int      `toml:"topic_limit"`
	Companies   []string `toml:"companies,omitempty"` // empty means the built-in roster
}

// ServerConfig configures `leettrack serve`.
type ServerConfig struct {
	Addr               string   `toml:"addr"`
	JWTSecret          string   `toml:"jwt_secret,omitempty"`
	AllowedOrigins     []string `toml:"allowed_origins"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	Dir        string `toml:"dir"`
	Level      string `toml:"level"` // debug, info, warn or error
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// NewConfig creates a Config for userID with every section defaulted under baseDir.
func NewConfig(userID, baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		Identity: IdentityConfig{UserID: userID},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Cache: CacheConfig{
			Type: "filesystem",
			Dir:  filepath.Join(baseDir, "cache"),
		},
		Vault: VaultConfig{
			Type:        "filesystem",
			Name:        "local",
			FSVaultRoot: filepath.Join(baseDir, "vault"),
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "leettrack.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "leettrack.key"),
		},
		Lookup: LookupConfig{Type: "stub"},
		Stats: StatsConfig{
			WeekStart:   "sunday",
			HeatmapDays: 365,
			TopicLimit:  10,
		},
		Server: ServerConfig{
			Addr:               "127.0.0.1:8080",
			AllowedOrigins:     []string{"http://localhost:3000"},
			RateLimitPerMinute: 120,
		},
		Log: LogConfig{
			Dir:        filepath.Join(baseDir, "log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// WeekStartDay parses Stats.WeekStart. An empty value is Sunday.
func (c *Config) WeekStartDay() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Stats.WeekStart))
	if name == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid week_start %q", c.Stats.WeekStart)
}

// envOverrides maps environment variables onto secrets that are better kept
// out of the config file.
var envOverrides = []struct {
	name  string
	apply func(c *Config, v string) error
}{
	{"LEETTRACK_USER_ID", func(c *Config, v string) error { c.Identity.UserID = v; return nil }},
	{"LEETTRACK_DATABASE_DSN", func(c *Config, v string) error { c.Database.DSN = v; return nil }},
	{"LEETTRACK_REDIS_PASSWORD", func(c *Config, v string) error { c.Cache.RedisPassword = v; return nil }},
	{"LEETTRACK_JWT_SECRET", func(c *Config, v string) error { c.Server.JWTSecret = v; return nil }},
	{"LEETTRACK_SERVER_ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"LEETTRACK_S3_SECRET_ACCESS_KEY", func(c *Config, v string) error { c.Vault.S3SecretAccessKey = v; return nil }},
	{"LEETTRACK_LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	{"LEETTRACK_RATE_LIMIT_PER_MINUTE", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEETTRACK_RATE_LIMIT_PER_MINUTE: %w", err)
		}
		c.Server.RateLimitPerMinute = n
		return nil
	}},
}

// ApplyEnv overrides config values from LEETTRACK_* environment variables.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	for _, o := range envOverrides {
		if v := getenv(o.name); v != "" {
			if err := o.apply(c, v); err != nil {
				return err
			}
		}
	}
	return nil
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

// ReadFromFile reads a Config from the specified file path.
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
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may carry a JWT secret or a database password.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
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

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
