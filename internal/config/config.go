package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDBFileName = "quotes.sql"
	DefaultImageDir   = "images"
	DefaultLogLevel   = "info"

	configDirEnvKey = "QUOTEBOT_CONFIG_DIR"

	tokenEnvKey    = "QUOTEBOT_TOKEN"
	ownerEnvKey    = "QUOTEBOT_OWNER"
	dbPathEnvKey   = "QUOTEBOT_DB"
	imageDirEnvKey = "QUOTEBOT_IMAGE_DIR"
)

// Config defines runtime configuration for quotebot.
type Config struct {
	// Token authenticates the bot with the chat platform.
	Token string `toml:"token"`
	// OwnerID is the platform user id of the bot operator.
	OwnerID  string `toml:"owner_id"`
	DBPath   string `toml:"db_path"`
	ImageDir string `toml:"image_dir"`
	LogLevel string `toml:"log_level"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Token:    "",
		OwnerID:  "",
		DBPath:   "",
		ImageDir: DefaultImageDir,
		LogLevel: DefaultLogLevel,
	}
}

var allowedKeys = []string{
	"token",
	"owner_id",
	"db_path",
	"image_dir",
	"log_level",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "token":
		return c.Token, nil
	case "owner_id":
		return c.OwnerID, nil
	case "db_path":
		return c.DBPath, nil
	case "image_dir":
		return c.ImageDir, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the config file.
func GlobalPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, ".quotebot.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".quotebot.toml"), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	data[key] = value

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := GlobalPath()
	if err == nil {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if token := strings.TrimSpace(os.Getenv(tokenEnvKey)); token != "" {
		cfg.Token = token
	}
	if owner := strings.TrimSpace(os.Getenv(ownerEnvKey)); owner != "" {
		cfg.OwnerID = owner
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if imageDir := os.Getenv(imageDirEnvKey); imageDir != "" {
		cfg.ImageDir = imageDir
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = DefaultImageDir
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}
