package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir     string `toml:"cache_dir"`
	LogDir       string `toml:"log_dir"`
	SteamAppsDir string `toml:"steamapps_dir"`
}

// SteamGridDB contains configuration for the SteamGridDB asset catalog.
type SteamGridDB struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Steam contains configuration for the Steam storefront API and CDN.
type Steam struct {
	BaseURL    string `toml:"base_url"`
	CDNBaseURL string `toml:"cdn_base_url"`
	Country    string `toml:"country"`
	Language   string `toml:"language"`
}

// RAWG contains configuration for the RAWG game catalog API.
type RAWG struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Aggregator contains tuning for the metadata aggregation engine.
type Aggregator struct {
	// RequestTimeout bounds each per-source call, in seconds.
	RequestTimeout int `toml:"request_timeout"`
	// CacheTTL controls metadata cache staleness, in hours.
	CacheTTL int `toml:"cache_ttl"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for gamedex.
//
// Configuration sections by subsystem:
//   - Paths: cache/log directories and the local steamapps directory
//   - SteamGridDB: community asset catalog credentials
//   - Steam: storefront API and artwork CDN endpoints
//   - RAWG: general game catalog credentials
//   - Aggregator: per-source timeout and cache staleness
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	SteamGridDB SteamGridDB `toml:"steamgriddb"`
	Steam       Steam       `toml:"steam"`
	RAWG        RAWG        `toml:"rawg"`
	Aggregator  Aggregator  `toml:"aggregator"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gamedex/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/gamedex/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gamedex.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI writes into. The
// steamapps directory is read-only input and is never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-source call timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Aggregator.RequestTimeout) * time.Second
}

// CacheTTL returns the metadata cache staleness bound as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Aggregator.CacheTTL) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
