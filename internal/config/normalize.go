package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSteamGridDB()
	c.normalizeSteam()
	c.normalizeRAWG()
	c.normalizeAggregator()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SteamAppsDir) != "" {
		if c.Paths.SteamAppsDir, err = expandPath(c.Paths.SteamAppsDir); err != nil {
			return fmt.Errorf("paths.steamapps_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSteamGridDB() {
	if c.SteamGridDB.APIKey == "" {
		if value, ok := os.LookupEnv("STEAMGRIDDB_API_KEY"); ok {
			c.SteamGridDB.APIKey = value
		}
	}
	c.SteamGridDB.APIKey = strings.TrimSpace(c.SteamGridDB.APIKey)
	c.SteamGridDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.SteamGridDB.BaseURL), "/")
	if c.SteamGridDB.BaseURL == "" {
		c.SteamGridDB.BaseURL = defaultSteamGridDBBaseURL
	}
}

func (c *Config) normalizeSteam() {
	c.Steam.BaseURL = strings.TrimRight(strings.TrimSpace(c.Steam.BaseURL), "/")
	if c.Steam.BaseURL == "" {
		c.Steam.BaseURL = defaultSteamBaseURL
	}
	c.Steam.CDNBaseURL = strings.TrimRight(strings.TrimSpace(c.Steam.CDNBaseURL), "/")
	if c.Steam.CDNBaseURL == "" {
		c.Steam.CDNBaseURL = defaultSteamCDNBaseURL
	}
	c.Steam.Country = strings.TrimSpace(c.Steam.Country)
	if c.Steam.Country == "" {
		c.Steam.Country = defaultSteamCountry
	}
	c.Steam.Language = strings.TrimSpace(c.Steam.Language)
	if c.Steam.Language == "" {
		c.Steam.Language = defaultSteamLanguage
	}
}

func (c *Config) normalizeRAWG() {
	if c.RAWG.APIKey == "" {
		if value, ok := os.LookupEnv("RAWG_API_KEY"); ok {
			c.RAWG.APIKey = value
		}
	}
	c.RAWG.APIKey = strings.TrimSpace(c.RAWG.APIKey)
	c.RAWG.BaseURL = strings.TrimRight(strings.TrimSpace(c.RAWG.BaseURL), "/")
	if c.RAWG.BaseURL == "" {
		c.RAWG.BaseURL = defaultRAWGBaseURL
	}
}

func (c *Config) normalizeAggregator() {
	if c.Aggregator.RequestTimeout <= 0 {
		c.Aggregator.RequestTimeout = defaultRequestTimeout
	}
	if c.Aggregator.CacheTTL <= 0 {
		c.Aggregator.CacheTTL = defaultCacheTTLHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
