package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"gamedex/internal/config"
	"gamedex/internal/logging"
	"gamedex/internal/metacache"
	"gamedex/internal/metadata"
	"gamedex/internal/sources/rawg"
	"gamedex/internal/sources/steam"
	"gamedex/internal/sources/steamgriddb"
)

// commandContext carries lazily initialized shared state across commands:
// the loaded config, the logger, and the wired aggregator.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	aggregatorOnce sync.Once
	aggregator     *metadata.Aggregator
	aggregatorErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the shared logger. Logs go to a file under the log
// directory so table output on stdout stays clean.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "gamedex.log")},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// ensureAggregator wires the configured sources into an aggregator.
// Registration order fixes search result concatenation order: storefront,
// community assets, catalog. Sources missing credentials are simply not
// registered.
func (c *commandContext) ensureAggregator() (*metadata.Aggregator, error) {
	c.aggregatorOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.aggregatorErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.aggregatorErr = err
			return
		}

		agg := metadata.NewAggregator(logger, metadata.WithTimeout(cfg.RequestTimeout()))

		steamClient, err := steam.New(cfg.Steam.BaseURL, cfg.Steam.CDNBaseURL, cfg.Steam.Country, cfg.Steam.Language)
		if err != nil {
			c.aggregatorErr = err
			return
		}
		library := steam.NewLibrary(cfg.Paths.SteamAppsDir)
		agg.SetSource(metadata.KindSteam, steam.NewAdapter(steamClient, library, logger))

		if cfg.SteamGridDB.APIKey != "" {
			gridClient, err := steamgriddb.New(cfg.SteamGridDB.APIKey, cfg.SteamGridDB.BaseURL)
			if err != nil {
				c.aggregatorErr = err
				return
			}
			agg.SetSource(metadata.KindSteamGridDB, steamgriddb.NewAdapter(gridClient, logger))
		} else {
			logger.Debug("steamgriddb not configured, skipping source")
		}

		if cfg.RAWG.APIKey != "" {
			rawgClient, err := rawg.New(cfg.RAWG.APIKey, cfg.RAWG.BaseURL)
			if err != nil {
				c.aggregatorErr = err
				return
			}
			agg.SetSource(metadata.KindRAWG, rawg.NewAdapter(rawgClient, logger))
		} else {
			logger.Debug("rawg not configured, skipping source")
		}

		c.aggregator = agg
	})
	return c.aggregator, c.aggregatorErr
}

// openCache opens the metadata cache store. Callers own the returned store
// and must close it.
func (c *commandContext) openCache() (*metacache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return metacache.Open(cfg.Paths.CacheDir, logger)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
