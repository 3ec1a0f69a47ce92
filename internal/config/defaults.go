package config

const (
	defaultCacheDir           = "~/.cache/gamedex"
	defaultLogDir             = "~/.local/share/gamedex/logs"
	defaultSteamGridDBBaseURL = "https://www.steamgriddb.com/api/v2"
	defaultSteamBaseURL       = "https://store.steampowered.com"
	defaultSteamCDNBaseURL    = "https://cdn.cloudflare.steamstatic.com"
	defaultSteamCountry       = "US"
	defaultSteamLanguage      = "english"
	defaultRAWGBaseURL        = "https://api.rawg.io/api"
	defaultRequestTimeout     = 10
	defaultCacheTTLHours      = 720
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		SteamGridDB: SteamGridDB{
			BaseURL: defaultSteamGridDBBaseURL,
		},
		Steam: Steam{
			BaseURL:    defaultSteamBaseURL,
			CDNBaseURL: defaultSteamCDNBaseURL,
			Country:    defaultSteamCountry,
			Language:   defaultSteamLanguage,
		},
		RAWG: RAWG{
			BaseURL: defaultRAWGBaseURL,
		},
		Aggregator: Aggregator{
			RequestTimeout: defaultRequestTimeout,
			CacheTTL:       defaultCacheTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
