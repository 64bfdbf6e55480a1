package config

import "time"

// Config holds runtime settings for the SkillSwap client.
//
// Fields:
//   - APIBaseURL: root of the backend REST API, e.g. http://localhost:5000/api.
//   - DatabasePath: SQLite DSN of the local store holding the session token.
//   - RequestTimeout: bound on a single HTTP request.
//   - RefreshTimeout: bound on a background collection refresh.
//   - UseCookies: replay server-set session cookies alongside the bearer token.
//   - LogFormat: text, json or zerolog.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	UseCookies     bool
	LogFormat      string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.DatabasePath = "skillswap.db"
	c.RequestTimeout = 15 * time.Second
	c.RefreshTimeout = 30 * time.Second
	c.UseCookies = false
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
