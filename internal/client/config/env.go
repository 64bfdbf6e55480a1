package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	apiURLEnvVar         = "SKILLSWAP_API_URL"
	dbEnvVar             = "SKILLSWAP_DB"
	requestTimeoutEnvVar = "SKILLSWAP_REQUEST_TIMEOUT"
	refreshTimeoutEnvVar = "SKILLSWAP_REFRESH_TIMEOUT"
	useCookiesEnvVar     = "SKILLSWAP_USE_COOKIES"
	logFormatEnvVar      = "SKILLSWAP_LOG_FORMAT"
	logLevelEnvVar       = "SKILLSWAP_LOG_LEVEL"
)

// envFile is loaded, if it exists, before the environment is read.
// Variables already set in the process environment are not overridden.
var envFile = ".env"

// parseEnv overlays Config with SKILLSWAP_* environment variables.
// Durations use time.ParseDuration syntax ("15s"). Panics on malformed
// values, like the other loaders.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	cfg.APIBaseURL = GetEnv(apiURLEnvVar, cfg.APIBaseURL)
	cfg.DatabasePath = GetEnv(dbEnvVar, cfg.DatabasePath)
	cfg.RequestTimeout = getDuration(requestTimeoutEnvVar, cfg.RequestTimeout)
	cfg.RefreshTimeout = getDuration(refreshTimeoutEnvVar, cfg.RefreshTimeout)
	cfg.LogFormat = GetEnv(logFormatEnvVar, cfg.LogFormat)
	cfg.LogLevel = GetEnv(logLevelEnvVar, cfg.LogLevel)

	if v := os.Getenv(useCookiesEnvVar); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.UseCookies = b
	}
}

// GetEnv returns the value of envVar, or defaultValue when it is unset or
// empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
