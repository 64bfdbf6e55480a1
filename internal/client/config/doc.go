// Package config loads runtime configuration for the SkillSwap client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after loading an optional .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Environment
//
//	SKILLSWAP_API_URL           base URL of the backend API
//	SKILLSWAP_DB                path of the local database
//	SKILLSWAP_REQUEST_TIMEOUT   e.g. "15s"
//	SKILLSWAP_REFRESH_TIMEOUT   e.g. "30s"
//	SKILLSWAP_USE_COOKIES       true/false
//	SKILLSWAP_LOG_FORMAT        text, json or zerolog
//	SKILLSWAP_LOG_LEVEL         debug, info, warn or error
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-d string   path of the local database
//	-t int      request timeout (seconds)
//	-l string   log format
//
// # JSON schema
//
// Timeouts are timex.Duration values, so they can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "database_path": "skillswap.db",
//	  "request_timeout": "15s",
//	  "refresh_timeout": "30s",
//	  "use_cookies": true,
//	  "log_format": "json",
//	  "log_level": "debug"
//	}
package config
