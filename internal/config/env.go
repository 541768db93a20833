// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/mbzfeed/internal/log"
)

// Environment variable names.
const (
	EnvDataDir        = "MBZFEED_DATA"
	EnvLogLevel       = "MBZFEED_LOG_LEVEL"
	EnvFeedsFile      = "FEEDS_FILE_PATH"
	EnvSettingsFile   = "CONFIG_FILE_PATH"
	EnvRetainBackups  = "MBZFEED_RETAIN_BACKUPS"
	EnvWatchFeeds     = "MBZFEED_WATCH_FEEDS"
	EnvCacheDir       = "CACHE_DIR"
	EnvMBBaseURL      = "MB_BASE_URL"
	EnvMBAppName      = "MB_APP_NAME"
	EnvMBVersion      = "MB_VERSION"
	EnvMBContact      = "MB_CONTACT"
	EnvMBTimeout      = "MB_TIMEOUT"
	EnvMBRateLimit    = "MB_RATE_LIMIT"
	EnvMBMaxPages     = "MB_MAX_PAGES"
	EnvConcurrency    = "MBZFEED_CONCURRENCY"
	EnvSearchCacheTTL = "MBZFEED_SEARCH_CACHE_TTL"
	EnvRedisAddr      = "MBZFEED_REDIS_ADDR"
	EnvListenAddr     = "MBZFEED_LISTEN"
	EnvPublicURL      = "MBZFEED_PUBLIC_URL"
	EnvAPIRateLimit   = "MBZFEED_API_RATE_LIMIT"
	EnvOTelEnabled    = "MBZFEED_OTEL_ENABLED"
	EnvOTelExporter   = "MBZFEED_OTEL_EXPORTER"
	EnvOTelEndpoint   = "MBZFEED_OTEL_ENDPOINT"
	EnvOTelSampling   = "MBZFEED_OTEL_SAMPLING"
)

// ParseString reads key from the environment, falling back to defaultValue
// when unset or empty. The chosen source is logged at debug level.
func ParseString(key, defaultValue string) string {
	return parseEnv(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer; malformed values fall back with a warning.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseFloat reads a float64; malformed values fall back with a warning.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// ParseDuration reads a Go duration such as "30s".
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseBool accepts true/false, 1/0 and yes/no, case-insensitively.
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, strconv.ErrSyntax
	})
}

func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		logger.Debug().
			Str("key", key).
			Interface("default", defaultValue).
			Str("source", "default").
			Msg("using default value")
		return defaultValue
	}
	v, err := parse(raw)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", raw).
			Interface("default", defaultValue).
			Msg("invalid value in environment variable, using default")
		return defaultValue
	}
	evt := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitive(key) {
		evt = evt.Bool("sensitive", true)
	} else {
		evt = evt.Str("value", raw)
	}
	evt.Msg("using environment variable")
	return v
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "token") || strings.Contains(k, "password") || strings.Contains(k, "contact")
}
