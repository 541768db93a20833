// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader resolves an AppConfig from defaults, an optional YAML file and the
// environment, in that order of increasing precedence.
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader. An empty configPath skips the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load builds and validates the configuration.
func (l *Loader) Load() (AppConfig, error) {
	var cfg AppConfig
	setDefaults(&cfg)

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return AppConfig{}, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return AppConfig{}, fmt.Errorf("merge config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)

	cfg.DataDir = expandEnv(cfg.DataDir)
	cfg.Feeds.Path = expandEnv(cfg.Feeds.Path)
	cfg.Feeds.SettingsPath = expandEnv(cfg.Feeds.SettingsPath)
	cfg.Cache.Dir = expandEnv(cfg.Cache.Dir)
	resolvePaths(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, err
	}
	return parseFileConfig(data)
}

func parseFileConfig(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &fileCfg, nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse yaml: multiple documents are not supported")
	}
	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if f := src.Feeds; f != nil {
		setString(&dst.Feeds.Path, f.Path)
		setString(&dst.Feeds.SettingsPath, f.SettingsPath)
		setPtr(&dst.Feeds.RetainBackups, f.RetainBackups)
		setPtr(&dst.Feeds.Watch, f.Watch)
	}
	if c := src.Cache; c != nil {
		setString(&dst.Cache.Dir, c.Dir)
	}
	if mb := src.MusicBrainz; mb != nil {
		setString(&dst.MusicBrainz.BaseURL, mb.BaseURL)
		setString(&dst.MusicBrainz.AppName, mb.AppName)
		setString(&dst.MusicBrainz.Version, mb.Version)
		setString(&dst.MusicBrainz.Contact, mb.Contact)
		if err := setDuration(&dst.MusicBrainz.Timeout, "musicbrainz.timeout", mb.Timeout); err != nil {
			return err
		}
		setPtr(&dst.MusicBrainz.RateLimit, mb.RateLimit)
		setPtr(&dst.MusicBrainz.MaxPages, mb.MaxPages)
	}
	if a := src.Aggregation; a != nil {
		setPtr(&dst.Aggregation.Concurrency, a.Concurrency)
	}
	if sc := src.SearchCache; sc != nil {
		if err := setDuration(&dst.SearchCache.TTL, "searchCache.ttl", sc.TTL); err != nil {
			return err
		}
		setString(&dst.SearchCache.RedisAddr, sc.RedisAddr)
	}
	if api := src.API; api != nil {
		setString(&dst.API.ListenAddr, api.ListenAddr)
		setString(&dst.API.PublicURL, api.PublicURL)
		setPtr(&dst.API.RateLimit, api.RateLimit)
	}
	if t := src.Telemetry; t != nil {
		setPtr(&dst.Telemetry.Enabled, t.Enabled)
		setString(&dst.Telemetry.Exporter, t.Exporter)
		setString(&dst.Telemetry.Endpoint, t.Endpoint)
		setPtr(&dst.Telemetry.SamplingRate, t.SamplingRate)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, field, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, v, err)
	}
	*dst = d
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.DataDir = l.envString(EnvDataDir, cfg.DataDir)
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)

	cfg.Feeds.Path = l.envString(EnvFeedsFile, cfg.Feeds.Path)
	cfg.Feeds.SettingsPath = l.envString(EnvSettingsFile, cfg.Feeds.SettingsPath)
	cfg.Feeds.RetainBackups = l.envInt(EnvRetainBackups, cfg.Feeds.RetainBackups)
	cfg.Feeds.Watch = l.envBool(EnvWatchFeeds, cfg.Feeds.Watch)

	cfg.Cache.Dir = l.envString(EnvCacheDir, cfg.Cache.Dir)

	cfg.MusicBrainz.BaseURL = l.envString(EnvMBBaseURL, cfg.MusicBrainz.BaseURL)
	cfg.MusicBrainz.AppName = l.envString(EnvMBAppName, cfg.MusicBrainz.AppName)
	cfg.MusicBrainz.Version = l.envString(EnvMBVersion, cfg.MusicBrainz.Version)
	cfg.MusicBrainz.Contact = l.envString(EnvMBContact, cfg.MusicBrainz.Contact)
	cfg.MusicBrainz.Timeout = l.envDuration(EnvMBTimeout, cfg.MusicBrainz.Timeout)
	cfg.MusicBrainz.RateLimit = l.envFloat(EnvMBRateLimit, cfg.MusicBrainz.RateLimit)
	cfg.MusicBrainz.MaxPages = l.envInt(EnvMBMaxPages, cfg.MusicBrainz.MaxPages)

	cfg.Aggregation.Concurrency = l.envInt(EnvConcurrency, cfg.Aggregation.Concurrency)

	cfg.SearchCache.TTL = l.envDuration(EnvSearchCacheTTL, cfg.SearchCache.TTL)
	cfg.SearchCache.RedisAddr = l.envString(EnvRedisAddr, cfg.SearchCache.RedisAddr)

	cfg.API.ListenAddr = l.envString(EnvListenAddr, cfg.API.ListenAddr)
	cfg.API.PublicURL = l.envString(EnvPublicURL, cfg.API.PublicURL)
	cfg.API.RateLimit = l.envInt(EnvAPIRateLimit, cfg.API.RateLimit)

	cfg.Telemetry.Enabled = l.envBool(EnvOTelEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvOTelExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvOTelEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvOTelSampling, cfg.Telemetry.SamplingRate)
}
