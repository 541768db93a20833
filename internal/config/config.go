// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the mbzfeed daemon configuration with the precedence
// environment > YAML file > defaults.
package config

import (
	"os"
	"time"
)

// AppConfig is the fully resolved daemon configuration.
type AppConfig struct {
	Version  string `yaml:"-"`
	DataDir  string `yaml:"dataDir"`
	LogLevel string `yaml:"logLevel"`

	Feeds       FeedsConfig       `yaml:"feeds"`
	Cache       CacheConfig       `yaml:"cache"`
	MusicBrainz MusicBrainzConfig `yaml:"musicbrainz"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	SearchCache SearchCacheConfig `yaml:"searchCache"`
	API         APIConfig         `yaml:"api"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// FeedsConfig locates the feed definitions and settings files.
type FeedsConfig struct {
	Path          string `yaml:"path"`
	SettingsPath  string `yaml:"settingsPath"`
	RetainBackups int    `yaml:"retainBackups"`
	Watch         bool   `yaml:"watch"`
}

// CacheConfig locates the feed artifact cache.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// MusicBrainzConfig configures the ws/2 client.
type MusicBrainzConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	AppName   string        `yaml:"appName"`
	Version   string        `yaml:"version"`
	Contact   string        `yaml:"contact"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rateLimit"`
	MaxPages  int           `yaml:"maxPages"`
}

// AggregationConfig bounds per-feed provider fan-out.
type AggregationConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// SearchCacheConfig configures the artist search cache. An empty RedisAddr
// selects the in-memory backend.
type SearchCacheConfig struct {
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redisAddr"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	PublicURL  string `yaml:"publicUrl"`
	RateLimit  int    `yaml:"rateLimit"` // requests per minute per client
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// FileConfig is the on-disk YAML shape. Pointer fields distinguish "unset"
// from zero values; durations are Go duration strings.
type FileConfig struct {
	DataDir     string               `yaml:"dataDir,omitempty"`
	LogLevel    string               `yaml:"logLevel,omitempty"`
	Feeds       *FileFeedsConfig     `yaml:"feeds,omitempty"`
	Cache       *FileCacheConfig     `yaml:"cache,omitempty"`
	MusicBrainz *FileMusicBrainz     `yaml:"musicbrainz,omitempty"`
	Aggregation *FileAggregation     `yaml:"aggregation,omitempty"`
	SearchCache *FileSearchCache     `yaml:"searchCache,omitempty"`
	API         *FileAPIConfig       `yaml:"api,omitempty"`
	Telemetry   *FileTelemetryConfig `yaml:"telemetry,omitempty"`
}

type FileFeedsConfig struct {
	Path          string `yaml:"path,omitempty"`
	SettingsPath  string `yaml:"settingsPath,omitempty"`
	RetainBackups *int   `yaml:"retainBackups,omitempty"`
	Watch         *bool  `yaml:"watch,omitempty"`
}

type FileCacheConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

type FileMusicBrainz struct {
	BaseURL   string   `yaml:"baseUrl,omitempty"`
	AppName   string   `yaml:"appName,omitempty"`
	Version   string   `yaml:"version,omitempty"`
	Contact   string   `yaml:"contact,omitempty"`
	Timeout   string   `yaml:"timeout,omitempty"`
	RateLimit *float64 `yaml:"rateLimit,omitempty"`
	MaxPages  *int     `yaml:"maxPages,omitempty"`
}

type FileAggregation struct {
	Concurrency *int `yaml:"concurrency,omitempty"`
}

type FileSearchCache struct {
	TTL       string `yaml:"ttl,omitempty"`
	RedisAddr string `yaml:"redisAddr,omitempty"`
}

type FileAPIConfig struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
	PublicURL  string `yaml:"publicUrl,omitempty"`
	RateLimit  *int   `yaml:"rateLimit,omitempty"`
}

type FileTelemetryConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

func expandEnv(s string) string {
	return os.ExpandEnv(s)
}
