package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/lock"
)

// schemaVersion is the current config.json schema generation.
const schemaVersion = 1

// CleanStrategy selects how `clean` chooses eviction candidates.
type CleanStrategy string

const (
	StrategyUnreferenced CleanStrategy = "unreferenced"
	StrategyUnused       CleanStrategy = "unused"
	StrategyCapacity     CleanStrategy = "capacity"
	StrategyManual       CleanStrategy = "manual"
)

// LogLevel names the configured minimum log severity.
type LogLevel string

const (
	LogDebug   LogLevel = "debug"
	LogVerbose LogLevel = "verbose"
	LogInfo    LogLevel = "info"
	LogWarn    LogLevel = "warn"
	LogError   LogLevel = "error"
)

// UnverifiedLocalStrategy controls what happens to a local directory the
// registry has no record of.
type UnverifiedLocalStrategy string

const (
	UnverifiedDownload UnverifiedLocalStrategy = "download"
	UnverifiedAbsorb   UnverifiedLocalStrategy = "absorb"
)

// validConcurrency is the closed set of permitted concurrency values; 99
// is the sentinel for "unbounded".
var validConcurrency = map[int]bool{1: true, 2: true, 3: true, 5: true, 99: true}

// Proxy carries optional outbound proxy URLs for the external fetcher.
type Proxy struct {
	HTTP  string `json:"http,omitempty"`
	HTTPS string `json:"https,omitempty"`
}

// Config is the store root's persisted configuration.
type Config struct {
	Version                 int                     `json:"version"`
	Initialized             bool                    `json:"initialized"`
	StorePath               string                  `json:"storePath"`
	CleanStrategy           CleanStrategy           `json:"cleanStrategy"`
	UnusedDays              int                     `json:"unusedDays"`
	UnreferencedThreshold   int64                   `json:"unreferencedThreshold"`
	MaxStoreSize            int64                   `json:"maxStoreSize"`
	AutoDownload            bool                    `json:"autoDownload"`
	Concurrency             int                     `json:"concurrency"`
	LogLevel                LogLevel                `json:"logLevel"`
	Proxy                   Proxy                   `json:"proxy"`
	UnverifiedLocalStrategy UnverifiedLocalStrategy `json:"unverifiedLocalStrategy"`
	// FetcherBinary names the external VCS-fetcher executable. Empty
	// means look up defaultFetcherBinary on $PATH.
	FetcherBinary string `json:"fetcherBinary,omitempty"`
}

// defaultFetcherBinary is the external fetcher's conventional name on
// $PATH when FetcherBinary is left unset.
const defaultFetcherBinary = "codepac-fetch"

// ResolveFetcherBinary returns the configured fetcher binary, or the
// default lookup name when none was set.
func (c *Config) ResolveFetcherBinary() string {
	if c.FetcherBinary != "" {
		return c.FetcherBinary
	}
	return defaultFetcherBinary
}

// Default returns the configuration written by `init`, before any operator
// override.
func Default(storePath string) *Config {
	return &Config{
		Version:                 schemaVersion,
		Initialized:             true,
		StorePath:               storePath,
		CleanStrategy:           StrategyUnreferenced,
		UnusedDays:              30,
		UnreferencedThreshold:   0,
		MaxStoreSize:            0,
		AutoDownload:            true,
		Concurrency:             3,
		LogLevel:                LogInfo,
		UnverifiedLocalStrategy: UnverifiedAbsorb,
	}
}

// Validate checks the fields whose invalid values would otherwise surface
// confusingly deep inside the orchestrator.
func (c *Config) Validate() error {
	switch c.CleanStrategy {
	case StrategyUnreferenced, StrategyUnused, StrategyCapacity, StrategyManual, "":
	default:
		return errs.Wrapf(errs.ErrInput, "invalid cleanStrategy %q", c.CleanStrategy)
	}
	if !validConcurrency[c.Concurrency] {
		return errs.Wrapf(errs.ErrInput, "invalid concurrency %d, want one of 1,2,3,5,99", c.Concurrency)
	}
	switch c.LogLevel {
	case LogDebug, LogVerbose, LogInfo, LogWarn, LogError, "":
	default:
		return errs.Wrapf(errs.ErrInput, "invalid logLevel %q", c.LogLevel)
	}
	if c.UnusedDays < 0 {
		return errs.Wrapf(errs.ErrInput, "unusedDays must be non-negative, got %d", c.UnusedDays)
	}
	if c.MaxStoreSize < 0 {
		return errs.Wrapf(errs.ErrInput, "maxStoreSize must be non-negative, got %d", c.MaxStoreSize)
	}
	return nil
}

// migrations maps a schema version to the function advancing a document
// one version forward.
var migrations = map[int]func(*Config) error{}

func migrate(c *Config) error {
	for c.Version < schemaVersion {
		step, ok := migrations[c.Version]
		if !ok {
			return errs.Wrapf(errs.ErrTransaction, "no migration from config schema version %d to %d", c.Version, schemaVersion)
		}
		if err := step(c); err != nil {
			return errs.Wrapf(errs.ErrTransaction, "migrate config schema version %d: %w", c.Version, err)
		}
		c.Version++
	}
	return nil
}

// Load reads config.json at path. A missing file is reported via
// errs.ErrUninitialised: callers should direct the operator to run init.
func Load(path string) (*Config, error) {
	var c Config

	err := lock.WithFile(path, func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return errs.ErrUninitialised
			}
			return err
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return errs.Wrapf(errs.ErrInput, "parse %s: %w", path, err)
		}
		return migrate(&c)
	})
	if err != nil {
		if err == errs.ErrUninitialised {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrTransaction, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes c to path atomically (write-temp + rename).
func Save(path string, c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return lock.WithFile(path, func() error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}

		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}

		tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json.tmp")
		if err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}
		tmpPath := tmp.Name()
		defer os.Remove(tmpPath)

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return errs.Wrap(errs.ErrTransaction, err)
		}
		if err := tmp.Close(); err != nil {
			return errs.Wrap(errs.ErrTransaction, err)
		}
		return os.Rename(tmpPath, path)
	})
}
