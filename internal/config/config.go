// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package config provides layered configuration for the persona engine using
// Koanf v2. Precedence: environment variables > YAML config file > built-in
// defaults.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the persona engine server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Gateway   GatewayConfig   `koanf:"gateway"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Store     StoreConfig     `koanf:"store"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// GatewayConfig holds settings for the remote CESS object-store gateway.
//
// The Territory/Account/Message/Signature quad is sent verbatim as request
// headers on uploads; the gateway validates them. Key management itself is
// out of scope — the signature is produced externally and configured here.
type GatewayConfig struct {
	URL            string        `koanf:"url"`
	Territory      string        `koanf:"territory"`
	Account        string        `koanf:"account"`
	Message        string        `koanf:"message"`
	Signature      string        `koanf:"signature"`
	Timeout        time.Duration `koanf:"timeout"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes"`
}

// CacheConfig holds settings for the in-memory metadata cache.
type CacheConfig struct {
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// RateLimitConfig holds settings for the per-identity upload rate limiter.
// This is the core admission control; transport-level IP limiting is
// configured separately under Security.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

// StoreConfig holds settings for the embedded Badger store that backs
// persona references and the marketplace catalog.
type StoreConfig struct {
	Path string `koanf:"path"`

	// InMemory runs Badger without disk persistence. Used in tests and
	// ephemeral deployments.
	InMemory bool `koanf:"in_memory"`
}

// SecurityConfig holds transport-level protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	HTTPRateRequests  int           `koanf:"http_rate_requests"`
	HTTPRateWindow    time.Duration `koanf:"http_rate_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Gateway: GatewayConfig{
			URL:            "https://deoss-sgp.cess.network",
			Territory:      "Vitrine",
			Account:        "",
			Message:        "",
			Signature:      "",
			Timeout:        30 * time.Second,
			MaxUploadBytes: 10 << 20, // 10MiB
		},
		Cache: CacheConfig{
			TTL:        24 * time.Hour,
			MaxEntries: 1000,
		},
		RateLimit: RateLimitConfig{
			Requests: 10,
			Window:   time.Minute,
		},
		Store: StoreConfig{
			Path:     "/data/persona-engine",
			InMemory: false,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{},
			HTTPRateRequests:  100,
			HTTPRateWindow:    time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks configuration consistency. It returns the first problem
// found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	if c.Gateway.URL == "" {
		return fmt.Errorf("gateway.url is required")
	}
	u, err := url.Parse(c.Gateway.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("gateway.url %q is not a valid absolute URL", c.Gateway.URL)
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway.timeout must be positive, got %s", c.Gateway.Timeout)
	}
	if c.Gateway.MaxUploadBytes <= 0 {
		return fmt.Errorf("gateway.max_upload_bytes must be positive, got %d", c.Gateway.MaxUploadBytes)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}

	if c.RateLimit.Requests <= 0 {
		return fmt.Errorf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}

	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
