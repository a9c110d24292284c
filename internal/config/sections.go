package config

import (
	"fmt"
	"strings"

	"staffing/internal/domain"
)

const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type HTTPConfig struct {
	Addr               string   `json:"addr"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
}

// SetDefaults binds loopback in development and splits comma separated
// origins coming from a single environment value.
func (c *HTTPConfig) SetDefaults(mode Mode) {
	if strings.TrimSpace(c.Addr) == "" {
		if mode.IsDevelopment() {
			c.Addr = "127.0.0.1:8070"
		} else {
			c.Addr = ":8070"
		}
	}
	c.CORSAllowedOrigins = parseCSV(strings.Join(c.CORSAllowedOrigins, ","))
	if mode.IsDevelopment() && len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}
}

func (c HTTPConfig) AllowAnyOrigin() bool {
	for _, origin := range c.CORSAllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c HTTPConfig) Validate(mode Mode) error {
	if mode.IsProduction() && c.AllowAnyOrigin() {
		return fmt.Errorf("cors_allowed_origins cannot include wildcard origin in production mode")
	}
	return nil
}

type StorageConfig struct {
	// Backend selects the snapshot store: "file", "sqlite" or "postgres".
	Backend string `json:"backend"`
	// Path is the file location for the file and sqlite backends.
	Path string `json:"path"`
	// DSN is the postgres connection string.
	DSN      string `json:"dsn"`
	MaxConns int32  `json:"max_conns"`
	MinConns int32  `json:"min_conns"`
}

func (c *StorageConfig) SetDefaults() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = StorageFile
	}
	if c.Path == "" {
		switch c.Backend {
		case StorageFile:
			c.Path = "./staffing_snapshot.json"
		case StorageSQLite:
			c.Path = "./staffing.db"
		}
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
	if c.MinConns <= 0 {
		c.MinConns = 2
	}
}

func (c StorageConfig) Validate() error {
	switch c.Backend {
	case StorageFile, StorageSQLite:
		if strings.TrimSpace(c.Path) == "" {
			return fmt.Errorf("path is required for %s backend", c.Backend)
		}
	case StoragePostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("dsn is required for postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min_conns %d exceeds max_conns %d", c.MinConns, c.MaxConns)
	}
	return nil
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func (c *LogConfig) SetDefaults(mode Mode) {
	if c.Level == "" {
		c.Level = "info"
		if mode.IsDevelopment() {
			c.Level = "debug"
		}
	}
	if c.Format == "" {
		c.Format = "json"
		if mode.IsDevelopment() {
			c.Format = "console"
		}
	}
}

type EngineConfig struct {
	DefaultForecastWeeks   int `json:"default_forecast_weeks"`
	MaxForecastWeeks       int `json:"max_forecast_weeks"`
	AvailabilityWindowDays int `json:"availability_window_days"`
}

func (c *EngineConfig) SetDefaults() {
	if c.DefaultForecastWeeks == 0 {
		c.DefaultForecastWeeks = domain.DefaultForecastWeeks
	}
	if c.MaxForecastWeeks == 0 {
		c.MaxForecastWeeks = 104
	}
	if c.AvailabilityWindowDays == 0 {
		c.AvailabilityWindowDays = domain.DefaultAvailabilityWindowDays
	}
}

func (c EngineConfig) Validate() error {
	if c.MaxForecastWeeks < 1 {
		return fmt.Errorf("max_forecast_weeks must be positive")
	}
	if c.DefaultForecastWeeks < 0 || c.DefaultForecastWeeks > c.MaxForecastWeeks {
		return fmt.Errorf("default_forecast_weeks must be within [0, %d]", c.MaxForecastWeeks)
	}
	if c.AvailabilityWindowDays < 0 {
		return fmt.Errorf("availability_window_days must not be negative")
	}
	return nil
}

func parseCSV(rawValue string) []string {
	parts := strings.Split(rawValue, ",")
	values := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, part := range parts {
		trimmedPart := strings.TrimSpace(part)
		if trimmedPart == "" {
			continue
		}
		if _, exists := seen[trimmedPart]; exists {
			continue
		}
		seen[trimmedPart] = struct{}{}
		values = append(values, trimmedPart)
	}
	return values
}
