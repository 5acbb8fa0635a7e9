package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration for the reservation service.
// Values come from an optional YAML file, overridden by environment
// variables.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	SessionTTL      time.Duration
	CalendarPath    string
	RateLimitPerMin int

	Booking BookingConfig
}

// fileConfig mirrors Config for YAML decoding. Durations are plain strings
// in the file and parsed here; absent fields leave the defaults untouched.
type fileConfig struct {
	HTTPPort        *int           `yaml:"http_port"`
	SQLiteDSN       *string        `yaml:"sqlite_dsn"`
	SessionTTL      *string        `yaml:"session_ttl"`
	CalendarPath    *string        `yaml:"calendar_path"`
	RateLimitPerMin *int           `yaml:"rate_limit_per_min"`
	Booking         *BookingConfig `yaml:"booking"`
}

// BookingConfig holds the booking rule knobs.
type BookingConfig struct {
	MinMinutes    int `yaml:"min_minutes"`
	MaxMinutes    int `yaml:"max_minutes"`
	SlotMinutes   int `yaml:"slot_minutes"`
	ActiveLimit   int `yaml:"active_limit"`
	GridOpenHour  int `yaml:"grid_open_hour"`
	GridCloseHour int `yaml:"grid_close_hour"`
	GridSlotMin   int `yaml:"grid_slot_minutes"`
}

func defaults() Config {
	return Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:bookfrontera.db?_foreign_keys=on",
		SessionTTL:      24 * time.Hour,
		RateLimitPerMin: 20,
		Booking: BookingConfig{
			MinMinutes:    30,
			MaxMinutes:    120,
			SlotMinutes:   30,
			ActiveLimit:   2,
			GridOpenHour:  9,
			GridCloseHour: 21,
			GridSlotMin:   60,
		},
	}
}

// Load builds the configuration from the optional file named by
// BOOKFRONTERA_CONFIG and the process environment. Environment variables win
// over file values.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("BOOKFRONTERA_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := file.apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKFRONTERA_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKFRONTERA_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKFRONTERA_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKFRONTERA_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKFRONTERA_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if path := strings.TrimSpace(os.Getenv("BOOKFRONTERA_CALENDAR_PATH")); path != "" {
		cfg.CalendarPath = path
	}

	if limitValue := strings.TrimSpace(os.Getenv("BOOKFRONTERA_RATE_LIMIT_PER_MIN")); limitValue != "" {
		limit, err := strconv.Atoi(limitValue)
		if err != nil || limit < 0 {
			invalid = append(invalid, "BOOKFRONTERA_RATE_LIMIT_PER_MIN")
		} else {
			cfg.RateLimitPerMin = limit
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (f fileConfig) apply(cfg *Config) error {
	if f.HTTPPort != nil {
		cfg.HTTPPort = *f.HTTPPort
	}
	if f.SQLiteDSN != nil {
		cfg.SQLiteDSN = *f.SQLiteDSN
	}
	if f.SessionTTL != nil {
		ttl, err := time.ParseDuration(*f.SessionTTL)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("session_ttl must be a positive duration, got %q", *f.SessionTTL)
		}
		cfg.SessionTTL = ttl
	}
	if f.CalendarPath != nil {
		cfg.CalendarPath = *f.CalendarPath
	}
	if f.RateLimitPerMin != nil {
		cfg.RateLimitPerMin = *f.RateLimitPerMin
	}
	if f.Booking != nil {
		cfg.Booking = *f.Booking
	}
	return nil
}

func (c Config) validate() error {
	if c.HTTPPort <= 0 {
		return fmt.Errorf("http_port must be positive, got %d", c.HTTPPort)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}

	b := c.Booking
	switch {
	case b.MinMinutes <= 0 || b.MaxMinutes < b.MinMinutes:
		return fmt.Errorf("booking duration bounds are inconsistent: min=%d max=%d", b.MinMinutes, b.MaxMinutes)
	case b.SlotMinutes <= 0:
		return fmt.Errorf("slot_minutes must be positive, got %d", b.SlotMinutes)
	case b.GridOpenHour < 0 || b.GridCloseHour > 24 || b.GridOpenHour >= b.GridCloseHour:
		return fmt.Errorf("grid hours are inconsistent: open=%d close=%d", b.GridOpenHour, b.GridCloseHour)
	case b.GridSlotMin <= 0:
		return fmt.Errorf("grid_slot_minutes must be positive, got %d", b.GridSlotMin)
	case b.ActiveLimit <= 0:
		return fmt.Errorf("active_limit must be positive, got %d", b.ActiveLimit)
	}
	return nil
}
