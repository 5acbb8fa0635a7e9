package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOOKFRONTERA_CONFIG",
		"BOOKFRONTERA_HTTP_PORT",
		"BOOKFRONTERA_SQLITE_DSN",
		"BOOKFRONTERA_SESSION_TTL",
		"BOOKFRONTERA_CALENDAR_PATH",
		"BOOKFRONTERA_RATE_LIMIT_PER_MIN",
	} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:bookfrontera.db?_foreign_keys=on" {
		t.Errorf("unexpected default DSN %q", cfg.SQLiteDSN)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected default session TTL of 24h, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMin != 20 {
		t.Errorf("expected default rate limit of 20, got %d", cfg.RateLimitPerMin)
	}

	b := cfg.Booking
	if b.MinMinutes != 30 || b.MaxMinutes != 120 || b.SlotMinutes != 30 || b.ActiveLimit != 2 {
		t.Errorf("unexpected booking defaults %+v", b)
	}
	if b.GridOpenHour != 9 || b.GridCloseHour != 21 || b.GridSlotMin != 60 {
		t.Errorf("unexpected grid defaults %+v", b)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKFRONTERA_HTTP_PORT", "9090")
	t.Setenv("BOOKFRONTERA_SQLITE_DSN", "file::memory:?cache=shared")
	t.Setenv("BOOKFRONTERA_SESSION_TTL", "45m")
	t.Setenv("BOOKFRONTERA_CALENDAR_PATH", "/tmp/calendars")
	t.Setenv("BOOKFRONTERA_RATE_LIMIT_PER_MIN", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file::memory:?cache=shared" {
		t.Errorf("unexpected DSN %q", cfg.SQLiteDSN)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Errorf("expected 45m TTL, got %s", cfg.SessionTTL)
	}
	if cfg.CalendarPath != "/tmp/calendars" {
		t.Errorf("unexpected calendar path %q", cfg.CalendarPath)
	}
	if cfg.RateLimitPerMin != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.RateLimitPerMin)
	}
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
http_port: 3000
session_ttl: 2h
booking:
  min_minutes: 15
  max_minutes: 60
  slot_minutes: 15
  active_limit: 3
  grid_open_hour: 8
  grid_close_hour: 20
  grid_slot_minutes: 30
`)
	t.Setenv("BOOKFRONTERA_CONFIG", path)
	t.Setenv("BOOKFRONTERA_HTTP_PORT", "4000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPPort != 4000 {
		t.Errorf("environment must win over the file, got port %d", cfg.HTTPPort)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected 2h TTL from file, got %s", cfg.SessionTTL)
	}
	if cfg.Booking.MinMinutes != 15 || cfg.Booking.ActiveLimit != 3 {
		t.Errorf("unexpected booking config %+v", cfg.Booking)
	}
}

func TestLoad_InvalidEnvironmentValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "BOOKFRONTERA_HTTP_PORT", "eighty"},
		{"negative port", "BOOKFRONTERA_HTTP_PORT", "-1"},
		{"malformed ttl", "BOOKFRONTERA_SESSION_TTL", "soon"},
		{"negative ttl", "BOOKFRONTERA_SESSION_TTL", "-5m"},
		{"negative rate limit", "BOOKFRONTERA_RATE_LIMIT_PER_MIN", "-3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOOKFRONTERA_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		if _, err := Load(); err == nil {
			t.Fatal("expected an error for a missing config file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOOKFRONTERA_CONFIG", writeConfigFile(t, "http_port: [nope"))

		if _, err := Load(); err == nil {
			t.Fatal("expected an error for malformed yaml")
		}
	})

	t.Run("bad duration in file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOOKFRONTERA_CONFIG", writeConfigFile(t, "session_ttl: never"))

		if _, err := Load(); err == nil {
			t.Fatal("expected an error for a malformed duration")
		}
	})
}

func TestLoad_ValidatesBookingRules(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"max below min", "booking: {min_minutes: 60, max_minutes: 30, slot_minutes: 30, active_limit: 2, grid_open_hour: 9, grid_close_hour: 21, grid_slot_minutes: 60}"},
		{"zero slot", "booking: {min_minutes: 30, max_minutes: 120, slot_minutes: 0, active_limit: 2, grid_open_hour: 9, grid_close_hour: 21, grid_slot_minutes: 60}"},
		{"inverted grid hours", "booking: {min_minutes: 30, max_minutes: 120, slot_minutes: 30, active_limit: 2, grid_open_hour: 21, grid_close_hour: 9, grid_slot_minutes: 60}"},
		{"zero active limit", "booking: {min_minutes: 30, max_minutes: 120, slot_minutes: 30, active_limit: 0, grid_open_hour: 9, grid_close_hour: 21, grid_slot_minutes: 60}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BOOKFRONTERA_CONFIG", writeConfigFile(t, tc.body))

			if _, err := Load(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
