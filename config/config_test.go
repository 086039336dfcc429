package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "POLL_INTERVAL", "PLANNING_HOURS_PER_WEEK", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 120.0, cfg.Planning.HoursPerWeek)
	assert.Equal(t, 85.0, cfg.Planning.DefaultEfficiency)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("POLL_INTERVAL", "750ms")
	t.Setenv("PLANNING_HOURS_PER_WEEK", "80")
	t.Setenv("DEADLINE_WARNING_DAYS", "5")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 80.0, cfg.Planning.HoursPerWeek)
	assert.Equal(t, 5, cfg.Planning.DeadlineWarningDays)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("RATE_LIMIT_BURST", "many")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestDialectorForUnknownDriver(t *testing.T) {
	_, err := dialectorFor(DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
