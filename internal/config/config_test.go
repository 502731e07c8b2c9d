package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("USE_S3", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.UseS3)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CACHE_TTL", "90")
	t.Setenv("USE_S3", "true")
	t.Setenv("PUBLIC_BASE_URL", "https://trips.example.com/")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.UseS3)
	assert.Equal(t, "https://trips.example.com", cfg.PublicBaseURL)
}

func TestRequiredDBVars(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite", DBPath: "x.db"}
	assert.Empty(t, cfg.RequiredDBVars())

	cfg = &Config{DBDriver: "postgres", DBHost: "db", DBName: "landing", DBUser: "app"}
	assert.Equal(t, []string{"DB_PASSWORD"}, cfg.RequiredDBVars())
}
