package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 10, cfg.Privacy.MinCohortSize)
	assert.Equal(t, time.September, cfg.Risk.AcademicYearStartMonth)
	assert.Equal(t, 7, cfg.Cohort.WindowDays)
	assert.Equal(t, 30.0, cfg.Cohort.HighDistressSharePct)
	assert.Equal(t, 3, cfg.Cohort.SupportEligibleMinimum)
	assert.Equal(t, 12, cfg.Trend.MaxAcademicWeeks)
	assert.Equal(t, 5*time.Minute, cfg.Analytics.CacheTTL)
	assert.False(t, cfg.Analytics.CacheEnabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("PRIVACY_MIN_COHORT_SIZE", "15")
	t.Setenv("ACADEMIC_YEAR_START_MONTH", "1")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.edu, ,https://b.example.edu")
	t.Setenv("ANALYTICS_CACHE_TTL", "90s")
	t.Setenv("ENABLE_ANALYTICS_CACHE", "true")
	t.Setenv("JWT_EXPIRATION", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 15, cfg.Privacy.MinCohortSize)
	assert.Equal(t, time.January, cfg.Risk.AcademicYearStartMonth)
	assert.Equal(t, []string{"https://a.example.edu", "https://b.example.edu"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.Analytics.CacheTTL)
	assert.True(t, cfg.Analytics.CacheEnabled)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
}

func TestLoadClampsInvalidStartMonth(t *testing.T) {
	t.Setenv("ACADEMIC_YEAR_START_MONTH", "13")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.September, cfg.Risk.AcademicYearStartMonth)
}
