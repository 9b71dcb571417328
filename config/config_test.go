package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Database.UseMemoryStore())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.HealthCheckTimeout)
	assert.Equal(t, "text", cfg.Observability.LogFormat)
	assert.False(t, cfg.Features.IsEnabled(FeatureStatsRoundSubjectAverages))
	assert.True(t, cfg.Features.IsEnabled(FeatureGradesExport))
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoad_ProductionRules(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
	assert.Contains(t, err.Error(), "DATABASE_URL is required in production")
}

func TestLoad_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "journal")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "school")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://journal:pw@db:5432/school?sslmode=disable", cfg.Database.URL)
	assert.False(t, cfg.Database.UseMemoryStore())
}

func TestLoad_DatabaseURLEscapesCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "journal")
	t.Setenv("DB_PASSWORD", "p@ss/w:rd")
	t.Setenv("DB_NAME", "school")

	cfg, err := Load()
	require.NoError(t, err)

	u, err := url.Parse(cfg.Database.URL)
	require.NoError(t, err)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/school", u.Path)
	assert.Equal(t, "journal", u.User.Username())
	pass, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss/w:rd", pass)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("AUTH_TOKEN_TTL", "5m")
	t.Setenv("AUTH_BCRYPT_COST", "3")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.kz, https://b.kz")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_BCRYPT_COST")

	t.Setenv("AUTH_BCRYPT_COST", "4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://a.kz", "https://b.kz"}, cfg.HTTP.CORSOrigins)
}

func TestFeatureFlags_Environment(t *testing.T) {
	t.Setenv("FEATURE_STATS_ROUND_SUBJECT_AVERAGES", "true")
	t.Setenv("FEATURE_GRADES_EXPORT", "false")

	ff := LoadFeatureFlags()
	assert.True(t, ff.IsEnabled(FeatureStatsRoundSubjectAverages))
	assert.False(t, ff.IsEnabled(FeatureGradesExport))
	assert.False(t, ff.IsEnabled("unknown.flag"))
	assert.Contains(t, ff.EnabledFeatures(), FeatureStatsRoundSubjectAverages)

	require.NoError(t, ff.SetEnabled(FeatureGradesExport, true))
	assert.True(t, ff.IsEnabled(FeatureGradesExport))
	assert.ErrorIs(t, ff.SetEnabled("unknown.flag", true), ErrFeatureNotFound)

	var nilFlags *FeatureFlags
	assert.False(t, nilFlags.IsEnabled(FeatureGradesExport))
}
