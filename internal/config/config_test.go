package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/pacelink/internal/persistence"
	"github.com/2beens/pacelink/internal/slug"
	"github.com/2beens/pacelink/internal/store"
)

const testToml = `
[development]
port = 9100
log_level = "debug"
backend = "postgres"
allowed_origins = ["http://localhost:5173"]

[development.candidates]
draft_statuses = ["draft"]
ready_statuses = ["ready", "published"]

[production]
port = 9000
backend = "Supabase"
share_base_url = "https://pacelink.com.br/w"
public_cache_ttl_seconds = 60
`

func TestParse_Development(t *testing.T) {
	cfg, err := Parse("dev", testToml)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, store.BackendPostgres, cfg.Backend)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://localhost:9100/w", cfg.ShareBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.PublicCacheTTL())

	// configured lists win, the rest come from the defaults
	assert.Equal(t, []string{"draft"}, cfg.Candidates.DraftStatuses)
	assert.Equal(t, []string{"ready", "published"}, cfg.Candidates.ReadyStatuses)
	assert.Equal(t, persistence.DefaultCandidates().ConstraintNames, cfg.Candidates.ConstraintNames)
}

func TestParse_Production(t *testing.T) {
	cfg, err := Parse("production", testToml)
	require.NoError(t, err)

	assert.Equal(t, store.BackendSupabase, cfg.Backend)
	assert.Equal(t, "https://pacelink.com.br/w", cfg.ShareBaseURL)
	assert.Equal(t, time.Minute, cfg.PublicCacheTTL())
	assert.Equal(t, 10, cfg.LoginRateLimitAllowedPerMin)
	assert.Equal(t, "2112", cfg.PrometheusMetricsPort)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("staging", testToml)
	assert.Error(t, err)

	_, err = Parse("dev", `[production]
port = 1`)
	assert.Error(t, err)

	_, err = Parse("dev", `[development]
backend = "mongodb"`)
	assert.ErrorIs(t, err, store.ErrUnknownBackend)

	_, err = Parse("dev", `[development`)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testToml), 0o600))

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)

	_, err = Load("development", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadSecrets(t *testing.T) {
	secrets, err := loadSecrets(context.Background(), envconfig.MapLookuper(map[string]string{
		"SUPABASE_URL":        "https://abc.supabase.co",
		"SUPABASE_ANON_KEY":   "anon",
		"SUPABASE_JWT_SECRET": "jwt-secret",
		"HONEYCOMB_ENABLED":   "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://abc.supabase.co", secrets.SupabaseURL)
	assert.True(t, secrets.HoneycombEnabled)
	assert.Equal(t, "pacelink-backend", secrets.OtelServiceName)

	assert.NoError(t, secrets.Validate(store.BackendPostgres))
	assert.ErrorContains(t, secrets.Validate(store.BackendSupabase), "SUPABASE_SERVICE_KEY")

	empty, err := loadSecrets(context.Background(), envconfig.MapLookuper(nil))
	require.NoError(t, err)
	assert.False(t, empty.HoneycombEnabled)
	assert.ErrorContains(t, empty.Validate(store.BackendPostgres), "SUPABASE_JWT_SECRET")
}

func TestLoad_RepoConfig(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		cfg, err := Load(env, "../../config.toml")
		require.NoError(t, err, env)
		assert.Equal(t, env, cfg.Environment)
		assert.NotEmpty(t, cfg.AllowedOrigins)
		assert.Equal(t, 12, cfg.SlugLength)
		assert.Equal(t, 8, cfg.SlugMaxAttempts)
		assert.Equal(t, "request_id", cfg.RequestIDColumn)
		assert.NotEmpty(t, cfg.Candidates.DraftStatuses)
		assert.NotEmpty(t, cfg.Candidates.ConstraintNames)
	}

	prod, err := Load("production", "../../config.toml")
	require.NoError(t, err)
	assert.Equal(t, "supabase", prod.Backend)
	assert.Equal(t, []string{"ready", "pronto", "READY", "PRONTO"}, prod.Candidates.ReadyStatuses)
}

func TestParse_SlugAndRequestIDDefaults(t *testing.T) {
	cfg, err := Parse("development", `
[development]
port = 9000
`)
	require.NoError(t, err)
	assert.Equal(t, slug.DefaultLength, cfg.SlugLength)
	assert.Equal(t, slug.DefaultMaxAttempts, cfg.SlugMaxAttempts)
	assert.Equal(t, 12, cfg.SlugLength)
	assert.Equal(t, 8, cfg.SlugMaxAttempts)
	assert.Equal(t, store.DefaultRequestIDColumn, cfg.RequestIDColumn)

	legacy, err := Parse("production", `
[production]
backend = "supabase"
slug_length = 16
request_id_column = "none"
`)
	require.NoError(t, err)
	assert.Equal(t, 16, legacy.SlugLength)
	assert.Empty(t, legacy.RequestIDColumn)
}
