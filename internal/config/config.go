package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"

	"github.com/2beens/pacelink/internal/persistence"
	"github.com/2beens/pacelink/internal/slug"
	"github.com/2beens/pacelink/internal/store"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// Backend selects where workouts live: "postgres" (direct) or "supabase" (REST).
	Backend string `toml:"backend"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// ShareBaseURL prefixes share slugs in the links sent to students.
	ShareBaseURL   string   `toml:"share_base_url"`
	AllowedOrigins []string `toml:"allowed_origins"`

	LoginRateLimitAllowedPerMin      int `toml:"login_rate_limit_allowed_per_min"`
	ExecutionsRateLimitAllowedPerMin int `toml:"executions_rate_limit_allowed_per_min"`

	PublicCacheSizeMB     int `toml:"public_cache_size_mb"`
	PublicCacheTTLSeconds int `toml:"public_cache_ttl_seconds"`

	SlugLength      int `toml:"slug_length"`
	SlugMaxAttempts int `toml:"slug_max_attempts"`

	// RequestIDColumn names the idempotency key column of the workouts table on
	// the supabase backend. Unset means "request_id"; "none" leaves it out of inserts.
	RequestIDColumn string `toml:"request_id_column"`

	Candidates persistence.Candidates `toml:"candidates"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the table of env with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.config(env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.config(env)
}

func (t *Toml) config(env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}
	if err := cfg.applyDefaults(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) error {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = store.BackendPostgres
	case store.BackendPostgres, store.BackendSupabase:
	default:
		return fmt.Errorf("%w: %s", store.ErrUnknownBackend, c.Backend)
	}

	if c.PostgresHost == "" {
		c.PostgresHost = "localhost"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "pacelink"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}

	if c.ShareBaseURL == "" {
		c.ShareBaseURL = fmt.Sprintf("http://%s:%d/w", c.Host, c.Port)
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
	if c.ExecutionsRateLimitAllowedPerMin <= 0 {
		c.ExecutionsRateLimitAllowedPerMin = 6
	}
	if c.PublicCacheSizeMB <= 0 {
		c.PublicCacheSizeMB = 32
	}
	if c.PublicCacheTTLSeconds <= 0 {
		c.PublicCacheTTLSeconds = 300
	}

	if c.SlugLength <= 0 {
		c.SlugLength = slug.DefaultLength
	}
	if c.SlugMaxAttempts <= 0 {
		c.SlugMaxAttempts = slug.DefaultMaxAttempts
	}
	switch strings.TrimSpace(c.RequestIDColumn) {
	case "":
		c.RequestIDColumn = store.DefaultRequestIDColumn
	case "none":
		c.RequestIDColumn = ""
	}

	c.Candidates = c.Candidates.WithDefaults()
	return nil
}

func (c *Config) PublicCacheTTL() time.Duration {
	return time.Duration(c.PublicCacheTTLSeconds) * time.Second
}

// Secrets never live in the config file.
type Secrets struct {
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseAnonKey    string `env:"SUPABASE_ANON_KEY"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_KEY"`
	SupabaseJWTSecret  string `env:"SUPABASE_JWT_SECRET"`
	PostgresPassword   string `env:"PACELINK_POSTGRES_PASS"`
	RedisPassword      string `env:"PACELINK_REDIS_PASS"`
	SentryDSN          string `env:"SENTRY_DSN"`
	HoneycombEnabled   bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey    string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName    string `env:"OTEL_SERVICE_NAME, default=pacelink-backend"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}

// Validate checks the secrets the chosen backend cannot work without.
func (s *Secrets) Validate(backend string) error {
	var missing []string
	if s.SupabaseJWTSecret == "" {
		missing = append(missing, "SUPABASE_JWT_SECRET")
	}
	if s.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if s.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if backend == store.BackendSupabase && s.SupabaseServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}
