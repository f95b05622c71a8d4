package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/pacelink/internal/auth"
	"github.com/2beens/pacelink/internal/cache"
	"github.com/2beens/pacelink/internal/config"
	"github.com/2beens/pacelink/internal/db"
	"github.com/2beens/pacelink/internal/middleware"
	"github.com/2beens/pacelink/internal/misc"
	"github.com/2beens/pacelink/internal/persistence"
	"github.com/2beens/pacelink/internal/public"
	"github.com/2beens/pacelink/internal/slug"
	"github.com/2beens/pacelink/internal/store"
	"github.com/2beens/pacelink/internal/telemetry/metrics"
	"github.com/2beens/pacelink/internal/telemetry/tracing"
	"github.com/2beens/pacelink/internal/trainer"
	"github.com/2beens/pacelink/pkg"
)

// workout forms and executions are small JSON documents
const maxRequestBodyBytes = 1 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config  *config.Config
	secrets *config.Secrets
	dbPool  *pgxpool.Pool // nil with the supabase backend
	store   store.Store
	cache   *cache.PublicWorkouts

	redisClient *redis.Client
	accounts    *auth.Accounts

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, secrets.OtelServiceName)
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	storage, err := openBackend(ctx, cfg, secrets)
	if err != nil {
		return nil, err
	}
	log.Infof("workouts backend: %s", cfg.Backend)

	promRegistry, err := metrics.SetupPrometheus(storage.collectors...)
	if err != nil {
		return nil, fmt.Errorf("setup prometheus: %w", err)
	}
	metricsManager := metrics.NewManager("pacelink", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := newRedisClient(ctx, cfg, secrets)

	accounts, err := auth.NewAccounts(secrets.SupabaseURL, secrets.SupabaseAnonKey, secrets.SupabaseServiceKey)
	if err != nil {
		return nil, fmt.Errorf("new accounts client: %w", err)
	}

	return &Server{
		config:      cfg,
		secrets:     secrets,
		dbPool:      storage.pool,
		store:       storage.store,
		cache:       cache.NewPublicWorkouts(cfg.PublicCacheSizeMB, cfg.PublicCacheTTL(), metricsManager),
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		accounts:    accounts,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

type backend struct {
	store      store.Store
	pool       *pgxpool.Pool
	collectors []prometheus.Collector
}

func openBackend(ctx context.Context, cfg *config.Config, secrets *config.Secrets) (*backend, error) {
	switch cfg.Backend {
	case store.BackendPostgres:
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: secrets.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		return &backend{
			store: store.NewPgStore(pool),
			pool:  pool,
			collectors: []prometheus.Collector{
				pgxpoolprometheus.NewCollector(pool, map[string]string{"db_name": cfg.PostgresDBName}),
			},
		}, nil
	case store.BackendSupabase:
		restStore, err := store.NewRestStore(secrets.SupabaseURL, secrets.SupabaseServiceKey, cfg.RequestIDColumn)
		if err != nil {
			return nil, fmt.Errorf("new rest store: %w", err)
		}
		return &backend{store: restStore}, nil
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownBackend, cfg.Backend)
	}
}

// newRedisClient backs the rate limiter and token revocations. An unreachable
// redis is only logged; both degrade per request.
func newRedisClient(ctx context.Context, cfg *config.Config, secrets *config.Secrets) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
	})
	if secrets.HoneycombEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Errorf("redis ping: %s", err)
	}
	return rdb
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("pacelink-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	verifier := auth.NewVerifier(s.secrets.SupabaseJWTSecret)
	revocations := auth.NewRevocations(s.redisClient)

	miscHandler := misc.NewHandler(s.versionInfo)
	miscHandler.SetupRoutes(r)

	authHandler := auth.NewHandler(s.accounts, verifier, revocations)
	authHandler.SetupRoutes(r, middleware.RateLimitBy(
		reqRateLimiter,
		"login",
		s.config.LoginRateLimitAllowedPerMin,
		middleware.ByClientIP,
		s.metricsManager,
	))

	slugGenerator := slug.NewGenerator(s.config.SlugLength, s.config.SlugMaxAttempts, pkg.IsUniqueViolationError)
	saver := persistence.NewSaver(s.store, s.config.Candidates, slugGenerator, s.metricsManager)
	trainerHandler := trainer.NewHandler(saver, s.store, s.cache, s.config.ShareBaseURL)
	trainerHandler.SetupRoutes(r)

	publicHandler := public.NewHandler(s.store, s.cache, s.metricsManager)
	publicHandler.SetupRoutes(r, reqRateLimiter, s.config.ExecutionsRateLimitAllowedPerMin)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(auth.NewAuthenticator(verifier, revocations))

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

const shutdownTimeout = 15 * time.Second

// GracefulShutdown stops accepting requests, waits for in-flight ones up to
// shutdownTimeout, then releases redis, the db pool and pending sentry events.
func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for name, srv := range map[string]*http.Server{
		"api":     s.httpServer,
		"metrics": s.metricsHttpServer,
	} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("shutdown %s server: %s", name, err)
			continue
		}
		log.Warnf("%s server shut down", name)
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}

	if s.dbPool != nil {
		s.dbPool.Close() // blocks until acquired conns are released
		log.Debugln("db pool closed")
	}

	if !sentry.Flush(5 * time.Second) {
		log.Warnln("sentry flush timed out")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
