package ranger

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/http/control"
	"github.com/xy-planning-network/junction/http/middleware"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/postgres"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
	"go.opentelemetry.io/otel"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar = "LOG_LEVEL"
	defaultLogLvl  = logger.LogLevelInfo

	// Router defaults
	rootPathEnvVar            = "ROOT_PATH"
	defaultRootPath           = "/"
	ignoreTrailingSlashEnvVar = "IGNORE_TRAILING_SLASH"
	manifestEnvVar            = "ROUTE_MANIFEST"
	traceEnvVar               = "TRACE_RESOLUTION"

	// History defaults
	historyStoreEnvVar   = "HISTORY_STORE"
	historyKeyEnvVar     = "HISTORY_KEY"
	defaultHistoryKey    = "junction:history"
	historyTTLEnvVar     = "HISTORY_TTL"
	defaultHistoryTTL    = 0
	redisURLEnvVar       = "REDIS_URL"
	defaultRedisURL      = "redis://localhost:6379/0"
	HistoryStoreMemory   = "memory"
	HistoryStoreRedis    = "redis"
	HistoryStorePostgres = "postgres"

	// Database defaults
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	// Control surface defaults
	corsOriginEnvVar = "CORS_ORIGIN"
	rateLimitEnvVar  = "RATE_LIMIT"
	defaultRateLimit = 5
	rateBurstEnvVar  = "RATE_BURST"
	defaultRateBurst = 20
	metricsPath      = "/metrics"

	// Web server defaults
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Test defaults
	dbTestHostEnvVar     = "DATABASE_TEST_HOST"
	defaultDBTestHost    = "localhost"
	dbTestNameEnvVar     = "DATABASE_TEST_NAME"
	dbTestPassEnvVar     = "DATABASE_TEST_PASSWORD"
	dbTestPortEnvVar     = "DATABASE_TEST_PORT"
	defaultDBTestPort    = "5432"
	dbTestURLEnvVar      = "DATABASE_TEST_URL"
	dbTestUserEnvVar     = "DATABASE_TEST_USER"
	dbTestSSLModeEnvVar  = "DATABASE_TEST_SSLMODE"
	defaultDBTestSSLMode = "prefer"
)

// NewPostgresConfig constructs a *postgres.CxnConfig appropriate to the given env.
//
// Confer the DATABASE env vars for usage.
func NewPostgresConfig(env junction.Environment) *postgres.CxnConfig {
	if env.IsTesting() {
		return &postgres.CxnConfig{
			IsTestDB: true,
			URL:      os.Getenv(dbTestURLEnvVar),
			Host:     junction.EnvVarOrString(dbTestHostEnvVar, defaultDBTestHost),
			Name:     os.Getenv(dbTestNameEnvVar),
			Password: os.Getenv(dbTestPassEnvVar),
			Port:     junction.EnvVarOrString(dbTestPortEnvVar, defaultDBTestPort),
			SSLMode:  junction.EnvVarOrString(dbTestSSLModeEnvVar, defaultDBTestSSLMode),
			User:     os.Getenv(dbTestUserEnvVar),
		}
	}

	return &postgres.CxnConfig{
		URL:      os.Getenv(dbURLEnvVar),
		Host:     junction.EnvVarOrString(dbHostEnvVar, defaultDBHost),
		Name:     os.Getenv(dbNameEnvVar),
		Password: os.Getenv(dbPassEnvVar),
		Port:     junction.EnvVarOrString(dbPortEnvVar, defaultDBPort),
		SSLMode:  junction.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
		User:     os.Getenv(dbUserEnvVar),
	}
}

// defaultLogger constructs a logger.Logger at the level LOG_LEVEL names.
// When SENTRY_DSN is set, errors are reported to Sentry.
func defaultLogger(env junction.Environment) logger.Logger {
	return logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(junction.EnvVarOrLogLevel(logLevelEnvVar, defaultLogLvl)),
	)
}

// defaultStore constructs the stack.Store HISTORY_STORE names.
// Environments that cannot use service stubs default to Redis, the rest to memory.
//
// The returned func releases the store's connections.
func defaultStore(env junction.Environment) (stack.Store, func() error, error) {
	def := HistoryStoreRedis
	if env.CanUseServiceStub() {
		def = HistoryStoreMemory
	}

	noop := func() error { return nil }
	switch kind := strings.ToLower(junction.EnvVarOrString(historyStoreEnvVar, def)); kind {
	case HistoryStoreMemory:
		return stack.NewMemoryStore(), noop, nil

	case HistoryStoreRedis:
		ttl := junction.EnvVarOrDuration(historyTTLEnvVar, defaultHistoryTTL)
		s, err := stack.NewRedisStoreURL(junction.EnvVarOrString(redisURLEnvVar, defaultRedisURL), ttl)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case HistoryStorePostgres:
		db, err := postgres.Connect(NewPostgresConfig(env), postgres.Migrations(), env)
		if err != nil {
			return nil, nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", junction.ErrUnexpected, err)
		}
		return postgres.NewHistoryStore(db), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s %q", junction.ErrNotValid, historyStoreEnvVar, kind)
	}
}

// defaultRouterOpts configures a route.Router from ROOT_PATH, IGNORE_TRAILING_SLASH and TRACE_RESOLUTION.
// Traces become OpenTelemetry spans through the globally registered tracer provider.
func defaultRouterOpts(ctx context.Context, l logger.Logger) []route.Option {
	opts := []route.Option{
		route.WithContext(ctx),
		route.WithLogger(l),
		route.WithRootPath(junction.EnvVarOrString(rootPathEnvVar, defaultRootPath)),
		route.WithIgnoreTrailingSlash(junction.EnvVarOrBool(ignoreTrailingSlashEnvVar, false)),
	}

	if junction.EnvVarOrBool(traceEnvVar, false) {
		opts = append(opts, route.WithTrace(route.TraceSpans(otel.Tracer("github.com/xy-planning-network/junction"))))
	}

	return opts
}

// LogHandler logs every call it handles.
// It serves every route of a manifest the app supplies no handler for.
func LogHandler(l logger.Logger) route.Handler {
	return route.HandlerFunc(func(ctx context.Context, c *route.Call) error {
		l.Info("navigated", &logger.LogContext{
			CallID: c.ID,
			Route:  c.Route.Path(),
			Data: map[string]any{
				"hops":       c.Hops,
				"method":     c.Method().String(),
				"parameters": c.Parameters,
				"uri":        c.URI,
			},
		})
		return nil
	})
}

// defaultHandler assembles the control surface:
// the navigation routes and the metrics endpoint behind the standard middleware chain.
func defaultHandler(env junction.Environment, l logger.Logger, nav *stack.Navigator, reg *prometheus.Registry) http.Handler {
	r := control.NewRouter(env)
	r.OnEveryRequest(
		middleware.ForceHTTPS(env),
		middleware.InjectIPAddress(),
		middleware.RateLimit(middleware.NewVisitors(
			float64(junction.EnvVarOrInt(rateLimitEnvVar, defaultRateLimit)),
			junction.EnvVarOrInt(rateBurstEnvVar, defaultRateBurst),
		)),
		middleware.RequestID(),
		middleware.LogRequest(l),
	)

	r.HandleRoutes(control.NewHandler(nav, l).Routes())
	r.Handle(control.Route{
		Path:    metricsPath,
		Method:  http.MethodGet,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP,
	})

	return middleware.Chain(r, middleware.CORS(junction.EnvVarOrString(corsOriginEnvVar, "")))
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := junction.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  junction.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  junction.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: junction.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
