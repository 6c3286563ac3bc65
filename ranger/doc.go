/*
Package ranger initializes and manages a junction app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New] and any [RangerOption]s.
Every component no option supplies is built from environment variables:
a [route.Router], a [stack.Navigator] persisting history to a [stack.Store],
a Prometheus registry recording navigation metrics
and the HTTP control surface driving the navigator.

[*Ranger.Guide] begins the control surface's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000).
Stop that web server with [*Ranger.Shutdown]
or send a signal [*Ranger.Guide] listens for.

# Configuration

A developer configures a junction app through environment variables
and by passing options to [New].

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - CORS_ORIGIN: the origin allowed to make cross-origin requests to the control surface; default: none
  - DATABASE_HOST: the host the database is running on; default: localhost
  - DATABASE_NAME: the name of the database
  - DATABASE_PASSWORD: the password for authenticating a connection to the database
  - DATABASE_PORT: the port the database is listening on; default: 5432
  - DATABASE_SSLMODE: the sslmode of connections to the database; default: prefer
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_USER: the user for authenticating a connection to the database
  - ENVIRONMENT: the environment the application is running in; cf. [junction.Environment]
  - HISTORY_KEY: the key navigation history is stored under; default: junction:history
  - HISTORY_STORE: one of memory, redis or postgres; default: memory in DEVELOPMENT and TESTING, redis otherwise
  - HISTORY_TTL: the expiry - as understood by [time.ParseDuration] - of history stored in Redis; default: none
  - IGNORE_TRAILING_SLASH: whether paths resolve regardless of a trailing slash; default: false
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - PORT: the port the application should listen on; default: :3000
  - RATE_BURST: the number of requests a client can make at once; default: 20
  - RATE_LIMIT: the number of requests per second a client can sustain; default: 5
  - REDIS_URL: the URL of the Redis server storing history; default: redis://localhost:6379/0
  - ROOT_PATH: the path all routes are mounted under; default: /
  - ROUTE_MANIFEST: a TOML file declaring the routes; cf. [manifest.Manifest]
  - SENTRY_DSN: the DSN errors are reported to Sentry with
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - TRACE_RESOLUTION: whether route resolution is traced as OpenTelemetry spans; default: false

When ENVIRONMENT is TESTING, the DATABASE_TEST_* counterparts configure the database instead.
*/
package ranger
