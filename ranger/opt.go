package ranger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/manifest"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require components the *Ranger builds from defaults
// and thus an OptFollowup can be returned in order to be called once they exist.
//
// WithLogger is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithRoutes is an example of the second.
// The routes are registered only when the closure it returns is called,
// after the router is constructed.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the junction app.
// Asynchronous navigation runs under it.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("%w: nil context", junction.ErrMissingData)
		}

		rng.ctx = ctx
		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the default Environment is set to Development.
func WithEnv(envVar string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		e := junction.Environment(envVar)
		if err := e.Valid(); err != nil {
			e = junction.EnvVarOrEnv(environmentEnvVar, junction.Development)
		}

		rng.env = e
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the junction app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("%w: nil logger", junction.ErrMissingData)
		}

		rng.l = l
		return nil, nil
	}
}

// WithManifest builds the router from m, running the routes m declares with handlers.
func WithManifest(m manifest.Manifest, handlers manifest.Handlers) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if err := m.Validate(); err != nil {
			return nil, err
		}

		rng.manifest = &m
		rng.handlers = handlers
		return nil, nil
	}
}

// WithRegistry registers the junction app's metrics with reg
// and serves them from the control surface.
func WithRegistry(reg *prometheus.Registry) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if reg == nil {
			return nil, fmt.Errorf("%w: nil registry", junction.ErrMissingData)
		}

		rng.registry = reg
		return nil, nil
	}
}

// WithRouter exposes the provided *route.Router to the junction app,
// overriding any router configured from the environment or a manifest.
func WithRouter(r *route.Router) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if r == nil {
			return nil, fmt.Errorf("%w: nil router", junction.ErrMissingData)
		}

		rng.router = r
		return nil, nil
	}
}

// WithRoutes constructs a followup option that, when called,
// configures the junction app's router with build.
func WithRoutes(build func(r *route.Router) error) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error { return build(rng.router) }, nil
	}
}

// WithServer exposes the *http.Server to the junction app.
// The control surface becomes its handler.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: nil server", junction.ErrMissingData)
		}

		rng.srv = s
		return nil, nil
	}
}

// WithStore persists navigation history to s under key.
func WithStore(s stack.Store, key string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: nil store", junction.ErrMissingData)
		}

		rng.store = s
		rng.storeKey = key
		return nil, nil
	}
}
