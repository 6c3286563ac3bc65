package ranger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/manifest"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

// A Ranger manages and exposes all components of a junction app to one another.
type Ranger struct {
	ctx    context.Context
	cancel context.CancelFunc

	env      junction.Environment
	handler  http.Handler
	handlers manifest.Handlers
	l        logger.Logger
	manifest *manifest.Manifest
	nav      *stack.Navigator
	registry *prometheus.Registry
	router   *route.Router
	srv      *http.Server
	store    stack.Store
	storeKey string
	closers  []func() error
}

// New constructs a Ranger from the provided options.
// Components no option supplies are built from environment variables.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	for _, opt := range opts {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", junction.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if err := r.defaults(); err != nil {
		r.abort()
		return nil, fmt.Errorf("%w: %s", junction.ErrBadConfig, err)
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			r.abort()
			return nil, fmt.Errorf("%w: %s", junction.ErrBadConfig, err)
		}
	}

	r.l.Debug("junction app configured", &logger.LogContext{Data: map[string]any{
		"env":       r.env.String(),
		"root_path": r.router.AbsolutePath(),
		"store":     fmt.Sprintf("%T", r.store),
	}})

	return r, nil
}

// defaults fills every component no option supplied, in dependency order.
func (r *Ranger) defaults() error {
	if r.ctx == nil {
		r.ctx = context.Background()
	}
	r.ctx, r.cancel = context.WithCancel(r.ctx)

	if r.env == "" {
		r.env = junction.EnvVarOrEnv(environmentEnvVar, junction.Development)
	}

	if r.l == nil {
		r.l = defaultLogger(r.env)
	}

	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	if r.router == nil {
		if err := r.defaultRouter(); err != nil {
			return err
		}
	}

	if r.store == nil {
		s, closer, err := defaultStore(r.env)
		if err != nil {
			return err
		}
		r.store = s
		r.closers = append(r.closers, closer)
	}

	if r.storeKey == "" {
		r.storeKey = junction.EnvVarOrString(historyKeyEnvVar, defaultHistoryKey)
	}

	nav, err := stack.New(r.ctx, r.router,
		stack.WithContext(r.ctx),
		stack.WithLogger(r.l),
		stack.WithMetrics(stack.NewMetrics(r.registry)),
		stack.WithStore(r.store, r.storeKey),
	)
	if err != nil {
		return err
	}
	r.nav = nav

	r.handler = defaultHandler(r.env, r.l, r.nav, r.registry)

	if r.srv == nil {
		r.srv = defaultServer(r.ctx)
	}
	r.srv.Handler = r.handler

	return nil
}

func (r *Ranger) defaultRouter() error {
	opts := defaultRouterOpts(r.ctx, r.l)

	m := r.manifest
	if m == nil {
		if path := os.Getenv(manifestEnvVar); path != "" {
			loaded, err := manifest.LoadFile(path)
			if err != nil {
				return err
			}
			m = &loaded
		}
	}

	if m == nil {
		rt, err := route.New(opts...)
		if err != nil {
			return err
		}
		r.router = rt
		return nil
	}

	// Handlers the app does not supply log the calls they receive.
	handlers := make(manifest.Handlers)
	for _, name := range m.HandlerNames() {
		handlers[name] = LogHandler(r.l)
	}
	for name, h := range r.handlers {
		handlers[name] = h
	}

	rt, err := m.Build(handlers, opts...)
	if err != nil {
		return err
	}
	r.router = rt
	return nil
}

// Env returns the Environment the junction app runs in.
func (r *Ranger) Env() junction.Environment { return r.env }

// Handler returns the control surface.
func (r *Ranger) Handler() http.Handler { return r.handler }

func (r *Ranger) EmitLogger() logger.Logger { return r.l }
func (r *Ranger) EmitNavigator() *stack.Navigator { return r.nav }
func (r *Ranger) EmitRegistry() *prometheus.Registry { return r.registry }
func (r *Ranger) EmitRouter() *route.Router { return r.router }
func (r *Ranger) EmitStore() stack.Store { return r.store }

// Guide begins the web server serving the control surface.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			r.cancel()
		case <-r.ctx.Done():
		}
	}()

	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			r.l.Error("could not listen", &logger.LogContext{Error: err})
			r.cancel()
		}
	}()

	<-r.ctx.Done()
	return r.Shutdown()
}

// Shutdown shuts down the web server, waits for scheduled navigation to finish
// and releases the history store.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		err = fmt.Errorf("could not shutdown: %w", err)
	} else {
		err = nil
	}

	r.nav.Flush()
	r.cancel()
	if cerr := r.close(); cerr != nil && err == nil {
		err = cerr
	}

	if err == nil {
		r.l.Info("web server shutdown successfully", nil)
	}
	return err
}

// abort releases what a failed New acquired.
func (r *Ranger) abort() {
	if r.cancel != nil {
		r.cancel()
	}
	r.close()
}

func (r *Ranger) close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: releasing history store: %s", junction.ErrUnexpected, cerr)
		}
	}
	r.closers = nil
	return err
}
