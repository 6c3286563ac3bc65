package route

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
	"go.uber.org/atomic"
)

// An ErrorHandler receives errors raised while dispatching a call asynchronously.
type ErrorHandler func(ctx context.Context, c Call, err error)

// A Router owns a route tree, the names registered in it and,
// when it has a parent, its mirror in the parent's tree.
type Router struct {
	root     *Node
	rootPath string
	parent   *Router

	ctx                 context.Context
	errorHandler        ErrorHandler
	exec                *executor
	ignoreTrailingSlash bool
	logger              logger.Logger

	disposed atomic.Bool

	mu      sync.Mutex
	mounts  []*mount
	names   map[string]*Node
	paths   map[string]string
	tracers []TraceFunc
}

// An Option configures a Router when constructing it.
type Option func(*Router) error

// WithContext sets the context asynchronous dispatch runs handlers with.
func WithContext(ctx context.Context) Option {
	return func(r *Router) error {
		if ctx == nil {
			return fmt.Errorf("%w: nil context", junction.ErrBadConfig)
		}
		r.ctx = ctx
		return nil
	}
}

// WithErrorHandler sets the ErrorHandler receiving asynchronous dispatch errors.
// By default, errors are logged.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) error {
		r.errorHandler = h
		return nil
	}
}

// WithIgnoreTrailingSlash makes destinations resolve the same with or without a trailing slash.
func WithIgnoreTrailingSlash(ignore bool) Option {
	return func(r *Router) error {
		r.ignoreTrailingSlash = ignore
		return nil
	}
}

// WithLogger sets the logger.Logger a Router uses.
func WithLogger(l logger.Logger) Option {
	return func(r *Router) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", junction.ErrBadConfig)
		}
		r.logger = l
		return nil
	}
}

// WithParent nests a Router under parent.
// The Router mirrors its tree into parent's and delegates destinations it cannot resolve to parent.
func WithParent(parent *Router) Option {
	return func(r *Router) error {
		if parent == nil {
			return fmt.Errorf("%w: nil parent", junction.ErrBadConfig)
		}
		if parent.Disposed() {
			return fmt.Errorf("%w: parent %s", ErrDisposed, parent.AbsolutePath())
		}
		r.parent = parent
		return nil
	}
}

// WithRootPath sets the path a Router's routes sit under.
// For a Router with a parent, p is relative to the parent's root path.
func WithRootPath(p string) Option {
	return func(r *Router) error {
		if strings.ContainsAny(p, "{}*") {
			return fmt.Errorf("%w: %q must be constant", ErrInvalidRootPath, p)
		}
		r.rootPath = cleanPath(p)
		return nil
	}
}

// WithTrace registers fns to observe every resolution the Router attempts.
func WithTrace(fns ...TraceFunc) Option {
	return func(r *Router) error {
		r.tracers = append(r.tracers, fns...)
		return nil
	}
}

// New constructs a Router.
//
// A Router with a parent must have a root path other than "/";
// it shares its parent's dispatch queue and mounts itself into its parent's tree.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		ctx:      context.Background(),
		names:    make(map[string]*Node),
		paths:    make(map[string]string),
		rootPath: "/",
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.logger == nil {
		r.logger = logger.New()
	}

	if r.parent != nil {
		if r.rootPath == "/" {
			return nil, fmt.Errorf("%w: a router with a parent cannot sit at /", ErrInvalidRootPath)
		}
		r.exec = r.parent.exec
	} else {
		r.exec = newExecutor(r.logger)
	}

	r.root = newNode(RootSelector{Prefix: r.AbsolutePath()}, nil, r)
	if r.parent != nil {
		r.parent.mount(r)
	}

	return r, nil
}

// AbsolutePath returns the root path of r joined onto those of its ancestors.
func (r *Router) AbsolutePath() string {
	if r.parent == nil {
		return r.rootPath
	}
	return path.Join(r.parent.AbsolutePath(), r.rootPath)
}

// Disposed reports whether Dispose was called on r.
func (r *Router) Disposed() bool { return r.disposed.Load() }

// Logger returns the logger.Logger r uses.
func (r *Router) Logger() logger.Logger { return r.logger }

// Parent returns the Router r is nested under, if any.
func (r *Router) Parent() *Router { return r.parent }

// Root returns the root Node of r's tree.
func (r *Router) Root() *Node { return r.root }

// RootPath returns the root path r was configured with.
func (r *Router) RootPath() string { return r.rootPath }

// A RouteOption configures a route as Router.Handle registers it.
type RouteOption func(*routeConfig)

type routeConfig struct {
	method Method
	name   string
}

// Named registers the route under name.
func Named(name string) RouteOption {
	return func(c *routeConfig) { c.name = name }
}

// OnMethod restricts the route to calls made with m.
func OnMethod(m Method) RouteOption {
	return func(c *routeConfig) { c.method = m }
}

// Handle attaches h to the route at pattern, relative to r's root path.
// See ParsePattern for the pattern syntax.
func (r *Router) Handle(pattern string, h Handler, opts ...RouteOption) (*Node, error) {
	n, err := r.root.Route(pattern)
	if err != nil {
		return nil, err
	}
	return r.attach(n, h, opts)
}

// HandleFunc attaches f to the route at pattern.
func (r *Router) HandleFunc(pattern string, f func(ctx context.Context, c *Call) error, opts ...RouteOption) (*Node, error) {
	return r.Handle(pattern, HandlerFunc(f), opts...)
}

// HandleRegex attaches h to a route matching the whole destination against the regular expression pattern.
func (r *Router) HandleRegex(pattern string, h Handler, opts ...RouteOption) (*Node, error) {
	n, err := r.root.Regex(pattern)
	if err != nil {
		return nil, err
	}
	return r.attach(n, h, opts)
}

func (r *Router) attach(n *Node, h Handler, opts []RouteOption) (*Node, error) {
	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.method != "" {
		if err := cfg.method.Valid(); err != nil {
			return nil, fmt.Errorf("%w: method %q", err, cfg.method)
		}
		n = n.Method(cfg.method)
	}

	if cfg.name != "" {
		if err := r.RegisterNamed(cfg.name, n); err != nil {
			return nil, err
		}
	}

	n.Handle(h)
	r.remount()
	return n, nil
}

// Use wraps every route of r with adapters.
//
// A parent's adapters wrap a child's routes only when the parent resolves them,
// since the parent's tree holds the mirror they run through.
// Calls resolved by the child itself run the child's adapters alone.
func (r *Router) Use(adapters ...Adapter) {
	r.root.Use(adapters...)
	r.remount()
}

// Configure runs build against the root Node of r,
// then refreshes the mirror of r in its ancestors.
//
// Changes made through a Node outside Configure or Handle
// reach ancestor routers the next time either runs.
func (r *Router) Configure(build func(root *Node) error) error {
	err := build(r.root)
	r.remount()
	return err
}

// Trace registers fn to observe every resolution r attempts.
func (r *Router) Trace(fn TraceFunc) {
	r.mu.Lock()
	r.tracers = append(r.tracers, fn)
	r.mu.Unlock()
}

// Dispose detaches r from its parent and drops its routes and names.
// Calls already scheduled against r fall through to its live ancestors.
func (r *Router) Dispose() {
	if !r.disposed.CompareAndSwap(false, true) {
		return
	}

	if r.parent != nil {
		r.parent.unmount(r)
	}

	r.mu.Lock()
	r.mounts = nil
	r.names = make(map[string]*Node)
	r.paths = make(map[string]string)
	r.mu.Unlock()

	r.root.clear()
}

// live reports whether r or one of its ancestors is not disposed.
func (r *Router) live() bool {
	for cur := r; cur != nil; cur = cur.parent {
		if !cur.Disposed() {
			return true
		}
	}
	return false
}
