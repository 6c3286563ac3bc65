package stack

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/route"
)

var _ route.Navigator = new(Navigator)

// A Navigator dispatches navigation calls through a route.Router
// and keeps the history of where they went.
//
// One lock covers resolving a call and recording its destination.
// Handlers run outside of it, so they may navigate again.
type Navigator struct {
	router  *route.Router
	ctx     context.Context
	logger  logger.Logger
	metrics *Metrics
	store   Store
	key     string

	mu    sync.Mutex
	stack *Stack
}

// An Option configures a Navigator.
type Option func(*Navigator) error

// WithContext sets the context asynchronous calls run under.
// The router's own context is used otherwise.
func WithContext(ctx context.Context) Option {
	return func(n *Navigator) error {
		if ctx == nil {
			return fmt.Errorf("%w: nil context", junction.ErrBadConfig)
		}
		n.ctx = ctx
		return nil
	}
}

// WithLogger sets the logger history persistence failures are reported to.
func WithLogger(l logger.Logger) Option {
	return func(n *Navigator) error {
		n.logger = l
		return nil
	}
}

// WithMetrics records navigation activity to m.
func WithMetrics(m *Metrics) Option {
	return func(n *Navigator) error {
		n.metrics = m
		return nil
	}
}

// WithStore persists history to s under key.
func WithStore(s Store, key string) Option {
	return func(n *Navigator) error {
		if s == nil {
			return fmt.Errorf("%w: nil store", junction.ErrBadConfig)
		}
		if key == "" {
			return fmt.Errorf("%w: history key", junction.ErrMissingData)
		}
		n.store = s
		n.key = key
		return nil
	}
}

// New constructs a Navigator dispatching through r.
// With a Store, history saved under its key is restored using ctx.
func New(ctx context.Context, r *route.Router, opts ...Option) (*Navigator, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil router", junction.ErrBadConfig)
	}

	n := &Navigator{router: r, ctx: context.Background(), logger: r.Logger(), stack: NewStack()}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if n.store != nil {
		entries, err := n.store.Load(ctx, n.key)
		if err != nil {
			return nil, err
		}
		n.stack = NewStack(entries...)
	}
	n.metrics.setDepth(n.stack.Len())

	return n, nil
}

// A CallOption adjusts a single navigation call.
type CallOption func(*route.Call)

// Neglect dispatches the call without recording it in history.
func Neglect() CallOption {
	return func(c *route.Call) { c.Neglect = true }
}

// IgnoreTrailingSlash resolves the call as if its destination had no trailing slash.
func IgnoreTrailingSlash() CallOption {
	return func(c *route.Call) { c.IgnoreTrailingSlash = true }
}

// Push navigates to path, adding it to history.
func (n *Navigator) Push(path string, params route.Parameters, opts ...CallOption) {
	n.Navigate(build(route.NewPathCall(route.KindPush, path, params), opts))
}

// PushNamed navigates to the named route, adding it to history.
func (n *Navigator) PushNamed(name string, params route.Parameters, opts ...CallOption) {
	n.Navigate(build(route.NewNameCall(route.KindPush, name, params), opts))
}

// Replace navigates to path in place of the most recent history entry.
func (n *Navigator) Replace(path string, params route.Parameters, opts ...CallOption) {
	n.Navigate(build(route.NewPathCall(route.KindReplace, path, params), opts))
}

// ReplaceNamed navigates to the named route in place of the most recent history entry.
func (n *Navigator) ReplaceNamed(name string, params route.Parameters, opts ...CallOption) {
	n.Navigate(build(route.NewNameCall(route.KindReplace, name, params), opts))
}

// ReplaceAll navigates to path, making it the only history entry.
func (n *Navigator) ReplaceAll(path string, params route.Parameters, opts ...CallOption) {
	c := route.NewPathCall(route.KindReplace, path, params)
	c.All = true
	n.Navigate(build(c, opts))
}

// ReplaceAllNamed navigates to the named route, making it the only history entry.
func (n *Navigator) ReplaceAllNamed(name string, params route.Parameters, opts ...CallOption) {
	c := route.NewNameCall(route.KindReplace, name, params)
	c.All = true
	n.Navigate(build(c, opts))
}

// Pop navigates back to the previous history entry and drops the most recent one.
// params override those the entry was recorded with.
func (n *Navigator) Pop(params route.Parameters, opts ...CallOption) {
	n.Navigate(build(route.Call{Kind: route.KindPop, Parameters: params}, opts))
}

func build(c route.Call, opts []CallOption) route.Call {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Navigate schedules call on the router's dispatch queue and returns immediately.
// Errors go to the router's ErrorHandler.
//
// Navigate implements route.Navigator, so handlers redirecting replace through n.
func (n *Navigator) Navigate(call route.Call) {
	caller := logger.CurrentCaller()
	call = call.Normalize()
	n.router.Schedule(func() {
		if err := n.Dispatch(n.ctx, call); err != nil {
			n.router.HandleError(call, caller, err)
		}
	})
}

// Submit schedules call like Navigate,
// delivering the outcome of dispatching it on the returned channel instead of the ErrorHandler.
// Waiting on the channel from a handler deadlocks.
func (n *Navigator) Submit(call route.Call) <-chan error {
	done := make(chan error, 1)
	call = call.Normalize()
	n.router.Schedule(func() {
		done <- n.Dispatch(n.ctx, call)
	})
	return done
}

// Dispatch resolves call, updates history and runs the resolved handlers,
// all on the calling goroutine.
//
// A pop resolves the entry it returns to and drops the entry that was most recent
// when it started, only once the handlers succeed and only if that entry is still recorded. A pop with no history does nothing.
// A neglected call leaves history untouched.
func (n *Navigator) Dispatch(ctx context.Context, call route.Call) error {
	call = call.Normalize()

	n.mu.Lock()
	var dropped uint64
	if call.Kind == route.KindPop {
		// The entry the pop drops is fixed now; calls dispatched while
		// the handlers run may push over it.
		dropped, _ = n.stack.top()
		target, ok := n.stack.Previous()
		if !ok {
			n.mu.Unlock()
			n.metrics.navigated(call, statusNoop)
			return nil
		}

		params := target.Parameters.Clone()
		params.Override(call.Parameters)
		call.Path = target.URI
		call.Name = ""
		call.Parameters = params
	}

	res, err := n.router.Resolve(call)
	if errors.Is(err, route.ErrDisposed) {
		n.mu.Unlock()
		n.metrics.navigated(call, statusNoop)
		return nil
	}
	if err != nil {
		n.mu.Unlock()
		n.metrics.navigated(call, statusError)
		return err
	}

	if !call.Neglect {
		n.record(ctx, call, res)
	}
	n.mu.Unlock()

	c := call
	if err := res.Run(ctx, &c, n); err != nil {
		n.metrics.navigated(call, statusError)
		return err
	}

	if call.Kind == route.KindPop && !call.Neglect {
		n.mu.Lock()
		if n.stack.remove(dropped) {
			n.commit(ctx)
		}
		n.mu.Unlock()
	}

	n.metrics.navigated(call, statusOK)
	return nil
}

// record applies the history transition for call; n.mu must be held.
func (n *Navigator) record(ctx context.Context, call route.Call, res route.Resolution) {
	e := Entry{
		Name:        call.Name,
		RouteMethod: call.Method(),
		URI:         res.URI,
		Parameters:  res.Parameters.Clone(),
	}

	switch call.Kind {
	case route.KindPush:
		n.stack.Push(e)
	case route.KindReplace:
		if call.All {
			n.stack.ReplaceAll(e)
		} else {
			n.stack.Replace(e)
		}
	default:
		return
	}

	n.commit(ctx)
}

// commit persists history; n.mu must be held.
func (n *Navigator) commit(ctx context.Context) {
	n.metrics.setDepth(n.stack.Len())
	if n.store == nil {
		return
	}

	if err := n.store.Save(ctx, n.key, n.stack.Entries()); err != nil {
		n.logger.Error("saving navigation history failed", &logger.LogContext{
			Data:  map[string]any{"key": n.key, "depth": n.stack.Len()},
			Error: err,
		})
	}
}

// Entries returns a copy of history, oldest first.
func (n *Navigator) Entries() []Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack.Entries()
}

// Peek returns the most recent history entry.
func (n *Navigator) Peek() (Entry, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	e, ok := n.stack.Peek()
	if ok {
		e.Parameters = e.Parameters.Clone()
	}
	return e, ok
}

// Len returns the number of history entries.
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack.Len()
}

// Flush blocks until every scheduled call has run.
func (n *Navigator) Flush() { n.router.Flush() }

// Router returns the router n dispatches through.
func (n *Navigator) Router() *route.Router { return n.router }
