package route

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
)

// A Resolution is a call's destination matched to a route.
type Resolution struct {
	// Router owns the handlers of Route.
	Router     *Router
	Route      *Node
	URI        string
	Parameters Parameters
	Quality    float64
}

// Run executes the handlers of res.Route for c,
// stashing c.ID in ctx under junction.CallIDKey.
// While they run, c can redirect through via.
// A panicking handler surfaces as an error wrapping junction.ErrUnexpected.
func (res Resolution) Run(ctx context.Context, c *Call, via Navigator) (err error) {
	c.URI = res.URI
	c.Route = res.Route
	c.Parameters = res.Parameters
	c.nav = via

	defer func() {
		c.nav = nil
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: handler for %s panicked: %v", junction.ErrUnexpected, res.Route.Path(), rec)
		}
	}()

	ctx = context.WithValue(ctx, junction.CallIDKey, c.ID)
	return res.Route.handler().Handle(ctx, c)
}

// Resolve finds the route call addresses.
//
// A named call is first mapped to a path.
// The path resolves against r, then against each live ancestor of r in turn.
// Resolve fails with ErrDisposed when r and every ancestor are disposed.
//
// The resolved parameters are the call's own, then any from the query string not already supplied,
// then those bound by the route, which replace supplied values of the same name.
func (r *Router) Resolve(call Call) (Resolution, error) {
	if !r.live() {
		return Resolution{}, ErrDisposed
	}

	uri := call.Path
	if call.Name != "" {
		p, err := r.MapNameToPath(call.Name, call.Parameters)
		if err != nil {
			return Resolution{}, err
		}
		uri = p
	}

	segs, query, err := ParseDestination(uri, call.IgnoreTrailingSlash || r.ignoreTrailingSlash)
	if err != nil {
		return Resolution{}, err
	}

	ctx := &Context{Segments: segs, Method: call.Method()}
	reason := ""
	for cur := r; cur != nil; cur = cur.parent {
		if cur.Disposed() {
			continue
		}

		res := cur.resolve(ctx, uri)
		if !res.Succeeded() {
			if reason == "" {
				reason = res.Failure
			}
			continue
		}

		params := call.Parameters.Clone()
		for k, vals := range query {
			if !params.Has(k) {
				params.Set(k, vals...)
			}
		}
		params.Override(res.Parameters)

		return Resolution{
			Router:     res.Route.router,
			Route:      res.Route,
			URI:        uri,
			Parameters: params,
			Quality:    res.Quality,
		}, nil
	}

	return Resolution{}, fmt.Errorf("%w: %s", ErrRouteNotFound, reason)
}

func (r *Router) resolve(ctx *Context, uri string) Result {
	r.mu.Lock()
	tracers := append([]TraceFunc(nil), r.tracers...)
	r.mu.Unlock()

	var t *Trace
	if len(tracers) > 0 {
		t = &Trace{Router: r.AbsolutePath(), Destination: uri, Method: ctx.Method}
	}

	res := Resolve(r.root, ctx, t)
	for _, fn := range tracers {
		fn(r.ctx, t)
	}
	return res
}

// Execute resolves call and runs its handlers on the calling goroutine.
// Executing against a disposed family of routers does nothing.
func (r *Router) Execute(ctx context.Context, call Call) error {
	res, err := r.Resolve(call)
	if errors.Is(err, ErrDisposed) {
		return nil
	}
	if err != nil {
		return err
	}

	c := call
	return res.Run(ctx, &c, r)
}

// Navigate schedules call for execution and returns immediately.
// Calls run one at a time in the order they were scheduled,
// on a queue r shares with every Router nested with it.
// Errors go to r's ErrorHandler.
//
// Navigate implements Navigator.
func (r *Router) Navigate(call Call) {
	caller := logger.CurrentCaller()
	call = call.Normalize()
	r.Schedule(func() {
		if err := r.Execute(r.ctx, call); err != nil {
			r.HandleError(call, caller, err)
		}
	})
}

// Schedule appends task to r's dispatch queue.
func (r *Router) Schedule(task func()) {
	r.exec.submit(task)
}

// Flush blocks until r's dispatch queue is empty.
// Calling Flush from a handler deadlocks.
func (r *Router) Flush() {
	r.exec.flush()
}

// HandleError delivers err, raised dispatching c, to r's ErrorHandler.
// Without one, err is logged as coming from caller.
func (r *Router) HandleError(c Call, caller string, err error) {
	if r.errorHandler != nil {
		r.errorHandler(r.ctx, c, err)
		return
	}

	r.logger.Error("navigation failed", &logger.LogContext{
		Caller: caller,
		CallID: c.ID,
		Data: map[string]any{
			"destination": c.Destination(),
			"hops":        c.Hops,
			"kind":        c.Kind.String(),
		},
		Error: err,
	})
}

// executor runs tasks one at a time in submission order on a goroutine
// that lives only while the queue is not empty.
type executor struct {
	l       logger.Logger
	mu      sync.Mutex
	idle    *sync.Cond
	queue   []func()
	running bool
}

func newExecutor(l logger.Logger) *executor {
	e := &executor{l: l}
	e.idle = sync.NewCond(&e.mu)
	return e
}

func (e *executor) submit(task func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue = append(e.queue, task)
	if !e.running {
		e.running = true
		go e.drain()
	}
}

func (e *executor) drain() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.running = false
			e.idle.Broadcast()
			e.mu.Unlock()
			return
		}

		task := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.run(task)
	}
}

func (e *executor) flush() {
	e.mu.Lock()
	for e.running {
		e.idle.Wait()
	}
	e.mu.Unlock()
}

// run logs a task's panic and lets the queue carry on.
func (e *executor) run(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			e.l.Error("dispatch task panicked", &logger.LogContext{
				Caller: "executor.run",
				Error:  fmt.Errorf("%w: panic: %v", junction.ErrUnexpected, rec),
			})
		}
	}()
	task()
}
