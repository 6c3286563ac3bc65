package route_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/route"
)

func TestExecuteChain(t *testing.T) {
	// Arrange
	rec := new(recorder)
	r := newRouter(t)
	r.Use(func(next route.Handler) route.Handler {
		return route.HandlerFunc(func(ctx context.Context, c *route.Call) error {
			rec.mark("outer")
			return next.Handle(ctx, c)
		})
	})

	n, err := r.Handle("/a", rec.handler("first"))
	require.Nil(t, err)
	n.Handle(rec.handler("second"))

	call := route.NewPathCall(route.KindExecute, "/a", nil)

	// Act
	err = r.Execute(context.Background(), call)

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"outer", "first", "second"}, rec.Marks())

	// Arrange
	n.Use(func(next route.Handler) route.Handler {
		return route.HandlerFunc(func(ctx context.Context, c *route.Call) error {
			rec.mark("inner")
			return next.Handle(ctx, c)
		})
	})
	n.Handle(rec.handler("third"))

	// Act
	err = r.Execute(context.Background(), call)

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"outer", "first", "second", "outer", "inner", "first", "second", "third"}, rec.Marks())
}

func TestExecuteStopsAtError(t *testing.T) {
	// Arrange
	rec := new(recorder)
	boom := errors.New("boom")
	r := newRouter(t)
	n, err := r.Handle("/a", rec.handler("first"))
	require.Nil(t, err)
	n.HandleFunc(func(context.Context, *route.Call) error { return boom })
	n.Handle(rec.handler("never"))

	// Act
	err = r.Execute(context.Background(), route.NewPathCall(route.KindExecute, "/a", nil))

	// Assert
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"first"}, rec.Marks())
}

func TestExecutePanics(t *testing.T) {
	// Arrange
	r := newRouter(t)
	_, err := r.HandleFunc("/a", func(context.Context, *route.Call) error { panic("oops") })
	require.Nil(t, err)

	// Act
	err = r.Execute(context.Background(), route.NewPathCall(route.KindExecute, "/a", nil))

	// Assert
	require.ErrorIs(t, err, junction.ErrUnexpected)
	require.Contains(t, err.Error(), "oops")
}

func TestExecuteSetsCall(t *testing.T) {
	// Arrange
	var c *route.Call
	r := newRouter(t)
	n, err := r.HandleFunc("/users/{id}", func(_ context.Context, call *route.Call) error {
		c = call
		return nil
	}, route.Named("user"))
	require.Nil(t, err)

	// Act
	err = r.Execute(context.Background(), route.NewNameCall(route.KindPush, "user", route.Parameters{"id": {"42"}}))

	// Assert
	require.Nil(t, err)
	require.NotNil(t, c)
	require.Equal(t, "/users/42", c.URI)
	require.Same(t, n, c.Route)
	require.Equal(t, route.Parameters{"id": {"42"}}, c.Parameters)
	require.Equal(t, route.MethodPush, c.Method())
	require.ErrorIs(t, c.RedirectToPath("/elsewhere"), route.ErrNotInHandler)
}

func TestNavigateFIFO(t *testing.T) {
	// Arrange
	var (
		mu    sync.Mutex
		order []string
	)
	r := newRouter(t)
	_, err := r.HandleFunc("/n/{i}", func(_ context.Context, c *route.Call) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, c.Parameters.Get("i"))
		return nil
	})
	require.Nil(t, err)

	var expected []string
	for i := 0; i < 100; i++ {
		expected = append(expected, fmt.Sprint(i))
	}

	// Act
	for _, i := range expected {
		r.Navigate(route.NewPathCall(route.KindPush, "/n/"+i, nil))
	}
	r.Flush()

	// Assert
	require.Equal(t, expected, order)
}

func TestNavigateReentrant(t *testing.T) {
	// Arrange
	rec := new(recorder)
	r := newRouter(t)
	_, err := r.HandleFunc("/first", func(ctx context.Context, c *route.Call) error {
		rec.mark("first")
		r.Navigate(route.NewPathCall(route.KindPush, "/second", nil))
		return nil
	})
	require.Nil(t, err)
	_, err = r.Handle("/second", rec.handler("second"))
	require.Nil(t, err)

	// Act
	r.Navigate(route.NewPathCall(route.KindPush, "/first", nil))
	r.Flush()

	// Assert
	require.Equal(t, []string{"first", "second"}, rec.Marks())
}

func TestScheduleLogsPanic(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	rec := new(recorder)
	r, err := route.New(route.WithLogger(logger.New(logger.WithLogger(log.New(&buf, "", 0)))))
	require.Nil(t, err)

	// Act
	r.Schedule(func() { panic("boom") })
	r.Schedule(func() { rec.mark("after") })
	r.Flush()

	// Assert
	require.Equal(t, []string{"after"}, rec.Marks())
	require.Contains(t, buf.String(), "dispatch task panicked")
	require.Contains(t, buf.String(), junction.ErrUnexpected.Error()+": panic: boom")
}

func TestRedirect(t *testing.T) {
	// Arrange
	rec := new(recorder)
	r := newRouter(t)
	_, err := r.HandleFunc("/old", func(_ context.Context, c *route.Call) error {
		return c.RedirectToPath("/older")
	})
	require.Nil(t, err)
	_, err = r.HandleFunc("/older", func(_ context.Context, c *route.Call) error {
		return c.RedirectToName("new", route.Parameters{"id": {"1"}})
	})
	require.Nil(t, err)
	_, err = r.Handle("/new/{id}", rec.handler("new"), route.Named("new"))
	require.Nil(t, err)

	// Act
	r.Navigate(route.NewPathCall(route.KindPush, "/old", nil))
	r.Flush()

	// Assert
	calls := rec.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, 2, calls[0].Hops)
	require.Equal(t, route.KindReplace, calls[0].Kind)
	require.Equal(t, route.MethodReplace, calls[0].Method())
	require.Equal(t, "/new/1", calls[0].URI)
}

func TestNavigateErrors(t *testing.T) {
	// Arrange
	var (
		mu   sync.Mutex
		errs []error
	)
	r := newRouter(t, route.WithErrorHandler(func(_ context.Context, _ route.Call, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}))
	_, err := r.HandleFunc("/named/{id}", noop, route.Named("named"))
	require.Nil(t, err)

	// Act
	r.Navigate(route.NewPathCall(route.KindPush, "/missing", nil))
	r.Navigate(route.NewNameCall(route.KindPush, "named", nil))
	r.Navigate(route.NewPathCall(route.KindPush, "", nil))
	r.Flush()

	// Assert
	require.Len(t, errs, 3)
	require.ErrorIs(t, errs[0], route.ErrRouteNotFound)
	require.ErrorIs(t, errs[1], route.ErrMissingParameter)
	require.ErrorIs(t, errs[2], route.ErrBadDestination)
}

func TestNavigateAfterDispose(t *testing.T) {
	// Arrange
	var (
		mu   sync.Mutex
		errs []error
	)
	rec := new(recorder)
	parent := newRouter(t)
	child := newRouter(t,
		route.WithParent(parent),
		route.WithRootPath("/settings"),
		route.WithErrorHandler(func(_ context.Context, _ route.Call, err error) {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
		}),
	)
	_, err := child.Handle("/profile", rec.handler("profile"))
	require.Nil(t, err)

	gate := make(chan struct{})
	child.Schedule(func() { <-gate })

	// Act
	child.Navigate(route.NewPathCall(route.KindPush, "/settings/profile", nil))
	child.Dispose()
	parent.Dispose()
	close(gate)
	child.Flush()

	// Assert
	require.Empty(t, rec.Marks())
	require.Empty(t, errs)
}

func TestCallMethod(t *testing.T) {
	tcs := []struct {
		call     route.Call
		expected route.Method
	}{
		{route.Call{Kind: route.KindExecute}, route.MethodEmpty},
		{route.Call{Kind: route.KindPush}, route.MethodPush},
		{route.Call{Kind: route.KindReplace}, route.MethodReplace},
		{route.Call{Kind: route.KindReplace, All: true}, route.MethodReplaceAll},
		{route.Call{Kind: route.KindRedirect}, route.MethodReplace},
		{route.Call{Kind: route.KindPop}, route.MethodPop},
	}

	for _, tc := range tcs {
		t.Run(tc.call.Kind.String(), func(t *testing.T) {
			require.Equal(t, tc.expected, tc.call.Method())
			require.Nil(t, tc.expected.Valid())
		})
	}

	require.ErrorIs(t, route.Method("JUMP").Valid(), junction.ErrNotValid)

	require.Equal(t, route.KindExecute, route.MethodEmpty.Kind())
	require.Equal(t, route.KindPush, route.MethodPush.Kind())
	require.Equal(t, route.KindReplace, route.MethodReplace.Kind())
	require.Equal(t, route.KindReplace, route.MethodReplaceAll.Kind())
	require.Equal(t, route.KindPop, route.MethodPop.Kind())

	normalized := route.Call{Kind: route.KindRedirect}.Normalize()
	require.Equal(t, route.KindReplace, normalized.Kind)
	require.NotEmpty(t, normalized.ID)
}

func TestExecuteStashesCallID(t *testing.T) {
	// Arrange
	var stashed any
	r := newRouter(t)
	_, err := r.HandleFunc("/a", func(ctx context.Context, _ *route.Call) error {
		stashed = ctx.Value(junction.CallIDKey)
		return nil
	})
	require.Nil(t, err)
	call := route.NewPathCall(route.KindExecute, "/a", nil)

	// Act
	err = r.Execute(context.Background(), call)

	// Assert
	require.Nil(t, err)
	require.Equal(t, call.ID, stashed)
}
