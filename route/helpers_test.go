package route_test

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/route"
)

func quietLogger() logger.Logger {
	return logger.New(logger.WithLogger(log.New(io.Discard, "", 0)))
}

func newRouter(t *testing.T, opts ...route.Option) *route.Router {
	t.Helper()

	r, err := route.New(append([]route.Option{route.WithLogger(quietLogger())}, opts...)...)
	require.Nil(t, err)
	return r
}

func noop(context.Context, *route.Call) error { return nil }

// recorder collects what handlers saw, safe to share with the dispatch queue.
type recorder struct {
	mu    sync.Mutex
	calls []route.Call
	marks []string
}

func (rec *recorder) handler(mark string) route.HandlerFunc {
	return func(_ context.Context, c *route.Call) error {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.calls = append(rec.calls, *c)
		rec.marks = append(rec.marks, mark)
		return nil
	}
}

func (rec *recorder) mark(mark string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.marks = append(rec.marks, mark)
}

func (rec *recorder) Marks() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.marks...)
}

func (rec *recorder) Calls() []route.Call {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]route.Call(nil), rec.calls...)
}
