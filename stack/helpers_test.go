package stack_test

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

func quietLogger() logger.Logger {
	return logger.New(logger.WithLogger(log.New(io.Discard, "", 0)))
}

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
		rec.calls = append(rec.calls, route.Call{
			ID:         c.ID,
			Kind:       c.Kind,
			URI:        c.URI,
			Parameters: c.Parameters.Clone(),
			Neglect:    c.Neglect,
			Hops:       c.Hops,
		})
		rec.marks = append(rec.marks, mark)
		return nil
	}
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

// newRouter registers /a, /b and /path/{id} named "item".
func newRouter(t *testing.T, rec *recorder, opts ...route.Option) *route.Router {
	t.Helper()

	r, err := route.New(append([]route.Option{route.WithLogger(quietLogger())}, opts...)...)
	require.Nil(t, err)

	_, err = r.Handle("/a", rec.handler("a"))
	require.Nil(t, err)
	_, err = r.Handle("/b", rec.handler("b"))
	require.Nil(t, err)
	_, err = r.Handle("/path/{id}", rec.handler("item"), route.Named("item"))
	require.Nil(t, err)

	return r
}

func uris(entries []stack.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.URI
	}
	return out
}
