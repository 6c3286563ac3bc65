package route

import "context"

// A Handler does the work a resolved destination stands for.
type Handler interface {
	Handle(ctx context.Context, c *Call) error
}

// HandlerFunc adapts an ordinary function into a Handler.
type HandlerFunc func(ctx context.Context, c *Call) error

func (f HandlerFunc) Handle(ctx context.Context, c *Call) error { return f(ctx, c) }

// An Adapter wraps a Handler with behavior that runs around it.
type Adapter func(Handler) Handler

// Chain wraps h with adapters so the first adapter runs outermost.
func Chain(h Handler, adapters ...Adapter) Handler {
	for i := len(adapters) - 1; i >= 0; i-- {
		h = adapters[i](h)
	}
	return h
}

// sequence runs its handlers in order, stopping at the first error.
type sequence []Handler

func (s sequence) Handle(ctx context.Context, c *Call) error {
	for _, h := range s {
		if err := h.Handle(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
