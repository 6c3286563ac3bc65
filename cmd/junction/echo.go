package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/route"
)

// echo constructs a route.Handler printing the calls it receives.
func echo(w io.Writer, name string) route.Handler {
	if name == "" {
		name = "default"
	}

	return route.HandlerFunc(func(_ context.Context, c *route.Call) error {
		faint.Fprintf(w, "  → %s ", name)
		fmt.Fprintf(w, "%s %s\n", c.Method(), c.URI)
		return nil
	})
}

// parseParams reads key=value pairs into route.Parameters.
// A repeated key collects every value.
func parseParams(pairs []string) (route.Parameters, error) {
	params := make(route.Parameters)
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: parameter %q is not key=value", junction.ErrNotValid, pair)
		}
		params.Add(k, v)
	}
	return params, nil
}

// parseQuery reads a query string into route.Parameters.
func parseQuery(q string) (route.Parameters, error) {
	if q == "" {
		return nil, nil
	}

	vals, err := url.ParseQuery(q)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", junction.ErrNotValid, err)
	}
	return route.Parameters(vals), nil
}

func printParams(w io.Writer, params route.Parameters) {
	for _, k := range params.Names() {
		info(w, "%s = %s", k, strings.Join(params.All(k), ", "))
	}
}
