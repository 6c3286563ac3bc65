package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/http/control"
	"github.com/xy-planning-network/junction/route"
)

const testManifest = "../../manifest/testdata/routes.toml"

func init() {
	color.NoColor = true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ROUTE_MANIFEST", testManifest)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRoutes(t *testing.T) {
	out, err := run(t, "routes")
	require.Nil(t, err)
	require.Contains(t, out, "files")
	require.Contains(t, out, "home")
	require.Contains(t, out, "item")
}

func TestMissingManifest(t *testing.T) {
	_, err := run(t, "routes", "--manifest", "")
	require.ErrorIs(t, err, junction.ErrMissingData)

	_, err = run(t, "routes", "--manifest", "testdata/missing.toml")
	require.ErrorIs(t, err, junction.ErrNotExist)
}

func TestPath(t *testing.T) {
	tcs := []struct {
		name     string
		args     []string
		expected string
	}{
		{"item", []string{"path", "item", "id=7"}, "/path/7\n"},
		{"files", []string{"path", "files", "path=a", "path=b"}, "/files/a/b\n"},
		{"home", []string{"path", "home"}, "/\n"},
		{"nested", []string{"path", "cart"}, "/shop/cart\n"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.args...)
			require.Nil(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestPathErrors(t *testing.T) {
	_, err := run(t, "path", "item", "id")
	require.ErrorIs(t, err, junction.ErrNotValid)

	_, err = run(t, "path", "nowhere")
	require.ErrorIs(t, err, route.ErrRouteNotFound)

	_, err = run(t, "path", "item")
	require.ErrorIs(t, err, route.ErrMissingParameter)
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", "/path/7")
	require.Nil(t, err)
	require.Contains(t, out, "✓ /path/7")
	require.Contains(t, out, "id = 7")
	require.Contains(t, out, "quality")

	_, err = run(t, "resolve", "/nowhere/at/all")
	require.ErrorIs(t, err, route.ErrRouteNotFound)

	_, err = run(t, "resolve", "/path/7", "--method", "sideways")
	require.ErrorIs(t, err, junction.ErrNotValid)

	_, err = run(t, "resolve", "/shop/cart", "--method", "push")
	require.Nil(t, err)
}

func TestNavigate(t *testing.T) {
	// Act
	out, err := run(t, "navigate", "push:/path/7", "push:@home", "pop")

	// Assert
	require.Nil(t, err)
	require.Contains(t, out, "→ item PUSH /path/7")
	require.Contains(t, out, "→ default PUSH /")
	require.Contains(t, out, "→ item POP /path/7")
	require.Contains(t, out, "✓ history (1)")
	require.Contains(t, out, "0  /path/7")
}

func TestNavigateNeglect(t *testing.T) {
	out, err := run(t, "navigate", "--neglect", "push:/path/7")
	require.Nil(t, err)
	require.Contains(t, out, "→ item PUSH /path/7")
	require.Contains(t, out, "history is empty")
}

func TestNavigateFailure(t *testing.T) {
	out, err := run(t, "navigate", "push:/path/7", "push:/nowhere/at/all")
	require.EqualError(t, err, "1 of 2 navigations failed")
	require.Contains(t, out, "✓ history (1)")

	_, err = run(t, "navigate", "jump:/path/7")
	require.ErrorIs(t, err, junction.ErrNotValid)

	_, err = run(t, "navigate", "pop:@home")
	require.ErrorIs(t, err, junction.ErrNotValid)
}

func TestParseStep(t *testing.T) {
	tcs := []struct {
		step     string
		verb     control.Verb
		expected control.NavigateRequest
	}{
		{"push:/a?b=c", control.VerbPush, control.NavigateRequest{Path: "/a?b=c"}},
		{"replace:@item?id=7", control.VerbReplace, control.NavigateRequest{Name: "item", Parameters: route.Parameters{"id": {"7"}}}},
		{"replace-all:@home", control.VerbReplaceAll, control.NavigateRequest{Name: "home"}},
		{"pop", control.VerbPop, control.NavigateRequest{}},
		{"pop:?tab=2", control.VerbPop, control.NavigateRequest{Parameters: route.Parameters{"tab": {"2"}}}},
	}

	for _, tc := range tcs {
		t.Run(tc.step, func(t *testing.T) {
			verb, req, err := parseStep(tc.step)
			require.Nil(t, err)
			require.Equal(t, tc.verb, verb)
			require.Equal(t, tc.expected, req)
		})
	}

	_, _, err := parseStep("push:@item?id=%zz")
	require.ErrorIs(t, err, junction.ErrNotValid)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.Nil(t, err)
	require.Equal(t, "dev\n", out)
}
