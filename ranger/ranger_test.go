package ranger_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/manifest"
	"github.com/xy-planning-network/junction/ranger"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

func quietLogger() logger.Logger {
	return logger.New(logger.WithLogger(log.New(io.Discard, "", 0)))
}

func TestNew(t *testing.T) {
	// Arrange
	t.Setenv("ROUTE_MANIFEST", "")
	var handled []string
	build := func(r *route.Router) error {
		_, err := r.HandleFunc("/a", func(_ context.Context, c *route.Call) error {
			handled = append(handled, c.URI)
			return nil
		}, route.Named("a"))
		return err
	}

	// Act
	rng, err := ranger.New(
		ranger.WithEnv(junction.Testing.String()),
		ranger.WithLogger(quietLogger()),
		ranger.WithStore(stack.NewMemoryStore(), "test"),
		ranger.WithRoutes(build),
	)

	// Assert
	require.Nil(t, err)
	require.Equal(t, junction.Testing, rng.Env())
	require.Contains(t, rng.EmitRouter().Names(), "a")

	w := httptest.NewRecorder()
	rng.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/navigate/push", strings.NewReader(`{"name":"a"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"/a"}, handled)
	require.Equal(t, 1, rng.EmitNavigator().Len())

	w = httptest.NewRecorder()
	rng.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `junction_stack_navigations_total{method="PUSH",status="ok"} 1`)

	entries, err := rng.EmitStore().Load(context.Background(), "test")
	require.Nil(t, err)
	require.Len(t, entries, 1)
}

func TestNewBadConfig(t *testing.T) {
	t.Setenv("ROUTE_MANIFEST", "")
	t.Setenv("HISTORY_STORE", "bogus")

	_, err := ranger.New(ranger.WithEnv(junction.Testing.String()), ranger.WithLogger(quietLogger()))
	require.ErrorIs(t, err, junction.ErrBadConfig)
}

func TestNewBadOption(t *testing.T) {
	_, err := ranger.New(ranger.WithRouter(nil))
	require.ErrorIs(t, err, junction.ErrBadConfig)

	_, err = ranger.New(
		ranger.WithEnv(junction.Testing.String()),
		ranger.WithLogger(quietLogger()),
		ranger.WithStore(stack.NewMemoryStore(), "test"),
		ranger.WithRoutes(func(r *route.Router) error {
			_, err := r.HandleFunc("/{}", func(context.Context, *route.Call) error { return nil })
			return err
		}),
	)
	require.ErrorIs(t, err, junction.ErrBadConfig)
}

func TestNewManifestEnvVar(t *testing.T) {
	// Arrange
	t.Setenv("ROUTE_MANIFEST", "testdata/routes.toml")

	// Act
	rng, err := ranger.New(
		ranger.WithEnv(junction.Testing.String()),
		ranger.WithLogger(quietLogger()),
		ranger.WithStore(stack.NewMemoryStore(), "test"),
	)

	// Assert
	require.Nil(t, err)
	names := rng.EmitRouter().Names()
	require.Len(t, names, 2)
	require.Contains(t, names, "home")
	require.Contains(t, names, "item")

	p, err := rng.EmitRouter().MapNameToPath("item", route.Parameters{"id": {"7"}})
	require.Nil(t, err)
	require.Equal(t, "/path/7", p)

	t.Setenv("ROUTE_MANIFEST", "testdata/missing.toml")
	_, err = ranger.New(ranger.WithEnv(junction.Testing.String()), ranger.WithLogger(quietLogger()))
	require.ErrorIs(t, err, junction.ErrBadConfig)
}

func TestWithManifest(t *testing.T) {
	// Arrange
	m, err := manifest.LoadFile("../manifest/testdata/routes.toml")
	require.Nil(t, err)

	var items []string
	item := route.HandlerFunc(func(_ context.Context, c *route.Call) error {
		items = append(items, c.URI)
		return nil
	})
	cart := route.HandlerFunc(func(context.Context, *route.Call) error { return nil })

	// Act
	rng, err := ranger.New(
		ranger.WithEnv(junction.Testing.String()),
		ranger.WithLogger(quietLogger()),
		ranger.WithManifest(m, manifest.Handlers{"item": item, "cart": cart}),
		ranger.WithStore(stack.NewMemoryStore(), "test"),
	)
	require.Nil(t, err)

	nav := rng.EmitNavigator()
	nav.PushNamed("item", route.Parameters{"id": {"3"}})
	nav.Flush()

	// Assert
	require.Equal(t, []string{"/path/3"}, items)
	require.Equal(t, 1, nav.Len())
}

func TestNewPostgresConfig(t *testing.T) {
	t.Setenv("DATABASE_NAME", "junction")
	t.Setenv("DATABASE_TEST_NAME", "junction_test")
	t.Setenv("DATABASE_TEST_PORT", "5433")

	cfg := ranger.NewPostgresConfig(junction.Testing)
	require.True(t, cfg.IsTestDB)
	require.Equal(t, "junction_test", cfg.Name)
	require.Equal(t, "5433", cfg.Port)
	require.Equal(t, "localhost", cfg.Host)

	cfg = ranger.NewPostgresConfig(junction.Production)
	require.False(t, cfg.IsTestDB)
	require.Equal(t, "junction", cfg.Name)
	require.Equal(t, "5432", cfg.Port)
	require.Equal(t, "prefer", cfg.SSLMode)
}

func TestShutdown(t *testing.T) {
	t.Setenv("ROUTE_MANIFEST", "")
	rng, err := ranger.New(
		ranger.WithEnv(junction.Testing.String()),
		ranger.WithLogger(quietLogger()),
		ranger.WithServer(&http.Server{Addr: ":0"}),
	)
	require.Nil(t, err)
	require.Nil(t, rng.Shutdown())
}
