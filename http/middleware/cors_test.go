package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction/http/middleware"
)

func TestCORS(t *testing.T) {
	// Arrange
	h := middleware.CORS("https://example.com")(NoopHandler())
	req := httptest.NewRequest(http.MethodGet, "/stack", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, req)

	// Assert
	require.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))

	// Arrange
	req = httptest.NewRequest(http.MethodGet, "/stack", nil)
	req.Header.Set("Origin", "https://elsewhere.com")
	w = httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, req)

	// Assert
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestForceHTTPS(t *testing.T) {
	// Arrange
	h := middleware.ForceHTTPS("PRODUCTION")(NoopHandler())
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example.com/stack", nil))

	// Assert
	require.Equal(t, http.StatusPermanentRedirect, w.Code)
	require.Equal(t, "https://example.com/stack", w.Header().Get("Location"))

	// Arrange
	req := httptest.NewRequest(http.MethodGet, "http://example.com/stack", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	// Arrange
	w = httptest.NewRecorder()

	// Act
	middleware.ForceHTTPS("DEVELOPMENT")(NoopHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example.com/stack", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
}
