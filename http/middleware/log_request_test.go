package middleware_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/http/middleware"
	"github.com/xy-planning-network/junction/logger"
)

func TestLogRequest(t *testing.T) {
	// Arrange + Act
	actual := middleware.LogRequest(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange
	t.Setenv("SENTRY_DSN", "")
	b := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(log.New(b, "", 0)), logger.WithLevel(logger.LogLevelInfo))
	req := httptest.NewRequest(http.MethodPost, "/navigate/push?password=hunter2&path=/a", nil)
	ctx := context.WithValue(req.Context(), junction.IpAddrKey, "8.8.8.8")
	ctx = context.WithValue(ctx, junction.RequestIDKey, "req-1")

	// Act
	middleware.LogRequest(l)(NoopHandler()).ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	// Assert
	out := b.String()
	require.Contains(t, out, "8.8.8.8 POST /navigate/push?password="+junction.LogMaskVal)
	require.NotContains(t, out, "hunter2")
	require.Contains(t, out, "req-1")
}
