package middleware

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
)

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - password
// - token
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			junction.Mask(q, "password")
			junction.Mask(q, "token")

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(junction.IpAddrKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			var data map[string]any
			if id, ok := r.Context().Value(junction.RequestIDKey).(string); ok {
				data = map[string]any{"request_id": id}
			}

			ls.Info(strings.Join(strs, " "), &logger.LogContext{Data: data})
			h.ServeHTTP(w, r)
		})
	}
}
