package middleware

import (
	"net/http"
	"net/url"

	"github.com/xy-planning-network/junction"
)

// ForceHTTPS redirects HTTP requests to HTTPS unless env can use service stubs.
//
// The "X-Forwarded-Proto" is used to check whether HTTP was requested
// due to the control surface running behind a proxy.
func ForceHTTPS(env junction.Environment) Adapter {
	if env.CanUseServiceStub() {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Forwarded-Proto") == "https" {
				handler.ServeHTTP(w, r)
				return
			}

			u := new(url.URL)
			*u = *r.URL
			u.Scheme = "https"
			u.Host = r.Host

			http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		})
	}
}
