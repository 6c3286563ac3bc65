package middleware

import (
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/junction"
)

// ReportPanic recovers panics raised by the handler and reports them to Sentry.
//
// In environments that can use service stubs, NoopAdapter returns and this middleware does nothing.
func ReportPanic(env junction.Environment) Adapter {
	if env.CanUseServiceStub() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})
	return sh.Handle
}
