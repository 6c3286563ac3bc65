/*
The middleware package defines what a middleware is in junction and the set of middlewares
guarding the navigation control surface.

The available middlewares are:
- CORS
- ForceHTTPS
- InjectIPAddress
- LogRequest
- RateLimit
- ReportPanic
- RequestID

A typical chain looks like:

	adpts := []middleware.Adapter{
		middleware.ReportPanic(env),
		middleware.ForceHTTPS(env),
		middleware.InjectIPAddress(),
		middleware.RateLimit(middleware.NewVisitors(5, 20)),
		middleware.RequestID(),
		middleware.LogRequest(log),
		middleware.CORS(origin),
	}
*/
package middleware
