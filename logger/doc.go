/*
Package logger provides logging functionality to a junction app by defining the required behavior in [Logger]
and providing an implementation of it with [JunctionLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, if [JunctionLogger] is initialized with [LogLevelWarn],
only [*JunctionLogger.Warn], [*JunctionLogger.Error], and [*JunctionLogger.Fatal] produce messages.

# JunctionLogger

Log messages emitted by [JunctionLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [ERROR] route/dispatch.go:43 'navigation failed' log_context: "{"call_id":"5f0c...","route":"/users/{id}","error":"..."}"

The call site is the file, line number, and parent directory of where the [JunctionLogger] was called,
unless [LogContext.Caller] overrides it.
Navigation calls run on a router's executor goroutine,
so routers capture the call site with [CurrentCaller] before scheduling work.

# SentryLogger

When SENTRY_DSN is set, [New] returns a [SentryLogger],
which ships errors attached to a [LogContext] at WARN or above to Sentry.

# SkipLogger

Sometimes, especially with internal packages, the file and line number in a log needs to be configurable.
[SkipLogger] provides additional configuration functionality by setting the number of frames to skip
back in order to reach the desired caller.
*/
package logger
