package logger

import "log"

// A LoggerOptFn is a functional option configuring a JunctionLogger when constructing a new one.
type LoggerOptFn func(*JunctionLogger)

// WithEnv sets the environment JunctionLogger is operating in.
func WithEnv(env string) LoggerOptFn {
	return func(l *JunctionLogger) {
		l.env = env
	}
}

// WithLevel sets the log level JunctionLogger uses.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *JunctionLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger JunctionLogger writes to.
func WithLogger(log *log.Logger) LoggerOptFn {
	return func(l *JunctionLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *JunctionLogger) {
		l.skip = skip
	}
}
