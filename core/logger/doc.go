// Package logger builds the zap logger shared by every command.
//
// The debug level selects zap's development preset; any other level uses
// the production preset at that level. Format "console" switches to the
// colored console encoder, anything else logs JSON.
//
// WithRayID tags a logger with the ray id the rayid middleware stored on
// the Fiber context:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
