// Package monitoring carries diagnostic logging and the user-facing outcome
// reports returned by the component adapters.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf; the
// CLI replaces it with a zap sugared logger and tests may mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
