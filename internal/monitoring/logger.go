// Package monitoring holds the diagnostic logger shared by the wave pipeline.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. Readback failures, noise store
// misses and persistence errors are reported through it. Defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
