// Package klog is a thin per-subsystem wrapper over stdlib log.Logger, in
// the style of the retrieval pack's stdlib-log-only diagnostics (no
// third-party structured logger appears anywhere in the corpus). Each layer
// gets its own prefixed logger so warnings about dropped state or invariant
// violations are traceable to their source without adding a logging
// dependency spec.md never calls for.
package klog

import (
	"log"
	"os"
)

// New returns a logger prefixed with "[subsystem] ", writing to stderr.
func New(subsystem string) *log.Logger {
	return log.New(os.Stderr, "["+subsystem+"] ", log.LstdFlags)
}
