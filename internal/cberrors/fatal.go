// Package cberrors implements the runtime's error-handling policy
// (spec.md §7): most faults are not recoverable without breaking
// cross-peer determinism, so the default response to anything beyond a
// stale RawID lookup is to log and exit rather than retry.
package cberrors

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/luxfi/log"
)

// Fatal logs err at Error level through logger and exits the process
// with a non-zero status. It is the runtime's response to every error
// class spec.md §7 marks "panic"/"abort": a corrupted mmap, a failed
// peer connect, a broken read on an established peer connection.
func Fatal(logger log.Logger, context string, err error) {
	logger.Error(fmt.Sprintf("%s: %v", context, err))
	os.Exit(1)
}

// RecoverHandlerPanic is deferred around the turn loop that dispatches
// handlers (cityrund's run defers it once, before the loop starts).
// If a handler panics, it logs the panic value and a stack trace through
// logger, then exits — deterministic lockstep across peers is void once
// one peer's handler state diverges from a panic, so the process must
// not attempt to continue (spec.md §7 "handler panic").
func RecoverHandlerPanic(logger log.Logger) {
	if r := recover(); r != nil {
		logger.Error(fmt.Sprintf("handler panic: %v\n%s", r, debug.Stack()))
		os.Exit(1)
	}
}
