// Package invariant provides contract assertions for the parser internals.
//
// Every function panics on violation. A violation is a bug in this module,
// never a property of the Dockerfile being parsed: user text, however
// malformed, must not be able to reach a failing assertion.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
//
//	func (a Argument) slice(start, end int) string {
//	    invariant.Precondition(start <= end, "start %d after end %d", start, end)
//	    ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before returning.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks internal consistency, typically loop progress.
//
//	prev := l.pos
//	for l.pos < len(l.src) {
//	    l.step()
//	    invariant.Invariant(l.pos > prev, "lexer must advance")
//	    prev = l.pos
//	}
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// InRange panics if value is outside [minVal, maxVal]
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d",
			name, minVal, maxVal, value)
	}
}

func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}
	panic(msg)
}
