package core

import "fmt"

// Assert panics with a formatted message and source location when cond
// is false. It models spec.md's "contract violation" error kind: an
// assertion that is unreachable in correct code and is never
// catchable as a domain error.
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(fmt.Sprintf("assertion failed: %s", fmt.Sprintf(format, args...)))
}
