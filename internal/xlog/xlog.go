// Package xlog is a debug-output gate for cmd/parquetdump, modeled on the
// teacher's internal/debug package. Library code never imports it; only the
// CLI toggles it on with --debug.
package xlog

import (
	"fmt"
	"os"
	"sync/atomic"
)

var enabled int32

// Enable turns debug output on or off. Disabled by default.
func Enable(on bool) {
	v := int32(0)
	if on {
		v = 1
	}
	atomic.StoreInt32(&enabled, v)
}

// Printf writes a debug line to stderr when enabled, otherwise it is a
// no-op.
func Printf(format string, args ...any) {
	if atomic.LoadInt32(&enabled) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
}
