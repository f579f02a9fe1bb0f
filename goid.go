package timelinez

import (
	"bytes"
	"runtime"
)

var goroutinePrefix = []byte("goroutine ")

// goroutineID returns the current goroutine's id as a decimal string,
// parsed from the runtime.Stack header ("goroutine 18 [running]:").
// The runtime exposes no cheaper supported way to obtain it; this is only
// called once per Event construction, so the stack capture cost is fine.
func goroutineID() string {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		return string(b[:i])
	}
	return "0"
}
