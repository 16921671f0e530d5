package renderer

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// portScanRange bounds the upward scan when the requested port is busy.
const portScanRange = 50

// findFreePort returns the first bindable port in [start, start+portScanRange].
func findFreePort(start int) (int, error) {
	for port := start; port <= start+portScanRange; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		l.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no free port found in range %d-%d", start, start+portScanRange)
}

// waitForPort polls until the port accepts connections, the timeout elapses,
// or ctx is cancelled. It reports whether the port came up.
func waitForPort(ctx context.Context, port int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(250 * time.Millisecond):
		}
	}
	return false
}
