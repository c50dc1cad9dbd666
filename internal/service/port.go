package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

var ErrReachable = errors.New("port accepted a connection")

type Refusal string

const (
	RefusalTimeout Refusal = "timeout"
	RefusalRefused Refusal = "refused"
)

// ExpectClosed dials host:port and succeeds only when the attempt times out
// or is refused within timeout. A completed handshake is ErrReachable; any
// other failure (say, the name does not resolve) is returned unchanged.
func ExpectClosed(ctx context.Context, host string, port int, timeout time.Duration) (Refusal, error) {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	dialer := &net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err == nil {
		_ = conn.Close()
		return "", fmt.Errorf("%s: %w", address, ErrReachable)
	}

	// A lookup timeout also reports Timeout(); it says nothing about the port.
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "", err
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return RefusalRefused, nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return RefusalTimeout, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return RefusalTimeout, nil
	}
	return "", err
}
