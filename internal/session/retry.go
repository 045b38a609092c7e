package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
)

const jitterPercent = 20

// statusError carries a transient HTTP status through the retry loop.
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d", e.StatusCode)
}

func (c *Client) backoff() retry.Backoff {
	b := retry.NewExponential(c.cfg.BackoffBase)
	b = retry.WithJitterPercent(jitterPercent, b)
	b = retry.WithCappedDuration(c.cfg.BackoffCap, b)
	return retry.WithMaxRetries(uint64(c.cfg.MaxAttempts-1), b)
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// transientError reports whether a transport failure is worth another attempt.
// Cancellation of the caller's context is never transient.
func transientError(parent context.Context, err error) bool {
	if err == nil || parent.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func requestTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}
