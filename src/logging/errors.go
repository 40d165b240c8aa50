package logging

import (
	"context"
	"errors"
	"net"
	"strings"
)

// IsRateLimit reports whether an oracle error looks like quota exhaustion.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "429")
}

// IsTimeout reports deadline expiry or a network timeout anywhere in err's chain.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Reason returns a short tag for an oracle failure, used as a log field.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case IsRateLimit(err):
		return "rate_limit"
	case IsTimeout(err):
		return "timeout"
	default:
		return "error"
	}
}
