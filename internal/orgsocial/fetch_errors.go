package orgsocial

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// StatusError is a non-200 answer from a feed server
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: status %d", e.URL, e.Code)
}

// DescribeFetchError turns a feed download error into a short message
// telling the user what went wrong
func DescribeFetchError(err error) string {
	if err == nil {
		return ""
	}

	var status *StatusError
	if errors.As(err, &status) {
		return describeStatus(status.Code)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Timed out - the feed server is slow, try a larger fetch_timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Unknown host - check the feed URL"
	}

	var unknownAuthority x509.UnknownAuthorityError
	var invalidCert x509.CertificateInvalidError
	var hostnameErr x509.HostnameError
	switch {
	case errors.As(err, &unknownAuthority):
		return "Untrusted TLS certificate"
	case errors.As(err, &invalidCert):
		return "Invalid TLS certificate"
	case errors.As(err, &hostnameErr):
		return "TLS certificate does not match the feed host"
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused - the feed server is down"
	case errors.Is(err, syscall.ECONNRESET):
		return "Connection reset by the feed server"
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return "Network unreachable"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Timed out - the feed server is slow, try a larger fetch_timeout"
	}

	return describeMessage(err.Error())
}

func describeStatus(code int) string {
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return "Feed not found - the followed URL may have moved"
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "Feed is not public"
	case code == http.StatusTooManyRequests:
		return "Rate limited by the feed server"
	case code >= 500:
		return fmt.Sprintf("Feed server error (%d)", code)
	default:
		return fmt.Sprintf("Unexpected response (%d)", code)
	}
}

// describeMessage matches wrapped errors that lost their type, such as the
// final error of the retrying client
func describeMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no such host"):
		return "Unknown host - check the feed URL"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused - the feed server is down"
	case strings.Contains(lower, "certificate"), strings.Contains(lower, "x509"):
		return "TLS error - " + msg
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return "Timed out - the feed server is slow, try a larger fetch_timeout"
	case strings.Contains(lower, "unsupported protocol"):
		return "Invalid feed URL"
	case strings.Contains(lower, "giving up after"):
		return "Feed unreachable after retries"
	}
	return "Fetch failed: " + msg
}
