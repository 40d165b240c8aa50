package webclient

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// ErrBlockedHost is returned when a request targets a loopback, private or
// metadata address.
var ErrBlockedHost = errors.New("destination is not a public address")

var (
	privateIPBlocks  []*net.IPNet
	blockedHostnames = map[string]struct{}{
		"localhost":                 {},
		"metadata.google.internal":  {},
		"metadata.google.internal.": {},
	}
)

func init() {
	for _, cidr := range []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"100.64.0.0/10",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
		"::/128",
	} {
		_, block, err := net.ParseCIDR(cidr)
		if err == nil {
			privateIPBlocks = append(privateIPBlocks, block)
		}
	}
}

// IsPublicIP reports whether ip is routable on the public internet.
func IsPublicIP(ip net.IP) bool {
	if ip == nil || ip.IsLoopback() || ip.IsUnspecified() || ip.IsMulticast() {
		return false
	}
	for _, block := range privateIPBlocks {
		if block.Contains(ip) {
			return false
		}
	}
	return true
}

// CheckURL rejects non-http(s) URLs, blocked hostnames and literal private
// addresses. Names are resolved at dial time by the guarded transport.
func CheckURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return errors.New("missing host")
	}
	if _, blocked := blockedHostnames[host]; blocked {
		return fmt.Errorf("%s: %w", host, ErrBlockedHost)
	}
	if ip := net.ParseIP(host); ip != nil && !IsPublicIP(ip) {
		return fmt.Errorf("%s: %w", host, ErrBlockedHost)
	}
	return nil
}

// NewGuarded returns a user-agent stamping client that refuses to connect to
// non-public addresses, including via redirects or DNS answers.
func NewGuarded(timeout time.Duration, userAgent string) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   guardDial,
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = dialer.DialContext
	base.Proxy = nil

	c := NewDefault(timeout)
	c.Transport = &uaTransport{base: base, userAgent: userAgent}
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return CheckURL(req.URL.String())
	}
	return c
}

// guardDial runs after DNS resolution, so address is always a literal IP.
func guardDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if !IsPublicIP(net.ParseIP(host)) {
		return fmt.Errorf("%s: %w", host, ErrBlockedHost)
	}
	return nil
}

// Blocked reports whether err came from the address guard.
func Blocked(err error) bool {
	return errors.Is(err, ErrBlockedHost)
}
