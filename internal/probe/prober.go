package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultTimeout bounds every single probe attempt.
	DefaultTimeout = 5 * time.Second

	defaultHTTPPort = 80
	defaultTLSPort  = 443
)

// Prober runs the reachability probes. The target host is always used
// verbatim; ports are exported so tests can point probes at local listeners.
type Prober struct {
	Timeout  time.Duration
	HTTPPort int // plain HTTP and WebSocket-style probes
	TLSPort  int // TLS handshake and bare CONNECT probes

	client *http.Client
}

func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Prober{
		Timeout:  timeout,
		HTTPPort: defaultHTTPPort,
		TLSPort:  defaultTLSPort,
	}
	p.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
			TLSHandshakeTimeout: timeout,
			DisableKeepAlives:   true,
		},
	}
	return p
}

// urlFor keeps the host token untouched on the default port so that what the
// user typed is exactly what goes on the wire.
func (p *Prober) urlFor(host string) string {
	if p.HTTPPort == defaultHTTPPort {
		return "http://" + host + "/"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(p.HTTPPort)) + "/"
}

func (p *Prober) addr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// classify splits transport errors into timeout vs plain connection failure.
func classify(err error) Verdict {
	if err == nil {
		return VerdictOpen
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return VerdictTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return VerdictTimeout
	}
	return VerdictFailed
}

func (p *Prober) errResult(name string, start time.Time, err error) Result {
	v := classify(err)
	msg := err.Error()
	if v == VerdictTimeout {
		msg = fmt.Sprintf("timed out after %s", p.Timeout)
	}
	return Result{Probe: name, Verdict: v, Message: msg, LatencyMS: sinceMS(start)}
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
