package probe

import (
	"context"
	"crypto/tls"
	"net"
	"time"
)

// CheckTLS completes a TLS handshake with SNI set to the host. Verification
// is off on purpose: the question is whether the handshake goes through, not
// whether the certificate is trustworthy.
func (p *Prober) CheckTLS(ctx context.Context, host string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	d := tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true,
		},
	}
	conn, err := d.DialContext(ctx, "tcp", p.addr(host, p.TLSPort))
	if err != nil {
		return p.errResult(ProbeTLS, start, err)
	}
	state := conn.(*tls.Conn).ConnectionState()
	conn.Close()
	return Result{
		Probe:     ProbeTLS,
		Verdict:   VerdictOpen,
		Message:   "handshake complete (" + tls.VersionName(state.Version) + ")",
		LatencyMS: sinceMS(start),
	}
}
