package probe

import (
	"context"
	"net"
	"time"
)

// CheckConnect dials the TLS port with no protocol traffic at all. Filtered
// networks often allow the dial and kill whatever follows; this measures
// only the dial.
func (p *Prober) CheckConnect(ctx context.Context, host string) Result {
	return p.dialProbe(ctx, ProbeConnect, host, p.TLSPort)
}

// CheckSocket dials the HTTP port the way a WebSocket client opens its
// transport. No handshake is attempted; only the TCP accept matters.
func (p *Prober) CheckSocket(ctx context.Context, host string) Result {
	return p.dialProbe(ctx, ProbeSocket, host, p.HTTPPort)
}

func (p *Prober) dialProbe(ctx context.Context, name, host string, port int) Result {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.addr(host, port))
	if err != nil {
		return p.errResult(name, start, err)
	}
	conn.Close()
	return Result{
		Probe:     name,
		Verdict:   VerdictOpen,
		Message:   "connection established",
		LatencyMS: sinceMS(start),
	}
}
