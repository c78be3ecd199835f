package probe

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ResolveResult is the outcome of the liveness (DNS) check.
type ResolveResult struct {
	Host  string   `json:"host"`
	Addrs []string `json:"addrs,omitempty"`
	Err   string   `json:"error,omitempty"`
}

// OK reports whether the host resolved to at least one address.
func (r ResolveResult) OK() bool { return r.Err == "" && len(r.Addrs) > 0 }

// Addr returns the headline address.
func (r ResolveResult) Addr() string {
	if len(r.Addrs) == 0 {
		return ""
	}
	return r.Addrs[0]
}

// Resolve answers whether the name is alive in DNS at all. URLs are rejected
// up front; probes take a bare host token, not a URL.
func (p *Prober) Resolve(ctx context.Context, host string) ResolveResult {
	res := ResolveResult{Host: strings.TrimSpace(host)}
	if res.Host == "" || strings.Contains(res.Host, "://") {
		res.Err = "invalid host"
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	r := &net.Resolver{} // OS resolver
	addrs, err := r.LookupHost(ctx, res.Host)
	if err != nil || len(addrs) == 0 {
		res.Err = "cannot resolve"
		var de *net.DNSError
		if errors.As(err, &de) && de.Timeout() {
			res.Err = "cannot resolve (timeout)"
		}
		return res
	}
	res.Addrs = addrs
	return res
}
