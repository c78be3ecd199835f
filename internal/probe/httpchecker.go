package probe

import (
	"context"
	"net/http"
	"time"
)

// Header some transparent proxies key their routing on.
const onlineHostHeader = "X-Online-Host"

// CheckHTTP issues a plain GET / against the host's HTTP port. Only a 200
// counts as open; any other answered status is a rejection. Transport errors
// split into failed vs timed out.
func (p *Prober) CheckHTTP(ctx context.Context, host string) Result {
	return p.httpGet(ctx, ProbeHTTP, host, "")
}

// CheckHeader is the HTTP probe with X-Online-Host set to the host itself.
func (p *Prober) CheckHeader(ctx context.Context, host string) Result {
	return p.httpGet(ctx, ProbeHeader, host, host)
}

func (p *Prober) httpGet(ctx context.Context, name, host, onlineHost string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.urlFor(host), nil)
	if err != nil {
		return Result{Probe: name, Verdict: VerdictFailed, Message: err.Error()}
	}
	if onlineHost != "" {
		req.Header.Set(onlineHostHeader, onlineHost)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return p.errResult(name, start, err)
	}
	defer resp.Body.Close()

	verdict := VerdictRejected
	if resp.StatusCode == http.StatusOK {
		verdict = VerdictOpen
	}
	return Result{
		Probe:      name,
		Verdict:    verdict,
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		LatencyMS:  sinceMS(start),
	}
}
