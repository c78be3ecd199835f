package probe

import (
	"context"
	"sync"
)

// MethodCheck runs every probe against the host concurrently and returns
// exactly five results in the fixed presentation order HTTP, SSL,
// WebSocket, CONNECT, Custom-Header. Each probe owns its own timeout; one
// probe failing or stalling never aborts the others.
func (p *Prober) MethodCheck(ctx context.Context, host string) []Result {
	checks := []func(context.Context, string) Result{
		p.CheckHTTP,
		p.CheckTLS,
		p.CheckSocket,
		p.CheckConnect,
		p.CheckHeader,
	}

	results := make([]Result, len(checks))
	var wg sync.WaitGroup
	for i, run := range checks {
		wg.Add(1)
		go func(i int, run func(context.Context, string) Result) {
			defer wg.Done()
			results[i] = run(ctx, host)
		}(i, run)
	}
	wg.Wait()
	return results
}
