package probe

import (
	"context"
	"fmt"
)

// TranscriptEntry is one numbered line of a payload check transcript.
type TranscriptEntry struct {
	Seq    int    `json:"seq"`
	Desc   string `json:"desc"`
	Result Result `json:"result"`
}

// PayloadCheck runs the three payload probes one after another and returns
// the numbered transcript. A failed step never short-circuits the rest.
func (p *Prober) PayloadCheck(ctx context.Context, host string) []TranscriptEntry {
	steps := []struct {
		desc string
		run  func(context.Context, string) Result
	}{
		{"GET / without extra headers", p.CheckHTTP},
		{fmt.Sprintf("GET / with %s header", onlineHostHeader), p.CheckHeader},
		{fmt.Sprintf("TCP connect to port %d", p.TLSPort), p.CheckConnect},
	}

	out := make([]TranscriptEntry, 0, len(steps))
	for i, s := range steps {
		out = append(out, TranscriptEntry{Seq: i + 1, Desc: s.desc, Result: s.run(ctx, host)})
	}
	return out
}
