package bot

import (
	"fmt"
	"strings"

	"github.com/Lenagitpus/hostcheckbot/internal/domain"
	"github.com/Lenagitpus/hostcheckbot/internal/intel"
	"github.com/Lenagitpus/hostcheckbot/internal/probe"
)

const menuText = `Host Checker Bot

1. Method check: HTTP, SSL, WebSocket, CONNECT, Custom-Header
2. Active check: DNS resolution
3. Payload check: three-step transcript
4. Related domains: subdomain lookup

Send a number to pick a mode, then send the host to test.
/help shows this menu again.`

// Telegram caps messages at 4096 chars; long subdomain lists get cut.
const maxListedSubdomains = 60

func mark(ok bool) string {
	if ok {
		return "✔"
	}
	return "✖"
}

func modePrompt(m domain.Mode) string {
	return fmt.Sprintf("Mode set to %s. Now send the host or domain to check.", m)
}

func resultLine(r probe.Result) string {
	switch r.Verdict {
	case probe.VerdictOpen:
		return fmt.Sprintf("open (%s, %.0f ms)", r.Message, r.LatencyMS)
	case probe.VerdictRejected:
		return fmt.Sprintf("rejected (%s)", r.Message)
	case probe.VerdictTimeout:
		return r.Message
	default:
		return fmt.Sprintf("failed (%s)", r.Message)
	}
}

func formatMethodReport(host string, results []probe.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Method check for %s\n\n", host)
	for _, r := range results {
		fmt.Fprintf(&b, "%s %s: %s\n", mark(r.OK()), r.Probe, resultLine(r))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTranscript(host string, entries []probe.TranscriptEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Payload check for %s\n\n", host)
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s: %s\n", e.Seq, e.Desc, resultLine(e.Result))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatResolve(r probe.ResolveResult) string {
	if !r.OK() {
		return fmt.Sprintf("✖ %s: %s", r.Host, r.Err)
	}
	if len(r.Addrs) == 1 {
		return fmt.Sprintf("✔ %s resolves to %s", r.Host, r.Addr())
	}
	return fmt.Sprintf("✔ %s resolves to %s (+%d more)", r.Host, r.Addr(), len(r.Addrs)-1)
}

func formatRelated(host string, rec intel.Record, subs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Related domains for %s\n\n", host)
	fmt.Fprintf(&b, "Parent: %s\n", rec.Parent)
	fmt.Fprintf(&b, "Status: %s\n", rec.Status)
	fmt.Fprintf(&b, "IP: %s\n", rec.IP)
	fmt.Fprintf(&b, "ASN: %s\n", rec.ASN)
	fmt.Fprintf(&b, "Registrar: %s\n", rec.Registrar)
	fmt.Fprintf(&b, "Created: %s\n", rec.Created)
	fmt.Fprintf(&b, "Updated: %s\n", rec.Updated)

	if len(subs) == 0 {
		b.WriteString("\nNo subdomains found.")
		return b.String()
	}
	fmt.Fprintf(&b, "\nSubdomains (%d):\n", len(subs))
	listed := subs
	if len(listed) > maxListedSubdomains {
		listed = listed[:maxListedSubdomains]
	}
	for _, s := range listed {
		b.WriteString("  " + s + "\n")
	}
	if rest := len(subs) - len(listed); rest > 0 {
		fmt.Fprintf(&b, "  ... and %d more\n", rest)
	}
	return strings.TrimRight(b.String(), "\n")
}
