package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Lenagitpus/hostcheckbot/internal/config"
	"github.com/Lenagitpus/hostcheckbot/internal/domain"
	"github.com/Lenagitpus/hostcheckbot/internal/intel"
	"github.com/Lenagitpus/hostcheckbot/internal/probe"
)

func main() {
	var (
		host    = flag.String("host", "", "host to check, e.g. example.com")
		mode    = flag.String("mode", "method", "method | active | payload | related")
		timeout = flag.Duration("timeout", probe.DefaultTimeout, "per-probe timeout")
	)
	flag.Parse()

	if *host == "" {
		fmt.Fprintln(os.Stderr, "usage: hostcheck -host example.com [-mode method|active|payload|related]")
		os.Exit(2)
	}
	m, err := domain.ParseMode(*mode)
	if err != nil || m == domain.ModeNone {
		fmt.Fprintln(os.Stderr, "unknown mode:", *mode)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p := probe.New(*timeout)
	switch m {
	case domain.ModeMethod:
		results := p.MethodCheck(ctx, *host)
		passed := 0
		for _, r := range results {
			fmt.Printf("%s %-13s %s\n", mark(r.OK()), r.Probe, r.Message)
			if r.OK() {
				passed++
			}
		}
		if passed == 0 {
			os.Exit(1)
		}

	case domain.ModeActive:
		res := p.Resolve(ctx, *host)
		if !res.OK() {
			fmt.Printf("✖ %s: %s\n", res.Host, res.Err)
			os.Exit(1)
		}
		fmt.Printf("✔ %s resolves to %s\n", res.Host, strings.Join(res.Addrs, ", "))

	case domain.ModePayload:
		for _, e := range p.PayloadCheck(ctx, *host) {
			fmt.Printf("%d. %s: %s %s\n", e.Seq, e.Desc, mark(e.Result.OK()), e.Result.Message)
		}

	case domain.ModeRelated:
		cfg := config.FromEnv()
		if cfg.IntelURL == "" {
			fmt.Fprintln(os.Stderr, "INTEL_API_URL is not set")
			os.Exit(2)
		}
		c := intel.NewClient(cfg.IntelURL, cfg.IntelKey, cfg.IntelTimeout, nil)
		rec, err := c.Detail(ctx, *host)
		if err != nil {
			fmt.Fprintln(os.Stderr, "✖ intel unreachable:", err)
			os.Exit(1)
		}
		subs, err := c.Related(ctx, *host)
		if err != nil {
			fmt.Fprintln(os.Stderr, "✖ intel unreachable:", err)
			os.Exit(1)
		}
		fmt.Printf("Parent:    %s\n", rec.Parent)
		fmt.Printf("Status:    %s\n", rec.Status)
		fmt.Printf("IP:        %s\n", rec.IP)
		fmt.Printf("ASN:       %s\n", rec.ASN)
		fmt.Printf("Registrar: %s\n", rec.Registrar)
		fmt.Printf("Created:   %s\n", rec.Created)
		fmt.Printf("Updated:   %s\n", rec.Updated)
		fmt.Printf("Subdomains (%d):\n", len(subs))
		for _, s := range subs {
			fmt.Println("  -", s)
		}
	}
}

func mark(ok bool) string {
	if ok {
		return "✔"
	}
	return "✖"
}
