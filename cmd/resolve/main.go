package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazadus/network-learn/internal/config"
	"github.com/hazadus/network-learn/internal/dns"
	"github.com/hazadus/network-learn/internal/history"
	"github.com/hazadus/network-learn/internal/logging"
	"github.com/hazadus/network-learn/internal/resolver"
	"github.com/hazadus/network-learn/internal/transport"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to JSON configuration file")
		rootServer  = flag.String("root", "", "Override root server IP the walk starts from")
		timeout     = flag.Duration("timeout", 0, "Override per-query timeout")
		maxDepth    = flag.Int("max-depth", 0, "Override query budget per resolution")
		historyPath = flag.String("history", "", "Override SQLite history database path")
		showHistory = flag.Int("show-history", 0, "Print the last N recorded resolutions and exit")
		jsonLogs    = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug       = flag.Bool("debug", false, "Enable debug logging (traces every hop)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *rootServer != "" {
		cfg.Resolver.RootServer = *rootServer
	}
	if *timeout > 0 {
		cfg.Resolver.Timeout = timeout.String()
	}
	if *maxDepth > 0 {
		cfg.Resolver.MaxDepth = *maxDepth
	}
	if *historyPath != "" {
		cfg.Resolver.HistoryPath = *historyPath
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *history.Store
	if cfg.Resolver.HistoryPath != "" {
		store, err = history.Open(cfg.Resolver.HistoryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	if *showHistory > 0 {
		if store == nil {
			fmt.Fprintln(os.Stderr, "history listing requires -history or resolver.history_path")
			os.Exit(1)
		}
		if err := printHistory(ctx, store, *showHistory); err != nil {
			fmt.Fprintf(os.Stderr, "failed to list history: %v\n", err)
			os.Exit(1)
		}
		return
	}

	domains := flag.Args()
	if len(domains) == 0 {
		fmt.Fprintln(os.Stderr, "usage: resolve [flags] DOMAIN [DOMAIN...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	r := &resolver.Resolver{
		Transport:  &transport.Client{Timeout: cfg.ResolverTimeout()},
		RootServer: cfg.Resolver.RootServer,
		MaxDepth:   cfg.Resolver.MaxDepth,
		Logger:     logger,
	}

	failed := false
	for _, domain := range domains {
		start := time.Now()
		addr, err := r.Resolve(ctx, domain)
		elapsed := time.Since(start)

		if store != nil {
			entry := history.Entry{
				Domain:     domain,
				Address:    addr,
				Outcome:    outcomeFor(err),
				RootServer: cfg.Resolver.RootServer,
				Duration:   elapsed,
			}
			if rerr := store.Record(ctx, entry); rerr != nil {
				logger.Warn("failed to record resolution", "domain", domain, "error", rerr)
			}
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", domain, err)
			failed = true
			continue
		}
		fmt.Printf("%s %s (%s)\n", domain, addr, elapsed.Round(time.Millisecond))
	}
	if failed {
		os.Exit(1)
	}
}

// outcomeFor maps a resolution error to the outcome class stored in the
// history log.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return history.OutcomeOK
	case errors.Is(err, resolver.ErrNoDelegationPath):
		return "no_delegation_path"
	case errors.Is(err, resolver.ErrDelegationTooDeep):
		return "delegation_too_deep"
	case errors.Is(err, resolver.ErrReplyMismatch):
		return "reply_mismatch"
	case errors.Is(err, transport.ErrTimeout):
		return "timeout"
	case errors.Is(err, transport.ErrNetworkUnreachable):
		return "network_unreachable"
	case errors.Is(err, dns.ErrMalformedName),
		errors.Is(err, dns.ErrTruncatedMessage),
		errors.Is(err, dns.ErrCompressionLoop):
		return "malformed_reply"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func printHistory(ctx context.Context, store *history.Store, limit int) error {
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		addr := e.Address
		if addr == "" {
			addr = "-"
		}
		fmt.Printf("%s  %-30s %-16s %-20s %s\n",
			e.ResolvedAt.Format(time.RFC3339), e.Domain, addr, e.Outcome,
			e.Duration.Round(time.Millisecond))
	}

	counts, err := store.CountByOutcome(ctx)
	if err != nil {
		return err
	}
	if len(counts) > 0 {
		fmt.Println()
		for outcome, n := range counts {
			fmt.Printf("%-20s %d\n", outcome, n)
		}
	}
	return nil
}
