// Package resolver implements iterative DNS resolution: starting from a
// well-known root server, it follows delegations down the name hierarchy
// until it obtains an authoritative address or decides that resolution
// cannot proceed.
//
// Each resolution step is one of:
//
//   - answer present: done, return its address
//   - glue address present: requery the delegated server directly
//   - delegation without glue: resolve the nameserver's own name first,
//     then requery
//   - none of the above: terminal failure
//
// Every hop, including the recursive glue resolutions, draws from one
// shared depth budget, so misconfigured or maliciously looping
// delegation chains terminate with ErrDelegationTooDeep instead of
// walking forever.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazadus/network-learn/internal/dns"
)

// DefaultRootServer is a.root-servers.net, the conventional starting
// point of an iterative walk (https://www.iana.org/domains/root/servers).
const DefaultRootServer = "198.41.0.4"

// DefaultMaxDepth bounds the total number of queries one resolution may
// issue. Real-world delegation chains stay in single digits; 20 leaves
// generous margin.
const DefaultMaxDepth = 20

var (
	// ErrNoDelegationPath reports a reply with no answer, no glue, and
	// no delegation, leaving the resolver nowhere to go.
	ErrNoDelegationPath = errors.New("resolver: reply offers no answer, glue, or delegation")

	// ErrDelegationTooDeep reports that the depth budget was exhausted
	// before an answer was found.
	ErrDelegationTooDeep = errors.New("resolver: delegation chain too deep")

	// ErrReplyMismatch reports a reply whose transaction ID does not
	// match the query it should answer.
	ErrReplyMismatch = errors.New("resolver: reply transaction id mismatch")
)

// Transport sends one encoded query to a nameserver address and returns
// the raw reply bytes. Implementations live in internal/transport;
// tests substitute stubs.
type Transport interface {
	Query(ctx context.Context, message []byte, addr string) ([]byte, error)
}

// Resolver walks the delegation hierarchy iteratively. Each call to
// Resolve owns its own buffers and depth budget; a single Resolver is
// safe for concurrent use as long as its Transport is.
type Resolver struct {
	Transport  Transport
	RootServer string        // Starting server; empty means DefaultRootServer
	MaxDepth   int           // Query budget per resolution; 0 means DefaultMaxDepth
	NewID      func() uint16 // Transaction ID source; nil means dns.NewID
	Logger     *slog.Logger  // Optional; nil disables logging
}

// New returns a Resolver with default root server and depth budget.
func New(t Transport) *Resolver {
	return &Resolver{Transport: t}
}

// Resolve iteratively resolves domain to an address, querying for A
// records from the root down. It returns either a resolved address or
// one terminal error; never a partial result.
func (r *Resolver) Resolve(ctx context.Context, domain string) (string, error) {
	budget := r.MaxDepth
	if budget <= 0 {
		budget = DefaultMaxDepth
	}
	return r.resolve(ctx, domain, &budget)
}

// resolve runs the query loop for one domain. budget is shared across
// the whole walk, including recursive nameserver resolutions.
func (r *Resolver) resolve(ctx context.Context, domain string, budget *int) (string, error) {
	server := r.RootServer
	if server == "" {
		server = DefaultRootServer
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if *budget <= 0 {
			return "", fmt.Errorf("%w: while resolving %q", ErrDelegationTooDeep, domain)
		}
		*budget--

		reply, id, err := r.queryServer(ctx, domain, server)
		if err != nil {
			return "", err
		}
		msg, err := dns.ParseMessage(reply)
		if err != nil {
			return "", err
		}
		if msg.Header.ID != id {
			return "", fmt.Errorf("%w: sent %d, got %d", ErrReplyMismatch, id, msg.Header.ID)
		}

		// Answer present: resolution is complete.
		if addr, ok := msg.FirstAnswerAddress(); ok {
			r.logf(ctx, "answer found", "domain", domain, "address", addr, "server", server)
			return addr, nil
		}

		// Glue present: query the delegated server directly.
		if glue, ok := msg.FirstGlueAddress(); ok {
			r.logf(ctx, "following glue", "domain", domain, "next_server", glue)
			server = glue
			continue
		}

		// Delegation without glue: resolve the nameserver's own name,
		// then resume against its address.
		if ns, ok := msg.FirstDelegatedNameserver(); ok {
			r.logf(ctx, "resolving delegated nameserver", "domain", domain, "nameserver", ns)
			addr, err := r.resolve(ctx, ns, budget)
			if err != nil {
				return "", err
			}
			server = addr
			continue
		}

		return "", fmt.Errorf("%w: while resolving %q via %s", ErrNoDelegationPath, domain, server)
	}
}

// queryServer encodes and sends one A query for domain to server and
// returns the raw reply along with the transaction ID used.
func (r *Resolver) queryServer(ctx context.Context, domain, server string) ([]byte, uint16, error) {
	newID := r.NewID
	if newID == nil {
		newID = dns.NewID
	}
	id := newID()

	query, err := dns.EncodeQuery(domain, dns.TypeA, id)
	if err != nil {
		return nil, 0, err
	}

	r.logf(ctx, "querying nameserver", "server", server, "domain", domain, "id", id)
	reply, err := r.Transport.Query(ctx, query, server)
	if err != nil {
		return nil, 0, err
	}
	return reply, id, nil
}

func (r *Resolver) logf(ctx context.Context, msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.DebugContext(ctx, msg, args...)
	}
}
