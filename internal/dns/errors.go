// Package dns implements the DNS wire format needed by an iterative
// resolver: the fixed 12-byte header, the question section, resource
// records, and compressed-name encoding and decoding (RFC 1035).
//
// The decoder is written for untrusted input. Every malformed-input
// condition surfaces as a typed error; the parser never reads out of
// bounds and never loops on adversarial compression pointers.
//
// Error Handling:
//
// Each failure class has a sentinel error below. Call sites wrap them
// with fmt.Errorf("context: %w", Err...) so callers can both read the
// context and match with errors.Is.
package dns

import "errors"

var (
	// ErrMalformedName reports a domain name that cannot be encoded
	// (label longer than 63 bytes, empty label) or a structurally
	// invalid name on the wire (reserved label type bits).
	ErrMalformedName = errors.New("dns: malformed name")

	// ErrTruncatedMessage reports a message that ended before the
	// entry counts declared in its header were satisfied.
	ErrTruncatedMessage = errors.New("dns: truncated message")

	// ErrCompressionLoop reports a compression pointer that is out of
	// range, points at itself, or forms a cycle.
	ErrCompressionLoop = errors.New("dns: compression pointer loop")
)
