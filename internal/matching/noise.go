package matching

import (
	"strings"

	"github.com/mockinizer/mockinizer/pkg/mock"
)

// userAgentPrefix is the agent string prefix of Go's default HTTP client,
// the transport whose injected headers the strip predicate targets.
const userAgentPrefix = "Go-http-client"

// noiseAuthorityPrefix matches the authority of a locally bound mock server.
const noiseAuthorityPrefix = "localhost:"

// StripTransportNoise returns a copy of hs with the transport-injected
// entries removed, but only when all four signature entries are
// simultaneously present with their expected values:
//
//   - :authority starting with "localhost:"
//   - :scheme exactly "http" or "https"
//   - accept-encoding exactly "gzip"
//   - user-agent starting with "Go-http-client"
//
// If any of the four is missing or off-value, hs is returned unchanged.
// Partial stripping never happens, so genuine headers that merely resemble
// part of the signature cannot cause accidental over-matching. When every
// entry in hs is noise the result is the empty set, which is still distinct
// from an absent header set.
func StripTransportNoise(hs mock.Headers) mock.Headers {
	if hs == nil {
		return nil
	}

	var authority, scheme, encoding, agent bool
	for _, h := range hs {
		switch kind := noiseKind(h); kind {
		case noiseAuthority:
			authority = true
		case noiseScheme:
			scheme = true
		case noiseEncoding:
			encoding = true
		case noiseAgent:
			agent = true
		}
	}
	if !authority || !scheme || !encoding || !agent {
		return hs
	}

	out := make(mock.Headers, 0, len(hs))
	for _, h := range hs {
		if noiseKind(h) == noiseNone {
			out = append(out, h)
		}
	}
	return out
}

type noise int

const (
	noiseNone noise = iota
	noiseAuthority
	noiseScheme
	noiseEncoding
	noiseAgent
)

// noiseKind classifies a header as one of the four signature entries, or
// noiseNone when its name or value does not fit.
func noiseKind(h mock.Header) noise {
	switch strings.ToLower(h.Name) {
	case mock.HeaderAuthority:
		if strings.HasPrefix(h.Value, noiseAuthorityPrefix) {
			return noiseAuthority
		}
	case mock.HeaderScheme:
		if h.Value == "http" || h.Value == "https" {
			return noiseScheme
		}
	case "accept-encoding":
		if h.Value == "gzip" {
			return noiseEncoding
		}
	case "user-agent":
		if strings.HasPrefix(h.Value, userAgentPrefix) {
			return noiseAgent
		}
	}
	return noiseNone
}
