// Package matching implements the fallback cascade that resolves an inbound
// request fingerprint against the mock table.
//
// A test author registers a fingerprint describing only the semantically
// relevant parts of a request; the real HTTP client silently injects headers
// (authority and scheme pseudo-headers, accept-encoding, user-agent). The
// cascade lets an exact match win first, then retries with progressively
// looser copies of the inbound fingerprint: body cleared, transport noise
// stripped from the headers, headers cleared, and combinations of those.
// Registered fingerprints are never loosened; only the inbound probe is.
//
// Every step is an O(1) table lookup by structural equality, so resolution
// never depends on table iteration or insertion order.
package matching
