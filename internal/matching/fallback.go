package matching

import (
	"github.com/mockinizer/mockinizer/pkg/mock"
)

// Step identifies which fallback step resolved a dispatch.
type Step int

// Fallback steps, in cascade order.
const (
	StepExact Step = iota + 1
	StepBodyCleared
	StepNoiseStripped
	StepHeadersCleared
	StepBodyClearedNoiseStripped
	StepBodyAndHeadersCleared
	StepUnmatched
)

// String returns the step name as recorded in request logs.
func (s Step) String() string {
	switch s {
	case StepExact:
		return "exact"
	case StepBodyCleared:
		return "body-cleared"
	case StepNoiseStripped:
		return "noise-stripped"
	case StepHeadersCleared:
		return "headers-cleared"
	case StepBodyClearedNoiseStripped:
		return "body-cleared+noise-stripped"
	case StepBodyAndHeadersCleared:
		return "body+headers-cleared"
	case StepUnmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}

// Matched reports whether the step resolved to a registered template.
func (s Step) Matched() bool {
	return s >= StepExact && s <= StepBodyAndHeadersCleared
}

// Resolve returns the response template for an inbound fingerprint, trying
// progressively looser derived copies of f in a fixed order:
//
//  1. f exactly
//  2. f with the body cleared
//  3. f with transport noise stripped from the headers
//  4. f with the headers cleared
//  5. f with the body cleared and transport noise stripped
//  6. f with both body and headers cleared
//
// When no step matches, the default 404 template is returned with
// StepUnmatched. Resolve is pure: it never modifies f or the table, so it
// is safe for concurrent use.
func Resolve(f mock.Fingerprint, t *mock.Table) (mock.ResponseTemplate, Step) {
	stripped := f
	stripped.Headers = StripTransportNoise(f.Headers)

	probes := []struct {
		fp   mock.Fingerprint
		step Step
	}{
		{f, StepExact},
		{f.WithoutBody(), StepBodyCleared},
		{stripped, StepNoiseStripped},
		{f.WithoutHeaders(), StepHeadersCleared},
		{stripped.WithoutBody(), StepBodyClearedNoiseStripped},
		{f.WithoutBody().WithoutHeaders(), StepBodyAndHeadersCleared},
	}

	for _, p := range probes {
		if rt, ok := t.Get(p.fp); ok {
			return rt, p.step
		}
	}
	return mock.NotFound(), StepUnmatched
}
