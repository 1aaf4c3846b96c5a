package matching

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockinizer/mockinizer/pkg/mock"
)

func mustTable(t *testing.T, entries ...mock.Entry) *mock.Table {
	t.Helper()
	table, err := mock.NewTable(entries)
	require.NoError(t, err)
	return table
}

// inbound mimics what the dispatcher builds: a concrete (possibly empty)
// body and a header set that always carries the pseudo-entries.
func inbound(method, path string, headers mock.Headers, body string) mock.Fingerprint {
	return mock.Fingerprint{
		Path:    path,
		Method:  method,
		Headers: headers,
		Body:    mock.BodyOf(body),
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	registered := mock.Fingerprint{
		Path:   "/exact",
		Method: "POST",
		Headers: mock.Headers{
			{Name: mock.HeaderAuthority, Value: "localhost:34567"},
			{Name: mock.HeaderScheme, Value: "http"},
			{Name: "content-type", Value: "application/json"},
		},
		Body: mock.BodyOf(`{"a":1}`),
	}
	table := mustTable(t, mock.Entry{Request: registered, Response: mock.ResponseTemplate{StatusCode: 201}})

	rt, step := Resolve(inbound("POST", "/exact", registered.Headers, `{"a":1}`), table)

	assert.Equal(t, StepExact, step)
	assert.Equal(t, 201, rt.StatusCode)
}

// A bare path+method registration matches a plain GET once the cascade
// clears the inbound body and headers.
func TestResolve_PathAndMethodOnly(t *testing.T) {
	table := mustTable(t, mock.Entry{
		Request:  mock.Fingerprint{Path: "/x", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200},
	})

	hs := mock.Headers{
		{Name: mock.HeaderAuthority, Value: "localhost:34567"},
		{Name: mock.HeaderScheme, Value: "http"},
	}
	rt, step := Resolve(inbound("GET", "/x", hs, ""), table)

	assert.Equal(t, StepBodyAndHeadersCleared, step)
	assert.Equal(t, 200, rt.StatusCode)
}

// A path+method+body registration matches a request carrying the
// four-header transport signature. The signature strips to the empty set,
// which is still distinct from absent headers, so resolution lands on the
// headers-cleared step.
func TestResolve_BodyWithTransportNoise(t *testing.T) {
	table := mustTable(t, mock.Entry{
		Request:  mock.Fingerprint{Path: "/p", Method: "POST", Body: mock.BodyOf(`{"a":1}`)},
		Response: mock.ResponseTemplate{StatusCode: 200, Body: `{"b":2}`},
	})

	rt, step := Resolve(inbound("POST", "/p", noiseHeaders(), `{"a":1}`), table)

	assert.Equal(t, StepHeadersCleared, step)
	assert.Equal(t, 200, rt.StatusCode)
	assert.Equal(t, `{"b":2}`, rt.Body)
}

// With nothing registered every request resolves to the bare default 404.
func TestResolve_Unmatched(t *testing.T) {
	table := mustTable(t)

	rt, step := Resolve(inbound("GET", "/unknown", noiseHeaders(), ""), table)

	assert.Equal(t, StepUnmatched, step)
	assert.Equal(t, http.StatusNotFound, rt.StatusCode)
	assert.Empty(t, rt.Body)
	assert.Empty(t, rt.Headers, "the default 404 is never annotated")
	assert.False(t, step.Matched())
}

// Registered headers plus the noise signature on the wire: the exact
// probe demands full header-set equality including noise, so the match
// happens only after the body is cleared and the noise is stripped.
func TestResolve_RegisteredHeadersPlusNoise(t *testing.T) {
	table := mustTable(t, mock.Entry{
		Request: mock.Fingerprint{
			Path:    "/h",
			Headers: mock.Headers{{Name: "name", Value: "value"}},
		},
		Response: mock.ResponseTemplate{StatusCode: 200},
	})

	hs := append(noiseHeaders(), mock.Header{Name: "name", Value: "value"})
	rt, step := Resolve(inbound("GET", "/h", hs, ""), table)

	assert.Equal(t, StepBodyClearedNoiseStripped, step)
	assert.Equal(t, 200, rt.StatusCode)
}

// With only three of the four signature headers present nothing is
// stripped, and the entry is still reached via the headers-cleared steps.
func TestResolve_IncompleteNoiseSignatureStillMatches(t *testing.T) {
	table := mustTable(t, mock.Entry{
		Request:  mock.Fingerprint{Path: "/x", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200},
	})

	partial := noiseHeaders()[:3]
	rt, step := Resolve(inbound("GET", "/x", partial, ""), table)

	assert.Equal(t, StepBodyAndHeadersCleared, step)
	assert.Equal(t, 200, rt.StatusCode)
}

func TestResolve_MethodMismatchIs404(t *testing.T) {
	table := mustTable(t, mock.Entry{
		Request:  mock.Fingerprint{Path: "/x", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200},
	})

	_, step := Resolve(inbound("DELETE", "/x", noiseHeaders(), ""), table)

	assert.Equal(t, StepUnmatched, step)
}

func TestResolve_BodyClearedPrecedesHeaderSteps(t *testing.T) {
	// Both a body-agnostic and a headers-agnostic entry could serve the
	// request; the cascade order makes the body-cleared probe win.
	registeredHeaders := mock.Headers{{Name: "k", Value: "v"}}
	table := mustTable(t,
		mock.Entry{
			Request:  mock.Fingerprint{Path: "/o", Method: "GET", Headers: registeredHeaders},
			Response: mock.ResponseTemplate{StatusCode: 201},
		},
		mock.Entry{
			Request:  mock.Fingerprint{Path: "/o", Method: "GET"},
			Response: mock.ResponseTemplate{StatusCode: 202},
		},
	)

	rt, step := Resolve(inbound("GET", "/o", registeredHeaders, "ignored"), table)

	assert.Equal(t, StepBodyCleared, step)
	assert.Equal(t, 201, rt.StatusCode)
}

func TestResolve_Idempotent(t *testing.T) {
	table := mustTable(t, mock.Entry{
		Request:  mock.Fingerprint{Path: "/x", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200},
	})

	f := inbound("GET", "/x", noiseHeaders(), "")
	firstRT, firstStep := Resolve(f, table)
	for i := 0; i < 25; i++ {
		rt, step := Resolve(f, table)
		assert.Equal(t, firstRT, rt)
		assert.Equal(t, firstStep, step)
	}
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "exact", StepExact.String())
	assert.Equal(t, "unmatched", StepUnmatched.String())
	assert.True(t, StepExact.Matched())
	assert.True(t, StepBodyAndHeadersCleared.Matched())
	assert.False(t, StepUnmatched.Matched())
}
