package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mockinizer/mockinizer/pkg/mock"
)

func noiseHeaders() mock.Headers {
	return mock.Headers{
		{Name: mock.HeaderAuthority, Value: "localhost:34567"},
		{Name: mock.HeaderScheme, Value: "http"},
		{Name: "accept-encoding", Value: "gzip"},
		{Name: "user-agent", Value: "Go-http-client/1.1"},
	}
}

func TestStripTransportNoise_FullSignature(t *testing.T) {
	got := StripTransportNoise(noiseHeaders())

	assert.NotNil(t, got, "stripping yields the empty set, not an absent set")
	assert.Empty(t, got)
}

func TestStripTransportNoise_KeepsGenuineHeaders(t *testing.T) {
	hs := append(noiseHeaders(), mock.Header{Name: "authorization", Value: "Bearer t"})

	got := StripTransportNoise(hs)

	assert.Equal(t, mock.Headers{{Name: "authorization", Value: "Bearer t"}}, got)
}

func TestStripTransportNoise_IncompleteSignature(t *testing.T) {
	tests := []struct {
		name    string
		headers mock.Headers
	}{
		{
			name:    "missing user-agent",
			headers: noiseHeaders()[:3],
		},
		{
			name: "authority not localhost",
			headers: mock.Headers{
				{Name: mock.HeaderAuthority, Value: "example.com:443"},
				{Name: mock.HeaderScheme, Value: "https"},
				{Name: "accept-encoding", Value: "gzip"},
				{Name: "user-agent", Value: "Go-http-client/2.0"},
			},
		},
		{
			name: "scheme off-value",
			headers: mock.Headers{
				{Name: mock.HeaderAuthority, Value: "localhost:34567"},
				{Name: mock.HeaderScheme, Value: "ftp"},
				{Name: "accept-encoding", Value: "gzip"},
				{Name: "user-agent", Value: "Go-http-client/1.1"},
			},
		},
		{
			name: "accept-encoding not exactly gzip",
			headers: mock.Headers{
				{Name: mock.HeaderAuthority, Value: "localhost:34567"},
				{Name: mock.HeaderScheme, Value: "http"},
				{Name: "accept-encoding", Value: "gzip, br"},
				{Name: "user-agent", Value: "Go-http-client/1.1"},
			},
		},
		{
			name: "foreign user agent",
			headers: mock.Headers{
				{Name: mock.HeaderAuthority, Value: "localhost:34567"},
				{Name: mock.HeaderScheme, Value: "http"},
				{Name: "accept-encoding", Value: "gzip"},
				{Name: "user-agent", Value: "curl/8.0"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripTransportNoise(tt.headers)
			assert.Equal(t, tt.headers, got, "incomplete signature must leave headers unchanged")
		})
	}
}

func TestStripTransportNoise_NilStaysNil(t *testing.T) {
	assert.Nil(t, StripTransportNoise(nil))
}

func TestStripTransportNoise_DoesNotModifyInput(t *testing.T) {
	hs := append(noiseHeaders(), mock.Header{Name: "x", Value: "y"})
	orig := make(mock.Headers, len(hs))
	copy(orig, hs)

	StripTransportNoise(hs)

	assert.Equal(t, orig, hs)
}
