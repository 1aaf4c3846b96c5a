package client

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockinizer/mockinizer/pkg/engine"
	"github.com/mockinizer/mockinizer/pkg/mock"
)

func startMock(t *testing.T, tls bool, entries ...mock.Entry) *engine.Registry {
	t.Helper()
	table, err := mock.NewTable(entries)
	require.NoError(t, err)

	var opts []engine.ServerOption
	if tls {
		opts = append(opts, engine.WithTLS())
	}
	reg := engine.NewRegistry()
	reg.Init(engine.NewServer(opts...), table)
	require.NoError(t, reg.Start(0))
	t.Cleanup(func() { _ = reg.ShutDown() })
	return reg
}

func TestNew_InvalidTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"bad scheme", "ftp://localhost:1"},
		{"no host", "http://"},
		{"garbage", "://nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.target)
			assert.Error(t, err)
		})
	}
}

func TestClient_RedirectsToMock(t *testing.T) {
	reg := startMock(t, false, mock.Entry{
		Request:  mock.Fingerprint{Path: "/api/users", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200, Body: `[{"id":1}]`},
	})

	c, err := New(reg.Server().URL())
	require.NoError(t, err)

	// The request targets a real-looking host; the transport rewires it.
	resp, err := c.Get("https://api.example.com/api/users")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `[{"id":1}]`, string(body))
	assert.Contains(t, resp.Header.Get(mock.ServerHeader), "Mockinizer")
}

func TestClient_TrustsSelfSignedCert(t *testing.T) {
	reg := startMock(t, true, mock.Entry{
		Request:  mock.Fingerprint{Path: "/secure", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200, Body: "ok"},
	})

	c, err := New(reg.Server().URL())
	require.NoError(t, err)

	resp, err := c.Get("https://api.example.com/secure")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_HostPatterns(t *testing.T) {
	reg := startMock(t, false, mock.Entry{
		Request:  mock.Fingerprint{Path: "/v1/ping", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200},
	})

	c, err := New(reg.Server().URL(), WithOnlyHosts("*.example.com"))
	require.NoError(t, err)

	resp, err := c.Get("http://api.example.com/v1/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_DoesNotModifyCallerRequest(t *testing.T) {
	reg := startMock(t, false, mock.Entry{
		Request:  mock.Fingerprint{Path: "/x", Method: "GET"},
		Response: mock.ResponseTemplate{StatusCode: 200},
	})

	c, err := New(reg.Server().URL())
	require.NoError(t, err)

	req, err := http.NewRequest("GET", "http://api.example.com/x", nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "api.example.com", req.URL.Host)
}
