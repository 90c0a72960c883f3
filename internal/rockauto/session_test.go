package rockauto

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSessionTokenExtraction(t *testing.T) {
	tests := []struct {
		name      string
		landing   string
		wantToken string
		wantParam string
	}{
		{
			name:      "primary pattern",
			landing:   `<html><script>window._nck = "abc123";</script></html>`,
			wantToken: "abc123",
			wantParam: "abc123",
		},
		{
			name:      "parent frame variant",
			landing:   `<html><script>parent.window._nck = "xyz789";</script></html>`,
			wantToken: "xyz789",
			wantParam: "xyz789",
		},
		{
			name:      "token needing escaping",
			landing:   `<html><script>window._nck = "a+b/c=d";</script></html>`,
			wantToken: "a+b/c=d",
			wantParam: "a%2Bb%2Fc%3Dd",
		},
		{
			name:      "no token present",
			landing:   `<html><body>nothing here</body></html>`,
			wantToken: "",
			wantParam: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.landing)
			}))
			defer ts.Close()

			client := newTestClient(t, ts.URL)
			client.ensureSession(context.Background())

			assert.Equal(t, tt.wantToken, client.nckToken)
			assert.Equal(t, tt.wantParam, client.bypassParam())
		})
	}
}

func TestEnsureSessionIdempotent(t *testing.T) {
	var requests atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `<script>window._nck = "tok";</script>`)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	client.ensureSession(context.Background())
	client.ensureSession(context.Background())
	client.ensureSession(context.Background())

	assert.Equal(t, int64(1), requests.Load())
}

func TestEnsureSessionSurvivesNetworkFailure(t *testing.T) {
	// Nothing is listening here; initialization must still complete
	// and later calls must not retry forever.
	client := newTestClient(t, "http://127.0.0.1:1")

	client.ensureSession(context.Background())

	require.True(t, client.initialized)
	assert.Empty(t, client.bypassParam())
}

func TestResetReArmsInitialization(t *testing.T) {
	var requests atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprintf(w, `<script>window._nck = "tok%d";</script>`, requests.Load())
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	client.ensureSession(context.Background())
	assert.Equal(t, "tok1", client.nckToken)

	client.Reset()
	assert.Empty(t, client.bypassParam())

	client.ensureSession(context.Background())
	assert.Equal(t, "tok2", client.nckToken)
	assert.Equal(t, int64(2), requests.Load())
}
