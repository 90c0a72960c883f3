package rockauto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallCatalogAPI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>window._nck = "session-token";</script>`)
	})
	mux.HandleFunc(catalogAPIPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "getbuyersguide", r.PostFormValue("func"))
		assert.Equal(t, "1", r.PostFormValue("api_json_request"))
		assert.Equal(t, "session-token", r.PostFormValue("_jnck"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("payload")), &payload))
		assert.Equal(t, "12345", payload["partnum"])

		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, `{"result": "ok", "rows": 3}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := newTestClient(t, ts.URL)
	decoded, err := client.CallCatalogAPI(context.Background(), "getbuyersguide", map[string]string{"partnum": "12345"})
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded["result"])
	assert.Equal(t, float64(3), decoded["rows"])
}

func TestCallCatalogAPIWithoutToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>no token</html>`)
	})
	mux.HandleFunc(catalogAPIPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, hasToken := r.PostForm["_jnck"]
		assert.False(t, hasToken, "no bypass parameter without a session token")
		fmt.Fprint(w, `{}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := newTestClient(t, ts.URL)
	_, err := client.CallCatalogAPI(context.Background(), "anything", map[string]string{})
	require.NoError(t, err)
}

func TestCallCatalogAPIErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html></html>`)
	})
	mux.HandleFunc(catalogAPIPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := newTestClient(t, ts.URL)
	_, err := client.CallCatalogAPI(context.Background(), "anything", map[string]string{})

	var statusErr *UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}
