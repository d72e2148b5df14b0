package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	var (
		gotPath, gotHeader, gotType string
		gotBody                     []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("X-Api-Key")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/hooks", Config{Headers: map[string]string{"X-Api-Key": "k"}})
	require.NoError(t, err)

	resp, err := client.PostJSON(context.Background(), "ledger", map[string]int{"count": 2})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.False(t, resp.IsError())
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, "/hooks/ledger", gotPath)
	assert.Equal(t, "k", gotHeader)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"count":2}`, string(gotBody))
}

func TestDoDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Do(ctx, http.MethodGet, "", nil)
	assert.Error(t, err)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/hooks")
	assert.Error(t, err)
}
