package infra_s3mock

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, srv *httptest.Server, method, path string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServerObjectLifecycle(t *testing.T) {
	mock := NewServer(slog.Default())
	srv := httptest.NewServer(mock)
	defer srv.Close()

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodHead, "/columns", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPut, "/columns/replays/a.json", []byte("{}")).StatusCode)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/columns", nil).StatusCode)
	assert.True(t, mock.HasBucket("columns"))
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/columns/replays/a.json", []byte(`{"history":[]}`)).StatusCode)

	resp := do(t, srv, http.MethodGet, "/columns/replays/a.json", nil)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"history":[]}`, string(body))

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/columns/replays/a.json", nil).StatusCode)

	resp = do(t, srv, http.MethodGet, "/columns/replays/a.json", nil)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "<Code>NoSuchKey</Code>")
}

func TestServerRequiresBucket(t *testing.T) {
	srv := httptest.NewServer(NewServer(slog.Default()))
	defer srv.Close()

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/", nil).StatusCode)
}
