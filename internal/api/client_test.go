package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", "secret")
	assert.Equal(t, "http://localhost:5000", c.baseURL)
	assert.Equal(t, "secret", c.apiKey)
	assert.NotNil(t, c.httpClient)
}

func TestHealthcheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthcheck", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, New(server.URL, "").Healthcheck(context.Background()))
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Error(t, New(server.URL, "").Healthcheck(context.Background()))
}

func TestHealthcheck_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	assert.Error(t, New(url, "").Healthcheck(context.Background()))
}

func TestUpload(t *testing.T) {
	got := map[string]string{}
	var content []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/snapshots", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, k := range []string{"secret", "filename", "startTime", "frames", "vehicles", "tag"} {
			got[k] = r.FormValue(k)
		}

		file, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "fleet_20260101_120000.json.gz")
	require.NoError(t, os.WriteFile(path, []byte("test content"), 0644))

	meta := UploadMetadata{
		StartTime: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Frames:    600,
		Vehicles:  42,
		Tag:       "sim",
	}
	require.NoError(t, New(server.URL, "mysecret").Upload(context.Background(), path, meta))

	assert.Equal(t, map[string]string{
		"secret":    "mysecret",
		"filename":  "fleet_20260101_120000.json.gz",
		"startTime": "2026-01-01T12:00:00Z",
		"frames":    "600",
		"vehicles":  "42",
		"tag":       "sim",
	}, got)
	assert.Equal(t, "test content", string(content))
}

func TestUpload_FileNotFound(t *testing.T) {
	err := New("http://localhost:5000", "secret").Upload(context.Background(), "/nonexistent/file.json.gz", UploadMetadata{})
	assert.Error(t, err)
}

func TestUpload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "snap.json.gz")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	assert.Error(t, New(server.URL, "wrong").Upload(context.Background(), path, UploadMetadata{}))
}

func TestUpload_AcceptsCreated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "snap.json.gz")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	assert.NoError(t, New(server.URL, "secret").Upload(context.Background(), path, UploadMetadata{Vehicles: 1}))
}

func TestUpload_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	path := filepath.Join(t.TempDir(), "snap.json.gz")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 1<<20), 0644))

	err := New(url, "secret").Upload(context.Background(), path, UploadMetadata{})
	assert.ErrorContains(t, err, "upload request failed")
}
