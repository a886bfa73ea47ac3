package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/object/resumes-bucket/resumes/cand-1/resume.pdf", r.URL.Path)
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "pdf bytes", string(body))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "resumes-bucket", "api-key")

	url, err := client.Upload(context.Background(), "resumes/cand-1/resume.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/object/public/resumes-bucket/resumes/cand-1/resume.pdf", url)
}

func TestUpload_StoreError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "resumes-bucket", "bad-key")

	url, err := client.Upload(context.Background(), "resumes/cand-1/resume.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Empty(t, url)
}
