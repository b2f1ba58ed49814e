package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[{"name":"a.txt","sizeFormatted":"1.00 KB"},{"name":"b.txt","sizeFormatted":"12 B"}]}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL+"/", "tok", time.Second)
	files, err := c.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []FileDescriptor{
		{Name: "a.txt", SizeFormatted: "1.00 KB"},
		{Name: "b.txt", SizeFormatted: "12 B"},
	}, files)
}

func TestListFilesMissingArray(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	files, err := NewHTTPClient(ts.URL, "", 0).ListFiles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestListFilesErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bad") != "" {
			w.Write([]byte(`not json`))
			return
		}
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "", time.Second).ListFiles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	c := NewHTTPClient(ts.URL, "", time.Second)
	err = c.get(context.Background(), "/api/files?bad=1", &FileList{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestSearchPath(t *testing.T) {
	tests := []struct {
		base, keyword, want string
	}{
		{"http://h:1", "cat", "http://h:1/api/search/cat"},
		{"http://h:1/", "two words", "http://h:1/api/search/two%20words"},
		{"http://h:1", "a/b", "http://h:1/api/search/a%2Fb"},
		{"http://h:1", "50%", "http://h:1/api/search/50%25"},
		{"http://h:1", "café", "http://h:1/api/search/caf%C3%A9"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, searchPath(tt.base, "/api/search/", tt.keyword), tt.keyword)
	}
}
