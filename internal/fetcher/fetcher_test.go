package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare domain defaults to https", "example.com", "https://example.com", false},
		{"http preserved", "http://example.com", "http://example.com", false},
		{"https preserved", "https://example.com/page", "https://example.com/page", false},
		{"whitespace trimmed", "  example.com ", "https://example.com", false},
		{"empty", "", "", true},
		{"no host", "https://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchSuccessRecordsLatency(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><head><title>ok</title></head><body></body></html>")
	}))
	defer ts.Close()

	f := NewHTTPFetcher(Options{Timeout: 5 * time.Second})
	doc, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, ts.URL, doc.URL)
	assert.Contains(t, doc.HTML, "<title>ok</title>")
	assert.Greater(t, doc.Latency, time.Duration(0))
	assert.False(t, doc.Secure, "httptest server is plain http")
}

func TestFetchTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	f := NewHTTPFetcher(Options{Timeout: 100 * time.Millisecond})
	_, err := f.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	f := NewHTTPFetcher(Options{})
	_, err := f.Fetch(context.Background(), ts.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestFetchNetworkError(t *testing.T) {
	f := NewHTTPFetcher(Options{Timeout: 2 * time.Second})
	// RFC 5737 TEST-NET address, should fail to connect.
	_, err := f.Fetch(context.Background(), "http://192.0.2.1:1")
	require.Error(t, err)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		// Slow environments may surface this as a timeout instead.
		assert.ErrorIs(t, err, ErrTimeout)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	f := NewHTTPFetcher(Options{})
	_, err := f.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestFetchSetsUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	f := NewHTTPFetcher(Options{UserAgent: "audit-test/1.0"})
	_, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotUA, "audit-test"))
}
