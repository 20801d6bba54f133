package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/promotion/bundles", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, srv.Client())
	bundles, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, int64(7), bundles[0].PromotionID)
}

func TestHTTPSource_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/promotion/bundles", r.URL.Path)
		_, _ = w.Write([]byte(`{"promotions": [], "total": 0}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", srv.Client())
	_, err := src.Fetch(context.Background())

	require.NoError(t, err)
}

func TestHTTPSource_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, srv.Client())
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPSource_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	src := NewHTTPSource(srv.URL, nil)
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
}
