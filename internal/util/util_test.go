package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits.Add(1)
		_, _ = w.Write([]byte("User-agent: formsense\nDisallow: /admin\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker("formsense/0.1 (+https://github.com/ppiankov/formsense)", time.Second)

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/login")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2*time.Second, delay)

	assert.False(t, checker.IsAllowed(context.Background(), server.URL+"/admin/login"))
	assert.Equal(t, int32(1), hits.Load(), "robots.txt should be fetched once per host")

	checker.Clear()
	assert.True(t, checker.IsAllowed(context.Background(), server.URL+"/"))
	assert.Equal(t, int32(2), hits.Load())
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker("formsense", time.Second)
	assert.True(t, checker.IsAllowed(context.Background(), server.URL+"/login"))
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker("formsense", 100*time.Millisecond)
	assert.True(t, checker.IsAllowed(context.Background(), "http://127.0.0.1:1/login"))
}

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "formsense", NormalizeUserAgent("formsense/0.1 (+https://example.com)"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "http://secure-proxy.internal:3128", "*.corp.example")

	req := func(raw string) *http.Request {
		r, err := http.NewRequest(http.MethodGet, raw, nil)
		require.NoError(t, err)
		return r
	}

	u, err := proxy(req("http://example.com/login"))
	require.NoError(t, err)
	assert.Equal(t, "proxy.internal:3128", u.Host)

	u, err = proxy(req("https://example.com/login"))
	require.NoError(t, err)
	assert.Equal(t, "secure-proxy.internal:3128", u.Host)

	u, err = proxy(req("https://sso.corp.example/login"))
	require.NoError(t, err)
	assert.Nil(t, u)
}
