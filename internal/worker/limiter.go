package worker

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// Limiter spaces out fetches per site. Hosts that share a registrable
// domain (accounts.example.com and www.example.com) share one budget,
// since sign-in flows usually hop between them.
type Limiter struct {
	mu    sync.Mutex
	sites map[string]*rate.Limiter
	every rate.Limit
	burst int
}

// NewLimiter creates a limiter allowing requestsPerSecond per site
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		sites: make(map[string]*rate.Limiter),
		every: rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Wait blocks until a fetch of rawURL is allowed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	site, err := siteOf(rawURL)
	if err != nil {
		return err
	}
	return l.forSite(site).Wait(ctx)
}

// Allow reports whether a fetch of rawURL may start now, consuming a token
// when it may
func (l *Limiter) Allow(rawURL string) bool {
	site, err := siteOf(rawURL)
	if err != nil {
		return false
	}
	return l.forSite(site).Allow()
}

// WaitWithDelay waits for the site budget, then for the crawl delay a
// robots.txt asked for
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, crawlDelay time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}
	if crawlDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(crawlDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (l *Limiter) forSite(site string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.sites[site]
	if !ok {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.sites[site] = limiter
	}
	return limiter
}

// siteOf returns the registrable domain of rawURL's host. IP addresses,
// localhost and unknown suffixes fall back to the bare host name.
func siteOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	if site, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return site, nil
	}
	return host, nil
}
