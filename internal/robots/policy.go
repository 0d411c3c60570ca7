// Package robots gates raw content fetches on each site's robots.txt.
// Rule sets are fetched once per domain and cached with a jittered TTL
// so a fleet of instances does not refetch in lockstep.
package robots

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/temoto/robotstxt"

	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

const (
	// DefaultUserAgent identifies the crawler in robots.txt matching.
	DefaultUserAgent = "gitdocs"

	// DefaultTTL is the base cache lifetime for a parsed ruleset.
	DefaultTTL = 12 * time.Hour

	// ttlJitter is the +/- fraction applied to DefaultTTL.
	ttlJitter = 0.2

	cacheSize    = 256
	fetchTimeout = 10 * time.Second
)

type entry struct {
	data      *robotstxt.RobotsData
	expiresAt time.Time
}

// Policy fetches, parses and caches robots.txt per domain.
// The zero value is not usable; construct with New.
type Policy struct {
	client    *http.Client
	userAgent string
	ttl       time.Duration
	cache     *lru.Cache[string, entry]
	now       func() time.Time
}

// Option configures the policy.
type Option func(*Policy)

// WithUserAgent sets the user agent matched against robots.txt groups.
func WithUserAgent(ua string) Option {
	return func(p *Policy) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithHTTPClient sets the client used to fetch robots.txt.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Policy) {
		if c != nil {
			p.client = c
		}
	}
}

// WithTTL sets the base cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(p *Policy) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// New creates a robots policy with the given options.
func New(opts ...Option) *Policy {
	cache, _ := lru.New[string, entry](cacheSize)
	p := &Policy{
		client:    &http.Client{Timeout: fetchTimeout},
		userAgent: DefaultUserAgent,
		ttl:       DefaultTTL,
		cache:     cache,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Allowed reports whether the URL may be fetched under the target
// site's robots.txt. A missing, empty or unfetchable robots.txt allows
// everything; only an explicit disallow blocks.
func (p *Policy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	data := p.rules(ctx, u.Scheme, u.Host)
	if data == nil {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, p.userAgent)
}

// rules returns the cached ruleset for a host, fetching on miss or
// expiry. Concurrent refreshes of the same host are idempotent
// recomputations; last writer wins.
func (p *Policy) rules(ctx context.Context, scheme, host string) *robotstxt.RobotsData {
	if e, ok := p.cache.Get(host); ok && p.now().Before(e.expiresAt) {
		return e.data
	}

	data := p.fetch(ctx, scheme, host)
	p.cache.Add(host, entry{data: data, expiresAt: p.now().Add(p.jitteredTTL())})
	return data
}

func (p *Policy) fetch(ctx context.Context, scheme, host string) *robotstxt.RobotsData {
	if scheme == "" {
		scheme = "https"
	}
	robotsURL := scheme + "://" + host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Debug("robots: fetch %s failed: %v (allowing)", robotsURL, err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		logger.Debug("robots: parse %s failed: %v (allowing)", robotsURL, err)
		return nil
	}
	return data
}

// jitteredTTL spreads expiry by +/-20% around the base TTL.
func (p *Policy) jitteredTTL() time.Duration {
	spread := 1 - ttlJitter + 2*ttlJitter*rand.Float64()
	return time.Duration(float64(p.ttl) * spread)
}
