package instagram

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"instafetch/internal/fingerprint"
)

const defaultBase = "https://www.instagram.com"

// Per-call timeouts. JSON endpoints answer fast or not at all; full pages can
// legitimately take longer.
const (
	jsonTimeout = 12 * time.Second
	pageTimeout = 25 * time.Second
)

// maxBodyBytes caps how much of any upstream response we read.
const maxBodyBytes = 10 << 20

// client is the shared outbound requester used by all strategies. One client
// serves all concurrent requests; it holds no per-request state.
type client struct {
	http *http.Client
	pool *fingerprint.Pool
	base string // overridable in tests
	log  *logrus.Entry
}

func newClient(pool *fingerprint.Pool, log *logrus.Entry) *client {
	return &client{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		pool: pool,
		base: defaultBase,
		log:  log,
	}
}

// url joins a site-relative path onto the configured base.
func (c *client) url(path string) string {
	return c.base + path
}

// sitePath reduces a normalized URL back to its site-relative path so tests
// can point strategies at a fixture server.
func sitePath(normalized string) string {
	if i := strings.Index(normalized, "instagram.com"); i >= 0 {
		return normalized[i+len("instagram.com"):]
	}
	return normalized
}

// getGraphQL fetches a GraphQL-style endpoint with the headers the web client
// sends alongside its queries. Absent, the endpoint answers with a login page.
func (c *client) getGraphQL(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, jsonTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.pool.Next(false).Apply(req, c.base+"/")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("X-IG-App-ID", "936619743392459")
	req.Header.Set("X-FB-Friendly-Name", "PolarisPostActionLoadPostQueryQuery")
	req.Header.Set("X-ASBD-ID", "129477")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	if cookie := c.pool.CookieHeader(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// get fetches one URL with the given identity. Non-2xx statuses are errors;
// the body is capped at maxBodyBytes.
func (c *client) get(ctx context.Context, rawURL, accept string, p fingerprint.Profile, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	p.Apply(req, c.base+"/")
	req.Header.Set("Accept", accept)
	if cookie := c.pool.CookieHeader(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
