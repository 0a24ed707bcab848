// Package fingerprint supplies randomized, plausible HTTP client identities
// for outbound Instagram requests. Rotating identities per call resembles
// organic traffic from many clients without driving a real browser.
package fingerprint

import (
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Profile is one client identity worth of request headers.
type Profile struct {
	UserAgent       string
	AcceptLanguage  string
	SecChUA         string // full sec-ch-ua header value, desktop only
	SecChUAPlatform string
	Mobile          bool
}

// Apply stamps the profile's headers onto an outbound request.
// Client-hint headers are only sent for desktop identities; mobile browsers
// and the native app do not send them.
func (p Profile) Apply(req *http.Request, referer string) {
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept-Language", p.AcceptLanguage)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	if p.SecChUA != "" {
		req.Header.Set("Sec-Ch-Ua", p.SecChUA)
		req.Header.Set("Sec-Ch-Ua-Platform", `"`+p.SecChUAPlatform+`"`)
		if p.Mobile {
			req.Header.Set("Sec-Ch-Ua-Mobile", "?1")
		} else {
			req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
		}
	}
}

// Credentials are operator-supplied Instagram session cookies. The zero value
// means unauthenticated; strategies then run anonymously.
type Credentials struct {
	SessionID string
	CSRFToken string
	UserID    string
}

// Empty reports whether no credentials are configured.
func (c Credentials) Empty() bool { return c.SessionID == "" }

var desktopProfiles = []Profile{
	{
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		AcceptLanguage:  "en-US,en;q=0.9",
		SecChUA:         `"Chromium";v="124", "Google Chrome";v="124", "Not-A.Brand";v="99"`,
		SecChUAPlatform: "Windows",
	},
	{
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		AcceptLanguage:  "en-US,en;q=0.8",
		SecChUA:         `"Chromium";v="123", "Google Chrome";v="123", "Not-A.Brand";v="24"`,
		SecChUAPlatform: "macOS",
	},
	{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0",
		AcceptLanguage: "en-US,en;q=0.5",
	},
	{
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		AcceptLanguage:  "en-GB,en;q=0.9",
		SecChUA:         `"Chromium";v="122", "Google Chrome";v="122", "Not(A:Brand";v="24"`,
		SecChUAPlatform: "Linux",
	},
}

var mobileProfiles = []Profile{
	{
		UserAgent:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
		AcceptLanguage: "en-US,en;q=0.9",
		Mobile:         true,
	},
	{
		UserAgent:      "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.9",
		Mobile:         true,
	},
	{
		UserAgent:      "Mozilla/5.0 (Linux; Android 13; SM-S918B) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/23.0 Chrome/115.0.0.0 Mobile Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.8",
		Mobile:         true,
	},
}

// Native app identities; the internal JSON endpoints answer these more often
// than browser identities.
var appProfiles = []Profile{
	{
		UserAgent:      "Instagram 309.0.0.30.109 Android (34/14; 420dpi; 1080x2219; Google/google; Pixel 8; shiba; shiba; en_US; 533880884)",
		AcceptLanguage: "en-US",
		Mobile:         true,
	},
	{
		UserAgent:      "Instagram 302.1.0.34.111 (iPhone15,3; iOS 17_4; en_US; en-US; scale=3.00; 1290x2796; 517029224)",
		AcceptLanguage: "en-US",
		Mobile:         true,
	},
}

// crawlerProfile is the generic link-preview identity used by the alternate
// embed strategy; some renderings are served to crawlers that are otherwise
// hidden behind a login wall.
var crawlerProfile = Profile{
	UserAgent:      "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
	AcceptLanguage: "en-US,en;q=0.5",
}

// Pool hands out identities and assembles the session cookie header.
// Selection is uniform random; inject a fixed source in tests for
// deterministic picks.
type Pool struct {
	mu    sync.Mutex
	rng   *rand.Rand
	creds Credentials
}

// NewPool creates a time-seeded pool carrying the given credentials.
func NewPool(creds Credentials) *Pool {
	return NewPoolWithSource(creds, rand.NewSource(time.Now().UnixNano()))
}

// NewPoolWithSource creates a pool with an explicit random source.
func NewPoolWithSource(creds Credentials, src rand.Source) *Pool {
	return &Pool{rng: rand.New(src), creds: creds}
}

func (p *Pool) pick(table []Profile) Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return table[p.rng.Intn(len(table))]
}

// Next returns a random browser identity, mobile or desktop.
func (p *Pool) Next(mobile bool) Profile {
	if mobile {
		return p.pick(mobileProfiles)
	}
	return p.pick(desktopProfiles)
}

// App returns a random native-app identity.
func (p *Pool) App() Profile {
	return p.pick(appProfiles)
}

// Crawler returns the link-preview crawler identity.
func (p *Pool) Crawler() Profile {
	return crawlerProfile
}

// Authenticated reports whether the pool carries session credentials.
func (p *Pool) Authenticated() bool { return !p.creds.Empty() }

// CookieHeader assembles the session cookie string, or "" when the pool
// carries no credentials. The credential values never appear in logs.
func (p *Pool) CookieHeader() string {
	if p.creds.Empty() {
		return ""
	}
	parts := []string{"sessionid=" + p.creds.SessionID}
	if p.creds.CSRFToken != "" {
		parts = append(parts, "csrftoken="+p.creds.CSRFToken)
	}
	if p.creds.UserID != "" {
		parts = append(parts, "ds_user_id="+p.creds.UserID)
	}
	return strings.Join(parts, "; ")
}
