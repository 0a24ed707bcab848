package instagram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// browserStrategy renders the post page in a headless browser and captures
// the media URL the player actually loads. Expensive and requires a local
// Chromium, so it sits last in the order and is off unless the operator
// enables browser_fallback.
type browserStrategy struct {
	c *client
}

func (s *browserStrategy) Name() string { return "browser" }

const browserCaptureWindow = 15 * time.Second

func (s *browserStrategy) Attempt(ctx context.Context, req *Request) []Media {
	pageURL := s.c.url(sitePath(req.NormalizedURL))

	l := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-first-run")
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("launching browser: %w", err))
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("connecting to browser: %w", err))
	}
	defer func() { _ = browser.Close() }()

	page, err := stealth.Page(browser)
	if err != nil {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("opening page: %w", err))
	}
	defer func() { _ = page.Close() }()

	captureCtx, cancel := context.WithTimeout(ctx, browserCaptureWindow)
	defer cancel()

	videoURL := s.captureVideoURL(captureCtx, page, pageURL)
	if videoURL == "" {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("no video request observed"))
	}

	return []Media{{URL: videoURL, Kind: KindVideo}}
}

// captureVideoURL navigates to the page and waits for either a CDN video
// request on the wire or a populated <video> element, whichever comes first.
func (s *browserStrategy) captureVideoURL(ctx context.Context, page *rod.Page, pageURL string) string {
	_ = proto.NetworkEnable{}.Call(page)

	found := make(chan string, 1)
	listenerCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()

	go page.Context(listenerCtx).EachEvent(func(ev *proto.NetworkRequestWillBeSent) {
		u := ev.Request.URL
		if strings.Contains(u, ".mp4") && isCDNMedia(u) {
			select {
			case found <- u:
			default:
			}
		}
	})()

	if err := page.Context(ctx).Navigate(pageURL); err != nil {
		s.c.log.WithError(err).WithField("strategy", s.Name()).Debug("navigation failed")
		return ""
	}
	_ = page.Context(ctx).WaitLoad()

	// The wire capture may have fired during load; otherwise ask the player.
	select {
	case u := <-found:
		return u
	default:
	}

	if result, err := page.Context(ctx).Eval(`() => {
		const v = document.querySelector('video');
		return v && v.src ? v.src : '';
	}`); err == nil {
		if src := result.Value.String(); src != "" && !strings.HasPrefix(src, "blob:") {
			return src
		}
	}

	select {
	case u := <-found:
		return u
	case <-ctx.Done():
		return ""
	}
}
