package instagram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"instafetch/internal/fingerprint"
)

// embedStrategy fetches the lightweight iframe rendering of a post. The embed
// page is much simpler markup than the canonical page and often remains
// readable after the JSON surfaces start demanding a login.
//
// With crawler set, it presents the link-preview crawler identity instead of
// a browser and applies a stricter filter that drops the placeholder images
// that rendering serves for some locked posts.
type embedStrategy struct {
	c       *client
	crawler bool
}

func (s *embedStrategy) Name() string {
	if s.crawler {
		return "embed-alt"
	}
	return "embed"
}

// placeholderHosts serve emoji sprites and locked-post placeholders, never
// post media.
var placeholderHosts = []string{
	"static.cdninstagram.com",
	"/images/instagram/",
	"/emoji/",
}

func isPlaceholder(u string) bool {
	for _, marker := range placeholderHosts {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}

// cdnHosts are where real post media lives.
func isCDNMedia(u string) bool {
	return strings.Contains(u, "cdninstagram.com") || strings.Contains(u, "fbcdn.net")
}

func (s *embedStrategy) Attempt(ctx context.Context, req *Request) []Media {
	if req.Shortcode == "" {
		return nil
	}

	var identity fingerprint.Profile
	if s.crawler {
		identity = s.c.pool.Crawler()
	} else {
		identity = s.c.pool.Next(true)
	}

	u := s.c.url("/p/" + req.Shortcode + "/embed/captioned/")
	body, err := s.c.get(ctx, u, "text/html,application/xhtml+xml", identity, pageTimeout)
	if err != nil {
		return miss(s.c.log, s.Name(), req, err)
	}

	if items := s.parseEmbedHTML(body); len(items) > 0 {
		return items
	}

	// Semantic markup absent; scan the raw page for inlined JSON fields.
	markup := string(body)
	if v := findMarkupURL(markup, "video_url"); v != "" {
		return []Media{{URL: v, Thumbnail: findMarkupURL(markup, "display_url"), Kind: KindVideo}}
	}
	if d := findMarkupURL(markup, "display_url"); d != "" && !(s.crawler && isPlaceholder(d)) {
		return []Media{{URL: d, Kind: KindImage}}
	}

	return miss(s.c.log, s.Name(), req, fmt.Errorf("no media in embed markup"))
}

// parseEmbedHTML pulls media out of the embed page's semantic HTML.
func (s *embedStrategy) parseEmbedHTML(body []byte) []Media {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	if src, ok := doc.Find("video").First().Attr("src"); ok && isCDNMedia(src) {
		m := Media{URL: src, Kind: KindVideo}
		if poster, ok := doc.Find("video").First().Attr("poster"); ok {
			m.Thumbnail = poster
		}
		return []Media{m}
	}

	var items []Media
	doc.Find("img.EmbeddedMediaImage, img[class*=EmbeddedMedia]").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || !isCDNMedia(src) {
			return
		}
		if s.crawler && isPlaceholder(src) {
			return
		}
		items = append(items, Media{URL: src, Kind: KindImage})
	})
	return items
}
