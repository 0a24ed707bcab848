package instagram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// pageStrategy fetches the canonical post page. Open-Graph tags are the
// preferred surface; failing that, the inline script blobs carry the same
// fields the embed page does.
type pageStrategy struct {
	c *client
}

func (s *pageStrategy) Name() string { return "page" }

func (s *pageStrategy) Attempt(ctx context.Context, req *Request) []Media {
	u := s.c.url(sitePath(req.NormalizedURL))
	body, err := s.c.get(ctx, u, "text/html,application/xhtml+xml", s.c.pool.Next(false), pageTimeout)
	if err != nil {
		return miss(s.c.log, s.Name(), req, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("parsing page: %w", err))
	}

	ogImage := metaContent(doc, "og:image")

	if video := firstNonEmpty(metaContent(doc, "og:video"), metaContent(doc, "og:video:secure_url")); video != "" {
		return []Media{{URL: video, Thumbnail: ogImage, Kind: KindVideo}}
	}

	// No og tags; fall back to scanning inline scripts.
	var scripts []byte
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		scripts = append(scripts, sel.Text()...)
	})
	markup := string(scripts)

	if v := findMarkupURL(markup, "video_url"); v != "" {
		thumb := firstNonEmpty(ogImage, findMarkupURL(markup, "display_url"))
		return []Media{{URL: v, Thumbnail: thumb, Kind: KindVideo}}
	}
	if d := firstNonEmpty(findMarkupURL(markup, "display_url"), ogImage); d != "" {
		return []Media{{URL: d, Kind: KindImage}}
	}

	return miss(s.c.log, s.Name(), req, fmt.Errorf("no media in page markup"))
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return content
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
