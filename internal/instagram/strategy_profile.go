package instagram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// profileStrategy resolves a profile picture from the profile page. Only
// consulted when the request was classified as a profile reference.
type profileStrategy struct {
	c *client
}

func (s *profileStrategy) Name() string { return "profile-pic" }

func (s *profileStrategy) Attempt(ctx context.Context, req *Request) []Media {
	if req.Username == "" {
		return nil
	}

	u := s.c.url("/" + req.Username + "/")
	body, err := s.c.get(ctx, u, "text/html,application/xhtml+xml", s.c.pool.Next(false), pageTimeout)
	if err != nil {
		return miss(s.c.log, s.Name(), req, err)
	}

	picURL := ""
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		picURL = metaContent(doc, "og:image")
	}
	if picURL == "" {
		markup := string(body)
		picURL = firstNonEmpty(
			findMarkupURL(markup, "profile_pic_url_hd"),
			findMarkupURL(markup, "profile_pic_url"),
		)
	}
	if picURL == "" {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("no profile picture in page"))
	}

	// The CDN serves profile avatars under a resolution path segment; swap it
	// for the high-resolution variant and keep the original as the thumbnail.
	return []Media{{
		URL:       upgradeProfilePicURL(picURL),
		Thumbnail: picURL,
		Kind:      KindImage,
	}}
}
