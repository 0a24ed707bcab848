package instagram

import (
	"context"
	"encoding/json"
	"fmt"
)

// infoStrategy hits the internal media-info JSON endpoint keyed by shortcode.
// The native-app identity gets the most consistent answers from it. Most
// reliable surface when it works, so it runs first.
type infoStrategy struct {
	c *client
}

func (s *infoStrategy) Name() string { return "media-info" }

// mediaVersions is the variant listing shared by single items and carousel
// children. Variants arrive best-first from upstream; we take the first one
// rather than re-ranking.
type mediaVersions struct {
	MediaType     int `json:"media_type"` // 1 image, 2 video, 8 carousel
	VideoVersions []struct {
		URL string `json:"url"`
	} `json:"video_versions"`
	ImageVersions2 struct {
		Candidates []struct {
			URL string `json:"url"`
		} `json:"candidates"`
	} `json:"image_versions2"`
}

type mediaInfoResponse struct {
	Items []struct {
		mediaVersions
		CarouselMedia []mediaVersions `json:"carousel_media"`
	} `json:"items"`
}

func (s *infoStrategy) Attempt(ctx context.Context, req *Request) []Media {
	if req.Shortcode == "" {
		return nil
	}

	u := s.c.url("/p/" + req.Shortcode + "/?__a=1&__d=dis")
	body, err := s.c.get(ctx, u, "application/json", s.c.pool.App(), jsonTimeout)
	if err != nil {
		return miss(s.c.log, s.Name(), req, err)
	}

	var payload mediaInfoResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("parsing media info: %w", err))
	}

	var items []Media
	for _, item := range payload.Items {
		if len(item.CarouselMedia) > 0 {
			// Carousel: flatten every child in source order.
			for _, child := range item.CarouselMedia {
				if m, ok := versionsToMedia(child); ok {
					items = append(items, m)
				}
			}
			continue
		}
		if m, ok := versionsToMedia(item.mediaVersions); ok {
			items = append(items, m)
		}
	}

	if len(items) == 0 {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("no media in response"))
	}
	return items
}

// versionsToMedia picks the first-listed variant of a media node. A video's
// first image candidate becomes its thumbnail.
func versionsToMedia(v mediaVersions) (Media, bool) {
	if len(v.VideoVersions) > 0 && v.VideoVersions[0].URL != "" {
		m := Media{URL: v.VideoVersions[0].URL, Kind: KindVideo}
		if len(v.ImageVersions2.Candidates) > 0 {
			m.Thumbnail = v.ImageVersions2.Candidates[0].URL
		}
		return m, true
	}
	if len(v.ImageVersions2.Candidates) > 0 && v.ImageVersions2.Candidates[0].URL != "" {
		return Media{URL: v.ImageVersions2.Candidates[0].URL, Kind: KindImage}, true
	}
	return Media{}, false
}
