package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Query document for PolarisPostActionLoadPostQueryQuery, the web client's
// post-load query.
const graphqlDocID = "10015901848480474"

// graphqlStrategy queries the GraphQL-style endpoint with the shortcode as a
// variable. Same flattening rules as the media-info endpoint, different
// response shape (edge/node sidecar).
type graphqlStrategy struct {
	c *client
}

func (s *graphqlStrategy) Name() string { return "graphql" }

type graphqlNode struct {
	IsVideo      bool   `json:"is_video"`
	VideoURL     string `json:"video_url"`
	DisplayURL   string `json:"display_url"`
	ThumbnailSrc string `json:"thumbnail_src"`
}

type graphqlResponse struct {
	Data struct {
		ShortcodeMedia *struct {
			graphqlNode
			EdgeSidecarToChildren struct {
				Edges []struct {
					Node graphqlNode `json:"node"`
				} `json:"edges"`
			} `json:"edge_sidecar_to_children"`
		} `json:"xdt_shortcode_media"`
	} `json:"data"`
}

func (s *graphqlStrategy) Attempt(ctx context.Context, req *Request) []Media {
	if req.Shortcode == "" {
		return nil
	}

	variables := fmt.Sprintf(`{"shortcode":%q}`, req.Shortcode)
	params := url.Values{}
	params.Set("variables", variables)
	params.Set("doc_id", graphqlDocID)

	u := s.c.url("/api/graphql?" + params.Encode())
	body, err := s.c.getGraphQL(ctx, u)
	if err != nil {
		return miss(s.c.log, s.Name(), req, err)
	}

	var payload graphqlResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("parsing graphql response: %w", err))
	}

	media := payload.Data.ShortcodeMedia
	if media == nil {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("post not found or not accessible"))
	}

	var items []Media
	if edges := media.EdgeSidecarToChildren.Edges; len(edges) > 0 {
		// Sidecar: flatten every child node in source order.
		for _, edge := range edges {
			if m, ok := nodeToMedia(edge.Node); ok {
				items = append(items, m)
			}
		}
	} else if m, ok := nodeToMedia(media.graphqlNode); ok {
		items = append(items, m)
	}

	if len(items) == 0 {
		return miss(s.c.log, s.Name(), req, fmt.Errorf("no media in response"))
	}
	return items
}

func nodeToMedia(n graphqlNode) (Media, bool) {
	if n.IsVideo && n.VideoURL != "" {
		thumb := n.ThumbnailSrc
		if thumb == "" {
			thumb = n.DisplayURL
		}
		return Media{URL: n.VideoURL, Thumbnail: thumb, Kind: KindVideo}, true
	}
	if n.DisplayURL != "" {
		return Media{URL: n.DisplayURL, Kind: KindImage}, true
	}
	return Media{}, false
}
