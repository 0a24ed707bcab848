package instagram

import (
	"fmt"
	"time"
)

// Item is one downloadable media entry inside a carousel result.
type Item struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Filename  string `json:"filename"`
	Type      string `json:"type"`
}

// Result is the assembled response for a successful extraction.
type Result struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Filename  string `json:"filename"`
	Type      string `json:"type"`
	Items     []Item `json:"items,omitempty"`
}

// Dedupe removes exact-URL duplicates, keeping first-occurrence order. Only
// byte-identical URLs collapse; two CDN variants of the same frame stay
// separate entries.
func Dedupe(items []Media) []Media {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, m := range items {
		if _, ok := seen[m.URL]; ok {
			continue
		}
		seen[m.URL] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Assemble turns a strategy's raw media list into the response shape. The
// first item is the primary; Items is populated only for carousels with more
// than one unique entry.
func Assemble(items []Media, now time.Time) Result {
	items = Dedupe(items)
	if len(items) == 0 {
		return Result{}
	}

	primary := items[0]
	res := Result{
		URL:       primary.URL,
		Thumbnail: thumbnailFor(primary, items),
		Filename:  filename(primary.Kind, now, 0),
		Type:      string(primary.Kind),
	}

	if len(items) > 1 {
		res.Items = make([]Item, 0, len(items))
		for i, m := range items {
			res.Items = append(res.Items, Item{
				URL:       m.URL,
				Thumbnail: m.Thumbnail,
				Filename:  filename(m.Kind, now, i),
				Type:      string(m.Kind),
			})
		}
	}
	return res
}

// thumbnailFor prefers the primary's own thumbnail, then the first image
// anywhere in the set, so video results always carry a preview frame when one
// exists.
func thumbnailFor(primary Media, items []Media) string {
	if primary.Thumbnail != "" {
		return primary.Thumbnail
	}
	if primary.Kind == KindImage {
		return primary.URL
	}
	for _, m := range items {
		if m.Kind == KindImage {
			return m.URL
		}
		if m.Thumbnail != "" {
			return m.Thumbnail
		}
	}
	return ""
}

func filename(kind Kind, now time.Time, index int) string {
	ext := "jpg"
	if kind == KindVideo {
		ext = "mp4"
	}
	stamp := now.Format("20060102_150405")
	if index > 0 {
		return fmt.Sprintf("instagram_%s_%s_%d.%s", kind, stamp, index, ext)
	}
	return fmt.Sprintf("instagram_%s_%s.%s", kind, stamp, ext)
}
