// Package instagram implements the multi-strategy extraction pipeline that
// resolves an Instagram post, reel, story, or profile link to directly
// downloadable media URLs without an official API.
package instagram

// Kind is the media asset type.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// Media is one retrievable asset found by a strategy. Immutable once
// constructed; two Media values are duplicates iff their URLs are
// byte-identical.
type Media struct {
	URL       string
	Thumbnail string
	Kind      Kind
}

// hasVideo reports whether any item in the list is a video.
func hasVideo(items []Media) bool {
	for _, m := range items {
		if m.Kind == KindVideo {
			return true
		}
	}
	return false
}
