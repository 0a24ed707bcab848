package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

// ContentType is the classifier's hint about what kind of content a link
// points at.
type ContentType string

const (
	ContentPost    ContentType = "post"
	ContentReel    ContentType = "reel"
	ContentStory   ContentType = "story"
	ContentProfile ContentType = "profile"
)

// Request is one classified extraction request. Built once per inbound call
// and read-only thereafter.
type Request struct {
	RawURL        string
	NormalizedURL string
	Shortcode     string
	Username      string
	Hint          ContentType
	ExpectsVideo  bool
	Tool          string
}

// ClassifyError is returned when a URL cannot be turned into a Request.
// It is always a caller problem, never a network one.
type ClassifyError struct {
	Code    string // "invalid_url", "unsupported_host", "no_content_id"
	Message string
}

func (e *ClassifyError) Error() string { return e.Message }

// allowedHosts are the platform domains we accept. Anything else is rejected
// before any network call.
var allowedHosts = map[string]bool{
	"instagram.com":     true,
	"www.instagram.com": true,
	"m.instagram.com":   true,
	"instagr.am":        true,
	"www.instagr.am":    true,
}

// videoTools are tool intents that imply the caller wants a video stream.
var videoTools = map[string]bool{
	"video": true, "reel": true, "reels": true,
	"story": true, "stories": true,
	"audio": true, "mp3": true,
}

// profileTools are tool intents that imply a profile-picture lookup.
var profileTools = map[string]bool{
	"profile": true, "profile-picture": true, "dp": true,
}

// ParseRequest classifies a raw URL into a Request. tool is the caller's
// declared intent ("reels", "profile-picture", ...) and may be empty.
func ParseRequest(rawURL, tool string) (*Request, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, &ClassifyError{Code: "invalid_url", Message: "that does not look like a valid link"}
	}

	host := strings.ToLower(u.Hostname())
	if !allowedHosts[host] {
		return nil, &ClassifyError{Code: "unsupported_host", Message: fmt.Sprintf("%s is not an Instagram link", host)}
	}

	tool = strings.ToLower(strings.TrimSpace(tool))

	req := &Request{
		RawURL: rawURL,
		Tool:   tool,
	}

	// Canonical form: query and fragment stripped, known host, trailing slash.
	parts := splitPath(u.Path)
	switch {
	case len(parts) >= 2 && (parts[0] == "p" || parts[0] == "reel" || parts[0] == "reels" || parts[0] == "tv"):
		req.Shortcode = parts[1]
		req.Hint = ContentPost
		if parts[0] == "reel" || parts[0] == "reels" {
			req.Hint = ContentReel
			req.ExpectsVideo = true
		}
		req.NormalizedURL = canonicalURL(parts[0], parts[1])
	case len(parts) >= 3 && parts[0] == "stories":
		req.Username = parts[1]
		req.Shortcode = parts[2]
		req.Hint = ContentStory
		req.NormalizedURL = "https://www.instagram.com/stories/" + parts[1] + "/" + parts[2] + "/"
	case len(parts) == 1 && parts[0] != "":
		req.Username = parts[0]
		req.Hint = ContentProfile
		req.NormalizedURL = "https://www.instagram.com/" + parts[0] + "/"
	default:
		return nil, &ClassifyError{Code: "no_content_id", Message: "could not find a post, reel, story, or profile in that link"}
	}

	if profileTools[tool] && req.Username != "" {
		req.Hint = ContentProfile
	}
	if videoTools[tool] {
		req.ExpectsVideo = true
	}
	if req.Hint == ContentProfile {
		// A profile picture is always an image.
		req.ExpectsVideo = false
	}

	return req, nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func canonicalURL(section, shortcode string) string {
	// Reels resolve through the same post page as /p/ links.
	if section == "reels" {
		section = "reel"
	}
	return "https://www.instagram.com/" + section + "/" + shortcode + "/"
}
