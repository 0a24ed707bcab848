package instagram

import (
	"regexp"
	"strconv"
	"strings"
)

// Best-effort markup scanner. Instagram inlines post JSON into page and embed
// markup; when the structured endpoints are blocked, these fields are often
// the only surface left. The contract is deliberately narrow: find one of a
// small set of known fields and undo the known escape sequences. Anything
// fancier belongs in a structured strategy.

var markupFieldPatterns = map[string]*regexp.Regexp{
	"video_url":          regexp.MustCompile(`"video_url"\s*:\s*"([^"]+)"`),
	"display_url":        regexp.MustCompile(`"display_url"\s*:\s*"([^"]+)"`),
	"thumbnail_src":      regexp.MustCompile(`"thumbnail_src"\s*:\s*"([^"]+)"`),
	"profile_pic_url_hd": regexp.MustCompile(`"profile_pic_url_hd"\s*:\s*"([^"]+)"`),
	"profile_pic_url":    regexp.MustCompile(`"profile_pic_url"\s*:\s*"([^"]+)"`),
}

// findMarkupURL scans markup for the first occurrence of a known JSON field
// and returns its unescaped URL value. Unknown field names return "".
func findMarkupURL(markup, field string) string {
	re, ok := markupFieldPatterns[field]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(markup)
	if len(m) < 2 {
		return ""
	}
	return unescapeMarkupURL(m[1])
}

var unicodeEscape = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)

// unescapeMarkupURL reverses the escaping Instagram applies to URLs embedded
// in inline JSON: backslash-escaped slashes and \uXXXX sequences (most
// commonly & for "&").
func unescapeMarkupURL(s string) string {
	s = unicodeEscape.ReplaceAllStringFunc(s, func(esc string) string {
		code, err := strconv.ParseUint(esc[2:], 16, 32)
		if err != nil {
			return esc
		}
		return string(rune(code))
	})
	s = strings.ReplaceAll(s, `\/`, "/")
	return s
}

// upgradeProfilePicURL rewrites the low-resolution CDN path segment of a
// profile picture to its high-resolution equivalent. URLs without the
// segment pass through unchanged.
func upgradeProfilePicURL(u string) string {
	return strings.Replace(u, "s150x150", "s1080x1080", 1)
}
