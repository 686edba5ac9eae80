package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
)

// NormalizeSender lowercases a From header and strips any display name,
// reducing `Dan From TLDR <dan@tldrnewsletter.com>` to the bare address.
func NormalizeSender(from string) string {
	from = strings.TrimSpace(strings.ToLower(from))
	if open := strings.LastIndex(from, "<"); open >= 0 {
		if close := strings.Index(from[open:], ">"); close > 0 {
			return strings.TrimSpace(from[open+1 : open+close])
		}
	}
	return from
}

// headerValue returns the first header with the given name, case
// insensitively.
func headerValue(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// dateLayouts are the Date header formats seen in the wild, tried in order.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"2 Jan 2006 15:04:05 -0700",
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// decodeBody extracts the decoded message body from a payload tree,
// preferring an HTML part over plain text. Part data is
// base64url-encoded.
func decodeBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if html := findPart(payload, "text/html"); html != "" {
		return html
	}
	return findPart(payload, "text/plain")
}

// findPart walks the part tree depth-first and returns the first
// decodable part of the wanted MIME type.
func findPart(part *gmail.MessagePart, mimeType string) string {
	if strings.HasPrefix(part.MimeType, mimeType) && part.Body != nil && part.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			// The API omits padding on some parts.
			data, err = base64.RawURLEncoding.DecodeString(part.Body.Data)
		}
		if err == nil {
			return string(data)
		}
	}
	for _, child := range part.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}
