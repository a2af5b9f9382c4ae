package util

import (
	"strings"
)

// HostOf extracts the host part of a request URL without parsing the full
// URL grammar; replay descriptions are well-formed absolute URLs or
// path-only strings
func HostOf(rawURL string) string {
	rest := rawURL
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+3:]
	} else if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "/") {
		return ""
	}
	if idx := strings.IndexAny(rest, "/?#"); idx >= 0 {
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, "@"); idx >= 0 {
		rest = rest[idx+1:]
	}
	return rest
}

// PathOf returns the path and query of a request URL, or the URL itself when
// it has no scheme/host component
func PathOf(rawURL string) string {
	rest := rawURL
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+3:]
	} else if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
	} else {
		return rawURL
	}
	if idx := strings.IndexAny(rest, "/?#"); idx >= 0 {
		return rest[idx:]
	}
	return "/"
}

// StatusClass buckets an HTTP status code into its class label.
// A missing status (aborted or opaque request) buckets as "none".
func StatusClass(statusCode *int) string {
	if statusCode == nil {
		return "none"
	}
	c := *statusCode
	if c < 100 || c > 599 {
		return "other"
	}
	return string(rune('0'+c/100)) + "xx"
}
