package itinerary

import (
	"net/url"
	"strings"
)

// IsMapURL reports whether a location URL points at a map provider and can be
// rendered as an embedded map rather than a plain link.
func IsMapURL(raw string) bool {
	if !HasWebScheme(raw) {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)
	switch {
	case host == "goo.gl" || strings.HasSuffix(host, ".goo.gl"):
		return true
	case strings.Contains(host, "google.") && strings.HasPrefix(path, "/maps"):
		return true
	case strings.HasPrefix(host, "maps."):
		return true
	}
	return false
}
