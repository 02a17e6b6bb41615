package helpers

import (
	"net/url"
	"strings"
)

// NormalizedDomain reduces a URL to its bare domain for per-source
// capping: lowercased host, default port and "www." prefix stripped.
// Unparseable input maps to "unknown" so it still counts against one bucket.
func NormalizedDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "unknown"
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	host := strings.ToLower(parsed.Host)
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")
	host = strings.TrimPrefix(host, "www.")
	return host
}
