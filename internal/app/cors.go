package app

import "strings"

// originHost strips the scheme from an Origin header value, leaving "host[:port]".
func originHost(origin string) string {
	if i := strings.Index(origin, "://"); i >= 0 {
		return origin[i+3:]
	}
	return origin
}

// hostMatchesPattern matches a request host against one allowed-origin entry.
// "*.campuscord.app" admits any subdomain, "localhost:*" admits any port.
func hostMatchesPattern(host, pattern string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
