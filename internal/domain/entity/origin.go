package entity

import (
	"net/url"
	"strings"
)

// OriginFromURL returns the serialized security origin of a document URL.
//
// Opaque documents (data:, about:, javascript:, blob: without an inner
// network URL, or anything unparsable) have an empty origin. File documents
// serialize as "file://". Network origins drop default ports and lowercase the
// scheme and host.
func OriginFromURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	scheme := strings.ToLower(parsed.Scheme)
	switch scheme {
	case "http", "https", "ws", "wss":
		host := strings.ToLower(parsed.Hostname())
		if host == "" {
			return ""
		}
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		if port := parsed.Port(); port != "" && port != defaultPort(scheme) {
			host += ":" + port
		}
		return scheme + "://" + host
	case "file":
		return "file://"
	case "blob":
		// blob:https://example.com/uuid inherits the inner origin
		return OriginFromURL(parsed.Opaque)
	default:
		return ""
	}
}

// IsOpaqueOrigin reports whether origin identifies non-network content.
func IsOpaqueOrigin(origin string) bool {
	return origin == ""
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http", "ws":
		return "80"
	case "https", "wss":
		return "443"
	default:
		return ""
	}
}
