package utils

import (
	"net/http"
	"regexp"
	"strings"
)

// remoteAddrPattern is the pattern for parsing the IP address out of a
// request's remote address, which includes a port number at the end
var remoteAddrPattern = regexp.MustCompile(`^(.*):\d+$`)

// GetIpAddress gets the client IP address from a set of headers and a
// remote address. This feeds the public-IP tenant fingerprint, so the
// proxy-forwarded headers are preferred over the raw socket address.
func GetIpAddress(
	header http.Header,
	remoteAddr string,
) string {

	// If there are headers, try to pull the CF-Connecting-IP header, which is
	// forwarded from Cloudflare in the event that Cloudflare is being used
	if header != nil {
		ip := header.Get("CF-Connecting-IP")
		if len(ip) > 0 {
			return ip
		}
		forwarded := header.Get("X-Forwarded-For")
		if len(forwarded) > 0 {
			parts := strings.Split(forwarded, ",")
			return strings.TrimSpace(parts[0])
		}
	}

	// Match against the pattern in order to pull the IP address out
	submatch := remoteAddrPattern.FindStringSubmatch(remoteAddr)
	if len(submatch) < 2 {
		return ""
	}

	// Clean up the IP address. These only have an effect in the case of IPv6
	ip := submatch[1]
	ip = strings.Trim(ip, "[]")
	ip = strings.TrimPrefix(ip, "::ffff:")
	return ip

}
