// Package address derives the caller's network address from the
// transport-level remote address of an inbound request.
package address

import (
	"net"
	"strings"
)

// Resolve returns the caller address carried by remoteAddr
// An empty result means the address is unknown
//
// net/http reports RemoteAddr as "host:port", so the port is stripped.
// Values that are not in host:port form are returned as they are,
// with IPv6 brackets removed ("[::1]" becomes "::1").
//
// Only the transport-level address is used. Forwarding headers such as
// X-Forwarded-For are deliberately ignored.
func Resolve(remoteAddr string) string {
	remoteAddr = strings.TrimSpace(remoteAddr)
	if remoteAddr == "" {
		return ""
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// No port, e.g. "11.111.111.1" or "[2001:db8::1]"
		return strings.TrimSuffix(strings.TrimPrefix(remoteAddr, "["), "]")
	}

	return host
}
