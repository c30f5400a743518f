package throttle

import (
	"net"
	"net/http"
	"strings"
)

// ClientKey derives the per-client throttle key from the request: the first
// hop of X-Forwarded-For when present, else the remote address host. All
// buckets key on the network address, including authenticated routes.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if i := strings.IndexByte(xff, ','); i >= 0 {
			first = xff[:i]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
