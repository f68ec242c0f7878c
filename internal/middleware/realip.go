package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"IndoHomz/internal/logger"
)

// RealIP sets RemoteAddr from X-Forwarded-For or X-Real-IP, but only for
// connections coming from one of the trusted proxies (IPs or CIDRs).
// Without trusted proxies the headers are ignored.
func RealIP(trusted []string) func(http.Handler) http.Handler {
	nets := parseProxies(trusted)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip, ok := forwardedIP(r, nets); ok {
				r.RemoteAddr = ip
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseProxies(list []string) []netip.Prefix {
	var out []netip.Prefix
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, "/") {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				logger.Log.WithField("proxy", s).Warn("ignoring invalid trusted proxy")
				continue
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(s)
		if err != nil {
			logger.Log.WithField("proxy", s).Warn("ignoring invalid trusted proxy")
			continue
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out
}

func isTrusted(nets []netip.Prefix, ip netip.Addr) bool {
	for _, p := range nets {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// forwardedIP walks X-Forwarded-For from the right and returns the first
// hop that is not a trusted proxy.
func forwardedIP(r *http.Request, nets []netip.Prefix) (string, bool) {
	if len(nets) == 0 {
		return "", false
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !isTrusted(nets, peer.Unmap()) {
		return "", false
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if ip = ip.Unmap(); !isTrusted(nets, ip) {
			return ip.String(), true
		}
	}
	if ip, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return ip.Unmap().String(), true
	}
	return "", false
}
