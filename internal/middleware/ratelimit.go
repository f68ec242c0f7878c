package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"IndoHomz/internal/logger"
	"IndoHomz/internal/utils"

	"github.com/sirupsen/logrus"
)

// Limiter is satisfied by services.RateLimiter.
type Limiter interface {
	Allow(key string, max int, window time.Duration) (bool, time.Duration)
}

// RateLimit allows max requests per client IP and scope in each window.
// Rejected requests get 429 with Retry-After in seconds.
func RateLimit(l Limiter, scope string, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, retry := l.Allow(scope+":"+ip, max, window)
			if !ok {
				secs := int(math.Ceil(retry.Seconds()))
				logger.Log.WithFields(logrus.Fields{"scope": scope, "ip": ip}).Warn("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				utils.RespondErrorWithCode(w, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded,
					fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", secs), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP relies on RealIP having rewritten RemoteAddr for trusted proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
