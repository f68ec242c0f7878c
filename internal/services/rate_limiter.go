package services

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// RateLimiter counts hits per key in fixed windows. A window starts with the
// first hit and expires with the cache entry.
type RateLimiter struct {
	mu    sync.Mutex
	store *cache.Cache
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		store: cache.New(15*time.Minute, 5*time.Minute),
	}
}

// Allow records a hit for key. When the window already holds max hits it
// returns false and how long until the window resets.
func (l *RateLimiter) Allow(key string, max int, window time.Duration) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exp, found := l.store.GetWithExpiration(key)
	if !found {
		l.store.Set(key, 1, window)
		return true, 0
	}
	if v.(int) >= max {
		retry := time.Until(exp)
		if retry < time.Second {
			retry = time.Second
		}
		return false, retry
	}
	_, _ = l.store.IncrementInt(key, 1)
	return true, 0
}

