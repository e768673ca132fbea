package common

import (
	"sync"
	"time"
)

// InMemoryRateLimiter is the fallback limiter used when Redis is disabled.
// It keeps a sliding window of request timestamps per key.
type InMemoryRateLimiter struct {
	store             map[string][]int64
	mutex             sync.Mutex
	expirationSeconds int64
	initialized       bool
}

func (l *InMemoryRateLimiter) Init(expiration time.Duration) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.initialized {
		return
	}
	l.store = make(map[string][]int64)
	l.expirationSeconds = int64(expiration.Seconds())
	l.initialized = true
	go l.clearExpiredItems()
}

func (l *InMemoryRateLimiter) clearExpiredItems() {
	for {
		time.Sleep(time.Duration(l.expirationSeconds) * time.Second)
		now := time.Now().Unix()
		l.mutex.Lock()
		for key, timestamps := range l.store {
			if len(timestamps) == 0 || now-timestamps[len(timestamps)-1] > l.expirationSeconds {
				delete(l.store, key)
			}
		}
		l.mutex.Unlock()
	}
}

// Request reports whether another request under key is allowed within the
// sliding window of duration seconds holding at most maxRequestNum entries.
func (l *InMemoryRateLimiter) Request(key string, maxRequestNum int, duration int64) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := time.Now().Unix()
	timestamps := l.store[key]

	// Drop entries that fell out of the window.
	cutoff := now - duration
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= maxRequestNum {
		l.store[key] = kept
		return false
	}
	l.store[key] = append(kept, now)
	return true
}
