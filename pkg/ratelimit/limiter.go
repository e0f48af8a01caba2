package ratelimit

import (
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter allows up to limit requests per ttl window for each key.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewLimiter(ttl time.Duration, limit int) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Limiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(ttl / time.Duration(limit)),
		burst:    limit,
		ttl:      ttl,
		interval: ttl,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Allow reports whether a request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Start runs the janitor that forgets idle keys.
func (l *Limiter) Start() {
	log.Printf("[RateLimit] Starting janitor (interval: %s)", l.interval)

	go func() {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.cleanup()
			case <-l.stopChan:
				log.Println("[RateLimit] Janitor stopped")
				return
			}
		}
	}()
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopChan) })
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.ttl)
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[RateLimit] Forgot %d idle clients", removed)
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
