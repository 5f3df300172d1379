package services

import (
	"sync"

	"golang.org/x/time/rate"
)

// PartnerLimiter keeps one token bucket per partner. A nil *PartnerLimiter
// allows everything.
type PartnerLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewPartnerLimiter returns nil when perSecond is not positive, which
// disables limiting.
func NewPartnerLimiter(perSecond float64, burst int) *PartnerLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &PartnerLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether partnerID may make another call now.
func (p *PartnerLimiter) Allow(partnerID string) bool {
	if p == nil {
		return true
	}
	p.mu.Lock()
	l, ok := p.limiters[partnerID]
	if !ok {
		l = rate.NewLimiter(p.limit, p.burst)
		p.limiters[partnerID] = l
	}
	p.mu.Unlock()
	return l.Allow()
}
