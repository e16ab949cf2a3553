package internal

import (
	"golang.org/x/time/rate"
)

// UpstreamLimiter caps how often this process calls the completion API.
// A nil *UpstreamLimiter allows everything.
type UpstreamLimiter struct {
	limiter *rate.Limiter
}

// NewUpstreamLimiter returns a limiter for requestsPerMinute, or nil when
// requestsPerMinute is zero
func NewUpstreamLimiter(requestsPerMinute int) *UpstreamLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	rps := float64(requestsPerMinute) / 60.0
	burst := max(1, requestsPerMinute/5)
	return &UpstreamLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a call may be made right now. It never waits.
func (l *UpstreamLimiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}
