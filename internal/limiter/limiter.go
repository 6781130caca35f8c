// Package limiter gates transaction creation per user: a token bucket for
// request rate plus a static deny list for policy blocks. The two deny
// reasons stay distinguishable so callers can answer 429 vs 403.
package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Reason explains a denied Decision.
type Reason string

const (
	ReasonRateLimit   Reason = "rate_limit"
	ReasonPolicyBlock Reason = "policy_block"
)

// Decision is the allow/deny outcome for one request.
type Decision struct {
	Allowed    bool
	Reason     Reason
	Remaining  int
	RetryAfter time.Duration
}

// Limiter keeps one token bucket per user.
type Limiter struct {
	mu      sync.Mutex
	buckets map[uint]*rate.Limiter

	limit   rate.Limit
	burst   int
	blocked map[uint]struct{}
}

// New builds a limiter allowing perMinute requests per user with the given
// burst. blockedIDs are denied outright with ReasonPolicyBlock.
func New(perMinute, burst int, blockedIDs []uint) *Limiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	if burst <= 0 {
		burst = perMinute
	}
	blocked := make(map[uint]struct{}, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = struct{}{}
	}
	return &Limiter{
		buckets: make(map[uint]*rate.Limiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		blocked: blocked,
	}
}

// Check consumes cost tokens from the user's bucket and reports the outcome.
func (l *Limiter) Check(userID uint, cost int) Decision {
	if _, ok := l.blocked[userID]; ok {
		return Decision{Allowed: false, Reason: ReasonPolicyBlock}
	}
	if cost <= 0 {
		cost = 1
	}

	bucket := l.bucket(userID)
	now := time.Now()

	res := bucket.ReserveN(now, cost)
	if !res.OK() {
		// cost exceeds burst, can never succeed
		return Decision{Allowed: false, Reason: ReasonRateLimit}
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return Decision{Allowed: false, Reason: ReasonRateLimit, RetryAfter: delay}
	}

	return Decision{Allowed: true, Remaining: int(bucket.TokensAt(now))}
}

func (l *Limiter) bucket(userID uint) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[userID]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[userID] = b
	}
	return b
}
