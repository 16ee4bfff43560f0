package quota

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter holds one token bucket per (session, resource) and one per
// (client address, resource). A request must fit in both, so dropping the
// session cookie does not reset the budget.
type Limiter struct {
	mu              sync.Mutex
	perMinute       int
	clientPerMinute int
	buckets         map[string]*rate.Limiter
}

// NewLimiter allows perMinute events per session and clientPerMinute events
// per client address, each with bursts of the same size. A value <= 0
// disables that bucket.
func NewLimiter(perMinute, clientPerMinute int) *Limiter {
	return &Limiter{
		perMinute:       perMinute,
		clientPerMinute: clientPerMinute,
		buckets:         make(map[string]*rate.Limiter),
	}
}

func (l *Limiter) PerMinute() int { return l.perMinute }

// Allow consumes one event for the session and the client address and
// reports whether both were within quota. Nothing is consumed on rejection.
func (l *Limiter) Allow(sessionID, client, resource string) bool {
	now := time.Now()
	buckets := l.bucketsFor(sessionID, client, resource)

	taken := make([]*rate.Reservation, 0, len(buckets))
	for _, b := range buckets {
		r := b.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, t := range taken {
				t.CancelAt(now)
			}
			return false
		}
		taken = append(taken, r)
	}
	return true
}

func (l *Limiter) bucketsFor(sessionID, client, resource string) []*rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*rate.Limiter
	if l.perMinute > 0 {
		out = append(out, l.bucket(sessionKey(sessionID, resource), l.perMinute))
	}
	if l.clientPerMinute > 0 && client != "" {
		out = append(out, l.bucket(clientKey(client, resource), l.clientPerMinute))
	}
	return out
}

// bucket must be called with mu held.
func (l *Limiter) bucket(key string, perMinute int) *rate.Limiter {
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		l.buckets[key] = b
	}
	return b
}

// Forget drops the buckets of a session.
func (l *Limiter) Forget(sessionID string) {
	prefix := sessionKey(sessionID, "")
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.buckets {
		if strings.HasPrefix(key, prefix) {
			delete(l.buckets, key)
		}
	}
}

// Prune drops every bucket that has refilled completely. A refilled bucket
// is indistinguishable from a new one, so this only reclaims memory.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	pruned := 0
	for key, b := range l.buckets {
		if b.Tokens() >= float64(b.Burst()) {
			delete(l.buckets, key)
			pruned++
		}
	}
	return pruned
}

// Len is the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// ExceededMessage is shown to a caller who ran out of quota.
func (l *Limiter) ExceededMessage(resource string) string {
	return fmt.Sprintf("You've reached your limit of %d %s per minute. Please wait a moment and try again.",
		l.perMinute, ResourceDisplayName(resource))
}

// ClientAddr is the host part of r.RemoteAddr, which chi's RealIP middleware
// has already replaced with the forwarded address when one is present.
func ClientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func sessionKey(sessionID, resource string) string { return "s:" + sessionID + "|" + resource }

func clientKey(client, resource string) string { return "c:" + client + "|" + resource }
