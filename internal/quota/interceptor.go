package quota

import (
	"encoding/json"
	"net/http"

	"github.com/amityadav/stratreport/internal/logger"
)

// Interceptor rejects requests from sessions or clients that exceeded their quota.
type Interceptor struct {
	limiter *Limiter
}

func NewInterceptor(l *Limiter) *Interceptor {
	return &Interceptor{limiter: l}
}

// Check charges one resource event to sessionID and the caller's address.
// When the quota is exhausted it writes a 429 JSON response and returns false.
// Handlers call it after validating the request, so rejected input is free.
func (i *Interceptor) Check(w http.ResponseWriter, r *http.Request, sessionID, resource string) bool {
	if i.limiter.Allow(sessionID, ClientAddr(r), resource) {
		return true
	}

	logger.Log.Warnf("[Quota] Session %s (%s) exceeded %s quota", sessionID, ClientAddr(r), resource)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": i.limiter.ExceededMessage(resource)})
	return false
}
