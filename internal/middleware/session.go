package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/amityadav/stratreport/internal/token"
)

type contextKey string

const SessionKey contextKey = "session"

// CookieName carries the signed session token.
const CookieName = "stratreport_session"

// SessionMiddleware attaches the caller's session to the request context,
// starting a new one when the cookie is missing, invalid or stale.
type SessionMiddleware struct {
	tokenManager *token.Manager
	sessions     *session.Manager
	secure       bool
}

func NewSessionMiddleware(tm *token.Manager, sessions *session.Manager, secureCookie bool) *SessionMiddleware {
	return &SessionMiddleware{
		tokenManager: tm,
		sessions:     sessions,
		secure:       secureCookie,
	}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.resume(r)
		if s == nil {
			var err error
			s, err = m.start(w)
			if err != nil {
				logger.Log.Errorf("[SessionMiddleware] Failed to start session: %v", err)
				http.Error(w, "failed to start session", http.StatusInternalServerError)
				return
			}
		}

		ctx := context.WithValue(r.Context(), SessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) resume(r *http.Request) *session.Session {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	id, err := m.tokenManager.Verify(c.Value)
	if err != nil {
		logger.Log.Debugf("[SessionMiddleware] Ignoring session cookie: %v", err)
		return nil
	}
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil
	}
	return s
}

func (m *SessionMiddleware) start(w http.ResponseWriter) (*session.Session, error) {
	s := m.sessions.Start()
	signed, err := m.tokenManager.Generate(s.ID)
	if err != nil {
		m.sessions.End(s.ID)
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	logger.Log.Debugf("[SessionMiddleware] Started session %s", s.ID)
	return s, nil
}

// GetSession extracts the session from context
func GetSession(ctx context.Context) (*session.Session, error) {
	s, ok := ctx.Value(SessionKey).(*session.Session)
	if !ok || s == nil {
		return nil, errors.New("session not found in context")
	}
	return s, nil
}
