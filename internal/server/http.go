package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/amityadav/stratreport/internal/config"
	"github.com/amityadav/stratreport/internal/core"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/middleware"
	"github.com/amityadav/stratreport/internal/quota"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/amityadav/stratreport/internal/token"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Services groups all dependencies of the HTTP handlers
type Services struct {
	ReportCore   *core.ReportCore
	Sessions     *session.Manager
	TokenManager *token.Manager
	Quota        *quota.Limiter
}

// NewRouter wires every route of the service.
func NewRouter(services Services, cfg config.Config) http.Handler {
	sessionMW := middleware.NewSessionMiddleware(services.TokenManager, services.Sessions, cfg.SecureCookies)
	quotaCheck := quota.NewInterceptor(services.Quota)
	pages, err := newPageHandler(services)
	if err != nil {
		// Templates are embedded, so this only fails on a broken build.
		panic(err)
	}
	api := &apiHandler{services: services, quota: quotaCheck}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(CreateRecoveryHandler)
	r.Use(CreateCORSHandler(cfg.CORSAllowedOrigins))

	r.Get("/health", handleHealth)
	r.Get("/api/countries", api.handleCountries)

	r.Group(func(r chi.Router) {
		r.Use(sessionMW.Handler)

		r.Get("/", pages.handleIndex)
		r.Post("/reports", pages.handleGenerate)
		r.Get("/history/{index}", pages.handleHistory)

		r.Route("/api", func(r chi.Router) {
			r.Post("/reports", api.handleGenerate)
			r.Get("/history", api.handleHistory)
			r.Get("/history/{index}", api.handleHistoryEntry)
			r.Get("/archive", api.handleArchive)
			r.Delete("/session", api.handleEndSession)
		})
	})

	return r
}

// CreateCORSHandler adds CORS headers for the allowed origins and answers
// preflight requests. Other origins get no CORS headers, so browsers keep
// them same-origin.
func CreateCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, Cache-Control")
			}

			if r.Method == http.MethodOptions && origin != "" {
				if allowed[origin] {
					w.Header().Set("Access-Control-Max-Age", "1728000")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CreateRecoveryHandler wraps handler with panic recovery
func CreateRecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Log.Errorf("[PANIC RECOVERED] %v\n%s", err, debug.Stack())
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Log.WithFields(logrus.Fields{
			"request_id": chimw.GetReqID(r.Context()),
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
		}).Infof("[HTTP] %s %s", r.Method, r.URL.Path)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
