package fx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/amityadav/stratreport/internal/config"
	"github.com/amityadav/stratreport/internal/core"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/quota"
	"github.com/amityadav/stratreport/internal/server"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/amityadav/stratreport/internal/token"
	"github.com/amityadav/stratreport/internal/worker"
	"go.uber.org/fx"
)

// ServerModule starts the HTTP server and the session janitor
var ServerModule = fx.Module("server",
	fx.Provide(NewHTTPServer),
	fx.Invoke(
		StartServer,
		StartJanitor,
	),
)

// ServerParams groups dependencies for the HTTP server
type ServerParams struct {
	fx.In
	ReportCore   *core.ReportCore
	Sessions     *session.Manager
	TokenManager *token.Manager
	Quota        *quota.Limiter
	Config       config.Config
}

// NewHTTPServer builds the HTTP server with all routes
func NewHTTPServer(p ServerParams) *http.Server {
	handler := server.NewRouter(server.Services{
		ReportCore:   p.ReportCore,
		Sessions:     p.Sessions,
		TokenManager: p.TokenManager,
		Quota:        p.Quota,
	}, p.Config)

	return &http.Server{
		Addr:              p.Config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(lc fx.Lifecycle, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}

			go func() {
				logger.Log.Infof("[FX] HTTP Server listening on %s", srv.Addr)
				if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Log.Errorf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Log.Info("[FX] Shutting down HTTP server...")
			return srv.Shutdown(ctx)
		},
	})
}

// StartJanitor runs the idle-session sweep while the app is up
func StartJanitor(lc fx.Lifecycle, j *worker.Janitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return j.Start()
		},
		OnStop: func(ctx context.Context) error {
			j.Stop()
			return nil
		},
	})
}
