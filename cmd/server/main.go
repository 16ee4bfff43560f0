package main

import (
	appfx "github.com/amityadav/stratreport/internal/fx"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule,    // Provides: config.Config (and initializes logging)
		appfx.StoreModule,     // Provides: store.Store (nil without DATABASE_URL)
		appfx.TokenModule,     // Provides: *token.Manager
		appfx.CountriesModule, // Provides: *countries.Table
		appfx.AIModule,        // Provides: ai.Provider
		appfx.SearchModule,    // Provides: search.Provider, *search.Fetcher
		appfx.CoreModule,      // Provides: *synth.Synthesizer, *core.ReportCore
		appfx.SessionModule,   // Provides: *session.Manager, *quota.Limiter, *worker.Janitor
		appfx.ServerModule,    // Starts the HTTP server and janitor

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: logger.Log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
