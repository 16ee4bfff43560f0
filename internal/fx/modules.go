package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/amityadav/stratreport/internal/ai"
	"github.com/amityadav/stratreport/internal/config"
	"github.com/amityadav/stratreport/internal/core"
	"github.com/amityadav/stratreport/internal/countries"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/quota"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/amityadav/stratreport/internal/serpapi"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/amityadav/stratreport/internal/store"
	"github.com/amityadav/stratreport/internal/synth"
	"github.com/amityadav/stratreport/internal/token"
	"github.com/amityadav/stratreport/internal/worker"
	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration and sets up logging
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
	fx.Invoke(InitLogger),
)

// StoreModule provides the optional report archive
var StoreModule = fx.Module("store",
	fx.Provide(NewReportArchive),
)

// TokenModule provides session token signing
var TokenModule = fx.Module("token",
	fx.Provide(NewTokenManager),
)

// CountriesModule provides the country selector table
var CountriesModule = fx.Module("countries",
	fx.Provide(countries.Load),
)

// AIModule provides the chat-completion provider
var AIModule = fx.Module("ai",
	fx.Provide(NewCompletionProvider),
)

// SearchModule provides the web search provider and fetcher
var SearchModule = fx.Module("search",
	fx.Provide(
		NewSearchProvider,
		NewFetcher,
	),
)

// CoreModule provides the report pipeline
var CoreModule = fx.Module("core",
	fx.Provide(
		NewSynthesizer,
		NewReportCore,
	),
)

// SessionModule provides sessions, per-session quotas and the idle-session janitor
var SessionModule = fx.Module("session",
	fx.Provide(
		session.NewManager,
		NewQuotaLimiter,
		NewJanitor,
	),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// InitLogger applies LOG_LEVEL and LOG_FILE
func InitLogger(cfg config.Config) error {
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	logger.Log.Infof("[FX] Logger initialized (level=%s)", logger.Log.GetLevel())
	return nil
}

// NewReportArchive connects to Postgres when DATABASE_URL is set. Otherwise
// it returns a nil store and reports are not archived.
func NewReportArchive(lc fx.Lifecycle, cfg config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Log.Info("[FX] Report archive disabled (no DATABASE_URL)")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			st.Close()
			return nil
		},
	})
	logger.Log.Info("[FX] PostgresStore initialized")
	return st, nil
}

// NewTokenManager creates the session token manager
func NewTokenManager(cfg config.Config) *token.Manager {
	tm := token.NewManager(cfg.SessionSecret, 24*time.Hour)
	logger.Log.Info("[FX] TokenManager initialized")
	return tm
}

// NewCompletionProvider creates the chat-completion provider selected by COMPLETION_PROVIDER
func NewCompletionProvider(cfg config.Config) ai.Provider {
	pc := ai.ProviderConfig{
		APIKey:     cfg.CompletionAPIKey,
		Model:      cfg.CompletionModel,
		BaseURL:    cfg.CompletionBaseURL,
		APIVersion: cfg.AzureAPIVersion,
	}
	if cfg.CompletionProvider == "azure" {
		pc.BaseURL = cfg.AzureEndpoint
	}

	p := ai.NewLLMProvider(cfg.CompletionProvider, pc, nil)
	logger.Log.Infof("[FX] CompletionProvider initialized (%s, model=%s)", p.Name(), pc.Model)
	return p
}

// NewSearchProvider creates the SerpApi client
func NewSearchProvider(cfg config.Config) search.Provider {
	c := serpapi.NewClient(cfg.SerpAPIKey)
	logger.Log.Info("[FX] SearchProvider initialized (SerpApi)")
	return c
}

// NewFetcher creates the filtering fetcher on top of the search provider
func NewFetcher(p search.Provider, cfg config.Config) (*search.Fetcher, error) {
	mode, err := search.ParseFilterMode(cfg.FilterMode)
	if err != nil {
		return nil, err
	}
	f := search.NewFetcher(p, search.NewBlocklist(mode, search.SocialDomains...), cfg.SearchRatePerMinute)
	logger.Log.Infof("[FX] Fetcher initialized (filter=%s, rate=%d/min)", mode, cfg.SearchRatePerMinute)
	return f, nil
}

// NewSynthesizer creates the report synthesizer
func NewSynthesizer(p ai.Provider) *synth.Synthesizer {
	return synth.NewSynthesizer(p)
}

// ReportCoreParams groups dependencies for ReportCore
type ReportCoreParams struct {
	fx.In
	Countries   *countries.Table
	Fetcher     *search.Fetcher
	Synthesizer *synth.Synthesizer
	Archive     store.Store `optional:"true"`
	Config      config.Config
}

// NewReportCore creates the report pipeline
func NewReportCore(p ReportCoreParams) *core.ReportCore {
	c := core.NewReportCore(p.Countries, p.Fetcher, p.Synthesizer, p.Archive, p.Config.SearchMaxResults)
	logger.Log.Infof("[FX] ReportCore initialized (%d countries, archive=%t)", p.Countries.Len(), c.HasArchive())
	return c
}

// NewQuotaLimiter creates per-session and per-client report quotas.
// Session buckets are dropped when the session ends.
func NewQuotaLimiter(cfg config.Config, sessions *session.Manager) *quota.Limiter {
	l := quota.NewLimiter(cfg.ReportsPerMinute, cfg.ClientReportsPerMinute)
	sessions.OnEnd(l.Forget)
	logger.Log.Infof("[FX] QuotaLimiter initialized (%d reports/min per session, %d per client)",
		cfg.ReportsPerMinute, cfg.ClientReportsPerMinute)
	return l
}

// NewJanitor creates the idle-session janitor, which also prunes refilled quota buckets
func NewJanitor(cfg config.Config, sessions *session.Manager, limiter *quota.Limiter) (*worker.Janitor, error) {
	if cfg.SessionSweepCron == "" {
		return nil, fmt.Errorf("SESSION_SWEEP_CRON must not be empty")
	}
	j := worker.NewSessionJanitor(sessions, cfg.SessionIdleTimeout, cfg.SessionSweepCron)
	j.AddPruner(limiter)
	return j, nil
}
