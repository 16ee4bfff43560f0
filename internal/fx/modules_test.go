package fx

import (
	"testing"

	"github.com/amityadav/stratreport/internal/config"
	"github.com/amityadav/stratreport/internal/quota"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestGraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(
		ConfigModule,
		StoreModule,
		TokenModule,
		CountriesModule,
		AIModule,
		SearchModule,
		CoreModule,
		SessionModule,
		ServerModule,
	)
	require.NoError(t, err)
}

func TestNewFetcherRejectsUnknownFilterMode(t *testing.T) {
	_, err := NewFetcher(nil, config.Config{FilterMode: "regex"})
	require.Error(t, err)

	f, err := NewFetcher(nil, config.Config{FilterMode: "host"})
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestNewReportArchiveWithoutDatabase(t *testing.T) {
	st, err := NewReportArchive(nil, config.Config{})
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestNewCompletionProviderUsesAzureEndpoint(t *testing.T) {
	p := NewCompletionProvider(config.Config{
		CompletionProvider: "azure",
		CompletionAPIKey:   "k",
		CompletionModel:    "gpt-4o",
		AzureEndpoint:      "https://example.openai.azure.com",
	})
	assert.Equal(t, "AzureOpenAI", p.Name())
}

func TestNewSearchProviderIsSerpApi(t *testing.T) {
	var p search.Provider = NewSearchProvider(config.Config{SerpAPIKey: "k"})
	assert.Equal(t, "serpapi", p.Name())
}

func TestNewQuotaLimiterForgetsEndedSessions(t *testing.T) {
	sessions := session.NewManager()
	l := NewQuotaLimiter(config.Config{ReportsPerMinute: 1, ClientReportsPerMinute: 3}, sessions)

	s := sessions.Start()
	require.True(t, l.Allow(s.ID, "10.0.0.1", quota.ResourceReport))
	require.False(t, l.Allow(s.ID, "10.0.0.1", quota.ResourceReport))

	sessions.End(s.ID)
	assert.Equal(t, 1, l.Len(), "only the client bucket is left")
}

func TestNewJanitorRequiresSchedule(t *testing.T) {
	sessions := session.NewManager()
	_, err := NewJanitor(config.Config{}, sessions, quota.NewLimiter(1, 1))
	require.Error(t, err)

	j, err := NewJanitor(config.Config{SessionSweepCron: "@every 5m"}, sessions, quota.NewLimiter(1, 1))
	require.NoError(t, err)
	assert.NotNil(t, j)
}
