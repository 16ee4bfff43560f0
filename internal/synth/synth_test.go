package synth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/amityadav/stratreport/internal/apperr"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply  string
	err    error
	system string
	user   string
	calls  int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(_ context.Context, system, user string) (string, error) {
	p.calls++
	p.system, p.user = system, user
	return p.reply, p.err
}

func TestCadence(t *testing.T) {
	cases := map[search.TimeWindow]string{
		search.WindowHour:  "hourly",
		search.WindowDay:   "daily",
		search.WindowWeek:  "weekly",
		search.WindowMonth: "monthly",
		search.WindowYear:  "yearly",
		search.WindowNone:  "periodically",
		"x":                "periodically",
	}
	for w, want := range cases {
		assert.Equal(t, want, Cadence(w), "window %q", w)
	}
}

func TestBuildPromptContainsEveryURLOnceAndCadence(t *testing.T) {
	urls := []string{"https://a.com/1", "https://b.com/2", "https://c.com/3"}

	prompt := BuildPrompt("Acme Corp", urls, search.WindowWeek)

	assert.Contains(t, prompt, "weekly information")
	assert.Contains(t, prompt, "executive summary for this weekly")
	assert.Contains(t, prompt, "information about Acme Corp.")
	assert.Contains(t, prompt, strings.Join(urls, "\n"))
	for _, u := range urls {
		assert.Equal(t, 1, strings.Count(prompt, u), u)
	}
	assert.NotContains(t, prompt, "%!")
}

func TestBuildPromptWithoutWindow(t *testing.T) {
	prompt := BuildPrompt("Acme", []string{"https://a.com"}, search.WindowNone)
	assert.Contains(t, prompt, "periodically information")
}

func TestSynthesizeReturnsReplyVerbatim(t *testing.T) {
	p := &fakeProvider{reply: "  Acme expanded into Europe.\n"}
	s := NewSynthesizer(p)

	summary, block, err := s.Synthesize(context.Background(), "Acme", []string{"https://a.com", "https://b.com"}, search.WindowDay)
	require.NoError(t, err)

	assert.Equal(t, "  Acme expanded into Europe.\n", summary)
	assert.Equal(t, "https://a.com\nhttps://b.com", block)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "You are a Senior strategy consultant.", p.system)
	assert.Contains(t, p.user, "daily information")
}

func TestSynthesizeKeepsErrorClassification(t *testing.T) {
	p := &fakeProvider{err: apperr.New("fake", apperr.KindAuth, http.StatusUnauthorized, errors.New("bad key"))}

	_, _, err := NewSynthesizer(p).Synthesize(context.Background(), "Acme", []string{"https://a.com"}, search.WindowNone)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAuth))
}
