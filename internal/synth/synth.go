// Package synth turns a list of source URLs into an executive summary.
package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/amityadav/stratreport/internal/ai"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/amityadav/stratreport/prompts"
)

// Cadence returns the reporting cadence word for a time window.
func Cadence(w search.TimeWindow) string {
	switch w {
	case search.WindowHour:
		return "hourly"
	case search.WindowDay:
		return "daily"
	case search.WindowWeek:
		return "weekly"
	case search.WindowMonth:
		return "monthly"
	case search.WindowYear:
		return "yearly"
	default:
		return "periodically"
	}
}

// URLBlock joins urls with newlines, in order.
func URLBlock(urls []string) string {
	return strings.Join(urls, "\n")
}

// BuildPrompt renders the report prompt for keyword over urls.
func BuildPrompt(keyword string, urls []string, w search.TimeWindow) string {
	return fmt.Sprintf(prompts.Report, Cadence(w), keyword, URLBlock(urls))
}

// Synthesizer asks a completion provider for a report.
type Synthesizer struct {
	provider ai.Provider
}

func NewSynthesizer(provider ai.Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize returns the model's summary verbatim together with the URL block
// it was given. Provider errors are returned unchanged (*apperr.Error).
func (s *Synthesizer) Synthesize(ctx context.Context, keyword string, urls []string, w search.TimeWindow) (string, string, error) {
	block := URLBlock(urls)
	prompt := BuildPrompt(keyword, urls, w)

	logger.Log.Infof("[Synthesizer.Synthesize] %q: %d sources, cadence=%s", keyword, len(urls), Cadence(w))
	summary, err := s.provider.Complete(ctx, prompts.System, prompt)
	if err != nil {
		return "", block, fmt.Errorf("report synthesis failed: %w", err)
	}
	return summary, block, nil
}
