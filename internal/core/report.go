package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amityadav/stratreport/internal/countries"
	"github.com/amityadav/stratreport/internal/history"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/amityadav/stratreport/internal/store"
)

// User-facing messages.
const (
	MsgEmptyKeyword = "Please enter a keyword."
	MsgNoResults    = "No results found."
)

// ErrEmptyKeyword is returned when the keyword is blank. No external call is made.
var ErrEmptyKeyword = errors.New("empty keyword")

// NormalizeKeyword trims raw and returns ErrEmptyKeyword when nothing is left.
// Callers run it before spending quota or calling a provider.
func NormalizeKeyword(raw string) (string, error) {
	keyword := strings.TrimSpace(raw)
	if keyword == "" {
		return "", ErrEmptyKeyword
	}
	return keyword, nil
}

// Fetcher returns the filtered source list for a query. *search.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q search.Query) []string
}

// Synthesizer writes the summary for a source list. *synth.Synthesizer implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, keyword string, urls []string, w search.TimeWindow) (summary, urlBlock string, err error)
}

// Request is one "generate report" action.
type Request struct {
	SessionID string
	Keyword   string
	Country   string // display name from the country table
	Window    search.TimeWindow
}

// Result is what the user sees after a request.
type Result struct {
	Found       bool
	Message     string
	CountryCode string
	Sources     []string
	Summary     string
	URLBlock    string
}

// ReportCore runs the search then synthesize pipeline
type ReportCore struct {
	countries  *countries.Table
	fetcher    Fetcher
	synth      Synthesizer
	archive    store.Store // optional
	maxResults int
}

// NewReportCore creates a new ReportCore. archive may be nil.
func NewReportCore(table *countries.Table, fetcher Fetcher, synth Synthesizer, archive store.Store, maxResults int) *ReportCore {
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}
	return &ReportCore{
		countries:  table,
		fetcher:    fetcher,
		synth:      synth,
		archive:    archive,
		maxResults: maxResults,
	}
}

// Countries exposes the country table used to resolve display names.
func (c *ReportCore) Countries() *countries.Table {
	return c.countries
}

// Generate fetches sources for req and, when there are any, synthesizes a
// report and appends it to log. Nothing is appended when no sources are
// found or the synthesis fails.
func (c *ReportCore) Generate(ctx context.Context, log *history.Log, req Request) (*Result, error) {
	keyword, err := NormalizeKeyword(req.Keyword)
	if err != nil {
		return nil, err
	}

	code := c.countries.CodeOrDefault(req.Country)
	q := search.NewQuery(keyword, req.Window, code)
	q.MaxResults = c.maxResults

	logger.Log.Infof("[ReportCore.Generate] Query %q country=%s window=%q", keyword, code, req.Window)
	sources := c.fetcher.Fetch(ctx, q)
	if len(sources) == 0 {
		return &Result{Found: false, Message: MsgNoResults, CountryCode: code, Sources: []string{}}, nil
	}

	summary, block, err := c.synth.Synthesize(ctx, keyword, sources, req.Window)
	if err != nil {
		logger.Log.Errorf("[ReportCore.Generate] Synthesis for %q failed: %v", keyword, err)
		return nil, fmt.Errorf("generate report for %q: %w", keyword, err)
	}

	log.Append(history.Report{Query: keyword, Summary: summary})
	c.archiveReport(ctx, req.SessionID, keyword, code, req.Window, sources, summary)

	return &Result{
		Found:       true,
		Message:     fmt.Sprintf("Found %d Relevant Sources", len(sources)),
		CountryCode: code,
		Sources:     sources,
		Summary:     summary,
		URLBlock:    block,
	}, nil
}

func (c *ReportCore) archiveReport(ctx context.Context, sessionID, keyword, code string, w search.TimeWindow, sources []string, summary string) {
	if c.archive == nil {
		return
	}
	_, err := c.archive.ArchiveReport(ctx, &store.ArchivedReport{
		SessionID:  sessionID,
		Query:      keyword,
		Country:    code,
		TimeWindow: string(w),
		Sources:    sources,
		Summary:    summary,
	})
	if err != nil {
		logger.Log.Warnf("[ReportCore.Generate] Failed to archive report for %q: %v", keyword, err)
	}
}

// RecentArchived lists archived reports, or nil when no archive is configured.
func (c *ReportCore) RecentArchived(ctx context.Context, limit int) ([]*store.ArchivedReport, error) {
	if c.archive == nil {
		return nil, nil
	}
	return c.archive.RecentReports(ctx, limit)
}

// HasArchive reports whether generated reports are archived.
func (c *ReportCore) HasArchive() bool {
	return c.archive != nil
}
