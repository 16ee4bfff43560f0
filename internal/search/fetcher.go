package search

import (
	"context"
	"time"

	"github.com/amityadav/stratreport/internal/logger"
	"golang.org/x/time/rate"
)

// Fetcher runs a query against a provider and returns a clean source list.
// Failures never reach the caller: they are logged and yield an empty list.
type Fetcher struct {
	provider  Provider
	blocklist *Blocklist
	limiter   *rate.Limiter
}

// NewFetcher creates a fetcher. perMinute <= 0 disables rate limiting.
func NewFetcher(provider Provider, blocklist *Blocklist, perMinute int) *Fetcher {
	if blocklist == nil {
		blocklist = NewBlocklist(FilterSubstring, SocialDomains...)
	}
	f := &Fetcher{provider: provider, blocklist: blocklist}
	if perMinute > 0 {
		f.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	return f
}

// Fetch returns at most q.MaxResults links with blocklisted domains removed.
func (f *Fetcher) Fetch(ctx context.Context, q Query) []string {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			logger.Log.Warnf("[Fetcher.Fetch] Rate limit wait aborted: %v", err)
			return []string{}
		}
	}

	links, err := f.provider.Search(ctx, q)
	if err != nil {
		logger.Log.Errorf("[Fetcher.Fetch] %s search for %q failed: %v", f.provider.Name(), q.Keyword, err)
		return []string{}
	}

	kept := f.blocklist.Apply(links)
	if limit := q.MaxResults; limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	logger.Log.Infof("[Fetcher.Fetch] %q: %d results, %d after filtering", q.Keyword, len(links), len(kept))
	return kept
}
