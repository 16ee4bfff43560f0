package search

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMaxResults is the number of results requested when none is given.
const DefaultMaxResults = 50

// TimeWindow restricts results to a recent period. The zero value means no restriction.
type TimeWindow string

const (
	WindowNone  TimeWindow = ""
	WindowHour  TimeWindow = "h"
	WindowDay   TimeWindow = "d"
	WindowWeek  TimeWindow = "w"
	WindowMonth TimeWindow = "m"
	WindowYear  TimeWindow = "y"
)

// Windows lists the selectable windows in display order.
var Windows = []TimeWindow{WindowNone, WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear}

// ParseTimeWindow accepts "", "none", or one of h/d/w/m/y (case-insensitive).
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "none":
		return WindowNone, nil
	case "h", "d", "w", "m", "y":
		return TimeWindow(v), nil
	default:
		return WindowNone, fmt.Errorf("unknown time window %q", s)
	}
}

// Label is the human readable name shown in the selector.
func (w TimeWindow) Label() string {
	switch w {
	case WindowHour:
		return "Past Hour"
	case WindowDay:
		return "Past Day"
	case WindowWeek:
		return "Past Week"
	case WindowMonth:
		return "Past Month"
	case WindowYear:
		return "Past Year"
	default:
		return "None"
	}
}

// TBS returns the Google "tbs" parameter for the window, or "" for none.
func (w TimeWindow) TBS() string {
	if w == WindowNone {
		return ""
	}
	return "qdr:" + string(w)
}

// Query is a single search request. Build it with NewQuery and treat it as a value.
type Query struct {
	Keyword    string
	Window     TimeWindow
	Country    string // ISO 3166-1 alpha-2
	MaxResults int
}

// NewQuery fills in the default result cap.
func NewQuery(keyword string, window TimeWindow, country string) Query {
	return Query{
		Keyword:    keyword,
		Window:     window,
		Country:    country,
		MaxResults: DefaultMaxResults,
	}
}

// Provider is a web search backend returning result URLs in rank order.
type Provider interface {
	// Name returns the provider identifier (e.g., "serpapi")
	Name() string

	// Search runs q. The returned links are unfiltered and may exceed q.MaxResults.
	Search(ctx context.Context, q Query) ([]string, error)
}
