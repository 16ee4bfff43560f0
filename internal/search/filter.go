package search

import (
	"fmt"
	"net/url"
	"strings"
)

// SocialDomains are excluded from every source list.
var SocialDomains = []string{
	"instagram.com",
	"twitter.com",
	"linkedin.com",
	"facebook.com",
	"tiktok.com",
}

// FilterMode selects how a URL is matched against the blocklist.
type FilterMode string

const (
	// FilterSubstring drops a URL if a blocked domain appears anywhere in it,
	// so "https://news.example.com/?ref=twitter.com" is dropped too.
	FilterSubstring FilterMode = "substring"
	// FilterHost drops a URL only if its host is a blocked domain or a subdomain of one.
	FilterHost FilterMode = "host"
)

// ParseFilterMode accepts "substring" (or "") and "host".
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterSubstring:
		return FilterSubstring, nil
	case FilterHost:
		return FilterHost, nil
	default:
		return "", fmt.Errorf("unknown filter mode %q", s)
	}
}

// Blocklist removes unwanted domains from a result list.
type Blocklist struct {
	domains []string
	mode    FilterMode
}

// NewBlocklist builds a blocklist over domains. An empty mode means substring.
func NewBlocklist(mode FilterMode, domains ...string) *Blocklist {
	if mode == "" {
		mode = FilterSubstring
	}
	lowered := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			lowered = append(lowered, d)
		}
	}
	return &Blocklist{domains: lowered, mode: mode}
}

// Blocked reports whether link must be dropped.
func (b *Blocklist) Blocked(link string) bool {
	if b.mode == FilterHost {
		return b.blockedHost(link)
	}
	for _, d := range b.domains {
		if strings.Contains(link, d) {
			return true
		}
	}
	return false
}

func (b *Blocklist) blockedHost(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return false
	}
	for _, d := range b.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Apply returns the links that are not blocked, keeping their order.
func (b *Blocklist) Apply(links []string) []string {
	kept := make([]string, 0, len(links))
	for _, link := range links {
		if !b.Blocked(link) {
			kept = append(kept, link)
		}
	}
	return kept
}
