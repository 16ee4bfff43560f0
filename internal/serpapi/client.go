package serpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amityadav/stratreport/internal/apperr"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/search"
	g "github.com/serpapi/google-search-results-golang"
)

const (
	providerName = "serpapi"
	maxBodyBytes = 8 << 20
)

// Client is a wrapper around the SerpApi Google search endpoint
type Client struct {
	apiKey     string
	httpClient *http.Client
	endpoint   *url.URL // nil means the library default (https://serpapi.com)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client whose transport carries the requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint redirects requests to another scheme and host, e.g. a proxy.
func WithEndpoint(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			c.endpoint = u
		}
	}
}

// NewClient creates a new SerpApi client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return providerName }

// Search runs an exact-phrase Google search and returns organic result links in rank order.
// Failures are returned as *apperr.Error.
func (c *Client) Search(ctx context.Context, q search.Query) ([]string, error) {
	if c.apiKey == "" {
		return nil, apperr.New(providerName, apperr.KindAuth, 0, errors.New("SerpApi API key is not set"))
	}

	parameter := map[string]string{
		"q":   `"` + q.Keyword + `"`,
		"num": strconv.Itoa(q.MaxResults),
		"gl":  q.Country,
	}
	if tbs := q.Window.TBS(); tbs != "" {
		parameter["tbs"] = tbs
	}

	logger.Log.Infof("[SerpApi.Search] Searching for %q (gl=%s tbs=%s num=%d)", q.Keyword, q.Country, q.Window.TBS(), q.MaxResults)

	tr := &callTransport{ctx: ctx, base: c.httpClient.Transport, endpoint: c.endpoint}
	gs := g.NewGoogleSearch(parameter, c.apiKey)
	gs.HttpSearch = &http.Client{Transport: tr, Timeout: c.httpClient.Timeout}

	results, err := gs.GetJSON()
	if tr.status != 0 && (tr.status < 200 || tr.status > 299) {
		if err == nil {
			err = fmt.Errorf("unexpected status %d", tr.status)
		}
		return nil, apperr.New(providerName, apperr.KindForStatus(tr.status), tr.status, err)
	}
	if err != nil {
		return nil, classify(err, tr)
	}

	return extractLinks(results)
}

// classify maps a library error on a 2xx (or missing) response to a Kind.
func classify(err error, tr *callTransport) error {
	if tr.status == 0 {
		return apperr.New(providerName, apperr.KindNetwork, 0, err)
	}
	if !json.Valid(tr.body) {
		return apperr.New(providerName, apperr.KindMalformed, tr.status, err)
	}
	// A well-formed body carrying an "error" message.
	return apperr.New(providerName, apperr.KindUpstream, tr.status, err)
}

func extractLinks(results g.SearchResult) ([]string, error) {
	raw, present := results["organic_results"]
	if !present {
		logger.Log.Infof("[SerpApi.Search] No organic_results found in response")
		return []string{}, nil
	}
	organicResults, ok := raw.([]interface{})
	if !ok {
		return nil, apperr.New(providerName, apperr.KindMalformed, http.StatusOK,
			fmt.Errorf("organic_results is %T, not a list", raw))
	}

	links := make([]string, 0, len(organicResults))
	for _, item := range organicResults {
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		link, _ := res["link"].(string)
		if link == "" {
			continue
		}
		links = append(links, link)
	}

	logger.Log.Infof("[SerpApi.Search] Found %d organic results", len(links))
	return links, nil
}

// callTransport binds the request to ctx, optionally rewrites the endpoint,
// and records the response the search library does not expose.
type callTransport struct {
	ctx      context.Context
	base     http.RoundTripper
	endpoint *url.URL
	status   int
	body     []byte
}

func (t *callTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if t.endpoint != nil {
		req.URL.Scheme = t.endpoint.Scheme
		req.URL.Host = t.endpoint.Host
		req.Host = t.endpoint.Host
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.status = resp.StatusCode
	t.body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(t.body))
	return resp, nil
}
