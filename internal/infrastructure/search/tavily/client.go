// Package tavily implements the web-search port against the Tavily
// search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/infrastructure/resilience"
)

const (
	defaultBaseURL = "https://api.tavily.com"

	// Tavily rejects overlong queries; discovery queries built from org
	// names plus boilerplate stay well under this in practice.
	maxQueryLength = 400
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func New(apiKey string, executor *resilience.Executor, opts ...Option) *Client {
	if executor == nil {
		executor = resilience.NewExecutor(resilience.Config{})
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
		executor:   executor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search runs one query. A missing API key is reported as service
// unavailable so callers can fall back instead of retrying.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (domain.SearchResponse, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return domain.SearchResponse{}, domain.WrapError(domain.ErrServiceUnavailable, "tavily.search",
			fmt.Errorf("search api key not configured"))
	}
	query = truncateQuery(query)
	if maxResults <= 0 {
		maxResults = 5
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.SearchResponse{}, fmt.Errorf("tavily rate limiter: %w", err)
	}

	var decoded searchResponse
	call := func(ctx context.Context) error {
		return c.post(ctx, searchRequest{
			APIKey:        c.apiKey,
			Query:         query,
			MaxResults:    maxResults,
			IncludeAnswer: true,
		}, &decoded)
	}
	if err := c.executor.Execute(ctx, "tavily.search", call, classifySearchError); err != nil {
		return domain.SearchResponse{}, wrapTemporaryIfNeeded("tavily.search", err)
	}

	out := domain.SearchResponse{Answer: decoded.Answer}
	for _, r := range decoded.Results {
		out.Results = append(out.Results, domain.SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
		})
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, payload searchRequest, out *searchResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tavily search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}
	return nil
}

func truncateQuery(query string) string {
	query = strings.TrimSpace(query)
	if len(query) <= maxQueryLength {
		return query
	}
	return query[:maxQueryLength]
}
