// Package websearch fetches recent web articles through the Tavily
// search API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/fetchers"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.tavily.com"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxResults = 5

	defaultQuery = "latest entrepreneurship startup funding investment news"

	// scrapeContentCap bounds the tool output handed back to the
	// model for summarisation.
	scrapeContentCap = 8000
)

// Config holds configuration for the search client.
type Config struct {
	// APIKey is the Tavily API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.tavily.com).
	BaseURL string

	// Query is the search query issued per domain.
	Query string

	// MaxResults caps results per domain (default: 5).
	MaxResults int

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Client issues time-windowed searches against Tavily, one per
// allowlisted domain.
type Client struct {
	client     *http.Client
	limiter    *fetchers.RateLimiter
	baseURL    string
	apiKey     string
	query      string
	maxResults int
	now        func() time.Time
}

var _ driven.ArticleSearch = (*Client)(nil)

// New creates a search client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("websearch: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Query == "" {
		cfg.Query = defaultQuery
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    fetchers.NewRateLimiter(fetchers.RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 3}),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		query:      cfg.Query,
		maxResults: cfg.MaxResults,
		now:        time.Now,
	}, nil
}

// searchRequest is the Tavily search request format.
type searchRequest struct {
	Query          string   `json:"query"`
	Topic          string   `json:"topic,omitempty"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

// searchResponse is the Tavily search response format.
type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// FetchRecent searches each domain for articles published within the
// lookback window. A failing domain is logged and skipped so one dead
// site does not lose the rest of the sweep.
func (c *Client) FetchRecent(ctx context.Context, domains []string, lookbackDays int) ([]domain.RawArticle, error) {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	end := c.now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)

	var articles []domain.RawArticle
	for _, site := range domains {
		found, err := c.searchDomain(ctx, site, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("websearch: %s: %v", site, err)
			continue
		}
		logger.Debug("websearch: %s returned %d articles", site, len(found))
		articles = append(articles, found...)
	}

	logger.Info("websearch: fetched %d articles from %d domains", len(articles), len(domains))
	return articles, nil
}

func (c *Client) searchDomain(ctx context.Context, site string, start, end time.Time) ([]domain.RawArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqBody := searchRequest{
		Query:          c.query,
		Topic:          "general",
		SearchDepth:    "advanced",
		StartDate:      start.Format("2006-01-02"),
		EndDate:        end.Format("2006-01-02"),
		MaxResults:     c.maxResults,
		IncludeDomains: []string{site},
	}

	var resp searchResponse
	if err := c.post(ctx, "/search", reqBody, &resp); err != nil {
		return nil, err
	}

	articles := make([]domain.RawArticle, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result.URL == "" || result.Title == "" {
			continue
		}
		articles = append(articles, domain.RawArticle{
			ID:    domain.URLArticleID(result.URL),
			Title: result.Title,
			Text:  result.Content,
			URL:   result.URL,
			Date:  PublishDate(result.URL, result.Content, c.now()),
		})
	}
	return articles, nil
}

// extractRequest is the Tavily extract request format.
type extractRequest struct {
	URLs []string `json:"urls"`
}

// extractResponse is the Tavily extract response format.
type extractResponse struct {
	Results []struct {
		URL        string `json:"url"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
	FailedResults []struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	} `json:"failed_results"`
}

// ScrapeURL extracts the content of a single external URL. The user's
// prompt is echoed alongside the content so the model consuming the
// tool result can tailor its summary.
func (c *Client) ScrapeURL(ctx context.Context, url, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var resp extractResponse
	if err := c.post(ctx, "/extract", extractRequest{URLs: []string{url}}, &resp); err != nil {
		return "", err
	}

	if len(resp.Results) == 0 {
		if len(resp.FailedResults) > 0 {
			return "", fmt.Errorf("websearch: extract %s: %s", url, resp.FailedResults[0].Error)
		}
		return "", fmt.Errorf("websearch: extract %s: no content returned", url)
	}

	content := resp.Results[0].RawContent
	if len(content) > scrapeContentCap {
		content = content[:scrapeContentCap]
	}

	return fmt.Sprintf("Content of %s (summarise for: %q):\n%s", url, prompt, content), nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, out any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(0)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tavily error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
