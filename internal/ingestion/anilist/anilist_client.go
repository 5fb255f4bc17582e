package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"animedrop/internal/logging"

	"golang.org/x/time/rate"
)

const (
	DefaultAPIURL = "https://graphql.anilist.co"

	// AniList allows ~90 requests per minute
	rateLimit = 1
	rateBurst = 5

	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second
)

// Client is a rate limited AniList GraphQL client.
type Client struct {
	apiURL       string
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	initialDelay time.Duration
}

func NewClient() *Client {
	return NewClientWithURL(DefaultAPIURL)
}

// NewClientWithURL points the client at another GraphQL endpoint.
func NewClientWithURL(apiURL string) *Client {
	return &Client{
		apiURL:       apiURL,
		rateLimiter:  rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		initialDelay: initialDelay,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

const searchAnimeQuery = `
query ($search: String, $perPage: Int) {
	Page(page: 1, perPage: $perPage) {
		media(search: $search, type: ANIME, sort: SEARCH_MATCH) {
			id
			title {
				english
				romaji
			}
			description
			status
			episodes
			coverImage {
				large
			}
			genres
			averageScore
			seasonYear
		}
	}
}
`

// SearchAnime returns up to perPage AniList entries matching search, best
// match first.
func (c *Client) SearchAnime(ctx context.Context, search string, perPage int) ([]Media, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, fmt.Errorf("search term is required")
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	var result PageResponse
	err := c.doRequest(ctx, searchAnimeQuery, map[string]any{
		"search":  search,
		"perPage": perPage,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to search anime: %w", err)
	}
	return result.Page.Media, nil
}

// doRequest performs a GraphQL request with rate limiting and retries on
// 429 and 5xx responses, backing off exponentially.
func (c *Client) doRequest(ctx context.Context, query string, variables map[string]any, result any) error {
	bodyJSON, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying AniList request")
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay = min(delay*2, maxDelay)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyJSON))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(respBody, 200))
			if !shouldRetry(resp.StatusCode) {
				return lastErr
			}
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
				delay = time.Duration(secs) * time.Second
			}
			continue
		}

		var gqlResp GraphQLResponse
		if err := json.Unmarshal(respBody, &gqlResp); err != nil {
			return fmt.Errorf("failed to parse GraphQL response: %w", err)
		}
		if len(gqlResp.Errors) > 0 {
			msgs := make([]string, len(gqlResp.Errors))
			for i, e := range gqlResp.Errors {
				msgs[i] = e.Message
			}
			return fmt.Errorf("GraphQL errors: %s", strings.Join(msgs, "; "))
		}
		if err := json.Unmarshal(gqlResp.Data, result); err != nil {
			return fmt.Errorf("failed to parse data: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
