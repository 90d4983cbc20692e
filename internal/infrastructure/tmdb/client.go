package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	"github.com/reelmetrics/reelmetrics/pkg/interfaces"
)

// Client represents a TMDB API client for the discover endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     interfaces.Logger
}

// NewClient creates a new TMDB client. The token is a bearer token, not an
// api_key query parameter.
func NewClient(baseURL, token string, timeout time.Duration, logger interfaces.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// discoverResponse is one page of the TMDB discover/movie response. Fields
// are pointers so a movie missing a field decodes to nil instead of failing
// the page.
type discoverResponse struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Results    []movieSummary `json:"results"`
}

type movieSummary struct {
	Title       *string  `json:"title"`
	Overview    *string  `json:"overview"`
	ReleaseDate *string  `json:"release_date"`
	Adult       *bool    `json:"adult"`
	VoteAverage *float64 `json:"vote_average"`
	VoteCount   *int     `json:"vote_count"`
	Popularity  *float64 `json:"popularity"`
}

// DiscoverMovies retrieves one page of popular movies.
func (c *Client) DiscoverMovies(ctx context.Context, page int) ([]analytics.ExternalMovie, error) {
	url := fmt.Sprintf(
		"%s/discover/movie?include_adult=false&include_video=false&language=en-US&page=%d&sort_by=popularity.desc",
		c.baseURL, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	movies := make([]analytics.ExternalMovie, 0, len(body.Results))
	for _, m := range body.Results {
		movies = append(movies, m.toExternal())
	}
	return movies, nil
}

// FetchPopular retrieves up to the given number of discover pages and merges
// whatever succeeded. A page that fails to fetch is logged and skipped; it
// never discards data from pages already fetched.
func (c *Client) FetchPopular(ctx context.Context, pages int) ([]analytics.ExternalMovie, error) {
	if pages <= 0 {
		pages = 1
	}

	var merged []analytics.ExternalMovie
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return merged, err
		}

		movies, err := c.DiscoverMovies(ctx, page)
		if err != nil {
			c.logger.Warn("Skipping failed catalog API page",
				interfaces.Int("page", page),
				interfaces.Error(err))
			continue
		}
		merged = append(merged, movies...)
	}
	return merged, nil
}

// toExternal converts a summary to the analytics shape, leaving missing
// fields at their zero value.
func (m *movieSummary) toExternal() analytics.ExternalMovie {
	var out analytics.ExternalMovie
	if m.Title != nil {
		out.Title = *m.Title
	}
	if m.Overview != nil {
		out.Overview = *m.Overview
	}
	if m.ReleaseDate != nil {
		if t, err := time.Parse("2006-01-02", *m.ReleaseDate); err == nil {
			out.ReleaseYear = t.Year()
		}
	}
	if m.Adult != nil {
		out.Adult = *m.Adult
	}
	if m.VoteAverage != nil {
		out.VoteAverage = *m.VoteAverage
	}
	if m.VoteCount != nil {
		out.VoteCount = *m.VoteCount
	}
	if m.Popularity != nil {
		out.Popularity = *m.Popularity
	}
	return out
}
