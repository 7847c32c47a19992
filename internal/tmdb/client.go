package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
)

// Genre is a TMDB movie genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieResult is one entry of a TMDB discover page.
type MovieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int64 `json:"genre_ids"`
}

// CastMember is one credited actor of a movie.
type CastMember struct {
	Name string `json:"name"`
}

// Client talks to the TMDB v3 API. Transient failures (5xx, network)
// are retried with exponential backoff.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
}

func NewClient(apiKey, baseURL, imageBaseURL string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		apiKey:       apiKey,
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
	}
}

// Genres fetches the full movie genre list.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var payload struct {
		Genres []Genre `json:"genres"`
	}
	params := url.Values{"language": {"en-US"}}
	if err := c.getJSON(ctx, "/3/genre/movie/list", params, &payload); err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}
	return payload.Genres, nil
}

// DiscoverMovies fetches one page of the discover listing, most voted
// first.
func (c *Client) DiscoverMovies(ctx context.Context, page int) ([]MovieResult, error) {
	var payload struct {
		Results []MovieResult `json:"results"`
	}
	params := url.Values{
		"sort_by":       {"vote_count.desc"},
		"include_adult": {"false"},
		"include_video": {"false"},
		"language":      {"ko"},
		"page":          {strconv.Itoa(page)},
	}
	if err := c.getJSON(ctx, "/3/discover/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("discover movies page %d: %w", page, err)
	}
	return payload.Results, nil
}

// MovieCast fetches the top-billed cast of a movie, at most five
// members.
func (c *Client) MovieCast(ctx context.Context, movieID int64) ([]CastMember, error) {
	var payload struct {
		Cast []CastMember `json:"cast"`
	}
	params := url.Values{"language": {"ko"}}
	if err := c.getJSON(ctx, fmt.Sprintf("/3/movie/%d/credits", movieID), params, &payload); err != nil {
		return nil, fmt.Errorf("fetch cast for movie %d: %w", movieID, err)
	}
	if len(payload.Cast) > 5 {
		payload.Cast = payload.Cast[:5]
	}
	return payload.Cast, nil
}

// MovieRuntime fetches the runtime minutes from the movie details.
func (c *Client) MovieRuntime(ctx context.Context, movieID int64) (int, error) {
	var payload struct {
		Runtime int `json:"runtime"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/3/movie/%d", movieID), nil, &payload); err != nil {
		return 0, fmt.Errorf("fetch details for movie %d: %w", movieID, err)
	}
	return payload.Runtime, nil
}

// DownloadPoster fetches the poster image bytes for a poster path.
func (c *Client) DownloadPoster(ctx context.Context, posterPath string) ([]byte, error) {
	if posterPath == "" {
		return nil, fmt.Errorf("poster path is empty")
	}

	var body []byte
	err := c.withRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.imageBaseURL+posterPath, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download poster %s: %w", posterPath, err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	return c.withRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func (c *Client) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, fn)
}
