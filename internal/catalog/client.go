// Package catalog talks to the third-party movie catalog (TMDb).  The client
// holds one keep-alive transport for the life of the process, sends the
// bearer credential it was constructed with, and bounds every call with the
// configured timeout.  Calls are never retried.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/iliyamo/quickshow/internal/model"
)

// DefaultTimeout bounds each catalog call when the caller passes zero.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of a non-2xx body ends up in an error message.
const maxErrorBody = 512

// Client is a catalog API client.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// MovieDetails is the subset of the catalog's movie detail payload that the
// movie cache keeps.  Missing JSON fields decode to zero values and are
// replaced with defaults by the caller.
type MovieDetails struct {
	ID               int           `json:"id"`
	Title            string        `json:"title"`
	Overview         string        `json:"overview"`
	PosterPath       string        `json:"poster_path"`
	BackdropPath     string        `json:"backdrop_path"`
	ReleaseDate      string        `json:"release_date"`
	OriginalLanguage string        `json:"original_language"`
	Tagline          string        `json:"tagline"`
	Genres           []model.Genre `json:"genres"`
	VoteAverage      float64       `json:"vote_average"`
	Runtime          int           `json:"runtime"`
}

// MovieCredits is the catalog's credits payload; only the cast is used.
type MovieCredits struct {
	ID   int                `json:"id"`
	Cast []model.CastMember `json:"cast"`
}

// New builds a Client.  baseURL has no trailing slash (e.g.
// https://api.themoviedb.org/3) and token is the bearer credential.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: timeout,
	}
	return &Client{
		http:    &http.Client{Timeout: timeout, Transport: transport},
		baseURL: baseURL,
		token:   token,
	}
}

// NowPlaying returns the catalog's "now playing" results untouched.
func (c *Client) NowPlaying(ctx context.Context) ([]json.RawMessage, error) {
	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := c.get(ctx, "now playing", "/movie/now_playing", &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return []json.RawMessage{}, nil
	}
	return payload.Results, nil
}

// MovieDetails fetches the detail record for a movie id.
func (c *Client) MovieDetails(ctx context.Context, movieID string) (*MovieDetails, error) {
	var d MovieDetails
	if err := c.get(ctx, "movie details", "/movie/"+url.PathEscape(movieID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// MovieCredits fetches the cast/crew record for a movie id.
func (c *Client) MovieCredits(ctx context.Context, movieID string) (*MovieCredits, error) {
	var cr MovieCredits
	if err := c.get(ctx, "movie credits", "/movie/"+url.PathEscape(movieID)+"/credits", &cr); err != nil {
		return nil, err
	}
	return &cr, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
