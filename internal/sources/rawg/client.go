package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gamedex/internal/services"
)

// Named is a RAWG reference entity (genre, developer, publisher).
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PlatformEntry wraps RAWG's nested platform records.
type PlatformEntry struct {
	Platform Named `json:"platform"`
}

// Game is a catalog record. List endpoints return the summary fields; the
// detail endpoint adds DescriptionRaw and the company lists.
type Game struct {
	ID             int64  `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Released       string `json:"released"`
	DescriptionRaw string `json:"description_raw"`
	Rating         float64 `json:"rating"`
	Metacritic     float64 `json:"metacritic"`
	BackgroundImage           string `json:"background_image"`
	BackgroundImageAdditional string `json:"background_image_additional"`
	ESRBRating *Named          `json:"esrb_rating"`
	Genres     []Named         `json:"genres"`
	Developers []Named         `json:"developers"`
	Publishers []Named         `json:"publishers"`
	Platforms  []PlatformEntry `json:"platforms"`
}

// ScreenshotEntry is one item from the screenshots endpoint.
type ScreenshotEntry struct {
	ID     int64  `json:"id"`
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Catalog defines the RAWG operations the adapter uses.
type Catalog interface {
	SearchGames(ctx context.Context, query string) ([]Game, error)
	GameByID(ctx context.Context, id int64) (*Game, error)
	Screenshots(ctx context.Context, id int64) ([]ScreenshotEntry, error)
}

// Client is an authenticated RAWG API client. RAWG authenticates with a key
// query parameter rather than a header.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a catalog client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("rawg api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("rawg base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchGames runs a text search over the catalog.
func (c *Client) SearchGames(ctx context.Context, query string) ([]Game, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query must not be empty")
	}

	params := url.Values{}
	params.Set("search", query)

	body, err := c.get(ctx, "search", "/games", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Count   int64  `json:"count"`
		Results []Game `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, "search", "decode response", err)
	}
	return payload.Results, nil
}

// GameByID fetches one catalog record including its full description.
// Returns (nil, nil) when the id is unknown.
func (c *Client) GameByID(ctx context.Context, id int64) (*Game, error) {
	body, err := c.get(ctx, "game", fmt.Sprintf("/games/%d", id), nil)
	if err != nil {
		if services.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var game Game
	if err := json.Unmarshal(body, &game); err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, "game", "decode response", err)
	}
	return &game, nil
}

// Screenshots lists the catalog's screenshots for a game.
func (c *Client) Screenshots(ctx context.Context, id int64) ([]ScreenshotEntry, error) {
	body, err := c.get(ctx, "screenshots", fmt.Sprintf("/games/%d/screenshots", id), nil)
	if err != nil {
		if services.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var payload struct {
		Results []ScreenshotEntry `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, "screenshots", "decode response", err)
	}
	return payload.Results, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build rawg request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, operation, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(services.ErrAuth, sourceName, operation,
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(services.ErrNotFound, sourceName, operation, "status 404", nil)
	case resp.StatusCode >= http.StatusBadRequest:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(services.ErrTransient, sourceName, operation,
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, operation, "read response", err)
	}
	return body, nil
}
