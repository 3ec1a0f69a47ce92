package steamgriddb

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

// Game describes a single SteamGridDB game record.
type Game struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	SteamAppID  int64    `json:"steam_app_id,omitempty"`
	ReleaseDate int64    `json:"release_date,omitempty"`
	Types       []string `json:"types,omitempty"`
	Verified    bool     `json:"verified,omitempty"`
}

// Image describes one asset entry (grid, hero, logo, or icon).
type Image struct {
	ID     int64   `json:"id"`
	URL    string  `json:"url"`
	Thumb  string  `json:"thumb,omitempty"`
	Style  string  `json:"style,omitempty"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Score  float64 `json:"score,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors,omitempty"`
}

// Catalog defines the SteamGridDB operations the adapter uses.
type Catalog interface {
	SearchByName(ctx context.Context, name string) ([]Game, error)
	GameBySteamAppID(ctx context.Context, steamAppID string) (*Game, error)
	Grids(ctx context.Context, gameID int64) ([]Image, error)
	Heroes(ctx context.Context, gameID int64) ([]Image, error)
	Logos(ctx context.Context, gameID int64) ([]Image, error)
	Icons(ctx context.Context, gameID int64) ([]Image, error)
}

// Client provides access to the SteamGridDB API.
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

// New creates a SteamGridDB client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("steamgriddb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("steamgriddb base url required")
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

// SearchByName performs a fuzzy autocomplete search.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("search term must not be empty")
	}
	var games []Game
	path := "/search/autocomplete/" + url.PathEscape(name)
	if err := c.get(ctx, "search", path, &games); err != nil {
		if services.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return games, nil
}

// GameBySteamAppID resolves a Steam App ID to the SteamGridDB game record.
// Returns (nil, nil) when SteamGridDB does not know the app.
func (c *Client) GameBySteamAppID(ctx context.Context, steamAppID string) (*Game, error) {
	steamAppID = strings.TrimSpace(steamAppID)
	if steamAppID == "" {
		return nil, errors.New("steam app id must not be empty")
	}
	var game Game
	if err := c.get(ctx, "game by steam app id", "/games/steam/"+url.PathEscape(steamAppID), &game); err != nil {
		if services.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if game.SteamAppID == 0 {
		if id, parseErr := parseInt(steamAppID); parseErr == nil {
			game.SteamAppID = id
		}
	}
	return &game, nil
}

// GameByID fetches a game record by its SteamGridDB primary key.
func (c *Client) GameByID(ctx context.Context, id int64) (*Game, error) {
	var game Game
	if err := c.get(ctx, "game by id", fmt.Sprintf("/games/id/%d", id), &game); err != nil {
		if services.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// Grids lists grid images (box art and banners) for a game.
func (c *Client) Grids(ctx context.Context, gameID int64) ([]Image, error) {
	return c.images(ctx, "grids", gameID)
}

// Heroes lists hero images for a game.
func (c *Client) Heroes(ctx context.Context, gameID int64) ([]Image, error) {
	return c.images(ctx, "heroes", gameID)
}

// Logos lists logo images for a game.
func (c *Client) Logos(ctx context.Context, gameID int64) ([]Image, error) {
	return c.images(ctx, "logos", gameID)
}

// Icons lists icon images for a game.
func (c *Client) Icons(ctx context.Context, gameID int64) ([]Image, error) {
	return c.images(ctx, "icons", gameID)
}

func (c *Client) images(ctx context.Context, kind string, gameID int64) ([]Image, error) {
	var images []Image
	path := fmt.Sprintf("/%s/game/%d", kind, gameID)
	if err := c.get(ctx, kind, path, &images); err != nil {
		if services.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return images, nil
}

func (c *Client) get(ctx context.Context, operation, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build steamgriddb request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, sourceName, operation, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return services.Wrap(services.ErrAuth, sourceName, operation,
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return services.Wrap(services.ErrNotFound, sourceName, operation, "no record", nil)
	case resp.StatusCode >= http.StatusBadRequest:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrTransient, sourceName, operation,
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return services.Wrap(services.ErrTransient, sourceName, operation, "decode response", err)
	}
	if !env.Success {
		return services.Wrap(services.ErrTransient, sourceName, operation,
			strings.Join(env.Errors, "; "), nil)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return services.Wrap(services.ErrTransient, sourceName, operation, "decode payload", err)
	}
	return nil
}
