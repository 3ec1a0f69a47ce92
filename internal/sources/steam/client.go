package steam

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

	"gamedex/internal/metadata"
	"gamedex/internal/services"
)

// Tag is a named genre or category entry in an appdetails payload.
type Tag struct {
	ID          json.Number `json:"id"`
	Description string      `json:"description"`
}

// Screenshot is one appdetails screenshot entry.
type Screenshot struct {
	ID       int64  `json:"id"`
	PathFull string `json:"path_full"`
}

// Platforms flags the operating systems an app supports.
type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

// Metacritic carries the store's embedded review score.
type Metacritic struct {
	Score float64 `json:"score"`
	URL   string  `json:"url"`
}

// ReleaseDate is the store's display release date.
type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// AppDetails is the subset of the store appdetails payload the adapter uses.
type AppDetails struct {
	Name                string       `json:"name"`
	SteamAppID          int64        `json:"steam_appid"`
	ShortDescription    string       `json:"short_description"`
	AboutTheGame        string       `json:"about_the_game"`
	DetailedDescription string       `json:"detailed_description"`
	RequiredAge         json.Number  `json:"required_age"`
	Developers          []string     `json:"developers"`
	Publishers          []string     `json:"publishers"`
	Genres              []Tag        `json:"genres"`
	Categories          []Tag        `json:"categories"`
	Platforms           Platforms    `json:"platforms"`
	Metacritic          *Metacritic  `json:"metacritic"`
	Screenshots         []Screenshot `json:"screenshots"`
	ReleaseDate         ReleaseDate  `json:"release_date"`
	HeaderImage         string       `json:"header_image"`
}

// StoreItem is one storefront search hit.
type StoreItem struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// ArtworkURLs holds the deterministic CDN locations for an app's imagery,
// with the CDN's fixed dimensions per slot.
type ArtworkURLs struct {
	BoxArt    string
	BoxArtRes metadata.Resolution
	Banner    string
	BannerRes metadata.Resolution
	Hero      string
	HeroRes   metadata.Resolution
	Logo      string
	LogoRes   metadata.Resolution
}

// StoreAPI defines the storefront operations the adapter uses.
type StoreAPI interface {
	AppDetails(ctx context.Context, appID string) (*AppDetails, error)
	SearchStore(ctx context.Context, term string) ([]StoreItem, error)
	ArtworkURLs(appID string) ArtworkURLs
}

// Client provides access to the Steam storefront API and CDN URL scheme.
type Client struct {
	baseURL    string
	cdnBaseURL string
	country    string
	language   string
	httpClient *http.Client
}

var _ StoreAPI = (*Client)(nil)

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

// New creates a storefront client.
func New(baseURL, cdnBaseURL, country, language string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("steam base url required")
	}
	cdnBaseURL = strings.TrimSpace(cdnBaseURL)
	if cdnBaseURL == "" {
		return nil, errors.New("steam cdn base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cdnBaseURL: strings.TrimRight(cdnBaseURL, "/"),
		country:    strings.TrimSpace(country),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// AppDetails fetches the store page payload for an app.
// Returns (nil, nil) when the store has no page for the id.
func (c *Client) AppDetails(ctx context.Context, appID string) (*AppDetails, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, errors.New("app id must not be empty")
	}

	params := url.Values{}
	params.Set("appids", appID)
	if c.country != "" {
		params.Set("cc", c.country)
	}
	if c.language != "" {
		params.Set("l", c.language)
	}

	body, err := c.get(ctx, "appdetails", "/api/appdetails?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload map[string]struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, "appdetails", "decode response", err)
	}
	entry, ok := payload[appID]
	if !ok || !entry.Success {
		return nil, nil
	}

	var details AppDetails
	if err := json.Unmarshal(entry.Data, &details); err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, "appdetails", "decode payload", err)
	}
	return &details, nil
}

// SearchStore performs a storefront text search.
func (c *Client) SearchStore(ctx context.Context, term string) ([]StoreItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("search term must not be empty")
	}

	params := url.Values{}
	params.Set("term", term)
	if c.country != "" {
		params.Set("cc", c.country)
	}
	if c.language != "" {
		params.Set("l", c.language)
	}

	body, err := c.get(ctx, "storesearch", "/api/storesearch/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload struct {
		Total int64       `json:"total"`
		Items []StoreItem `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, "storesearch", "decode response", err)
	}
	return payload.Items, nil
}

// ArtworkURLs builds the CDN locations for an app. The CDN serves fixed sizes
// per slot, recorded here so the merge tie-break sees honest resolutions.
func (c *Client) ArtworkURLs(appID string) ArtworkURLs {
	base := fmt.Sprintf("%s/steam/apps/%s", c.cdnBaseURL, appID)
	return ArtworkURLs{
		BoxArt:    base + "/library_600x900_2x.jpg",
		BoxArtRes: metadata.Resolution{Width: 1200, Height: 1800},
		Banner:    base + "/header.jpg",
		BannerRes: metadata.Resolution{Width: 460, Height: 215},
		Hero:      base + "/library_hero.jpg",
		HeroRes:   metadata.Resolution{Width: 1920, Height: 620},
		Logo:      base + "/logo.png",
		LogoRes:   metadata.Resolution{Width: 640, Height: 360},
	}
}

func (c *Client) get(ctx context.Context, operation, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build steam request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, operation, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
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
