package steam

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"gamedex/internal/logging"
	"gamedex/internal/metadata"
)

const sourceName = "steam"

// Adapter exposes the Steam storefront through the metadata source contract.
type Adapter struct {
	client  StoreAPI
	library *Library
	logger  *slog.Logger
}

var (
	_ metadata.Source              = (*Adapter)(nil)
	_ metadata.InstallInfoProvider = (*Adapter)(nil)
)

// NewAdapter wraps a storefront client. The library may be nil when no local
// steamapps directory is configured; install info is then always absent.
func NewAdapter(client StoreAPI, library *Library, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Adapter{
		client:  client,
		library: library,
		logger:  logger.With(logging.String(logging.FieldSource, sourceName)),
	}
}

// Name returns the stable source name.
func (a *Adapter) Name() string { return sourceName }

// Available reports whether the adapter has a storefront client. Steam needs
// no credentials, so a constructed adapter never self-disables.
func (a *Adapter) Available() bool {
	return a != nil && a.client != nil
}

// Search resolves candidates for a title. A known App ID is an exact lookup
// against the store page; without one the storefront text search runs.
func (a *Adapter) Search(ctx context.Context, title, steamAppID string) ([]metadata.SearchResult, error) {
	if !a.Available() {
		return nil, nil
	}

	if steamAppID != "" {
		details, err := a.client.AppDetails(ctx, steamAppID)
		if err != nil {
			return nil, err
		}
		if details == nil {
			return nil, nil
		}
		return []metadata.SearchResult{{
			ID:         metadata.ResultID(sourceName, steamAppID),
			Title:      details.Name,
			Source:     sourceName,
			ExternalID: steamAppID,
			SteamAppID: steamAppID,
		}}, nil
	}

	items, err := a.client.SearchStore(ctx, title)
	if err != nil {
		return nil, err
	}
	results := make([]metadata.SearchResult, 0, len(items))
	for _, item := range items {
		if item.Type != "" && item.Type != "app" {
			continue
		}
		appID := strconv.FormatInt(item.ID, 10)
		results = append(results, metadata.SearchResult{
			ID:         metadata.ResultID(sourceName, appID),
			Title:      item.Name,
			Source:     sourceName,
			ExternalID: appID,
			SteamAppID: appID,
		})
	}
	return results, nil
}

// Description fetches the store page text for an App ID.
func (a *Adapter) Description(ctx context.Context, id string) (*metadata.Description, error) {
	if !a.Available() {
		return nil, nil
	}
	appID, ok := normalizeAppID(id)
	if !ok {
		return nil, nil
	}

	details, err := a.client.AppDetails(ctx, appID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, nil
	}

	desc := &metadata.Description{
		Description: strings.TrimSpace(details.AboutTheGame),
		Summary:     strings.TrimSpace(details.ShortDescription),
		ReleaseDate: strings.TrimSpace(details.ReleaseDate.Date),
		Developers:  details.Developers,
		Publishers:  details.Publishers,
		Genres:      tagNames(details.Genres),
		Categories:  tagNames(details.Categories),
		Platforms:   platformNames(details.Platforms),
	}
	if desc.Description == "" {
		desc.Description = strings.TrimSpace(details.DetailedDescription)
	}
	if age := details.RequiredAge.String(); age != "" && age != "0" {
		desc.AgeRating = age + "+"
	}
	if details.Metacritic != nil {
		desc.Rating = details.Metacritic.Score
	}
	return desc, nil
}

// Artwork builds CDN URLs for an App ID and attaches store screenshots.
// The CDN URLs are deterministic, so only the screenshot fetch touches the
// network; a failure there degrades to URL-only artwork.
func (a *Adapter) Artwork(ctx context.Context, id, steamAppID string) (*metadata.Artwork, error) {
	if !a.Available() {
		return nil, nil
	}
	appID, ok := normalizeAppID(steamAppID)
	if !ok {
		if appID, ok = normalizeAppID(id); !ok {
			return nil, nil
		}
	}

	urls := a.client.ArtworkURLs(appID)
	art := &metadata.Artwork{
		BoxArtURL: urls.BoxArt,
		BoxArtRes: urls.BoxArtRes,
		BannerURL: urls.Banner,
		BannerRes: urls.BannerRes,
		HeroURL:   urls.Hero,
		HeroRes:   urls.HeroRes,
		LogoURL:   urls.Logo,
		LogoRes:   urls.LogoRes,
	}

	details, err := a.client.AppDetails(ctx, appID)
	if err != nil {
		logging.WithContext(ctx, a.logger).Warn("screenshot fetch failed, returning CDN artwork only",
			logging.String("app_id", appID), logging.Error(err))
		return art, nil
	}
	if details != nil {
		for _, shot := range details.Screenshots {
			if shot.PathFull != "" {
				art.Screenshots = append(art.Screenshots, shot.PathFull)
			}
		}
	}
	return art, nil
}

// InstallInfo reads the local appmanifest for an App ID, when a steamapps
// directory is configured.
func (a *Adapter) InstallInfo(ctx context.Context, id string) (*metadata.InstallInfo, error) {
	if a == nil || a.library == nil {
		return nil, nil
	}
	appID, ok := normalizeAppID(id)
	if !ok {
		return nil, nil
	}
	return a.library.InstallInfo(appID)
}

// normalizeAppID accepts only all-digit identifiers; anything else is not a
// Steam App ID and the adapter has no answer for it.
func normalizeAppID(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(value, 10, 64); err != nil {
		return "", false
	}
	return value, true
}

func tagNames(tags []Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag.Description != "" {
			names = append(names, tag.Description)
		}
	}
	return names
}

func platformNames(platforms Platforms) []string {
	var names []string
	if platforms.Windows {
		names = append(names, "windows")
	}
	if platforms.Mac {
		names = append(names, "mac")
	}
	if platforms.Linux {
		names = append(names, "linux")
	}
	return names
}
