package steamgriddb

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"gamedex/internal/logging"
	"gamedex/internal/metadata"
	"gamedex/internal/services"
)

const sourceName = "steamgriddb"

// adapterState is the explicit two-state machine behind self-disable. The
// Disabled state is terminal for an adapter instance.
type adapterState int

const (
	stateEnabled adapterState = iota
	stateDisabled
)

// Adapter exposes SteamGridDB through the metadata source contract.
type Adapter struct {
	client Catalog
	logger *slog.Logger

	mu    sync.Mutex
	state adapterState
}

var _ metadata.Source = (*Adapter)(nil)

// NewAdapter wraps a SteamGridDB catalog client. A nil client yields a
// permanently unavailable adapter.
func NewAdapter(client Catalog, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Adapter{
		client: client,
		logger: logger.With(logging.String(logging.FieldSource, sourceName)),
	}
}

// Name returns the stable source name.
func (a *Adapter) Name() string { return sourceName }

// Available reports whether the adapter is configured and has not self-disabled.
func (a *Adapter) Available() bool {
	if a == nil || a.client == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == stateEnabled
}

// Search resolves candidates for a title. With a Steam App ID it performs an
// exact identifier lookup and returns at most one result, never falling back
// to fuzzy search; without one it walks the match strategies in order.
func (a *Adapter) Search(ctx context.Context, title, steamAppID string) ([]metadata.SearchResult, error) {
	if !a.Available() {
		return nil, nil
	}

	if steamAppID != "" {
		game, err := a.client.GameBySteamAppID(ctx, steamAppID)
		if err != nil {
			a.handleError(ctx, "search", err)
			return nil, nil
		}
		if game == nil {
			return nil, nil
		}
		return []metadata.SearchResult{a.toResult(*game)}, nil
	}

	games := a.fuzzySearch(ctx, title)
	results := make([]metadata.SearchResult, 0, len(games))
	for _, game := range games {
		results = append(results, a.toResult(game))
	}
	return results, nil
}

// Description is always absent: SteamGridDB serves imagery only.
func (a *Adapter) Description(ctx context.Context, id string) (*metadata.Description, error) {
	return nil, nil
}

// Artwork fetches grids, heroes, logos, and icons for a source-local id.
// A bare numeric id is treated as a primary-key lookup, never re-searched as
// text.
func (a *Adapter) Artwork(ctx context.Context, id, steamAppID string) (*metadata.Artwork, error) {
	if !a.Available() {
		return nil, nil
	}

	gameID, ok := a.resolveGameID(ctx, id, steamAppID)
	if !ok {
		return nil, nil
	}

	var art metadata.Artwork
	populated := false

	if grids := a.fetchImages(ctx, "grids", gameID, a.client.Grids); len(grids) > 0 {
		if box, ok := bestByOrientation(grids, portrait); ok {
			art.BoxArtURL = box.URL
			art.BoxArtRes = metadata.Resolution{Width: box.Width, Height: box.Height}
			populated = true
		}
		if banner, ok := bestByOrientation(grids, landscape); ok {
			art.BannerURL = banner.URL
			art.BannerRes = metadata.Resolution{Width: banner.Width, Height: banner.Height}
			populated = true
		}
	}
	if heroes := a.fetchImages(ctx, "heroes", gameID, a.client.Heroes); len(heroes) > 0 {
		art.HeroURL = heroes[0].URL
		art.HeroRes = metadata.Resolution{Width: heroes[0].Width, Height: heroes[0].Height}
		populated = true
	}
	if logos := a.fetchImages(ctx, "logos", gameID, a.client.Logos); len(logos) > 0 {
		art.LogoURL = logos[0].URL
		art.LogoRes = metadata.Resolution{Width: logos[0].Width, Height: logos[0].Height}
		populated = true
	}
	if icons := a.fetchImages(ctx, "icons", gameID, a.client.Icons); len(icons) > 0 {
		art.IconURL = icons[0].URL
		art.IconRes = metadata.Resolution{Width: icons[0].Width, Height: icons[0].Height}
		populated = true
	}

	if !populated {
		return nil, nil
	}
	return &art, nil
}

// resolveGameID extracts the SteamGridDB primary key for a detail call. The
// order is: numeric source-local id, Steam App ID lookup, then a single fuzzy
// resolve of the id text.
func (a *Adapter) resolveGameID(ctx context.Context, id, steamAppID string) (int64, bool) {
	if gameID, err := parseInt(id); err == nil {
		return gameID, true
	}

	if steamAppID != "" {
		game, err := a.client.GameBySteamAppID(ctx, steamAppID)
		if err != nil {
			a.handleError(ctx, "artwork", err)
			return 0, false
		}
		if game != nil {
			return game.ID, true
		}
	}

	if strings.TrimSpace(id) == "" {
		return 0, false
	}
	games := a.fuzzySearch(ctx, id)
	if len(games) == 0 {
		return 0, false
	}
	return games[0].ID, true
}

func (a *Adapter) fetchImages(ctx context.Context, operation string, gameID int64, fetch func(context.Context, int64) ([]Image, error)) []Image {
	if !a.Available() {
		return nil
	}
	images, err := fetch(ctx, gameID)
	if err != nil {
		a.handleError(ctx, operation, err)
		return nil
	}
	return images
}

// handleError applies the failure asymmetry: authentication failures disable
// the adapter for its remaining lifetime, anything else degrades this call
// only.
func (a *Adapter) handleError(ctx context.Context, operation string, err error) {
	logger := logging.WithContext(ctx, a.logger)
	if services.IsAuth(err) {
		a.mu.Lock()
		already := a.state == stateDisabled
		a.state = stateDisabled
		a.mu.Unlock()
		if !already {
			logger.Error("authentication failure, disabling source for this session",
				logging.String("operation", operation), logging.Error(err))
		}
		return
	}
	logger.Warn("source call failed", logging.String("operation", operation), logging.Error(err))
}

func (a *Adapter) toResult(game Game) metadata.SearchResult {
	externalID := strconv.FormatInt(game.ID, 10)
	result := metadata.SearchResult{
		ID:         metadata.ResultID(sourceName, externalID),
		Title:      game.Name,
		Source:     sourceName,
		ExternalID: externalID,
	}
	if game.SteamAppID != 0 {
		result.SteamAppID = strconv.FormatInt(game.SteamAppID, 10)
	}
	return result
}

type orientation int

const (
	portrait orientation = iota
	landscape
)

func bestByOrientation(images []Image, want orientation) (Image, bool) {
	var best Image
	found := false
	for _, img := range images {
		if img.URL == "" || img.Width <= 0 || img.Height <= 0 {
			continue
		}
		got := landscape
		if img.Height > img.Width {
			got = portrait
		}
		if got != want {
			continue
		}
		if !found || img.Width*img.Height > best.Width*best.Height {
			best = img
			found = true
		}
	}
	return best, found
}

func parseInt(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}
