package rawg

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gamedex/internal/logging"
	"gamedex/internal/metadata"
	"gamedex/internal/services"
	"gamedex/internal/textutil"
)

const sourceName = "rawg"

// Adapter exposes the RAWG catalog through the metadata source contract.
// Like the community asset site, it disables itself for the rest of its
// lifetime after an authentication failure.
type Adapter struct {
	client Catalog
	logger *slog.Logger

	mu       sync.Mutex
	disabled bool
}

var _ metadata.Source = (*Adapter)(nil)

// NewAdapter wraps a RAWG catalog client. A nil client yields a permanently
// unavailable adapter.
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
	return !a.disabled
}

// Search runs a title search with fallback query shapes. RAWG has no Steam
// App ID index, so a supplied app id cannot narrow the lookup; the title
// drives the search either way.
func (a *Adapter) Search(ctx context.Context, title, steamAppID string) ([]metadata.SearchResult, error) {
	if !a.Available() {
		return nil, nil
	}

	games := a.searchWithFallback(ctx, title)
	results := make([]metadata.SearchResult, 0, len(games))
	for _, game := range games {
		externalID := strconv.FormatInt(game.ID, 10)
		results = append(results, metadata.SearchResult{
			ID:         metadata.ResultID(sourceName, externalID),
			Title:      game.Name,
			Source:     sourceName,
			ExternalID: externalID,
		})
	}
	return results, nil
}

// Description fetches the full catalog record for a source-local id.
func (a *Adapter) Description(ctx context.Context, id string) (*metadata.Description, error) {
	if !a.Available() {
		return nil, nil
	}
	gameID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, nil
	}

	game, err := a.client.GameByID(ctx, gameID)
	if err != nil {
		a.handleError(ctx, "description", err)
		return nil, nil
	}
	if game == nil {
		return nil, nil
	}

	desc := &metadata.Description{
		Description: strings.TrimSpace(game.DescriptionRaw),
		ReleaseDate: strings.TrimSpace(game.Released),
		Genres:      names(game.Genres),
		Developers:  names(game.Developers),
		Publishers:  names(game.Publishers),
		Platforms:   platformNames(game.Platforms),
	}
	if game.ESRBRating != nil {
		desc.AgeRating = game.ESRBRating.Name
	}
	// Metacritic scores are 0-100; RAWG's own rating is 0-5 and rescaled to
	// the same range.
	switch {
	case game.Metacritic > 0:
		desc.Rating = game.Metacritic
	case game.Rating > 0:
		desc.Rating = game.Rating * 20
	}
	return desc, nil
}

// Artwork maps the catalog's imagery for a source-local id: the background
// image becomes the banner, the additional background the hero, and the
// screenshots endpoint fills the screenshot list.
func (a *Adapter) Artwork(ctx context.Context, id, steamAppID string) (*metadata.Artwork, error) {
	if !a.Available() {
		return nil, nil
	}
	gameID, ok := a.resolveGameID(ctx, id)
	if !ok {
		return nil, nil
	}

	game, err := a.client.GameByID(ctx, gameID)
	if err != nil {
		a.handleError(ctx, "artwork", err)
		return nil, nil
	}
	if game == nil {
		return nil, nil
	}

	var art metadata.Artwork
	populated := false
	if game.BackgroundImage != "" {
		art.BannerURL = game.BackgroundImage
		populated = true
	}
	if game.BackgroundImageAdditional != "" {
		art.HeroURL = game.BackgroundImageAdditional
		populated = true
	}

	shots, err := a.client.Screenshots(ctx, gameID)
	if err != nil {
		a.handleError(ctx, "screenshots", err)
	}
	for _, shot := range shots {
		if shot.Image != "" {
			art.Screenshots = append(art.Screenshots, shot.Image)
			populated = true
		}
	}

	if !populated {
		return nil, nil
	}
	return &art, nil
}

// resolveGameID treats a numeric id as the catalog primary key; any other id
// text resolves through a single search.
func (a *Adapter) resolveGameID(ctx context.Context, id string) (int64, bool) {
	if gameID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
		return gameID, true
	}
	if strings.TrimSpace(id) == "" {
		return 0, false
	}
	games := a.searchWithFallback(ctx, id)
	if len(games) == 0 {
		return 0, false
	}
	return games[0].ID, true
}

// searchWithFallback tries the verbatim title, then a punctuation-stripped
// form, then one without a leading article, ranking the first non-empty
// result set by title similarity.
func (a *Adapter) searchWithFallback(ctx context.Context, title string) []Game {
	queries := []string{
		strings.TrimSpace(title),
		textutil.StripPunctuation(title),
		textutil.StripLeadingArticle(textutil.StripPunctuation(title)),
	}

	tried := make(map[string]struct{}, len(queries))
	for _, query := range queries {
		if !a.Available() {
			return nil
		}
		if query == "" {
			continue
		}
		if _, ok := tried[query]; ok {
			continue
		}
		tried[query] = struct{}{}

		games, err := a.client.SearchGames(ctx, query)
		if err != nil {
			a.handleError(ctx, "search", err)
			return nil
		}
		if len(games) == 0 {
			continue
		}
		return rankBySimilarity(games, title)
	}
	return nil
}

func rankBySimilarity(games []Game, title string) []Game {
	ranked := make([]Game, len(games))
	copy(ranked, games)
	sort.SliceStable(ranked, func(i, j int) bool {
		return textutil.TitleSimilarity(title, ranked[i].Name) > textutil.TitleSimilarity(title, ranked[j].Name)
	})
	return ranked
}

// handleError mirrors the community site's failure asymmetry: auth failures
// disable the adapter, anything else degrades the current call only.
func (a *Adapter) handleError(ctx context.Context, operation string, err error) {
	logger := logging.WithContext(ctx, a.logger)
	if services.IsAuth(err) {
		a.mu.Lock()
		already := a.disabled
		a.disabled = true
		a.mu.Unlock()
		if !already {
			logger.Error("authentication failure, disabling source for this session",
				logging.String("operation", operation), logging.Error(err))
		}
		return
	}
	logger.Warn("source call failed", logging.String("operation", operation), logging.Error(err))
}

func names(entries []Named) []string {
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name != "" {
			out = append(out, entry.Name)
		}
	}
	return out
}

func platformNames(entries []PlatformEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Platform.Name != "" {
			out = append(out, entry.Platform.Name)
		}
	}
	return out
}
