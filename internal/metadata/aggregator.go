package metadata

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"gamedex/internal/logging"
	"gamedex/internal/services"
)

const defaultRequestTimeout = 10 * time.Second

// Aggregator composes N sources behind the capability contract and produces
// merged metadata records. Sources can be added or removed between requests;
// in-flight requests operate on a snapshot taken at request start.
type Aggregator struct {
	mu      sync.Mutex
	sources map[Kind]Source
	order   []Kind

	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTimeout overrides the per-source call timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAggregator creates an empty aggregator. Register sources with SetSource.
func NewAggregator(logger *slog.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = logging.NewNop()
	}
	a := &Aggregator{
		sources: make(map[Kind]Source),
		timeout: defaultRequestTimeout,
		logger:  logger.With(logging.String(logging.FieldComponent, "aggregator")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetSource adds, replaces, or (with a nil source) removes a source at runtime.
func (a *Aggregator) SetSource(kind Kind, src Source) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if src == nil {
		if _, ok := a.sources[kind]; ok {
			delete(a.sources, kind)
			for i, k := range a.order {
				if k == kind {
					a.order = append(a.order[:i], a.order[i+1:]...)
					break
				}
			}
		}
		return
	}

	if _, ok := a.sources[kind]; !ok {
		a.order = append(a.order, kind)
	}
	a.sources[kind] = src
}

type registeredSource struct {
	kind Kind
	src  Source
}

// snapshot copies the registry under lock so concurrent SetSource calls cannot
// mutate a request's fan-out mid-flight.
func (a *Aggregator) snapshot() []registeredSource {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := make([]registeredSource, 0, len(a.order))
	for _, kind := range a.order {
		if src, ok := a.sources[kind]; ok {
			snap = append(snap, registeredSource{kind: kind, src: src})
		}
	}
	return snap
}

// SourceStatus reports one registered source for status displays.
type SourceStatus struct {
	Kind      Kind
	Name      string
	Available bool
	Installs  bool
}

// Sources lists the registered sources in registration order.
func (a *Aggregator) Sources() []SourceStatus {
	snap := a.snapshot()
	statuses := make([]SourceStatus, 0, len(snap))
	for _, reg := range snap {
		_, installs := reg.src.(InstallInfoProvider)
		statuses = append(statuses, SourceStatus{
			Kind:      reg.kind,
			Name:      reg.src.Name(),
			Available: reg.src.Available(),
			Installs:  installs,
		})
	}
	return statuses
}

// SearchGames queries every available source concurrently and concatenates
// their results in registration order. A failing source contributes an empty
// list; the sweep itself never fails. When the default sweep finds nothing and
// no Steam App ID was supplied, the catalog source alone is retried once, which
// recovers titles the multi-source sweep missed.
func (a *Aggregator) SearchGames(ctx context.Context, title, steamAppID string) []SearchResult {
	ctx = a.ensureRequestID(ctx)
	snap := a.snapshot()

	perSource := a.searchSources(ctx, snap, title, steamAppID)

	var combined []SearchResult
	for _, results := range perSource {
		combined = append(combined, results...)
	}
	if len(combined) > 0 || steamAppID != "" {
		return combined
	}

	return a.deepRetry(ctx, snap, title)
}

func (a *Aggregator) deepRetry(ctx context.Context, snap []registeredSource, title string) []SearchResult {
	for _, reg := range snap {
		if reg.kind != KindRAWG || !reg.src.Available() {
			continue
		}
		srcCtx := services.WithSource(ctx, reg.src.Name())
		logger := logging.WithContext(srcCtx, a.logger)
		logger.Info("empty sweep, retrying catalog source alone", logging.String(logging.FieldTitle, title))

		callCtx, cancel := context.WithTimeout(srcCtx, a.timeout)
		defer cancel()
		results, err := reg.src.Search(callCtx, title, "")
		if err != nil {
			logger.Warn("catalog retry failed", logging.Error(err))
			return nil
		}
		return results
	}
	return nil
}

func (a *Aggregator) searchSources(ctx context.Context, snap []registeredSource, title, steamAppID string) [][]SearchResult {
	results := make([][]SearchResult, len(snap))
	var wg sync.WaitGroup
	for i, reg := range snap {
		if !reg.src.Available() {
			continue
		}
		wg.Add(1)
		go func(i int, reg registeredSource) {
			defer wg.Done()
			srcCtx := services.WithSource(ctx, reg.src.Name())
			callCtx, cancel := context.WithTimeout(srcCtx, a.timeout)
			defer cancel()

			found, err := reg.src.Search(callCtx, title, steamAppID)
			if err != nil {
				logging.WithContext(srcCtx, a.logger).Warn("source search failed",
					logging.String(logging.FieldTitle, title), logging.Error(err))
				return
			}
			results[i] = found
		}(i, reg)
	}
	wg.Wait()
	return results
}

// SearchArtwork runs the full aggregation pipeline: sweep, per-source
// candidate selection, Steam App ID propagation, concurrent detail fetches,
// and the three merge policies. Source-level failures degrade to absent data;
// an all-empty record means "nothing found."
func (a *Aggregator) SearchArtwork(ctx context.Context, title, steamAppID string) AggregatedMetadata {
	ctx = a.ensureRequestID(ctx)
	logger := logging.WithContext(ctx, a.logger)
	snap := a.snapshot()

	results := a.SearchGames(ctx, title, steamAppID)
	candidates := selectCandidates(results)
	if len(candidates) == 0 && steamAppID == "" {
		logger.Info("no usable candidates", logging.String(logging.FieldTitle, title))
		return AggregatedMetadata{}
	}

	steamAppID = a.propagateSteamAppID(ctx, candidates, steamAppID)

	fetched := a.fetchDetails(ctx, snap, candidates, steamAppID)

	merged := MergeArtwork(fetched.artwork)
	desc := MergeDescriptions(fetched.descriptions)
	install := MergeInstallInfo(fetched.installs)

	return assemble(merged, desc, install)
}

// selectCandidates keeps the first result per source. The aggregator resolves
// identity per category, never globally: each source's own candidate id drives
// that source's detail calls.
func selectCandidates(results []SearchResult) map[Kind]SearchResult {
	candidates := make(map[Kind]SearchResult)
	for _, r := range results {
		kind := Kind(r.Source)
		if _, ok := candidates[kind]; !ok {
			candidates[kind] = r
		}
	}
	return candidates
}

// candidateScanOrder fixes the order candidates are consulted when adopting a
// Steam App ID discovered by another source: the community asset site is the
// most reliable carrier, then the catalog, then the storefront itself.
var candidateScanOrder = []Kind{KindSteamGridDB, KindRAWG, KindSteam}

func (a *Aggregator) propagateSteamAppID(ctx context.Context, candidates map[Kind]SearchResult, steamAppID string) string {
	if steamAppID != "" {
		return steamAppID
	}
	for _, kind := range candidateScanOrder {
		cand, ok := candidates[kind]
		if !ok || cand.SteamAppID == "" {
			continue
		}
		logging.WithContext(ctx, a.logger).Debug("adopting steam app id from candidate",
			logging.String(logging.FieldSource, cand.Source),
			logging.String(logging.FieldAppID, cand.SteamAppID))
		return cand.SteamAppID
	}
	return ""
}

type fetchedDetails struct {
	artwork      []ArtworkCandidate
	descriptions []*Description
	installs     []*InstallInfo
}

// fetchDetails issues every artwork/description/install call concurrently and
// joins them. Slice positions encode the merge call order, so the merge
// policies see deterministic candidate ordering regardless of completion
// order.
func (a *Aggregator) fetchDetails(ctx context.Context, snap []registeredSource, candidates map[Kind]SearchResult, steamAppID string) fetchedDetails {
	byKind := make(map[Kind]Source, len(snap))
	for _, reg := range snap {
		if reg.src.Available() {
			byKind[reg.kind] = reg.src
		}
	}

	artOrder := []Kind{KindSteam, KindSteamGridDB, KindRAWG}
	if steamAppID == "" {
		artOrder = []Kind{KindSteamGridDB, KindRAWG, KindSteam}
	}

	fetched := fetchedDetails{
		artwork:      make([]ArtworkCandidate, len(artOrder)),
		descriptions: make([]*Description, 2),
		installs:     make([]*InstallInfo, 1),
	}

	var wg sync.WaitGroup

	for i, kind := range artOrder {
		src, ok := byKind[kind]
		if !ok {
			continue
		}
		cand, hasCand := candidates[kind]
		if !hasCand && !(kind == KindSteam && steamAppID != "") {
			continue
		}
		wg.Add(1)
		go func(i int, src Source, id string) {
			defer wg.Done()
			srcCtx := services.WithSource(ctx, src.Name())
			callCtx, cancel := context.WithTimeout(srcCtx, a.timeout)
			defer cancel()

			art, err := src.Artwork(callCtx, id, steamAppID)
			if err != nil {
				logging.WithContext(srcCtx, a.logger).Warn("artwork fetch failed", logging.Error(err))
				return
			}
			fetched.artwork[i] = ArtworkCandidate{Source: src.Name(), Artwork: art}
		}(i, src, cand.ExternalID)
	}

	// Description call order determines merge precedence: storefront first
	// when an app id is known, then the catalog.
	if steamAppID != "" {
		if src, ok := byKind[KindSteam]; ok {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fetched.descriptions[0] = a.fetchDescription(ctx, src, steamAppID)
			}()
		}
	}
	if src, ok := byKind[KindRAWG]; ok {
		if cand, hasCand := candidates[KindRAWG]; hasCand {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fetched.descriptions[1] = a.fetchDescription(ctx, src, cand.ExternalID)
			}()
		}
	}

	if src, ok := byKind[KindSteam]; ok {
		if provider, ok := src.(InstallInfoProvider); ok {
			id := steamAppID
			if id == "" {
				id = candidates[KindSteam].ExternalID
			}
			if id != "" {
				wg.Add(1)
				go func() {
					defer wg.Done()
					srcCtx := services.WithSource(ctx, src.Name())
					callCtx, cancel := context.WithTimeout(srcCtx, a.timeout)
					defer cancel()

					info, err := provider.InstallInfo(callCtx, id)
					if err != nil {
						logging.WithContext(srcCtx, a.logger).Warn("install info fetch failed", logging.Error(err))
						return
					}
					fetched.installs[0] = info
				}()
			}
		}
	}

	wg.Wait()
	return fetched
}

func (a *Aggregator) fetchDescription(ctx context.Context, src Source, id string) *Description {
	srcCtx := services.WithSource(ctx, src.Name())
	callCtx, cancel := context.WithTimeout(srcCtx, a.timeout)
	defer cancel()

	desc, err := src.Description(callCtx, id)
	if err != nil {
		logging.WithContext(srcCtx, a.logger).Warn("description fetch failed", logging.Error(err))
		return nil
	}
	return desc
}

// assemble flattens the merged categories into the output record. A missing
// banner degrades along the banner, hero, box-art chain so the launcher never
// renders an empty banner slot while other imagery exists.
func assemble(art Artwork, desc *Description, install *InstallInfo) AggregatedMetadata {
	out := AggregatedMetadata{
		BoxArtURL:   art.BoxArtURL,
		BannerURL:   art.BannerURL,
		LogoURL:     art.LogoURL,
		HeroURL:     art.HeroURL,
		IconURL:     art.IconURL,
		Screenshots: art.Screenshots,
	}

	if out.BannerURL == "" {
		if out.HeroURL != "" {
			out.BannerURL = out.HeroURL
		} else if out.BoxArtURL != "" {
			out.BannerURL = out.BoxArtURL
		}
	}

	if desc != nil {
		out.Description = desc.Description
		out.Summary = desc.Summary
		out.ReleaseDate = desc.ReleaseDate
		out.Genres = desc.Genres
		out.Developers = desc.Developers
		out.Publishers = desc.Publishers
		out.AgeRating = desc.AgeRating
		out.Rating = desc.Rating
		out.Platforms = desc.Platforms
		out.Categories = desc.Categories
	}

	if install != nil {
		out.InstallPath = install.InstallPath
		out.InstallSize = install.InstallSize
		out.ExecutablePath = install.ExecutablePath
		out.Platform = install.Platform
	}

	return out
}

func (a *Aggregator) ensureRequestID(ctx context.Context) context.Context {
	if _, ok := services.RequestIDFromContext(ctx); ok {
		return ctx
	}
	return services.WithRequestID(ctx, uuid.NewString())
}
