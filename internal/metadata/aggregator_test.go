package metadata

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
)

type stubSource struct {
	name      string
	available bool

	searchFn  func(ctx context.Context, title, steamAppID string) ([]SearchResult, error)
	descFn    func(ctx context.Context, id string) (*Description, error)
	artworkFn func(ctx context.Context, id, steamAppID string) (*Artwork, error)

	searchCalls  atomic.Int64
	artworkCalls atomic.Int64
}

func (s *stubSource) Name() string    { return s.name }
func (s *stubSource) Available() bool { return s.available }

func (s *stubSource) Search(ctx context.Context, title, steamAppID string) ([]SearchResult, error) {
	s.searchCalls.Add(1)
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, title, steamAppID)
}

func (s *stubSource) Description(ctx context.Context, id string) (*Description, error) {
	if s.descFn == nil {
		return nil, nil
	}
	return s.descFn(ctx, id)
}

func (s *stubSource) Artwork(ctx context.Context, id, steamAppID string) (*Artwork, error) {
	s.artworkCalls.Add(1)
	if s.artworkFn == nil {
		return nil, nil
	}
	return s.artworkFn(ctx, id, steamAppID)
}

type stubInstallSource struct {
	stubSource
	installFn func(ctx context.Context, id string) (*InstallInfo, error)
}

func (s *stubInstallSource) InstallInfo(ctx context.Context, id string) (*InstallInfo, error) {
	if s.installFn == nil {
		return nil, nil
	}
	return s.installFn(ctx, id)
}

func staticResults(results ...SearchResult) func(context.Context, string, string) ([]SearchResult, error) {
	return func(context.Context, string, string) ([]SearchResult, error) {
		return results, nil
	}
}

func TestSearchGamesConcatenatesInRegistrationOrder(t *testing.T) {
	sgdb := &stubSource{name: "steamgriddb", available: true, searchFn: staticResults(
		SearchResult{ID: "steamgriddb-1", Title: "Hollow Knight", Source: "steamgriddb", ExternalID: "1"},
	)}
	rawg := &stubSource{name: "rawg", available: true, searchFn: staticResults(
		SearchResult{ID: "rawg-9", Title: "Hollow Knight", Source: "rawg", ExternalID: "9"},
		SearchResult{ID: "rawg-10", Title: "Hollow Knight: Silksong", Source: "rawg", ExternalID: "10"},
	)}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteamGridDB, sgdb)
	agg.SetSource(KindRAWG, rawg)

	results := agg.SearchGames(context.Background(), "Hollow Knight", "")
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	want := []string{"steamgriddb-1", "rawg-9", "rawg-10"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("result order %v, want %v", ids, want)
	}
}

func TestSearchGamesIsolatesSourceFailures(t *testing.T) {
	failing := &stubSource{name: "steamgriddb", available: true,
		searchFn: func(context.Context, string, string) ([]SearchResult, error) {
			return nil, errors.New("boom")
		}}
	healthy := &stubSource{name: "steam", available: true, searchFn: staticResults(
		SearchResult{ID: "steam-367520", Title: "Hollow Knight", Source: "steam", ExternalID: "367520"},
	)}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteamGridDB, failing)
	agg.SetSource(KindSteam, healthy)

	results := agg.SearchGames(context.Background(), "Hollow Knight", "367520")
	if len(results) != 1 || results[0].ID != "steam-367520" {
		t.Fatalf("expected healthy source results to survive, got %v", results)
	}
}

func TestSearchGamesSkipsUnavailableSources(t *testing.T) {
	disabled := &stubSource{name: "steamgriddb", available: false, searchFn: staticResults(
		SearchResult{ID: "steamgriddb-1", Source: "steamgriddb"},
	)}
	agg := NewAggregator(nil)
	agg.SetSource(KindSteamGridDB, disabled)

	if results := agg.SearchGames(context.Background(), "Celeste", "1"); len(results) != 0 {
		t.Fatalf("expected no results from unavailable source, got %v", results)
	}
	if disabled.searchCalls.Load() != 0 {
		t.Fatal("unavailable source must not be called")
	}
}

func TestSearchGamesDeepRetriesCatalogOnEmptySweep(t *testing.T) {
	var calls atomic.Int64
	rawg := &stubSource{name: "rawg", available: true,
		searchFn: func(ctx context.Context, title, steamAppID string) ([]SearchResult, error) {
			if calls.Add(1) == 1 {
				return nil, nil
			}
			return []SearchResult{{ID: "rawg-42", Title: "Some Obscure Indie", Source: "rawg", ExternalID: "42"}}, nil
		}}
	sgdb := &stubSource{name: "steamgriddb", available: true}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteamGridDB, sgdb)
	agg.SetSource(KindRAWG, rawg)

	results := agg.SearchGames(context.Background(), "Some Obscure Indie", "")
	if len(results) != 1 || results[0].ID != "rawg-42" {
		t.Fatalf("expected deep retry result, got %v", results)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected catalog searched twice, got %d", calls.Load())
	}
}

func TestSearchGamesNoDeepRetryWithAppID(t *testing.T) {
	rawg := &stubSource{name: "rawg", available: true}
	agg := NewAggregator(nil)
	agg.SetSource(KindRAWG, rawg)

	agg.SearchGames(context.Background(), "Hollow Knight", "367520")
	if rawg.searchCalls.Load() != 1 {
		t.Fatalf("expected exactly one search with a supplied app id, got %d", rawg.searchCalls.Load())
	}
}

func TestSearchArtworkPropagatesSteamAppID(t *testing.T) {
	var steamArtworkAppID atomic.Value
	sgdb := &stubSource{name: "steamgriddb", available: true, searchFn: staticResults(
		SearchResult{ID: "steamgriddb-7", Title: "Hollow Knight", Source: "steamgriddb", ExternalID: "7", SteamAppID: "367520"},
	)}
	steam := &stubSource{name: "steam", available: true,
		artworkFn: func(ctx context.Context, id, steamAppID string) (*Artwork, error) {
			steamArtworkAppID.Store(steamAppID)
			return &Artwork{BannerURL: "https://steam/header.jpg"}, nil
		}}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteam, steam)
	agg.SetSource(KindSteamGridDB, sgdb)

	out := agg.SearchArtwork(context.Background(), "Hollow Knight", "")
	if got, _ := steamArtworkAppID.Load().(string); got != "367520" {
		t.Fatalf("storefront artwork fetched with app id %q, want propagated 367520", got)
	}
	if out.BannerURL != "https://steam/header.jpg" {
		t.Fatalf("banner = %q", out.BannerURL)
	}
}

func TestSearchArtworkStorefrontBannerWins(t *testing.T) {
	steam := &stubSource{name: "steam", available: true,
		searchFn: staticResults(SearchResult{ID: "steam-367520", Title: "Hollow Knight", Source: "steam", ExternalID: "367520"}),
		artworkFn: func(ctx context.Context, id, steamAppID string) (*Artwork, error) {
			return &Artwork{BannerURL: "https://steam/header.jpg", BannerRes: Resolution{Width: 460, Height: 215}}, nil
		}}
	sgdb := &stubSource{name: "steamgriddb", available: true,
		searchFn: staticResults(SearchResult{ID: "steamgriddb-7", Title: "Hollow Knight", Source: "steamgriddb", ExternalID: "7"}),
		artworkFn: func(ctx context.Context, id, steamAppID string) (*Artwork, error) {
			return &Artwork{}, nil
		}}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteam, steam)
	agg.SetSource(KindSteamGridDB, sgdb)

	out := agg.SearchArtwork(context.Background(), "Hollow Knight", "367520")
	if out.BannerURL != "https://steam/header.jpg" {
		t.Fatalf("banner = %q, want the storefront banner", out.BannerURL)
	}
}

func TestSearchArtworkDescriptionPrecedence(t *testing.T) {
	steam := &stubSource{name: "steam", available: true,
		searchFn: staticResults(SearchResult{ID: "steam-1", Title: "Hollow Knight", Source: "steam", ExternalID: "1"}),
		descFn: func(ctx context.Context, id string) (*Description, error) {
			return &Description{Genres: []string{"Action"}}, nil
		}}
	rawg := &stubSource{name: "rawg", available: true,
		searchFn: staticResults(SearchResult{ID: "rawg-9", Title: "Hollow Knight", Source: "rawg", ExternalID: "9"}),
		descFn: func(ctx context.Context, id string) (*Description, error) {
			return &Description{Genres: []string{"Action", "RPG"}, Rating: 80}, nil
		}}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteam, steam)
	agg.SetSource(KindRAWG, rawg)

	out := agg.SearchArtwork(context.Background(), "Hollow Knight", "1")
	if !reflect.DeepEqual(out.Genres, []string{"Action"}) {
		t.Fatalf("genres = %v, want the storefront description wholesale", out.Genres)
	}
	if out.Rating != 0 {
		t.Fatalf("rating = %v, want no rating mixed in from the catalog", out.Rating)
	}
}

func TestSearchArtworkInstallInfoFromStorefront(t *testing.T) {
	steam := &stubInstallSource{
		stubSource: stubSource{name: "steam", available: true,
			searchFn: staticResults(SearchResult{ID: "steam-367520", Title: "Hollow Knight", Source: "steam", ExternalID: "367520"})},
		installFn: func(ctx context.Context, id string) (*InstallInfo, error) {
			if id != "367520" {
				t.Errorf("install info requested for %q, want 367520", id)
			}
			return &InstallInfo{InstallPath: "/games/Hollow Knight", InstallSize: 9 << 30, Platform: "steam"}, nil
		},
	}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteam, steam)

	out := agg.SearchArtwork(context.Background(), "Hollow Knight", "367520")
	if out.InstallPath != "/games/Hollow Knight" {
		t.Fatalf("install path = %q", out.InstallPath)
	}
	if out.Platform != "steam" {
		t.Fatalf("platform = %q", out.Platform)
	}
}

func TestSearchArtworkEmptyWhenNothingMatches(t *testing.T) {
	sgdb := &stubSource{name: "steamgriddb", available: true}
	rawg := &stubSource{name: "rawg", available: true}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteamGridDB, sgdb)
	agg.SetSource(KindRAWG, rawg)

	out := agg.SearchArtwork(context.Background(), "Totally Unknown Game", "")
	if !out.Empty() {
		t.Fatalf("expected all-empty record, got %+v", out)
	}
}

func TestSearchArtworkIdempotent(t *testing.T) {
	steam := &stubSource{name: "steam", available: true,
		searchFn: staticResults(SearchResult{ID: "steam-367520", Title: "Hollow Knight", Source: "steam", ExternalID: "367520"}),
		artworkFn: func(ctx context.Context, id, steamAppID string) (*Artwork, error) {
			return &Artwork{
				BoxArtURL:   "https://steam/box.jpg",
				BannerURL:   "https://steam/header.jpg",
				Screenshots: []string{"https://steam/s1.jpg", "https://steam/s2.jpg"},
			}, nil
		},
		descFn: func(ctx context.Context, id string) (*Description, error) {
			return &Description{Summary: "Bugs and beasts", Genres: []string{"Action"}}, nil
		}}
	sgdb := &stubSource{name: "steamgriddb", available: true,
		searchFn: staticResults(SearchResult{ID: "steamgriddb-7", Title: "Hollow Knight", Source: "steamgriddb", ExternalID: "7"}),
		artworkFn: func(ctx context.Context, id, steamAppID string) (*Artwork, error) {
			return &Artwork{
				LogoURL:     "https://sgdb/logo.png",
				Screenshots: []string{"https://sgdb/s3.jpg", "https://steam/s1.jpg"},
			}, nil
		}}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteam, steam)
	agg.SetSource(KindSteamGridDB, sgdb)

	first := agg.SearchArtwork(context.Background(), "Hollow Knight", "367520")
	second := agg.SearchArtwork(context.Background(), "Hollow Knight", "367520")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical requests diverged:\n%+v\n%+v", first, second)
	}
}

func TestSetSourceRemove(t *testing.T) {
	sgdb := &stubSource{name: "steamgriddb", available: true}
	agg := NewAggregator(nil)
	agg.SetSource(KindSteamGridDB, sgdb)
	agg.SetSource(KindSteamGridDB, nil)

	agg.SearchGames(context.Background(), "Celeste", "1")
	if sgdb.searchCalls.Load() != 0 {
		t.Fatal("removed source must not be called")
	}
	if statuses := agg.Sources(); len(statuses) != 0 {
		t.Fatalf("expected empty registry, got %v", statuses)
	}
}

func TestSourcesReportsCapabilities(t *testing.T) {
	steam := &stubInstallSource{stubSource: stubSource{name: "steam", available: true}}
	rawg := &stubSource{name: "rawg", available: false}

	agg := NewAggregator(nil)
	agg.SetSource(KindSteam, steam)
	agg.SetSource(KindRAWG, rawg)

	statuses := agg.Sources()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Installs || statuses[0].Kind != KindSteam {
		t.Fatalf("steam status %+v, want install capability", statuses[0])
	}
	if statuses[1].Available {
		t.Fatalf("rawg status %+v, want unavailable", statuses[1])
	}
}
