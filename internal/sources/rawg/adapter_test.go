package rawg

import (
	"context"
	"testing"

	"gamedex/internal/services"
)

type fakeCatalog struct {
	searchFn      func(ctx context.Context, query string) ([]Game, error)
	byIDFn        func(ctx context.Context, id int64) (*Game, error)
	screenshotsFn func(ctx context.Context, id int64) ([]ScreenshotEntry, error)

	searchCalls int
}

func (f *fakeCatalog) SearchGames(ctx context.Context, query string) ([]Game, error) {
	f.searchCalls++
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(ctx, query)
}

func (f *fakeCatalog) GameByID(ctx context.Context, id int64) (*Game, error) {
	if f.byIDFn == nil {
		return nil, nil
	}
	return f.byIDFn(ctx, id)
}

func (f *fakeCatalog) Screenshots(ctx context.Context, id int64) ([]ScreenshotEntry, error) {
	if f.screenshotsFn == nil {
		return nil, nil
	}
	return f.screenshotsFn(ctx, id)
}

func TestSearchIgnoresSteamAppID(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query string) ([]Game, error) {
			if query != "Hollow Knight" {
				t.Errorf("query = %q", query)
			}
			return []Game{{ID: 9767, Name: "Hollow Knight"}}, nil
		},
	}
	adapter := NewAdapter(catalog, nil)

	results, err := adapter.Search(context.Background(), "Hollow Knight", "367520")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	got := results[0]
	if got.ID != "rawg-9767" || got.ExternalID != "9767" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.SteamAppID != "" {
		t.Fatal("rawg must not claim steam app id knowledge")
	}
}

func TestSearchFallsBackToStrippedQuery(t *testing.T) {
	var queries []string
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query string) ([]Game, error) {
			queries = append(queries, query)
			if query == "Some Obscure Indie" {
				return []Game{{ID: 41, Name: "Some Obscure Indie"}}, nil
			}
			return nil, nil
		},
	}
	adapter := NewAdapter(catalog, nil)

	results, err := adapter.Search(context.Background(), "Some: Obscure Indie!", "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 || results[0].ExternalID != "41" {
		t.Fatalf("expected fallback query to match, got %v", results)
	}
	if len(queries) != 2 {
		t.Fatalf("queries = %v", queries)
	}
}

func TestSearchRanksBySimilarity(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query string) ([]Game, error) {
			return []Game{
				{ID: 1, Name: "Celeste Classic"},
				{ID: 2, Name: "Celeste"},
			}, nil
		},
	}
	adapter := NewAdapter(catalog, nil)

	results, err := adapter.Search(context.Background(), "Celeste", "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 2 || results[0].ExternalID != "2" {
		t.Fatalf("expected exact title first, got %v", results)
	}
}

func TestDescriptionMapsCatalogRecord(t *testing.T) {
	catalog := &fakeCatalog{
		byIDFn: func(ctx context.Context, id int64) (*Game, error) {
			if id != 9767 {
				t.Errorf("lookup for %d, want 9767", id)
			}
			return &Game{
				ID:             9767,
				Name:           "Hollow Knight",
				Released:       "2017-02-23",
				DescriptionRaw: "A 2D metroidvania.",
				Rating:         4.4,
				ESRBRating:     &Named{Name: "Everyone 10+"},
				Genres:         []Named{{Name: "Indie"}, {Name: "Platformer"}},
				Developers:     []Named{{Name: "Team Cherry"}},
				Platforms:      []PlatformEntry{{Platform: Named{Name: "PC"}}},
			}, nil
		},
	}
	adapter := NewAdapter(catalog, nil)

	desc, err := adapter.Description(context.Background(), "9767")
	if err != nil {
		t.Fatalf("Description returned error: %v", err)
	}
	if desc == nil {
		t.Fatal("expected description")
	}
	if desc.Description != "A 2D metroidvania." || desc.ReleaseDate != "2017-02-23" {
		t.Fatalf("text mapping wrong: %+v", desc)
	}
	if desc.Rating != 88 {
		t.Fatalf("rating = %v, want community rating rescaled to 88", desc.Rating)
	}
	if desc.AgeRating != "Everyone 10+" {
		t.Fatalf("age rating = %q", desc.AgeRating)
	}
}

func TestDescriptionPrefersMetacritic(t *testing.T) {
	catalog := &fakeCatalog{
		byIDFn: func(ctx context.Context, id int64) (*Game, error) {
			return &Game{ID: 1, Metacritic: 90, Rating: 4.4}, nil
		},
	}
	adapter := NewAdapter(catalog, nil)

	desc, err := adapter.Description(context.Background(), "1")
	if err != nil || desc == nil {
		t.Fatalf("Description failed: %v, %v", desc, err)
	}
	if desc.Rating != 90 {
		t.Fatalf("rating = %v, want metacritic 90", desc.Rating)
	}
}

func TestDescriptionNonNumericIDIsAbsent(t *testing.T) {
	adapter := NewAdapter(&fakeCatalog{}, nil)
	desc, err := adapter.Description(context.Background(), "hollow-knight")
	if err != nil || desc != nil {
		t.Fatalf("expected absent description, got %v, %v", desc, err)
	}
}

func TestArtworkMapsBackgroundsAndScreenshots(t *testing.T) {
	catalog := &fakeCatalog{
		byIDFn: func(ctx context.Context, id int64) (*Game, error) {
			return &Game{
				ID:                        9767,
				BackgroundImage:           "https://rawg.test/bg.jpg",
				BackgroundImageAdditional: "https://rawg.test/bg2.jpg",
			}, nil
		},
		screenshotsFn: func(ctx context.Context, id int64) ([]ScreenshotEntry, error) {
			return []ScreenshotEntry{
				{ID: 1, Image: "https://rawg.test/s1.jpg"},
				{ID: 2, Image: "https://rawg.test/s2.jpg"},
			}, nil
		},
	}
	adapter := NewAdapter(catalog, nil)

	art, err := adapter.Artwork(context.Background(), "9767", "")
	if err != nil {
		t.Fatalf("Artwork returned error: %v", err)
	}
	if art == nil {
		t.Fatal("expected artwork")
	}
	if art.BannerURL != "https://rawg.test/bg.jpg" || art.HeroURL != "https://rawg.test/bg2.jpg" {
		t.Fatalf("background mapping wrong: %+v", art)
	}
	if len(art.Screenshots) != 2 {
		t.Fatalf("screenshots %v", art.Screenshots)
	}
	if art.BoxArtURL != "" {
		t.Fatal("rawg has no box art slot")
	}
}

func TestArtworkSurvivesScreenshotFailure(t *testing.T) {
	catalog := &fakeCatalog{
		byIDFn: func(ctx context.Context, id int64) (*Game, error) {
			return &Game{ID: 1, BackgroundImage: "https://rawg.test/bg.jpg"}, nil
		},
		screenshotsFn: func(ctx context.Context, id int64) ([]ScreenshotEntry, error) {
			return nil, services.Wrap(services.ErrTransient, "rawg", "screenshots", "status 500", nil)
		},
	}
	adapter := NewAdapter(catalog, nil)

	art, err := adapter.Artwork(context.Background(), "1", "")
	if err != nil || art == nil {
		t.Fatalf("expected degraded artwork, got %v, %v", art, err)
	}
	if art.BannerURL == "" || len(art.Screenshots) != 0 {
		t.Fatalf("unexpected artwork %+v", art)
	}
}

func TestAuthFailureDisablesAdapter(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(context.Context, string) ([]Game, error) {
			return nil, services.Wrap(services.ErrAuth, "rawg", "search", "status 401", nil)
		},
	}
	adapter := NewAdapter(catalog, nil)

	if results, err := adapter.Search(context.Background(), "Celeste", ""); err != nil || len(results) != 0 {
		t.Fatalf("first call should degrade to empty, got %v, %v", results, err)
	}
	if adapter.Available() {
		t.Fatal("adapter must be disabled after an auth failure")
	}

	before := catalog.searchCalls
	if results, err := adapter.Search(context.Background(), "Celeste", ""); err != nil || len(results) != 0 {
		t.Fatalf("disabled adapter must return empty, got %v, %v", results, err)
	}
	if catalog.searchCalls != before {
		t.Fatal("disabled adapter attempted network I/O")
	}
}

func TestTransientFailureDoesNotDisable(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(context.Context, string) ([]Game, error) {
			return nil, services.Wrap(services.ErrTransient, "rawg", "search", "status 503", nil)
		},
	}
	adapter := NewAdapter(catalog, nil)

	if results, _ := adapter.Search(context.Background(), "Celeste", ""); len(results) != 0 {
		t.Fatalf("expected empty results, got %v", results)
	}
	if !adapter.Available() {
		t.Fatal("transient failure must not disable the adapter")
	}
}
