package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newFakeStore serves just enough of the storefront API for CLI tests.
func newFakeStore(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/storesearch/":
			if strings.Contains(r.URL.Query().Get("term"), "Hollow") {
				fmt.Fprint(w, `{"total":1,"items":[{"id":367520,"type":"app","name":"Hollow Knight"}]}`)
				return
			}
			fmt.Fprint(w, `{"total":0,"items":[]}`)
		case "/api/appdetails":
			if r.URL.Query().Get("appids") == "367520" {
				fmt.Fprint(w, `{"367520":{"success":true,"data":{"name":"Hollow Knight","steam_appid":367520,"short_description":"Forge your own path.","required_age":0}}}`)
				return
			}
			fmt.Fprintf(w, `{%q:{"success":false}}`, r.URL.Query().Get("appids"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func steamSection(server *httptest.Server) string {
	return fmt.Sprintf(`
[steam]
base_url = %q
cdn_base_url = %q
`, server.URL, server.URL)
}

func TestSearchCommandFindsStoreResult(t *testing.T) {
	server := newFakeStore(t)
	env := setupCLITestEnv(t, steamSection(server))

	out, _, err := runCLI(t, env.configPath, "search", "Hollow", "Knight")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "steam-367520")
	requireContains(t, out, "Hollow Knight")
}

func TestSearchCommandJSONOutput(t *testing.T) {
	server := newFakeStore(t)
	env := setupCLITestEnv(t, steamSection(server))

	out, _, err := runCLI(t, env.configPath, "search", "Hollow Knight", "--json")
	if err != nil {
		t.Fatalf("search --json: %v", err)
	}
	requireContains(t, out, `"id": "steam-367520"`)
	requireContains(t, out, `"steam_app_id": "367520"`)
}

func TestSearchCommandExactAppIDLookup(t *testing.T) {
	server := newFakeStore(t)
	env := setupCLITestEnv(t, steamSection(server))

	out, _, err := runCLI(t, env.configPath, "search", "Hollow Knight", "--appid", "367520", "--json")
	if err != nil {
		t.Fatalf("search --appid: %v", err)
	}
	requireContains(t, out, `"external_id": "367520"`)
}

func TestSearchCommandNoResults(t *testing.T) {
	server := newFakeStore(t)
	env := setupCLITestEnv(t, steamSection(server))

	out, _, err := runCLI(t, env.configPath, "search", "Unknown Game")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "No results found.")
}

func TestArtworkCommandMergesStoreData(t *testing.T) {
	server := newFakeStore(t)
	env := setupCLITestEnv(t, steamSection(server))

	out, _, err := runCLI(t, env.configPath, "artwork", "Hollow Knight", "--appid", "367520", "--json")
	if err != nil {
		t.Fatalf("artwork: %v", err)
	}
	requireContains(t, out, "/steam/apps/367520/library_600x900_2x.jpg")
	requireContains(t, out, "Forge your own path.")
	// A missing hero-only banner falls back along the imagery chain, so the
	// banner slot is never empty while other imagery exists.
	requireContains(t, out, `"banner_url"`)
}

func TestArtworkCommandHeadsTableWithDisplayTitle(t *testing.T) {
	server := newFakeStore(t)
	env := setupCLITestEnv(t, steamSection(server))

	out, _, err := runCLI(t, env.configPath, "artwork", "hollow knight", "--appid", "367520")
	if err != nil {
		t.Fatalf("artwork: %v", err)
	}
	// The heading renders the raw query in title case.
	requireContains(t, out, "Hollow Knight")
	requireContains(t, out, "FIELD")
}

func TestArtworkCommandCachesMergedRecord(t *testing.T) {
	server := newFakeStore(t)
	env := setupCLITestEnv(t, steamSection(server))

	if _, _, err := runCLI(t, env.configPath, "artwork", "Hollow Knight", "--appid", "367520", "--json"); err != nil {
		t.Fatalf("first artwork run: %v", err)
	}

	// The second run is served from the cache even with the store gone.
	server.Close()
	out, _, err := runCLI(t, env.configPath, "artwork", "Hollow Knight", "--appid", "367520", "--json")
	if err != nil {
		t.Fatalf("cached artwork run: %v", err)
	}
	requireContains(t, out, "/steam/apps/367520/library_600x900_2x.jpg")
}
