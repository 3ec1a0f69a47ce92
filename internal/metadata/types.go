package metadata

import "fmt"

// Kind identifies a source slot in the aggregator registry.
type Kind string

const (
	// KindSteam is the storefront: CDN artwork, store descriptions, install info.
	KindSteam Kind = "steam"
	// KindSteamGridDB is the community asset catalog: curated artwork.
	KindSteamGridDB Kind = "steamgriddb"
	// KindRAWG is the general game catalog: descriptions and fallback imagery.
	KindRAWG Kind = "rawg"
)

// SearchResult is one candidate returned by a source's search operation.
// Results are ephemeral: the same underlying game may appear once per source
// and is never coalesced into a single identity by the engine.
type SearchResult struct {
	// ID is source-qualified ("<source>-<externalID>") and unique only in
	// combination with Source.
	ID         string `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	ExternalID string `json:"external_id,omitempty"`
	// SteamAppID is set when the source knows the storefront identifier for
	// this candidate, enabling cross-source propagation.
	SteamAppID string `json:"steam_app_id,omitempty"`
}

// ResultID builds the source-qualified identifier for a search result.
func ResultID(source, externalID string) string {
	return fmt.Sprintf("%s-%s", source, externalID)
}

// Description holds descriptive metadata from one source. Zero values mean
// "source has no opinion," not "empty value."
type Description struct {
	Description string   `json:"description,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Developers  []string `json:"developers,omitempty"`
	Publishers  []string `json:"publishers,omitempty"`
	AgeRating   string   `json:"age_rating,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// Resolution records image dimensions. Informational only: it breaks ties
// within a priority tier and must never override source priority.
type Resolution struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Area returns the pixel area used for tie-breaking.
func (r Resolution) Area() int {
	return r.Width * r.Height
}

// Artwork holds the image URLs one source offers for a game, with a parallel
// resolution per slot.
type Artwork struct {
	BoxArtURL   string     `json:"box_art_url,omitempty"`
	BoxArtRes   Resolution `json:"box_art_res,omitempty"`
	BannerURL   string     `json:"banner_url,omitempty"`
	BannerRes   Resolution `json:"banner_res,omitempty"`
	LogoURL     string     `json:"logo_url,omitempty"`
	LogoRes     Resolution `json:"logo_res,omitempty"`
	HeroURL     string     `json:"hero_url,omitempty"`
	HeroRes     Resolution `json:"hero_res,omitempty"`
	IconURL     string     `json:"icon_url,omitempty"`
	IconRes     Resolution `json:"icon_res,omitempty"`
	Screenshots []string   `json:"screenshots,omitempty"`
}

// InstallInfo describes a local installation of a game.
type InstallInfo struct {
	InstallPath    string `json:"install_path,omitempty"`
	InstallSize    int64  `json:"install_size,omitempty"`
	ExecutablePath string `json:"executable_path,omitempty"`
	Platform       string `json:"platform,omitempty"`
}

// AggregatedMetadata is the merged output record: one Artwork, one
// Description, and one InstallInfo flattened together. An all-empty value
// means "nothing found" and is not an error.
type AggregatedMetadata struct {
	BoxArtURL   string   `json:"box_art_url,omitempty"`
	BannerURL   string   `json:"banner_url,omitempty"`
	LogoURL     string   `json:"logo_url,omitempty"`
	HeroURL     string   `json:"hero_url,omitempty"`
	IconURL     string   `json:"icon_url,omitempty"`
	Screenshots []string `json:"screenshots,omitempty"`

	Description string   `json:"description,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Developers  []string `json:"developers,omitempty"`
	Publishers  []string `json:"publishers,omitempty"`
	AgeRating   string   `json:"age_rating,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Categories  []string `json:"categories,omitempty"`

	InstallPath    string `json:"install_path,omitempty"`
	InstallSize    int64  `json:"install_size,omitempty"`
	ExecutablePath string `json:"executable_path,omitempty"`
	Platform       string `json:"platform,omitempty"`
}

// Empty reports whether the record carries no data at all.
func (m AggregatedMetadata) Empty() bool {
	return m.BoxArtURL == "" && m.BannerURL == "" && m.LogoURL == "" &&
		m.HeroURL == "" && m.IconURL == "" && len(m.Screenshots) == 0 &&
		m.Description == "" && m.Summary == "" && m.ReleaseDate == "" &&
		len(m.Genres) == 0 && len(m.Developers) == 0 && len(m.Publishers) == 0 &&
		m.AgeRating == "" && m.Rating == 0 && len(m.Platforms) == 0 &&
		len(m.Categories) == 0 && m.InstallPath == "" && m.InstallSize == 0 &&
		m.ExecutablePath == "" && m.Platform == ""
}
