package metadata

import "context"

// Source is the capability contract every metadata source implements.
//
// Search must never return an error for "no results," only for genuine
// transport/protocol failures, which the aggregator catches and substitutes
// with an empty list. Description and Artwork return (nil, nil) when the
// source has no record for the id.
type Source interface {
	// Name returns the stable source name, also used as the SearchResult
	// source tag.
	Name() string
	// Available reports whether the source is configured and has not been
	// disabled.
	Available() bool
	// Search returns candidates for the title. When steamAppID is supplied,
	// sources that can resolve it perform an exact lookup instead of a fuzzy
	// title search.
	Search(ctx context.Context, title, steamAppID string) ([]SearchResult, error)
	// Description fetches descriptive metadata for a source-local id.
	Description(ctx context.Context, id string) (*Description, error)
	// Artwork fetches imagery for a source-local id. steamAppID, when known,
	// lets CDN-backed sources answer without a source-local record.
	Artwork(ctx context.Context, id, steamAppID string) (*Artwork, error)
}

// InstallInfoProvider is the optional capability for sources that know where
// games are installed locally.
type InstallInfoProvider interface {
	InstallInfo(ctx context.Context, id string) (*InstallInfo, error)
}
