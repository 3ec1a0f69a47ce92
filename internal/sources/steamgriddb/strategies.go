package steamgriddb

import (
	"context"
	"sort"
	"strings"

	"gamedex/internal/logging"
	"gamedex/internal/textutil"
)

// searchStrategy is one entry in the ordered fuzzy-match chain. Strategies run
// in sequence until one yields a non-empty result.
type searchStrategy struct {
	name      string
	transform func(string) string
}

var searchStrategies = []searchStrategy{
	{name: "verbatim", transform: strings.TrimSpace},
	{name: "no-punctuation", transform: textutil.StripPunctuation},
	{name: "no-article", transform: func(title string) string {
		return textutil.StripLeadingArticle(textutil.StripPunctuation(title))
	}},
}

// fuzzySearch walks the match strategies in order and ranks the first
// non-empty result set by title similarity against the original query.
func (a *Adapter) fuzzySearch(ctx context.Context, title string) []Game {
	logger := logging.WithContext(ctx, a.logger)
	tried := make(map[string]struct{}, len(searchStrategies))

	for _, strategy := range searchStrategies {
		if !a.Available() {
			return nil
		}
		query := strategy.transform(title)
		if query == "" {
			continue
		}
		if _, ok := tried[query]; ok {
			continue
		}
		tried[query] = struct{}{}

		games, err := a.client.SearchByName(ctx, query)
		if err != nil {
			a.handleError(ctx, "search", err)
			return nil
		}
		if len(games) == 0 {
			continue
		}
		if strategy.name != "verbatim" {
			logger.Debug("fuzzy search matched with fallback strategy",
				logging.String("strategy", strategy.name),
				logging.String("query", query))
		}
		return rankBySimilarity(games, title)
	}
	return nil
}

// rankBySimilarity orders candidates by fingerprint similarity to the query,
// preserving the catalog's order among equals.
func rankBySimilarity(games []Game, title string) []Game {
	ranked := make([]Game, len(games))
	copy(ranked, games)
	sort.SliceStable(ranked, func(i, j int) bool {
		return textutil.TitleSimilarity(title, ranked[i].Name) > textutil.TitleSimilarity(title, ranked[j].Name)
	})
	return ranked
}
