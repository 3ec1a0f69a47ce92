package metadata

import "sort"

// ArtworkCandidate pairs fetched artwork with the source that produced it.
type ArtworkCandidate struct {
	Source  string
	Artwork *Artwork
}

// imageryPriority ranks sources for image slots: storefront CDN beats the
// community asset site, which beats the general catalog. Resolution only
// breaks ties within the same tier.
func imageryPriority(source string) int {
	switch Kind(source) {
	case KindSteam:
		return 3
	case KindSteamGridDB:
		return 2
	case KindRAWG:
		return 1
	default:
		return 0
	}
}

type imageCandidate struct {
	url      string
	res      Resolution
	priority int
}

func pickImage(candidates []imageCandidate) (string, Resolution) {
	if len(candidates) == 0 {
		return "", Resolution{}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return candidates[i].res.Area() > candidates[j].res.Area()
	})
	return candidates[0].url, candidates[0].res
}

// MergeArtwork reduces per-source artwork into one record. Each image slot is
// resolved independently: non-empty values are sorted by source priority then
// resolution area, and the first wins. Screenshots are the exception: they are
// unioned across sources, deduplicated by URL, with the highest-priority
// source's screenshots first.
func MergeArtwork(candidates []ArtworkCandidate) Artwork {
	type slot struct {
		url func(*Artwork) string
		res func(*Artwork) Resolution
		set func(*Artwork, string, Resolution)
	}
	slots := []slot{
		{
			url: func(a *Artwork) string { return a.BoxArtURL },
			res: func(a *Artwork) Resolution { return a.BoxArtRes },
			set: func(a *Artwork, u string, r Resolution) { a.BoxArtURL, a.BoxArtRes = u, r },
		},
		{
			url: func(a *Artwork) string { return a.BannerURL },
			res: func(a *Artwork) Resolution { return a.BannerRes },
			set: func(a *Artwork, u string, r Resolution) { a.BannerURL, a.BannerRes = u, r },
		},
		{
			url: func(a *Artwork) string { return a.LogoURL },
			res: func(a *Artwork) Resolution { return a.LogoRes },
			set: func(a *Artwork, u string, r Resolution) { a.LogoURL, a.LogoRes = u, r },
		},
		{
			url: func(a *Artwork) string { return a.HeroURL },
			res: func(a *Artwork) Resolution { return a.HeroRes },
			set: func(a *Artwork, u string, r Resolution) { a.HeroURL, a.HeroRes = u, r },
		},
		{
			url: func(a *Artwork) string { return a.IconURL },
			res: func(a *Artwork) Resolution { return a.IconRes },
			set: func(a *Artwork, u string, r Resolution) { a.IconURL, a.IconRes = u, r },
		},
	}

	var merged Artwork
	for _, s := range slots {
		var pool []imageCandidate
		for _, c := range candidates {
			if c.Artwork == nil {
				continue
			}
			url := s.url(c.Artwork)
			if url == "" {
				continue
			}
			pool = append(pool, imageCandidate{
				url:      url,
				res:      s.res(c.Artwork),
				priority: imageryPriority(c.Source),
			})
		}
		if url, res := pickImage(pool); url != "" {
			s.set(&merged, url, res)
		}
	}

	merged.Screenshots = unionScreenshots(candidates)
	return merged
}

func unionScreenshots(candidates []ArtworkCandidate) []string {
	ordered := make([]ArtworkCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return imageryPriority(ordered[i].Source) > imageryPriority(ordered[j].Source)
	})

	var union []string
	seen := make(map[string]struct{})
	for _, c := range ordered {
		if c.Artwork == nil {
			continue
		}
		for _, url := range c.Artwork.Screenshots {
			if url == "" {
				continue
			}
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			union = append(union, url)
		}
	}
	return union
}

// MergeDescriptions takes the first non-nil description in call order and uses
// it wholesale. Sub-fields are never mixed across sources: a missing rating in
// the winning description stays missing even when a later source has one.
func MergeDescriptions(ordered []*Description) *Description {
	for _, d := range ordered {
		if d != nil {
			return d
		}
	}
	return nil
}

// MergeInstallInfo takes the first non-nil install info. Only one source
// carries install data in this design, so this degenerates to "use it if
// present."
func MergeInstallInfo(ordered []*InstallInfo) *InstallInfo {
	for _, info := range ordered {
		if info != nil {
			return info
		}
	}
	return nil
}
