package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StripPunctuation removes every rune that is not a letter, digit, or space,
// collapsing runs of whitespace to a single space. Used to build alternate
// search queries for titles like "S.T.A.L.K.E.R." or "Hollow Knight: Silksong".
func StripPunctuation(title string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == ':' || r == '.':
			if !prevSpace && b.Len() > 0 {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// StripLeadingArticle removes a leading "The", "A", or "An" from the title.
// Returns the title unchanged when no article is present or when the article
// is the whole title.
func StripLeadingArticle(title string) string {
	trimmed := strings.TrimSpace(title)
	for _, article := range []string{"the ", "a ", "an "} {
		if len(trimmed) > len(article) && strings.HasPrefix(strings.ToLower(trimmed), article) {
			return strings.TrimSpace(trimmed[len(article):])
		}
	}
	return trimmed
}

// DisplayTitle renders a cleaned title in title case for presentation.
func DisplayTitle(title string) string {
	cleaned := StripPunctuation(title)
	if cleaned == "" {
		return ""
	}
	return cases.Title(language.Und).String(cleaned)
}
