// Package textutil provides text processing utilities for title matching and
// cache keys.
//
// The primary use cases are:
//   - Creating token-based fingerprints from game titles for comparison
//   - Computing cosine similarity between fingerprints to rank fuzzy matches
//   - Normalizing titles (punctuation and leading-article stripping) for
//     alternate search queries
//   - Sanitizing strings for safe use as cache keys
//
// Fingerprints use term frequency vectors normalized for efficient comparison.
// The tokenization process lowercases text and splits on non-alphanumeric
// characters. Unlike prose tokenizers it keeps short tokens, because game
// titles lean on numerals and roman numerals ("2", "II", "IV").
package textutil
