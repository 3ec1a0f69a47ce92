// Package steamgriddb adapts the SteamGridDB community asset catalog to the
// metadata source contract.
//
// This is the richest adapter in the engine. When a Steam App ID is supplied
// it performs a direct identifier lookup and returns at most one exact result,
// deliberately skipping fuzzy search so wrong artwork never attaches to the
// wrong game. Fuzzy title search runs an ordered list of match strategies
// until one yields candidates.
//
// The adapter self-disables for its remaining lifetime after one
// authentication failure; transient failures degrade a single call only.
// Recovery requires a new adapter instance with corrected credentials, which
// keeps bad keys from being retried against a rate-limited API.
package steamgriddb
