// Command gamedex is the CLI for the game metadata aggregation engine. It
// queries the configured sources (Steam storefront, SteamGridDB, RAWG),
// merges their answers into a single metadata record, and caches merged
// records locally.
package main
