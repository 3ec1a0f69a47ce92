// Package metacache persists aggregated metadata records in a local SQLite
// database so repeated lookups for the same title skip the network. Entries
// carry their fetch time; staleness is a caller policy, applied at read time
// against the configured TTL. A file lock next to the database keeps
// concurrent gamedex processes from initializing it simultaneously.
package metacache
