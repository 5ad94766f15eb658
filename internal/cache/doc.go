// Package cache provides a file-based cache for review results.
//
// Entries are keyed by a SHA-256 hash of the reviewer fingerprint (every
// option that can change a result) and the reviewed code. Each entry stores
// the result with a creation timestamp and a TTL in seconds. Expired entries
// are dropped on read and counted by GetStats.
//
// The default cache directory is $XDG_CACHE_HOME/pyreview (or the
// OS-appropriate equivalent).
package cache
