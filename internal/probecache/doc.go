// Package probecache persists video metadata probes in SQLite.
//
// Scheduling a long experiment touches the same stimulus videos repeatedly;
// the cache keys each probe by (path, size, mtime) so a re-encoded or
// replaced file invalidates itself. A cache opened without a path degrades to
// a no-op, which keeps wiring code free of nil checks.
package probecache
