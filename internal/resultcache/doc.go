// Package resultcache stores materialized query results on local disk.
//
// The cache is a flat directory with one Parquet file per entry, named by
// the hex digest of the (source locator, query) pair. Entries are
// committed with a write-to-temp-then-rename discipline so a partially
// written result is never discoverable. There is no eviction and no
// locking: racing writers of the same key are resolved by the atomic
// rename, last writer wins.
package resultcache
