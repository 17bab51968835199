// Package engine executes SQL against a data source through an in-process
// DuckDB database and materializes the full result set as Parquet.
//
// The source is registered as a view named "table" (quoted; TABLE is a
// DuckDB keyword) using the reader function matching its format, so the
// default query SELECT * FROM "table" works for any source. Remote
// sources go through DuckDB's httpfs extension; s3:// credentials are
// resolved with the AWS SDK default chain and injected as a DuckDB
// secret. Predicate pushdown, format parsing, and transport are all the
// engine's responsibility, not this package's.
package engine
