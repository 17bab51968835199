// Package history keeps a local SQLite log of qv invocations.
//
// One row is recorded per view run: the normalized source locator, the
// query text, the derived digest, whether the cache was hit, and the
// execution duration. The log is purely informational; failures here are
// logged as warnings by callers and never abort the main flow.
package history
