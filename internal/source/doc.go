// Package source resolves a user-supplied data locator into the request
// the query executor consumes.
//
// A locator is either a local file, a local folder, or a remote URI
// (s3://, gs://, http://, https://). Local paths are normalized to
// absolute form so the same file always derives the same cache key no
// matter where qv is invoked from. Folder sources must carry an explicit
// file format; that check happens here, before any engine or network
// access.
package source
