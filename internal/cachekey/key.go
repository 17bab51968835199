// Package cachekey derives the content address for cached query results.
//
// The digest is a pure function of the normalized source locator and the
// exact query text. Queries differing only in whitespace or case hash to
// different entries; that is a documented limitation, not a defect.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
)

// separator keeps (locator, query) pairs unambiguous: without it,
// ("ab", "c") and ("a", "bc") would collide.
const separator = "\x00"

// Derive returns the lowercase hex SHA-256 digest identifying the cache
// entry for the given normalized locator and query text.
func Derive(locator, query string) string {
	h := sha256.New()
	h.Write([]byte(locator))
	h.Write([]byte(separator))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}
