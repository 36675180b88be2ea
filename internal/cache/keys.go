package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key joins the provider, operation and parameters into a cache key,
// e.g. Key("tmdb", "detail", "movie", "603") == "tmdb:detail:movie:603".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// HashQuery digests free text so it can be embedded in a key. The text is
// hashed as given: "Matrix" and "matrix" are different keys.
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}
