package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// GenerateKey returns a deterministic key for an HTTP request.
// The method and path are normalized and query parameters are sorted, so
// "?page=2&diet_type=keto" and "?diet_type=keto&page=2" share an entry.
func GenerateKey(method, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(strings.TrimSpace(method)))
	b.WriteByte(' ')
	b.WriteString(strings.TrimRight(strings.TrimSpace(path), "/"))
	b.WriteByte('?')
	// url.Values.Encode sorts by key.
	b.WriteString(query.Encode())

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
