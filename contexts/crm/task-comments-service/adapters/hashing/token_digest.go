package hashing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SHA256TokenDigester digests refresh tokens. Tokens are long random-bearing
// JWTs, so an unsalted digest is enough and keeps digests comparable for
// compare-and-swap rotation.
type SHA256TokenDigester struct{}

func (SHA256TokenDigester) Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (d SHA256TokenDigester) Matches(token string, digest string) bool {
	if digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(d.Digest(token)), []byte(digest)) == 1
}
