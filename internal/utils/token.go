package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// RandomToken returns a URL-safe base64 string from byteLength bytes
// of a cryptographically secure source. 32 bytes gives 256 bits of
// entropy, plenty for single-use emailed tokens.
func RandomToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken computes the hex-encoded SHA-256 digest of the raw token
// concatenated with the server-held pepper. Only the digest is stored,
// so a database leak alone cannot be used to forge valid tokens.
func HashToken(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}

// TimingSafeEqualHex compares two hex digests in constant time.
// A length mismatch returns false immediately, which is fine because
// hash outputs have fixed length.
func TimingSafeEqualHex(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
