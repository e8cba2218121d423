// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// HashSecret returns the lowercase hex SHA-256 digest of a secret.
// Deterministic: re-hashing the same secret always yields the same
// digest, which is what verification relies on.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// VerifySecret recomputes the digest of the presented secret and
// compares it against the stored one. hmac.Equal avoids the trivial
// short-circuit leak of a plain string compare; this is best-effort,
// not a strict timing-safe guarantee.
func VerifySecret(secret, digest string) bool {
	return hmac.Equal([]byte(HashSecret(secret)), []byte(digest))
}

// GenerateAdminKey creates a random 32-character hex admin secret.
// It is returned to the event creator exactly once; only its hash is
// ever stored.
func GenerateAdminKey() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate admin key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

const shareIDLength = 10

// GenerateShareID creates a short base62 identifier for the public
// share URL. Uniqueness is enforced by the events.share_id constraint,
// not here.
func GenerateShareID() (string, error) {
	const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	b := make([]byte, shareIDLength)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate share id: %w", err)
	}

	out := make([]byte, shareIDLength)
	for i, c := range b {
		out[i] = base62Chars[int(c)%len(base62Chars)]
	}
	return string(out), nil
}

// NewToken creates an opaque identifier for rows and session tokens.
func NewToken() string {
	return uuid.NewString()
}
