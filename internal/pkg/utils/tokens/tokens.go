package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ParseAPIKey strips the configured key prefix (e.g. "cf_") and reports
// whether the raw token followed the scheme at all.
func ParseAPIKey(raw, prefix string) (secret string, ok bool) {
	if prefix == "" || !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	return strings.TrimPrefix(raw, prefix), true
}

// HMAC256Hex derives the deterministic lookup digest stored next to the
// argon2 hash. 64 hex chars.
func HMAC256Hex(pepper, secret string) string {
	m := hmac.New(sha256.New, []byte(pepper))
	m.Write([]byte(secret))
	return hex.EncodeToString(m.Sum(nil))
}
