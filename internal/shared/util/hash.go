package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashOwnerKey returns a filesystem-safe identifier for an owner such as an email.
// Emails are case-folded so the same mailbox always maps to the same namespace.
func HashOwnerKey(s string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:])
}
