// internal/utils/crypto.go
package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// HashPassword returns the hex sha256 digest of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// NewUserID derives a short stable identifier for a new account from
// the email and creation instant.
func NewUserID(email string, createdAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%s", email, createdAt.Format(time.RFC3339Nano))))
	return hex.EncodeToString(sum[:])[:12]
}

// UserFileHash returns the 8-char filename hash for a user's response
// document. Existing data files depend on this exact derivation.
func UserFileHash(userID string) string {
	sum := md5.Sum([]byte(userID))
	return hex.EncodeToString(sum[:])[:8]
}
