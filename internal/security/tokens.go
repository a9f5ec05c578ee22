package security

import (
	"crypto/rand"
	"encoding/base64"
)

// NewResetToken returns an opaque url-safe token for password-reset links.
func NewResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
