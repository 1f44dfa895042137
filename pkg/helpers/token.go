package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// GenVerificationToken returns an opaque URL-safe random token of n bytes
// of entropy, used for email verification links.
func GenVerificationToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
