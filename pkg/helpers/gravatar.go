package helpers

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarURL derives the default avatar URL for an email address.
// New accounts start with this until they upload their own image.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=250&d=identicon"
}
