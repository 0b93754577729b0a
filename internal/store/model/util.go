package model

import (
	"crypto/rand"
	"encoding/base64"
)

const unlinkCodeBytes = 24

// NewUnlinkCode returns a URL-safe, unpadded token suitable for use as an
// adapter unlink/revocation code.
func NewUnlinkCode() string {
	b := make([]byte, unlinkCodeBytes)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
