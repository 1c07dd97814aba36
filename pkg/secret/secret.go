// Package secret produces opaque credential strings for activation tokens
// and bearer tokens. Both are treated as bearer secrets and must be
// unguessable, so they always come from crypto/rand.
package secret

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the entropy of a generated token; the encoded string is
// twice as long.
const TokenBytes = 16

// Token returns a random hex-encoded opaque string.
func Token() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
