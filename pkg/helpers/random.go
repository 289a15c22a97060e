package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns 2*n hex characters drawn from crypto/rand.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
