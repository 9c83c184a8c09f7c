package common

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n random bytes hex-encoded, so the result is 2n chars.
// Refresh tokens are built from it.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomBytes returns n random bytes and panics if the system source fails.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// Wipe zeroes secret material such as a password read from the terminal.
func Wipe(b []byte) {
	clear(b)
}
