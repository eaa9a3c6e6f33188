package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomUsername returns a unique username with the given prefix.
func RandomUsername(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, randomHex(4))
}

// RandomEmail returns a unique email address for contact submissions.
func RandomEmail() string {
	return fmt.Sprintf("visitor-%s@example.com", randomHex(4))
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
