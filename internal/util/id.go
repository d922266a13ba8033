package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random 24-character hex string. It is the primary key
// format for saved notes, generated app-side so the note ID is known before
// the insert transaction commits.
func NewID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(b)
}
