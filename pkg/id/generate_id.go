// Package id mints the opaque public identifiers the API exposes. Database
// serial ids never leave the service; every loan, payment, and reminder
// carries one of these instead.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 draws 16 random bytes and returns them as 32 lowercase hex
// characters.
func NewID32() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
