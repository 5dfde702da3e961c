package domain

import (
	"crypto/rand"
	"strings"

	"github.com/mr-tron/base58"
)

// NormalizeId canonicalizes an identifier read from a document so it can be
// compared by value against ids parsed from event payloads.
func NormalizeId(id string) string {
	return strings.TrimSpace(id)
}

// NewRecordId returns a compact random identifier for feed records.
func NewRecordId() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return base58.Encode(b[:])
}
