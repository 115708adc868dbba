package model

import (
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// IDLength is the length of a result id in hex characters.
const IDLength = 32

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// NewID returns a fresh globally unique result id: 32 lowercase hex
// characters. Ids double as the blob-store key and the metadata primary key
// and are never reused.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// ValidID reports whether s is a well-formed result id. Case-insensitive;
// use NormalizeID before storing or looking up.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// NormalizeID lowercases an id so lookups are case-insensitive.
func NormalizeID(s string) string {
	return strings.ToLower(s)
}
