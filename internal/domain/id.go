package domain

import "github.com/google/uuid"

// ValidID reports whether id is a well-formed row id. Postgres rejects a
// malformed uuid with a cast error rather than an empty result, so lookups
// screen ids first and treat bad ones as absent.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
