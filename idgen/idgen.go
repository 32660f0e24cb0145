// Package idgen provides ID generation for introveil batches and sessions.
package idgen

import "github.com/google/uuid"

// New returns an RFC 9562 UUIDv7 string. Time-sortable, globally unique.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewSession returns a session identifier in the form "sess_<uuidv7>".
func NewSession() string {
	return "sess_" + New()
}
