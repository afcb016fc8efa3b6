package common

import (
	"github.com/google/uuid"
)

// NewProfileID generates a unique profile ID with the "prf_" prefix
// Format: prf_<uuid>
func NewProfileID() string {
	return "prf_" + uuid.New().String()
}

// NewRecordID generates a unique final-record ID with the "rec_" prefix
// Format: rec_<uuid>
func NewRecordID() string {
	return "rec_" + uuid.New().String()
}
