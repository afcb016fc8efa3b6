package models

import (
	"time"
)

// Profile is the progressively persisted partial profile. It is
// created the moment the first required step passes validation and
// mutated exactly once per successfully validated step: one field
// write plus the progress advance, applied together or not at all.
type Profile struct {
	ID      string `json:"id" badgerhold:"key"`
	OwnerID string `json:"owner_id,omitempty"`

	// Fields maps step name to its normalized, persisted value.
	// Only steps completed so far have an entry.
	Fields map[string]NormalizedValue `json:"fields"`

	// CurrentStep is the step the profile is waiting on next. Empty
	// once the flow has completed. The stored value, not any caller
	// claim, is the authority for out-of-order detection.
	CurrentStep string `json:"current_step"`

	// CompletedSteps is the ordered set of steps already satisfied.
	CompletedSteps []string `json:"completed_steps"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the step name is already satisfied.
func (p *Profile) Completed(step string) bool {
	for _, s := range p.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Done reports whether the flow has run to completion.
func (p *Profile) Done() bool {
	return p.CurrentStep == ""
}

// ProfileRecord is the second, immutable entity written by the final
// submission path. It is distinct from the progressive Profile and
// never mutates it.
type ProfileRecord struct {
	ID        string                     `json:"id" badgerhold:"key"`
	OwnerID   string                     `json:"owner_id"`
	Fields    map[string]NormalizedValue `json:"fields"`
	CreatedAt time.Time                  `json:"created_at"`
}
