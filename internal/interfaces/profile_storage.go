package interfaces

import (
	"context"

	"github.com/ternarybob/rogo/internal/models"
)

// ProfileAdvance carries the single atomic unit applied by Advance:
// one field write plus the three progress fields.
type ProfileAdvance struct {
	FieldName      string
	Value          models.NormalizedValue
	ExpectedStep   string // stored CurrentStep the write is conditioned on
	NextStep       string // empty when the flow just completed
	CompletedSteps []string
}

// ProfileStorage - progressive persistence of partial profiles
type ProfileStorage interface {
	// CreateOnFirstStep creates a new profile after the first required
	// step passed validation. No profile exists before that moment.
	CreateOnFirstStep(ctx context.Context, profile *models.Profile) error

	// Advance applies the field write and progress advance as one
	// conditional unit keyed on the stored CurrentStep. Unknown field
	// names are silently dropped; the progress advance still applies.
	// Returns ErrNotFound when the id does not resolve and ErrStaleStep
	// when the stored CurrentStep no longer matches adv.ExpectedStep.
	Advance(ctx context.Context, profileID string, adv ProfileAdvance) (*models.Profile, error)

	// GetProfile returns the profile or ErrNotFound.
	GetProfile(ctx context.Context, profileID string) (*models.Profile, error)

	CountProfiles(ctx context.Context) (int, error)
}

// RecordStorage - immutable final-submission records
type RecordStorage interface {
	// CreateRecord writes a complete, immutable record. Records are
	// never updated or deleted by this service.
	CreateRecord(ctx context.Context, record *models.ProfileRecord) error

	GetRecord(ctx context.Context, recordID string) (*models.ProfileRecord, error)
	CountRecords(ctx context.Context) (int, error)
}

// StorageManager provides access to all storage implementations
type StorageManager interface {
	ProfileStorage() ProfileStorage
	RecordStorage() RecordStorage
	Close() error
}
