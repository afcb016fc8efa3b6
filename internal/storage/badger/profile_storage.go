package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ProfileStorage implements the ProfileStorage interface for Badger.
// Field writes are filtered against the known field names; an unknown
// name is dropped at this boundary, never stored.
type ProfileStorage struct {
	db         *BadgerDB
	logger     arbor.ILogger
	fieldNames map[string]bool
}

// NewProfileStorage creates a new ProfileStorage instance. fieldNames
// is the closed set of storable field names.
func NewProfileStorage(db *BadgerDB, logger arbor.ILogger, fieldNames []string) interfaces.ProfileStorage {
	known := make(map[string]bool, len(fieldNames))
	for _, name := range fieldNames {
		known[name] = true
	}
	return &ProfileStorage{
		db:         db,
		logger:     logger,
		fieldNames: known,
	}
}

// CreateOnFirstStep inserts a brand-new profile. Insert, not upsert:
// a colliding id is a programming error, not a state to merge into.
func (s *ProfileStorage) CreateOnFirstStep(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile ID is required")
	}

	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	for name := range profile.Fields {
		if !s.fieldNames[name] {
			s.logger.Warn().
				Str("profile_id", profile.ID).
				Str("field", name).
				Msg("Dropping unknown field name")
			delete(profile.Fields, name)
		}
	}

	if err := s.db.Store().Insert(profile.ID, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Debug().
		Str("profile_id", profile.ID).
		Str("current_step", profile.CurrentStep).
		Msg("Profile created")
	return nil
}

// Advance applies one field write plus the progress advance as a single
// conditional update inside one transaction. The update matches only
// while the stored CurrentStep still equals adv.ExpectedStep, so two
// racing submissions for the same step cannot both land.
func (s *ProfileStorage) Advance(ctx context.Context, profileID string, adv interfaces.ProfileAdvance) (*models.Profile, error) {
	if adv.FieldName != "" && !s.fieldNames[adv.FieldName] {
		s.logger.Warn().
			Str("profile_id", profileID).
			Str("field", adv.FieldName).
			Msg("Dropping unknown field name")
		adv.FieldName = ""
		adv.Value = models.NormalizedValue{}
	}

	var updated *models.Profile

	query := badgerhold.Where(badgerhold.Key).Eq(profileID).
		And("CurrentStep").Eq(adv.ExpectedStep)

	err := s.db.Store().UpdateMatching(&models.Profile{}, query, func(record interface{}) error {
		profile, ok := record.(*models.Profile)
		if !ok {
			return fmt.Errorf("unexpected record type %T", record)
		}

		if profile.Fields == nil {
			profile.Fields = make(map[string]models.NormalizedValue)
		}
		if adv.FieldName != "" {
			profile.Fields[adv.FieldName] = adv.Value
		}
		profile.CurrentStep = adv.NextStep
		profile.CompletedSteps = adv.CompletedSteps
		profile.UpdatedAt = time.Now().UTC()

		copied := *profile
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to advance profile: %w", err)
	}

	if updated == nil {
		// Nothing matched: the profile is missing or the stored step
		// moved on since the caller read it.
		if _, err := s.GetProfile(ctx, profileID); err != nil {
			return nil, err
		}
		return nil, interfaces.ErrStaleStep
	}

	s.logger.Debug().
		Str("profile_id", profileID).
		Str("field", adv.FieldName).
		Str("next_step", adv.NextStep).
		Msg("Profile advanced")
	return updated, nil
}

// GetProfile retrieves a profile by ID
func (s *ProfileStorage) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Store().Get(profileID, &profile); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// CountProfiles returns the total number of profiles
func (s *ProfileStorage) CountProfiles(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Profile{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return int(count), nil
}
