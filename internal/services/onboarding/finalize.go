package onboarding

import (
	"context"
	"errors"

	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/services/validation"
)

// FinalizeResponse reports the outcome of the final submission. The
// message stays generic on rejection; which field failed is logged, not
// surfaced.
type FinalizeResponse struct {
	Accepted bool   `json:"accepted"`
	RecordID string `json:"record_id,omitempty"`
	Message  string `json:"message"`
}

// Finalize runs the final submission: every required field is checked
// against the stored profile and an immutable record is written only
// when all of them hold. The progressive profile itself is never
// mutated by this path.
func (o *Orchestrator) Finalize(ctx context.Context, profileID string) (*FinalizeResponse, error) {
	if profileID == "" {
		return &FinalizeResponse{
			Accepted: false,
			Message:  "We couldn't find your profile. Please start over or check your link.",
		}, nil
	}

	profile, err := o.profiles.GetProfile(ctx, profileID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return &FinalizeResponse{
			Accepted: false,
			Message:  "We couldn't find your profile. Please start over or check your link.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if !profile.Done() {
		o.logger.Debug().
			Str("profile_id", profileID).
			Str("current_step", profile.CurrentStep).
			Msg("Finalize rejected: flow not complete")
		return &FinalizeResponse{
			Accepted: false,
			Message:  "Your profile isn't quite finished yet. Let's complete the remaining questions first.",
		}, nil
	}

	// Every required field runs back through the full pipeline against
	// the current rules. A stored value that would no longer validate
	// blocks the record, whatever path wrote it.
	for _, name := range o.catalog.RequiredNames() {
		value, ok := profile.Fields[name]
		if !ok || value.IsEmpty() {
			o.logger.Warn().
				Str("profile_id", profileID).
				Str("field", name).
				Msg("Finalize rejected: required field missing")
			return &FinalizeResponse{
				Accepted: false,
				Message:  "Something in your profile needs another look before we can submit it. Please review your answers.",
			}, nil
		}

		def, _ := o.catalog.ByName(name)
		input := &validation.Input{
			StepName: name,
			Answer:   answerFromValue(value),
			Modality: modalityFromValue(value),
		}
		if def.Mode == models.ModeDynamicCatalog {
			snap, err := o.snapshot.Snapshot(ctx, name)
			if err != nil {
				o.logger.Warn().Err(err).
					Str("profile_id", profileID).
					Str("field", name).
					Msg("Finalize rejected: catalog snapshot unavailable")
				return &FinalizeResponse{
					Accepted: false,
					Message:  "We couldn't verify your profile just now. Please try again in a moment.",
				}, nil
			}
			input.Snapshot = snap
		}

		if outcome := o.pipeline.Validate(ctx, input); !outcome.IsValid() {
			o.logger.Warn().
				Str("profile_id", profileID).
				Str("field", name).
				Str("reason", string(outcome.Reason())).
				Msg("Finalize rejected: stored field failed re-validation")
			return &FinalizeResponse{
				Accepted: false,
				Message:  "Something in your profile needs another look before we can submit it. Please review your answers.",
			}, nil
		}
	}

	fields := make(map[string]models.NormalizedValue, len(profile.Fields))
	for name, value := range profile.Fields {
		fields[name] = value
	}

	record := &models.ProfileRecord{
		ID:      common.NewRecordID(),
		OwnerID: profile.ID,
		Fields:  fields,
	}
	if err := o.records.CreateRecord(ctx, record); err != nil {
		return nil, err
	}

	o.logger.Info().
		Str("profile_id", profileID).
		Str("record_id", record.ID).
		Msg("Final submission recorded")

	return &FinalizeResponse{
		Accepted: true,
		RecordID: record.ID,
		Message:  "All set! Your profile has been submitted.",
	}, nil
}

// answerFromValue reconstructs a raw answer from a stored value so the
// pipeline can re-validate it. Catalog entries go back in by ID, which
// the resolver matches exactly.
func answerFromValue(v models.NormalizedValue) models.RawAnswer {
	switch {
	case len(v.Entries) > 0:
		ids := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			ids[i] = e.ID
		}
		return models.ListAnswer(ids)
	case len(v.List) > 0:
		return models.ListAnswer(v.List)
	default:
		return models.TextAnswer(v.Text)
	}
}

// modalityFromValue mirrors how the stored value was shaped: lists and
// entries re-enter as selections, scalars as text.
func modalityFromValue(v models.NormalizedValue) models.InputModality {
	if len(v.Entries) > 0 || len(v.List) > 0 {
		return models.ModalitySelection
	}
	return models.ModalityText
}
