// -----------------------------------------------------------------------
// Package onboarding drives the conversational intake flow: it owns the
// submit-step sequence (resolve expected step, fetch catalog, validate,
// persist, compose) and the final-submission path. All collaborators
// arrive through constructor injection.
// -----------------------------------------------------------------------

package onboarding

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/services/messages"
	"github.com/ternarybob/rogo/internal/services/steps"
	"github.com/ternarybob/rogo/internal/services/validation"
)

// SubmitRequest is one answer submission from the conversation.
type SubmitRequest struct {
	ProfileID  string               `json:"profile_id,omitempty"`
	OwnerID    string               `json:"owner_id,omitempty"`
	StepName   string               `json:"step_name"`
	Answer     models.RawAnswer     `json:"answer"`
	Modality   models.InputModality `json:"modality,omitempty"`
	RetryCount int                  `json:"retry_count,omitempty"`
}

// SubmitResponse tells the conversation what happened and what to ask
// next. Message is always populated; reason codes never leak into it.
// On acceptance NormalizedAnswer carries the value as persisted; on
// rejection NextStep and NextPrompt name the question to re-ask.
type SubmitResponse struct {
	ProfileID        string             `json:"profile_id,omitempty"`
	Accepted         bool               `json:"accepted"`
	Message          string             `json:"message"`
	NormalizedAnswer interface{}        `json:"normalized_answer,omitempty"`
	NextStep         string             `json:"next_step,omitempty"`
	NextPrompt       *models.StepPrompt `json:"next_prompt,omitempty"`
	IsLastStep       bool               `json:"is_last_step"`
	Completed        bool               `json:"completed"`
}

// StartResponse opens the conversation: the composed welcome message
// and the first step's prompt payload.
type StartResponse struct {
	Message string            `json:"message"`
	Step    models.StepPrompt `json:"step"`
}

// Orchestrator sequences one submission at a time through validation,
// persistence and message composition.
type Orchestrator struct {
	catalog  *steps.Catalog
	pipeline *validation.Pipeline
	composer *messages.Composer
	snapshot interfaces.CatalogProvider
	profiles interfaces.ProfileStorage
	records  interfaces.RecordStorage
	cfg      *common.OnboardConfig
	logger   arbor.ILogger
}

// NewOrchestrator wires the flow engine from its collaborators.
func NewOrchestrator(
	catalog *steps.Catalog,
	pipeline *validation.Pipeline,
	composer *messages.Composer,
	snapshot interfaces.CatalogProvider,
	storage interfaces.StorageManager,
	cfg *common.OnboardConfig,
	logger arbor.ILogger,
) *Orchestrator {
	return &Orchestrator{
		catalog:  catalog,
		pipeline: pipeline,
		composer: composer,
		snapshot: snapshot,
		profiles: storage.ProfileStorage(),
		records:  storage.RecordStorage(),
		cfg:      cfg,
		logger:   logger,
	}
}

// Start opens the flow: the welcome message runs through the composer
// like every other conversational message, with the first question as
// the deterministic fallback. No profile exists until the first step
// validates.
func (o *Orchestrator) Start(ctx context.Context) *StartResponse {
	first := o.catalog.First()
	return &StartResponse{
		Message: o.composer.Opening(ctx, first),
		Step:    first.Prompt(),
	}
}

// Progress returns the stored profile for progress reporting.
func (o *Orchestrator) Progress(ctx context.Context, profileID string) (*models.Profile, error) {
	return o.profiles.GetProfile(ctx, profileID)
}

// SubmitStep processes one answer. The stored profile's current step,
// never the caller's claim, decides what the flow is waiting on.
func (o *Orchestrator) SubmitStep(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	first := o.catalog.First()
	def, known := o.catalog.ByName(req.StepName)
	if !known {
		o.logger.Debug().Str("step", req.StepName).Msg("Submission for unknown step")
		// The flow restarts at its first question.
		return o.reject(ctx, req, first, models.ReasonUnknownStep, first.Name), nil
	}

	// Everything past the first step needs an existing profile.
	if req.ProfileID == "" && req.StepName != first.Name {
		return o.reject(ctx, req, def, models.ReasonMissingProfileID, def.Name), nil
	}

	var profile *models.Profile
	expected := first.Name
	if req.ProfileID != "" {
		var err error
		profile, err = o.profiles.GetProfile(ctx, req.ProfileID)
		if errors.Is(err, interfaces.ErrNotFound) {
			return o.reject(ctx, req, def, models.ReasonMissingProfileID, def.Name), nil
		}
		if err != nil {
			return nil, err
		}
		if profile.Done() {
			return &SubmitResponse{
				ProfileID: profile.ID,
				Accepted:  false,
				Completed: true,
				Message:   "Your profile is already complete, there's nothing left to answer.",
			}, nil
		}
		expected = profile.CurrentStep
	}

	input := &validation.Input{
		StepName:       req.StepName,
		Answer:         req.Answer,
		Modality:       req.Modality,
		ExpectedStep:   expected,
		ProfileContext: o.contextSnippet(profile),
	}

	if def.Mode == models.ModeDynamicCatalog && req.StepName == expected {
		snap, err := o.snapshot.Snapshot(ctx, def.Name)
		if err != nil {
			o.logger.Warn().Err(err).Str("step", def.Name).Msg("Catalog snapshot unavailable")
			return o.reject(ctx, req, def, models.ReasonAIUnavailable, expected), nil
		}
		input.Snapshot = snap
	}

	outcome := o.pipeline.Validate(ctx, input)
	if !outcome.IsValid() {
		return o.reject(ctx, req, o.recoveryStep(def, expected, outcome.Reason()), outcome.Reason(), expected), nil
	}

	return o.accept(ctx, req, def, profile, outcome.Value())
}

// accept persists the validated value and composes the transition.
func (o *Orchestrator) accept(ctx context.Context, req *SubmitRequest, def models.StepDefinition, profile *models.Profile, value models.NormalizedValue) (*SubmitResponse, error) {
	next, hasNext := o.catalog.Next(def.Name)
	nextName := ""
	if hasNext {
		nextName = next.Name
	}

	if profile == nil {
		profile = &models.Profile{
			ID:             common.NewProfileID(),
			OwnerID:        req.OwnerID,
			Fields:         map[string]models.NormalizedValue{},
			CurrentStep:    nextName,
			CompletedSteps: []string{def.Name},
		}
		if !value.IsEmpty() {
			profile.Fields[def.Name] = value
		}
		if err := o.profiles.CreateOnFirstStep(ctx, profile); err != nil {
			return nil, err
		}
	} else {
		completed := profile.CompletedSteps
		if !profile.Completed(def.Name) {
			completed = append(append([]string{}, completed...), def.Name)
		}

		adv := interfaces.ProfileAdvance{
			ExpectedStep:   def.Name,
			NextStep:       nextName,
			CompletedSteps: completed,
		}
		if !value.IsEmpty() {
			adv.FieldName = def.Name
			adv.Value = value
		}

		updated, err := o.profiles.Advance(ctx, profile.ID, adv)
		if errors.Is(err, interfaces.ErrStaleStep) {
			// Another submission won the race; re-read and recover.
			fresh, gerr := o.profiles.GetProfile(ctx, profile.ID)
			if gerr != nil {
				return nil, gerr
			}
			return o.reject(ctx, req, o.recoveryStep(def, fresh.CurrentStep, models.ReasonOutOfOrder), models.ReasonOutOfOrder, fresh.CurrentStep), nil
		}
		if err != nil {
			return nil, err
		}
		profile = updated
	}

	index, _ := o.catalog.Index(def.Name)
	var nextDef *models.StepDefinition
	if hasNext {
		nextDef = &next
	}

	resp := &SubmitResponse{
		ProfileID:  profile.ID,
		Accepted:   true,
		NextStep:   nextName,
		IsLastStep: hasNext && o.catalog.IsLast(nextName),
		Completed:  !hasNext,
		Message:    o.composer.Transition(ctx, def, index, nextDef),
	}
	if !value.IsEmpty() {
		resp.NormalizedAnswer = value.Payload()
	}
	if nextDef != nil {
		prompt := nextDef.Prompt()
		resp.NextPrompt = &prompt
	}

	o.logger.Info().
		Str("profile_id", profile.ID).
		Str("step", def.Name).
		Str("next_step", nextName).
		Msg("Step accepted")
	return resp, nil
}

// reject composes a recovery message. The flow stays on the expected
// step; nothing is persisted.
func (o *Orchestrator) reject(ctx context.Context, req *SubmitRequest, def models.StepDefinition, reason models.ReasonCode, expected string) *SubmitResponse {
	o.logger.Debug().
		Str("profile_id", req.ProfileID).
		Str("step", req.StepName).
		Str("reason", string(reason)).
		Int("retry_count", req.RetryCount).
		Msg("Step rejected")

	resp := &SubmitResponse{
		ProfileID:  req.ProfileID,
		Accepted:   false,
		NextStep:   expected,
		IsLastStep: expected != "" && o.catalog.IsLast(expected),
		Message:    o.composer.Recovery(ctx, def, reason, req.RetryCount),
	}
	if expectedDef, ok := o.catalog.ByName(expected); ok {
		prompt := expectedDef.Prompt()
		resp.NextPrompt = &prompt
	}
	return resp
}

// recoveryStep picks which question a rejection should re-ask. An
// out-of-order submission re-asks the step the flow is waiting on, not
// the one the caller tried to jump to.
func (o *Orchestrator) recoveryStep(submitted models.StepDefinition, expected string, reason models.ReasonCode) models.StepDefinition {
	if reason == models.ReasonOutOfOrder && expected != "" {
		if def, ok := o.catalog.ByName(expected); ok {
			return def
		}
	}
	return submitted
}

// contextSnippet renders the most recent free-text answers into a short
// plain-text block for the adjudicator. Informational only.
func (o *Orchestrator) contextSnippet(profile *models.Profile) string {
	if profile == nil {
		return ""
	}

	limit := o.cfg.ContextFields
	if limit <= 0 {
		limit = 3
	}
	maxRunes := o.cfg.ContextMaxRunes
	if maxRunes <= 0 {
		maxRunes = 160
	}

	var lines []string
	for i := len(profile.CompletedSteps) - 1; i >= 0 && len(lines) < limit; i-- {
		name := profile.CompletedSteps[i]
		def, ok := o.catalog.ByName(name)
		if !ok || (def.Mode != models.ModeFreeAccept && def.Mode != models.ModeNameShape) {
			continue
		}
		value, ok := profile.Fields[name]
		if !ok || value.Text == "" {
			continue
		}
		lines = append(lines, name+": "+truncateRunes(value.Text, maxRunes))
	}

	// Restore flow order.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
