package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/services/onboarding"
)

// OnboardingHandler exposes the step-by-step intake flow over HTTP.
type OnboardingHandler struct {
	orchestrator *onboarding.Orchestrator
	logger       arbor.ILogger
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(orchestrator *onboarding.Orchestrator, logger arbor.ILogger) *OnboardingHandler {
	return &OnboardingHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// StartHandler returns the composed opening message and the first
// question of the flow.
// GET /api/onboarding/start
func (h *OnboardingHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.orchestrator.Start(r.Context()))
}

// SubmitStepHandler accepts one answer submission.
// POST /api/onboarding/steps
func (h *OnboardingHandler) SubmitStepHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req onboarding.SubmitRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.StepName == "" {
		WriteError(w, http.StatusBadRequest, "step_name is required")
		return
	}

	resp, err := h.orchestrator.SubmitStep(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Str("step", req.StepName).Msg("Step submission failed")
		WriteError(w, http.StatusInternalServerError, "step submission failed")
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// ProgressResponse reports how far a profile has come.
type ProgressResponse struct {
	ProfileID      string                            `json:"profile_id"`
	CurrentStep    string                            `json:"current_step,omitempty"`
	CompletedSteps []string                          `json:"completed_steps"`
	Completed      bool                              `json:"completed"`
	Fields         map[string]models.NormalizedValue `json:"fields"`
}

// ProgressHandler returns stored progress for a profile.
// GET /api/onboarding/profiles/{id}
func (h *OnboardingHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	profileID := profileIDFromPath(r.URL.Path)
	if profileID == "" {
		WriteError(w, http.StatusBadRequest, "profile id is required")
		return
	}

	profile, err := h.orchestrator.Progress(r.Context(), profileID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "profile not found")
		return
	}

	WriteJSON(w, http.StatusOK, &ProgressResponse{
		ProfileID:      profile.ID,
		CurrentStep:    profile.CurrentStep,
		CompletedSteps: profile.CompletedSteps,
		Completed:      profile.Done(),
		Fields:         profile.Fields,
	})
}

// FinalizeHandler runs the final submission for a profile.
// POST /api/onboarding/profiles/{id}/finalize
func (h *OnboardingHandler) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	profileID := profileIDFromPath(strings.TrimSuffix(r.URL.Path, "/finalize"))
	if profileID == "" {
		WriteError(w, http.StatusBadRequest, "profile id is required")
		return
	}

	resp, err := h.orchestrator.Finalize(r.Context(), profileID)
	if err != nil {
		h.logger.Error().Err(err).Str("profile_id", profileID).Msg("Finalize failed")
		WriteError(w, http.StatusInternalServerError, "final submission failed")
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// profileIDFromPath pulls the trailing id segment off a profiles route.
func profileIDFromPath(path string) string {
	path = strings.TrimSuffix(path, "/")
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[i+1:]
}
