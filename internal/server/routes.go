package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Onboarding flow
	mux.HandleFunc("/api/onboarding/start", s.app.OnboardingHandler.StartHandler)
	mux.HandleFunc("/api/onboarding/steps", s.app.OnboardingHandler.SubmitStepHandler)
	mux.HandleFunc("/api/onboarding/profiles/", s.handleProfileRoutes)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Everything else is a JSON 404
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleProfileRoutes dispatches /api/onboarding/profiles/{id} and
// /api/onboarding/profiles/{id}/finalize
func (s *Server) handleProfileRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/finalize") {
		s.app.OnboardingHandler.FinalizeHandler(w, r)
		return
	}
	s.app.OnboardingHandler.ProgressHandler(w, r)
}
