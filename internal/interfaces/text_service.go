package interfaces

import (
	"context"

	"github.com/ternarybob/rogo/internal/models"
)

// AdjudicationRequest is one semantic check sent to the external
// text-understanding service. The request carries the step's question,
// the user's raw text and, when one exists, a closed target vocabulary
// the answer must resolve into.
type AdjudicationRequest struct {
	StepName string `json:"step_name"`
	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Vocabulary is the closed set of legal names for catalog/enum
	// resolution. Empty for plain sanity checks.
	Vocabulary []string `json:"vocabulary,omitempty"`

	// ProfileContext is an informational snippet of already-collected
	// fields. The adjudicator must never hard-block on it.
	ProfileContext string `json:"profile_context,omitempty"`
}

// AdjudicationResult is the small closed result schema accepted back
// from the service. Anything outside this schema is treated as an
// unusable response by the caller.
type AdjudicationResult struct {
	Valid  bool              `json:"valid"`
	Reason models.ReasonCode `json:"reason_code,omitempty"`

	// Matched holds the vocabulary names the answer resolved to, in
	// answer order. Populated only for vocabulary requests.
	Matched []string `json:"matched,omitempty"`
}

// TextService - outbound interface to the external text-understanding
// and text-generation collaborator. One call per validation or message
// request; the implementation carries its own timeout and never retries.
type TextService interface {
	// Adjudicate runs one semantic check. A transport error, timeout
	// or unparseable response surfaces as a non-nil error; the caller
	// decides fail-open versus fail-closed per validation mode.
	Adjudicate(ctx context.Context, req *AdjudicationRequest) (*AdjudicationResult, error)

	// Compose generates one short piece of user-facing natural
	// language from the instruction. Errors mean the caller should
	// fall back to its deterministic templates.
	Compose(ctx context.Context, instruction string) (string, error)
}
