package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// Soft reason codes the service may return for open-ended descriptive
// steps. The adjudicator is a sanity filter, never a style critic, so
// these are overridden back to VALID on receipt.
var softReasons = map[string]bool{
	"TOO_GENERIC":       true,
	"VAGUE":             true,
	"COULD_BE_LONGER":   true,
	"COULD_IMPROVE":     true,
	"NEEDS_MORE_DETAIL": true,
}

// Hard reason codes an adjudication may legitimately return.
var hardReasons = map[models.ReasonCode]bool{
	models.ReasonGibberish:  true,
	models.ReasonIrrelevant: true,
	models.ReasonSpam:       true,
	models.ReasonUnrelated:  true,
	models.ReasonLowEffort:  true,
}

// Service implements the TextService interface over the provider
// factory. One outbound call per Adjudicate/Compose invocation, each
// bounded by its own short timeout from config.
type Service struct {
	factory *ProviderFactory
	cfg     *common.OnboardConfig
	logger  arbor.ILogger
}

// NewService creates a new text service
func NewService(factory *ProviderFactory, cfg *common.OnboardConfig, logger arbor.ILogger) *Service {
	return &Service{
		factory: factory,
		cfg:     cfg,
		logger:  logger,
	}
}

// Adjudicate runs one semantic check against the configured provider.
// Transport failures, timeouts and out-of-schema responses surface as
// errors; the validation pipeline decides fail-open versus fail-closed.
func (s *Service) Adjudicate(ctx context.Context, req *interfaces.AdjudicationRequest) (*interfaces.AdjudicationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GetAdjudicateTimeout())
	defer cancel()

	resp, err := s.factory.GenerateContent(ctx, &ContentRequest{
		Prompt:      buildAdjudicationPrompt(req),
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("adjudication call failed: %w", err)
	}

	result, err := parseAdjudication(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("adjudication response unusable: %w", err)
	}

	s.logger.Debug().
		Str("step", req.StepName).
		Bool("valid", result.Valid).
		Str("reason", string(result.Reason)).
		Int("matched", len(result.Matched)).
		Msg("Adjudication result")

	return result, nil
}

// Compose generates one short user-facing message. Temperature runs
// high so the same inputs do not produce the same wording twice.
func (s *Service) Compose(ctx context.Context, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GetComposeTimeout())
	defer cancel()

	resp, err := s.factory.GenerateContent(ctx, &ContentRequest{
		Prompt:      instruction,
		Temperature: 0.9,
		MaxTokens:   256,
	})
	if err != nil {
		return "", fmt.Errorf("composition call failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("empty composition response")
	}
	return text, nil
}

// buildAdjudicationPrompt renders the closed-schema adjudication request.
func buildAdjudicationPrompt(req *interfaces.AdjudicationRequest) string {
	var b strings.Builder

	b.WriteString("You are validating one answer in a profile setup conversation.\n\n")
	fmt.Fprintf(&b, "Question asked: %s\n", req.Question)
	fmt.Fprintf(&b, "User's answer: %s\n", req.Answer)

	if req.ProfileContext != "" {
		fmt.Fprintf(&b, "\nWhat we already know about the user (context only, never a reason to reject):\n%s\n", req.ProfileContext)
	}

	if len(req.Vocabulary) > 0 {
		fmt.Fprintf(&b, "\nAllowed values (closed list): %s\n", strings.Join(req.Vocabulary, ", "))
		b.WriteString(`
Task: map the answer onto the allowed values. Accept synonyms, casing
differences and partial phrasings, but never invent values outside the list.

Output format (JSON only, no markdown fences):
{"status": "VALID", "reason_code": "", "matched": ["Exact Allowed Value"]}
or
{"status": "INVALID", "reason_code": "UNRELATED", "matched": []}

Valid reason codes: GIBBERISH, IRRELEVANT, SPAM, UNRELATED, LOW_EFFORT
`)
	} else {
		b.WriteString(`
Task: decide only whether this is a real answer to the question. Reject
blatant nonsense, keyboard mashing, spam or text unrelated to the
question. Do NOT judge quality, style, grammar or completeness - a short
honest answer is VALID.

Output format (JSON only, no markdown fences):
{"status": "VALID", "reason_code": ""}
or
{"status": "INVALID", "reason_code": "GIBBERISH"}

Valid reason codes: GIBBERISH, IRRELEVANT, SPAM, UNRELATED, LOW_EFFORT
`)
	}

	return b.String()
}

// adjudicationResponse is the wire shape accepted back from the service.
type adjudicationResponse struct {
	Status     string   `json:"status"`
	ReasonCode string   `json:"reason_code"`
	Matched    []string `json:"matched"`
}

// parseAdjudication parses a response into the closed result schema.
// Anything outside the schema is an error, which callers map to the
// mode's fail-open or fail-closed behavior.
func parseAdjudication(raw string) (*interfaces.AdjudicationResult, error) {
	cleaned := cleanMarkdownFences(raw)

	var resp adjudicationResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	switch strings.ToUpper(strings.TrimSpace(resp.Status)) {
	case "VALID":
		return &interfaces.AdjudicationResult{Valid: true, Matched: resp.Matched}, nil

	case "INVALID":
		code := strings.ToUpper(strings.TrimSpace(resp.ReasonCode))
		if softReasons[code] {
			// Sanity filter, not a style critic.
			return &interfaces.AdjudicationResult{Valid: true, Matched: resp.Matched}, nil
		}
		reason := models.ReasonCode(code)
		if !hardReasons[reason] {
			return nil, fmt.Errorf("reason code %q outside closed vocabulary", resp.ReasonCode)
		}
		return &interfaces.AdjudicationResult{Valid: false, Reason: reason}, nil

	default:
		return nil, fmt.Errorf("status %q outside closed vocabulary", resp.Status)
	}
}

var fencePattern = regexp.MustCompile(`(?s)^\s*` + "```" + `(?:json|JSON)?\s*\n?(.*?)\n?\s*` + "```" + `\s*$`)

// cleanMarkdownFences removes markdown code fences from a response
func cleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)

	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
