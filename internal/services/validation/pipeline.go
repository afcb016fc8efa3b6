// -----------------------------------------------------------------------
// Package validation is the three-layer answer decision engine:
// structural checks, deterministic rule/catalog matching, then semantic
// adjudication by the external text-understanding service
// -----------------------------------------------------------------------

package validation

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/services/catalogs"
	"github.com/ternarybob/rogo/internal/services/steps"
)

// errNoTextService marks a pipeline configured without a semantic
// service. Each mode treats it like an unreachable service.
var errNoTextService = errors.New("no text service configured")

// Input is one submission to validate. The pipeline itself is
// side-effect free: it never persists, never composes messages, and
// never caches the catalog snapshot across calls.
type Input struct {
	StepName string
	Answer   models.RawAnswer
	Modality models.InputModality

	// ExpectedStep is the step the flow is actually waiting on. For an
	// existing profile this is the stored current_step, which overrides
	// any caller claim. Empty disables the out-of-order check (used by
	// the finalize re-validation path).
	ExpectedStep string

	// ProfileContext is an informational snippet of already-collected
	// fields, forwarded to the adjudicator. Never a reason to reject.
	ProfileContext string

	// Snapshot is the caller-supplied catalog snapshot for
	// dynamic-catalog steps.
	Snapshot *models.CatalogSnapshot
}

// Pipeline validates one step submission per call.
type Pipeline struct {
	catalog  *steps.Catalog
	text     interfaces.TextService
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewPipeline creates a validation pipeline. The text service may be
// nil, in which case every semantic check follows its mode's
// fail-open or fail-closed rule.
func NewPipeline(catalog *steps.Catalog, text interfaces.TextService, logger arbor.ILogger) *Pipeline {
	return &Pipeline{
		catalog:  catalog,
		text:     text,
		validate: validator.New(),
		logger:   logger,
	}
}

// Validate runs the three layers in order and returns exactly one
// outcome: VALID with a normalized value, or INVALID with one reason
// code from the closed taxonomy.
func (p *Pipeline) Validate(ctx context.Context, in *Input) models.ValidationOutcome {
	def, ok := p.catalog.ByName(in.StepName)
	if !ok {
		return models.Invalid(models.ReasonUnknownStep)
	}

	if in.ExpectedStep != "" && in.StepName != in.ExpectedStep {
		p.logger.Debug().
			Str("submitted", in.StepName).
			Str("expected", in.ExpectedStep).
			Msg("Out-of-order step submission")
		return models.Invalid(models.ReasonOutOfOrder)
	}

	value, reason := shapeCheck(def, in.Answer)
	if reason != "" {
		return models.Invalid(reason)
	}
	if value.empty() {
		// Optional step skipped.
		return models.Valid(models.NormalizedValue{})
	}

	switch def.Mode {
	case models.ModeNameShape:
		return p.checkNameShape(ctx, def, value, in)
	case models.ModeAddressShape:
		return p.checkAddressShape(value)
	case models.ModeURLOnly:
		return p.checkURL(def, value)
	case models.ModeStrictCatalog:
		return p.checkStrictCatalog(ctx, def, value, in)
	case models.ModeDynamicCatalog:
		return p.checkDynamicCatalog(ctx, def, value, in)
	case models.ModeFreeAccept:
		return p.checkFreeAccept(ctx, def, value, in)
	default:
		p.logger.Warn().Str("step", def.Name).Str("mode", string(def.Mode)).Msg("Step declares unknown validation mode")
		return models.Invalid(models.ReasonUnknownStep)
	}
}

// checkNameShape runs the full-name rule, then the semantic gate. The
// semantic layer can still reject a rule-valid name; when it is
// unreachable the rule result stands (fail open).
func (p *Pipeline) checkNameShape(ctx context.Context, def models.StepDefinition, value shaped, in *Input) models.ValidationOutcome {
	name := normalizeSpaces(value.text)

	if !validFullName(name) {
		return models.Invalid(models.ReasonInvalidFullName)
	}

	if def.Semantic {
		result, err := p.adjudicate(ctx, def, name, nil, "")
		if err == nil && !result.Valid {
			return models.Invalid(models.ReasonInvalidFullName)
		}
	}

	return models.Valid(models.TextValue(name))
}

// checkAddressShape is pure rules: the semantic layer is never invoked
// for email addresses.
func (p *Pipeline) checkAddressShape(value shaped) models.ValidationOutcome {
	if err := p.validate.Var(value.text, "required,email"); err != nil {
		return models.Invalid(models.ReasonInvalidEmail)
	}
	return models.Valid(models.TextValue(value.text))
}

// checkURL enforces the step's URL grammar for scalar steps and the
// declared array policy for url_array steps.
func (p *Pipeline) checkURL(def models.StepDefinition, value shaped) models.ValidationOutcome {
	matches := func(candidate string) bool {
		if def.Grammar == models.URLGrammarLinkedIn {
			return validLinkedInProfile(candidate)
		}
		return validURL(candidate)
	}

	if !def.Shape.IsArray() {
		if !matches(value.text) {
			return models.Invalid(models.ReasonInvalidURL)
		}
		return models.Valid(models.TextValue(value.text))
	}

	candidates := value.list
	if !value.isList {
		candidates = splitURLCandidates(value.text)
	}
	var valid, invalid []string
	for _, candidate := range candidates {
		if matches(candidate) {
			valid = append(valid, candidate)
		} else {
			invalid = append(invalid, candidate)
		}
	}
	valid = dedupePreserveOrder(valid)

	if def.ArrayPolicy == models.URLPolicyAllValid && len(invalid) > 0 {
		offenders := invalid
		if len(offenders) > 3 {
			offenders = offenders[:3]
		}
		p.logger.Debug().
			Str("step", def.Name).
			Strs("invalid_urls", offenders).
			Msg("URL list rejected under all-valid policy")
		return models.Invalid(models.ReasonInvalidURL)
	}

	if len(valid) == 0 {
		return models.Invalid(models.ReasonInvalidURL)
	}

	return models.Valid(models.ListValue(valid))
}

// checkStrictCatalog matches values against the step's static
// allowed-value set, falling through to semantic resolution for
// unmatched free text. An unreachable service with nothing matched is
// a hard failure: there is no safe non-semantic normalization.
func (p *Pipeline) checkStrictCatalog(ctx context.Context, def models.StepDefinition, value shaped, in *Input) models.ValidationOutcome {
	canonical := make(map[string]string, len(def.AllowedValues))
	for _, allowed := range def.AllowedValues {
		canonical[strings.ToLower(allowed)] = allowed
	}

	candidates := value.values(def.SplitConjunctions)

	var matched, unmatched []string
	for _, candidate := range candidates {
		if name, ok := canonical[strings.ToLower(candidate)]; ok {
			matched = append(matched, name)
		} else {
			unmatched = append(unmatched, candidate)
		}
	}
	matched = dedupePreserveOrder(matched)

	if in.Modality == models.ModalityText && len(unmatched) > 0 {
		result, err := p.adjudicate(ctx, def, strings.Join(unmatched, ", "), def.AllowedValues, "")
		switch {
		case err != nil:
			if len(matched) == 0 {
				return models.Invalid(models.ReasonAIUnavailable)
			}
			// Keep what matched deterministically.
		case !result.Valid:
			if len(matched) == 0 {
				return models.Invalid(result.Reason)
			}
		default:
			for _, name := range result.Matched {
				if canon, ok := canonical[strings.ToLower(name)]; ok {
					matched = append(matched, canon)
				}
			}
			matched = dedupePreserveOrder(matched)
		}
	}

	if len(matched) == 0 {
		return models.Invalid(models.ReasonEnumInvalid)
	}
	return models.Valid(models.ListValue(matched))
}

// checkDynamicCatalog resolves values against the caller-supplied
// snapshot: selections by id then slug, free text through the semantic
// layer with the catalog names as the closed target vocabulary.
func (p *Pipeline) checkDynamicCatalog(ctx context.Context, def models.StepDefinition, value shaped, in *Input) models.ValidationOutcome {
	resolver := catalogs.NewResolver(in.Snapshot)

	if in.Modality == models.ModalitySelection {
		resolved := resolver.ResolveSelection(value.values(false))
		if len(resolved) == 0 {
			return models.Invalid(models.ReasonEnumInvalid)
		}
		return models.Valid(models.EntriesValue(resolved))
	}

	// Free text requires semantic resolution; without it there is no
	// safe normalization to fall back to (fail closed).
	result, err := p.adjudicate(ctx, def, value.text, resolver.Names(), "")
	if err != nil {
		return models.Invalid(models.ReasonAIUnavailable)
	}
	if !result.Valid {
		return models.Invalid(result.Reason)
	}

	resolved := resolver.ResolveNames(result.Matched)
	if len(resolved) == 0 {
		return models.Invalid(models.ReasonEnumNoMatch)
	}
	return models.Valid(models.EntriesValue(resolved))
}

// checkFreeAccept rejects structural gibberish, asks the semantic
// layer to veto blatant nonsense (never to judge quality), and
// normalizes conjunction-split steps to a ", " separated list.
func (p *Pipeline) checkFreeAccept(ctx context.Context, def models.StepDefinition, value shaped, in *Input) models.ValidationOutcome {
	if looksGibberish(value.text) {
		return models.Invalid(models.ReasonGibberish)
	}

	if def.Semantic {
		result, err := p.adjudicate(ctx, def, value.text, nil, in.ProfileContext)
		if err == nil && !result.Valid {
			return models.Invalid(result.Reason)
		}
		// Unreachable or unusable service: fail open with the
		// shape-normalized value.
	}

	text := value.text
	if def.SplitConjunctions {
		if parts := splitConjunctions(text); len(parts) > 0 {
			text = strings.Join(parts, ", ")
		}
	}

	return models.Valid(models.TextValue(text))
}

// adjudicate makes the single semantic-service call for this
// validation request. A nil service behaves like an unreachable one.
func (p *Pipeline) adjudicate(ctx context.Context, def models.StepDefinition, answer string, vocabulary []string, profileContext string) (*interfaces.AdjudicationResult, error) {
	if p.text == nil {
		return nil, errNoTextService
	}

	result, err := p.text.Adjudicate(ctx, &interfaces.AdjudicationRequest{
		StepName:       def.Name,
		Question:       def.Question,
		Answer:         answer,
		Vocabulary:     vocabulary,
		ProfileContext: profileContext,
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("step", def.Name).Msg("Semantic adjudication unavailable")
		return nil, err
	}
	return result, nil
}
